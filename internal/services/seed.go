package services

import "github.com/kaskelas/kas-kelas-be/internal/models"

// DefaultRoster is the class list installed on first run when seeding
// is enabled. The treasurers carry the admin role; everyone's initial
// password is their NIM.
func DefaultRoster() []models.User {
	return []models.User{
		{NIM: "240602001", Nama: "ADITYA PRATAMA", Role: models.RoleMember},
		{NIM: "240602002", Nama: "AYU LESTARI", Role: models.RoleMember},
		{NIM: "240602003", Nama: "BAGUS SAPUTRA", Role: models.RoleMember},
		{NIM: "240602004", Nama: "CITRA DEWI", Role: models.RoleAdmin}, // Bendahara
		{NIM: "240602005", Nama: "DIAN PERMATA", Role: models.RoleMember},
		{NIM: "240602006", Nama: "FAJAR HIDAYAT", Role: models.RoleAdmin}, // Bendahara
		{NIM: "240602007", Nama: "GITA RAHAYU", Role: models.RoleMember},
		{NIM: "240602008", Nama: "HENDRA WIJAYA", Role: models.RoleMember},
		{NIM: "240602009", Nama: "INDAH SARI", Role: models.RoleMember},
		{NIM: "240602010", Nama: "JOKO SUSILO", Role: models.RoleMember},
		{NIM: "240602011", Nama: "KARTIKA PUTRI", Role: models.RoleMember},
		{NIM: "240602012", Nama: "LUKMAN HAKIM", Role: models.RoleMember},
	}
}
