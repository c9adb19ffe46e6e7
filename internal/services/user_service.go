package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/kaskelas/kas-kelas-be/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	ListUsers() ([]models.User, error)
	Authenticate(nim, password string) (models.User, error)
	ChangePassword(id, currentPassword, newPassword string) error
	ResetPassword(id string) (models.User, error)
	CreateUser(nim, nama string, role models.Role) (models.User, error)
}

// UserService provides business logic for the member roster and
// credentials. Every member's initial password is their NIM.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, nim, nama, role, password_hash, password_changed, created_at"

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.NIM, &user.Nama, &user.Role, &user.PasswordHash, &user.PasswordChanged, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	return scanUser(s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// GetUserByNIM retrieves a single user by their student ID.
func (s *UserService) GetUserByNIM(nim string) (models.User, error) {
	return scanUser(s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE nim = ?", nim))
}

// ListUsers returns the full roster ordered by NIM.
func (s *UserService) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT " + userColumns + " FROM users ORDER BY nim ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.NIM, &u.Nama, &u.Role, &u.PasswordHash, &u.PasswordChanged, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.PasswordHash = ""
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateUser adds a member to the roster. The initial password is the
// NIM itself, flagged so the client forces a change on first login.
func (s *UserService) CreateUser(nim, nama string, role models.Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, fmt.Errorf("invalid role %q", role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(nim), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		NIM:          nim,
		Nama:         nama,
		Role:         role,
		PasswordHash: string(hashedPassword),
	}

	_, err = s.db.Exec(
		"INSERT INTO users (id, nim, nama, role, password_hash, password_changed) VALUES (?, ?, ?, ?, ?, 0)",
		user.ID, user.NIM, user.Nama, user.Role, user.PasswordHash,
	)
	if err != nil {
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a member's credentials.
func (s *UserService) Authenticate(nim, password string) (models.User, error) {
	user, err := s.GetUserByNIM(nim)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// ChangePassword verifies the current password, then sets a new one and
// clears the first-login flag.
func (s *UserService) ChangePassword(id, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ?, password_changed = 1 WHERE id = ?", string(hashedPassword), id)
	return err
}

// ResetPassword sets a user's password back to their NIM and re-flags
// them for a forced change. Admin only at the routing layer.
func (s *UserService) ResetPassword(id string) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.NIM), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ?, password_changed = 0 WHERE id = ?", string(hashedPassword), id)
	if err != nil {
		return models.User{}, err
	}

	user.PasswordHash = ""
	user.PasswordChanged = false
	return user, nil
}

// SeedRoster inserts the class roster when the users table is empty.
func (s *UserService) SeedRoster(roster []models.User) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, u := range roster {
		if _, err := s.CreateUser(u.NIM, u.Nama, u.Role); err != nil {
			return fmt.Errorf("seed user %s: %w", u.NIM, err)
		}
	}
	log.Info().Int("users", len(roster)).Msg("Seeded class roster")
	return nil
}
