package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kaskelas/kas-kelas-be/internal/models"
)

// RecordOutcome tells the handler which status to return for a payment
// write under the top-up policy.
type RecordOutcome int

const (
	// OutcomeCreated: no row existed for the week, one was inserted.
	OutcomeCreated RecordOutcome = iota
	// OutcomeUpdated: an underpaid row was topped up to the new nominal.
	OutcomeUpdated
	// OutcomeUnchanged: the week was already paid at or above the
	// submitted nominal; the call is an idempotent success.
	OutcomeUnchanged
)

// PaymentServiceProvider defines the interface for the payment ledger.
type PaymentServiceProvider interface {
	List(bulan, tahun int) ([]models.Payment, error)
	ListByUser(userID string) ([]models.Payment, error)
	Record(userID string, bulan, tahun, mingguKe int, nominal int64) (models.Payment, RecordOutcome, error)
	UpdateNominal(id string, nominal int64) (models.Payment, error)
	Delete(id string) error
	Matrix(bulan, tahun int) ([]models.MatrixRow, error)
	SettleMonth(userID string, bulan, tahun int) (models.SettleResult, error)
}

// PaymentService provides business logic for the dues ledger.
type PaymentService struct {
	db       *sql.DB
	settings SettingsServiceProvider
	caches   *Caches
	events   EventPublisher
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(db *sql.DB, settings SettingsServiceProvider, caches *Caches, events EventPublisher) *PaymentService {
	return &PaymentService{db: db, settings: settings, caches: caches, events: events}
}

// List returns ledger entries joined with the payer's identity, newest
// first. Pass zeros to skip the period filter.
func (s *PaymentService) List(bulan, tahun int) ([]models.Payment, error) {
	query := `SELECT p.id, p.user_id, u.nim, u.nama, p.bulan, p.tahun, p.minggu_ke, p.nominal, p.created_at, p.updated_at
		FROM payments p JOIN users u ON u.id = p.user_id`
	args := []interface{}{}
	if bulan > 0 && tahun > 0 {
		query += " WHERE p.bulan = ? AND p.tahun = ?"
		args = append(args, bulan, tahun)
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

// ListByUser returns one user's full payment history, newest period
// first, weeks ascending within a period.
func (s *PaymentService) ListByUser(userID string) ([]models.Payment, error) {
	rows, err := s.db.Query(`SELECT p.id, p.user_id, u.nim, u.nama, p.bulan, p.tahun, p.minggu_ke, p.nominal, p.created_at, p.updated_at
		FROM payments p JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ?
		ORDER BY p.tahun DESC, p.bulan DESC, p.minggu_ke ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func scanPayments(rows *sql.Rows) ([]models.Payment, error) {
	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.NIM, &p.Nama, &p.Bulan, &p.Tahun, &p.MingguKe, &p.Nominal, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *PaymentService) getByID(id string) (models.Payment, error) {
	var p models.Payment
	err := s.db.QueryRow(`SELECT p.id, p.user_id, u.nim, u.nama, p.bulan, p.tahun, p.minggu_ke, p.nominal, p.created_at, p.updated_at
		FROM payments p JOIN users u ON u.id = p.user_id WHERE p.id = ?`, id).
		Scan(&p.ID, &p.UserID, &p.NIM, &p.Nama, &p.Bulan, &p.Tahun, &p.MingguKe, &p.Nominal, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Payment{}, ErrNotFound
	}
	if err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

// Record stores a weekly payment under the top-up policy: create when
// the week has no row, raise the nominal when the existing row is below
// the submitted amount, otherwise leave the ledger untouched.
func (s *PaymentService) Record(userID string, bulan, tahun, mingguKe int, nominal int64) (models.Payment, RecordOutcome, error) {
	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID).Scan(&exists); err != nil {
		return models.Payment{}, 0, err
	}
	if !exists {
		return models.Payment{}, 0, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	var existingID string
	var existingNominal int64
	err := s.db.QueryRow(
		"SELECT id, nominal FROM payments WHERE user_id = ? AND bulan = ? AND tahun = ? AND minggu_ke = ?",
		userID, bulan, tahun, mingguKe,
	).Scan(&existingID, &existingNominal)

	switch {
	case err == sql.ErrNoRows:
		id := uuid.New().String()
		_, err = s.db.Exec(
			"INSERT INTO payments (id, user_id, bulan, tahun, minggu_ke, nominal) VALUES (?, ?, ?, ?, ?, ?)",
			id, userID, bulan, tahun, mingguKe, nominal,
		)
		if err != nil {
			return models.Payment{}, 0, err
		}
		s.caches.InvalidatePeriod(bulan, tahun)
		s.publish("payment.recorded", id, bulan, tahun)
		p, err := s.getByID(id)
		return p, OutcomeCreated, err

	case err != nil:
		return models.Payment{}, 0, err

	case existingNominal < nominal:
		_, err = s.db.Exec("UPDATE payments SET nominal = ?, updated_at = ? WHERE id = ?", nominal, time.Now().UTC(), existingID)
		if err != nil {
			return models.Payment{}, 0, err
		}
		s.caches.InvalidatePeriod(bulan, tahun)
		s.publish("payment.updated", existingID, bulan, tahun)
		p, err := s.getByID(existingID)
		return p, OutcomeUpdated, err

	default:
		p, err := s.getByID(existingID)
		return p, OutcomeUnchanged, err
	}
}

// UpdateNominal sets a ledger entry's nominal to an exact value.
func (s *PaymentService) UpdateNominal(id string, nominal int64) (models.Payment, error) {
	p, err := s.getByID(id)
	if err != nil {
		return models.Payment{}, err
	}
	if _, err := s.db.Exec("UPDATE payments SET nominal = ?, updated_at = ? WHERE id = ?", nominal, time.Now().UTC(), id); err != nil {
		return models.Payment{}, err
	}
	s.caches.InvalidatePeriod(p.Bulan, p.Tahun)
	s.publish("payment.updated", id, p.Bulan, p.Tahun)
	return s.getByID(id)
}

// Delete removes a ledger entry.
func (s *PaymentService) Delete(id string) error {
	p, err := s.getByID(id)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM payments WHERE id = ?", id); err != nil {
		return err
	}
	s.caches.InvalidatePeriod(p.Bulan, p.Tahun)
	s.publish("payment.deleted", id, p.Bulan, p.Tahun)
	return nil
}

// periodPayments returns the summed nominal per user per week for one
// period. Both the matrix and the arrears calculator read through this.
func periodPayments(db *sql.DB, bulan, tahun int) (map[string]map[int]int64, error) {
	rows, err := db.Query(
		"SELECT user_id, minggu_ke, SUM(nominal) FROM payments WHERE bulan = ? AND tahun = ? GROUP BY user_id, minggu_ke",
		bulan, tahun,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paid := make(map[string]map[int]int64)
	for rows.Next() {
		var userID string
		var week int
		var total int64
		if err := rows.Scan(&userID, &week, &total); err != nil {
			return nil, err
		}
		if paid[userID] == nil {
			paid[userID] = make(map[int]int64)
		}
		paid[userID][week] = total
	}
	return paid, rows.Err()
}

// allUsersByName returns every user (admins included) ordered by name.
func allUsersByName(db *sql.DB) ([]models.User, error) {
	rows, err := db.Query("SELECT id, nim, nama FROM users ORDER BY nama ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.NIM, &u.Nama); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Matrix returns the per-week payment grid for every user in the period.
func (s *PaymentService) Matrix(bulan, tahun int) ([]models.MatrixRow, error) {
	users, err := allUsersByName(s.db)
	if err != nil {
		return nil, err
	}
	paid, err := periodPayments(s.db, bulan, tahun)
	if err != nil {
		return nil, err
	}

	matrix := make([]models.MatrixRow, 0, len(users))
	for _, u := range users {
		weeks := paid[u.ID]
		matrix = append(matrix, models.MatrixRow{
			ID:   u.ID,
			NIM:  u.NIM,
			Nama: u.Nama,
			M1:   weeks[1],
			M2:   weeks[2],
			M3:   weeks[3],
			M4:   weeks[4],
			M5:   weeks[5],
		})
	}
	return matrix, nil
}

// SettleMonth pays off every remaining week of a period for one user:
// missing weeks get a full-fee row, underpaid weeks are topped up to the
// fee. Each week-write commits independently; retrying is idempotent.
func (s *PaymentService) SettleMonth(userID string, bulan, tahun int) (models.SettleResult, error) {
	fee, err := s.settings.Fee(bulan, tahun)
	if err != nil {
		return models.SettleResult{}, err
	}
	if fee <= 0 {
		return models.SettleResult{}, ErrFeeNotConfigured
	}
	weeks, err := s.settings.WeekCount(bulan, tahun)
	if err != nil {
		return models.SettleResult{}, err
	}

	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID).Scan(&exists); err != nil {
		return models.SettleResult{}, err
	}
	if !exists {
		return models.SettleResult{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	paid, err := periodPayments(s.db, bulan, tahun)
	if err != nil {
		return models.SettleResult{}, err
	}
	userPaid := paid[userID]

	var result models.SettleResult
	for week := 1; week <= weeks; week++ {
		// Row existence, not amount, decides insert vs update: a
		// recorded zero-nominal week must be topped up in place or the
		// insert trips the per-week UNIQUE constraint.
		already, exists := userPaid[week]
		if already >= fee {
			continue
		}
		if exists {
			_, err = s.db.Exec(
				"UPDATE payments SET nominal = ?, updated_at = ? WHERE user_id = ? AND bulan = ? AND tahun = ? AND minggu_ke = ?",
				fee, time.Now().UTC(), userID, bulan, tahun, week,
			)
			if err != nil {
				return result, fmt.Errorf("top up week %d: %w", week, err)
			}
			result.WeeksUpdated++
			result.TotalAmount += fee - already
			continue
		}
		_, err = s.db.Exec(
			"INSERT INTO payments (id, user_id, bulan, tahun, minggu_ke, nominal) VALUES (?, ?, ?, ?, ?, ?)",
			uuid.New().String(), userID, bulan, tahun, week, fee,
		)
		if err != nil {
			return result, fmt.Errorf("pay week %d: %w", week, err)
		}
		result.WeeksPaid++
		result.TotalAmount += fee
	}

	if result.WeeksPaid > 0 || result.WeeksUpdated > 0 {
		s.caches.InvalidatePeriod(bulan, tahun)
		s.publish("payment.recorded", userID, bulan, tahun)
	}
	return result, nil
}

func (s *PaymentService) publish(eventType, id string, bulan, tahun int) {
	if s.events == nil {
		return
	}
	s.events.Publish(eventType, map[string]interface{}{"id": id, "bulan": bulan, "tahun": tahun})
}
