package services

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/kaskelas/kas-kelas-be/internal/models"
	"github.com/rs/zerolog/log"
)

// ExpenseServiceProvider defines the interface for the expense ledger.
type ExpenseServiceProvider interface {
	List(bulan, tahun int) ([]models.Expense, error)
	Get(id string) (models.Expense, error)
	Create(judul string, nominal int64, tanggal time.Time, receipt *Receipt) (models.Expense, error)
	Update(id string, judul *string, nominal *int64, tanggal *time.Time, receipt *Receipt) (models.Expense, error)
	Delete(id string) error
}

// Receipt is an uploaded receipt image.
type Receipt struct {
	Filename string
	Data     io.Reader
}

// ExpenseService provides business logic for the expense ledger and the
// receipt files it owns.
type ExpenseService struct {
	db        *sql.DB
	caches    *Caches
	events    EventPublisher
	uploadDir string
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(db *sql.DB, caches *Caches, events EventPublisher, uploadDir string) *ExpenseService {
	return &ExpenseService{db: db, caches: caches, events: events, uploadDir: uploadDir}
}

// List returns expenses, newest spend date first. Pass zeros to skip
// the period filter; the filter applies to tanggal, not created_at.
func (s *ExpenseService) List(bulan, tahun int) ([]models.Expense, error) {
	query := "SELECT id, judul, nominal, tanggal, foto_path, created_at, updated_at FROM expenses"
	args := []interface{}{}
	if bulan > 0 && tahun > 0 {
		query += " WHERE CAST(strftime('%m', tanggal) AS INTEGER) = ? AND CAST(strftime('%Y', tanggal) AS INTEGER) = ?"
		args = append(args, bulan, tahun)
	}
	query += " ORDER BY tanggal DESC, created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Judul, &e.Nominal, &e.Tanggal, &e.FotoPath, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// Get retrieves a single expense.
func (s *ExpenseService) Get(id string) (models.Expense, error) {
	var e models.Expense
	err := s.db.QueryRow("SELECT id, judul, nominal, tanggal, foto_path, created_at, updated_at FROM expenses WHERE id = ?", id).
		Scan(&e.ID, &e.Judul, &e.Nominal, &e.Tanggal, &e.FotoPath, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Expense{}, ErrNotFound
	}
	if err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

// Create records a new expense, storing the receipt image when one is
// attached.
func (s *ExpenseService) Create(judul string, nominal int64, tanggal time.Time, receipt *Receipt) (models.Expense, error) {
	var fotoPath *string
	if receipt != nil {
		p, err := s.saveReceipt(receipt)
		if err != nil {
			return models.Expense{}, err
		}
		fotoPath = &p
	}

	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO expenses (id, judul, nominal, tanggal, foto_path) VALUES (?, ?, ?, ?, ?)",
		id, judul, nominal, tanggal, fotoPath,
	)
	if err != nil {
		return models.Expense{}, err
	}

	s.caches.InvalidateDashboard()
	if s.events != nil {
		s.events.Publish("expense.recorded", map[string]string{"id": id})
	}
	return s.Get(id)
}

// Update modifies an expense; nil fields are left untouched. A new
// receipt replaces (and removes) the old file.
func (s *ExpenseService) Update(id string, judul *string, nominal *int64, tanggal *time.Time, receipt *Receipt) (models.Expense, error) {
	e, err := s.Get(id)
	if err != nil {
		return models.Expense{}, err
	}

	if judul != nil {
		e.Judul = *judul
	}
	if nominal != nil {
		e.Nominal = *nominal
	}
	if tanggal != nil {
		e.Tanggal = *tanggal
	}
	if receipt != nil {
		if e.FotoPath != nil {
			s.removeReceipt(*e.FotoPath)
		}
		p, err := s.saveReceipt(receipt)
		if err != nil {
			return models.Expense{}, err
		}
		e.FotoPath = &p
	}

	_, err = s.db.Exec(
		"UPDATE expenses SET judul = ?, nominal = ?, tanggal = ?, foto_path = ?, updated_at = ? WHERE id = ?",
		e.Judul, e.Nominal, e.Tanggal, e.FotoPath, time.Now().UTC(), id,
	)
	if err != nil {
		return models.Expense{}, err
	}

	s.caches.InvalidateDashboard()
	if s.events != nil {
		s.events.Publish("expense.updated", map[string]string{"id": id})
	}
	return s.Get(id)
}

// Delete removes an expense and its receipt file.
func (s *ExpenseService) Delete(id string) error {
	e, err := s.Get(id)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM expenses WHERE id = ?", id); err != nil {
		return err
	}
	if e.FotoPath != nil {
		s.removeReceipt(*e.FotoPath)
	}
	s.caches.InvalidateDashboard()
	if s.events != nil {
		s.events.Publish("expense.deleted", map[string]string{"id": id})
	}
	return nil
}

func (s *ExpenseService) saveReceipt(receipt *Receipt) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.New().String() + filepath.Ext(receipt.Filename)
	path := filepath.Join(s.uploadDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create receipt file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, receipt.Data); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write receipt file: %w", err)
	}
	return path, nil
}

func (s *ExpenseService) removeReceipt(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("Failed to remove receipt file")
	}
}
