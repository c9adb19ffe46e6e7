package models

import "time"

// Expense is one entry in the expense ledger.
type Expense struct {
	ID      string `json:"id"`
	Judul   string `json:"judul"`
	Nominal int64  `json:"nominal"`
	// Tanggal is the date the money was spent, which drives the
	// monthly expense filters. It is independent of CreatedAt.
	Tanggal   time.Time `json:"tanggal"`
	FotoPath  *string   `json:"foto_path,omitempty"` // receipt image, optional
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DashboardStats is the aggregated summary shown on the dashboard.
type DashboardStats struct {
	Balance          int64 `json:"balance"`
	TotalIncome      int64 `json:"total_income"`
	IncomeThisMonth  int64 `json:"income_this_month"`
	ExpenseThisMonth int64 `json:"expense_this_month"`
	ArrearsCount     int   `json:"arrears_count"`
}
