package models

import "time"

// Payment is one weekly dues entry in the income ledger. At most one
// row exists per (user, bulan, tahun, minggu_ke); repeated payments for
// the same week top up the existing row.
type Payment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Bulan     int       `json:"bulan"`     // 1-12
	Tahun     int       `json:"tahun"`     // calendar year
	MingguKe  int       `json:"minggu_ke"` // 1-5
	Nominal   int64     `json:"nominal"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Denormalized for list responses.
	NIM  string `json:"nim,omitempty"`
	Nama string `json:"nama,omitempty"`
}

// MatrixRow is one user's payment grid for a single period: the summed
// amount paid for each of weeks 1..5. Every user appears, paid or not.
type MatrixRow struct {
	ID   string `json:"id"`
	NIM  string `json:"nim"`
	Nama string `json:"nama"`
	M1   int64  `json:"m1"`
	M2   int64  `json:"m2"`
	M3   int64  `json:"m3"`
	M4   int64  `json:"m4"`
	M5   int64  `json:"m5"`
}

// ArrearsEntry is one user's outstanding dues for a period. Users with
// no unpaid weeks are omitted from arrears results entirely.
type ArrearsEntry struct {
	ID          string `json:"id"`
	NIM         string `json:"nim"`
	Nama        string `json:"nama"`
	UnpaidWeeks []int  `json:"unpaid_weeks"`
	// TotalUnpaid counts every unpaid week at the full fee, ignoring
	// partial amounts already paid toward those weeks.
	TotalUnpaid int64 `json:"total_unpaid"`
}

// ArrearsReport is the arrears result for one period.
type ArrearsReport struct {
	Bulan     int            `json:"bulan"`
	Tahun     int            `json:"tahun"`
	WeeklyFee int64          `json:"weekly_fee"`
	Data      []ArrearsEntry `json:"data"`
}

// SettleResult summarizes a bulk "pay all" operation.
type SettleResult struct {
	WeeksPaid    int   `json:"weeks_paid"`
	WeeksUpdated int   `json:"weeks_updated"`
	TotalAmount  int64 `json:"total_amount"`
}

// LeaderboardEntry is one row of the contributor leaderboard.
type LeaderboardEntry struct {
	NIM          string `json:"nim"`
	Nama         string `json:"nama"`
	TotalAmount  int64  `json:"total_amount"`
	PaymentCount int    `json:"payment_count"`
}
