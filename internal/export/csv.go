// Package export renders treasury reports as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kaskelas/kas-kelas-be/internal/models"
)

var monthNames = [...]string{
	1:  "Januari",
	2:  "Februari",
	3:  "Maret",
	4:  "April",
	5:  "Mei",
	6:  "Juni",
	7:  "Juli",
	8:  "Agustus",
	9:  "September",
	10: "Oktober",
	11: "November",
	12: "Desember",
}

// MonthName returns the Indonesian name for a month number, or "" when
// out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month]
}

// WriteGlobalReport renders the payment matrix for one period with
// per-user totals and the effective fee settings.
func WriteGlobalReport(w io.Writer, bulan, tahun int, settings models.PeriodSettings, rows []models.MatrixRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := [][]string{
		{"Laporan Pemasukan Kas"},
		{"Periode", MonthName(bulan) + " " + strconv.Itoa(tahun)},
		{"Iuran Mingguan", strconv.FormatInt(settings.WeeklyFee, 10)},
		{"Minggu per Bulan", strconv.Itoa(settings.WeeksPerMonth)},
		{"Dibuat", time.Now().Format("2006-01-02 15:04:05")},
		{},
		{"NIM", "Nama", "Minggu 1", "Minggu 2", "Minggu 3", "Minggu 4", "Minggu 5", "Total"},
	}
	for _, row := range header {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	var grandTotal int64
	for _, r := range rows {
		total := r.M1 + r.M2 + r.M3 + r.M4 + r.M5
		grandTotal += total
		record := []string{
			r.NIM,
			r.Nama,
			strconv.FormatInt(r.M1, 10),
			strconv.FormatInt(r.M2, 10),
			strconv.FormatInt(r.M3, 10),
			strconv.FormatInt(r.M4, 10),
			strconv.FormatInt(r.M5, 10),
			strconv.FormatInt(total, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}
	return cw.Write([]string{"", "TOTAL", "", "", "", "", "", strconv.FormatInt(grandTotal, 10)})
}

// WriteExpenseReport renders the expense ledger for one period.
func WriteExpenseReport(w io.Writer, bulan, tahun int, expenses []models.Expense) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := [][]string{
		{"Laporan Pengeluaran Kas"},
		{"Periode", MonthName(bulan) + " " + strconv.Itoa(tahun)},
		{"Dibuat", time.Now().Format("2006-01-02 15:04:05")},
		{},
		{"Tanggal", "Judul", "Nominal"},
	}
	for _, row := range header {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	var total int64
	for _, e := range expenses {
		total += e.Nominal
		record := []string{
			e.Tanggal.Format("2006-01-02"),
			e.Judul,
			strconv.FormatInt(e.Nominal, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}
	return cw.Write([]string{"", "TOTAL", strconv.FormatInt(total, 10)})
}

// WritePersonalCard renders one member's full payment history.
func WritePersonalCard(w io.Writer, user models.User, payments []models.Payment) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := [][]string{
		{"Kartu Kendali Iuran"},
		{"NIM", user.NIM},
		{"Nama", user.Nama},
		{"Dibuat", time.Now().Format("2006-01-02 15:04:05")},
		{},
		{"Tahun", "Bulan", "Minggu", "Nominal", "Dicatat"},
	}
	for _, row := range header {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	var total int64
	for _, p := range payments {
		total += p.Nominal
		record := []string{
			strconv.Itoa(p.Tahun),
			MonthName(p.Bulan),
			strconv.Itoa(p.MingguKe),
			strconv.FormatInt(p.Nominal, 10),
			p.CreatedAt.Format("2006-01-02"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}
	return cw.Write([]string{"", "", "TOTAL", strconv.FormatInt(total, 10), ""})
}
