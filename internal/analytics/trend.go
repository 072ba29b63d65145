package analytics

import (
	"sort"
	"time"

	"pocketplan/internal/models"
)

// DailyPoint is the income and expense booked on one day of a month.
type DailyPoint struct {
	Day     int   `json:"day"`
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

// MonthlyPoint is the income and expense booked in one month of a year.
type MonthlyPoint struct {
	Month   int   `json:"month"`
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

// DailyTrend buckets the period's transactions by day of month. The series
// is sparse: days with no transactions are left out.
func DailyTrend(txs []models.Transaction, period Period) []DailyPoint {
	buckets := make(map[int]*DailyPoint)
	for i := range txs {
		tx := &txs[i]
		if !period.Contains(tx.Date) {
			continue
		}
		day := tx.Date.Day()
		p, ok := buckets[day]
		if !ok {
			p = &DailyPoint{Day: day}
			buckets[day] = p
		}
		addTo(&p.Income, &p.Expense, tx)
	}

	points := make([]DailyPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return points
}

// MonthlyTrend returns twelve points, January through December, for year.
func MonthlyTrend(txs []models.Transaction, year int) []MonthlyPoint {
	points := make([]MonthlyPoint, 12)
	for m := range points {
		points[m].Month = m + 1
	}
	for i := range txs {
		tx := &txs[i]
		if tx.Date.Year() != year {
			continue
		}
		p := &points[tx.Date.Month()-time.January]
		addTo(&p.Income, &p.Expense, tx)
	}
	return points
}

func addTo(income, expense *int64, tx *models.Transaction) {
	switch tx.Type {
	case models.TransactionTypeIncome:
		*income += amountOf(tx)
	case models.TransactionTypeExpense:
		*expense += amountOf(tx)
	}
}
