// Package analytics aggregates a user's transactions and budgets for one
// calendar month: category breakdowns, budget utilization, monthly totals
// and trend series.
//
// Every function here is pure. Inputs are read-only snapshots fetched by the
// caller; nothing is cached and nothing is mutated. Amounts are cents.
// A transaction with a non-positive amount is malformed and contributes zero
// to every sum instead of failing the computation.
package analytics

import (
	"math"
	"time"

	"pocketplan/internal/models"
)

// Period selects one calendar month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// PeriodOf returns the period containing t, evaluated in t's location.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Valid reports whether the month is 1-12 and the year is positive.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year > 0
}

// Contains reports whether the calendar date of t falls in the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

// Start returns midnight on the first day of the period in loc.
func (p Period) Start(loc *time.Location) time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
}

// End returns the exclusive upper bound of the period in loc.
func (p Period) End(loc *time.Location) time.Time {
	return p.Start(loc).AddDate(0, 1, 0)
}

// DaysIn returns the number of days in the period's month.
func (p Period) DaysIn() int {
	return p.End(time.UTC).AddDate(0, 0, -1).Day()
}

// amountOf returns the contribution of a transaction to a sum.
func amountOf(tx *models.Transaction) int64 {
	if tx.Amount <= 0 {
		return 0
	}
	return tx.Amount
}

// percentage returns 100*part/whole, or 0 when whole is zero.
func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// roundedPercentage is percentage rounded half away from zero.
func roundedPercentage(part, whole int64) int {
	return int(math.Round(percentage(part, whole)))
}
