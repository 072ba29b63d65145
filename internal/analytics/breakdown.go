package analytics

import (
	"sort"

	"pocketplan/internal/models"
)

// CategoryBreakdownEntry is the summed amount of one category in a period.
type CategoryBreakdownEntry struct {
	Category          string `json:"category"`
	Amount            int64  `json:"amount"`
	PercentageOfTotal int    `json:"percentage_of_total"`
}

// CategoryBreakdown groups the period's transactions by lower-cased category.
// A nil typeFilter keeps both income and expense. Entries are ordered by
// amount descending, then category ascending.
func CategoryBreakdown(txs []models.Transaction, period Period, typeFilter *models.TransactionType) []CategoryBreakdownEntry {
	sums := make(map[string]int64)
	var total int64
	for i := range txs {
		tx := &txs[i]
		if !period.Contains(tx.Date) {
			continue
		}
		if typeFilter != nil && tx.Type != *typeFilter {
			continue
		}
		amount := amountOf(tx)
		sums[models.NormalizeCategory(tx.Category)] += amount
		total += amount
	}

	entries := make([]CategoryBreakdownEntry, 0, len(sums))
	for category, amount := range sums {
		entries = append(entries, CategoryBreakdownEntry{
			Category:          category,
			Amount:            amount,
			PercentageOfTotal: roundedPercentage(amount, total),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Amount != entries[j].Amount {
			return entries[i].Amount > entries[j].Amount
		}
		return entries[i].Category < entries[j].Category
	})
	return entries
}
