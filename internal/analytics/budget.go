package analytics

import (
	"sort"

	"pocketplan/internal/models"
)

// BudgetUtilization compares one category budget with the expenses booked against it.
type BudgetUtilization struct {
	Category     string  `json:"category"`
	Spent        int64   `json:"spent"`
	Budget       int64   `json:"budget"`
	Remaining    int64   `json:"remaining"`
	Percentage   float64 `json:"percentage"`
	IsOverBudget bool    `json:"is_over_budget"`
}

// MonthlyTotals summarizes a month of budgets and spending.
// PercentageUsed is not clamped; capping it for display is up to the client.
type MonthlyTotals struct {
	Period         Period  `json:"period"`
	TotalBudget    int64   `json:"total_budget"`
	TotalSpent     int64   `json:"total_spent"`
	TotalIncome    int64   `json:"total_income"`
	Remaining      int64   `json:"remaining"`
	PercentageUsed float64 `json:"percentage_used"`
}

// BudgetUtilizations returns one entry per budget set for the period, ordered
// by category. Only expenses count as spending. Categories with spending but
// no budget are not reported.
func BudgetUtilizations(txs []models.Transaction, budgets []models.Budget, period Period) []BudgetUtilization {
	spent := expensesByCategory(txs, period)

	result := make([]BudgetUtilization, 0, len(budgets))
	for i := range budgets {
		b := &budgets[i]
		if b.Month != period.Month || b.Year != period.Year {
			continue
		}
		category := models.NormalizeCategory(b.Category)
		s := spent[category]
		result = append(result, BudgetUtilization{
			Category:     category,
			Spent:        s,
			Budget:       b.Amount,
			Remaining:    b.Amount - s,
			Percentage:   percentage(s, b.Amount),
			IsOverBudget: s > b.Amount,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})
	return result
}

// Totals sums every budget and every expense in the period.
func Totals(txs []models.Transaction, budgets []models.Budget, period Period) MonthlyTotals {
	totals := MonthlyTotals{Period: period}

	for i := range budgets {
		if budgets[i].Month == period.Month && budgets[i].Year == period.Year {
			totals.TotalBudget += budgets[i].Amount
		}
	}

	for i := range txs {
		tx := &txs[i]
		if !period.Contains(tx.Date) {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeExpense:
			totals.TotalSpent += amountOf(tx)
		case models.TransactionTypeIncome:
			totals.TotalIncome += amountOf(tx)
		}
	}

	totals.Remaining = totals.TotalBudget - totals.TotalSpent
	totals.PercentageUsed = percentage(totals.TotalSpent, totals.TotalBudget)
	return totals
}

func expensesByCategory(txs []models.Transaction, period Period) map[string]int64 {
	sums := make(map[string]int64)
	for i := range txs {
		tx := &txs[i]
		if tx.Type != models.TransactionTypeExpense || !period.Contains(tx.Date) {
			continue
		}
		sums[models.NormalizeCategory(tx.Category)] += amountOf(tx)
	}
	return sums
}
