package analytics

import "pocketplan/internal/models"

// Dashboard bundles every monthly view computed from one snapshot.
type Dashboard struct {
	Totals           MonthlyTotals            `json:"totals"`
	ExpenseBreakdown []CategoryBreakdownEntry `json:"expense_breakdown"`
	IncomeBreakdown  []CategoryBreakdownEntry `json:"income_breakdown"`
	Utilization      []BudgetUtilization      `json:"utilization"`
	Daily            []DailyPoint             `json:"daily"`
}

// Summarize computes the dashboard for period. Income and expense breakdowns
// are kept separate since a shared percentage base would be meaningless.
func Summarize(txs []models.Transaction, budgets []models.Budget, period Period) Dashboard {
	expense := models.TransactionTypeExpense
	income := models.TransactionTypeIncome
	return Dashboard{
		Totals:           Totals(txs, budgets, period),
		ExpenseBreakdown: CategoryBreakdown(txs, period, &expense),
		IncomeBreakdown:  CategoryBreakdown(txs, period, &income),
		Utilization:      BudgetUtilizations(txs, budgets, period),
		Daily:            DailyTrend(txs, period),
	}
}
