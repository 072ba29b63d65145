package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"pocketplan/internal/analytics"
	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
)

// analyticsService loads a user's data and runs the aggregation engine.
type analyticsService struct {
	transactions TransactionServicer
	budgets      BudgetServicer
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(transactions TransactionServicer, budgets BudgetServicer) AnalyticsServicer {
	return &analyticsService{transactions: transactions, budgets: budgets}
}

// snapshot is the data one engine call reads. Both halves are fetched
// under the same request so a response never mixes two reads of the same table.
type snapshot struct {
	transactions []models.Transaction
	budgets      []models.Budget
}

// load fetches transactions dated in [start, end) and, when withBudgets is
// set, the user's budgets. The fetches run concurrently.
func (s *analyticsService) load(ctx context.Context, userID string, start, end time.Time, withBudgets bool) (*snapshot, error) {
	snap := &snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txs, err := s.transactions.ListForUserInRange(ctx, userID, start, end)
		if err != nil {
			return err
		}
		snap.transactions = txs
		return nil
	})

	if withBudgets {
		g.Go(func() error {
			budgets, err := s.budgets.ListForUser(ctx, userID)
			if err != nil {
				return err
			}
			snap.budgets = budgets
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *analyticsService) loadPeriod(ctx context.Context, userID string, period analytics.Period, withBudgets bool) (*snapshot, error) {
	if !period.Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}
	return s.load(ctx, userID, period.Start(time.UTC), period.End(time.UTC), withBudgets)
}

// Breakdown returns per-category totals for the period.
func (s *analyticsService) Breakdown(ctx context.Context, userID string, period analytics.Period, typeFilter *models.TransactionType) ([]analytics.CategoryBreakdownEntry, error) {
	if typeFilter != nil {
		if err := validateTransactionType(*typeFilter); err != nil {
			return nil, err
		}
	}
	snap, err := s.loadPeriod(ctx, userID, period, false)
	if err != nil {
		return nil, err
	}
	return analytics.CategoryBreakdown(snap.transactions, period, typeFilter), nil
}

// Utilization returns spend against each budget of the period.
func (s *analyticsService) Utilization(ctx context.Context, userID string, period analytics.Period) ([]analytics.BudgetUtilization, error) {
	snap, err := s.loadPeriod(ctx, userID, period, true)
	if err != nil {
		return nil, err
	}
	return analytics.BudgetUtilizations(snap.transactions, snap.budgets, period), nil
}

// Totals returns the month's budget, spend and income totals.
func (s *analyticsService) Totals(ctx context.Context, userID string, period analytics.Period) (*analytics.MonthlyTotals, error) {
	snap, err := s.loadPeriod(ctx, userID, period, true)
	if err != nil {
		return nil, err
	}
	totals := analytics.Totals(snap.transactions, snap.budgets, period)
	return &totals, nil
}

// DailyTrend returns per-day income and expense for the period.
func (s *analyticsService) DailyTrend(ctx context.Context, userID string, period analytics.Period) ([]analytics.DailyPoint, error) {
	snap, err := s.loadPeriod(ctx, userID, period, false)
	if err != nil {
		return nil, err
	}
	return analytics.DailyTrend(snap.transactions, period), nil
}

// MonthlyTrend returns twelve monthly points for year.
func (s *analyticsService) MonthlyTrend(ctx context.Context, userID string, year int) ([]analytics.MonthlyPoint, error) {
	if year <= 0 {
		return nil, apperrors.ErrInvalidPeriod
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	snap, err := s.load(ctx, userID, start, start.AddDate(1, 0, 0), false)
	if err != nil {
		return nil, err
	}
	return analytics.MonthlyTrend(snap.transactions, year), nil
}

// Dashboard computes every monthly view from a single snapshot.
func (s *analyticsService) Dashboard(ctx context.Context, userID string, period analytics.Period) (*analytics.Dashboard, error) {
	snap, err := s.loadPeriod(ctx, userID, period, true)
	if err != nil {
		return nil, err
	}
	dashboard := analytics.Summarize(snap.transactions, snap.budgets, period)
	return &dashboard, nil
}
