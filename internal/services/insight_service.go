package services

import (
	"context"
	"time"

	"pocketplan/internal/insights"
	"pocketplan/internal/logger"
)

// insightWindowDays is the length of the trailing window insights look at.
const insightWindowDays = 30

// insightService evaluates the insight rules over recent spending.
type insightService struct {
	transactions TransactionServicer
	engine       *insights.Engine
	loc          *time.Location
	now          func() time.Time
}

// NewInsightService creates a new InsightServicer. "Today" is taken in loc.
func NewInsightService(transactions TransactionServicer, engine *insights.Engine, loc *time.Location) InsightServicer {
	if engine == nil {
		engine = insights.NewEngine(nil)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &insightService{
		transactions: transactions,
		engine:       engine,
		loc:          loc,
		now:          time.Now,
	}
}

// GetInsights evaluates the rules over the trailing window. A failed read
// degrades to the default advice with Available=false instead of an error.
func (s *insightService) GetInsights(ctx context.Context, userID string) *InsightReport {
	today := s.now().In(s.loc)
	since := calendarDate(today).AddDate(0, 0, -insightWindowDays)

	totals, err := s.transactions.CategoryTotalsSince(ctx, userID, since)
	if err != nil {
		logger.Get().Warnw("insights falling back to defaults",
			"error", err,
			"user_id", userID,
		)
		return &InsightReport{
			Insights:    s.engine.Default(),
			Available:   false,
			WindowStart: since,
		}
	}

	return &InsightReport{
		Insights:    s.engine.Evaluate(totals),
		Available:   true,
		WindowStart: since,
	}
}
