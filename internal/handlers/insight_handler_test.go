package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"pocketplan/internal/insights"
	"pocketplan/internal/services"
)

type mockInsightService struct {
	getInsightsFn func(userID string) *services.InsightReport
}

func (m *mockInsightService) GetInsights(_ context.Context, userID string) *services.InsightReport {
	if m.getInsightsFn != nil {
		return m.getInsightsFn(userID)
	}
	return &services.InsightReport{Insights: []insights.Insight{}, Available: true}
}

var _ services.InsightServicer = (*mockInsightService)(nil)

func TestInsightHandler_GetInsights(t *testing.T) {
	t.Run("returns 200 even when degraded", func(t *testing.T) {
		var gotUser string
		svc := &mockInsightService{
			getInsightsFn: func(userID string) *services.InsightReport {
				gotUser = userID
				return &services.InsightReport{Insights: insights.NewEngine(nil).Default(), Available: false}
			},
		}
		r := gin.New()
		r.GET("/insights", injectUserID(testUserID), NewInsightHandler(svc).GetInsights)

		rec := doRequest(r, "GET", "/insights", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotUser != testUserID {
			t.Errorf("expected user %s, got %s", testUserID, gotUser)
		}
		result := parseJSON(t, rec)
		if result["available"] != false {
			t.Errorf("expected available=false, got %v", result["available"])
		}
		if list := result["insights"].([]interface{}); len(list) != 1 {
			t.Errorf("expected default insight, got %v", list)
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		r := gin.New()
		r.GET("/insights", NewInsightHandler(&mockInsightService{}).GetInsights)

		rec := doRequest(r, "GET", "/insights", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
