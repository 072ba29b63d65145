package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/services"
)

// AnalyticsHandler serves the monthly aggregation views.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
	loc              *time.Location
}

// NewAnalyticsHandler creates a new AnalyticsHandler. loc decides the current
// month when a request leaves month or year out.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer, loc *time.Location) *AnalyticsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsHandler{analyticsService: analyticsService, loc: loc}
}

// GetBreakdown returns per-category totals for a month
// @Summary     Category breakdown
// @Description Sum transactions per category for a month. type=expense (default), income or all.
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       month query int    false "Month 1-12 (default current)"
// @Param       year  query int    false "Year (default current)"
// @Param       type  query string false "expense, income or all (default expense)"
// @Success     200 {object} map[string][]analytics.CategoryBreakdownEntry "Breakdown"
// @Failure     400 {object} ErrorResponse "Invalid period or type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/breakdown [get]
func (h *AnalyticsHandler) GetBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parsePeriod(c, h.loc)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var typeFilter *models.TransactionType
	switch raw := c.DefaultQuery("type", string(models.TransactionTypeExpense)); raw {
	case "all":
	case string(models.TransactionTypeExpense), string(models.TransactionTypeIncome):
		t := models.TransactionType(raw)
		typeFilter = &t
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidTransactionType, "type must be expense, income or all"))
		return
	}

	entries, err := h.analyticsService.Breakdown(c.Request.Context(), userID, period, typeFilter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period, "breakdown": entries})
}

// GetUtilization returns spend against each budget of a month
// @Summary     Budget utilization
// @Description Compare each budget of the month with the expenses booked against its category
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12 (default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} map[string][]analytics.BudgetUtilization "Utilization"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/utilization [get]
func (h *AnalyticsHandler) GetUtilization(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parsePeriod(c, h.loc)
	if err != nil {
		respondWithError(c, err)
		return
	}

	util, err := h.analyticsService.Utilization(c.Request.Context(), userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period, "utilization": util})
}

// GetSummary returns the month's totals
// @Summary     Monthly totals
// @Description Total budget, spend, income and remaining for a month
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12 (default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} analytics.MonthlyTotals "Totals"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parsePeriod(c, h.loc)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.analyticsService.Totals(c.Request.Context(), userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

// GetDailyTrend returns per-day income and expense for a month
// @Summary     Daily trend
// @Description Income and expense per day of the month. Days without transactions are omitted.
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12 (default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} map[string][]analytics.DailyPoint "Daily points"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/daily [get]
func (h *AnalyticsHandler) GetDailyTrend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parsePeriod(c, h.loc)
	if err != nil {
		respondWithError(c, err)
		return
	}

	points, err := h.analyticsService.DailyTrend(c.Request.Context(), userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period, "days": points})
}

// GetMonthlyTrend returns twelve monthly points for a year
// @Summary     Monthly trend
// @Description Income and expense for each month of a year
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Year (default current)"
// @Success     200 {object} map[string][]analytics.MonthlyPoint "Monthly points"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/monthly [get]
func (h *AnalyticsHandler) GetMonthlyTrend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year := time.Now().In(h.loc).Year()
	if raw := c.Query("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil || year <= 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "year must be a positive number"))
			return
		}
	}

	points, err := h.analyticsService.MonthlyTrend(c.Request.Context(), userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "months": points})
}

// GetDashboard returns every monthly view computed from one snapshot
// @Summary     Dashboard
// @Description Totals, breakdowns, utilization and daily trend for a month in one payload
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12 (default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} analytics.Dashboard "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parsePeriod(c, h.loc)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.analyticsService.Dashboard(c.Request.Context(), userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
