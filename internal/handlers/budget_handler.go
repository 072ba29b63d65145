package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pocketplan/internal/analytics"
	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
	loc           *time.Location
}

// NewBudgetHandler creates a new BudgetHandler. loc decides the current month
// when a request leaves month or year out.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer, loc *time.Location) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService, loc: loc}
}

// SetBudgetRequest represents the request payload for setting a monthly category budget.
// Amount is in cents.
type SetBudgetRequest struct {
	Category string `json:"category" binding:"required,max=50"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	Month    int    `json:"month" binding:"omitempty,min=1,max=12"`
	Year     int    `json:"year" binding:"omitempty,min=1"`
}

// SetBudget creates or overwrites the budget for a category and month
// @Summary     Set a budget
// @Description Create or overwrite the budget for (category, month, year). Month and year default to the current month.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetBudgetRequest true "Budget details"
// @Success     200 {object} map[string]models.Budget "Budget updated"
// @Success     201 {object} map[string]models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [put]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period := analytics.PeriodOf(time.Now().In(h.location()))
	if req.Month != 0 {
		period.Month = req.Month
	}
	if req.Year != 0 {
		period.Year = req.Year
	}

	budget, created, err := h.budgetService.SetBudget(userID, req.Category, req.Amount, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, userID, models.AuditSetBudget, budget.ID,
		map[string]interface{}{"category": budget.Category, "amount": budget.Amount, "month": budget.Month, "year": budget.Year})

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"budget": budget})
}

// GetBudgets lists the user's budgets for one month
// @Summary     List budgets
// @Description Get the user's budgets for a month, ordered by category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12 (default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} map[string][]models.Budget "Budgets"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parsePeriod(c, h.location())
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.GetUserBudgets(userID, &period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets, "period": period})
}

// GetBudget handles retrieving a single budget
// @Summary     Get budget by ID
// @Description Get a specific budget by its ID
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} map[string]models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget
// @Summary     Delete budget
// @Description Delete a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} map[string]string "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.audit(c, userID, models.AuditDeleteBudget, budgetID, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

func (h *BudgetHandler) location() *time.Location {
	if h.loc == nil {
		return time.UTC
	}
	return h.loc
}

func (h *BudgetHandler) audit(c *gin.Context, userID string, action models.AuditAction, budgetID string, changes map[string]interface{}) {
	recordAudit(c, h.auditService, services.AuditEvent{
		UserID: userID, Action: action, ResourceType: "budget", ResourceID: budgetID, Changes: changes,
	})
}
