package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pocketplan/internal/analytics"
	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// SetBudget creates the budget for (category, period) or overwrites its amount
// with a single INSERT ... ON CONFLICT, so concurrent sets of one key converge.
// created reports whether the key had no budget before the call.
func (s *budgetService) SetBudget(userID, category string, amount int64, period analytics.Period) (*models.Budget, bool, error) {
	if !period.Valid() {
		return nil, false, apperrors.ErrInvalidPeriod
	}
	if amount <= 0 {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidAmount, "budget amount must be greater than zero")
	}
	category = models.NormalizeCategory(category)
	if category == "" {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	byKey := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ? AND category = ? AND month = ? AND year = ?", userID, category, period.Month, period.Year)
	}

	var budget models.Budget
	created := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Budget{}).Scopes(byKey).Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0

		row := models.Budget{
			UserID:   userID,
			Category: category,
			Amount:   amount,
			Month:    period.Month,
			Year:     period.Year,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}, {Name: "month"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return err
		}

		// On conflict the stored row keeps its original id.
		return tx.Scopes(byKey).First(&budget).Error
	})
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &budget, created, nil
}

// GetUserBudgets lists the user's budgets, optionally restricted to one period,
// ordered by period then category.
func (s *budgetService) GetUserBudgets(userID string, period *analytics.Period) ([]models.Budget, error) {
	q := s.db.Where("user_id = ?", userID)
	if period != nil {
		if !period.Valid() {
			return nil, apperrors.ErrInvalidPeriod
		}
		q = q.Where("month = ? AND year = ?", period.Month, period.Year)
	}

	budgets := []models.Budget{}
	if err := q.Order("year DESC, month DESC, category ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID retrieves a budget by ID for a specific user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// DeleteBudget permanently removes a budget so its key can be set again.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListForUser returns every budget the user owns.
func (s *budgetService) ListForUser(ctx context.Context, userID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("year ASC, month ASC, category ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}
