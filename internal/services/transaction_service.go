package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/insights"
	"pocketplan/internal/models"
	"pocketplan/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// calendarDate drops the time of day, keeping the date as written in t's location.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateTransactionType(t models.TransactionType) error {
	switch t {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return nil
	default:
		return apperrors.ErrInvalidTransactionType
	}
}

func validatePaymentMethod(m models.PaymentMethod) error {
	switch m {
	case "", models.PaymentMethodCash, models.PaymentMethodCard, models.PaymentMethodDigital:
		return nil
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "payment method must be cash, card or digital")
	}
}

// CreateTransaction records a new transaction for a user
func (s *transactionService) CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionType(in.Type); err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if err := validatePaymentMethod(in.PaymentMethod); err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:        userID,
		Type:          in.Type,
		Amount:        in.Amount,
		Category:      in.Category,
		Description:   strings.TrimSpace(in.Description),
		PaymentMethod: in.PaymentMethod,
		Date:          calendarDate(date),
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of a user's transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", calendarDate(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", calendarDate(*f.ToDate))
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", models.NormalizeCategory(*f.Category))
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies the non-nil fields to a user's transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if fields.Type != nil {
		if err := validateTransactionType(*fields.Type); err != nil {
			return nil, err
		}
		transaction.Type = *fields.Type
	}
	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.ErrInvalidAmount
		}
		transaction.Amount = *fields.Amount
	}
	if fields.Category != nil {
		if strings.TrimSpace(*fields.Category) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
		}
		transaction.Category = *fields.Category
	}
	if fields.Description != nil {
		transaction.Description = strings.TrimSpace(*fields.Description)
	}
	if fields.PaymentMethod != nil {
		if err := validatePaymentMethod(*fields.PaymentMethod); err != nil {
			return nil, err
		}
		transaction.PaymentMethod = *fields.PaymentMethod
	}
	if fields.Date != nil {
		transaction.Date = calendarDate(*fields.Date)
	}

	if err := s.db.Save(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// DeleteTransaction soft-deletes a user's transaction
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListForUser is the store's unbounded "all transactions for user" view,
// oldest first. Month-scoped reads go through ListForUserInRange.
func (s *transactionService) ListForUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// ListForUserInRange returns the user's transactions dated in [start, end), oldest first.
func (s *transactionService) ListForUserInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, calendarDate(start), calendarDate(end)).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// CategoryTotalsSince sums the user's positive expenses per category from since onward.
func (s *transactionService) CategoryTotalsSince(ctx context.Context, userID string, since time.Time) ([]insights.CategoryTotal, error) {
	var totals []insights.CategoryTotal
	if err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("category, SUM(amount) AS total").
		Where("user_id = ? AND type = ? AND amount > 0 AND date >= ?", userID, models.TransactionTypeExpense, calendarDate(since)).
		Group("category").
		Order("category ASC").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return totals, nil
}
