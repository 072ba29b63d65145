package services

import (
	"context"
	"time"

	"pocketplan/internal/analytics"
	"pocketplan/internal/insights"
	"pocketplan/internal/models"
	"pocketplan/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Category *string
}

// TransactionInput carries the fields of a new transaction.
type TransactionInput struct {
	Type          models.TransactionType
	Amount        int64
	Category      string
	Description   string
	PaymentMethod models.PaymentMethod
	Date          time.Time
}

// TransactionUpdateFields holds optional fields for updating a transaction.
// Nil means "leave unchanged".
type TransactionUpdateFields struct {
	Type          *models.TransactionType
	Amount        *int64
	Category      *string
	Description   *string
	PaymentMethod *models.PaymentMethod
	Date          *time.Time
}

// TransactionServicer defines the contract for the transaction store.
type TransactionServicer interface {
	CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	ListForUser(ctx context.Context, userID string) ([]models.Transaction, error)
	ListForUserInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error)
	CategoryTotalsSince(ctx context.Context, userID string, since time.Time) ([]insights.CategoryTotal, error)
}

// BudgetServicer defines the contract for the budget store.
type BudgetServicer interface {
	SetBudget(userID, category string, amount int64, period analytics.Period) (budget *models.Budget, created bool, err error)
	GetUserBudgets(userID string, period *analytics.Period) ([]models.Budget, error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	ListForUser(ctx context.Context, userID string) ([]models.Budget, error)
}

// AnalyticsServicer loads a consistent snapshot of a user's data and runs
// the aggregation engine over it.
type AnalyticsServicer interface {
	Breakdown(ctx context.Context, userID string, period analytics.Period, typeFilter *models.TransactionType) ([]analytics.CategoryBreakdownEntry, error)
	Utilization(ctx context.Context, userID string, period analytics.Period) ([]analytics.BudgetUtilization, error)
	Totals(ctx context.Context, userID string, period analytics.Period) (*analytics.MonthlyTotals, error)
	DailyTrend(ctx context.Context, userID string, period analytics.Period) ([]analytics.DailyPoint, error)
	MonthlyTrend(ctx context.Context, userID string, year int) ([]analytics.MonthlyPoint, error)
	Dashboard(ctx context.Context, userID string, period analytics.Period) (*analytics.Dashboard, error)
}

// InsightReport is the result of an insight request. Available is false when
// spending data could not be loaded and Insights holds the default advice.
type InsightReport struct {
	Insights    []insights.Insight `json:"insights"`
	Available   bool               `json:"available"`
	WindowStart time.Time          `json:"window_start"`
}

// InsightServicer produces savings insights for a user.
type InsightServicer interface {
	GetInsights(ctx context.Context, userID string) *InsightReport
}

// EligibilityResult lists the benefits matching an income/age profile.
type EligibilityResult struct {
	Eligible         bool             `json:"eligible"`
	EligibleBenefits []models.Benefit `json:"eligible_benefits"`
	Message          string           `json:"message"`
}

// BenefitServicer defines the contract for the benefits catalog.
type BenefitServicer interface {
	ListActive() ([]models.Benefit, error)
	CheckEligibility(income int64, age int) (*EligibilityResult, error)
	UpsertCatalog(benefits []models.Benefit) (int, error)
}

// AuditEvent describes one mutation to record.
type AuditEvent struct {
	UserID       string
	Action       models.AuditAction
	ResourceType string
	ResourceID   string
	ClientIP     string
	Changes      map[string]interface{}
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Record(ctx context.Context, ev AuditEvent)
}
