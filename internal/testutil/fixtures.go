package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"pocketplan/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email and password "password123".
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     "Test User",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction (amount in cents) on the given date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, category string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		Category:      category,
		PaymentMethod: models.PaymentMethodCard,
		Date:          date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget (amount in cents) for category in month/year.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, category string, amount int64, month, year int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:   userID,
		Category: category,
		Amount:   amount,
		Month:    month,
		Year:     year,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestBenefit creates an active catalog entry with optional thresholds.
func CreateTestBenefit(t *testing.T, db *gorm.DB, category string, incomeThreshold *int64, ageRequirement *int) *models.Benefit {
	t.Helper()

	benefit := &models.Benefit{
		Name:            fmt.Sprintf("Test Benefit %d", nextID()),
		Category:        category,
		Description:     "Test benefit",
		IncomeThreshold: incomeThreshold,
		AgeRequirement:  ageRequirement,
		Active:          true,
	}
	if err := db.Create(benefit).Error; err != nil {
		t.Fatalf("failed to create test benefit: %v", err)
	}
	return benefit
}
