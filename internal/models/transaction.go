package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// PaymentMethod is how a transaction was paid. Display only.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodDigital PaymentMethod = "digital"
)

// Transaction is a dated, categorized expense or income record.
// Amount is a positive value in cents; direction is carried by Type.
type Transaction struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type          TransactionType `gorm:"not null" json:"type"`
	Amount        int64           `gorm:"type:bigint;not null" json:"amount"`
	Category      string          `gorm:"not null;index" json:"category"`
	Description   string          `json:"description"`
	PaymentMethod PaymentMethod   `gorm:"not null;default:'cash'" json:"payment_method"`
	Date          time.Time       `gorm:"type:date;not null;index" json:"date"`
}

// BeforeSave normalizes the category so lookups can compare lower-cased labels.
func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	t.Category = NormalizeCategory(t.Category)
	if t.PaymentMethod == "" {
		t.PaymentMethod = PaymentMethodCash
	}
	return nil
}

// NormalizeCategory is the canonical form used to match categories.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
