package models

import "gorm.io/gorm"

// Budget is the spending limit for one category in one calendar month.
// (UserID, Category, Month, Year) is unique; setting it again overwrites Amount.
type Budget struct {
	Base
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:uq_budgets_user_category_period" json:"user_id"`
	Category string `gorm:"not null;uniqueIndex:uq_budgets_user_category_period" json:"category"`
	Amount   int64  `gorm:"type:bigint;not null" json:"amount"`
	Month    int    `gorm:"not null;uniqueIndex:uq_budgets_user_category_period" json:"month"`
	Year     int    `gorm:"not null;uniqueIndex:uq_budgets_user_category_period" json:"year"`
}

// BeforeSave normalizes the category.
func (b *Budget) BeforeSave(tx *gorm.DB) error {
	b.Category = NormalizeCategory(b.Category)
	return nil
}
