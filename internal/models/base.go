package models

import (
	"fmt"
	"time"

	"pocketplan/internal/uuid"

	"gorm.io/gorm"
)

// Base is embedded by every table: a UUIDv7 key, timestamps and soft delete.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a fresh ID, or canonicalizes one the caller supplied.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
		return nil
	}
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", b.ID, err)
	}
	b.ID = id
	return nil
}
