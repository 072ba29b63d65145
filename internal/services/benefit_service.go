package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
)

// benefitService serves the government benefit programs catalog.
type benefitService struct {
	db *gorm.DB
}

// NewBenefitService creates a new BenefitServicer.
func NewBenefitService(db *gorm.DB) BenefitServicer {
	return &benefitService{db: db}
}

// ListActive returns active benefits ordered by category then name.
func (s *benefitService) ListActive() ([]models.Benefit, error) {
	benefits := []models.Benefit{}
	if err := s.db.Where("active = ?", true).Order("category ASC, name ASC").Find(&benefits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return benefits, nil
}

// CheckEligibility returns the active benefits whose income ceiling and
// minimum age admit the given profile. Missing limits admit everyone.
func (s *benefitService) CheckEligibility(income int64, age int) (*EligibilityResult, error) {
	if income < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income must not be negative")
	}
	if age < 0 || age > 150 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "age must be between 0 and 150")
	}

	benefits := []models.Benefit{}
	if err := s.db.
		Where("active = ?", true).
		Where("income_threshold IS NULL OR income_threshold >= ?", income).
		Where("age_requirement IS NULL OR age_requirement <= ?", age).
		Order("category ASC, name ASC").
		Find(&benefits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &EligibilityResult{
		Eligible:         len(benefits) > 0,
		EligibleBenefits: benefits,
	}
	if result.Eligible {
		result.Message = fmt.Sprintf("You may be eligible for %d benefit program(s)", len(benefits))
	} else {
		result.Message = "No matching benefit programs found"
	}
	return result, nil
}

// UpsertCatalog inserts or replaces catalog entries by name. Later entries
// with a duplicate name win. Returns the number of distinct entries written.
func (s *benefitService) UpsertCatalog(benefits []models.Benefit) (int, error) {
	if len(benefits) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one benefit is required")
	}

	byName := make(map[string]int, len(benefits))
	rows := make([]models.Benefit, 0, len(benefits))
	for _, b := range benefits {
		b.Name = strings.TrimSpace(b.Name)
		b.Category = strings.TrimSpace(b.Category)
		if b.Name == "" || b.Category == "" {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "benefit name and category are required")
		}
		b.Base = models.Base{}
		if i, ok := byName[b.Name]; ok {
			rows[i] = b
			continue
		}
		byName[b.Name] = len(rows)
		rows = append(rows, b)
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"category", "description", "amount", "eligibility", "how_to_apply", "website",
			"income_threshold", "age_requirement", "active", "updated_at", "deleted_at",
		}),
	}).Create(&rows).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(rows), nil
}
