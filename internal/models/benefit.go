package models

// Benefit is an entry in the government benefit programs catalog.
type Benefit struct {
	Base
	Name            string `gorm:"not null;uniqueIndex" json:"name"`
	Category        string `gorm:"not null" json:"category"`
	Description     string `json:"description"`
	Amount          string `json:"amount,omitempty"`
	Eligibility     string `json:"eligibility,omitempty"`
	HowToApply      string `json:"how_to_apply,omitempty"`
	Website         string `json:"website,omitempty"`
	IncomeThreshold *int64 `gorm:"type:bigint" json:"income_threshold,omitempty"`
	AgeRequirement  *int   `json:"age_requirement,omitempty"`
	Active          bool   `gorm:"not null" json:"active"`
}
