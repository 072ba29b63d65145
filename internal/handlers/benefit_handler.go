package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/services"
)

// BenefitHandler serves the benefit programs catalog.
type BenefitHandler struct {
	benefitService services.BenefitServicer
}

// NewBenefitHandler creates a new BenefitHandler.
func NewBenefitHandler(benefitService services.BenefitServicer) *BenefitHandler {
	return &BenefitHandler{benefitService: benefitService}
}

// EligibilityRequest is the profile checked against the catalog. Income is
// annual, in cents.
type EligibilityRequest struct {
	Income *int64 `json:"income" binding:"required,min=0"`
	Age    *int   `json:"age" binding:"required,min=0,max=150"`
}

// BenefitInput is one catalog entry in an import batch.
type BenefitInput struct {
	Name            string `json:"name" binding:"required,max=200"`
	Category        string `json:"category" binding:"required,max=50"`
	Description     string `json:"description"`
	Amount          string `json:"amount"`
	Eligibility     string `json:"eligibility"`
	HowToApply      string `json:"how_to_apply"`
	Website         string `json:"website" binding:"omitempty,url"`
	IncomeThreshold *int64 `json:"income_threshold" binding:"omitempty,min=0"`
	AgeRequirement  *int   `json:"age_requirement" binding:"omitempty,min=0,max=150"`
	Active          *bool  `json:"active"`
}

// UpsertBenefitsRequest is the catalog import payload.
type UpsertBenefitsRequest struct {
	Benefits []BenefitInput `json:"benefits" binding:"required,min=1,max=1000,dive"`
}

// ListBenefits returns the active catalog
// @Summary     List benefits
// @Description Active benefit programs ordered by category and name
// @Tags        benefits
// @Produce     json
// @Success     200 {object} map[string][]models.Benefit "Benefits"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /benefits [get]
func (h *BenefitHandler) ListBenefits(c *gin.Context) {
	benefits, err := h.benefitService.ListActive()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"benefits": benefits})
}

// CheckEligibility matches an income and age against the catalog
// @Summary     Check benefit eligibility
// @Description Active benefits whose income ceiling and minimum age admit the given profile
// @Tags        benefits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EligibilityRequest true "Income (cents) and age"
// @Success     200 {object} services.EligibilityResult "Eligible benefits"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /benefits/check-eligibility [post]
func (h *BenefitHandler) CheckEligibility(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req EligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.benefitService.CheckEligibility(*req.Income, *req.Age)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpsertBenefits imports catalog entries, keyed by name
// @Summary     Import benefits
// @Description Bulk insert or replace catalog entries by name (pipeline endpoint). Active defaults to true.
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body UpsertBenefitsRequest true "Catalog entries"
// @Success     200 {object} map[string]int "Benefits written count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/benefits [put]
func (h *BenefitHandler) UpsertBenefits(c *gin.Context) {
	var req UpsertBenefitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	benefits := make([]models.Benefit, len(req.Benefits))
	for i, in := range req.Benefits {
		active := true
		if in.Active != nil {
			active = *in.Active
		}
		benefits[i] = models.Benefit{
			Name:            in.Name,
			Category:        in.Category,
			Description:     in.Description,
			Amount:          in.Amount,
			Eligibility:     in.Eligibility,
			HowToApply:      in.HowToApply,
			Website:         in.Website,
			IncomeThreshold: in.IncomeThreshold,
			AgeRequirement:  in.AgeRequirement,
			Active:          active,
		}
	}

	count, err := h.benefitService.UpsertCatalog(benefits)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"benefits_upserted": count})
}
