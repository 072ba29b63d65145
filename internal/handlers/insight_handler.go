package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pocketplan/internal/services"
)

// InsightHandler serves savings insights.
type InsightHandler struct {
	insightService services.InsightServicer
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService services.InsightServicer) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// GetInsights returns savings advice for the last 30 days of spending
// @Summary     Savings insights
// @Description Evaluate the insight rules over the trailing 30 days of expenses. When spending cannot be loaded the default advice is returned with available=false.
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.InsightReport "Insights"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /insights [get]
func (h *InsightHandler) GetInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.insightService.GetInsights(c.Request.Context(), userID))
}
