package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/logger"
)

// APIKeyHeader carries the shared secret of the catalog import job.
const APIKeyHeader = "X-API-Key"

// PipelineAuthMiddleware admits requests whose X-API-Key matches apiKey.
// With no key configured the pipeline routes answer 503.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	want := []byte(apiKey)
	return func(c *gin.Context) {
		if len(want) == 0 {
			RespondWithError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader(APIKeyHeader)), want) != 1 {
			logger.Get().Warnw("pipeline request rejected", "path", c.Request.URL.Path, "client_ip", c.ClientIP())
			RespondWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
