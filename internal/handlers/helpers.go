package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pocketplan/internal/analytics"
	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/middleware"
	"pocketplan/internal/services"
	"pocketplan/internal/uuid"
)

// getUserID extracts the authenticated user ID from the request session,
// falling back to the gin context key set by the auth middleware.
// Returns ErrUnauthorized if neither is present.
func getUserID(c *gin.Context) (string, error) {
	if s, ok := middleware.SessionFrom(c.Request.Context()); ok && s.UserID != "" {
		return s.UserID, nil
	}
	if id := c.GetString(middleware.UserIDKey); id != "" {
		return id, nil
	}
	return "", apperrors.ErrUnauthorized
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.RespondWithError(c, err)
}

// parseFlexibleTime accepts RFC3339 timestamps or plain YYYY-MM-DD dates.
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use RFC3339 or YYYY-MM-DD", s)
}

// parseOptionalDate parses the named query parameter when present.
func parseOptionalDate(c *gin.Context, param string) (*time.Time, error) {
	raw := c.Query(param)
	if raw == "" {
		return nil, nil
	}
	t, err := parseFlexibleTime(raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, param+": "+err.Error())
	}
	return &t, nil
}

// parsePeriod reads the month and year query parameters. Missing values
// default to the current month in loc.
func parsePeriod(c *gin.Context, loc *time.Location) (analytics.Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	period := analytics.PeriodOf(time.Now().In(loc))

	if raw := c.Query("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			return analytics.Period{}, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "month must be a number")
		}
		period.Month = month
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return analytics.Period{}, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "year must be a number")
		}
		period.Year = year
	}

	if !period.Valid() {
		return analytics.Period{}, apperrors.ErrInvalidPeriod
	}
	return period, nil
}

// recordAudit fills in the client IP and hands ev to the audit service.
func recordAudit(c *gin.Context, audit services.AuditServicer, ev services.AuditEvent) {
	ev.ClientIP = c.ClientIP()
	audit.Record(c.Request.Context(), ev)
}
