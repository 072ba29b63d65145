package services

import (
	"context"
	"encoding/json"

	"pocketplan/internal/logger"
	"pocketplan/internal/models"

	"gorm.io/gorm"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Record stores ev. A failed write is logged and swallowed; auditing never
// fails the request that triggered it.
func (s *auditService) Record(ctx context.Context, ev AuditEvent) {
	entry := &models.AuditLog{
		UserID:       ev.UserID,
		Action:       ev.Action,
		ResourceType: ev.ResourceType,
		ResourceID:   ev.ResourceID,
		IPAddress:    ev.ClientIP,
		Changes:      encodeChanges(ev),
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to record audit event",
			"error", err,
			"user_id", ev.UserID,
			"action", ev.Action,
			"resource", ev.ResourceType+"/"+ev.ResourceID,
		)
	}
}

func encodeChanges(ev AuditEvent) string {
	if len(ev.Changes) == 0 {
		return ""
	}
	data, err := json.Marshal(ev.Changes)
	if err != nil {
		logger.Get().Warnw("audit changes not encodable", "error", err, "action", ev.Action)
		return "{}"
	}
	return string(data)
}
