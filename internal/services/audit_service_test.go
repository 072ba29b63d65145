package services

import (
	"context"
	"testing"

	"pocketplan/internal/logger"
	"pocketplan/internal/models"
	"pocketplan/internal/testutil"
)

func TestAuditService_Record(t *testing.T) {
	logger.Init("test")

	t.Run("stores_changes_as_json", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		user := testutil.CreateTestUser(t, db)

		svc.Record(context.Background(), AuditEvent{
			UserID:       user.ID,
			Action:       models.AuditSetBudget,
			ResourceType: "budget",
			ResourceID:   "b-1",
			ClientIP:     "127.0.0.1",
			Changes:      map[string]interface{}{"amount": 5000},
		})

		var entries []models.AuditLog
		db.Where("user_id = ?", user.ID).Find(&entries)
		if len(entries) != 1 {
			t.Fatalf("expected 1 audit entry, got %d", len(entries))
		}
		if entries[0].Action != models.AuditSetBudget || entries[0].IPAddress != "127.0.0.1" {
			t.Errorf("unexpected entry %+v", entries[0])
		}
		if entries[0].Changes != `{"amount":5000}` {
			t.Errorf("unexpected changes %q", entries[0].Changes)
		}
	})

	t.Run("no_changes_stored_empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		user := testutil.CreateTestUser(t, db)

		svc.Record(context.Background(), AuditEvent{UserID: user.ID, Action: models.AuditLogin, ResourceType: "user", ResourceID: user.ID})

		var entry models.AuditLog
		if err := db.Where("user_id = ?", user.ID).First(&entry).Error; err != nil {
			t.Fatalf("expected entry: %v", err)
		}
		if entry.Changes != "" {
			t.Errorf("expected no changes, got %q", entry.Changes)
		}
	})

	t.Run("closed_db_is_swallowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewAuditService(db)
		testutil.TeardownTestDB(t, db)

		svc.Record(context.Background(), AuditEvent{UserID: "u", Action: models.AuditLogin, ResourceType: "user"})
	})
}
