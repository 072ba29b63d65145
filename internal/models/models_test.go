package models_test

import (
	"strings"
	"testing"

	"pocketplan/internal/models"
	"pocketplan/internal/testutil"
)

func TestNormalizeCategory(t *testing.T) {
	for in, want := range map[string]string{
		"Food":         "food",
		"  Transport ": "transport",
		"eating out":   "eating out",
		"":             "",
	} {
		if got := models.NormalizeCategory(in); got != want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBaseBeforeCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	t.Run("assigns_id", func(t *testing.T) {
		user := testutil.CreateTestUserWithEmail(t, db, "ids@test.com")
		if user.ID == "" {
			t.Fatal("expected generated id")
		}
	})

	t.Run("canonicalizes_supplied_id", func(t *testing.T) {
		id := "0191D0D8-2222-7000-8000-000000000002"
		user := &models.User{Base: models.Base{ID: id}, Email: "upper@test.com", Password: "x", Name: "U"}
		if err := db.Create(user).Error; err != nil {
			t.Fatalf("create: %v", err)
		}
		if user.ID != strings.ToLower(id) {
			t.Errorf("expected lower-case id, got %s", user.ID)
		}
	})

	t.Run("rejects_malformed_id", func(t *testing.T) {
		user := &models.User{Base: models.Base{ID: "not-a-uuid"}, Email: "bad@test.com", Password: "x", Name: "U"}
		if err := db.Create(user).Error; err == nil {
			t.Error("expected malformed id to be rejected")
		}
	})
}

func TestTransactionBeforeSave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)

	tx := &models.Transaction{
		UserID:   user.ID,
		Type:     models.TransactionTypeExpense,
		Amount:   1200,
		Category: "  Groceries ",
		Date:     testutil.Date(2025, 3, 1),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.Category != "groceries" {
		t.Errorf("expected normalized category, got %q", tx.Category)
	}
	if tx.PaymentMethod != models.PaymentMethodCash {
		t.Errorf("expected cash default, got %q", tx.PaymentMethod)
	}
}
