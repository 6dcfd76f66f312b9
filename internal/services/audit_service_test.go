package services

import (
	"strings"
	"testing"

	"khatabook/internal/models"
	"khatabook/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	svc.Log(user.ID, "DELETE_ACCOUNT", "account", "account_1", "127.0.0.1", map[string]interface{}{"name": "Loan"})
	svc.Log(user.ID, "REORDER_ACCOUNTS", "account", "", "127.0.0.1", nil)

	var entries []models.AuditLog
	db.Where("user_id = ?", user.ID).Order("action ASC").Find(&entries)
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
	if entries[0].Action != "DELETE_ACCOUNT" || !strings.Contains(entries[0].Changes, "Loan") {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Changes != "" {
		t.Errorf("expected empty changes, got %q", entries[1].Changes)
	}
}
