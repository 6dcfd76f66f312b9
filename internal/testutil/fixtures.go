package testutil

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"khatabook/internal/ledger"
	"khatabook/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plain-text password of users made by CreateTestUser.
const TestPassword = "password123"

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     "Test User",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// Day returns UTC midnight of the given calendar day, the way transaction
// dates are stored.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestTransaction stores a transaction. Empty type defaults to pay.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txn models.Transaction) *models.Transaction {
	t.Helper()

	txn.UserID = userID
	if txn.Type == "" {
		txn.Type = string(ledger.FlowOutgoing)
	}
	if txn.Category == "" {
		txn.Category = ledger.DefaultCategory
	}
	if txn.Date.IsZero() {
		txn.Date = Day(2024, time.January, 15)
	}
	if err := db.Create(&txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return &txn
}

// CreateTestPayment stores an outgoing transaction debiting account.
func CreateTestPayment(t *testing.T, db *gorm.DB, userID, account, amount string, date time.Time) *models.Transaction {
	t.Helper()
	return CreateTestTransaction(t, db, userID, models.Transaction{
		Type:         string(ledger.FlowOutgoing),
		Amount:       decimal.RequireFromString(amount),
		DebitAccount: account,
		Date:         date,
	})
}

// CreateTestSettings stores account overrides and categories for a user.
func CreateTestSettings(t *testing.T, db *gorm.DB, userID string, overrides []ledger.AccountOverride, categories *ledger.Categories) *models.UserSettings {
	t.Helper()

	settings := &models.UserSettings{UserID: userID}
	if overrides != nil {
		data, err := json.Marshal(overrides)
		if err != nil {
			t.Fatalf("failed to marshal overrides: %v", err)
		}
		settings.AccountConfig = string(data)
	}
	if categories != nil {
		data, err := json.Marshal(categories)
		if err != nil {
			t.Fatalf("failed to marshal categories: %v", err)
		}
		settings.CategoryConfig = string(data)
	}
	if err := db.Create(settings).Error; err != nil {
		t.Fatalf("failed to create test settings: %v", err)
	}
	return settings
}
