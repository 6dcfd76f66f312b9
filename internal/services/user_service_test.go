package services

import (
	"testing"
	"time"

	"khatabook/internal/identity"
	"khatabook/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Alice@Example.com", "password123", "Alice")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected lower-cased email, got %s", user.Email)
		}
		if user.Name != "Alice" {
			t.Errorf("expected name Alice, got %s", user.Name)
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "password456", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("empty_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "password123", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateUser("a@b.com", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("password_is_hashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("hash@example.com", "mypassword", "")
		testutil.AssertNoError(t, err)

		if user.Password == "mypassword" {
			t.Error("password should be hashed, not stored as plaintext")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("mypassword")); err != nil {
			t.Error("password hash should be valid bcrypt")
		}
	})
}

func TestGetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	got, err := svc.GetUserByID(user.ID)
	testutil.AssertNoError(t, err)
	if got.Email != user.Email {
		t.Errorf("expected %s, got %s", user.Email, got.Email)
	}

	_, err = svc.GetUserByID("missing")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_resets_attempts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		db.Exec("UPDATE users SET failed_login_attempts = 3 WHERE id = ?", user.ID)

		got, err := svc.AttemptLogin(user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)

		if got.FailedLoginAttempts != 0 {
			t.Errorf("expected 0 failed attempts after success, got %d", got.FailedLoginAttempts)
		}
		if got.LastLoginAt == nil {
			t.Error("expected LastLoginAt to be set after successful login")
		}
	})

	t.Run("wrong_password_increments_attempts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.AttemptLogin(user.Email, "wrongpassword")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		got, _ := svc.GetUserByEmail(user.Email)
		if got.FailedLoginAttempts != 1 {
			t.Errorf("expected 1 failed attempt, got %d", got.FailedLoginAttempts)
		}
	})

	t.Run("lockout_after_5_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			_, err := svc.AttemptLogin(user.Email, "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		got, _ := svc.GetUserByEmail(user.Email)
		if got.LockedUntil == nil || !got.LockedUntil.After(time.Now()) {
			t.Fatal("expected account to be locked into the future")
		}

		_, err := svc.AttemptLogin(user.Email, testutil.TestPassword)
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("nonexistent_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestFindOrCreateGoogleUser(t *testing.T) {
	t.Run("creates_new_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.FindOrCreateGoogleUser(&identity.Identity{Subject: "g-1", Email: "new@example.com", Name: "New"})
		testutil.AssertNoError(t, err)
		if user.GoogleID == nil || *user.GoogleID != "g-1" {
			t.Errorf("expected google id g-1, got %v", user.GoogleID)
		}
		if user.Password != "" {
			t.Error("expected google user to have no password")
		}

		again, err := svc.FindOrCreateGoogleUser(&identity.Identity{Subject: "g-1", Email: "new@example.com"})
		testutil.AssertNoError(t, err)
		if again.ID != user.ID {
			t.Errorf("expected same user on second sign-in, got %s and %s", user.ID, again.ID)
		}

		_, err = svc.AttemptLogin("new@example.com", "")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("links_existing_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		existing := testutil.CreateTestUserWithEmail(t, db, "linked@example.com")

		user, err := svc.FindOrCreateGoogleUser(&identity.Identity{Subject: "g-2", Email: "linked@example.com"})
		testutil.AssertNoError(t, err)
		if user.ID != existing.ID {
			t.Errorf("expected existing user %s, got %s", existing.ID, user.ID)
		}

		reloaded, _ := svc.GetUserByID(existing.ID)
		if reloaded.GoogleID == nil || *reloaded.GoogleID != "g-2" {
			t.Errorf("expected google id stored, got %v", reloaded.GoogleID)
		}
	})

	t.Run("rejects_incomplete_identity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.FindOrCreateGoogleUser(&identity.Identity{Subject: "g-3"})
		testutil.AssertAppError(t, err, "INVALID_ID_TOKEN")
	})
}

func TestStoreAndGetRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db)

	hash := "abcdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890"
	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, hash))

	got, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if got != hash {
		t.Errorf("expected hash %s, got %s", hash, got)
	}

	testutil.AssertAppError(t, svc.StoreRefreshTokenHash("missing", hash), "USER_NOT_FOUND")
}
