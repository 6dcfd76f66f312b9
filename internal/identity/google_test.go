package identity

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/idtoken"
)

func stubValidate(payload *idtoken.Payload, err error) ValidateFunc {
	return func(_ context.Context, _, audience string) (*idtoken.Payload, error) {
		if audience != "client-123" {
			return nil, errors.New("audience mismatch")
		}
		return payload, err
	}
}

func TestGoogleVerifier(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		v := NewGoogleVerifier("client-123").WithValidateFunc(stubValidate(&idtoken.Payload{
			Subject: "1085",
			Claims: map[string]interface{}{
				"email":          "Asha@Example.com",
				"email_verified": "true",
				"name":           "Asha",
				"picture":        "https://example.com/a.png",
			},
		}, nil))

		id, err := v.Verify(ctx, "token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.Subject != "1085" || id.Email != "asha@example.com" || !id.EmailVerified || id.Name != "Asha" {
			t.Errorf("unexpected identity: %+v", id)
		}
	})

	t.Run("not_configured", func(t *testing.T) {
		_, err := NewGoogleVerifier("").Verify(ctx, "token")
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
	})

	t.Run("empty_credential", func(t *testing.T) {
		_, err := NewGoogleVerifier("client-123").Verify(ctx, "  ")
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejected_by_google", func(t *testing.T) {
		v := NewGoogleVerifier("client-123").WithValidateFunc(stubValidate(nil, errors.New("token expired")))
		_, err := v.Verify(ctx, "token")
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("missing_email", func(t *testing.T) {
		v := NewGoogleVerifier("client-123").WithValidateFunc(stubValidate(&idtoken.Payload{
			Subject: "1085",
			Claims:  map[string]interface{}{},
		}, nil))
		if _, err := v.Verify(ctx, "token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
