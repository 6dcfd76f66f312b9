// Package identity verifies external sign-in tokens and reduces them to the
// few profile fields the service keeps.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var (
	ErrNotConfigured = errors.New("google sign-in is not configured")
	ErrInvalidToken  = errors.New("invalid google id token")
)

// Identity is a verified external identity.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// Verifier verifies a credential issued by an identity provider.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// ValidateFunc matches idtoken.Validate.
type ValidateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleVerifier verifies Google Sign-In ID tokens for one OAuth client.
type GoogleVerifier struct {
	clientID string
	validate ValidateFunc
}

// NewGoogleVerifier returns a verifier for tokens issued to clientID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

// WithValidateFunc replaces the token validation call. Used by tests.
func (v *GoogleVerifier) WithValidateFunc(fn ValidateFunc) *GoogleVerifier {
	v.validate = fn
	return v
}

// Verify checks the token signature, audience and expiry and extracts the
// profile claims. Tokens without an email are rejected.
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	if v.clientID == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(credential) == "" {
		return nil, ErrInvalidToken
	}

	payload, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := &Identity{
		Subject:       payload.Subject,
		Email:         strings.ToLower(claimString(payload.Claims, "email")),
		EmailVerified: claimBool(payload.Claims, "email_verified"),
		Name:          claimString(payload.Claims, "name"),
		Picture:       claimString(payload.Claims, "picture"),
	}
	if id.Subject == "" || id.Email == "" {
		return nil, fmt.Errorf("%w: missing subject or email", ErrInvalidToken)
	}
	return id, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}

// claimBool reads a boolean claim that Google may encode as "true".
func claimBool(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
