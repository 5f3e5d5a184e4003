package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ErrInvalidToken is returned for tokens that fail signature or claim checks.
var ErrInvalidToken = errors.New("auth: invalid token")

// Verifier checks HS256 bearer tokens issued by the identity service and
// extracts the subject user id.
type Verifier struct {
	Secret    []byte
	Issuer    string
	ClockSkew time.Duration

	// Now is overridable for tests. Nil means time.Now.
	Now func() time.Time
}

// NewVerifier builds a verifier for the shared signing secret.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	return &Verifier{
		Secret:    []byte(secret),
		Issuer:    issuer,
		ClockSkew: 30 * time.Second,
	}, nil
}

// VerifyToken parses and validates a bearer token, returning the subject.
func (v *Verifier) VerifyToken(raw string) (string, error) {
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	opts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256, v.Secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(now)),
		jwt.WithAcceptableSkew(v.ClockSkew),
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}
	tok, err := jwt.Parse([]byte(raw), opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	subject := strings.TrimSpace(tok.Subject())
	if subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return subject, nil
}
