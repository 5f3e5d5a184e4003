package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/voltmart/backend-volt/internal/common"
)

const testSecret = "super-secret-key"

func signToken(t *testing.T, subject, issuer string, alg jwa.SignatureAlgorithm, issued time.Time, ttl time.Duration) string {
	t.Helper()
	built, err := jwt.NewBuilder().
		Subject(subject).
		Issuer(issuer).
		IssuedAt(issued).
		Expiration(issued.Add(ttl)).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(alg, []byte(testSecret)))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

func TestVerifyTokenSuccess(t *testing.T) {
	v, err := NewVerifier(testSecret, "voltmart")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	fixed := time.Now()
	v.Now = func() time.Time { return fixed }

	tok := signToken(t, "user-42", "voltmart", jwa.HS256, fixed, time.Minute)
	subject, err := v.VerifyToken(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "user-42" {
		t.Fatalf("unexpected subject: %s", subject)
	}
}

func TestVerifyTokenRejectsWrongIssuer(t *testing.T) {
	v, err := NewVerifier(testSecret, "voltmart")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	tok := signToken(t, "user-42", "someone-else", jwa.HS256, time.Now(), time.Minute)
	if _, err := v.VerifyToken(tok); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	v, err := NewVerifier(testSecret, "voltmart")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	tok := signToken(t, "user-42", "voltmart", jwa.HS256, time.Now().Add(-2*time.Hour), time.Minute)
	if _, err := v.VerifyToken(tok); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestRequireAuthInjectsUserID(t *testing.T) {
	v, err := NewVerifier(testSecret, "voltmart")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	mw := Middleware{Verifier: v}

	var seen string
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = common.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-7", "voltmart", jwa.HS256, time.Now(), time.Minute))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if seen != "user-7" {
		t.Fatalf("unexpected user id: %s", seen)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	v, err := NewVerifier(testSecret, "voltmart")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	handler := Middleware{Verifier: v}.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}
