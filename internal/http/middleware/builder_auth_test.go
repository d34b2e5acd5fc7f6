package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestBuilderJWTMissingSecret(t *testing.T) {
	mw := BuilderJWT("")
	req := httptest.NewRequest(http.MethodGet, "/api/preview/sessions", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestBuilderJWTMissingHeader(t *testing.T) {
	mw := BuilderJWT("secret")
	req := httptest.NewRequest(http.MethodGet, "/api/preview/sessions", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestBuilderJWTInvalidToken(t *testing.T) {
	mw := BuilderJWT("secret")
	req := httptest.NewRequest(http.MethodGet, "/api/preview/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+signedBuilderToken(t, "wrong", nil))
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestBuilderJWTValidToken(t *testing.T) {
	mw := BuilderJWT("secret")
	req := httptest.NewRequest(http.MethodGet, "/api/preview/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+signedBuilderToken(t, "secret", nil))
	rec := httptest.NewRecorder()

	called := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := BuilderClaimsFromContext(r.Context()); !ok {
			t.Fatalf("expected builder claims in context")
		}
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func signedBuilderToken(t *testing.T, secret string, extra map[string]any) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "builder-user",
		"exp": jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	for k, v := range extra {
		claims[k] = v
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
