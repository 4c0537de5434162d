package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/api/auth"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/api/operatorctx"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	return priv
}

func mustNotCall(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next should not be called")
	})
}

func TestAuthMiddleware_Prod_RejectsMissingToken(t *testing.T) {
	priv := newKey(t)

	h := AuthMiddleware{Env: "prod", PublicKey: &priv.PublicKey, Next: mustNotCall(t)}

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/runs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddleware_Prod_RejectsInvalidToken(t *testing.T) {
	priv := newKey(t)

	h := AuthMiddleware{Env: "prod", PublicKey: &priv.PublicKey, Next: mustNotCall(t)}

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/runs", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddleware_Prod_RejectsExpiredToken(t *testing.T) {
	priv := newKey(t)

	h := AuthMiddleware{Env: "prod", PublicKey: &priv.PublicKey, Next: mustNotCall(t)}

	// ttl negative => already expired
	token, err := auth.SignRS256(priv, "ops", -1*time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/runs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddleware_Prod_RejectsHS256(t *testing.T) {
	priv := newKey(t)

	h := AuthMiddleware{Env: "prod", PublicKey: &priv.PublicKey, Next: mustNotCall(t)}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	s, err := tok.SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/runs", nil)
	req.Header.Set("Authorization", "Bearer "+s)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Prod_AllowsValidToken_InjectsOperator(t *testing.T) {
	priv := newKey(t)

	nextCalls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalls++
		if got := operatorctx.Operator(r.Context()); got != "ops@soumya.example" {
			t.Fatalf("expected operator from sub, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	})

	h := AuthMiddleware{Env: "prod", PublicKey: &priv.PublicKey, Next: next}

	token, err := auth.SignRS256(priv, "ops@soumya.example", 5*time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/sync/runs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || nextCalls != 1 {
		t.Fatalf("expected pass-through, got %d calls=%d", rec.Code, nextCalls)
	}
}

func TestAuthMiddleware_Dev_AllowsMissingTokenAsDevOperator(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := operatorctx.Operator(r.Context()); got != operatorctx.DevOperator {
			t.Fatalf("expected dev operator, got %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	h := AuthMiddleware{Env: "dev", Next: next}

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/runs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Dev_StillValidatesPresentToken(t *testing.T) {
	priv := newKey(t)

	h := AuthMiddleware{Env: "dev", PublicKey: &priv.PublicKey, Next: mustNotCall(t)}

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/runs", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
