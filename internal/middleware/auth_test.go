package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/menucraft/menucraft/internal/auth"
)

func guarded(t *testing.T, tokens *auth.Tokens, reached *auth.OwnerContext) http.Handler {
	t.Helper()
	return RequireOwner(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		oc, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected owner in request context")
		}
		*reached = oc
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireOwnerNoCookiePage(t *testing.T) {
	var got auth.OwnerContext
	handler := guarded(t, auth.NewTokens("secret", time.Hour), &got)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

func TestRequireOwnerNoCookieAPI(t *testing.T) {
	var got auth.OwnerContext
	handler := guarded(t, auth.NewTokens("secret", time.Hour), &got)

	req := httptest.NewRequest("GET", "/api/menu", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "authentication required") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRequireOwnerInvalidToken(t *testing.T) {
	var got auth.OwnerContext
	handler := guarded(t, auth.NewTokens("secret", time.Hour), &got)

	other, err := auth.NewTokens("other-secret", time.Hour).Issue(auth.OwnerContext{OwnerID: "o1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, value := range []string{"garbage", other} {
		req := httptest.NewRequest("GET", "/api/menu", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: value})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %.10q: status = %d, want %d", value, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestRequireOwnerValidSession(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	tok, err := tokens.Issue(auth.OwnerContext{OwnerID: "owner-1", Email: "chef@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got auth.OwnerContext
	handler := guarded(t, tokens, &got)

	req := httptest.NewRequest("GET", "/api/menu", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got.OwnerID != "owner-1" || got.Email != "chef@example.com" {
		t.Errorf("owner = %+v", got)
	}
}
