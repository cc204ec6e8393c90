package middleware

import (
	"net/http"
	"strings"

	"github.com/menucraft/menucraft/internal/auth"
)

// SessionCookie carries the owner's signed session token.
const SessionCookie = "menucraft_session"

// TokenParser verifies a session token.
type TokenParser interface {
	Parse(token string) (auth.OwnerContext, error)
}

// RequireOwner validates the session cookie and populates the owner
// context. API requests without a valid session get a 401; page requests
// are redirected to the login page.
func RequireOwner(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				unauthorized(w, r)
				return
			}

			oc, err := tokens.Parse(cookie.Value)
			if err != nil {
				unauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithOwner(r.Context(), oc)))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"authentication required"}`))
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
