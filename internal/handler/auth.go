package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/menucraft/menucraft/internal/auth"
	"github.com/menucraft/menucraft/internal/editor"
	"github.com/menucraft/menucraft/internal/menu"
	"github.com/menucraft/menucraft/internal/middleware"
	"github.com/menucraft/menucraft/internal/store"
)

var formValidator = validator.New(validator.WithRequiredStructEnabled())

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type registerForm struct {
	Name     string `validate:"required,max=120"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// AuthHandler signs owners in with email and password.
type AuthHandler struct {
	owners *store.OwnerStore
	tokens *auth.Tokens
	ttl    time.Duration
	editor *editor.Editor
	pages  *Pages
	secure bool
	logger *slog.Logger
}

func NewAuthHandler(owners *store.OwnerStore, tokens *auth.Tokens, ttl time.Duration, e *editor.Editor, pages *Pages, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		owners: owners,
		tokens: tokens,
		ttl:    ttl,
		editor: e,
		pages:  pages,
		secure: secureCookies,
		logger: logger,
	}
}

func (h *AuthHandler) loginError(w http.ResponseWriter, status int, email, msg string) {
	h.pages.render(w, status, "login.html", map[string]any{
		"Title": "Sign in | MenuCraft",
		"Email": email,
		"Error": msg,
	})
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, http.StatusOK, "login.html", map[string]any{"Title": "Sign in | MenuCraft"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	f := loginForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if err := formValidator.Struct(f); err != nil {
		h.loginError(w, http.StatusBadRequest, f.Email, "Enter your email and password.")
		return
	}

	owner, err := h.owners.GetByEmail(f.Email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		h.loginError(w, http.StatusInternalServerError, f.Email, "Something went wrong, please try again.")
		return
	}
	// Same message for unknown email and wrong password.
	if owner == nil || !auth.CheckPassword(owner.PasswordHash, f.Password) {
		h.loginError(w, http.StatusUnauthorized, f.Email, "Invalid email or password.")
		return
	}

	h.startSession(w, r, auth.OwnerContext{OwnerID: owner.ID, Email: owner.Email})
}

// Register creates the owner and seeds their menu with the starter
// document named after the restaurant.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	f := registerForm{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if err := formValidator.Struct(f); err != nil {
		h.loginError(w, http.StatusBadRequest, f.Email, "Restaurant name and a valid email are required.")
		return
	}

	existing, err := h.owners.GetByEmail(f.Email)
	if err != nil {
		h.logger.Error("register lookup", "error", err)
		h.loginError(w, http.StatusInternalServerError, f.Email, "Something went wrong, please try again.")
		return
	}
	if existing != nil {
		h.loginError(w, http.StatusConflict, f.Email, "An account with that email already exists.")
		return
	}

	hash, err := auth.HashPassword(f.Password)
	if errors.Is(err, auth.ErrWeakPassword) {
		h.loginError(w, http.StatusBadRequest, f.Email, "Password must be at least 8 characters.")
		return
	}
	if err != nil {
		h.logger.Error("hash password", "error", err)
		h.loginError(w, http.StatusInternalServerError, f.Email, "Something went wrong, please try again.")
		return
	}

	owner, err := h.owners.Create(f.Email, f.Name, hash)
	if err != nil {
		h.logger.Error("create owner", "error", err)
		h.loginError(w, http.StatusInternalServerError, f.Email, "Something went wrong, please try again.")
		return
	}

	_, err = h.editor.Apply(r.Context(), owner.ID, func(m menu.Menu) (menu.Menu, error) {
		return menu.Rename(m, f.Name)
	})
	if err != nil {
		// The dashboard bootstraps the menu again on first load.
		h.logger.Warn("seed menu", "owner_id", owner.ID, "error", err)
	}

	h.startSession(w, r, auth.OwnerContext{OwnerID: owner.ID, Email: owner.Email})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, oc auth.OwnerContext) {
	tok, err := h.tokens.Issue(oc)
	if err != nil {
		h.logger.Error("issue session", "error", err)
		h.loginError(w, http.StatusInternalServerError, oc.Email, "Something went wrong, please try again.")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(h.ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout clears the session cookie and drops the cached working copy once
// its saves have landed. Other devices of the same owner reload the saved
// menu on their next request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.editor.Forget(auth.OwnerID(r.Context()))
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
