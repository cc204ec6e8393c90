package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/menucraft/menucraft/internal/ai"
	"github.com/menucraft/menucraft/internal/auth"
	"github.com/menucraft/menucraft/internal/database"
	"github.com/menucraft/menucraft/internal/docstore"
	"github.com/menucraft/menucraft/internal/editor"
	"github.com/menucraft/menucraft/internal/handler"
	"github.com/menucraft/menucraft/internal/media"
	"github.com/menucraft/menucraft/internal/menusync"
	"github.com/menucraft/menucraft/internal/middleware"
	"github.com/menucraft/menucraft/internal/store"
	ws "github.com/menucraft/menucraft/internal/websocket"
)

// Options carries the settings the server needs beyond its stores.
type Options struct {
	BaseURL       string
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
	// AI is nil when no model is configured; AI endpoints then fall back.
	AI    ai.Client
	Media *media.Store
}

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	editor      *editor.Editor
	tokens      *auth.Tokens
	menuH       *handler.MenuHandler
	aiH         *handler.AIHandler
	mediaH      *handler.MediaHandler
	analyticsH  *handler.AnalyticsHandler
	publicH     *handler.PublicHandler
	authH       *handler.AuthHandler
	pages       *handler.Pages
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// New wires the server. db holds owner accounts; docs holds menu documents
// and view counters and may be backed by a different database.
func New(db *sql.DB, docs docstore.Store, opts Options, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	adapter := menusync.New(docs, logger)
	ed := editor.New(adapter, logger)
	ed.OnChange(hub.MenuChanged)

	aiSvc := ai.NewService(opts.AI, logger)
	mediaStore := opts.Media
	if mediaStore == nil {
		mediaStore = media.NewStore(media.S3Config{})
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	tokens := auth.NewTokens(opts.SessionSecret, ttl)

	handlerLogger := logger.With("component", "handler")
	pages := handler.NewPages(ed, adapter, aiSvc, opts.BaseURL, handlerLogger)

	return &Server{
		db:          db,
		hub:         hub,
		editor:      ed,
		tokens:      tokens,
		menuH:       handler.NewMenuHandler(ed, aiSvc, mediaStore, opts.BaseURL, handlerLogger),
		aiH:         handler.NewAIHandler(aiSvc, mediaStore, handlerLogger),
		mediaH:      handler.NewMediaHandler(mediaStore, handlerLogger),
		analyticsH:  handler.NewAnalyticsHandler(adapter),
		publicH:     handler.NewPublicHandler(adapter, pages, handlerLogger),
		authH:       handler.NewAuthHandler(store.NewOwnerStore(db), tokens, ttl, ed, pages, opts.SecureCookies, handlerLogger),
		pages:       pages,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// EvictIdleSessions drops owners' working copies unused for longer than
// idle and returns how many went.
func (s *Server) EvictIdleSessions(idle time.Duration) int {
	return s.editor.EvictIdle(idle)
}

// Wait blocks until background menu saves have finished.
func (s *Server) Wait() {
	s.editor.Wait()
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /{$}", s.pages.Landing)
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.limited(s.authH.Login, middleware.ByIP, loginLimit))
	outerMux.HandleFunc("POST /register", s.limited(s.authH.Register, middleware.ByIP, loginLimit))
	outerMux.HandleFunc("GET /menu/{menuId}", s.publicH.MenuPage)
	outerMux.HandleFunc("GET /demo", s.publicH.Demo)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
	outerMux.HandleFunc("GET /api/public/menus/{menuId}", s.publicH.MenuJSON)
	outerMux.HandleFunc("POST /api/public/menus/{menuId}/items/{itemId}/view", s.limited(s.publicH.RecordItemView, middleware.ByIPAndMenu, itemViewLimit))

	// Everything else needs an owner session
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	outerMux.Handle("/", middleware.RequireOwner(s.tokens)(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

// healthHandler checks the owners database and reports its schema
// version. Menu document storage is not checked; owners keep editing their
// working copy through a document store outage.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	version, err := database.SchemaVersion(r.Context(), s.db)
	if err != nil {
		s.logger.Error("health check", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"status": "ok", "schemaVersion": version})
}

// Per-minute request limits.
const (
	loginLimit    = 10 // per client address
	itemViewLimit = 30 // per client address and menu
	aiLimit       = 20 // per owner, covers imports and AI helpers
)

func (s *Server) limited(h http.HandlerFunc, key func(*http.Request) string, n int) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, key, n, time.Minute)(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /dashboard", s.pages.Dashboard)
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Menu document
	mux.HandleFunc("GET /api/menu", s.menuH.Get)
	mux.HandleFunc("PUT /api/menu/name", s.menuH.Rename)
	mux.HandleFunc("PUT /api/menu/restaurant", s.menuH.UpdateRestaurant)
	mux.HandleFunc("PUT /api/menu/style", s.menuH.UpdateStyle)
	mux.HandleFunc("POST /api/menu/template/{templateId}", s.menuH.ApplyTemplate)
	mux.HandleFunc("GET /api/templates", s.menuH.Templates)
	mux.HandleFunc("GET /api/menu/share", s.menuH.Share)

	// Items
	mux.HandleFunc("POST /api/menu/items", s.menuH.CreateItem)
	mux.HandleFunc("PUT /api/menu/items/{id}", s.menuH.UpdateItem)
	mux.HandleFunc("POST /api/menu/items/{id}/availability", s.menuH.SetAvailability)
	mux.HandleFunc("DELETE /api/menu/categories/{categoryId}/items/{id}", s.menuH.DeleteItem)

	// Categories
	mux.HandleFunc("POST /api/menu/categories", s.menuH.CreateCategory)
	mux.HandleFunc("POST /api/menu/categories/move", s.menuH.MoveCategory)
	mux.HandleFunc("PUT /api/menu/categories/{id}", s.menuH.UpdateCategory)
	mux.HandleFunc("DELETE /api/menu/categories/{id}", s.menuH.DeleteCategory)

	// Import
	mux.HandleFunc("POST /api/menu/import", s.limited(s.menuH.Import, middleware.ByOwner, aiLimit))
	mux.HandleFunc("POST /api/menu/import/extracted", s.menuH.ImportExtracted)

	// AI helpers
	mux.HandleFunc("POST /api/ai/translate", s.limited(s.aiH.Translate, middleware.ByOwner, aiLimit))
	mux.HandleFunc("POST /api/ai/description", s.limited(s.aiH.Description, middleware.ByOwner, aiLimit))
	mux.HandleFunc("POST /api/ai/analyze-image", s.limited(s.aiH.AnalyzeImage, middleware.ByOwner, aiLimit))
	mux.HandleFunc("POST /api/ai/transform-image", s.limited(s.aiH.TransformImage, middleware.ByOwner, aiLimit))

	mux.HandleFunc("POST /api/media", s.mediaH.Upload)
	mux.HandleFunc("GET /api/analytics", s.analyticsH.Get)

	mux.HandleFunc("/", s.pages.NotFound)
}
