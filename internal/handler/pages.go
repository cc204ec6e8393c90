package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/menucraft/menucraft/internal/ai"
	"github.com/menucraft/menucraft/internal/auth"
	"github.com/menucraft/menucraft/internal/editor"
	"github.com/menucraft/menucraft/internal/menu"
	"github.com/menucraft/menucraft/internal/menusync"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFuncs = template.FuncMap{
	"price": formatPrice,
	"text": func(s menu.LocalizedString, lang string) string {
		return s.In(menu.Language(lang))
	},
	"fontStack": fontStack,
	"imageURL":  imageURL,
}

// imageURL lets stored http(s) and inline image URIs through the
// template URL filter.
func imageURL(s string) template.URL {
	if strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return ""
}

func formatPrice(p float64) string {
	if p == math.Trunc(p) {
		return fmt.Sprintf("฿%.0f", p)
	}
	return fmt.Sprintf("฿%.2f", p)
}

func fontStack(f menu.FontFamily) string {
	switch f {
	case menu.FontSerif:
		return "Georgia, serif"
	case menu.FontMono:
		return "Menlo, monospace"
	default:
		return "system-ui, sans-serif"
	}
}

// Pages renders the server-side HTML views.
type Pages struct {
	templates *template.Template
	editor    *editor.Editor
	sync      *menusync.Adapter
	ai        *ai.Service
	baseURL   string
	logger    *slog.Logger
}

func NewPages(e *editor.Editor, a *menusync.Adapter, svc *ai.Service, baseURL string, logger *slog.Logger) *Pages {
	return &Pages{
		templates: template.Must(template.New("").Funcs(pageFuncs).ParseFS(templateFS, "templates/*.html")),
		editor:    e,
		sync:      a,
		ai:        svc,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		logger:    logger,
	}
}

// render executes into a buffer first so a template error never leaves a
// half-written page.
func (p *Pages) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		p.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (p *Pages) Landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		p.NotFound(w, r)
		return
	}
	p.render(w, http.StatusOK, "landing.html", map[string]any{
		"Title":     "MenuCraft",
		"Templates": menu.Templates(),
	})
}

func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusNotFound, "notfound.html", map[string]any{"Title": "Not found"})
}

// MenuUnavailable is shown when a stored menu exists but cannot be read.
func (p *Pages) MenuUnavailable(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusInternalServerError, "unavailable.html", map[string]any{"Title": "Menu unavailable"})
}

func (p *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())
	m, err := p.editor.Current(r.Context(), ownerID)
	if err != nil {
		p.logger.Warn("load dashboard menu", "owner_id", ownerID, "error", err)
		http.Error(w, "Your menu could not be loaded right now. Please refresh to retry.", http.StatusServiceUnavailable)
		return
	}
	p.render(w, http.StatusOK, "dashboard.html", map[string]any{
		"Title":     m.Name + " | MenuCraft",
		"Menu":      m,
		"Share":     newShareLinks(p.baseURL, m.ID),
		"Analytics": p.sync.GetAnalyticsData(r.Context(), ownerID),
		"AIEnabled": p.ai.Configured(),
	})
}
