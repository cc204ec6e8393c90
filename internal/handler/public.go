package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/menucraft/menucraft/internal/menu"
	"github.com/menucraft/menucraft/internal/menusync"
)

// PublicHandler serves menus to diners. A missing or unreachable menu is
// a 404; a stored menu that fails decoding is a 500.
type PublicHandler struct {
	sync   *menusync.Adapter
	pages  *Pages
	logger *slog.Logger
}

func NewPublicHandler(a *menusync.Adapter, pages *Pages, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{sync: a, pages: pages, logger: logger}
}

// load returns the published menu. The demo menu is served from memory
// and never counted.
func (h *PublicHandler) load(ctx context.Context, menuID string) (menu.Menu, error) {
	if menuID == menu.DemoMenuID {
		return menu.DemoMenu(), nil
	}
	m, err := h.sync.LoadPublic(ctx, menuID)
	if err != nil {
		var integrity *menu.DocumentIntegrityError
		switch {
		case errors.As(err, &integrity):
			h.logger.Error("public menu failed integrity check", "menu_id", menuID, "error", err)
		case !errors.Is(err, menusync.ErrNotFound):
			h.logger.Warn("load public menu", "menu_id", menuID, "error", err)
		}
		return menu.Menu{}, err
	}
	return m, nil
}

func writeLoadError(w http.ResponseWriter, err error) {
	var integrity *menu.DocumentIntegrityError
	if errors.As(err, &integrity) {
		writeError(w, http.StatusInternalServerError, "menu unavailable")
		return
	}
	writeError(w, http.StatusNotFound, "menu not found")
}

func (h *PublicHandler) recordView(ctx context.Context, menuID string) {
	if menuID != menu.DemoMenuID {
		h.sync.RecordMenuView(ctx, menuID)
	}
}

// MenuJSON returns the menu document. ?available=true drops sold-out
// items.
func (h *PublicHandler) MenuJSON(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("menuId")
	m, err := h.load(r.Context(), id)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	h.recordView(r.Context(), id)
	if r.URL.Query().Get("available") == "true" {
		m = m.Available()
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *PublicHandler) RecordItemView(w http.ResponseWriter, r *http.Request) {
	menuID, itemID := r.PathValue("menuId"), r.PathValue("itemId")
	m, err := h.load(r.Context(), menuID)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	item, ok := m.FindItem(itemID)
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if menuID != menu.DemoMenuID {
		h.sync.RecordItemView(r.Context(), menuID, item.ID, item.Name.En)
	}
	w.WriteHeader(http.StatusNoContent)
}

// MenuPage renders the diner view. ?lang=th switches language and ?q=
// filters dishes.
func (h *PublicHandler) MenuPage(w http.ResponseWriter, r *http.Request) {
	h.renderMenu(w, r, r.PathValue("menuId"))
}

func (h *PublicHandler) Demo(w http.ResponseWriter, r *http.Request) {
	h.renderMenu(w, r, menu.DemoMenuID)
}

func (h *PublicHandler) renderMenu(w http.ResponseWriter, r *http.Request, menuID string) {
	m, err := h.load(r.Context(), menuID)
	if err != nil {
		var integrity *menu.DocumentIntegrityError
		if errors.As(err, &integrity) {
			h.pages.MenuUnavailable(w, r)
			return
		}
		h.pages.NotFound(w, r)
		return
	}
	h.recordView(r.Context(), menuID)

	lang, ok := parseLanguage(r.URL.Query().Get("lang"))
	if !ok {
		lang = menu.English
	}
	query := r.URL.Query().Get("q")
	h.pages.render(w, http.StatusOK, "menu.html", map[string]any{
		"Title": m.Name,
		"Lang":  string(lang),
		"Query": query,
		"Menu":  m.Search(lang, query),
	})
}
