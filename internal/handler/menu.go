package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/menucraft/menucraft/internal/ai"
	"github.com/menucraft/menucraft/internal/auth"
	"github.com/menucraft/menucraft/internal/editor"
	"github.com/menucraft/menucraft/internal/media"
	"github.com/menucraft/menucraft/internal/menu"
)

const maxImportImages = 5

// MenuHandler serves the owner's menu editing API.
type MenuHandler struct {
	editor  *editor.Editor
	ai      *ai.Service
	media   *media.Store
	baseURL string
	logger  *slog.Logger
	newID   menu.IDFunc

	importing sync.Map // owner id -> struct{}
}

func NewMenuHandler(e *editor.Editor, svc *ai.Service, ms *media.Store, baseURL string, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		editor:  e,
		ai:      svc,
		media:   ms,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
		newID:   menu.NewID,
	}
}

func (h *MenuHandler) apply(w http.ResponseWriter, r *http.Request, status int, fn editor.MutateFunc) {
	m, err := h.editor.Apply(r.Context(), auth.OwnerID(r.Context()), fn)
	if err != nil {
		writeMenuError(w, h.logger, err)
		return
	}
	writeJSON(w, status, m)
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.editor.Current(r.Context(), auth.OwnerID(r.Context()))
	if err != nil {
		writeMenuError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MenuHandler) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, menu.Templates())
}

func (h *MenuHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if decodeJSON(w, r, &body) != nil {
		return
	}
	h.apply(w, r, http.StatusOK, func(m menu.Menu) (menu.Menu, error) {
		return menu.Rename(m, body.Name)
	})
}

func (h *MenuHandler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	var info menu.RestaurantInfo
	if decodeJSON(w, r, &info) != nil {
		return
	}
	ownerID := auth.OwnerID(r.Context())
	img, err := h.storeImage(r.Context(), ownerID, info.HeaderImage)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	info.HeaderImage = img
	h.apply(w, r, http.StatusOK, func(m menu.Menu) (menu.Menu, error) {
		return menu.UpdateRestaurantInfo(m, info), nil
	})
}

func (h *MenuHandler) UpdateStyle(w http.ResponseWriter, r *http.Request) {
	var s menu.Style
	if decodeJSON(w, r, &s) != nil {
		return
	}
	h.apply(w, r, http.StatusOK, func(m menu.Menu) (menu.Menu, error) {
		return menu.UpdateStyle(m, s)
	})
}

func (h *MenuHandler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("templateId")
	h.apply(w, r, http.StatusOK, func(m menu.Menu) (menu.Menu, error) {
		return menu.ApplyTemplate(m, id)
	})
}

// itemRequest lets a missing isAvailable be told apart from false.
type itemRequest struct {
	menu.Item
	IsAvailable *bool `json:"isAvailable"`
}

// CreateItem adds a dish. Unset isAvailable means available.
func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if decodeJSON(w, r, &req) != nil {
		return
	}
	item := req.Item
	if item.ID == "" {
		item.ID = h.newID("item")
	}
	item.IsAvailable = req.IsAvailable == nil || *req.IsAvailable
	h.saveItem(w, r, http.StatusCreated, item, menu.AddItem)
}

// UpdateItem replaces the item with the path id. A changed categoryId
// moves the item. Unset isAvailable keeps the current value.
func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if decodeJSON(w, r, &req) != nil {
		return
	}
	item := req.Item
	item.ID = r.PathValue("id")
	h.saveItem(w, r, http.StatusOK, item, func(m menu.Menu, it menu.Item) (menu.Menu, error) {
		switch {
		case req.IsAvailable != nil:
			it.IsAvailable = *req.IsAvailable
		default:
			it.IsAvailable = true
			if cur, ok := m.FindItem(it.ID); ok {
				it.IsAvailable = cur.IsAvailable
			}
		}
		return menu.UpdateItem(m, it)
	})
}

func (h *MenuHandler) saveItem(w http.ResponseWriter, r *http.Request, status int, item menu.Item, op func(menu.Menu, menu.Item) (menu.Menu, error)) {
	img, err := h.storeImage(r.Context(), auth.OwnerID(r.Context()), item.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item.Image = img
	h.apply(w, r, status, func(m menu.Menu) (menu.Menu, error) {
		return op(m, item)
	})
}

func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	catID, itemID := r.PathValue("categoryId"), r.PathValue("id")
	h.apply(w, r, http.StatusOK, func(m menu.Menu) (menu.Menu, error) {
		return menu.DeleteItem(m, catID, itemID), nil
	})
}

func (h *MenuHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsAvailable *bool `json:"isAvailable"`
	}
	if decodeJSON(w, r, &body) != nil {
		return
	}
	if body.IsAvailable == nil {
		writeError(w, http.StatusBadRequest, "isAvailable is required")
		return
	}
	id := r.PathValue("id")
	h.apply(w, r, http.StatusOK, func(m menu.Menu) (menu.Menu, error) {
		return menu.SetItemAvailability(m, id, *body.IsAvailable)
	})
}

func (h *MenuHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var c menu.Category
	if decodeJSON(w, r, &c) != nil {
		return
	}
	if c.ID == "" {
		c.ID = h.newID("cat")
	}
	h.apply(w, r, http.StatusCreated, func(m menu.Menu) (menu.Menu, error) {
		return menu.AddCategory(m, c)
	})
}

func (h *MenuHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var c menu.Category
	if decodeJSON(w, r, &c) != nil {
		return
	}
	c.ID = r.PathValue("id")
	h.apply(w, r, http.StatusOK, func(m menu.Menu) (menu.Menu, error) {
		return menu.UpdateCategory(m, c)
	})
}

func (h *MenuHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.apply(w, r, http.StatusOK, func(m menu.Menu) (menu.Menu, error) {
		return menu.DeleteCategory(m, id), nil
	})
}

func (h *MenuHandler) MoveCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Index     int            `json:"index"`
		Direction menu.Direction `json:"direction"`
	}
	if decodeJSON(w, r, &body) != nil {
		return
	}
	h.apply(w, r, http.StatusOK, func(m menu.Menu) (menu.Menu, error) {
		return menu.MoveCategory(m, body.Index, body.Direction)
	})
}

type importResult struct {
	Menu       menu.Menu                `json:"menu"`
	Categories []menu.ExtractedCategory `json:"extracted"`
}

// Import extracts dishes from uploaded menu photos and merges them into
// the owner's menu. Only one import per owner runs at a time. Photos that
// yield nothing answer 422 and leave the menu untouched.
func (h *MenuHandler) Import(w http.ResponseWriter, r *http.Request) {
	if !h.ai.Configured() {
		writeError(w, http.StatusServiceUnavailable, "AI features are not configured")
		return
	}
	ownerID := auth.OwnerID(r.Context())
	if _, busy := h.importing.LoadOrStore(ownerID, struct{}{}); busy {
		writeError(w, http.StatusConflict, "an import is already running")
		return
	}
	defer h.importing.Delete(ownerID)

	r.Body = http.MaxBytesReader(w, r.Body, maxImportImages*media.MaxImageSize+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "at least one image is required")
		return
	}
	if len(files) > maxImportImages {
		writeError(w, http.StatusBadRequest, "too many images")
		return
	}

	images := make([]ai.Image, 0, len(files))
	for _, fh := range files {
		img, err := readImage(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		images = append(images, img)
	}

	extracted := h.ai.ExtractMenu(r.Context(), images)
	if len(extracted) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no dishes could be read from the images")
		return
	}
	h.merge(w, r, extracted)
}

// ImportExtracted merges categories the client already extracted and
// reviewed.
func (h *MenuHandler) ImportExtracted(w http.ResponseWriter, r *http.Request) {
	var extracted []menu.ExtractedCategory
	if decodeJSON(w, r, &extracted) != nil {
		return
	}
	h.merge(w, r, extracted)
}

func (h *MenuHandler) merge(w http.ResponseWriter, r *http.Request, extracted []menu.ExtractedCategory) {
	if extracted == nil {
		extracted = []menu.ExtractedCategory{}
	}
	m, err := h.editor.Apply(r.Context(), auth.OwnerID(r.Context()), func(m menu.Menu) (menu.Menu, error) {
		return menu.MergeExtractedCategories(m, extracted, h.newID), nil
	})
	if err != nil {
		writeMenuError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, importResult{Menu: m, Categories: extracted})
}

type shareLinks struct {
	URL         string `json:"url"`
	QRCodeURL   string `json:"qrCodeUrl"`
	DownloadURL string `json:"downloadUrl"`
}

func newShareLinks(baseURL, menuID string) shareLinks {
	public := baseURL + "/menu/" + url.PathEscape(menuID)
	qr := func(size string) string {
		return "https://api.qrserver.com/v1/create-qr-code/?size=" + size + "&data=" + url.QueryEscape(public)
	}
	return shareLinks{URL: public, QRCodeURL: qr("240x240"), DownloadURL: qr("1000x1000")}
}

func (h *MenuHandler) Share(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newShareLinks(h.baseURL, auth.OwnerID(r.Context())))
}

// storeImage uploads a data URI image to object storage when it is
// configured. URLs, empty values and data URIs without storage pass
// through unchanged.
func (h *MenuHandler) storeImage(ctx context.Context, menuID, img string) (string, error) {
	if !strings.HasPrefix(img, "data:") || !h.media.Configured() {
		return img, nil
	}
	u, err := h.media.PutDataURI(ctx, menuID, img)
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, media.ErrUnsupported), errors.Is(err, media.ErrTooLarge):
		return "", err
	default:
		h.logger.Warn("image upload failed, keeping inline image", "menu_id", menuID, "error", err)
		return img, nil
	}
}

func readImage(fh *multipart.FileHeader) (ai.Image, error) {
	if fh.Size > media.MaxImageSize {
		return ai.Image{}, media.ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return ai.Image{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, media.MaxImageSize+1))
	if err != nil {
		return ai.Image{}, err
	}
	if len(data) > media.MaxImageSize {
		return ai.Image{}, media.ErrTooLarge
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return ai.Image{}, media.ErrUnsupported
	}
	return ai.Image{MIMEType: mime, Data: data}, nil
}
