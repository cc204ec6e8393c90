package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/menucraft/menucraft/internal/auth"
	"github.com/menucraft/menucraft/internal/media"
)

type MediaHandler struct {
	media  *media.Store
	logger *slog.Logger
}

func NewMediaHandler(ms *media.Store, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{media: ms, logger: logger}
}

// Upload stores the multipart "file" field and returns its public URL.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.media.Configured() {
		writeError(w, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageSize+(1<<20))
	if err := r.ParseMultipartForm(media.MaxImageSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large or malformed upload")
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	f.Close()
	img, err := readImage(fh)
	if err != nil {
		writeMediaError(w, err)
		return
	}

	u, err := h.media.Put(r.Context(), auth.OwnerID(r.Context()), img.MIMEType, img.Data)
	if err != nil {
		if errors.Is(err, media.ErrUnsupported) || errors.Is(err, media.ErrTooLarge) {
			writeMediaError(w, err)
			return
		}
		h.logger.Error("upload image", "error", err)
		writeError(w, http.StatusBadGateway, "image upload failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": u})
}

func writeMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, media.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, media.ErrUnsupported):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
