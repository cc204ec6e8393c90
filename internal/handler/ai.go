package handler

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/menucraft/menucraft/internal/ai"
	"github.com/menucraft/menucraft/internal/auth"
	"github.com/menucraft/menucraft/internal/media"
)

// AIHandler exposes the generative helpers used by the item editor.
// Translation, descriptions and photo analysis always answer 200 with a
// fallback when the model is unavailable.
type AIHandler struct {
	ai     *ai.Service
	media  *media.Store
	logger *slog.Logger
}

func NewAIHandler(svc *ai.Service, ms *media.Store, logger *slog.Logger) *AIHandler {
	return &AIHandler{ai: svc, media: ms, logger: logger}
}

func (h *AIHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text   string `json:"text"`
		Target string `json:"target"`
	}
	if decodeJSON(w, r, &body) != nil {
		return
	}
	lang, ok := parseLanguage(body.Target)
	if !ok {
		writeError(w, http.StatusBadRequest, "target must be en or th")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": h.ai.Translate(r.Context(), body.Text, lang)})
}

func (h *AIHandler) Description(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
		Lang string `json:"lang"`
	}
	if decodeJSON(w, r, &body) != nil {
		return
	}
	lang, ok := parseLanguage(body.Lang)
	if !ok {
		writeError(w, http.StatusBadRequest, "lang must be en or th")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": h.ai.GenerateDescription(r.Context(), body.Name, lang)})
}

type imageRequest struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt"`
}

func (h *AIHandler) readImage(w http.ResponseWriter, r *http.Request) (ai.Image, imageRequest, bool) {
	var body imageRequest
	if decodeJSON(w, r, &body) != nil {
		return ai.Image{}, body, false
	}
	mime, data, err := media.ParseDataURI(body.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image must be a base64 data URI: "+err.Error())
		return ai.Image{}, body, false
	}
	return ai.Image{MIMEType: mime, Data: data}, body, true
}

func (h *AIHandler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	img, _, ok := h.readImage(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.ai.AnalyzeImage(r.Context(), img))
}

type transformResponse struct {
	ai.GeneratedImage
	Image string `json:"image"`
}

// TransformImage returns a studio-style rendition of the dish photo. The
// new image is uploaded when storage is configured and returned inline
// otherwise.
func (h *AIHandler) TransformImage(w http.ResponseWriter, r *http.Request) {
	img, body, ok := h.readImage(w, r)
	if !ok {
		return
	}
	out, err := h.ai.TransformImage(r.Context(), img, body.Prompt)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "AI features are not configured")
			return
		}
		writeError(w, http.StatusBadGateway, "image generation failed, the original photo was kept")
		return
	}

	resp := transformResponse{GeneratedImage: out}
	if h.media.Configured() {
		u, err := h.media.Put(r.Context(), auth.OwnerID(r.Context()), out.MIMEType, out.Data)
		if err == nil {
			resp.Image = u
			writeJSON(w, http.StatusOK, resp)
			return
		}
		h.logger.Warn("upload generated image failed, returning inline", "error", err)
	}
	resp.Image = "data:" + out.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(out.Data)
	writeJSON(w, http.StatusOK, resp)
}
