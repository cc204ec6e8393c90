// Package handler serves the owner API, the public menu and the
// server-rendered pages.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/menucraft/menucraft/internal/menu"
	"github.com/menucraft/menucraft/internal/menusync"
)

const maxJSONBody = 12 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return err
	}
	return nil
}

// writeMenuError maps editor and mutation failures to responses.
func writeMenuError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *menu.ValidationError
	var se *menusync.SyncError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
	case errors.As(err, &se):
		logger.Warn("menu storage unavailable", "op", se.Op, "error", se.Err)
		writeError(w, http.StatusServiceUnavailable, "menu storage is unavailable, please retry")
	default:
		logger.Error("menu request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseLanguage(s string) (menu.Language, bool) {
	switch menu.Language(s) {
	case menu.English, menu.Thai:
		return menu.Language(s), true
	}
	return "", false
}
