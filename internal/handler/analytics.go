package handler

import (
	"net/http"

	"github.com/menucraft/menucraft/internal/auth"
	"github.com/menucraft/menucraft/internal/menusync"
)

type AnalyticsHandler struct {
	sync *menusync.Adapter
}

func NewAnalyticsHandler(a *menusync.Adapter) *AnalyticsHandler {
	return &AnalyticsHandler{sync: a}
}

func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sync.GetAnalyticsData(r.Context(), auth.OwnerID(r.Context())))
}
