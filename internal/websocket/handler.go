package websocket

import (
	"log/slog"
	"net/http"
	"strings"

	ws "github.com/coder/websocket"
)

// HandleWebSocket upgrades GET /ws?menu=<id> and streams updates for that
// menu until the viewer disconnects.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		menuID := strings.TrimSpace(r.URL.Query().Get("menu"))
		if menuID == "" {
			http.Error(w, "menu query parameter is required", http.StatusBadRequest)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			// Public menus are embedded and shared across origins.
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}
		defer conn.CloseNow()

		NewClient(hub, conn, menuID).Run(r.Context())
	}
}
