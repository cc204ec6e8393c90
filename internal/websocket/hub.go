package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/menucraft/menucraft/internal/menu"
)

const TypeMenuUpdated = "menu_updated"

// Message is pushed to every viewer of a menu when it changes.
type Message struct {
	Type      string     `json:"type"`
	MenuID    string     `json:"menuId"`
	UpdatedAt int64      `json:"updatedAt"`
	Menu      *menu.Menu `json:"menu,omitempty"`
}

// MenuUpdated builds the notification for a saved menu.
func MenuUpdated(m menu.Menu, at time.Time) Message {
	return Message{
		Type:      TypeMenuUpdated,
		MenuID:    m.ID,
		UpdatedAt: at.UnixMilli(),
		Menu:      &m,
	}
}

// Hub tracks live clients grouped by the menu they are watching.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.menuID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.menuID] = set
	}
	set[c] = struct{}{}
}

// Unregister removes a client and closes its send channel. Safe to call
// twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.menuID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.menuID)
	}
}

// Broadcast sends msg to the viewers of msg.MenuID. Clients with a full
// buffer miss the message.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for c := range h.clients[msg.MenuID] {
		select {
		case c.send <- data:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("dropped menu update", "menu_id", msg.MenuID, "clients", dropped)
	}
}

// MenuChanged adapts the hub to the editor's change listener.
func (h *Hub) MenuChanged(ownerID string, m menu.Menu) {
	h.Broadcast(MenuUpdated(m, time.Now()))
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Watchers returns the number of clients watching menuID.
func (h *Hub) Watchers(menuID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[menuID])
}
