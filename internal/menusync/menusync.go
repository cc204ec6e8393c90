// Package menusync moves menus between the in-memory editor and the remote
// document store, and records public view counters.
package menusync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/menucraft/menucraft/internal/docstore"
	"github.com/menucraft/menucraft/internal/menu"
)

// ErrNotFound means no document exists for the key. It is the same value
// as docstore.ErrNotFound.
var ErrNotFound = docstore.ErrNotFound

// SyncError wraps a failure talking to the remote store. Callers may retry.
type SyncError struct {
	Op  string
	Key string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

type Adapter struct {
	store  docstore.Store
	logger *slog.Logger
	now    func() time.Time
}

func New(store docstore.Store, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		logger: logger.With("component", "menusync"),
		now:    time.Now,
	}
}

// Load returns the owner's menu. It never creates one: a missing document
// is ErrNotFound and an unreadable one is a *menu.DocumentIntegrityError.
func (a *Adapter) Load(ctx context.Context, ownerID string) (menu.Menu, error) {
	return a.load(ctx, ownerID)
}

// LoadPublic reads a menu by its public id. Menus are stored under the
// owner id, which is also the menu id.
func (a *Adapter) LoadPublic(ctx context.Context, menuID string) (menu.Menu, error) {
	return a.load(ctx, menuID)
}

func (a *Adapter) load(ctx context.Context, key string) (menu.Menu, error) {
	doc, err := a.store.Get(ctx, key)
	if errors.Is(err, docstore.ErrNotFound) {
		return menu.Menu{}, ErrNotFound
	}
	if err != nil {
		return menu.Menu{}, &SyncError{Op: "load", Key: key, Err: err}
	}
	return menu.Decode(doc.Body)
}

type storedMenu struct {
	menu.Menu
	UpdatedAt int64 `json:"updatedAt"`
}

// Save overwrites the owner's document with m. One attempt is made.
func (a *Adapter) Save(ctx context.Context, ownerID string, m menu.Menu) error {
	now := a.now()
	body, err := json.Marshal(storedMenu{Menu: m, UpdatedAt: now.UnixMilli()})
	if err != nil {
		return &SyncError{Op: "save", Key: ownerID, Err: fmt.Errorf("encode menu: %w", err)}
	}
	if err := a.store.Put(ctx, ownerID, docstore.Document{Body: body, UpdatedAt: now}); err != nil {
		return &SyncError{Op: "save", Key: ownerID, Err: err}
	}
	return nil
}
