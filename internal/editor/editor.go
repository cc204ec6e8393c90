// Package editor holds each owner's working copy of their menu. Mutations
// replace the working copy immediately and are pushed to the remote store
// in the background.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/menucraft/menucraft/internal/menu"
	"github.com/menucraft/menucraft/internal/menusync"
)

// Syncer is the part of menusync.Adapter the editor needs.
type Syncer interface {
	Load(ctx context.Context, ownerID string) (menu.Menu, error)
	Save(ctx context.Context, ownerID string, m menu.Menu) error
}

// Listener is called after every accepted mutation, while the owner's
// session is still locked.
type Listener func(ownerID string, m menu.Menu)

// MutateFunc is one Mutation Engine call bound to its arguments.
type MutateFunc func(menu.Menu) (menu.Menu, error)

type Editor struct {
	sync        Syncer
	logger      *slog.Logger
	saveTimeout time.Duration
	now         func() time.Time

	mu        sync.Mutex
	sessions  map[string]*session
	listeners []Listener

	saves sync.WaitGroup
}

type session struct {
	mu       sync.Mutex
	loaded   bool
	menu     menu.Menu
	version  uint64
	lastUsed time.Time
	// evicted is set once the session has left the sessions map; holders
	// of a stale pointer must look the owner up again.
	evicted bool
	pending sync.WaitGroup

	saveMu       sync.Mutex
	savedVersion uint64
}

func New(s Syncer, logger *slog.Logger) *Editor {
	return &Editor{
		sync:        s,
		logger:      logger.With("component", "editor"),
		saveTimeout: 15 * time.Second,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
}

// OnChange registers l for every accepted mutation.
func (e *Editor) OnChange(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

func (e *Editor) session(ownerID string) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[ownerID]
	if !ok {
		s = &session{}
		e.sessions[ownerID] = s
	}
	return s
}

// lock returns the owner's live session with its mutex held.
func (e *Editor) lock(ownerID string) *session {
	for {
		s := e.session(ownerID)
		s.mu.Lock()
		if !s.evicted {
			s.lastUsed = e.now()
			return s
		}
		s.mu.Unlock()
	}
}

// Current returns the owner's working menu, loading it on first use. A
// missing or unreadable document is replaced by the bootstrap menu, which
// is saved. A *menusync.SyncError is returned as is so the caller can
// retry.
func (e *Editor) Current(ctx context.Context, ownerID string) (menu.Menu, error) {
	s := e.lock(ownerID)
	defer s.mu.Unlock()

	if err := e.ensureLoaded(ctx, s, ownerID); err != nil {
		return menu.Menu{}, err
	}
	return s.menu.Clone(), nil
}

// Apply runs fn against the working menu. On success the result becomes
// the working menu, listeners are told and a save is started. On failure
// the working menu is unchanged and fn's error is returned.
func (e *Editor) Apply(ctx context.Context, ownerID string, fn MutateFunc) (menu.Menu, error) {
	s := e.lock(ownerID)
	defer s.mu.Unlock()

	if err := e.ensureLoaded(ctx, s, ownerID); err != nil {
		return menu.Menu{}, err
	}
	next, err := fn(s.menu)
	if err != nil {
		return s.menu.Clone(), err
	}
	s.menu = next
	e.saveAsync(s, ownerID, next)
	e.notify(ownerID, next)
	return next.Clone(), nil
}

// Forget drops the owner's working copy once its pending saves have
// landed, so the next load reads what was saved. A copy whose last save
// failed is kept, since it is the only record of those edits. Forget
// reports whether the copy was dropped.
func (e *Editor) Forget(ownerID string) bool {
	e.mu.Lock()
	s, ok := e.sessions[ownerID]
	e.mu.Unlock()
	if !ok {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return e.evict(ownerID, s)
}

// EvictIdle drops working copies unused for longer than idle. Sessions busy
// with a request are skipped. It returns how many were dropped.
func (e *Editor) EvictIdle(idle time.Duration) int {
	e.mu.Lock()
	candidates := make(map[string]*session, len(e.sessions))
	for id, s := range e.sessions {
		candidates[id] = s
	}
	e.mu.Unlock()

	cutoff := e.now().Add(-idle)
	n := 0
	for id, s := range candidates {
		if !s.mu.TryLock() {
			continue
		}
		if !s.evicted && s.lastUsed.Before(cutoff) && e.evict(id, s) {
			n++
		}
		s.mu.Unlock()
	}
	return n
}

// evict must be called with s.mu held.
func (e *Editor) evict(ownerID string, s *session) bool {
	s.pending.Wait()
	s.saveMu.Lock()
	unsaved := s.loaded && s.savedVersion < s.version
	s.saveMu.Unlock()
	if unsaved {
		e.logger.Warn("keeping unsaved working copy", "owner_id", ownerID)
		return false
	}
	s.evicted = true
	e.mu.Lock()
	if e.sessions[ownerID] == s {
		delete(e.sessions, ownerID)
	}
	e.mu.Unlock()
	return true
}

// Sessions reports how many working copies are held.
func (e *Editor) Sessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// Wait blocks until every started save has finished.
func (e *Editor) Wait() {
	e.saves.Wait()
}

func (e *Editor) ensureLoaded(ctx context.Context, s *session, ownerID string) error {
	if s.loaded {
		return nil
	}
	m, err := e.sync.Load(ctx, ownerID)
	var integrity *menu.DocumentIntegrityError
	switch {
	case err == nil:
	case errors.Is(err, menusync.ErrNotFound):
		e.logger.Info("creating bootstrap menu", "owner_id", ownerID)
		m = menu.CreateBootstrapMenu(ownerID)
		e.saveAsync(s, ownerID, m)
	case errors.As(err, &integrity):
		e.logger.Warn("stored menu unreadable, replacing with bootstrap menu", "owner_id", ownerID, "error", err)
		m = menu.CreateBootstrapMenu(ownerID)
		e.saveAsync(s, ownerID, m)
	default:
		return err
	}
	s.menu = m
	s.loaded = true
	return nil
}

// saveAsync makes one save attempt in the background. It must be called
// with s.mu held. A save that starts
// after a newer one has already landed is skipped. Failures are logged and
// the working menu stays authoritative.
func (e *Editor) saveAsync(s *session, ownerID string, m menu.Menu) {
	s.version++
	v := s.version
	e.saves.Add(1)
	s.pending.Add(1)
	go func() {
		defer e.saves.Done()
		defer s.pending.Done()
		s.saveMu.Lock()
		defer s.saveMu.Unlock()
		if v <= s.savedVersion {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), e.saveTimeout)
		defer cancel()
		if err := e.sync.Save(ctx, ownerID, m); err != nil {
			e.logger.Error("save menu failed", "owner_id", ownerID, "error", err)
			return
		}
		s.savedVersion = v
	}()
}

func (e *Editor) notify(ownerID string, m menu.Menu) {
	e.mu.Lock()
	listeners := append([]Listener(nil), e.listeners...)
	e.mu.Unlock()
	for _, l := range listeners {
		l(ownerID, m)
	}
}
