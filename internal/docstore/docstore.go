// Package docstore is the remote document store behind menu sync: one JSON
// document per key plus the analytics counters for public menus.
package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no document exists for the key.
var ErrNotFound = errors.New("document not found")

// Document is a stored menu body and the time the writer assigned to it.
type Document struct {
	Body      []byte
	UpdatedAt time.Time
}

type DailyCount struct {
	Day   string `json:"date"`
	Views int64  `json:"views"`
}

type ItemCount struct {
	ItemID string `json:"itemId"`
	Name   string `json:"name"`
	Views  int64  `json:"views"`
}

// Store is implemented by SQLite and Mongo. Put overwrites the whole
// document; the last writer wins.
type Store interface {
	Get(ctx context.Context, key string) (Document, error)
	Put(ctx context.Context, key string, doc Document) error

	IncrementDaily(ctx context.Context, menuID, day string) error
	IncrementItem(ctx context.Context, menuID, itemID, name string) error
	// RecentDaily returns up to limit days, newest first.
	RecentDaily(ctx context.Context, menuID string, limit int) ([]DailyCount, error)
	// TopItems returns up to limit items, most viewed first.
	TopItems(ctx context.Context, menuID string, limit int) ([]ItemCount, error)
}
