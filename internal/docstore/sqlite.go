package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite keeps documents and counters in the tables created by the
// database migrations.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Get(ctx context.Context, key string) (Document, error) {
	var doc Document
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body, updated_at FROM menu_documents WHERE doc_key = ?`, key,
	).Scan(&body, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	doc.Body = []byte(body)
	return doc, nil
}

func (s *SQLite) Put(ctx context.Context, key string, doc Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO menu_documents (doc_key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(doc_key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		key, string(doc.Body), doc.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

func (s *SQLite) IncrementDaily(ctx context.Context, menuID, day string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO menu_daily_views (menu_id, day, views) VALUES (?, ?, 1)
		ON CONFLICT(menu_id, day) DO UPDATE SET views = views + 1`,
		menuID, day,
	)
	if err != nil {
		return fmt.Errorf("increment daily views: %w", err)
	}
	return nil
}

func (s *SQLite) IncrementItem(ctx context.Context, menuID, itemID, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO menu_item_views (menu_id, item_id, name, views) VALUES (?, ?, ?, 1)
		ON CONFLICT(menu_id, item_id) DO UPDATE SET views = views + 1, name = excluded.name`,
		menuID, itemID, name,
	)
	if err != nil {
		return fmt.Errorf("increment item views: %w", err)
	}
	return nil
}

func (s *SQLite) RecentDaily(ctx context.Context, menuID string, limit int) ([]DailyCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, views FROM menu_daily_views WHERE menu_id = ? ORDER BY day DESC LIMIT ?`,
		menuID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list daily views: %w", err)
	}
	defer rows.Close()

	var out []DailyCount
	for rows.Next() {
		var d DailyCount
		if err := rows.Scan(&d.Day, &d.Views); err != nil {
			return nil, fmt.Errorf("scan daily views: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLite) TopItems(ctx context.Context, menuID string, limit int) ([]ItemCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, name, views FROM menu_item_views WHERE menu_id = ?
		ORDER BY views DESC, item_id LIMIT ?`,
		menuID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list item views: %w", err)
	}
	defer rows.Close()

	var out []ItemCount
	for rows.Next() {
		var c ItemCount
		if err := rows.Scan(&c.ItemID, &c.Name, &c.Views); err != nil {
			return nil, fmt.Errorf("scan item views: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
