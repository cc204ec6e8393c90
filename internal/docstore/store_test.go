package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

// exerciseStore runs the behaviour every Store implementation shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "owner-1"

	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing = %v, want ErrNotFound", err)
	}

	first := Document{Body: []byte(`{"id":"owner-1","name":"First","categories":[]}`), UpdatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	if err := s.Put(ctx, key, first); err != nil {
		t.Fatalf("put: %v", err)
	}
	second := Document{Body: []byte(`{"id":"owner-1","name":"Second","categories":[]}`), UpdatedAt: time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)}
	if err := s.Put(ctx, key, second); err != nil {
		t.Fatalf("put again: %v", err)
	}

	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(got.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Name != "Second" {
		t.Errorf("name = %q, want last write", body.Name)
	}
	if !got.UpdatedAt.Equal(second.UpdatedAt) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, second.UpdatedAt)
	}

	menuID := "menu-1"
	for i, day := range []string{"2025-03-01", "2025-03-02", "2025-03-02", "2025-03-03"} {
		if err := s.IncrementDaily(ctx, menuID, day); err != nil {
			t.Fatalf("increment daily %d: %v", i, err)
		}
	}
	days, err := s.RecentDaily(ctx, menuID, 2)
	if err != nil {
		t.Fatalf("recent daily: %v", err)
	}
	want := []DailyCount{{Day: "2025-03-03", Views: 1}, {Day: "2025-03-02", Views: 2}}
	if fmt.Sprint(days) != fmt.Sprint(want) {
		t.Errorf("recent daily = %v, want %v", days, want)
	}

	for i := 0; i < 3; i++ {
		s.IncrementItem(ctx, menuID, "item-b", "Tom Yum")
	}
	s.IncrementItem(ctx, menuID, "item-a", "Satay")
	s.IncrementItem(ctx, "other-menu", "item-c", "Elsewhere")

	top, err := s.TopItems(ctx, menuID, 5)
	if err != nil {
		t.Fatalf("top items: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("top items = %v, want 2 entries", top)
	}
	if top[0].ItemID != "item-b" || top[0].Views != 3 || top[0].Name != "Tom Yum" {
		t.Errorf("top[0] = %+v", top[0])
	}
}
