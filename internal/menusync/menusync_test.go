package menusync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/menucraft/menucraft/internal/database"
	"github.com/menucraft/menucraft/internal/docstore"
	"github.com/menucraft/menucraft/internal/menu"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupAdapter(t *testing.T) (*Adapter, *docstore.SQLite) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store := docstore.NewSQLite(db)
	return New(store, discardLogger()), store
}

// failingStore errors on every call.
type failingStore struct{}

var errOffline = errors.New("offline")

func (failingStore) Get(context.Context, string) (docstore.Document, error) {
	return docstore.Document{}, errOffline
}
func (failingStore) Put(context.Context, string, docstore.Document) error { return errOffline }
func (failingStore) IncrementDaily(context.Context, string, string) error { return errOffline }
func (failingStore) IncrementItem(context.Context, string, string, string) error {
	return errOffline
}
func (failingStore) RecentDaily(context.Context, string, int) ([]docstore.DailyCount, error) {
	return nil, errOffline
}
func (failingStore) TopItems(context.Context, string, int) ([]docstore.ItemCount, error) {
	return nil, errOffline
}

func TestSaveThenLoad(t *testing.T) {
	a, _ := setupAdapter(t)
	ctx := context.Background()

	m := menu.CreateBootstrapMenu("owner-1")
	m, err := menu.AddItem(m, menu.Item{ID: "i1", CategoryID: "cat-mains", Name: menu.LocalizedString{En: "Tom Yum"}, Price: 150, IsAvailable: true})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := a.Save(ctx, "owner-1", m); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := a.Load(ctx, "owner-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if it, ok := got.FindItem("i1"); !ok || it.Name.En != "Tom Yum" {
		t.Errorf("loaded item = %+v", it)
	}

	pub, err := a.LoadPublic(ctx, "owner-1")
	if err != nil {
		t.Fatalf("load public: %v", err)
	}
	if pub.Name != "My Restaurant" {
		t.Errorf("public name = %q", pub.Name)
	}
}

func TestLoadNotFound(t *testing.T) {
	a, _ := setupAdapter(t)
	if _, err := a.Load(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadCorruptDocument(t *testing.T) {
	a, store := setupAdapter(t)
	ctx := context.Background()
	store.Put(ctx, "owner-1", docstore.Document{Body: []byte(`{"id":"owner-1"}`), UpdatedAt: time.Now()})

	_, err := a.Load(ctx, "owner-1")
	var ie *menu.DocumentIntegrityError
	if !errors.As(err, &ie) {
		t.Errorf("err = %v, want *menu.DocumentIntegrityError", err)
	}
}

func TestStoreFailuresAreSyncErrors(t *testing.T) {
	a := New(failingStore{}, discardLogger())
	ctx := context.Background()

	_, err := a.Load(ctx, "owner-1")
	var se *SyncError
	if !errors.As(err, &se) {
		t.Fatalf("load err = %v, want *SyncError", err)
	}
	if !errors.Is(err, errOffline) {
		t.Error("SyncError does not wrap the cause")
	}

	if err := a.Save(ctx, "owner-1", menu.CreateBootstrapMenu("owner-1")); !errors.As(err, &se) {
		t.Errorf("save err = %v, want *SyncError", err)
	}
}

func TestAnalytics(t *testing.T) {
	a, _ := setupAdapter(t)
	ctx := context.Background()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for day := 0; day < 9; day++ {
		a.now = func() time.Time { return start.AddDate(0, 0, day) }
		for v := 0; v <= day; v++ {
			a.RecordMenuView(ctx, "m1")
		}
	}
	items := []struct {
		id, name string
		views    int
	}{
		{"i1", "Pad Thai", 4}, {"i2", "Tom Yum", 9}, {"i3", "Satay", 1},
		{"i4", "Green Curry", 2}, {"i5", "Mango Sticky Rice", 7}, {"i6", "Spring Rolls", 3},
	}
	for _, it := range items {
		for v := 0; v < it.views; v++ {
			a.RecordItemView(ctx, "m1", it.id, it.name)
		}
	}

	data := a.GetAnalyticsData(ctx, "m1")

	if len(data.DailyViews) != 7 {
		t.Fatalf("daily views = %d, want 7", len(data.DailyViews))
	}
	if data.DailyViews[0].Date != "2025-06-03" || data.DailyViews[6].Date != "2025-06-09" {
		t.Errorf("window = %s..%s, want 2025-06-03..2025-06-09", data.DailyViews[0].Date, data.DailyViews[6].Date)
	}
	var want int64
	for _, d := range data.DailyViews {
		want += d.Views
	}
	if data.TotalViews != want || want != 3+4+5+6+7+8+9 {
		t.Errorf("total = %d, want %d", data.TotalViews, want)
	}

	if len(data.PopularItems) != 5 {
		t.Fatalf("popular items = %d, want 5", len(data.PopularItems))
	}
	if data.PopularItems[0].Name != "Tom Yum" || data.PopularItems[0].Views != 9 {
		t.Errorf("top item = %+v", data.PopularItems[0])
	}
	for _, p := range data.PopularItems {
		if p.Name == "Satay" {
			t.Error("least viewed item should be outside the top five")
		}
	}
}

func TestAnalyticsFallsBackToEmpty(t *testing.T) {
	a := New(failingStore{}, discardLogger())
	ctx := context.Background()

	a.RecordMenuView(ctx, "m1")
	a.RecordItemView(ctx, "m1", "i1", "Tom Yum")

	data := a.GetAnalyticsData(ctx, "m1")
	if data.TotalViews != 0 || len(data.DailyViews) != 0 || len(data.PopularItems) != 0 {
		t.Errorf("data = %+v, want empty", data)
	}
	if data.DailyViews == nil || data.PopularItems == nil {
		t.Error("empty data should encode as [] not null")
	}
}
