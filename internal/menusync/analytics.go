package menusync

import (
	"context"
)

const (
	dailyWindow  = 7
	popularLimit = 5
)

type DailyView struct {
	Date   string `json:"date"`
	Views  int64  `json:"views"`
	Orders int64  `json:"orders"`
}

type PopularItem struct {
	Name  string `json:"name"`
	Views int64  `json:"views"`
}

type AnalyticsData struct {
	DailyViews   []DailyView   `json:"dailyViews"`
	PopularItems []PopularItem `json:"popularItems"`
	TotalViews   int64         `json:"totalViews"`
}

// RecordMenuView bumps today's counter (UTC date). Failures are logged and
// dropped so a diner never sees them.
func (a *Adapter) RecordMenuView(ctx context.Context, menuID string) {
	day := a.now().UTC().Format("2006-01-02")
	if err := a.store.IncrementDaily(ctx, menuID, day); err != nil {
		a.logger.Warn("record menu view failed", "menu_id", menuID, "error", err)
	}
}

func (a *Adapter) RecordItemView(ctx context.Context, menuID, itemID, itemName string) {
	if err := a.store.IncrementItem(ctx, menuID, itemID, itemName); err != nil {
		a.logger.Warn("record item view failed", "menu_id", menuID, "item_id", itemID, "error", err)
	}
}

// GetAnalyticsData returns the last seven recorded days oldest first, the
// five most viewed items and the view total over those days. Any read
// failure yields empty data.
func (a *Adapter) GetAnalyticsData(ctx context.Context, menuID string) AnalyticsData {
	empty := AnalyticsData{DailyViews: []DailyView{}, PopularItems: []PopularItem{}}

	days, err := a.store.RecentDaily(ctx, menuID, dailyWindow)
	if err != nil {
		a.logger.Warn("load daily views failed", "menu_id", menuID, "error", err)
		return empty
	}
	items, err := a.store.TopItems(ctx, menuID, popularLimit)
	if err != nil {
		a.logger.Warn("load popular items failed", "menu_id", menuID, "error", err)
		return empty
	}

	data := AnalyticsData{
		DailyViews:   make([]DailyView, len(days)),
		PopularItems: make([]PopularItem, len(items)),
	}
	for i, d := range days {
		data.DailyViews[len(days)-1-i] = DailyView{Date: d.Day, Views: d.Views}
		data.TotalViews += d.Views
	}
	for i, it := range items {
		data.PopularItems[i] = PopularItem{Name: it.Name, Views: it.Views}
	}
	return data
}
