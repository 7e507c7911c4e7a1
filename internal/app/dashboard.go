package app

import (
	"context"
	"time"

	"pricepulse/internal/format"
	"pricepulse/internal/model"
	"pricepulse/internal/store"
)

type Dashboard struct {
	Store  store.Store
	Logger logger
	Now    func() time.Time
}

type DashboardView struct {
	TotalCount     int
	WatchingCount  int // Tracking or Watching
	TargetHitCount int
	Rows           []ItemRow
	Notices        []string
	CanReset       bool
}

type ItemRow struct {
	ID           string
	Name         string
	Store        string
	URL          string
	CurrentPrice string
	TargetPrice  string
	Status       string
	LastChecked  string
	Frequency    string
	TargetHit    bool
}

func (d Dashboard) Render(ctx context.Context) (DashboardView, error) {
	state, warnings, err := d.Store.Load(ctx)
	if err != nil {
		return DashboardView{}, err
	}

	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}

	view := DashboardView{
		Notices:  warnings,
		CanReset: !d.Store.Remote(),
	}
	for _, item := range state.Items {
		view.TotalCount++
		hit := item.Status == model.StatusTargetHit
		if hit {
			view.TargetHitCount++
		} else {
			view.WatchingCount++
		}
		view.Rows = append(view.Rows, itemRow(item, state.Preferences, now))
	}
	return view, nil
}

func itemRow(item model.WatchItem, prefs model.Preferences, now time.Time) ItemRow {
	currency := prefs.Currency
	if item.Currency != nil {
		currency = *item.Currency
	}
	return ItemRow{
		ID:           item.ID,
		Name:         item.Name,
		Store:        item.Store,
		URL:          item.URL,
		CurrentPrice: format.Price(item.CurrentPrice, currency),
		TargetPrice:  format.Price(item.TargetPrice, currency),
		Status:       item.Status,
		LastChecked:  format.Ago(item.LastChecked, now),
		Frequency:    item.Frequency,
		TargetHit:    item.Status == model.StatusTargetHit,
	}
}
