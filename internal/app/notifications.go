package app

import (
	"context"
	"sort"
	"time"

	"pricepulse/internal/format"
	"pricepulse/internal/store"
)

type Notifications struct {
	Store  store.Store
	Logger logger
	Now    func() time.Time
}

type NotificationRow struct {
	ID       string
	ItemID   string
	ItemName string
	Message  string
	Channel  string
	SentAt   string
	Ago      string
}

// Render lists delivered alerts newest first.
func (n Notifications) Render(ctx context.Context) ([]NotificationRow, []string, error) {
	state, warnings, err := n.Store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	ns := state.Notifications
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].SentAt.After(ns[j].SentAt) })

	rows := make([]NotificationRow, 0, len(ns))
	for _, notification := range ns {
		rows = append(rows, NotificationRow{
			ID:       notification.ID,
			ItemID:   notification.ItemID,
			ItemName: notification.ItemName,
			Message:  notification.Message,
			Channel:  notification.Channel,
			SentAt:   format.DateTime(notification.SentAt),
			Ago:      format.Ago(notification.SentAt, now),
		})
	}
	return rows, warnings, nil
}
