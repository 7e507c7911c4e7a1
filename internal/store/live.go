package store

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"pricepulse/internal/client"
	"pricepulse/internal/model"
)

// LiveStore sources items and notifications from the remote API; the API is
// the durable owner and local memory is a transient read cache. Preferences
// have no remote endpoint and stay in a local file in both modes.
type LiveStore struct {
	Client    *client.Client
	PrefsPath string
	Logger    logger
}

func NewLiveStore(c *client.Client, prefsPath string, log logger) *LiveStore {
	return &LiveStore{Client: c, PrefsPath: prefsPath, Logger: log}
}

// Load fans out the items and notifications fetches in parallel. The two
// calls are independent: a notifications failure degrades to an empty list
// and a warning, and an items failure yields an empty aggregate with a
// warning. Neither cancels the other, and neither becomes an error.
func (s *LiveStore) Load(ctx context.Context) (model.State, []string, error) {
	var (
		rawItems      []model.RawItem
		notifications []client.NotificationPayload
		itemsErr      error
		notifErr      error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rawItems, itemsErr = s.Client.ItemList(gctx)
		return nil
	})
	g.Go(func() error {
		notifications, notifErr = s.Client.NotificationList(gctx)
		return nil
	})
	_ = g.Wait()

	state := model.State{Preferences: s.loadPreferences()}
	var warnings []string

	if itemsErr != nil {
		s.Logger.Errorf("LiveStore: error fetching items, err: %v", itemsErr)
		warnings = append(warnings, WarnItemsUnavailable)
		return state, warnings, nil
	}
	for idx := range rawItems {
		if item := model.Normalize(&rawItems[idx]); item != nil {
			state.Items = append(state.Items, *item)
		}
	}

	if notifErr != nil {
		s.Logger.Warnf("LiveStore: error fetching notifications, err: %v", notifErr)
		warnings = append(warnings, WarnNotificationsUnavailable)
		return state, warnings, nil
	}
	for _, n := range notifications {
		state.Notifications = append(state.Notifications, decodeNotification(n))
	}
	return state, warnings, nil
}

func (s *LiveStore) CreateItem(ctx context.Context, i model.WatchItem) (model.WatchItem, error) {
	raw, err := s.Client.ItemCreate(ctx, client.EncodeItem(i))
	if err != nil {
		return model.WatchItem{}, errors.Wrap(err, "error creating item")
	}
	created := model.Normalize(raw)
	if created == nil {
		return model.WatchItem{}, errors.New("API returned an empty item on create")
	}
	return *created, nil
}

func (s *LiveStore) UpdateItem(ctx context.Context, i model.WatchItem) (model.WatchItem, error) {
	raw, err := s.Client.ItemUpdate(ctx, i.ID, client.EncodeItem(i))
	if err != nil {
		return model.WatchItem{}, errors.Wrapf(err, "error updating item with ID: %s", i.ID)
	}
	updated := model.Normalize(raw)
	if updated == nil {
		return model.WatchItem{}, errors.New("API returned an empty item on update")
	}
	return *updated, nil
}

func (s *LiveStore) DeleteItem(ctx context.Context, id string) error {
	return errors.Wrapf(s.Client.ItemDelete(ctx, id), "error deleting item with ID: %s", id)
}

func (s *LiveStore) SavePreferences(ctx context.Context, p model.Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "error marshalling preferences")
	}
	return errors.Wrapf(os.WriteFile(s.PrefsPath, data, 0644), "error writing preferences to %s", s.PrefsPath)
}

func (s *LiveStore) Remote() bool { return true }

// loadPreferences is fail-soft like the demo aggregate: unreadable local
// preferences fall back to defaults.
func (s *LiveStore) loadPreferences() model.Preferences {
	data, err := os.ReadFile(s.PrefsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.Logger.Errorf("LiveStore: error reading preferences file %s, err: %v", s.PrefsPath, err)
		}
		return model.DefaultPreferences()
	}
	var p model.Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		s.Logger.Errorf("LiveStore: discarding corrupt preferences in %s, err: %v", s.PrefsPath, err)
		return model.DefaultPreferences()
	}
	return p
}

func decodeNotification(n client.NotificationPayload) model.Notification {
	return model.Notification{
		ID:       n.ID,
		ItemID:   n.ItemID,
		ItemName: n.ItemName,
		Message:  n.Message,
		Channel:  model.NormalizeChannel(n.Channel),
		SentAt:   model.ParseTimestamp(n.SentAt),
	}
}
