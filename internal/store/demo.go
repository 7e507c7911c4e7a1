package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"pricepulse/internal/model"
)

// DemoStore keeps the whole aggregate in one serialized file on the device.
// It is the durable owner of demo-mode state; one writer is assumed, and
// cross-process consistency is explicitly unsupported.
type DemoStore struct {
	Path   string
	Logger logger

	now func() time.Time
}

func NewDemoStore(path string, log logger) *DemoStore {
	return &DemoStore{Path: path, Logger: log, now: time.Now}
}

// Load reads the aggregate, seeding it from the sample dataset on first use.
// A stored value that fails to parse is discarded, logged, and replaced by a
// fresh seed; a parse failure never reaches the caller.
func (s *DemoStore) Load(ctx context.Context) (model.State, []string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.Logger.Errorf("DemoStore: error reading aggregate file %s, err: %v", s.Path, err)
		}
		return s.reseed()
	}

	var state model.State
	if err := json.Unmarshal(data, &state); err != nil {
		s.Logger.Errorf("DemoStore: discarding corrupt aggregate in %s, err: %v", s.Path, err)
		return s.reseed()
	}
	return state, nil, nil
}

// Reset explicitly reseeds demo storage from the sample dataset.
func (s *DemoStore) Reset(ctx context.Context) (model.State, error) {
	state, _, err := s.reseed()
	return state, err
}

func (s *DemoStore) reseed() (model.State, []string, error) {
	state := SampleState(s.now())
	if err := s.Save(state); err != nil {
		return model.State{}, nil, errors.Wrap(err, "error persisting demo seed")
	}
	return state, nil, nil
}

// Save persists the whole aggregate. Demo mode is the only mode with a bulk
// save; live mode persists per mutation.
func (s *DemoStore) Save(state model.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "error marshalling demo aggregate")
	}
	return errors.Wrapf(os.WriteFile(s.Path, data, 0644), "error writing demo aggregate to %s", s.Path)
}

func (s *DemoStore) CreateItem(ctx context.Context, i model.WatchItem) (model.WatchItem, error) {
	state, _, err := s.Load(ctx)
	if err != nil {
		return model.WatchItem{}, err
	}
	i.ID = s.generateID()
	i.ApplyStatusRule()
	i.LastChecked = s.now()
	// New items go to the top of the dashboard.
	state.Items = append([]model.WatchItem{i}, state.Items...)
	return i, s.Save(state)
}

func (s *DemoStore) UpdateItem(ctx context.Context, i model.WatchItem) (model.WatchItem, error) {
	state, _, err := s.Load(ctx)
	if err != nil {
		return model.WatchItem{}, err
	}
	for idx := range state.Items {
		if state.Items[idx].ID == i.ID {
			i.ApplyStatusRule()
			i.LastChecked = s.now()
			state.Items[idx] = i
			return i, s.Save(state)
		}
	}
	return model.WatchItem{}, errors.Wrapf(ErrItemNotFound, "ID: %s", i.ID)
}

func (s *DemoStore) DeleteItem(ctx context.Context, id string) error {
	state, _, err := s.Load(ctx)
	if err != nil {
		return err
	}
	kept := state.Items[:0]
	for _, item := range state.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(state.Items) {
		return errors.Wrapf(ErrItemNotFound, "ID: %s", id)
	}
	state.Items = kept
	return s.Save(state)
}

func (s *DemoStore) SavePreferences(ctx context.Context, p model.Preferences) error {
	state, _, err := s.Load(ctx)
	if err != nil {
		return err
	}
	state.Preferences = p
	return s.Save(state)
}

func (s *DemoStore) Remote() bool { return false }

// generateID makes a time-based identifier unique within one user's demo
// collection.
func (s *DemoStore) generateID() string {
	return fmt.Sprintf("demo-%d", s.now().UnixNano())
}
