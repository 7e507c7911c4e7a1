package app

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricepulse/internal/store"
)

// failingDeleteStore wraps the demo store and fails every delete.
type failingDeleteStore struct {
	*store.DemoStore
}

func (s failingDeleteStore) DeleteItem(ctx context.Context, id string) error {
	return errors.New("store is on fire")
}

func TestItemDeleteSuccess(t *testing.T) {
	s := newDemoStore(t)
	d := ItemDelete{Store: s, Logger: testLogger{t}}
	ctl := NewControl("Delete")

	state, _, err := s.Load(context.Background())
	require.NoError(t, err)

	result := d.Run(context.Background(), state.Items[0].ID, ctl)
	assert.True(t, result.Removed)
	assert.Empty(t, result.Notice)

	state, _, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Items, 2)
}

func TestItemDeleteFailureKeepsItem(t *testing.T) {
	s := newDemoStore(t)
	d := ItemDelete{Store: failingDeleteStore{s}, Logger: testLogger{t}}
	ctl := NewControl("Delete")

	state, _, err := s.Load(context.Background())
	require.NoError(t, err)

	result := d.Run(context.Background(), state.Items[0].ID, ctl)
	assert.False(t, result.Removed, "the item must stay visible on failure")
	assert.NotEmpty(t, result.Notice)

	assert.False(t, ctl.Disabled, "the control is restored on failure")
	assert.Equal(t, "Delete", ctl.Label)

	state, _, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Items, 3, "no local mutation without store confirmation")
}

func TestItemDeleteDisablesControlDuringRun(t *testing.T) {
	ctl := NewControl("Delete")
	ctl.Begin("Removing…")
	assert.True(t, ctl.Disabled)
	assert.Equal(t, "Removing…", ctl.Label)
	ctl.Restore()
	assert.False(t, ctl.Disabled)
	assert.Equal(t, "Delete", ctl.Label)
}
