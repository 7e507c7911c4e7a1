package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricepulse/internal/store"
)

type testLogger struct{ t *testing.T }

func (l testLogger) Debugf(format string, v ...any) { l.t.Logf("DEBUG: "+format, v...) }
func (l testLogger) Infof(format string, v ...any)  { l.t.Logf("INFO: "+format, v...) }
func (l testLogger) Warnf(format string, v ...any)  { l.t.Logf("WARN: "+format, v...) }
func (l testLogger) Errorf(format string, v ...any) { l.t.Logf("ERROR: "+format, v...) }

func newDemoStore(t *testing.T) *store.DemoStore {
	return store.NewDemoStore(filepath.Join(t.TempDir(), "demo.json"), testLogger{t})
}

func TestDashboardRender(t *testing.T) {
	d := Dashboard{Store: newDemoStore(t), Logger: testLogger{t}}

	view, err := d.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, view.TotalCount)
	assert.Equal(t, 2, view.WatchingCount)
	assert.Equal(t, 1, view.TargetHitCount)
	assert.True(t, view.CanReset, "demo mode exposes the reset action")
	assert.Empty(t, view.Notices)
	require.Len(t, view.Rows, 3)

	sony := view.Rows[0]
	assert.Equal(t, "Sony WH-1000XM5 Headphones", sony.Name)
	assert.Contains(t, sony.CurrentPrice, "£")
	assert.Contains(t, sony.CurrentPrice, "279.00")
	assert.Contains(t, sony.TargetPrice, "250.00")
	assert.False(t, sony.TargetHit)

	osprey := view.Rows[2]
	assert.True(t, osprey.TargetHit)
	assert.Contains(t, osprey.CurrentPrice, "€")
}

func TestNotificationsRenderNewestFirst(t *testing.T) {
	n := Notifications{Store: newDemoStore(t), Logger: testLogger{t}}

	rows, warnings, err := n.Render(context.Background())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, rows, 2)
	assert.Equal(t, "demo-n-1", rows[0].ID, "the two-hour-old alert sorts before the day-old one")
	assert.Equal(t, "demo-n-2", rows[1].ID)
}
