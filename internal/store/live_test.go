package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricepulse/internal/client"
	"pricepulse/internal/model"
)

func newTestLiveStore(t *testing.T, handler http.Handler) *LiveStore {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := &client.Client{
		Client:  srv.Client(),
		BaseURL: srv.URL,
		Logger:  testLogger{t},
	}
	return NewLiveStore(c, filepath.Join(t.TempDir(), "prefs.json"), testLogger{t})
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestLiveStoreLoad(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{
				"item_id":      "a1",
				"product_name": "Kettle",
				"url":          "https://argos.co.uk/p/kettle",
				"last_price":   35.0,
				"target_price": 30.0,
				"status":       "ACTIVE",
			},
		})
	})
	mux.HandleFunc("GET /api/notifications", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{
				"id":        "n1",
				"item_id":   "a1",
				"item_name": "Kettle",
				"message":   "still above target",
				"channel":   "push",
				"sent_at":   "2026-08-29T07:00:00Z",
			},
		})
	})

	s := newTestLiveStore(t, mux)
	state, warnings, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, state.Items, 1)
	assert.Equal(t, "a1", state.Items[0].ID)
	assert.Equal(t, "Kettle", state.Items[0].Name)
	assert.Equal(t, "argos.co.uk", state.Items[0].Store, "store is derived from the URL")
	assert.Equal(t, model.StatusTracking, state.Items[0].Status)

	require.Len(t, state.Notifications, 1)
	assert.Equal(t, model.ChannelPush, state.Notifications[0].Channel)
	assert.False(t, state.Notifications[0].SentAt.IsZero())

	assert.Equal(t, "USD", state.Preferences.Currency, "missing prefs file falls back to defaults")
}

func TestLiveStoreLoadNotificationsDown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]any{{"item_id": "a1", "product_name": "Kettle", "url": "https://argos.co.uk/p/kettle"}})
	})
	mux.HandleFunc("GET /api/notifications", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})

	s := newTestLiveStore(t, mux)
	state, warnings, err := s.Load(context.Background())
	require.NoError(t, err, "a notifications failure must not become an error")
	assert.Len(t, state.Items, 1, "items still load")
	assert.Empty(t, state.Notifications)
	assert.Equal(t, []string{WarnNotificationsUnavailable}, warnings)
}

func TestLiveStoreLoadItemsDown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})
	mux.HandleFunc("GET /api/notifications", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]any{})
	})

	s := newTestLiveStore(t, mux)
	state, warnings, err := s.Load(context.Background())
	require.NoError(t, err, "an items failure must not become an error")
	assert.Empty(t, state.Items)
	assert.Contains(t, warnings, WarnItemsUnavailable)
}

func TestLiveStoreCreateItem(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/items", func(w http.ResponseWriter, r *http.Request) {
		var p client.ItemPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "ACTIVE", p.Status, "status is written in its wire form")
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"item_id":      "server-1",
			"product_name": p.ProductName,
			"url":          p.URL,
			"target_price": p.TargetPrice,
			"status":       p.Status,
		})
	})

	s := newTestLiveStore(t, mux)
	created, err := s.CreateItem(context.Background(), model.WatchItem{
		Name:        "Kettle",
		URL:         "https://argos.co.uk/p/kettle",
		TargetPrice: f64(30),
		Status:      model.StatusTracking,
	})
	require.NoError(t, err)
	assert.Equal(t, "server-1", created.ID, "the server-assigned ID is adopted")
	assert.Equal(t, model.StatusTracking, created.Status)
}

func TestLiveStoreDeleteItemNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "Item not found"})
	})

	s := newTestLiveStore(t, mux)
	err := s.DeleteItem(context.Background(), "missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Item not found")
}

func TestLiveStoreSavePreferencesRoundTrip(t *testing.T) {
	s := newTestLiveStore(t, http.NewServeMux())
	prefs := model.DefaultPreferences()
	prefs.Theme = "dark"
	require.NoError(t, s.SavePreferences(context.Background(), prefs))

	loaded := s.loadPreferences()
	assert.Equal(t, "dark", loaded.Theme)
}
