package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricepulse/internal/model"
)

func TestEncodeItem(t *testing.T) {
	current := 54.0
	target := 60.0
	currency := "EUR"
	checked := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)
	notified := time.Date(2026, 8, 29, 7, 1, 0, 0, time.UTC)

	p := EncodeItem(model.WatchItem{
		ID:               "a2f0",
		Name:             "Trail Backpack",
		Store:            "osprey.com",
		URL:              "https://www.osprey.com/packs/trail",
		CurrentPrice:     &current,
		TargetPrice:      &target,
		Currency:         &currency,
		Status:           model.StatusTargetHit,
		LastChecked:      checked,
		Frequency:        "Twice daily",
		FrequencyMinutes: 720,
		AddedBy:          "Guest",
		LastNotification: &notified,
	})

	assert.Equal(t, "a2f0", p.ItemID)
	assert.Equal(t, "Trail Backpack", p.ProductName)
	require.NotNil(t, p.LastPrice)
	assert.Equal(t, 54.0, *p.LastPrice)
	assert.Equal(t, "EUR", p.CurrencyCode)
	assert.Equal(t, model.APIStatusTargetHit, p.Status)
	assert.Equal(t, 720, p.FrequencyMinutes)
	assert.Equal(t, "2026-08-29T07:00:00Z", p.LastChecked)
	assert.Equal(t, "2026-08-29T07:01:00Z", p.LastNotifiedAt)
}

func TestEncodeItemOmitsUnknowns(t *testing.T) {
	p := EncodeItem(model.WatchItem{ID: "x", URL: "https://example.com"})
	assert.Empty(t, p.CurrencyCode)
	assert.Empty(t, p.LastChecked)
	assert.Empty(t, p.LastNotifiedAt)
	assert.Nil(t, p.LastPrice)
	assert.Equal(t, model.APIStatusActive, p.Status, "an empty status encodes as ACTIVE")
}
