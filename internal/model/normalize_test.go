package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestNormalizeCamelCaseShape(t *testing.T) {
	raw := &RawItem{}
	err := json.Unmarshal([]byte(`{
		"id": "item-1",
		"name": "Noise Cancelling Headphones",
		"store": "Sony",
		"url": "https://www.sony.com/headphones",
		"currentPrice": 279,
		"targetPrice": 250.5,
		"currency": "gbp",
		"status": "ACTIVE",
		"lastChecked": "2026-08-01T10:30:00Z",
		"frequency": "Daily",
		"addedBy": "Alex"
	}`), raw)
	require.NoError(t, err)

	i := Normalize(raw)
	require.NotNil(t, i)
	assert.Equal(t, "item-1", i.ID)
	assert.Equal(t, "Noise Cancelling Headphones", i.Name)
	assert.Equal(t, "Sony", i.Store)
	require.NotNil(t, i.CurrentPrice)
	assert.Equal(t, 279.0, *i.CurrentPrice)
	require.NotNil(t, i.TargetPrice)
	assert.Equal(t, 250.5, *i.TargetPrice)
	require.NotNil(t, i.Currency)
	assert.Equal(t, "GBP", *i.Currency)
	assert.Equal(t, StatusTracking, i.Status)
	assert.Equal(t, "Daily", i.Frequency)
	assert.Equal(t, 1440, i.FrequencyMinutes)
	assert.Equal(t, "Alex", i.AddedBy)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC), i.LastChecked)
}

func TestNormalizeSnakeCaseShape(t *testing.T) {
	raw := &RawItem{}
	err := json.Unmarshal([]byte(`{
		"item_id": "a2f0",
		"product_name": "Trail Backpack",
		"url": "https://www.osprey.com/packs/trail",
		"last_price": "54.00",
		"target_price": 60,
		"currency_code": "EUR",
		"status": "TARGET_HIT",
		"frequency_minutes": 720,
		"last_checked": "2026-08-29T07:00:00Z",
		"last_notified_at": "2026-08-29T07:01:00Z",
		"added_by": "Guest"
	}`), raw)
	require.NoError(t, err)

	i := Normalize(raw)
	require.NotNil(t, i)
	assert.Equal(t, "a2f0", i.ID)
	assert.Equal(t, "Trail Backpack", i.Name)
	assert.Equal(t, "osprey.com", i.Store, "missing store should be derived from the URL host")
	require.NotNil(t, i.CurrentPrice)
	assert.Equal(t, 54.0, *i.CurrentPrice)
	assert.Equal(t, StatusTargetHit, i.Status)
	assert.Equal(t, 720, i.FrequencyMinutes)
	assert.Equal(t, "Twice daily", i.Frequency)
	require.NotNil(t, i.LastNotification)
	assert.Equal(t, time.Date(2026, 8, 29, 7, 1, 0, 0, time.UTC), *i.LastNotification)
}

func TestNormalizePriceCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *float64
	}{
		{"number", 12.5, f64(12.5)},
		{"numeric string", "12.50", f64(12.5)},
		{"garbage string", "abc", nil},
		{"empty string", "", nil},
		{"nil", nil, nil},
		{"infinity string", "Inf", nil},
		{"nan string", "NaN", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := Normalize(&RawItem{ID: "x", CurrentPrice: tt.value})
			require.NotNil(t, i)
			if tt.want == nil {
				assert.Nil(t, i.CurrentPrice)
			} else {
				require.NotNil(t, i.CurrentPrice)
				assert.Equal(t, *tt.want, *i.CurrentPrice)
			}
		})
	}
}

func TestNormalizeCurrency(t *testing.T) {
	i := Normalize(&RawItem{ID: "x", Currency: " usd "})
	require.NotNil(t, i.Currency)
	assert.Equal(t, "USD", *i.Currency)

	assert.Nil(t, Normalize(&RawItem{ID: "x", Currency: "us"}).Currency)
	assert.Nil(t, Normalize(&RawItem{ID: "x", Currency: "12$"}).Currency)
	assert.Nil(t, Normalize(&RawItem{ID: "x"}).Currency)
}

func TestNormalizeStoreFallback(t *testing.T) {
	i := Normalize(&RawItem{ID: "x", URL: "not a url at all"})
	assert.Equal(t, "—", i.Store)

	i = Normalize(&RawItem{ID: "x", URL: "camper.com/shoes"})
	assert.Equal(t, "camper.com", i.Store)
}

func TestNormalizeFrequencyDefaults(t *testing.T) {
	i := Normalize(&RawItem{ID: "x"})
	assert.Equal(t, DefaultFrequencyMinutes, i.FrequencyMinutes)
	assert.Equal(t, "Twice daily", i.Frequency)

	i = Normalize(&RawItem{ID: "x", Frequency: "90 min"})
	assert.Equal(t, 90, i.FrequencyMinutes)
}

func TestParseTimestamp(t *testing.T) {
	assert.True(t, ParseTimestamp("").IsZero())
	assert.True(t, ParseTimestamp("yesterday").IsZero())
	assert.Equal(t,
		time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		ParseTimestamp("2026-08-01T09:00:00Z"))
	assert.Equal(t,
		time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		ParseTimestamp("2026-08-01T09:00:00"))
}

func f64(v float64) *float64 { return &v }
