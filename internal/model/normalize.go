package model

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RawItem carries every field name an item payload can arrive with: the demo
// aggregate's camelCase shape and the remote API's snake_case shape. Decoding
// into one struct keeps the shape translation an explicit mapping instead of
// per-call-site fallbacks.
type RawItem struct {
	ID     string `json:"id"`
	ItemID string `json:"item_id"`

	Name        string `json:"name"`
	ProductName string `json:"product_name"`

	Store string `json:"store"`
	URL   string `json:"url"`

	CurrentPrice any `json:"currentPrice"`
	LastPrice    any `json:"last_price"`

	TargetPrice    any `json:"targetPrice"`
	APITargetPrice any `json:"target_price"`

	Currency     string `json:"currency"`
	CurrencyCode string `json:"currency_code"`

	Status string `json:"status"`

	LastChecked    string `json:"lastChecked"`
	APILastChecked string `json:"last_checked"`

	AddedBy    string `json:"addedBy"`
	APIAddedBy string `json:"added_by"`

	NotificationEmail    string `json:"notificationEmail"`
	APINotificationEmail string `json:"notification_email"`

	NotificationPhone    string `json:"notificationPhone"`
	APINotificationPhone string `json:"notification_phone"`

	Frequency        string `json:"frequency"`
	FrequencyMinutes any    `json:"frequencyMinutes"`
	APIFrequency     any    `json:"frequency_minutes"`

	LastNotification string `json:"lastNotification"`
	LastNotifiedAt   string `json:"last_notified_at"`
}

// Normalize maps a raw payload of either shape into the canonical WatchItem.
// A nil input yields nil. Price-like fields coerce to a finite number or nil,
// never NaN. Currency codes are trimmed and upper-cased; invalid codes become
// nil so the renderer resolves the default. A missing store is back-filled
// from the URL host, or "—" when the URL is unusable.
func Normalize(raw *RawItem) *WatchItem {
	if raw == nil {
		return nil
	}

	i := &WatchItem{
		ID:                coalesce(raw.ID, raw.ItemID),
		Name:              coalesce(raw.Name, raw.ProductName),
		URL:               strings.TrimSpace(raw.URL),
		CurrentPrice:      coercePrice(raw.CurrentPrice, raw.LastPrice),
		TargetPrice:       coercePrice(raw.TargetPrice, raw.APITargetPrice),
		Currency:          normalizeCurrency(coalesce(raw.Currency, raw.CurrencyCode)),
		Status:            NormalizeStatus(raw.Status),
		LastChecked:       ParseTimestamp(coalesce(raw.LastChecked, raw.APILastChecked)),
		AddedBy:           coalesce(raw.AddedBy, raw.APIAddedBy),
		NotificationEmail: coalesce(raw.NotificationEmail, raw.APINotificationEmail),
		NotificationPhone: coalesce(raw.NotificationPhone, raw.APINotificationPhone),
	}

	i.Store = strings.TrimSpace(raw.Store)
	if i.Store == "" {
		i.Store = StoreFromURL(i.URL)
	}

	minutes := coerceMinutes(raw.FrequencyMinutes, raw.APIFrequency)
	label := strings.TrimSpace(raw.Frequency)
	switch {
	case label != "":
		i.Frequency = label
		i.FrequencyMinutes = FrequencyMinutes(label)
	case minutes > 0:
		i.FrequencyMinutes = minutes
		i.Frequency = FrequencyLabel(minutes)
	default:
		i.FrequencyMinutes = DefaultFrequencyMinutes
		i.Frequency = FrequencyLabel(DefaultFrequencyMinutes)
	}

	if t := ParseTimestamp(coalesce(raw.LastNotification, raw.LastNotifiedAt)); !t.IsZero() {
		i.LastNotification = &t
	}
	return i
}

// StoreFromURL derives a store display name from the URL host, stripping a
// leading "www.". Unusable URLs yield the "—" placeholder.
func StoreFromURL(rawURL string) string {
	if rawURL == "" {
		return "—"
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "—"
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func coalesce(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// coercePrice takes the first non-nil candidate and parses it into a finite
// float64. Anything unparseable or non-finite becomes nil.
func coercePrice(candidates ...any) *float64 {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		var f float64
		var err error
		switch v := c.(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		case int:
			f = float64(v)
		case int64:
			f = float64(v)
		case json.Number:
			f, err = v.Float64()
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			f, err = strconv.ParseFloat(s, 64)
		default:
			continue
		}
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	}
	return nil
}

func coerceMinutes(candidates ...any) int {
	if f := coercePrice(candidates...); f != nil && *f > 0 {
		return int(*f)
	}
	return 0
}

func normalizeCurrency(code string) *string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return nil
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return nil
		}
	}
	return &code
}

// ParseTimestamp parses the timestamp layouts the API and the demo aggregate
// produce; anything unreadable becomes the zero time.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
