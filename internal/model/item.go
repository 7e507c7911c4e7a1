package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Canonical display statuses. "Target hit" is derived, never set directly.
const (
	StatusTracking  = "Tracking"
	StatusWatching  = "Watching"
	StatusTargetHit = "Target hit"
)

// Wire statuses used by the remote API.
const (
	APIStatusActive    = "ACTIVE"
	APIStatusPaused    = "PAUSED"
	APIStatusTargetHit = "TARGET_HIT"
)

type WatchItem struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Store             string     `json:"store"`
	URL               string     `json:"url"`
	CurrentPrice      *float64   `json:"currentPrice"`
	TargetPrice       *float64   `json:"targetPrice"`
	Currency          *string    `json:"currency"`
	Status            string     `json:"status"`
	LastChecked       time.Time  `json:"lastChecked"`
	AddedBy           string     `json:"addedBy,omitempty"`
	NotificationEmail string     `json:"notificationEmail,omitempty"`
	NotificationPhone string     `json:"notificationPhone,omitempty"`
	Frequency         string     `json:"frequency"`
	FrequencyMinutes  int        `json:"frequencyMinutes"`
	LastNotification  *time.Time `json:"lastNotification,omitempty"`
}

// ApplyStatusRule enforces the target-hit invariant at write time: the status
// is "Target hit" exactly when both prices are known and current <= target.
// A stale "Target hit" that no longer holds degrades to "Tracking"; any other
// non-hit status is preserved.
func (i *WatchItem) ApplyStatusRule() {
	if i.CurrentPrice != nil && i.TargetPrice != nil && *i.CurrentPrice <= *i.TargetPrice {
		i.Status = StatusTargetHit
		return
	}
	if i.Status == "" || i.Status == StatusTargetHit {
		i.Status = StatusTracking
	}
}

var statusFromAPI = map[string]string{
	APIStatusActive:    StatusTracking,
	APIStatusPaused:    StatusWatching,
	APIStatusTargetHit: StatusTargetHit,
}

var statusToAPI = map[string]string{
	StatusTracking:  APIStatusActive,
	StatusWatching:  APIStatusPaused,
	StatusTargetHit: APIStatusTargetHit,
}

// NormalizeStatus maps a wire status to its canonical text. Unknown values are
// sentence-cased with underscores turned into spaces rather than rejected.
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusTracking
	}
	if canonical, ok := statusFromAPI[strings.ToUpper(s)]; ok {
		return canonical
	}
	for canonical := range statusToAPI {
		if strings.EqualFold(s, canonical) {
			return canonical
		}
	}
	return sentenceCase(strings.ReplaceAll(s, "_", " "))
}

// APIStatus is the reverse mapping; unmapped canonical texts fall back to ACTIVE.
func APIStatus(s string) string {
	if api, ok := statusToAPI[NormalizeStatus(s)]; ok {
		return api
	}
	return APIStatusActive
}

func sentenceCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var frequencyTable = []struct {
	Minutes int
	Label   string
}{
	{60, "Hourly"},
	{360, "Every 6 hours"},
	{720, "Twice daily"},
	{1440, "Daily"},
	{10080, "Weekly"},
}

const DefaultFrequencyMinutes = 720

// FrequencyLabel converts a minute count to its user-facing label. Minute
// counts outside the table degrade to a literal "N min" label.
func FrequencyLabel(minutes int) string {
	for _, f := range frequencyTable {
		if f.Minutes == minutes {
			return f.Label
		}
	}
	return fmt.Sprintf("%d min", minutes)
}

// FrequencyMinutes converts a label back to minutes, including the degraded
// "N min" form. Unknown labels map to the default frequency.
func FrequencyMinutes(label string) int {
	label = strings.TrimSpace(label)
	for _, f := range frequencyTable {
		if strings.EqualFold(f.Label, label) {
			return f.Minutes
		}
	}
	if n, ok := strings.CutSuffix(label, " min"); ok {
		if minutes, err := strconv.Atoi(strings.TrimSpace(n)); err == nil && minutes > 0 {
			return minutes
		}
	}
	return DefaultFrequencyMinutes
}
