package store

import (
	"time"

	"pricepulse/internal/model"
)

func f64(v float64) *float64 { return &v }
func str(s string) *string   { return &s }

// SampleState is the fixed dataset demo mode seeds from. The third item sits
// at or below its target so a fresh dashboard shows every status.
func SampleState(now time.Time) model.State {
	twoHoursAgo := now.Add(-2 * time.Hour)
	return model.State{
		Items: []model.WatchItem{
			{
				ID:               "demo-1001",
				Name:             "Sony WH-1000XM5 Headphones",
				Store:            "amazon.co.uk",
				URL:              "https://www.amazon.co.uk/dp/B09XS7JWHH",
				CurrentPrice:     f64(279),
				TargetPrice:      f64(250),
				Currency:         str("GBP"),
				Status:           model.StatusTracking,
				LastChecked:      now.Add(-30 * time.Minute),
				AddedBy:          "Guest",
				Frequency:        "Daily",
				FrequencyMinutes: 1440,
			},
			{
				ID:               "demo-1002",
				Name:             "LEGO Millennium Falcon 75192",
				Store:            "lego.com",
				URL:              "https://www.lego.com/en-us/product/millennium-falcon-75192",
				CurrentPrice:     f64(849.99),
				TargetPrice:      f64(700),
				Currency:         str("USD"),
				Status:           model.StatusWatching,
				LastChecked:      now.Add(-3 * time.Hour),
				AddedBy:          "Guest",
				Frequency:        "Weekly",
				FrequencyMinutes: 10080,
			},
			{
				ID:               "demo-1003",
				Name:             "Osprey Daylite Backpack",
				Store:            "osprey.com",
				URL:              "https://www.osprey.com/daylite-pack",
				CurrentPrice:     f64(54),
				TargetPrice:      f64(60),
				Currency:         str("EUR"),
				Status:           model.StatusTargetHit,
				LastChecked:      now.Add(-1 * time.Hour),
				AddedBy:          "Guest",
				Frequency:        "Twice daily",
				FrequencyMinutes: 720,
				LastNotification: &twoHoursAgo,
			},
		},
		Notifications: []model.Notification{
			{
				ID:       "demo-n-1",
				ItemID:   "demo-1003",
				ItemName: "Osprey Daylite Backpack",
				Message:  "Osprey Daylite Backpack dropped to €54.00, at or below your target of €60.00.",
				Channel:  model.ChannelEmail,
				SentAt:   twoHoursAgo,
			},
			{
				ID:       "demo-n-2",
				ItemID:   "demo-1001",
				ItemName: "Sony WH-1000XM5 Headphones",
				Message:  "Price check complete: Sony WH-1000XM5 Headphones is still above target.",
				Channel:  model.ChannelPush,
				SentAt:   now.Add(-26 * time.Hour),
			},
		},
		Preferences: model.Preferences{
			FullName:    "Demo User",
			Email:       "demo@example.com",
			Timezone:    "UTC",
			Currency:    "USD",
			Theme:       "light",
			DigestTime:  "08:00",
			DailyDigest: true,
			Contacts: []model.Contact{
				{Name: "Guest"},
				{Name: "Alex", Email: "alex@example.com", Phone: "+15551234567"},
			},
		},
	}
}
