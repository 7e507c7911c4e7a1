package model

import (
	"strings"
	"time"
)

const (
	ChannelEmail = "Email"
	ChannelPush  = "Push"
	ChannelSMS   = "SMS"
)

// NormalizeChannel maps a wire channel ("email", "push", "sms") to its
// canonical display value; unknown channels default to Email.
func NormalizeChannel(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "push":
		return ChannelPush
	case "sms":
		return ChannelSMS
	default:
		return ChannelEmail
	}
}

// APIChannel is the reverse mapping to the wire value.
func APIChannel(s string) string {
	return strings.ToLower(NormalizeChannel(s))
}

// Notification is one delivered alert. Immutable once created; this client
// only ever reads them.
type Notification struct {
	ID       string    `json:"id"`
	ItemID   string    `json:"itemId"`
	ItemName string    `json:"itemName"`
	Message  string    `json:"message"`
	Channel  string    `json:"channel"`
	SentAt   time.Time `json:"sentAt"`
}
