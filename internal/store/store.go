// Package store loads and persists the {items, notifications, preferences}
// aggregate. Two implementations satisfy the same contract: DemoStore keeps
// everything in a local file, LiveStore talks to the remote API. Page
// controllers are oblivious to which one they hold.
package store

import (
	"context"

	"github.com/pkg/errors"

	"pricepulse/internal/model"
)

var ErrItemNotFound = errors.New("item not found")

// User-visible notices for degraded loads. Read failures never propagate as
// errors past the store; they surface as warnings on a reduced aggregate.
const (
	WarnItemsUnavailable         = "Could not load your items. Please try again later."
	WarnNotificationsUnavailable = "Notifications are unavailable right now."
)

type Store interface {
	// Load returns the aggregate for the current view plus any user-visible
	// warnings about partial results.
	Load(ctx context.Context) (model.State, []string, error)

	// CreateItem persists a new item and returns it as stored, with its
	// assigned identifier.
	CreateItem(ctx context.Context, i model.WatchItem) (model.WatchItem, error)

	// UpdateItem replaces the mutable fields of an existing item in place,
	// preserving its identifier.
	UpdateItem(ctx context.Context, i model.WatchItem) (model.WatchItem, error)

	DeleteItem(ctx context.Context, id string) error

	// SavePreferences replaces the preferences wholesale.
	SavePreferences(ctx context.Context, p model.Preferences) error

	// Remote reports whether durable state lives behind the API, in which
	// case the view reloads after writes instead of trusting local state.
	Remote() bool
}

type logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}
