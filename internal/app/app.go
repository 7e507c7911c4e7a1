// Package app holds the page controllers. Each controller consumes the state
// store and produces view models; rendering them is someone else's job.
package app

import (
	"net/http"

	"pricepulse/internal/client"
	"pricepulse/internal/session"
)

type logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// NewAPIClient composes the live API client with the session gate: every
// request goes out with the session's bearer or guest identity, and an
// authorization-rejected response tears the session down and redirects to the
// sign-in page before the error reaches the caller.
func NewAPIClient(httpClient *http.Client, baseURL string, sess *session.Session, log logger) *client.Client {
	return &client.Client{
		Client:         httpClient,
		BaseURL:        baseURL,
		Identity:       sess,
		OnUnauthorized: sess.Invalidate,
		Logger:         log,
	}
}

// Control models one actionable UI control (e.g. a delete button) so a flow
// can disable it for the duration of an in-flight mutation and restore it on
// failure.
type Control struct {
	Disabled bool
	Label    string

	original string
}

func NewControl(label string) *Control {
	return &Control{Label: label, original: label}
}

// Begin disables the control and swaps in an in-progress label, preventing
// double-submit.
func (c *Control) Begin(progress string) {
	c.Disabled = true
	c.Label = progress
}

// Restore re-enables the control with its original label.
func (c *Control) Restore() {
	c.Disabled = false
	c.Label = c.original
}
