package model

// State is the canonical aggregate one page view works from. The state store
// owns it for the lifetime of the view.
type State struct {
	Items         []WatchItem    `json:"items"`
	Notifications []Notification `json:"notifications"`
	Preferences   Preferences    `json:"preferences"`
}
