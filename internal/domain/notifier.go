package domain

import "context"

// Notification is the short human-readable publish summary posted to
// the external standup endpoint.
type Notification struct {
	Date       string `json:"date"`
	PropertyID string `json:"propertyId"`
	Summary    string `json:"summaryText"`
}

// Notifier delivers a Notification. Callers never fail a run on a
// Notifier error; they log it and move on.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
