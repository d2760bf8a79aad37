// Package store defines the two opaque string slots the core persists:
// the reasoning credential and the serialized user preferences.
package store

import "context"

// Slot names one persisted value.
type Slot string

const (
	SlotCredential  Slot = "credential"
	SlotPreferences Slot = "preferences"
)

// Slots is a tiny key/value store holding opaque strings. A missing
// slot is reported with ok=false and no error.
type Slots interface {
	Get(ctx context.Context, slot Slot) (value string, ok bool, err error)
	Set(ctx context.Context, slot Slot, value string) error
	Delete(ctx context.Context, slot Slot) error
	Ping(ctx context.Context) error
}
