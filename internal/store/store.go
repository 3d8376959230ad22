package store

import "time"

// VariableStatus is the storage representation of one heartbeat variable.
//
// It carries the raw slot contents reported over the wire plus the
// host-side metadata (name, labels, freshness) used by the HTTP API.
type VariableStatus struct {
	// ID is the variable index, 0-63.
	ID uint8 `json:"id"`

	// Name is the configured display name.
	Name string `json:"name"`

	// Labels contains key-value metadata for grouping and filtering.
	Labels map[string]string `json:"labels"`

	// Status is the derived health state ("up", "stale", "unknown").
	Status string `json:"status"`

	// Timestamp is the 16-bit engine timestamp recorded with the last set.
	Timestamp uint16 `json:"timestamp"`

	// Sender is the id of the last sender.
	Sender uint8 `json:"sender"`

	// Value is the last reported value.
	Value uint8 `json:"value"`

	// AgeSeconds is the age of the last set, computed modulo 2^16 seconds.
	// nil for variables never set since the host started.
	AgeSeconds *uint16 `json:"age_seconds"`

	// From is the network address of the last sender, if known.
	From string `json:"from,omitempty"`

	// UpdatedAt is the wall-clock time the host accepted the last set.
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines the interface for storing and subscribing to variable updates.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	// Update stores a variable status and notifies all subscribers.
	// The status is keyed by ID, so later updates replace earlier ones.
	Update(status VariableStatus)

	// GetAll returns all stored statuses ordered by ID.
	// The returned slice is a snapshot; modifications do not affect the store.
	GetAll() []VariableStatus

	// Subscribe returns a channel that receives updates.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan VariableStatus

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan VariableStatus)
}
