package dumpulse

import "time"

// Status represents the freshness of a heartbeat variable.
//
// The wire format cannot tell a variable that was never set from one set
// to zero by sender 0 at timestamp 0, so the daemon tracks which variables
// it has accepted sets for and reports the others as [StatusUnknown].
type Status string

const (
	// StatusUp indicates the variable was set within its stale-after window.
	StatusUp Status = "up"

	// StatusStale indicates the last set is older than the stale-after window.
	StatusStale Status = "stale"

	// StatusUnknown indicates no set has been accepted since the daemon started.
	StatusUnknown Status = "unknown"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// VariableUpdate describes a change observed by the daemon. It is passed to
// callbacks registered with [WithUpdateCallback].
//
// An update is produced for every accepted set request and for every
// status transition found by the freshness sweep (for example up to stale).
type VariableUpdate struct {
	// ID is the variable index, 0-63.
	ID uint8

	// Name is the configured name, or "" for unconfigured variables.
	Name string

	// Labels contains the configured metadata for the variable.
	Labels map[string]string

	// Status is the current status.
	Status Status

	// Previous is the status before this update.
	Previous Status

	// Timestamp, Sender and Value are the slot contents.
	Timestamp uint16
	Sender    uint8
	Value     uint8

	// From is the address of the datagram that set the variable, if known.
	From string

	// At is the wall-clock time the update was produced.
	At time.Time
}
