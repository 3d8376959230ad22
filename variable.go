package dumpulse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jpalmerr/dumpulse/pulse"
)

// Variable names one of the 64 heartbeat slots.
//
// Variable is immutable after creation via [NewVariable]. Configuring a
// variable is optional: the engine accepts sets for every id 0-63, and
// configured variables only add a name, labels and a freshness window for
// the dashboard and callbacks.
type Variable struct {
	id         uint8
	name       string
	labels     map[string]string
	staleAfter time.Duration
}

// ID returns the variable index.
func (v Variable) ID() uint8 {
	return v.id
}

// Name returns the display name.
func (v Variable) Name() string {
	return v.name
}

// Labels returns a copy of the variable's labels, or nil if none are set.
func (v Variable) Labels() map[string]string {
	return copyMap(v.labels)
}

// StaleAfter returns the variable's freshness window. Zero means the
// daemon-wide default applies.
func (v Variable) StaleAfter() time.Duration {
	return v.staleAfter
}

// NewVariable creates a [Variable] for slot id.
//
// Example:
//
//	v, err := dumpulse.NewVariable(3, "boiler",
//	    dumpulse.WithLabels("site", "north"),
//	    dumpulse.WithVariableStaleAfter(2*time.Minute),
//	)
//
// Returns an error if id is outside 0-63, the name is empty, or an option
// fails validation.
func NewVariable(id int, name string, opts ...VariableOption) (Variable, error) {
	if id < 0 || id >= pulse.NumVariables {
		return Variable{}, fmt.Errorf("variable id must be between 0 and %d, got %d", pulse.NumVariables-1, id)
	}
	if strings.TrimSpace(name) == "" {
		return Variable{}, errors.New("variable name cannot be empty")
	}

	cfg := &variableConfig{labels: make(map[string]string)}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Variable{}, err
		}
	}

	var labels map[string]string
	if len(cfg.labels) > 0 {
		labels = cfg.labels
	}

	return Variable{
		id:         uint8(id),
		name:       name,
		labels:     labels,
		staleAfter: cfg.staleAfter,
	}, nil
}

// copyMap returns a shallow copy of m, or nil if m is nil.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
