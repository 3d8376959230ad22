// Package metrics publishes packet counters via expvar.
//
// Every daemon owns one [Counters]. Counters are grouped under the
// top-level "dumpulse" expvar map, keyed by the daemon's bound address, so
// several daemons in one process (tests, embedded use) do not collide.
package metrics

import "expvar"

// registry is the single expvar entry owned by this package. expvar panics
// on duplicate names, so it is created exactly once.
var registry = expvar.NewMap("dumpulse")

// Counters tracks what the daemon did with the datagrams it received.
type Counters struct {
	Received      expvar.Int
	FramingErrors expvar.Int
	Queries       expvar.Int
	SetsAccepted  expvar.Int
	Rejected      expvar.Int
	ReplyErrors   expvar.Int
}

// Map returns the counters as an expvar map.
func (c *Counters) Map() *expvar.Map {
	m := new(expvar.Map).Init()
	m.Set("packets_received", &c.Received)
	m.Set("framing_errors", &c.FramingErrors)
	m.Set("queries", &c.Queries)
	m.Set("sets_accepted", &c.SetsAccepted)
	m.Set("rejected", &c.Rejected)
	m.Set("reply_errors", &c.ReplyErrors)
	return m
}

// Publish exposes c under key in the "dumpulse" expvar map, replacing any
// earlier entry with the same key.
func Publish(key string, c *Counters) {
	registry.Set(key, c.Map())
}

// Unpublish removes key from the "dumpulse" expvar map.
func Unpublish(key string) {
	registry.Delete(key)
}
