// Package store keeps the host's view of heartbeat variables and fans
// updates out to subscribers.
//
// The main components are:
//
//   - [Store]: Interface defining storage and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [VariableStatus]: Storage representation of one variable
//
// Subscribers receive updates via channels with non-blocking sends (slow
// subscribers will miss updates rather than block packet processing).
//
// This package is internal; the daemon in the root package owns the store.
package store
