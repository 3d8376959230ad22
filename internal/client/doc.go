// Package client talks to a Dumpulse daemon over UDP.
//
// It is used by the dumpulse CLI to send set requests and fetch health
// reports. The main components are:
//
//   - [Client]: sends single requests with a per-request timeout
//   - [Client.Watch]: queries a daemon periodically
//   - [Result]: a report together with how long it took to arrive
package client
