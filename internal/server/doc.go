// Package server provides the HTTP surface of a Dumpulse daemon.
//
// This package is internal and handles all HTTP concerns:
//
//   - Dashboard serving: Serves the embedded HTML dashboard at "/"
//   - REST API: JSON variable statuses at "/api/status"
//   - Raw report: the current 260-byte health report at "/api/report"
//   - Server-Sent Events: Real-time updates at "/api/sse"
//   - Debugging: expvar counters at "/debug/vars" and runtime charts at
//     "/debug/statsviz/"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
