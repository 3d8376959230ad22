// Package dumpulse hosts a Dumpulse heartbeat engine on a UDP socket with a
// live status dashboard.
//
// Dumpulse keeps a table of 64 heartbeat variables. Each variable holds the
// 16-bit timestamp, sender id and 8-bit value of its most recent set. Peers
// send 8-byte datagrams: a checksummed set request updates one variable, and
// the literal "AreyouOK" asks for the whole table as a 260-byte health
// report. The protocol itself lives in package [github.com/jpalmerr/dumpulse/pulse];
// this package provides the host around it.
//
// # Quick Start
//
// Start a daemon with graceful shutdown:
//
//	d, _ := dumpulse.New(dumpulse.WithListenAddr(":9060"))
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	d.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// Dumpulse uses the functional options pattern for configuration:
//
//	boiler, _ := dumpulse.NewVariable(3, "boiler", dumpulse.WithLabels("site", "north"))
//
//	d, err := dumpulse.New(
//	    dumpulse.WithVariable(boiler),
//	    dumpulse.WithStaleAfter(2 * time.Minute),
//	    dumpulse.WithHTTPPort(9090),
//	)
//
// Variables are optional. The engine accepts sets for every id 0-63;
// configured variables only add names, labels and per-variable freshness
// windows to the dashboard and callbacks.
//
// # Variable Groups
//
// Groups create consecutive variables from dimension combinations:
//
//	pumps, _ := dumpulse.NewVariableGroup("Pump",
//	    dumpulse.WithFirstID(10),
//	    dumpulse.WithDimensions(map[string][]string{
//	        "hall":  {"east", "west"},
//	        "stage": {"1", "2"},
//	    }),
//	)
//	// ids 10-13: "Pump (east/1)", "Pump (east/2)", "Pump (west/1)", "Pump (west/2)"
//
// # Freshness
//
// The wire report cannot distinguish a never-set variable from one set to
// zero, so the daemon tracks accepted sets itself. A variable is
// [StatusUnknown] until its first set, [StatusUp] while its age is within
// the stale-after window, and [StatusStale] afterwards. Ages are computed
// on the wrapping 16-bit clock.
//
// # Callbacks
//
// [WithUpdateCallback] registers a function invoked for every accepted set
// and every freshness transition. Callbacks run synchronously on the packet
// or sweep goroutine and must not block. Panics are recovered and logged.
//
// # HTTP Endpoints
//
// When HTTP is enabled the daemon serves:
//
//   - GET /             dashboard
//   - GET /api/status   JSON array of variable statuses
//   - GET /api/report   the current 260-byte report
//   - GET /api/sse      server-sent events for live updates
//   - GET /debug/vars   expvar counters
//   - /debug/statsviz/  runtime visualisation
package dumpulse
