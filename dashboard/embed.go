// Package dashboard provides the embedded web UI for a Dumpulse daemon.
//
// The page lists every known variable and follows updates over the
// "/api/sse" stream. Assets are embedded at compile time so the daemon
// ships as a single binary.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Dashboard page with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
