package main

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jpalmerr/dumpulse/internal/client"
)

// mockSender tracks the pacing of one simulated peer.
type mockSender struct {
	variable uint8
	sender   uint8
	value    uint8
	paused   bool
	nextFlip time.Time
}

// StartMockSenders simulates peers that set variables on the daemon at
// addr every second. Each peer pauses for 20-60 seconds at random so its
// variable goes stale on the dashboard, then resumes.
// Blocks until ctx is cancelled.
func StartMockSenders(ctx context.Context, addr string, variables []uint8) {
	c := client.NewClient(time.Second)

	senders := make([]*mockSender, len(variables))
	for i, v := range variables {
		senders[i] = &mockSender{
			variable: v,
			sender:   uint8(100 + i),
			nextFlip: time.Now().Add(time.Duration(20+rand.Intn(41)) * time.Second),
		}
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, s := range senders {
				if now.After(s.nextFlip) {
					s.paused = !s.paused
					s.nextFlip = now.Add(time.Duration(20+rand.Intn(41)) * time.Second)
					slog.Info("sender toggled", "variable", s.variable, "paused", s.paused)
				}
				if s.paused {
					continue
				}
				s.value++
				if err := c.Set(ctx, addr, s.variable, s.sender, s.value); err != nil {
					slog.Error("failed to send heartbeat", "variable", s.variable, "error", err)
				}
			}
		}
	}
}
