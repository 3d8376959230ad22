// Standalone heartbeat simulator for testing the CLI.
//
// Usage:
//
//	go run ./cmd/dumpulse serve -c example/config.yaml
//
// Then in another terminal:
//
//	go run ./example/cmd/mocksender
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/dumpulse/internal/client"
)

const daemonAddr = "localhost:9060"

func main() {
	fmt.Printf("Mock senders targeting %s\n", daemonAddr)
	fmt.Println("Variables 10-13 are set every second; each pauses now and then")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.NewClient(time.Second)
	values := make(map[uint8]uint8)
	pausedUntil := make(map[uint8]time.Time)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for v := uint8(10); v <= 13; v++ {
				if now.Before(pausedUntil[v]) {
					continue
				}
				// roughly once a minute a sender goes quiet for 20-60 seconds
				if rand.Intn(60) == 0 {
					pausedUntil[v] = now.Add(time.Duration(20+rand.Intn(41)) * time.Second)
					slog.Info("sender paused", "variable", v, "until", pausedUntil[v].Format(time.TimeOnly))
					continue
				}
				values[v]++
				if err := c.Set(ctx, daemonAddr, v, 100+v, values[v]); err != nil {
					slog.Error("failed to send heartbeat", "variable", v, "error", err)
				}
			}
		}
	}
}
