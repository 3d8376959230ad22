package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/dumpulse"
)

func main() {
	// group API: 2 halls × 2 stages = 4 variables (ids 10-13) from one declaration
	pumps, err := dumpulse.NewVariableGroup("Pump",
		dumpulse.WithFirstID(10),
		dumpulse.WithDimensions(map[string][]string{
			"hall":  {"east", "west"},
			"stage": {"1", "2"},
		}),
		dumpulse.WithGroupStaleAfter(10*time.Second),
	)
	if err != nil {
		slog.Error("failed to create variable group", "error", err)
		os.Exit(1)
	}

	// a single variable with its own labels; nothing sends to it, so it stays unknown
	controller, _ := dumpulse.NewVariable(0, "Controller",
		dumpulse.WithLabels("rack", "a1"),
	)

	d, err := dumpulse.New(
		dumpulse.WithVariables(pumps...),
		dumpulse.WithVariable(controller),
		dumpulse.WithListenAddr(":9060"),
		dumpulse.WithHTTPPort(8080),
		dumpulse.WithUpdateCallback(func(u dumpulse.VariableUpdate) {
			if u.Status != u.Previous {
				slog.Info("status change", "variable", u.Name, "from", u.Previous, "to", u.Status)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  Dumpulse Demo")
	fmt.Println()
	fmt.Println("  Open http://localhost:8080 in your browser")
	fmt.Println()
	fmt.Println("  Variables:")
	fmt.Println("  • 4 pumps (ids 10-13 via group), fed by mock senders")
	fmt.Println("  • 1 controller (id 0), never set")
	fmt.Println()
	fmt.Println("  Try: go run ./cmd/dumpulse query localhost:9060")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start mock senders once the socket is bound (see mock_senders.go)
	go func() {
		select {
		case <-d.Ready():
			StartMockSenders(ctx, d.Addr().String(), []uint8{10, 11, 12, 13})
		case <-ctx.Done():
		}
	}()

	if err := d.Start(ctx); err != nil {
		slog.Error("dumpulse error", "error", err)
		os.Exit(1)
	}
}
