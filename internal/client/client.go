package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jpalmerr/dumpulse/pulse"
)

// DefaultTimeout bounds a query when ctx has no deadline.
const DefaultTimeout = 2 * time.Second

// readBufferSize is larger than a report so oversize replies are detected.
const readBufferSize = 2048

// DefaultSender is the sender id used when none is given.
const DefaultSender = 76

// ErrNoReply is returned when no report arrives before the deadline.
var ErrNoReply = errors.New("no reply from daemon")

// Result holds one health report fetched by [Client].
type Result struct {
	// Report is the parsed report. Zero if Error is set.
	Report pulse.Report

	// Latency is the time between sending the query and reading the reply.
	Latency time.Duration

	// At is when the query was sent.
	At time.Time

	// Error contains any error that occurred during the query.
	Error error
}

// Client sends requests to a Dumpulse daemon.
//
// Every call dials a fresh connected UDP socket, so replies from other
// hosts are discarded by the kernel.
type Client struct {
	timeout time.Duration
}

// NewClient creates a [Client]. A timeout of zero uses [DefaultTimeout].
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{timeout: timeout}
}

// Query sends the query token to addr and waits for a health report.
//
// The wait ends at the earlier of ctx's deadline and the client timeout.
// A reply that is not a valid 260-byte report is returned as an error
// wrapping [pulse.ErrReportLength] or [pulse.ErrReportChecksum].
func (c *Client) Query(ctx context.Context, addr string) (pulse.Report, error) {
	res := c.fetch(ctx, addr)
	return res.Report, res.Error
}

// fetch performs one query and returns a structured [Result]. Errors are
// captured in the Error field so Watch can hand every attempt to its
// callback.
func (c *Client) fetch(ctx context.Context, addr string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	conn, err := dial(ctx, addr)
	if err != nil {
		return Result{At: start, Error: err}
	}
	defer func() { _ = conn.Close() }()

	// unblock the read if ctx is cancelled before the deadline
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	deadline, _ := ctx.Deadline()
	if err := conn.SetReadDeadline(deadline); err != nil {
		return Result{At: start, Error: fmt.Errorf("failed to set deadline: %w", err)}
	}

	q := pulse.QueryPacket()
	if _, err := conn.Write(q[:]); err != nil {
		return Result{At: start, Error: fmt.Errorf("failed to send query: %w", err)}
	}

	buf := make([]byte, readBufferSize)
	n, err := conn.Read(buf)
	latency := time.Since(start)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return Result{At: start, Latency: latency, Error: ctx.Err()}
			}
			return Result{At: start, Latency: latency, Error: fmt.Errorf("%w from %s after %s", ErrNoReply, addr, latency.Round(time.Millisecond))}
		}
		return Result{At: start, Latency: latency, Error: fmt.Errorf("failed to read reply: %w", err)}
	}

	report, err := pulse.ParseReport(buf[:n])
	if err != nil {
		return Result{At: start, Latency: latency, Error: fmt.Errorf("invalid reply from %s: %w", addr, err)}
	}
	return Result{Report: report, At: start, Latency: latency}
}

// Set sends a set request for variable to addr. Set requests are never
// answered, so a nil error only means the datagram was sent.
func (c *Client) Set(ctx context.Context, addr string, variable, sender, value uint8) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := dial(ctx, addr)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	p := pulse.EncodeSet(variable, sender, value)
	if _, err := conn.Write(p[:]); err != nil {
		return fmt.Errorf("failed to send set: %w", err)
	}
	return nil
}

func dial(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return conn, nil
}
