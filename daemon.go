package dumpulse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/dumpulse/dashboard"
	"github.com/jpalmerr/dumpulse/internal/metrics"
	"github.com/jpalmerr/dumpulse/internal/server"
	"github.com/jpalmerr/dumpulse/internal/store"
	"github.com/jpalmerr/dumpulse/internal/udp"
	"github.com/jpalmerr/dumpulse/pulse"
)

const (
	defaultListenAddr    = ":9060"
	defaultHTTPPort      = 8080
	defaultStaleAfter    = 60 * time.Second
	defaultSweepInterval = time.Second
)

// UnixClock is the default timestamp source: the low 16 bits of the Unix
// time in seconds.
var UnixClock pulse.Clock = pulse.ClockFunc(func() uint16 {
	return uint16(time.Now().Unix())
})

// Daemon hosts a [pulse.Engine] behind a UDP socket and an HTTP dashboard.
//
// The daemon is the boundary the engine relies on: it drops datagrams that
// are not exactly 8 bytes, serialises every engine call with a mutex,
// supplies the clock and routes reports back to the requesting address.
// On top of the engine it tracks which variables were set since start and
// how fresh they are.
//
// The typical lifecycle is:
//
//	d, err := dumpulse.New(dumpulse.WithListenAddr(":9060"))
//	if err != nil {
//	    slog.Error("failed to create daemon", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	d.Start(ctx) // blocks until ctx is cancelled
type Daemon struct {
	id              string
	title           string
	listenAddr      string
	httpPort        int
	httpDisabled    bool
	logger          *slog.Logger
	clock           pulse.Clock
	staleAfter      time.Duration
	sweepInterval   time.Duration
	variables       map[uint8]Variable
	updateCallbacks []func(VariableUpdate)
	store           *store.MemoryStore
	counters        metrics.Counters

	// mu guards the engine and the per-variable host state below.
	mu        sync.Mutex
	engine    pulse.Engine
	seen      uint64
	status    [pulse.NumVariables]Status
	from      [pulse.NumVariables]string
	updatedAt [pulse.NumVariables]time.Time

	startMu  sync.Mutex
	started  bool
	ready    chan struct{}
	udpAddr  net.Addr
	httpAddr net.Addr
}

// New creates a [Daemon] with the given options.
//
// Defaults:
//   - UDP listen address: :9060
//   - HTTP port: 8080
//   - Stale after: 60 seconds
//   - Clock: [UnixClock]
//
// Returns an error if any option is invalid or a variable id is configured
// twice.
func New(opts ...Option) (*Daemon, error) {
	cfg := &daemonConfig{
		listenAddr:    defaultListenAddr,
		httpPort:      defaultHTTPPort,
		staleAfter:    defaultStaleAfter,
		sweepInterval: defaultSweepInterval,
		clock:         UnixClock,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	variables := make(map[uint8]Variable, len(cfg.variables))
	for _, v := range cfg.variables {
		if prev, dup := variables[v.id]; dup {
			return nil, fmt.Errorf("variable id %d configured twice (%q and %q)", v.id, prev.name, v.name)
		}
		variables[v.id] = v
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &Daemon{
		id:              uuid.NewString(),
		title:           cfg.title,
		listenAddr:      cfg.listenAddr,
		httpPort:        cfg.httpPort,
		httpDisabled:    cfg.httpDisabled,
		logger:          logger,
		clock:           cfg.clock,
		staleAfter:      cfg.staleAfter,
		sweepInterval:   cfg.sweepInterval,
		variables:       variables,
		updateCallbacks: cfg.updateCallbacks,
		store:           store.NewMemoryStore(),
		ready:           make(chan struct{}),
	}
	for i := range d.status {
		d.status[i] = StatusUnknown
	}
	for id := range variables {
		d.store.Update(d.variableStatusLocked(id, pulse.Slot{}, StatusUnknown, nil))
	}
	return d, nil
}

// Start serves UDP requests, the HTTP dashboard and the freshness sweep.
//
// Start blocks until ctx is cancelled or a server fails. Returns nil on
// graceful shutdown and an error if a socket cannot be bound or reading
// from it fails. A Daemon can be started once.
func (d *Daemon) Start(ctx context.Context) error {
	d.startMu.Lock()
	if d.started {
		d.startMu.Unlock()
		return errors.New("daemon already started")
	}
	d.started = true
	d.startMu.Unlock()

	d.logger.Info("dumpulse starting",
		"instance", d.id,
		"listen", d.listenAddr,
		"variables", len(d.variables),
		"stale_after", d.staleAfter.String(),
	)

	if ctx.Err() != nil {
		return nil
	}

	udpSrv, err := udp.Listen(d.listenAddr, udp.HandlerFunc(d.handleDatagram), d.logger)
	if err != nil {
		return fmt.Errorf("failed to start udp listener: %w", err)
	}
	key := udpSrv.Addr().String()
	metrics.Publish(key, &d.counters)
	defer metrics.Unpublish(key)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	var httpAddr net.Addr
	if !d.httpDisabled {
		httpSrv := server.NewServer(d.store, d.Report, d.httpPort, dashboard.Assets, d.title, d.logger)
		if err := httpSrv.Start(gctx); err != nil {
			udpSrv.Close()
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		httpAddr = httpSrv.Addr()
		d.logger.Info("dashboard available", "addr", httpAddr.String())
	}

	d.startMu.Lock()
	d.udpAddr, d.httpAddr = udpSrv.Addr(), httpAddr
	d.startMu.Unlock()
	close(d.ready)

	g.Go(func() error {
		return udpSrv.Serve(gctx)
	})
	g.Go(func() error {
		d.sweepLoop(gctx)
		return nil
	})

	err = g.Wait()
	if err != nil {
		d.logger.Error("dumpulse stopped with error", "error", err)
		return err
	}
	d.logger.Info("dumpulse stopped")
	return nil
}

// Ready is closed once Start has bound its sockets.
func (d *Daemon) Ready() <-chan struct{} {
	return d.ready
}

// Addr returns the bound UDP address, or nil before [Daemon.Ready].
func (d *Daemon) Addr() net.Addr {
	d.startMu.Lock()
	defer d.startMu.Unlock()
	return d.udpAddr
}

// HTTPAddr returns the bound HTTP address, or nil if HTTP is disabled or
// the daemon has not started.
func (d *Daemon) HTTPAddr() net.Addr {
	d.startMu.Lock()
	defer d.startMu.Unlock()
	return d.httpAddr
}

// Variables returns the configured variables ordered by id.
func (d *Daemon) Variables() []Variable {
	out := make([]Variable, 0, len(d.variables))
	for _, v := range d.variables {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Snapshot returns a copy of the engine's slots.
func (d *Daemon) Snapshot() [pulse.NumVariables]pulse.Slot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Snapshot()
}

// Report returns the health report the engine would send right now.
func (d *Daemon) Report() [pulse.ReportSize]byte {
	slots := d.Snapshot()
	var buf [pulse.ReportSize]byte
	pulse.EncodeReport(&buf, &slots)
	return buf
}

// Statuses returns the host view of every known variable ordered by id.
func (d *Daemon) Statuses() []store.VariableStatus {
	return d.store.GetAll()
}

// ProcessPacket runs one request through the engine.
//
// This is the entry point for hosts that bring their own transport. reply
// receives the report for query requests and may be nil. The slice passed
// to reply is only valid during the call.
//
// A packet that is not exactly 8 bytes returns [pulse.ErrFrameLength]
// without reaching the engine.
func (d *Daemon) ProcessPacket(packet []byte, from net.Addr, reply func([]byte) error) (pulse.Status, error) {
	d.counters.Received.Add(1)
	if len(packet) != pulse.RequestSize {
		d.counters.FramingErrors.Add(1)
		return pulse.StatusRejected, pulse.ErrFrameLength
	}

	req := pulse.DecodeRequest([pulse.RequestSize]byte(packet))
	fromStr := addrString(from)

	var replyErr error
	tx := pulse.TransmitterFunc(func(p []byte) {
		if reply != nil {
			replyErr = reply(p)
		}
	})

	var update *VariableUpdate
	d.mu.Lock()
	st, err := d.engine.ProcessPacket(packet, d.clock, tx)
	if err == nil && st == pulse.StatusHandled && req.Kind == pulse.KindSet {
		u := d.recordSetLocked(req.Variable, fromStr, time.Now())
		update = &u
	}
	d.mu.Unlock()
	if err != nil {
		return st, err
	}

	switch {
	case st == pulse.StatusRejected:
		d.counters.Rejected.Add(1)
	case req.Kind == pulse.KindQuery:
		d.counters.Queries.Add(1)
	default:
		d.counters.SetsAccepted.Add(1)
	}

	logAttrs := []any{"kind", req.Kind.String(), "status", int(st), "from", fromStr}
	if req.Kind == pulse.KindSet {
		logAttrs = append(logAttrs, "variable", req.Variable, "sender", req.Sender, "value", req.Value)
	}
	d.logger.Debug("packet processed", logAttrs...)

	if replyErr != nil {
		d.counters.ReplyErrors.Add(1)
		d.logger.Warn("failed to send report", "to", fromStr, "error", replyErr)
	}
	if update != nil {
		d.notify(*update)
	}
	return st, nil
}

// handleDatagram adapts ProcessPacket to the UDP transport.
func (d *Daemon) handleDatagram(packet []byte, from net.Addr, reply udp.ReplyFunc) {
	if _, err := d.ProcessPacket(packet, from, reply); err != nil {
		d.logger.Debug("dropping datagram",
			"from", addrString(from),
			"length", len(packet),
			"error", err,
		)
	}
}

// recordSetLocked updates host state after the engine accepted a set.
// The new status is always up: the slot was stamped with the current clock.
func (d *Daemon) recordSetLocked(id uint8, from string, now time.Time) VariableUpdate {
	slot, _ := d.engine.Slot(id)
	prev := d.status[id]

	d.seen |= 1 << id
	d.status[id] = StatusUp
	d.from[id] = from
	d.updatedAt[id] = now

	var age uint16
	d.store.Update(d.variableStatusLocked(id, slot, StatusUp, &age))

	return d.updateFor(id, slot, StatusUp, prev, now)
}

// sweepLoop re-evaluates freshness until ctx is cancelled.
func (d *Daemon) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(d.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, u := range d.sweep(time.Now()) {
				d.notify(u)
			}
		}
	}
}

// sweep refreshes the age of every set variable and returns the status
// transitions it found.
func (d *Daemon) sweep(now time.Time) []VariableUpdate {
	d.mu.Lock()
	defer d.mu.Unlock()

	ts := d.clock.Timestamp()
	var updates []VariableUpdate
	for i := 0; i < pulse.NumVariables; i++ {
		id := uint8(i)
		if d.seen&(1<<id) == 0 {
			continue
		}
		slot, _ := d.engine.Slot(id)
		age := ts - slot.Timestamp
		st := d.freshness(id, age)

		d.store.Update(d.variableStatusLocked(id, slot, st, &age))

		if prev := d.status[id]; st != prev {
			d.status[id] = st
			updates = append(updates, d.updateFor(id, slot, st, prev, now))
		}
	}
	return updates
}

// freshness classifies a variable by the age of its last set. Ages are
// differences of 16-bit second counters and wrap after about 18 hours.
func (d *Daemon) freshness(id uint8, age uint16) Status {
	window := d.staleAfter
	if v, ok := d.variables[id]; ok && v.staleAfter > 0 {
		window = v.staleAfter
	}
	if time.Duration(age)*time.Second > window {
		return StatusStale
	}
	return StatusUp
}

// variableStatusLocked builds the store representation of one variable.
func (d *Daemon) variableStatusLocked(id uint8, slot pulse.Slot, st Status, age *uint16) store.VariableStatus {
	v := d.variables[id]
	return store.VariableStatus{
		ID:         id,
		Name:       v.name,
		Labels:     copyMap(v.labels),
		Status:     st.String(),
		Timestamp:  slot.Timestamp,
		Sender:     slot.Sender,
		Value:      slot.Value,
		AgeSeconds: age,
		From:       d.from[id],
		UpdatedAt:  d.updatedAt[id],
	}
}

func (d *Daemon) updateFor(id uint8, slot pulse.Slot, st, prev Status, now time.Time) VariableUpdate {
	v := d.variables[id]
	return VariableUpdate{
		ID:        id,
		Name:      v.name,
		Labels:    copyMap(v.labels),
		Status:    st,
		Previous:  prev,
		Timestamp: slot.Timestamp,
		Sender:    slot.Sender,
		Value:     slot.Value,
		From:      d.from[id],
		At:        now,
	}
}

// notify invokes the update callbacks in registration order.
func (d *Daemon) notify(u VariableUpdate) {
	for _, cb := range d.updateCallbacks {
		d.invokeCallbackSafe(cb, u)
	}
}

// invokeCallbackSafe calls an update callback with panic recovery.
// Panics are logged with a correlation id but do not propagate.
func (d *Daemon) invokeCallbackSafe(cb func(VariableUpdate), u VariableUpdate) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("update callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"variable", u.ID,
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(u)
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
