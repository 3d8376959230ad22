package pulse

// Status is the single-byte result of processing a request.
type Status uint8

const (
	// StatusRejected covers a bad checksum, an unknown opcode, an
	// out-of-range variable and a framing error. Callers cannot tell these
	// apart from the status alone.
	StatusRejected Status = 0
	// StatusHandled means a report was sent or a variable was updated.
	StatusHandled Status = 1
)

// Clock supplies the 16-bit timestamp recorded with accepted sets.
type Clock interface {
	Timestamp() uint16
}

// ClockFunc adapts a function to [Clock].
type ClockFunc func() uint16

// Timestamp calls f.
func (f ClockFunc) Timestamp() uint16 { return f() }

// Transmitter delivers a health report to whoever asked for it.
//
// The slice passed to SendPacket is owned by the engine and is reused by
// the next call; implementations must copy it if they keep it. SendPacket
// must not block and must not call back into the engine.
type Transmitter interface {
	SendPacket(p []byte)
}

// TransmitterFunc adapts a function to [Transmitter].
type TransmitterFunc func(p []byte)

// SendPacket calls f.
func (f TransmitterFunc) SendPacket(p []byte) { f(p) }

var (
	_ Clock       = ClockFunc(nil)
	_ Transmitter = TransmitterFunc(nil)
)

// Engine decodes requests, applies them to its [Table] and produces
// health reports. The zero value is ready to use.
type Engine struct {
	table Table
	buf   [ReportSize]byte
}

// NewEngine returns an engine with every slot cleared.
func NewEngine() *Engine {
	return &Engine{}
}

// ProcessPacket handles one request.
//
// A query encodes the report into the engine's buffer and passes it to tx
// exactly once. A valid set reads clock once and updates the table; tx is
// not used. Malformed requests touch neither callback.
//
// A packet that is not exactly 8 bytes is a framing error: the engine is
// left untouched and ErrFrameLength is returned.
func (e *Engine) ProcessPacket(packet []byte, clock Clock, tx Transmitter) (Status, error) {
	if len(packet) != RequestSize {
		return StatusRejected, ErrFrameLength
	}
	req := DecodeRequest([RequestSize]byte(packet))
	switch req.Kind {
	case KindQuery:
		EncodeReport(&e.buf, &e.table.slots)
		tx.SendPacket(e.buf[:])
		return StatusHandled, nil
	case KindSet:
		if e.table.Set(req.Variable, req.Sender, req.Value, clock.Timestamp()) {
			return StatusHandled, nil
		}
		return StatusRejected, nil
	default:
		return StatusRejected, nil
	}
}

// Snapshot returns a copy of the engine's variable slots.
func (e *Engine) Snapshot() [NumVariables]Slot {
	return e.table.Snapshot()
}

// Slot returns one variable's slot; see [Table.Slot].
func (e *Engine) Slot(variable uint8) (Slot, bool) {
	return e.table.Slot(variable)
}
