// Package pulse implements the Dumpulse packet engine.
//
// The engine keeps a table of 64 heartbeat variables. Each variable holds
// the last (timestamp, sender, value) reported for it. Clients talk to the
// engine with fixed 8-byte requests:
//
//   - the query token "AreyouOK", answered with a 260-byte health report
//   - a set request: a little-endian checksum followed by the payload
//     {0xF1, variable, sender, value}
//
// The engine performs no I/O and never reads the system clock. A host
// supplies a [Clock] and a [Transmitter] on every call to
// [Engine.ProcessPacket], which keeps the engine independent of the
// transport and trivially testable.
//
// An [Engine] is not safe for concurrent use. Hosts that receive packets
// from several goroutines must serialise calls themselves.
package pulse
