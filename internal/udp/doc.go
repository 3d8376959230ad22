// Package udp provides the datagram transport that feeds requests to the
// Dumpulse engine.
//
// The server reads one datagram at a time and hands it to a [Handler]
// together with a [ReplyFunc] bound to the datagram's source address.
// Datagrams are handled sequentially on the read goroutine, so handlers
// never run concurrently with each other.
package udp
