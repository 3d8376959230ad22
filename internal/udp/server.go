package udp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// readBufferSize is larger than any valid request so that oversize
// datagrams arrive with their real length instead of being truncated.
const readBufferSize = 512

// ReplyFunc sends p back to the sender of the datagram being handled.
type ReplyFunc func(p []byte) error

// Handler processes one datagram. packet is only valid for the duration of
// the call.
type Handler interface {
	HandleDatagram(packet []byte, from net.Addr, reply ReplyFunc)
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc func(packet []byte, from net.Addr, reply ReplyFunc)

var _ Handler = HandlerFunc(nil)

// HandleDatagram calls f.
func (f HandlerFunc) HandleDatagram(packet []byte, from net.Addr, reply ReplyFunc) {
	f(packet, from, reply)
}

// Server is a UDP listener dispatching datagrams to a [Handler].
type Server struct {
	conn    net.PacketConn
	handler Handler
	logger  *slog.Logger

	closeOnce sync.Once
}

// Listen binds a UDP socket on addr. Use port 0 to pick a free port.
func Listen(addr string, handler Handler, logger *slog.Logger) (*Server, error) {
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind udp %s: %w", addr, err)
	}
	return &Server{
		conn:    conn,
		handler: handler,
		logger:  logger.With("component", "udp"),
	}, nil
}

// Addr returns the bound local address.
func (s *Server) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Serve reads datagrams until ctx is cancelled or Close is called.
//
// Returns nil on shutdown and the read error otherwise.
func (s *Server) Serve(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-stop:
		}
	}()

	s.logger.Info("waiting for udp packets", "addr", s.Addr().String())

	buf := make([]byte, readBufferSize)
	for {
		n, from, err := s.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return fmt.Errorf("udp read: %w", err)
		}
		s.handler.HandleDatagram(buf[:n], from, func(p []byte) error {
			_, err := s.conn.WriteTo(p, from)
			return err
		})
	}
}

// Close closes the socket, unblocking Serve. Safe to call multiple times.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		if err := s.conn.Close(); err != nil {
			s.logger.Error("udp close error", "error", err)
		}
	})
}
