package udp

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListen_NilHandler(t *testing.T) {
	_, err := Listen("127.0.0.1:0", nil, testLogger())
	assert.Error(t, err)
}

func TestServer_EchoesToSender(t *testing.T) {
	lengths := make(chan int, 4)
	h := HandlerFunc(func(p []byte, from net.Addr, reply ReplyFunc) {
		lengths <- len(p)
		_ = reply(append([]byte("re:"), p...))
	})

	srv, err := Listen("127.0.0.1:0", h, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	conn, err := net.Dial("udp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	big := make([]byte, 300)
	for _, msg := range [][]byte{[]byte("AreyouOK"), big} {
		_, err = conn.Write(msg)
		require.NoError(t, err)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		buf := make([]byte, 1024)
		n, err := conn.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, append([]byte("re:"), msg...), buf[:n])
		assert.Equal(t, len(msg), <-lengths)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestServer_CloseIsIdempotent(t *testing.T) {
	srv, err := Listen("127.0.0.1:0", HandlerFunc(func([]byte, net.Addr, ReplyFunc) {}), testLogger())
	require.NoError(t, err)
	srv.Close()
	srv.Close()
	assert.NoError(t, srv.Serve(context.Background()))
}
