package server_test

import (
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/compozy/demoutils/engine/core"
	"github.com/compozy/demoutils/engine/server"
	"github.com/compozy/demoutils/pkg/config"
	"github.com/compozy/demoutils/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// busyPort holds a loopback port open for the duration of the test
func busyPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().(*net.TCPAddr).Port
}

func TestListen(t *testing.T) {
	logger.Disable()
	t.Cleanup(logger.Enable)

	t.Run("Should bind the requested port when free", func(t *testing.T) {
		ln, err := server.Listen(context.Background(), "127.0.0.1", 0, 1)
		require.NoError(t, err)
		defer ln.Close()
		assert.NotZero(t, ln.Addr().(*net.TCPAddr).Port)
	})

	t.Run("Should give up after the configured attempts", func(t *testing.T) {
		port := busyPort(t)

		_, err := server.Listen(context.Background(), "127.0.0.1", port, 1)

		require.Error(t, err)
		assert.True(t, core.HasCode(err, core.ErrorCodeMaxRetriesExceeded))
		assert.True(t, core.HasCode(err, core.ErrorCodeAddrInUse))
	})

	t.Run("Should move on to the next port when busy", func(t *testing.T) {
		port := busyPort(t)

		ln, err := server.Listen(context.Background(), "127.0.0.1", port, 5)
		if err != nil {
			// the following ports may be taken by other processes
			t.Skipf("no free port after %d: %v", port, err)
		}
		defer ln.Close()
		assert.Greater(t, ln.Addr().(*net.TCPAddr).Port, port)
	})

	t.Run("Should not retry other bind failures", func(t *testing.T) {
		_, err := server.Listen(context.Background(), "192.0.2.1", 8000, 3)

		require.Error(t, err)
		assert.True(t, core.HasCode(err, core.ErrorCodeServerStart))
		assert.False(t, core.HasCode(err, core.ErrorCodeMaxRetriesExceeded))
	})
}

func TestRun(t *testing.T) {
	logger.Disable()
	t.Cleanup(logger.Enable)

	t.Run("Should serve until the context is cancelled", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Server.Host = "127.0.0.1"
		cfg.Server.Port = busyPort(t)
		cfg.Server.ShutdownTimeout = time.Second

		ctx, cancel := context.WithCancel(context.Background())
		ready := make(chan string, 1)
		done := make(chan error, 1)
		go func() {
			done <- server.Run(ctx, cfg, func(url string) { ready <- url })
		}()

		var url string
		select {
		case url = <-ready:
		case err := <-done:
			t.Skipf("demo server could not bind: %v", err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not become ready")
		}
		assert.True(t, strings.HasSuffix(url, "/demo.html"))

		resp, err := http.Get(strings.TrimSuffix(url, "/demo.html") + "/healthz")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})
}
