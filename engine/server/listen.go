package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/compozy/demoutils/engine/core"
	"github.com/compozy/demoutils/pkg/config"
	apperrors "github.com/compozy/demoutils/pkg/errors"
	"github.com/compozy/demoutils/pkg/logger"
)

const limiterTTL = 5 * time.Minute

// Listen binds host:port. While the address is in use it moves on to the
// next port, trying at most attempts ports in total.
func Listen(ctx context.Context, host string, port int, attempts uint) (net.Listener, error) {
	next := port
	retryCfg := &apperrors.RetryConfig{
		MaxAttempts:     attempts,
		InitialDelay:    20 * time.Millisecond,
		MaxDelay:        200 * time.Millisecond,
		RetryableErrors: []core.ErrorCode{core.ErrorCodeAddrInUse},
	}

	return apperrors.WithRetryTyped(ctx, "listen", retryCfg, func() (net.Listener, error) {
		addr := net.JoinHostPort(host, strconv.Itoa(next))
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			return ln, nil
		}
		meta := map[string]any{"addr": addr}
		if errors.Is(err, syscall.EADDRINUSE) {
			next++
			return nil, core.NewError(err, core.ErrorCodeAddrInUse, meta)
		}
		return nil, core.NewError(err, core.ErrorCodeServerStart, meta)
	})
}

// Serve runs handler on ln until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, cfg config.ServerConfig) error {
	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.ReadTimeout,
		IdleTimeout:       60 * time.Second,
	}

	log := logger.With("addr", ln.Addr().String())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down demo server", "timeout", cfg.ShutdownTimeout)
	shCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Run starts the demo server described by cfg and blocks until ctx is done.
// onReady, when set, receives the demo page URL once the port is bound.
func Run(ctx context.Context, cfg *config.Config, onReady func(url string)) error {
	ln, err := Listen(ctx, cfg.Server.Host, cfg.Server.Port, cfg.Server.PortAttempts)
	if err != nil {
		return fmt.Errorf("failed to bind demo server: %w", err)
	}

	lm := NewLimiterMap(cfg.Server.RateLimitRPM, cfg.Server.RateLimitBurst, limiterTTL)
	defer lm.Stop()

	url := "http://" + ln.Addr().String() + "/demo.html"
	if port := ln.Addr().(*net.TCPAddr).Port; port != cfg.Server.Port {
		logger.Warn("configured port busy, using next free port", "configured", cfg.Server.Port, "port", port)
	}
	logger.Info("demo server listening", "url", url)
	if onReady != nil {
		onReady(url)
	}

	return Serve(ctx, ln, NewRouter(cfg, lm), cfg.Server)
}
