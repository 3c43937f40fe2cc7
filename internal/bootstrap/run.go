package bootstrap

import (
	"context"
	"fmt"
	"net"
	"time"
)

// DefaultShutdownTimeout bounds the graceful close when none is configured.
const DefaultShutdownTimeout = 15 * time.Second

// Run listens on srv.Addr() and serves until ctx is cancelled or serving fails, then closes srv
// within shutdownTimeout. A clean shutdown returns nil.
func Run(ctx context.Context, srv *Server, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	logger := srv.Logger()

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", srv.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", srv.Addr(), err)
	}
	logger.Info("server listening", "addr", ln.Addr().String())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	var (
		failure error
		served  bool
	)
	select {
	case <-ctx.Done():
	case failure = <-serveErr:
		served = true
		if failure != nil {
			logger.Error("http server failed", "error", failure)
		}
	}

	logger.Info("gracefully stopping the server")
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Close(closeCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		if failure == nil {
			return err
		}
	}
	if failure != nil || served {
		return failure
	}

	// Serve returns as soon as Shutdown starts
	return <-serveErr
}
