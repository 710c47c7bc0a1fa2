package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pipe01/tagtree/internal/api"
	"github.com/pipe01/tagtree/internal/config"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	commonlog.Configure(cfg.LogVerbosity, nil)
	log := commonlog.GetLogger("tagtree.api")

	if err := cfg.Validate(); err != nil {
		log.Errorf("invalid configuration: %s", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.NewServer(log, cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Errorf("listen: %s", err)
		os.Exit(1)
	}

	log.Infof("starting tagtree server on %s (indent %d)", ln.Addr(), cfg.IndentWidth)
	if err := serve(ctx, log, httpServer, ln); err != nil {
		log.Errorf("server error: %s", err)
		os.Exit(1)
	}
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, log commonlog.Logger, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %s", err)
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
