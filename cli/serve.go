package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/warp/benefit-engine/api"
	"github.com/warp/benefit-engine/generic"
	"github.com/warp/benefit-engine/generic/store"
	"github.com/warp/benefit-engine/metrics"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

// serve runs the HTTP API until ctx is cancelled.
//
// STARTUP SEQUENCE:
//   1. Load config (root command)
//   2. Create metrics registry
//   3. Resolve the grunnbeløp once; a failure here aborts startup
//   4. Create API handler and router
//   5. Start server with graceful shutdown
//
// GRACEFUL SHUTDOWN:
//   On SIGINT/SIGTERM:
//   1. Stop accepting new connections
//   2. Wait for active requests to complete (server.shutdown_timeout)
//   3. Close database connection
//   4. Exit
func (a *app) serve(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	provider, sqliteStore, err := a.newProvider(ctx, nil, m)
	if err != nil {
		return err
	}

	var history generic.BaselineStore = store.NewSeededMemory()
	if sqliteStore != nil {
		defer sqliteStore.Close()
		history = sqliteStore
	}

	handler := api.NewHandler(provider, history, m, a.logger)
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Gatherer:       reg,
	})

	sc := a.cfg.Server
	server := &http.Server{
		Addr:         sc.Addr,
		Handler:      router,
		ReadTimeout:  sc.ReadTimeout.Duration,
		WriteTimeout: sc.WriteTimeout.Duration,
		IdleTimeout:  sc.IdleTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			"addr", sc.Addr,
			"grunnbelop", provider.Amount().Value.String(),
			"source", provider.Source(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout.Duration)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	a.logger.Info("server stopped")
	return nil
}
