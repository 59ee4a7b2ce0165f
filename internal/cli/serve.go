package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ficrammanifur/tofico-analyzer-backend/internal/httpapi"
	"github.com/ficrammanifur/tofico-analyzer-backend/internal/telemetry"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/matrix"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluation matrix over HTTP",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, _, err := a.loadConfig()
			if err != nil {
				return err
			}
			shutdownTracing, err := telemetry.SetupTracing(ctx, "tofico", cfg.OTelEndpoint)
			if err != nil {
				return fmt.Errorf("setup tracing: %w", err)
			}
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = shutdownTracing(flushCtx)
			}()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics, err := telemetry.NewMetrics(reg)
			if err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}

			s, err := a.open(ctx, cmd, matrix.WithObserver(metrics), matrix.WithTracer(telemetry.NewTracer(nil)))
			if err != nil {
				return err
			}
			defer s.Close()

			if addr == "" {
				addr = s.cfg.HTTPAddr
			}
			handler := httpapi.NewHandler(s.svc, httpapi.Options{
				Logger:     s.logger,
				CORSOrigin: s.cfg.CORSOrigin,
				Version:    Version,
				Metrics:    promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			})

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			s.logger.InfoContext(ctx, "http server listening", "addr", ln.Addr().String(), "driver", s.cfg.Driver)
			return runServer(ctx, httpapi.NewServer(addr, handler), ln, s.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: http_addr from config, \":8000\")")
	return cmd
}

// runServer serves on ln until ctx is done, then shuts the server down
// gracefully. A serve error cancels the shutdown watcher and is returned.
func runServer(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
