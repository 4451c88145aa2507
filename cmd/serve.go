package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stinkyfingers/smsbridge/handler"
	"github.com/stinkyfingers/smsbridge/metrics"
	"github.com/stinkyfingers/smsbridge/server"
)

func newServeCmd(opts []handler.Option) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the function over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, h, err := setup(opts)
			if err != nil {
				return err
			}
			defer log.Sync()
			if addr == "" {
				addr = cfg.Addr
			}

			metrics.MustRegister(prometheus.DefaultRegisterer)
			mux, err := server.NewMux(server.NewServer(h, cfg.CORSOrigins, log))
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", zap.String("addr", addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				log.Info("shutting down")
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return errors.Wrap(err, "listen")
				}
				return nil
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $SMSBRIDGE_ADDR or :8088)")
	return cmd
}
