package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"election-dashboard/services"
	"election-dashboard/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := loadStore(ctx)
		if err != nil {
			return err
		}
		srv, err := web.NewServer(store, services.NewInsightService(logger, cfg.MarginBins), logger)
		if err != nil {
			return err
		}
		return listenAndServe(ctx, cfg.HTTPAddr, srv)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8501)")
	serveCmd.Flags().Int("margin-bins", 0, "number of bins in the winning margin histogram")
	_ = viper.BindPFlag("http_addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("margin_bins", serveCmd.Flags().Lookup("margin-bins"))

	rootCmd.AddCommand(serveCmd)
}

// listenAndServe runs h on addr until ctx is done, then drains in-flight
// requests for up to ten seconds.
func listenAndServe(ctx context.Context, addr string, h http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[serve] Dashboard listening on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("[serve] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
