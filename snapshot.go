package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"election-dashboard/services"
	"election-dashboard/snapshot"
	"election-dashboard/web"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save PNG screenshots of the dashboard for one or all states",
	Long: `snapshot renders the dashboard in headless Chrome and saves one full-page
PNG per state. Without --url it starts a private server on a loopback port
for the duration of the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := loadStore(ctx)
		if err != nil {
			return err
		}

		states, _ := cmd.Flags().GetStringSlice("state")
		if len(states) == 0 {
			states = store.States()
		}

		baseURL, _ := cmd.Flags().GetString("url")
		if baseURL == "" {
			srv, err := web.NewServer(store, services.NewInsightService(logger, cfg.MarginBins), logger)
			if err != nil {
				return err
			}
			url, shutdown, err := serveLoopback(srv)
			if err != nil {
				return err
			}
			defer shutdown()
			baseURL = url
		}

		shots, err := snapshot.New(cfg, logger).Capture(ctx, baseURL, states)
		for _, s := range shots {
			logger.Debug("[snapshot] %s: %s", s.State, s.Path)
		}
		if err != nil {
			logger.Warn("[snapshot] %d of %d states failed", len(states)-len(shots), len(states))
		}
		return err
	},
}

func init() {
	snapshotCmd.Flags().StringSlice("state", nil, "state to capture; repeatable (default: every state)")
	snapshotCmd.Flags().String("url", "", "base URL of a running dashboard")

	rootCmd.AddCommand(snapshotCmd)
}

// serveLoopback serves h on an ephemeral 127.0.0.1 port and returns its
// base URL and a shutdown func.
func serveLoopback(h http.Handler) (string, func(), error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	server := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("[snapshot] Local server stopped: %v", err)
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
	return "http://" + ln.Addr().String(), shutdown, nil
}
