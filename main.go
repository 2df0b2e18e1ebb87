// Command election-dashboard serves and summarizes the 2024 election results.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"election-dashboard/config"
	"election-dashboard/services"
	"election-dashboard/storage"
	"election-dashboard/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "election-dashboard",
	Short: "Explore the 2024 election results by state, party and candidate",
	Long: `election-dashboard joins the candidate roster, the per-constituency results
and the declared winners into one table, then serves an interactive dashboard
over it or prints the same aggregates to the terminal.

Input comes from three CSV files by default, or from a PostgreSQL or SQLite
database filled by the seed command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = utils.NewLoggerWithLevel(cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./dashboard.yaml)")
	flags.String("source", "", "input source: csv, postgres or sqlite")
	flags.String("candidates", "", "path to the candidate roster CSV")
	flags.String("results", "", "path to the results CSV")
	flags.String("winners", "", "path to the winners CSV")
	flags.String("sqlite-path", "", "SQLite database file")
	flags.String("log-level", "", "debug, info, warn or error")

	_ = viper.BindPFlag("source", flags.Lookup("source"))
	_ = viper.BindPFlag("candidates_path", flags.Lookup("candidates"))
	_ = viper.BindPFlag("results_path", flags.Lookup("results"))
	_ = viper.BindPFlag("winners_path", flags.Lookup("winners"))
	_ = viper.BindPFlag("sqlite_path", flags.Lookup("sqlite-path"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openSource returns the configured table source and a name for it.
func openSource(ctx context.Context) (storage.TableSource, string, error) {
	driver, dsn, ok := cfg.SQLTarget()
	if !ok {
		return storage.NewCSVSource(cfg.CandidatesPath, cfg.ResultsPath, cfg.WinnersPath), "csv files", nil
	}
	store, err := storage.NewSQLStore(ctx, driver, dsn, &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Second,
		Logger:      logger,
	})
	if err != nil {
		return nil, "", err
	}
	return store, driver, nil
}

// loadStore reads, types and joins the input tables. A *storage.LoadError is
// logged with the failing table before it is returned.
func loadStore(ctx context.Context) (*services.Store, error) {
	source, name, err := openSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s source: %w", cfg.Source, err)
	}
	defer source.Close()

	tables, err := services.NewLoader(source, logger).Load(ctx, name)
	if err != nil {
		var loadErr *storage.LoadError
		if errors.As(err, &loadErr) {
			logger.Error("[main] Could not load the %s table from %s: %v", loadErr.Table, loadErr.Source, loadErr.Err)
		}
		return nil, err
	}

	store := services.NewStore(tables, services.NewJoiner(logger))
	logger.Info("[main] Unified table: %d rows across %d states", store.Len(), len(store.States()))
	return store, nil
}
