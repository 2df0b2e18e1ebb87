package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"election-dashboard/config"
	"election-dashboard/storage"
	"election-dashboard/utils"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy the three CSV tables into the SQL database",
	Long: `seed reads the candidate, results and winners CSV files and replaces the
matching tables in PostgreSQL or SQLite, so that --source postgres or
--source sqlite serves the same data. Cells are stored as text exactly as
read from the files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		target, _ := cmd.Flags().GetString("target")
		if target == "" {
			target = cfg.Source
		}
		if target == config.SourceCSV {
			target = config.SourceSQLite
		}
		dest := *cfg
		dest.Source = target
		driver, dsn, ok := dest.SQLTarget()
		if !ok {
			return fmt.Errorf("seed: unknown target %q (want postgres or sqlite)", target)
		}

		start := time.Now()
		csvSource := storage.NewCSVSource(cfg.CandidatesPath, cfg.ResultsPath, cfg.WinnersPath)
		tables, err := csvSource.ReadTables(ctx)
		if err != nil {
			return err
		}

		store, err := storage.NewSQLStore(ctx, driver, dsn, &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("[seed] Failed to connect to %s: %v", driver, err)
			return err
		}
		defer store.Close()

		var writer storage.TableWriter = store
		if err := writer.WriteTables(ctx, tables); err != nil {
			return err
		}

		logger.Info("[seed] Wrote %d candidates, %d results, %d winners to %s in %v",
			len(tables.Candidates), len(tables.Results), len(tables.Winners), driver,
			time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	seedCmd.Flags().String("target", "", "database to fill: postgres or sqlite (default: --source, or sqlite)")

	rootCmd.AddCommand(seedCmd)
}
