package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"election-dashboard/models"
	"election-dashboard/utils"
)

// schema is valid for both PostgreSQL and SQLite. Every data column is text
// so typing and vote coercion behave exactly as for CSV input.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
		row_index          INTEGER PRIMARY KEY,
		state              TEXT NOT NULL DEFAULT '',
		constituency_no    TEXT NOT NULL DEFAULT '',
		candidate_name     TEXT NOT NULL DEFAULT '',
		party              TEXT NOT NULL DEFAULT '',
		gender             TEXT NOT NULL DEFAULT '',
		age                TEXT NOT NULL DEFAULT '',
		application_status TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		row_index   INTEGER PRIMARY KEY,
		state       TEXT NOT NULL DEFAULT '',
		pc_no       TEXT NOT NULL DEFAULT '',
		pc_name     TEXT NOT NULL DEFAULT '',
		candidate   TEXT NOT NULL DEFAULT '',
		party       TEXT NOT NULL DEFAULT '',
		total_votes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS winners (
		row_index         INTEGER PRIMARY KEY,
		state             TEXT NOT NULL DEFAULT '',
		pc_no             TEXT NOT NULL DEFAULT '',
		winning_candidate TEXT NOT NULL DEFAULT '',
		winning_party     TEXT NOT NULL DEFAULT '',
		margin_votes      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_results_key ON results(state, pc_no)`,
	`CREATE INDEX IF NOT EXISTS idx_winners_key ON winners(state, pc_no)`,
}

const batchSize = 50

// SQLStore reads and replaces the three input tables in a PostgreSQL or
// SQLite database.
type SQLStore struct {
	db     *sqlx.DB
	source string
}

// NewSQLStore opens driver ("postgres" or "sqlite"), waits for the database
// to answer, and ensures the schema exists.
func NewSQLStore(ctx context.Context, driver, dsn string, retry *utils.RetryConfig) (*SQLStore, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql: open %s: %w", driver, err)
	}

	if err := retry.DoContext(ctx, driver+"-ping", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: ping: %w", err)
	}

	s := &SQLStore{db: db, source: driver}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReadTables fetches all three tables ordered by their original row position.
func (s *SQLStore) ReadTables(ctx context.Context) (*models.RawTables, error) {
	tables := &models.RawTables{}

	if err := s.db.SelectContext(ctx, &tables.Candidates, `
		SELECT state, constituency_no, candidate_name, party, gender, age, application_status
		FROM candidates
		ORDER BY row_index
	`); err != nil {
		return nil, &LoadError{Table: TableCandidates, Source: s.source, Err: err}
	}

	if err := s.db.SelectContext(ctx, &tables.Results, `
		SELECT state, pc_no, pc_name, candidate, party, total_votes
		FROM results
		ORDER BY row_index
	`); err != nil {
		return nil, &LoadError{Table: TableResults, Source: s.source, Err: err}
	}

	if err := s.db.SelectContext(ctx, &tables.Winners, `
		SELECT state, pc_no, winning_candidate, winning_party, margin_votes
		FROM winners
		ORDER BY row_index
	`); err != nil {
		return nil, &LoadError{Table: TableWinners, Source: s.source, Err: err}
	}

	return tables, nil
}

// WriteTables replaces the stored tables with the given ones in a single
// transaction.
func (s *SQLStore) WriteTables(ctx context.Context, tables *models.RawTables) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sql: begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{TableCandidates, TableResults, TableWinners} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sql: clear %s: %w", table, err)
		}
	}

	candidates := make([][]any, len(tables.Candidates))
	for i, c := range tables.Candidates {
		candidates[i] = []any{i, c.State, c.ConstituencyNo, c.CandidateName, c.Party, c.Gender, c.Age, c.ApplicationStatus}
	}
	if err := insertBatches(ctx, tx, TableCandidates,
		[]string{"row_index", "state", "constituency_no", "candidate_name", "party", "gender", "age", "application_status"},
		candidates); err != nil {
		return err
	}

	results := make([][]any, len(tables.Results))
	for i, r := range tables.Results {
		results[i] = []any{i, r.State, r.PCNo, r.PCName, r.Candidate, r.Party, r.TotalVotes}
	}
	if err := insertBatches(ctx, tx, TableResults,
		[]string{"row_index", "state", "pc_no", "pc_name", "candidate", "party", "total_votes"},
		results); err != nil {
		return err
	}

	winners := make([][]any, len(tables.Winners))
	for i, w := range tables.Winners {
		winners[i] = []any{i, w.State, w.PCNo, w.WinningCandidate, w.WinningParty, w.MarginVotes}
	}
	if err := insertBatches(ctx, tx, TableWinners,
		[]string{"row_index", "state", "pc_no", "winning_candidate", "winning_party", "margin_votes"},
		winners); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sql: commit: %w", err)
	}
	return nil
}

func insertBatches(ctx context.Context, tx *sqlx.Tx, table string, columns []string, rows [][]any) error {
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"

	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[i:end]

		values := make([]string, 0, len(batch))
		args := make([]any, 0, len(batch)*len(columns))
		for _, row := range batch {
			values = append(values, placeholder)
			args = append(args, row...)
		}

		query := tx.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			table, strings.Join(columns, ", "), strings.Join(values, ",")))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("sql: insert %s rows %d-%d: %w", table, i, end-1, err)
		}
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
