package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"election-dashboard/models"
)

// Input file headers. They are the join keys and must match exactly.
var (
	candidateColumns = []string{"State", "Constituency_No", "Candidate Name", "Party", "Gender", "Age", "Application Status"}
	resultColumns    = []string{"State", "PC No", "PC Name", "Candidate", "Party", "Total Votes"}
	winnerColumns    = []string{"State", "PC No", "Winning Candidate", "Winning Party", "Margin Votes"}
)

// CSVSource reads the three input tables from CSV files.
type CSVSource struct {
	CandidatesPath string
	ResultsPath    string
	WinnersPath    string
}

func NewCSVSource(candidatesPath, resultsPath, winnersPath string) *CSVSource {
	return &CSVSource{
		CandidatesPath: candidatesPath,
		ResultsPath:    resultsPath,
		WinnersPath:    winnersPath,
	}
}

// ReadTables reads the three files concurrently. The first failure cancels
// the rest and is returned as a *LoadError.
func (s *CSVSource) ReadTables(ctx context.Context) (*models.RawTables, error) {
	tables := &models.RawTables{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := readCSVTable(ctx, TableCandidates, s.CandidatesPath, candidateColumns)
		if err != nil {
			return err
		}
		tables.Candidates = make([]models.RawCandidate, 0, len(t.rows))
		for _, row := range t.rows {
			tables.Candidates = append(tables.Candidates, models.RawCandidate{
				State:             t.get(row, "State"),
				ConstituencyNo:    t.get(row, "Constituency_No"),
				CandidateName:     t.get(row, "Candidate Name"),
				Party:             t.get(row, "Party"),
				Gender:            t.get(row, "Gender"),
				Age:               t.get(row, "Age"),
				ApplicationStatus: t.get(row, "Application Status"),
			})
		}
		return nil
	})

	g.Go(func() error {
		t, err := readCSVTable(ctx, TableResults, s.ResultsPath, resultColumns)
		if err != nil {
			return err
		}
		tables.Results = make([]models.RawResult, 0, len(t.rows))
		for _, row := range t.rows {
			tables.Results = append(tables.Results, models.RawResult{
				State:      t.get(row, "State"),
				PCNo:       t.get(row, "PC No"),
				PCName:     t.get(row, "PC Name"),
				Candidate:  t.get(row, "Candidate"),
				Party:      t.get(row, "Party"),
				TotalVotes: t.get(row, "Total Votes"),
			})
		}
		return nil
	})

	g.Go(func() error {
		t, err := readCSVTable(ctx, TableWinners, s.WinnersPath, winnerColumns)
		if err != nil {
			return err
		}
		tables.Winners = make([]models.RawWinner, 0, len(t.rows))
		for _, row := range t.rows {
			tables.Winners = append(tables.Winners, models.RawWinner{
				State:            t.get(row, "State"),
				PCNo:             t.get(row, "PC No"),
				WinningCandidate: t.get(row, "Winning Candidate"),
				WinningParty:     t.get(row, "Winning Party"),
				MarginVotes:      t.get(row, "Margin Votes"),
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Close is a no-op; files are closed as soon as they are read.
func (s *CSVSource) Close() error {
	return nil
}

type csvTable struct {
	index map[string]int
	rows  [][]string
}

// get returns the trimmed cell for col, or "" when the row is short.
func (t *csvTable) get(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readCSVTable(ctx context.Context, table, path string, required []string) (*csvTable, error) {
	fail := func(err error) error {
		return &LoadError{Table: table, Source: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fail(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fail(errors.New("file is empty"))
	}
	if err != nil {
		return nil, fail(fmt.Errorf("read header: %w", err))
	}

	t := &csvTable{index: make(map[string]int, len(header))}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fail(fmt.Errorf("missing columns %q", missing))
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, fail(err)
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fail(fmt.Errorf("read row: %w", err))
		}
		t.rows = append(t.rows, row)
	}

	return t, nil
}
