package storage

import "fmt"

// Table names used in errors and SQL.
const (
	TableCandidates = "candidates"
	TableResults    = "results"
	TableWinners    = "winners"
)

// LoadError reports a missing or malformed input table.
type LoadError struct {
	Table  string
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s from %s: %v", e.Table, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
