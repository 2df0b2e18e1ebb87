package services

import (
	"slices"

	"election-dashboard/models"
)

// Store is the joined election data, built once at startup and shared by
// every request. Nothing mutates it after NewStore returns, so concurrent
// readers need no locking.
type Store struct {
	rows    []models.UnifiedRecord
	winners []models.WinnerRecord
	states  []string
}

// NewStore joins the typed tables and indexes the state order.
func NewStore(tables *models.Tables, joiner *Joiner) *Store {
	rows := joiner.Join(tables)
	return &Store{
		rows:    rows,
		winners: slices.Clone(tables.Winners),
		states:  uniqueInOrder(rows, func(r models.UnifiedRecord) string { return r.State }),
	}
}

// Rows returns a copy of the unified table.
func (s *Store) Rows() []models.UnifiedRecord {
	return slices.Clone(s.rows)
}

// Winners returns a copy of the whole winners table.
func (s *Store) Winners() []models.WinnerRecord {
	return slices.Clone(s.winners)
}

// States lists the distinct states in source order.
func (s *Store) States() []string {
	return slices.Clone(s.states)
}

// DefaultState is the first state in source order, or "" when empty.
func (s *Store) DefaultState() string {
	if len(s.states) == 0 {
		return ""
	}
	return s.states[0]
}

func (s *Store) Len() int {
	return len(s.rows)
}

func uniqueInOrder(rows []models.UnifiedRecord, field func(models.UnifiedRecord) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		v := field(r)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
