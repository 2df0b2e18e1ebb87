package services

import (
	"slices"
	"strings"

	"election-dashboard/models"
)

// FilterCascade narrows the store's rows by state, then party, then
// candidate. It holds no per-request state.
type FilterCascade struct {
	store *Store
}

func NewFilterCascade(store *Store) *FilterCascade {
	return &FilterCascade{store: store}
}

// ResolveState returns state, or the default state when state is "".
func (f *FilterCascade) ResolveState(state string) string {
	if state == "" {
		return f.store.DefaultState()
	}
	return state
}

// Options lists the choices for each stage given a state. Both the party
// and the candidate lists come from the state-filtered rows; the candidate
// list is not narrowed by the party selection.
func (f *FilterCascade) Options(state string) models.FilterOptions {
	state = f.ResolveState(state)
	byState := FilterByState(f.store.rows, state)

	return models.FilterOptions{
		States:     f.store.States(),
		State:      state,
		Parties:    append([]string{models.SelectAll}, visibleParties(byState)...),
		Candidates: append([]string{models.SelectAll}, visibleCandidates(byState)...),
	}
}

// Apply runs stages 1-3. An empty State selects the default state; empty
// party or candidate selections yield no rows.
func (f *FilterCascade) Apply(sel models.Selection) []models.UnifiedRecord {
	byState := FilterByState(f.store.rows, f.ResolveState(sel.State))
	byParty := FilterByParty(byState, sel.Parties)
	return filterByCandidate(byParty, sel.Candidates, visibleCandidates(byState))
}

// Search matches query against the full unified table, ignoring the
// cascade selection.
func (f *FilterCascade) Search(query string) []models.UnifiedRecord {
	return Search(f.store.rows, query)
}

// FilterByState keeps rows whose State equals state exactly.
func FilterByState(rows []models.UnifiedRecord, state string) []models.UnifiedRecord {
	return filterRows(rows, func(r models.UnifiedRecord) bool { return r.State == state })
}

// FilterByParty keeps rows whose Party is selected. SelectAll expands to
// every party present in rows.
func FilterByParty(rows []models.UnifiedRecord, selected []string) []models.UnifiedRecord {
	allowed := resolveSelection(selected, visibleParties(rows))
	return filterRows(rows, func(r models.UnifiedRecord) bool {
		_, ok := allowed[r.Party]
		return ok
	})
}

// FilterByCandidate keeps rows whose Candidate Name is selected. SelectAll
// expands to every candidate present in rows.
func FilterByCandidate(rows []models.UnifiedRecord, selected []string) []models.UnifiedRecord {
	return filterByCandidate(rows, selected, visibleCandidates(rows))
}

func filterByCandidate(rows []models.UnifiedRecord, selected, visible []string) []models.UnifiedRecord {
	allowed := resolveSelection(selected, visible)
	return filterRows(rows, func(r models.UnifiedRecord) bool {
		_, ok := allowed[r.CandidateName]
		return ok
	})
}

// Search returns rows where query, case-insensitively, is a substring of
// at least one cell's text form (see models.UnifiedRecord.Cells). An empty
// query matches nothing.
func Search(rows []models.UnifiedRecord, query string) []models.UnifiedRecord {
	if query == "" {
		return []models.UnifiedRecord{}
	}
	q := strings.ToLower(query)
	return filterRows(rows, func(r models.UnifiedRecord) bool {
		return slices.ContainsFunc(r.Cells(), func(cell string) bool {
			return strings.Contains(strings.ToLower(cell), q)
		})
	})
}

func visibleParties(rows []models.UnifiedRecord) []string {
	return uniqueInOrder(rows, func(r models.UnifiedRecord) string { return r.Party })
}

func visibleCandidates(rows []models.UnifiedRecord) []string {
	return uniqueInOrder(rows, func(r models.UnifiedRecord) string { return r.CandidateName })
}

func resolveSelection(selected, visible []string) map[string]struct{} {
	if slices.Contains(selected, models.SelectAll) {
		selected = visible
	}
	set := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		set[s] = struct{}{}
	}
	return set
}

func filterRows(rows []models.UnifiedRecord, keep func(models.UnifiedRecord) bool) []models.UnifiedRecord {
	out := make([]models.UnifiedRecord, 0)
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
