package services

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"election-dashboard/models"
	"election-dashboard/utils"
)

// Messages shown in place of a view that has nothing to display.
const (
	NoticeNoData          = "No data available for the selected filters."
	NoticeNoPartyVotes    = "No votes recorded for parties in the selected filters."
	NoticeNoPartyData     = "No data available for party performance in the selected filters."
	NoticeNoMargins       = "No data available for winning margin distribution in the selected filters."
	NoticeNoTurnout       = "No data available for voter turnout analysis."
	NoticeNoWinners       = "No data available for winning candidate profiles."
	NoticeNoStateSummary  = "No data available for state-wise summary."
	NoticeNoSearchResults = "No results found."
)

// InsightService computes the dashboard views from filtered rows. Every
// method is pure and recomputes from scratch.
type InsightService struct {
	logger     *utils.Logger
	marginBins int
}

func NewInsightService(logger *utils.Logger, marginBins int) *InsightService {
	if marginBins < 1 {
		marginBins = 20
	}
	return &InsightService{logger: logger, marginBins: marginBins}
}

// Generate assembles every view for one selection. winners is the whole
// winners table; the profile view lists it whenever filtered is non-empty.
func (s *InsightService) Generate(sel models.Selection, filtered []models.UnifiedRecord, winners []models.WinnerRecord) *models.DashboardReport {
	report := &models.DashboardReport{
		Selection:        sel,
		RowCount:         len(filtered),
		Rows:             filtered,
		Constituency:     []models.ConstituencyBar{},
		PartyPerformance: []models.PartyTotal{},
		MarginBins:       []models.MarginBin{},
		Turnout:          []models.ConstituencyTotal{},
		Winners:          []models.WinnerProfile{},
		StateSummary:     []models.StatePartyTotal{},
		Notices:          make(map[string]string),
	}

	if len(filtered) == 0 {
		report.Notices[models.SectionConstituency] = NoticeNoData
		report.Notices[models.SectionParty] = NoticeNoPartyData
		report.Notices[models.SectionMargin] = NoticeNoMargins
		report.Notices[models.SectionTurnout] = NoticeNoTurnout
		report.Notices[models.SectionWinners] = NoticeNoWinners
		report.Notices[models.SectionState] = NoticeNoStateSummary
		return report
	}

	report.Constituency = ConstituencyResults(filtered)

	report.PartyPerformance = PartyPerformance(filtered)
	if len(report.PartyPerformance) == 0 {
		report.Notices[models.SectionParty] = NoticeNoPartyVotes
	}

	report.MarginBins, report.MarginSummary = s.MarginDistribution(filtered)
	if report.MarginSummary == nil {
		report.Notices[models.SectionMargin] = NoticeNoMargins
	}

	report.Turnout = VotesByConstituency(filtered)
	report.Winners = WinnerProfiles(winners)
	report.StateSummary = VotesByStateParty(filtered)

	s.logger.Debug("[insights] state=%q rows=%d parties=%d constituencies=%d",
		sel.State, len(filtered), len(report.PartyPerformance), len(report.Turnout))
	return report
}

// PartyPerformance sums Total Votes per party, dropping parties whose sum is
// not positive. Output is ordered by party name.
func PartyPerformance(rows []models.UnifiedRecord) []models.PartyTotal {
	sums, order := sumBy(rows, func(r models.UnifiedRecord) string { return r.Party })
	out := make([]models.PartyTotal, 0, len(order))
	for _, party := range order {
		if sums[party] > 0 {
			out = append(out, models.PartyTotal{Party: party, TotalVotes: sums[party]})
		}
	}
	return out
}

// VotesByConstituency sums Total Votes per PC Name, ordered by name.
func VotesByConstituency(rows []models.UnifiedRecord) []models.ConstituencyTotal {
	sums, order := sumBy(rows, func(r models.UnifiedRecord) string { return r.PCName })
	out := make([]models.ConstituencyTotal, 0, len(order))
	for _, pc := range order {
		out = append(out, models.ConstituencyTotal{PCName: pc, TotalVotes: sums[pc]})
	}
	return out
}

// VotesByStateParty sums Total Votes per (State, Party), ordered by state
// then party.
func VotesByStateParty(rows []models.UnifiedRecord) []models.StatePartyTotal {
	type key struct{ state, party string }
	sums := make(map[key]float64)
	var keys []key
	for _, r := range rows {
		k := key{r.State, r.Party}
		if _, ok := sums[k]; !ok {
			keys = append(keys, k)
		}
		sums[k] += r.TotalVotes
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].state != keys[j].state {
			return keys[i].state < keys[j].state
		}
		return keys[i].party < keys[j].party
	})

	out := make([]models.StatePartyTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.StatePartyTotal{State: k.state, Party: k.party, TotalVotes: sums[k]})
	}
	return out
}

// ConstituencyResults is one bar per row, in row order.
func ConstituencyResults(rows []models.UnifiedRecord) []models.ConstituencyBar {
	out := make([]models.ConstituencyBar, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ConstituencyBar{
			PCName:            r.PCName,
			Party:             r.Party,
			TotalVotes:        r.TotalVotes,
			CandidateName:     r.CandidateName,
			Gender:            r.Gender,
			Age:               r.Age,
			ApplicationStatus: r.ApplicationStatus,
		})
	}
	return out
}

// MarginDistribution bins the Margin Votes of the given rows into equal-width
// bins spanning [min, max]. Rows without a margin are skipped. A nil summary
// means no row had a margin.
func (s *InsightService) MarginDistribution(rows []models.UnifiedRecord) ([]models.MarginBin, *models.MarginSummary) {
	var margins []float64
	for _, r := range rows {
		if r.MarginVotes != nil {
			margins = append(margins, float64(*r.MarginVotes))
		}
	}
	if len(margins) == 0 {
		return []models.MarginBin{}, nil
	}
	sort.Float64s(margins)

	summary := &models.MarginSummary{Count: len(margins)}
	summary.Min, _ = stats.Min(margins)
	summary.Max, _ = stats.Max(margins)
	summary.Mean, _ = stats.Mean(margins)
	summary.Median, _ = stats.Median(margins)

	// The last divider is an exclusive bound, so it sits just past the maximum.
	lower, upper := summary.Min, math.Nextafter(summary.Max, math.Inf(1))
	if summary.Min == summary.Max {
		lower, upper = summary.Min-0.5, summary.Max+0.5
	}
	dividers := floats.Span(make([]float64, s.marginBins+1), lower, upper)
	dividers[len(dividers)-1] = upper
	counts := stat.Histogram(nil, dividers, margins, nil)

	bins := make([]models.MarginBin, len(counts))
	for i, c := range counts {
		bins[i] = models.MarginBin{Lower: dividers[i], Upper: dividers[i+1], Count: int(c)}
	}
	return bins, summary
}

// WinnerProfiles lists distinct (candidate, party, state, margin) winners in
// table order.
func WinnerProfiles(winners []models.WinnerRecord) []models.WinnerProfile {
	type key struct {
		candidate, party, state, margin string
	}
	seen := make(map[key]struct{})
	out := make([]models.WinnerProfile, 0, len(winners))
	for _, w := range winners {
		k := key{w.WinningCandidate, w.WinningParty, w.State, models.FormatMargin(w.MarginVotes)}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, models.WinnerProfile{
			WinningCandidate: w.WinningCandidate,
			WinningParty:     w.WinningParty,
			State:            w.State,
			MarginVotes:      w.MarginVotes,
		})
	}
	return out
}

// sumBy totals Total Votes per group and returns the group names sorted.
func sumBy(rows []models.UnifiedRecord, group func(models.UnifiedRecord) string) (map[string]float64, []string) {
	sums := make(map[string]float64)
	for _, r := range rows {
		sums[group(r)] += r.TotalVotes
	}
	order := make([]string, 0, len(sums))
	for k := range sums {
		order = append(order, k)
	}
	sort.Strings(order)
	return sums, order
}
