package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"election-dashboard/models"
	"election-dashboard/utils"
)

// groupedNumberRegexp matches numbers written with comma thousands
// separators, e.g. "1,234" or "12,345,678.5".
var groupedNumberRegexp = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// Cleaner transforms raw source rows into typed records.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// CleanCandidates types the roster. An unparsable Constituency_No is an error.
func (c *Cleaner) CleanCandidates(raw []models.RawCandidate) ([]models.CandidateRecord, error) {
	out := make([]models.CandidateRecord, 0, len(raw))
	for i, r := range raw {
		no, err := parseKey(r.ConstituencyNo)
		if err != nil {
			return nil, fmt.Errorf("row %d: Constituency_No: %w", i+2, err)
		}
		out = append(out, models.CandidateRecord{
			State:             r.State,
			ConstituencyNo:    no,
			CandidateName:     r.CandidateName,
			Party:             r.Party,
			Gender:            r.Gender,
			Age:               r.Age,
			ApplicationStatus: r.ApplicationStatus,
		})
	}
	return out, nil
}

// CleanResults types the results table. Total Votes is kept as text here.
func (c *Cleaner) CleanResults(raw []models.RawResult) ([]models.ResultRecord, error) {
	out := make([]models.ResultRecord, 0, len(raw))
	for i, r := range raw {
		no, err := parseKey(r.PCNo)
		if err != nil {
			return nil, fmt.Errorf("row %d: PC No: %w", i+2, err)
		}
		out = append(out, models.ResultRecord{
			State:      r.State,
			PCNo:       no,
			PCName:     r.PCName,
			Candidate:  r.Candidate,
			Party:      r.Party,
			TotalVotes: r.TotalVotes,
		})
	}
	return out, nil
}

// CleanWinners types the winners table. A margin that is not a number is
// recorded as missing.
func (c *Cleaner) CleanWinners(raw []models.RawWinner) ([]models.WinnerRecord, error) {
	out := make([]models.WinnerRecord, 0, len(raw))
	missing := 0
	for i, r := range raw {
		no, err := parseKey(r.PCNo)
		if err != nil {
			return nil, fmt.Errorf("row %d: PC No: %w", i+2, err)
		}
		w := models.WinnerRecord{
			State:            r.State,
			PCNo:             no,
			WinningCandidate: r.WinningCandidate,
			WinningParty:     r.WinningParty,
		}
		if v, ok := parseNumber(r.MarginVotes); ok {
			m := int64(math.Round(v))
			w.MarginVotes = &m
		} else {
			missing++
		}
		out = append(out, w)
	}
	if missing > 0 {
		c.logger.Debug("[cleaner] %d winner rows have no numeric margin", missing)
	}
	return out, nil
}

// CoerceVotes converts a Total Votes cell to a number. Anything that does
// not parse as a finite number becomes 0, and negative counts clamp to 0.
func CoerceVotes(raw string) float64 {
	v, ok := parseNumber(raw)
	if !ok || v < 0 {
		return 0
	}
	return v
}

// parseNumber parses plain or comma-grouped decimal text. NaN and infinities
// are rejected.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if groupedNumberRegexp.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseKey parses a constituency number. Whole-valued decimals such as "7.0"
// are accepted because spreadsheet exports often write them that way.
func parseKey(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a constituency number", raw)
	}
	return int(v), nil
}
