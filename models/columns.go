package models

import "strconv"

// UnifiedColumns lists the unified table's columns in display order. The
// names match the input files' headers.
var UnifiedColumns = []string{
	"State",
	"PC No",
	"PC Name",
	"Candidate",
	"Party",
	"Total Votes",
	"Constituency_No",
	"Candidate Name",
	"Gender",
	"Age",
	"Application Status",
	"Winning Candidate",
	"Winning Party",
	"Margin Votes",
}

// Cells renders every column of r to text, aligned with UnifiedColumns.
// Integers are base-10, Total Votes uses the shortest decimal form without
// an exponent, and a missing margin renders as "".
func (r UnifiedRecord) Cells() []string {
	return []string{
		r.State,
		strconv.Itoa(r.PCNo),
		r.PCName,
		r.Candidate,
		r.Party,
		FormatVotes(r.TotalVotes),
		strconv.Itoa(r.ConstituencyNo),
		r.CandidateName,
		r.Gender,
		r.Age,
		r.ApplicationStatus,
		r.WinningCandidate,
		r.WinningParty,
		FormatMargin(r.MarginVotes),
	}
}

// FormatVotes renders a vote count: 1234 -> "1234", 12.5 -> "12.5".
func FormatVotes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatMargin renders an optional margin, "" when missing.
func FormatMargin(m *int64) string {
	if m == nil {
		return ""
	}
	return strconv.FormatInt(*m, 10)
}
