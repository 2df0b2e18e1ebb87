package models

// SelectAll is the sentinel option that expands to every visible value.
const SelectAll = "Select All"

// Dashboard section keys.
const (
	SectionConstituency = "constituency"
	SectionParty        = "party"
	SectionMargin       = "margin"
	SectionTurnout      = "turnout"
	SectionWinners      = "winners"
	SectionState        = "state"
	SectionSearch       = "search"
)

// Selection is the user's input to the filter cascade.
type Selection struct {
	State      string   `json:"state"`
	Parties    []string `json:"parties"`
	Candidates []string `json:"candidates"`
}

// FilterOptions are the choices offered for each cascade stage. Parties and
// Candidates start with SelectAll.
type FilterOptions struct {
	States     []string `json:"states"`
	State      string   `json:"state"`
	Parties    []string `json:"parties"`
	Candidates []string `json:"candidates"`
}

type PartyTotal struct {
	Party      string  `json:"party"`
	TotalVotes float64 `json:"total_votes"`
}

type ConstituencyTotal struct {
	PCName     string  `json:"pc_name"`
	TotalVotes float64 `json:"total_votes"`
}

type StatePartyTotal struct {
	State      string  `json:"state"`
	Party      string  `json:"party"`
	TotalVotes float64 `json:"total_votes"`
}

// ConstituencyBar is one bar of the constituency-wise results view, with the
// hover fields carried alongside.
type ConstituencyBar struct {
	PCName            string  `json:"pc_name"`
	Party             string  `json:"party"`
	TotalVotes        float64 `json:"total_votes"`
	CandidateName     string  `json:"candidate_name"`
	Gender            string  `json:"gender"`
	Age               string  `json:"age"`
	ApplicationStatus string  `json:"application_status"`
}

// MarginBin counts margins in [Lower, Upper).
type MarginBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type MarginSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

type WinnerProfile struct {
	WinningCandidate string `json:"winning_candidate"`
	WinningParty     string `json:"winning_party"`
	State            string `json:"state"`
	MarginVotes      *int64 `json:"margin_votes"`
}

// DashboardReport holds every view computed for one selection. A section
// that has nothing to show has an entry in Notices instead of data.
type DashboardReport struct {
	Selection        Selection           `json:"selection"`
	RowCount         int                 `json:"row_count"`
	Rows             []UnifiedRecord     `json:"rows"`
	Constituency     []ConstituencyBar   `json:"constituency"`
	PartyPerformance []PartyTotal        `json:"party_performance"`
	MarginBins       []MarginBin         `json:"margin_bins"`
	MarginSummary    *MarginSummary      `json:"margin_summary,omitempty"`
	Turnout          []ConstituencyTotal `json:"turnout"`
	Winners          []WinnerProfile     `json:"winners"`
	StateSummary     []StatePartyTotal   `json:"state_summary"`
	Notices          map[string]string   `json:"notices"`
}

// Notice returns the "no data" message for a section, or "".
func (r *DashboardReport) Notice(section string) string {
	if r == nil || r.Notices == nil {
		return ""
	}
	return r.Notices[section]
}
