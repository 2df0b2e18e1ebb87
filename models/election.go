package models

// RawCandidate is one row of the candidate roster exactly as read from the source.
type RawCandidate struct {
	State             string `db:"state"`
	ConstituencyNo    string `db:"constituency_no"`
	CandidateName     string `db:"candidate_name"`
	Party             string `db:"party"`
	Gender            string `db:"gender"`
	Age               string `db:"age"`
	ApplicationStatus string `db:"application_status"`
}

// RawResult is one row of the per-constituency results as read from the source.
type RawResult struct {
	State      string `db:"state"`
	PCNo       string `db:"pc_no"`
	PCName     string `db:"pc_name"`
	Candidate  string `db:"candidate"`
	Party      string `db:"party"`
	TotalVotes string `db:"total_votes"`
}

// RawWinner is one row of the declared winners as read from the source.
type RawWinner struct {
	State            string `db:"state"`
	PCNo             string `db:"pc_no"`
	WinningCandidate string `db:"winning_candidate"`
	WinningParty     string `db:"winning_party"`
	MarginVotes      string `db:"margin_votes"`
}

// RawTables groups the three untyped input tables.
type RawTables struct {
	Candidates []RawCandidate
	Results    []RawResult
	Winners    []RawWinner
}

// CandidateRecord is a typed roster row.
// Identity: (State, ConstituencyNo, CandidateName, Party).
type CandidateRecord struct {
	State             string `json:"state"`
	ConstituencyNo    int    `json:"constituency_no"`
	CandidateName     string `json:"candidate_name"`
	Party             string `json:"party"`
	Gender            string `json:"gender"`
	Age               string `json:"age"`
	ApplicationStatus string `json:"application_status"`
}

// ResultRecord is a typed results row. TotalVotes keeps the source text; it is
// coerced to a number when the row enters the unified table.
// Identity: (State, PCNo, Candidate, Party).
type ResultRecord struct {
	State      string `json:"state"`
	PCNo       int    `json:"pc_no"`
	PCName     string `json:"pc_name"`
	Candidate  string `json:"candidate"`
	Party      string `json:"party"`
	TotalVotes string `json:"total_votes"`
}

// WinnerRecord is a typed winners row. MarginVotes is nil when the source
// cell is blank or not a number. Identity: (State, PCNo).
type WinnerRecord struct {
	State            string `json:"state"`
	PCNo             int    `json:"pc_no"`
	WinningCandidate string `json:"winning_candidate"`
	WinningParty     string `json:"winning_party"`
	MarginVotes      *int64 `json:"margin_votes"`
}

// Tables groups the three typed input tables.
type Tables struct {
	Candidates []CandidateRecord
	Results    []ResultRecord
	Winners    []WinnerRecord
}

// UnifiedRecord is a results row joined with its roster entry and the
// constituency's winner.
type UnifiedRecord struct {
	State             string  `json:"state"`
	PCNo              int     `json:"pc_no"`
	PCName            string  `json:"pc_name"`
	Candidate         string  `json:"candidate"`
	Party             string  `json:"party"`
	TotalVotes        float64 `json:"total_votes"`
	ConstituencyNo    int     `json:"constituency_no"`
	CandidateName     string  `json:"candidate_name"`
	Gender            string  `json:"gender"`
	Age               string  `json:"age"`
	ApplicationStatus string  `json:"application_status"`
	WinningCandidate  string  `json:"winning_candidate"`
	WinningParty      string  `json:"winning_party"`
	MarginVotes       *int64  `json:"margin_votes"`
}
