package services

import (
	"election-dashboard/models"
	"election-dashboard/utils"
)

type candidateKey struct {
	state string
	no    int
	name  string
	party string
}

type constituencyKey struct {
	state string
	no    int
}

// Joiner builds the unified table with two inner equi-joins. Rows without a
// match on either side are dropped. Each output row comes from exactly one
// results row, so the output never has more rows than the results table.
type Joiner struct {
	logger *utils.Logger
}

func NewJoiner(logger *utils.Logger) *Joiner {
	return &Joiner{logger: logger}
}

// Join runs both joins over typed tables.
func (j *Joiner) Join(t *models.Tables) []models.UnifiedRecord {
	return j.JoinWithWinners(j.JoinCandidatesResults(t.Results, t.Candidates), t.Winners)
}

// JoinCandidatesResults matches results to the roster on
// (State, PC No = Constituency_No, Candidate = Candidate Name, Party) and
// coerces Total Votes to a number. When the roster repeats a key, the first
// entry wins.
func (j *Joiner) JoinCandidatesResults(results []models.ResultRecord, candidates []models.CandidateRecord) []models.UnifiedRecord {
	roster := make(map[candidateKey]models.CandidateRecord, len(candidates))
	for _, c := range candidates {
		k := candidateKey{c.State, c.ConstituencyNo, c.CandidateName, c.Party}
		if _, dup := roster[k]; !dup {
			roster[k] = c
		}
	}

	out := make([]models.UnifiedRecord, 0, len(results))
	for _, r := range results {
		c, ok := roster[candidateKey{r.State, r.PCNo, r.Candidate, r.Party}]
		if !ok {
			continue
		}
		out = append(out, models.UnifiedRecord{
			State:             r.State,
			PCNo:              r.PCNo,
			PCName:            r.PCName,
			Candidate:         r.Candidate,
			Party:             r.Party,
			TotalVotes:        CoerceVotes(r.TotalVotes),
			ConstituencyNo:    c.ConstituencyNo,
			CandidateName:     c.CandidateName,
			Gender:            c.Gender,
			Age:               c.Age,
			ApplicationStatus: c.ApplicationStatus,
		})
	}

	j.logger.Debug("[joiner] results x candidates: %d -> %d rows", len(results), len(out))
	return out
}

// JoinWithWinners attaches each constituency's winner on (State, PC No).
// When the winners table repeats a constituency, the first entry wins.
func (j *Joiner) JoinWithWinners(unified []models.UnifiedRecord, winners []models.WinnerRecord) []models.UnifiedRecord {
	byPC := make(map[constituencyKey]models.WinnerRecord, len(winners))
	for _, w := range winners {
		k := constituencyKey{w.State, w.PCNo}
		if _, dup := byPC[k]; !dup {
			byPC[k] = w
		}
	}

	out := make([]models.UnifiedRecord, 0, len(unified))
	for _, u := range unified {
		w, ok := byPC[constituencyKey{u.State, u.PCNo}]
		if !ok {
			continue
		}
		u.WinningCandidate = w.WinningCandidate
		u.WinningParty = w.WinningParty
		u.MarginVotes = w.MarginVotes
		out = append(out, u)
	}

	j.logger.Debug("[joiner] unified x winners: %d -> %d rows", len(unified), len(out))
	return out
}
