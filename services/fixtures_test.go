package services

import (
	"election-dashboard/models"
	"election-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func margin(v int64) *int64 { return &v }

// sampleTables has two states. Ghost has no results row and the AAP result
// has no roster entry, so both drop out of the join.
func sampleTables() *models.Tables {
	return &models.Tables{
		Candidates: []models.CandidateRecord{
			{State: "Kerala", ConstituencyNo: 1, CandidateName: "Anil", Party: "INC", Gender: "MALE", Age: "45", ApplicationStatus: "Accepted"},
			{State: "Kerala", ConstituencyNo: 1, CandidateName: "Beena", Party: "CPI(M)", Gender: "FEMALE", Age: "51", ApplicationStatus: "Accepted"},
			{State: "Kerala", ConstituencyNo: 2, CandidateName: "Chacko", Party: "INC", Gender: "MALE", Age: "60", ApplicationStatus: "Accepted"},
			{State: "Kerala", ConstituencyNo: 2, CandidateName: "Devi", Party: "BJP", Gender: "FEMALE", Age: "39", ApplicationStatus: "Accepted"},
			{State: "Goa", ConstituencyNo: 1, CandidateName: "Edwin", Party: "BJP", Gender: "MALE", Age: "55", ApplicationStatus: "Accepted"},
			{State: "Goa", ConstituencyNo: 1, CandidateName: "Fatima", Party: "INC", Gender: "FEMALE", Age: "48", ApplicationStatus: "Accepted"},
			{State: "Goa", ConstituencyNo: 1, CandidateName: "Ghost", Party: "IND", Gender: "MALE", Age: "30", ApplicationStatus: "Rejected"},
		},
		Results: []models.ResultRecord{
			{State: "Kerala", PCNo: 1, PCName: "Kasaragod", Candidate: "Anil", Party: "INC", TotalVotes: "1,234"},
			{State: "Kerala", PCNo: 1, PCName: "Kasaragod", Candidate: "Beena", Party: "CPI(M)", TotalVotes: "N/A"},
			{State: "Kerala", PCNo: 2, PCName: "Kannur", Candidate: "Chacko", Party: "INC", TotalVotes: "5000"},
			{State: "Kerala", PCNo: 2, PCName: "Kannur", Candidate: "Devi", Party: "BJP", TotalVotes: "3000"},
			{State: "Goa", PCNo: 1, PCName: "North Goa", Candidate: "Edwin", Party: "BJP", TotalVotes: "7000"},
			{State: "Goa", PCNo: 1, PCName: "North Goa", Candidate: "Fatima", Party: "INC", TotalVotes: "6500"},
			{State: "Goa", PCNo: 1, PCName: "North Goa", Candidate: "Unknown", Party: "AAP", TotalVotes: "100"},
		},
		Winners: []models.WinnerRecord{
			{State: "Kerala", PCNo: 1, WinningCandidate: "Anil", WinningParty: "INC", MarginVotes: margin(1234)},
			{State: "Kerala", PCNo: 2, WinningCandidate: "Chacko", WinningParty: "INC", MarginVotes: margin(2000)},
			{State: "Goa", PCNo: 1, WinningCandidate: "Edwin", WinningParty: "BJP"},
		},
	}
}

func sampleStore() *Store {
	return NewStore(sampleTables(), NewJoiner(newTestLogger()))
}

func candidateNames(rows []models.UnifiedRecord) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.CandidateName)
	}
	return out
}
