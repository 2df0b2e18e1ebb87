package services

import (
	"testing"

	"election-dashboard/models"
)

func TestCoerceVotes(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1234", 1234},
		{"1,234", 1234},
		{"12,345,678", 12345678},
		{" 987 ", 987},
		{"1.5", 1.5},
		{"-3", 0},
		{"-1,200", 0},
		{"-0", 0},
		{"", 0},
		{"N/A", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1,23", 0},
		{"12 votes", 0},
	}

	for _, tt := range tests {
		got := CoerceVotes(tt.raw)
		if got != tt.want {
			t.Errorf("CoerceVotes(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"7", 7, false},
		{" 12 ", 12, false},
		{"7.0", 7, false},
		{"7.5", 0, true},
		{"", 0, true},
		{"seven", 0, true},
	}

	for _, tt := range tests {
		got, err := parseKey(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseKey(%q) error = %v; wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseKey(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestCleanWinnersMissingMargin(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []models.RawWinner{
		{State: "Goa", PCNo: "1", WinningCandidate: "Edwin", WinningParty: "BJP", MarginVotes: "1,500"},
		{State: "Goa", PCNo: "2", WinningCandidate: "Fatima", WinningParty: "INC", MarginVotes: ""},
		{State: "Goa", PCNo: "3", WinningCandidate: "Gita", WinningParty: "AAP", MarginVotes: "uncontested"},
	}

	winners, err := c.CleanWinners(raw)
	if err != nil {
		t.Fatalf("CleanWinners: %v", err)
	}
	if len(winners) != 3 {
		t.Fatalf("winners: got %d, want 3", len(winners))
	}
	if winners[0].MarginVotes == nil || *winners[0].MarginVotes != 1500 {
		t.Errorf("margin[0]: got %v, want 1500", winners[0].MarginVotes)
	}
	for i := 1; i < 3; i++ {
		if winners[i].MarginVotes != nil {
			t.Errorf("margin[%d]: got %d, want missing", i, *winners[i].MarginVotes)
		}
	}
}

func TestCleanResultsBadKey(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []models.RawResult{
		{State: "Goa", PCNo: "1", PCName: "North Goa", Candidate: "Edwin", Party: "BJP", TotalVotes: "10"},
		{State: "Goa", PCNo: "two", PCName: "South Goa", Candidate: "Fatima", Party: "INC", TotalVotes: "20"},
	}

	if _, err := c.CleanResults(raw); err == nil {
		t.Error("expected an error for a non-numeric PC No")
	}
}

func TestCleanCandidatesKeepsAgeText(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []models.RawCandidate{
		{State: "Goa", ConstituencyNo: "1", CandidateName: "Edwin", Party: "BJP", Age: "55"},
		{State: "Goa", ConstituencyNo: "1", CandidateName: "Fatima", Party: "INC", Age: ""},
	}

	got, err := c.CleanCandidates(raw)
	if err != nil {
		t.Fatalf("CleanCandidates: %v", err)
	}
	if got[0].Age != "55" || got[1].Age != "" {
		t.Errorf("ages: got %q, %q", got[0].Age, got[1].Age)
	}
}
