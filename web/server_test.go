package web

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"

	"election-dashboard/models"
	"election-dashboard/services"
	"election-dashboard/utils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func margin(v int64) *int64 { return &v }

func testTables() *models.Tables {
	return &models.Tables{
		Candidates: []models.CandidateRecord{
			{State: "Kerala", ConstituencyNo: 1, CandidateName: "Anil", Party: "INC", Gender: "MALE", Age: "45", ApplicationStatus: "Accepted"},
			{State: "Kerala", ConstituencyNo: 1, CandidateName: "Beena", Party: "CPI(M)", Gender: "FEMALE", Age: "51", ApplicationStatus: "Accepted"},
			{State: "Kerala", ConstituencyNo: 2, CandidateName: "Chacko", Party: "INC", Gender: "MALE", Age: "60", ApplicationStatus: "Accepted"},
			{State: "Goa", ConstituencyNo: 1, CandidateName: "Edwin", Party: "BJP", Gender: "MALE", Age: "55", ApplicationStatus: "Accepted"},
		},
		Results: []models.ResultRecord{
			{State: "Kerala", PCNo: 1, PCName: "Kasaragod", Candidate: "Anil", Party: "INC", TotalVotes: "1,234"},
			{State: "Kerala", PCNo: 1, PCName: "Kasaragod", Candidate: "Beena", Party: "CPI(M)", TotalVotes: "900"},
			{State: "Kerala", PCNo: 2, PCName: "Kannur", Candidate: "Chacko", Party: "INC", TotalVotes: "5000"},
			{State: "Goa", PCNo: 1, PCName: "North Goa", Candidate: "Edwin", Party: "BJP", TotalVotes: "7000"},
		},
		Winners: []models.WinnerRecord{
			{State: "Kerala", PCNo: 1, WinningCandidate: "Anil", WinningParty: "INC", MarginVotes: margin(334)},
			{State: "Kerala", PCNo: 2, WinningCandidate: "Chacko", WinningParty: "INC", MarginVotes: margin(2000)},
			{State: "Goa", PCNo: 1, WinningCandidate: "Edwin", WinningParty: "BJP"},
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := utils.NewNopLogger()
	store := services.NewStore(testTables(), services.NewJoiner(logger))
	srv, err := NewServer(store, services.NewInsightService(logger, 20), logger)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 4, body["rows"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestOptionsDefaultState(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/options")

	require.Equal(t, http.StatusOK, rec.Code)
	var opts models.FilterOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, "Kerala", opts.State)
	assert.Equal(t, []string{"Kerala", "Goa"}, opts.States)
	assert.Equal(t, []string{models.SelectAll, "INC", "CPI(M)"}, opts.Parties)
	assert.Equal(t, []string{models.SelectAll, "Anil", "Beena", "Chacko"}, opts.Candidates)
}

func TestDashboardDefaultsToSelectAll(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/dashboard")

	require.Equal(t, http.StatusOK, rec.Code)
	var report models.DashboardReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 3, report.RowCount)
	assert.Equal(t, []models.PartyTotal{
		{Party: "CPI(M)", TotalVotes: 900},
		{Party: "INC", TotalVotes: 6234},
	}, report.PartyPerformance)
	assert.Len(t, report.Winners, 3)
	assert.Empty(t, report.Notices)
}

func TestDashboardEmptySelection(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/dashboard?state=Kerala&party=&candidate=")

	require.Equal(t, http.StatusOK, rec.Code)
	var report models.DashboardReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 0, report.RowCount)
	assert.Equal(t, services.NoticeNoData, report.Notice(models.SectionConstituency))
	assert.Empty(t, report.Winners)
}

func TestDashboardPartyFilter(t *testing.T) {
	q := url.Values{"state": {"Kerala"}, "party": {"", "CPI(M)"}}
	rec := get(t, newTestServer(t), "/api/dashboard?"+q.Encode())

	var report models.DashboardReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, 1, report.RowCount)
	assert.Equal(t, "Beena", report.Rows[0].CandidateName)
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/search?q=north+goa")
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Empty(t, resp.Notice)

	rec = get(t, srv, "/api/search")
	resp = SearchResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, services.NoticeNoSearchResults, resp.Notice)
}

func TestIndexPage(t *testing.T) {
	rec := get(t, newTestServer(t), "/?q=chacko")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="dashboard"`)
	assert.Contains(t, body, "2024 Election Results Dashboard")
	assert.Contains(t, body, "<h4>Visualize the election results for each constituency within the selected state.</h4>")
	assert.Contains(t, body, "/charts/party.svg?")
	assert.Contains(t, body, "<td>Kannur</td>")
	assert.Contains(t, body, "2,000")
}

func TestIndexPageEmptySelection(t *testing.T) {
	rec := get(t, newTestServer(t), "/?state=Kerala&party=")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, services.NoticeNoData)
	assert.Contains(t, body, services.NoticeNoSearchResults)
	assert.NotContains(t, body, "/charts/party.svg?")
}

func TestCharts(t *testing.T) {
	srv := newTestServer(t)

	for _, name := range chartNames {
		rec := get(t, srv, "/charts/"+name+".svg?state=Kerala")
		require.Equal(t, http.StatusOK, rec.Code, name)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"), name)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "<svg"), name)
	}
}

func TestChartPlaceholder(t *testing.T) {
	rec := get(t, newTestServer(t), "/charts/margin.svg?state=Goa")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), services.NoticeNoMargins)
}

func TestUnknownChart(t *testing.T) {
	rec := get(t, newTestServer(t), "/charts/pie.svg")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportCSV(t *testing.T) {
	rec := get(t, newTestServer(t), "/export.csv?state=Kerala")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "election-results-kerala.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, models.UnifiedColumns, records[0])
	assert.Equal(t, "1234", records[1][5])
}

func TestExportXLSX(t *testing.T) {
	rec := get(t, newTestServer(t), "/export.xlsx?state=Goa")

	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Edwin", rows[1][7])
}

func TestExportUnknownFormat(t *testing.T) {
	rec := get(t, newTestServer(t), "/export.pdf")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectionFromQuery(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		parties    []string
		candidates []string
	}{
		{"absent keys", "state=Goa", []string{models.SelectAll}, []string{models.SelectAll}},
		{"empty values", "party=&candidate=", []string{}, []string{}},
		{"hidden plus values", "party=&party=INC&candidate=&candidate=Anil", []string{"INC"}, []string{"Anil"}},
	}

	for _, tt := range tests {
		q, err := url.ParseQuery(tt.query)
		require.NoError(t, err)
		sel := selectionFromQuery(q)
		assert.Equal(t, tt.parties, sel.Parties, tt.name)
		assert.Equal(t, tt.candidates, sel.Candidates, tt.name)
	}
}

func TestSelectionQueryRoundTrip(t *testing.T) {
	sel := models.Selection{State: "Kerala", Parties: []string{}, Candidates: []string{"Anil"}}
	assert.Equal(t, sel, selectionFromQuery(selectionQuery(sel)))
}
