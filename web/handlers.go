package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"election-dashboard/models"
	"election-dashboard/services"
)

// ErrorResponse is the JSON body of every non-2xx API reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Query  string                 `json:"query"`
	Count  int                    `json:"count"`
	Rows   []models.UnifiedRecord `json:"rows"`
	Notice string                 `json:"notice,omitempty"`
}

type sectionView struct {
	Section
	ChartURL template.URL
	Notice   string
}

type pageData struct {
	Title        string
	Sidebar      template.HTML
	Options      models.FilterOptions
	Selection    models.Selection
	Report       *models.DashboardReport
	Sections     []sectionView
	Query        string
	SearchRows   []models.UnifiedRecord
	SearchNotice string
	Columns      []string
	ExportCSV    template.URL
	ExportXLSX   template.URL
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sel, rows := s.resolve(r)
	report := s.insights.Generate(sel, rows, s.store.Winners())

	query := r.URL.Query().Get("q")
	found := s.filters.Search(query)
	searchNotice := ""
	if len(found) == 0 {
		searchNotice = services.NoticeNoSearchResults
	}

	qs := selectionQuery(sel).Encode()
	views := make([]sectionView, 0, len(s.sections))
	for _, sec := range s.sections {
		v := sectionView{Section: sec, Notice: report.Notice(sec.Key)}
		if sec.Chart {
			v.ChartURL = template.URL("/charts/" + sec.Key + ".svg?" + qs)
		}
		views = append(views, v)
	}

	data := pageData{
		Title:        pageTitle,
		Sidebar:      s.sidebar,
		Options:      s.filters.Options(sel.State),
		Selection:    sel,
		Report:       report,
		Sections:     views,
		Query:        query,
		SearchRows:   found,
		SearchNotice: searchNotice,
		Columns:      models.UnifiedColumns,
		ExportCSV:    template.URL("/export.csv?" + qs),
		ExportXLSX:   template.URL("/export.xlsx?" + qs),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		s.logger.Error("[web] render dashboard: %v", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "ok",
		"rows":   s.store.Len(),
		"states": len(s.store.States()),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.filters.Options(strings.TrimSpace(r.URL.Query().Get("state"))))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, rows := s.resolve(r)
	s.jsonResponse(w, http.StatusOK, s.insights.Generate(sel, rows, s.store.Winners()))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	rows := s.filters.Search(query)

	resp := SearchResponse{Query: query, Count: len(rows), Rows: rows}
	if len(rows) == 0 {
		resp.Notice = services.NoticeNoSearchResults
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !contains(chartNames, name) {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("unknown chart %q", name))
		return
	}
	_, rows := s.resolve(r)

	var buf bytes.Buffer
	if err := s.renderChart(&buf, name, rows); err != nil {
		s.logger.Error("[web] render chart %s: %v", name, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}

func (s *Server) renderChart(w io.Writer, name string, rows []models.UnifiedRecord) error {
	switch name {
	case ChartConstituency:
		return ConstituencyChart(w, services.ConstituencyResults(rows))
	case ChartParty:
		return PartyChart(w, services.PartyPerformance(rows))
	case ChartMargin:
		bins, _ := s.insights.MarginDistribution(rows)
		return MarginChart(w, bins)
	case ChartTurnout:
		return TurnoutChart(w, services.VotesByConstituency(rows))
	case ChartState:
		return StateChart(w, services.VotesByStateParty(rows))
	}
	return fmt.Errorf("unknown chart %q", name)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ext := chi.URLParam(r, "ext")
	exp, ok := s.exporters[ext]
	if !ok {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("unsupported export format %q", ext))
		return
	}
	sel, rows := s.resolve(r)

	var buf bytes.Buffer
	if err := exp.Export(&buf, rows); err != nil {
		s.logger.Error("[web] export %s: %v", ext, err)
		s.errorResponse(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", exp.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportName(sel.State, ext)))
	buf.WriteTo(w)
}

func exportName(state, ext string) string {
	slug := strings.ToLower(strings.Join(strings.FieldsFunc(state, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}), "-"))
	if slug == "" {
		slug = "all"
	}
	return "election-results-" + slug + "." + ext
}

func (s *Server) jsonResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("[web] encode JSON response: %v", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.jsonResponse(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
