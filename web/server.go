package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"election-dashboard/models"
	"election-dashboard/services"
	"election-dashboard/storage"
	"election-dashboard/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server serves the dashboard page, its charts, JSON views and exports.
// All request state lives in the query string; the server itself only holds
// read-only data.
type Server struct {
	router    *chi.Mux
	store     *services.Store
	filters   *services.FilterCascade
	insights  *services.InsightService
	logger    *utils.Logger
	templates *template.Template
	sections  []Section
	sidebar   template.HTML
	exporters map[string]storage.RowExporter
}

// NewServer wires routes over a loaded store.
func NewServer(store *services.Store, insights *services.InsightService, logger *utils.Logger) (*Server, error) {
	funcMap := template.FuncMap{
		"votes": func(v float64) string { return humanize.Commaf(v) },
		"margin": func(m *int64) string {
			if m == nil {
				return ""
			}
			return humanize.Comma(*m)
		},
		"count":    func(n int) string { return humanize.Comma(int64(n)) },
		"selected": contains,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}

	csvExp, xlsxExp := storage.CSVExporter{}, storage.XLSXExporter{}
	s := &Server{
		router:    chi.NewRouter(),
		store:     store,
		filters:   services.NewFilterCascade(store),
		insights:  insights,
		logger:    logger,
		templates: templates,
		sections:  buildSections(),
		sidebar:   renderMarkdown(sidebarMarkdown),
		exporters: map[string]storage.RowExporter{
			csvExp.Extension():  csvExp,
			xlsxExp.Extension(): xlsxExp,
		},
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(s.withRequestLogging)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/options", s.handleOptions)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/search", s.handleSearch)
	})

	s.router.Get("/charts/{name}.svg", s.handleChart)
	s.router.Get("/export.{ext}", s.handleExport)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// withRequestLogging tags each request with an ID and logs its outcome.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("[web] %s %s %s -> %d (%dB) in %v",
			id, r.Method, r.URL.RequestURI(), ww.Status(), ww.BytesWritten(),
			time.Since(start).Round(time.Microsecond))
	})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// resolve fills in the default state and returns the filtered rows.
func (s *Server) resolve(r *http.Request) (models.Selection, []models.UnifiedRecord) {
	sel := selectionFromQuery(r.URL.Query())
	sel.State = s.filters.ResolveState(sel.State)
	return sel, s.filters.Apply(sel)
}
