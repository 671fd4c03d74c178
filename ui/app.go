// Package ui exposes the studies over HTTP: JSON endpoints for listing and
// running studies, and rendered HTML reports.
package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"statlab/app"
	"statlab/domain/core"
	"statlab/internal"
	apperrors "statlab/internal/errors"
)

// App is the HTTP application
type App struct {
	router  *chi.Mux
	service *app.StudyService
}

// NewApp creates the HTTP application around a study service
func NewApp(service *app.StudyService) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// Router returns the configured router
func (a *App) Router() http.Handler { return a.router }

// Start runs the HTTP server on the given port
func (a *App) Start(port string) error {
	return http.ListenAndServe(":"+port, a.router)
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)
	a.router.Get("/studies", a.handleListStudies)
	a.router.Get("/studies/{key}", a.handleLatestRun)
	a.router.Get("/reports/{key}", a.handleReport)
	a.router.Get("/api/runs", a.handleRecentRuns)
	a.router.Post("/api/studies/{key}/run", a.handleRunStudy)
	a.router.Post("/api/studies/run-all", a.handleRunAll)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListStudies returns the registered studies
func (a *App) handleListStudies(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Key   core.StudyKey `json:"key"`
		Title string        `json:"title"`
	}
	studies := a.service.List()
	out := make([]entry, 0, len(studies))
	for _, s := range studies {
		out = append(out, entry{Key: s.Key(), Title: s.Title()})
	}
	respondJSON(w, http.StatusOK, out)
}

// handleLatestRun returns the most recent persisted run for a study
func (a *App) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	key := core.StudyKey(chi.URLParam(r, "key"))
	run, err := a.service.LatestRun(r.Context(), key)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// handleRunStudy executes a study and returns the persisted run
func (a *App) handleRunStudy(w http.ResponseWriter, r *http.Request) {
	key := core.StudyKey(chi.URLParam(r, "key"))
	run, err := a.service.Run(r.Context(), key)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// handleRunAll executes every registered study
func (a *App) handleRunAll(w http.ResponseWriter, r *http.Request) {
	runs, err := a.service.RunAll(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, runs)
}

// handleRecentRuns returns recent runs across all studies
func (a *App) handleRecentRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, apperrors.ConfigInvalid("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	runs, err := a.service.RecentRuns(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, runs)
}

// handleReport renders the latest report for a study as HTML
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	key := core.StudyKey(chi.URLParam(r, "key"))
	run, err := a.service.LatestRun(r.Context(), key)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>%s</title></head><body>\n", key)
	w.Write(renderMarkdown(run.Report))
	fmt.Fprintf(w, "<hr><p>run %s at %s</p></body></html>\n", run.ID, run.CreatedAt)
}

// renderMarkdown converts a markdown report to HTML
func renderMarkdown(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already out; nothing left to do but log.
		internal.DefaultLogger.Error("failed to encode response: %v", err)
	}
}

// respondError maps domain errors to HTTP status codes
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
	case core.IsConfigurationError(err):
		status = http.StatusBadRequest
	case apperrors.GetCode(err) == apperrors.CodeConfigInvalid:
		status = http.StatusBadRequest
	case apperrors.GetCode(err) == apperrors.CodeNotFound:
		status = http.StatusNotFound
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
