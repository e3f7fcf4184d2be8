package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/TobiSchelling/NewsLens/internal/database"
	"github.com/TobiSchelling/NewsLens/internal/logger"
	"github.com/TobiSchelling/NewsLens/internal/pipeline"
	"github.com/TobiSchelling/NewsLens/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// NoTextMessage is shown when a submission yields no text.
const NoTextMessage = "Asnjë tekst nuk u dha ose nuk u përpunua."

const defaultHistoryLimit = 50

// Server is the HTTP server for submitting and browsing analyses.
type Server struct {
	db       *database.DB
	pipeline *pipeline.Pipeline
	channels []string
	pages    map[string]*template.Template
	router   chi.Router
}

// New creates a new Server.
func New(db *database.DB, p *pipeline.Pipeline, channels []string) (*Server, error) {
	if len(channels) == 0 {
		channels = report.DefaultChannels
	}

	funcMap := template.FuncMap{
		"markdown":    renderMarkdown,
		"formatMonth": database.FormatMonthDisplay,
		"join":        strings.Join,
		"percent":     percent,
		"lower":       strings.ToLower,
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"home.html", "results.html", "history.html", "analysis.html", "statistics.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{db: db, pipeline: p, channels: channels, pages: pages}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(securityHeaders, requestLogger)

	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	r.Get("/", s.handleHome)
	r.Post("/", s.handleAnalyze)
	r.Post("/results", s.handleAnalyze)
	r.Get("/history", s.handleHistory)
	r.Get("/analysis/{id}", s.handleAnalysis)
	r.Get("/statistics", s.handleStatistics)
	r.Get("/api/statistics", s.handleAPIStatistics)

	s.router = r
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "home.html", map[string]any{
		"Channels": s.channels,
		"Category": "",
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// The home form and the results form name their fields differently.
	sub := pipeline.Submission{
		Text:     formValue(r, "text_input", "text"),
		URL:      formValue(r, "url_input", "url"),
		Category: strings.TrimSpace(r.FormValue("category")),
	}

	out, err := s.pipeline.Submit(r.Context(), sub)
	if errors.Is(err, pipeline.ErrNoContent) {
		s.render(w, http.StatusBadRequest, "home.html", map[string]any{
			"Channels": s.channels,
			"Error":    NoTextMessage,
			"Category": sub.Category,
		})
		return
	}

	var storageErr *database.StorageError
	if err != nil && !errors.As(err, &storageErr) {
		logger.Error("analysis failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "results.html", map[string]any{
		"Outcome":  out,
		"Record":   out.Record,
		"NotSaved": storageErr != nil,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	records, err := s.db.GetRecentAnalyses(r.Context(), limit)
	if err != nil {
		logger.Error("loading history", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "history.html", map[string]any{
		"Records": records,
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	rec, err := s.db.GetAnalysis(r.Context(), id)
	if err != nil {
		logger.Error("loading analysis", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.NotFound(w, r)
		return
	}

	s.render(w, http.StatusOK, "analysis.html", map[string]any{
		"Record": rec,
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	rep, err := report.Build(r.Context(), s.db, s.channels)
	if err != nil {
		logger.Error("building statistics", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "statistics.html", map[string]any{
		"Report":   rep,
		"Markdown": report.Markdown(rep),
	})
}

func (s *Server) handleAPIStatistics(w http.ResponseWriter, r *http.Request) {
	rep, err := report.Build(r.Context(), s.db, s.channels)
	if err != nil {
		logger.Error("building statistics", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "statistics unavailable"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		logger.Error("encoding statistics", zap.Error(err))
	}
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		logger.Error("template not found", zap.String("template", name))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		logger.Error("rendering template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func formValue(r *http.Request, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.FormValue(k)); v != "" {
			return v
		}
	}
	return ""
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return n * 100 / total
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, p *pipeline.Pipeline, channels []string, port int) error {
	srv, err := New(db, p, channels)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	logger.Info("server listening", zap.String("addr", "http://"+addr))
	return http.ListenAndServe(addr, srv.Handler())
}
