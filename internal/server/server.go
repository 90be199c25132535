// Package server exposes the catalog, resolver, and locator over HTTP.
// Handlers validate input at this boundary; the core packages only ever
// see pre-validated values.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/sevadesk/internal/catalog"
	"github.com/jask/sevadesk/internal/places"
	"github.com/jask/sevadesk/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

// TaskResolver is the natural-language search dependency.
type TaskResolver interface {
	Resolve(ctx context.Context, query string) service.MatchResult
}

// Locator is the nearest-facility dependency.
type Locator interface {
	FindNearest(ctx context.Context, keyword string, loc places.Coordinate, radius int) (*places.Facility, error)
}

// Server wires handlers over the core components.
type Server struct {
	mux           *http.ServeMux
	catalog       *catalog.Store
	resolver      TaskResolver
	locator       Locator
	defaultRadius int
	logger        *zap.Logger
	tmpl          *template.Template
}

func New(store *catalog.Store, resolver TaskResolver, locator Locator, defaultRadius int, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultRadius <= 0 {
		defaultRadius = places.DefaultRadius
	}
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s := &Server{
		mux:           http.NewServeMux(),
		catalog:       store,
		resolver:      resolver,
		locator:       locator,
		defaultRadius: defaultRadius,
		logger:        logger,
		tmpl:          tmpl,
	}
	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/task", s.handleTask)
	s.mux.HandleFunc("/find_centers", s.handleFindCenters)
	s.mux.HandleFunc("/nlp_search", s.handleNLPSearch)
	return s, nil
}

// Handler returns the root handler with request-ID logging applied.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.mux)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	data := struct{ Titles []string }{Titles: s.catalog.ListTitles()}
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("render home", zap.Error(err))
	}
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	name := r.FormValue("task_name")
	task := s.catalog.FindByName(name)
	if task == nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	data := struct {
		Task             *catalog.Task
		OnlineAvailable  bool
		OfflineAvailable bool
		OnlineSteps      []string
		OfflineSteps     []string
	}{
		Task:             task,
		OnlineAvailable:  catalog.OnlineAvailable(task),
		OfflineAvailable: catalog.OfflineAvailable(task),
		OnlineSteps:      catalog.Steps(task, "online"),
		OfflineSteps:     catalog.Steps(task, "offline"),
	}
	if err := s.tmpl.ExecuteTemplate(w, "task.html", data); err != nil {
		s.logger.Error("render task", zap.Error(err))
	}
}

type findCentersRequest struct {
	Keyword   string      `json:"keyword"`
	Latitude  json.Number `json:"latitude"`
	Longitude json.Number `json:"longitude"`
	Radius    int         `json:"radius"`
}

type centerResponse struct {
	Success bool      `json:"success"`
	Center  *centerVM `json:"center,omitempty"`
	Message string    `json:"message,omitempty"`
}

type centerVM struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// handleFindCenters validates keyword and coordinates before the
// locator is invoked; out-of-range or malformed input never reaches it.
func (s *Server) handleFindCenters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req findCentersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if req.Keyword == "" || req.Latitude == "" || req.Longitude == "" {
		respondError(w, http.StatusBadRequest, "Missing required parameters: keyword, latitude, longitude")
		return
	}
	lat, latErr := req.Latitude.Float64()
	lng, lngErr := req.Longitude.Float64()
	if latErr != nil || lngErr != nil {
		respondError(w, http.StatusBadRequest, "Invalid coordinate format")
		return
	}
	loc := places.Coordinate{Lat: lat, Lng: lng}
	if !loc.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid coordinates")
		return
	}
	radius := req.Radius
	if radius <= 0 {
		radius = s.defaultRadius
	}

	facility, err := s.locator.FindNearest(r.Context(), req.Keyword, loc, radius)
	if err != nil || facility == nil {
		respondJSON(w, http.StatusOK, centerResponse{
			Success: false,
			Message: "No centers found nearby. Try increasing the search radius or using different keywords.",
		})
		return
	}
	respondJSON(w, http.StatusOK, centerResponse{
		Success: true,
		Center:  &centerVM{Name: facility.Name, Address: facility.Address},
	})
}

type nlpSearchRequest struct {
	Query string `json:"query"`
}

type nlpSearchResponse struct {
	Success bool   `json:"success"`
	Task    string `json:"task,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleNLPSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req nlpSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondError(w, http.StatusBadRequest, "No query provided")
		return
	}
	result := s.resolver.Resolve(r.Context(), req.Query)
	respondJSON(w, http.StatusOK, nlpSearchResponse{
		Success: result.Matched,
		Task:    result.Title,
		Message: result.Message,
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
