// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/romeirofernandes/vhack-sub001/internal/adapters/repository"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/dedupe"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/reveal"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to implementations in other
// packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a submission for async processing. Returns false
	// on backpressure.
	Enqueue(ctx context.Context, sub model.Submission) bool

	// Read operations expose the results and reveal state.
	Results(ctx context.Context, hackathonID string) (types.ResultsView, error)
	RevealSnapshot(ctx context.Context, hackathonID string) (reveal.Snapshot, error)

	// Reveal controls.
	ExpandPodium(ctx context.Context, hackathonID string, animated bool) (reveal.Snapshot, error)
	CollapsePodium(ctx context.Context, hackathonID string) (reveal.Snapshot, error)
	ToggleLeaderboard(ctx context.Context, hackathonID string) (reveal.Snapshot, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	resultsHandler *ResultsHandler
	revealHandler  *RevealHandler
	scoresHandler  *ScoresHandler

	authToken string
}

// NewServer creates a new API server with all handlers. An empty
// authToken disables bearer auth on the results routes.
func NewServer(deps Dependencies, statsProvider StatsProvider, authToken string) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		resultsHandler: NewResultsHandler(deps),
		revealHandler:  NewRevealHandler(deps),
		scoresHandler:  NewScoresHandler(deps),
		authToken:      authToken,
	}
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	auth := BearerAuth(s.authToken)

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	r.HandleFunc("/hackathons/{id}/results",
		auth(MetricsMiddleware(s.resultsHandler.HandleGetResults, "results"))).Methods(http.MethodGet)
	r.HandleFunc("/hackathons/{id}/reveal",
		auth(MetricsMiddleware(s.revealHandler.HandleGetReveal, "reveal"))).Methods(http.MethodGet)
	r.HandleFunc("/hackathons/{id}/reveal/podium",
		auth(MetricsMiddleware(s.revealHandler.HandlePodium, "reveal_podium"))).Methods(http.MethodPost)
	r.HandleFunc("/hackathons/{id}/reveal/leaderboard",
		auth(MetricsMiddleware(s.revealHandler.HandleLeaderboard, "reveal_leaderboard"))).Methods(http.MethodPost)
	r.HandleFunc("/hackathons/{id}/projects/{projectID}/scores",
		auth(MetricsMiddleware(s.scoresHandler.HandlePostScore, "scores"))).Methods(http.MethodPost)
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates upstream sentinels to status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, reveal.ErrNotAvailable):
		writeError(w, http.StatusConflict, "not_available", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
