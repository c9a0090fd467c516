// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/romeirofernandes/vhack-sub001/internal/domain/reveal"
)

// RevealDependencies defines the interface for reveal state operations.
type RevealDependencies interface {
	RevealSnapshot(ctx context.Context, hackathonID string) (reveal.Snapshot, error)
	ExpandPodium(ctx context.Context, hackathonID string, animated bool) (reveal.Snapshot, error)
	CollapsePodium(ctx context.Context, hackathonID string) (reveal.Snapshot, error)
	ToggleLeaderboard(ctx context.Context, hackathonID string) (reveal.Snapshot, error)
}

// RevealHandler handles reveal state reads and controls.
type RevealHandler struct {
	deps RevealDependencies
}

// NewRevealHandler creates a new reveal handler.
func NewRevealHandler(deps RevealDependencies) *RevealHandler {
	return &RevealHandler{deps: deps}
}

// revealStateResponse wraps a snapshot with string state names.
type revealStateResponse struct {
	Availability    string `json:"availability"`
	Podium          string `json:"podium"`
	Phase           string `json:"phase"`
	LeaderboardOpen bool   `json:"leaderboard_open"`
}

func toRevealResponse(s reveal.Snapshot) revealStateResponse {
	return revealStateResponse{
		Availability:    s.Availability.String(),
		Podium:          s.Podium.String(),
		Phase:           s.Phase.String(),
		LeaderboardOpen: s.LeaderboardOpen,
	}
}

// HandleGetReveal handles GET /hackathons/{id}/reveal requests.
func (h *RevealHandler) HandleGetReveal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	snapshot, err := h.deps.RevealSnapshot(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRevealResponse(snapshot))
}

// podiumRequest is the body for POST /hackathons/{id}/reveal/podium.
type podiumRequest struct {
	Action   string `json:"action"`
	Animated bool   `json:"animated"`
}

// HandlePodium handles POST /hackathons/{id}/reveal/podium requests.
func (h *RevealHandler) HandlePodium(w http.ResponseWriter, r *http.Request) {
	const op = "api.reveal_podium"
	id := mux.Vars(r)["id"]

	var req podiumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	var (
		snapshot reveal.Snapshot
		err      error
	)
	switch req.Action {
	case "expand":
		snapshot, err = h.deps.ExpandPodium(r.Context(), id, req.Animated)
	case "collapse":
		snapshot, err = h.deps.CollapsePodium(r.Context(), id)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRevealResponse(snapshot))
}

// HandleLeaderboard handles POST /hackathons/{id}/reveal/leaderboard
// requests, toggling leaderboard visibility.
func (h *RevealHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	snapshot, err := h.deps.ToggleLeaderboard(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRevealResponse(snapshot))
}
