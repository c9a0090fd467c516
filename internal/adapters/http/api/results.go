// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/romeirofernandes/vhack-sub001/internal/domain/types"
)

// ResultsDependencies defines the interface for results reads.
type ResultsDependencies interface {
	Results(ctx context.Context, hackathonID string) (types.ResultsView, error)
}

// ResultsHandler handles results fetches.
type ResultsHandler struct {
	deps ResultsDependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultsDependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleGetResults handles GET /hackathons/{id}/results requests.
//
// The response is always status-tagged: "locked" carries only the
// scheduled date, "empty" means the guard passed with nothing scored,
// and "available" carries the ranked entries. Clients render each as
// a dedicated state.
func (h *ResultsHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	view, err := h.deps.Results(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
