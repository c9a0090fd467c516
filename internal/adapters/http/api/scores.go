// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/romeirofernandes/vhack-sub001/internal/domain/dedupe"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
)

// ScoreDependencies defines the interface for score submission.
type ScoreDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, sub model.Submission) bool
}

// ScoresHandler handles judge score submissions.
type ScoresHandler struct {
	deps ScoreDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoreDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// scoreRequest mirrors the submission schema for POST
// /hackathons/{id}/projects/{projectID}/scores.
type scoreRequest struct {
	SubmissionID string                 `json:"submission_id"`
	JudgeID      string                 `json:"judge_id"`
	Criteria     []model.CriterionScore `json:"criteria"`
	TotalScore   *float64               `json:"total_score"`
	Feedback     string                 `json:"feedback"`
	SubmittedAt  string                 `json:"submitted_at"`
}

func (s scoreRequest) validate() error {
	if strings.TrimSpace(s.JudgeID) == "" {
		return errors.New("missing judge_id")
	}
	if s.SubmittedAt != "" {
		if _, err := time.Parse(time.RFC3339, s.SubmittedAt); err != nil {
			return errors.New("invalid submitted_at; must be RFC3339")
		}
	}
	return nil
}

// HandlePostScore handles POST /hackathons/{id}/projects/{projectID}/scores.
//
// Idempotent on submission_id: a repeated id acknowledges as duplicate
// without re-enqueueing. A missing submission_id gets a generated one.
func (h *ScoresHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	vars := mux.Vars(r)
	hackathonID, projectID := vars["id"], vars["projectID"]

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if req.SubmissionID == "" {
		req.SubmissionID = uuid.NewString()
	}
	submittedAt := time.Now().UTC()
	if req.SubmittedAt != "" {
		submittedAt, _ = time.Parse(time.RFC3339, req.SubmittedAt)
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.SubmissionID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	sub := model.Submission{
		SubmissionID: req.SubmissionID,
		HackathonID:  hackathonID,
		ProjectID:    projectID,
		JudgeID:      req.JudgeID,
		Criteria:     req.Criteria,
		TotalScore:   req.TotalScore,
		Feedback:     req.Feedback,
		SubmittedAt:  submittedAt,
	}
	if ok := h.deps.Enqueue(r.Context(), sub); !ok {
		// Roll back the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.SubmissionID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
