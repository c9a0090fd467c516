// Package model contains domain entities passed between layers.
package model

import (
	"strings"
	"time"
)

// CriterionScore is one judge's score for a single judging criterion.
// Invariant: 0 <= Score <= MaxScore.
type CriterionScore struct {
	Title    string  `json:"title" validate:"required"`
	Score    float64 `json:"score" validate:"min=0,ltefield=MaxScore"`
	MaxScore float64 `json:"max_score" validate:"min=0"`
}

// JudgeScore is one judge's evaluation of one project.
//
// TotalScore is the total stored at submission time. It is trusted as-is:
// the aggregator never recomputes it from Criteria and never applies
// criterion weights. A nil TotalScore counts as zero when averaging.
type JudgeScore struct {
	JudgeID     string           `json:"judge_id"`
	Criteria    []CriterionScore `json:"criteria,omitempty"`
	TotalScore  *float64         `json:"total_score"`
	SubmittedAt time.Time        `json:"submitted_at"`
	Feedback    string           `json:"feedback,omitempty"`
}

// Total returns the stored total, treating a missing value as zero.
func (s JudgeScore) Total() float64 {
	if s.TotalScore == nil {
		return 0
	}
	return *s.TotalScore
}

// Prizes holds the prize descriptions announced with the results.
type Prizes struct {
	First       string `json:"first_prize,omitempty"`
	Second      string `json:"second_prize,omitempty"`
	Third       string `json:"third_prize,omitempty"`
	Participant string `json:"participant_prize,omitempty"`
}

// Hackathon is the results context for one hackathon: it governs when
// ranked results may be shown.
type Hackathon struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ResultsDate time.Time `json:"results_date"`
	Prizes      *Prizes   `json:"prizes,omitempty"`
}

// Project is an entity under evaluation. Judges append JudgeScore
// records; the aggregator only reads them.
type Project struct {
	ID           string       `json:"id"`
	HackathonID  string       `json:"hackathon_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	TeamName     string       `json:"team_name,omitempty"`
	DisplayName  string       `json:"display_name"`
	Technologies []string     `json:"technologies,omitempty"`
	Scores       []JudgeScore `json:"scores,omitempty"`

	// FinalScore is an externally precomputed final score. When set it
	// takes precedence over aggregation of Scores.
	FinalScore *float64 `json:"final_score,omitempty"`
}

// RankedResult is one row of a hackathon's computed ranking.
// FinalScore is nil for projects that have not been judged yet.
type RankedResult struct {
	Project    Project  `json:"project"`
	FinalScore *float64 `json:"final_score"`
	Rank       int      `json:"rank"`
}

// Scored reports whether the entry carries a final score.
func (r RankedResult) Scored() bool { return r.FinalScore != nil }

// Submission is a judge score submission flowing through the ingest
// queue before it is persisted.
// A nil TotalScore is accepted (it averages as zero downstream); a
// criterion score above its max is not.
type Submission struct {
	SubmissionID string           `validate:"required"`
	HackathonID  string           `validate:"required"`
	ProjectID    string           `validate:"required"`
	JudgeID      string           `validate:"required"`
	Criteria     []CriterionScore `validate:"dive"`
	TotalScore   *float64
	Feedback     string
	SubmittedAt  time.Time
}

// ResolveDisplayName picks the name shown for a project: the team name
// when present, otherwise the project title. Resolved once when a
// project enters the system so render paths never re-derive it.
func ResolveDisplayName(teamName, title string) string {
	if name := strings.TrimSpace(teamName); name != "" {
		return name
	}
	return strings.TrimSpace(title)
}
