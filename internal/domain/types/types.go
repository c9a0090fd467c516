// Package types contains common read shapes shared across the application.
package types

import (
	"time"

	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
)

// Entry represents one row of a hackathon's ranked results as served
// to clients. FinalScore is null for projects not yet judged.
type Entry struct {
	Rank        int      `json:"rank"`
	ProjectID   string   `json:"project_id"`
	DisplayName string   `json:"display_name"`
	Title       string   `json:"title"`
	FinalScore  *float64 `json:"final_score"`
	JudgeCount  int      `json:"judge_count"`
}

// HackathonMeta is the results context echoed with every results view.
type HackathonMeta struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	ResultsDate time.Time     `json:"results_date"`
	Prizes      *model.Prizes `json:"prizes,omitempty"`
}

// ResultsView is the full response of a results fetch. Status is the
// reveal guard outcome; Results is populated only when status is
// "available" so no ranking data leaks while locked.
type ResultsView struct {
	Status    string        `json:"status"`
	Hackathon HackathonMeta `json:"hackathon"`
	Results   []Entry       `json:"results,omitempty"`
}
