// Package scoring aggregates per-judge scores into final scores and
// ranks projects within a hackathon.
//
// All functions are pure: they never mutate their input and produce
// the same output for the same input ordering and score set.
package scoring

import (
	"sort"

	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
)

// FinalScore computes the single comparable score for a project.
//
// Precedence:
//  1. an externally precomputed Project.FinalScore is returned unchanged;
//  2. with no judge scores the project is unscored (ok = false), which
//     is distinct from a score of zero;
//  3. otherwise the arithmetic mean of the stored per-judge totals,
//     substituting zero for a record missing its total.
//
// Criterion weights are intentionally not applied here: the aggregator
// trusts the totals stored with each judge score.
func FinalScore(p model.Project) (score float64, ok bool) {
	if p.FinalScore != nil {
		return *p.FinalScore, true
	}
	if len(p.Scores) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range p.Scores {
		sum += s.Total()
	}
	return sum / float64(len(p.Scores)), true
}

// Rank orders projects by final score, highest first, and assigns
// 1-based positional ranks.
//
// The sort is stable: projects with equal scores keep their relative
// input order, so ties resolve to consecutive distinct ranks with the
// first-listed project winning. Unscored projects sort after all
// scored ones, also preserving input order among themselves.
func Rank(projects []model.Project) []model.RankedResult {
	results := make([]model.RankedResult, 0, len(projects))
	for _, p := range projects {
		entry := model.RankedResult{Project: p}
		if score, ok := FinalScore(p); ok {
			v := score
			entry.FinalScore = &v
		}
		results = append(results, entry)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].FinalScore, results[j].FinalScore
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})

	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// ScoredCount returns how many of the ranked entries carry a score.
// The reveal guard uses this to distinguish "no results yet" from a
// populated leaderboard.
func ScoredCount(results []model.RankedResult) int {
	n := 0
	for _, r := range results {
		if r.Scored() {
			n++
		}
	}
	return n
}
