package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
	"github.com/romeirofernandes/vhack-sub001/pkg/metrics"
)

// MemStore implements Store with in-memory maps. It is the default
// store; all operations are safe for concurrent use.
type MemStore struct {
	mu         sync.RWMutex
	hackathons map[string]model.Hackathon
	projects   map[string]map[string]*model.Project // hackathon id -> project id
	order      map[string][]string                  // project insertion order per hackathon
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(_ context.Context) *MemStore {
	return &MemStore{
		hackathons: make(map[string]model.Hackathon),
		projects:   make(map[string]map[string]*model.Project),
		order:      make(map[string][]string),
	}
}

func (s *MemStore) Hackathon(_ context.Context, id string) (model.Hackathon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hackathons[id]
	if !ok {
		return model.Hackathon{}, fmt.Errorf("hackathon %q: %w", id, ErrNotFound)
	}
	return h, nil
}

func (s *MemStore) Projects(_ context.Context, hackathonID string) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.hackathons[hackathonID]; !ok {
		return nil, fmt.Errorf("hackathon %q: %w", hackathonID, ErrNotFound)
	}
	byID := s.projects[hackathonID]
	out := make([]model.Project, 0, len(byID))
	for _, id := range s.order[hackathonID] {
		if p, ok := byID[id]; ok {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (s *MemStore) PutHackathon(_ context.Context, h model.Hackathon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hackathons[h.ID] = h
	if s.projects[h.ID] == nil {
		s.projects[h.ID] = make(map[string]*model.Project)
	}
	metrics.UpdateHackathonsTracked(len(s.hackathons))
	return nil
}

func (s *MemStore) PutProject(_ context.Context, p model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hackathons[p.HackathonID]; !ok {
		return fmt.Errorf("hackathon %q: %w", p.HackathonID, ErrNotFound)
	}
	if p.DisplayName == "" {
		p.DisplayName = model.ResolveDisplayName(p.TeamName, p.Title)
	}
	byID := s.projects[p.HackathonID]
	if _, exists := byID[p.ID]; !exists {
		s.order[p.HackathonID] = append(s.order[p.HackathonID], p.ID)
	}
	stored := cloneProject(&p)
	byID[p.ID] = &stored
	metrics.UpdateProjectsTracked(s.projectCountLocked())
	return nil
}

func (s *MemStore) AppendScore(_ context.Context, hackathonID, projectID string, score model.JudgeScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[hackathonID][projectID]
	if !ok {
		return fmt.Errorf("project %q: %w", projectID, ErrNotFound)
	}
	p.Scores = append(p.Scores, score)
	return nil
}

func (s *MemStore) Counts(_ context.Context) (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hackathons), s.projectCountLocked()
}

func (s *MemStore) Close() error { return nil }

func (s *MemStore) projectCountLocked() int {
	n := 0
	for _, byID := range s.projects {
		n += len(byID)
	}
	return n
}

// cloneProject deep-copies the slices so callers can never mutate
// stored state through a returned project.
func cloneProject(p *model.Project) model.Project {
	out := *p
	if p.Technologies != nil {
		out.Technologies = append([]string(nil), p.Technologies...)
	}
	if p.Scores != nil {
		out.Scores = make([]model.JudgeScore, len(p.Scores))
		for i, sc := range p.Scores {
			out.Scores[i] = sc
			if sc.Criteria != nil {
				out.Scores[i].Criteria = append([]model.CriterionScore(nil), sc.Criteria...)
			}
			if sc.TotalScore != nil {
				v := *sc.TotalScore
				out.Scores[i].TotalScore = &v
			}
		}
	}
	if p.FinalScore != nil {
		v := *p.FinalScore
		out.FinalScore = &v
	}
	return out
}
