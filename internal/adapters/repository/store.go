// Package repository defines the results store interface and errors.
package repository

import (
	"context"

	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
)

// Store provides read/write access to hackathons, projects and judge
// scores. Projects must be returned in a stable order (insertion
// order) because the ranking breaks ties by input order.
type Store interface {
	// Hackathon returns the results context for a hackathon.
	// Returns ErrNotFound if the hackathon is unknown.
	Hackathon(ctx context.Context, id string) (model.Hackathon, error)

	// Projects returns all projects of a hackathon with their judge
	// scores attached, in insertion order.
	Projects(ctx context.Context, hackathonID string) ([]model.Project, error)

	// PutHackathon creates or replaces a hackathon.
	PutHackathon(ctx context.Context, h model.Hackathon) error

	// PutProject creates or replaces a project. The project's display
	// name is resolved here if it is empty.
	PutProject(ctx context.Context, p model.Project) error

	// AppendScore appends one judge's score to a project.
	// Returns ErrNotFound if the project is unknown.
	AppendScore(ctx context.Context, hackathonID, projectID string, score model.JudgeScore) error

	// Counts returns the number of hackathons and projects tracked.
	Counts(ctx context.Context) (hackathons, projects int)

	// Close releases any resources held by the store.
	Close() error
}
