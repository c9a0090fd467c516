package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repository "github.com/romeirofernandes/vhack-sub001/internal/adapters/repository"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
)

func openSQLStore(t *testing.T) *repository.SQLStore {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "results.db")
	store, err := repository.NewSQLStore(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openSQLStore(t)

	hack := model.Hackathon{
		ID:          "hack-1",
		Title:       "vHack 2026",
		ResultsDate: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC),
		Prizes:      &model.Prizes{First: "MacBook", Third: "AirPods"},
	}
	require.NoError(t, store.PutHackathon(ctx, hack))

	got, err := store.Hackathon(ctx, "hack-1")
	require.NoError(t, err)
	assert.Equal(t, "vHack 2026", got.Title)
	assert.True(t, got.ResultsDate.Equal(hack.ResultsDate))
	require.NotNil(t, got.Prizes)
	assert.Equal(t, "MacBook", got.Prizes.First)
	assert.Equal(t, "AirPods", got.Prizes.Third)
	assert.Empty(t, got.Prizes.Second)

	_, err = store.Hackathon(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSQLStoreProjectsOrderAndScores(t *testing.T) {
	ctx := context.Background()
	store := openSQLStore(t)

	require.NoError(t, store.PutHackathon(ctx, model.Hackathon{ID: "hack-1", Title: "vHack"}))
	require.NoError(t, store.PutProject(ctx, model.Project{
		ID: "p1", HackathonID: "hack-1", Title: "Pokedex",
		TeamName:     "Team Rocket",
		Technologies: []string{"go", "sqlite"},
	}))
	require.NoError(t, store.PutProject(ctx, model.Project{
		ID: "p2", HackathonID: "hack-1", Title: "Weather App",
	}))

	total := 8.5
	score := model.JudgeScore{
		JudgeID:     "judge-1",
		TotalScore:  &total,
		SubmittedAt: time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC),
		Feedback:    "solid work",
		Criteria: []model.CriterionScore{
			{Title: "Innovation", Score: 9, MaxScore: 10},
			{Title: "Execution", Score: 8, MaxScore: 10},
		},
	}
	require.NoError(t, store.AppendScore(ctx, "hack-1", "p1", score))
	require.NoError(t, store.AppendScore(ctx, "hack-1", "p1", model.JudgeScore{JudgeID: "judge-2"}))

	projects, err := store.Projects(ctx, "hack-1")
	require.NoError(t, err)
	require.Len(t, projects, 2)

	// Insertion order survives the round trip.
	assert.Equal(t, "p1", projects[0].ID)
	assert.Equal(t, "p2", projects[1].ID)
	assert.Equal(t, "Team Rocket", projects[0].DisplayName)
	assert.Equal(t, "Weather App", projects[1].DisplayName)
	assert.Equal(t, []string{"go", "sqlite"}, projects[0].Technologies)

	require.Len(t, projects[0].Scores, 2)
	first := projects[0].Scores[0]
	assert.Equal(t, "judge-1", first.JudgeID)
	require.NotNil(t, first.TotalScore)
	assert.Equal(t, 8.5, *first.TotalScore)
	assert.Equal(t, "solid work", first.Feedback)
	require.Len(t, first.Criteria, 2)
	assert.Equal(t, "Innovation", first.Criteria[0].Title)
	assert.Equal(t, "Execution", first.Criteria[1].Title)

	// A score stored without a total reads back as nil, not zero.
	assert.Nil(t, projects[0].Scores[1].TotalScore)
}

func TestSQLStoreUpsertKeepsSeq(t *testing.T) {
	ctx := context.Background()
	store := openSQLStore(t)

	require.NoError(t, store.PutHackathon(ctx, model.Hackathon{ID: "hack-1", Title: "vHack"}))
	require.NoError(t, store.PutProject(ctx, model.Project{ID: "p1", HackathonID: "hack-1", Title: "First"}))
	require.NoError(t, store.PutProject(ctx, model.Project{ID: "p2", HackathonID: "hack-1", Title: "Second"}))
	require.NoError(t, store.PutProject(ctx, model.Project{ID: "p1", HackathonID: "hack-1", Title: "First v2"}))

	projects, err := store.Projects(ctx, "hack-1")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "p1", projects[0].ID)
	assert.Equal(t, "First v2", projects[0].Title)
	assert.Equal(t, "p2", projects[1].ID)
}

func TestSQLStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := openSQLStore(t)

	require.NoError(t, store.PutHackathon(ctx, model.Hackathon{ID: "hack-1", Title: "vHack"}))

	_, err := store.Projects(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = store.PutProject(ctx, model.Project{ID: "p1", HackathonID: "missing", Title: "Orphan"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = store.AppendScore(ctx, "hack-1", "missing", model.JudgeScore{JudgeID: "j1"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSQLStoreCounts(t *testing.T) {
	ctx := context.Background()
	store := openSQLStore(t)

	require.NoError(t, store.PutHackathon(ctx, model.Hackathon{ID: "h1", Title: "One"}))
	require.NoError(t, store.PutHackathon(ctx, model.Hackathon{ID: "h2", Title: "Two"}))
	require.NoError(t, store.PutProject(ctx, model.Project{ID: "p1", HackathonID: "h1", Title: "A"}))

	hackathons, projects := store.Counts(ctx)
	assert.Equal(t, 2, hackathons)
	assert.Equal(t, 1, projects)
}
