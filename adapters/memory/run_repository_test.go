package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/domain/core"
	"statlab/domain/model"
)

func newRun(study core.StudyKey, at time.Time) *model.StudyRun {
	return &model.StudyRun{
		ID:        core.RunID(core.NewID()),
		Study:     study,
		Report:    "# report",
		Summary:   map[string]any{"log_lik": -12.5},
		CreatedAt: core.NewTimestamp(at),
	}
}

func TestSaveAndGetByID(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()

	run := newRun("patents", time.Now())
	require.NoError(t, repo.Save(ctx, run))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Study, got.Study)
	assert.Equal(t, run.Report, got.Report)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewRunRepository()

	_, err := repo.GetByID(context.Background(), core.RunID(core.NewID()))
	assert.ErrorIs(t, err, core.ErrRunNotFound)
}

func TestLatestByStudy(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()
	base := time.Now()

	older := newRun("choice", base.Add(-time.Hour))
	newer := newRun("choice", base)
	other := newRun("patents", base.Add(time.Hour))
	for _, run := range []*model.StudyRun{older, newer, other} {
		require.NoError(t, repo.Save(ctx, run))
	}

	got, err := repo.LatestByStudy(ctx, "choice")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	_, err = repo.LatestByStudy(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrRunNotFound)
}

func TestListRecentOrderAndLimit(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, newRun("charity", base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for i := 1; i < len(runs); i++ {
		assert.True(t, runs[i].CreatedAt.Before(runs[i-1].CreatedAt))
	}
}
