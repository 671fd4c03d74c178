// Package memory provides an in-memory RunRepository for running without a
// database, and for tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"statlab/domain/core"
	"statlab/domain/model"
	"statlab/ports"
)

// runRepository stores runs in memory, guarded by a mutex
type runRepository struct {
	mu   sync.RWMutex
	runs map[core.RunID]*model.StudyRun
}

// NewRunRepository creates an empty in-memory run repository
func NewRunRepository() ports.RunRepository {
	return &runRepository{runs: make(map[core.RunID]*model.StudyRun)}
}

// Save stores a copy of the run
func (r *runRepository) Save(ctx context.Context, run *model.StudyRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *run
	r.runs[run.ID] = &stored
	return nil
}

// GetByID retrieves a run by its ID
func (r *runRepository) GetByID(ctx context.Context, id core.RunID) (*model.StudyRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, core.ErrRunNotFound
	}
	copied := *run
	return &copied, nil
}

// LatestByStudy retrieves the most recent run for a study
func (r *runRepository) LatestByStudy(ctx context.Context, study core.StudyKey) (*model.StudyRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *model.StudyRun
	for _, run := range r.runs {
		if run.Study != study {
			continue
		}
		if latest == nil || latest.CreatedAt.Before(run.CreatedAt) {
			latest = run
		}
	}
	if latest == nil {
		return nil, core.ErrRunNotFound
	}
	copied := *latest
	return &copied, nil
}

// ListRecent retrieves the most recent runs across all studies
func (r *runRepository) ListRecent(ctx context.Context, limit int) ([]*model.StudyRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]*model.StudyRun, 0, len(r.runs))
	for _, run := range r.runs {
		copied := *run
		runs = append(runs, &copied)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[j].CreatedAt.Before(runs[i].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
