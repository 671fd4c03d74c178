// Package app wires studies to persistence and exposes the operations the
// HTTP layer and CLI call.
package app

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"statlab/domain/core"
	"statlab/domain/model"
	"statlab/internal"
	"statlab/ports"
)

// StudyService runs registered studies and persists their results
type StudyService struct {
	repo   ports.RunRepository
	logger *internal.Logger

	mu      sync.RWMutex
	studies map[core.StudyKey]ports.Study
	order   []core.StudyKey
}

// NewStudyService creates a new study service
func NewStudyService(repo ports.RunRepository, logger *internal.Logger) *StudyService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &StudyService{
		repo:    repo,
		logger:  logger,
		studies: make(map[core.StudyKey]ports.Study),
	}
}

// Register adds a study; re-registering a key replaces the study
func (s *StudyService) Register(study ports.Study) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.studies[study.Key()]; !exists {
		s.order = append(s.order, study.Key())
	}
	s.studies[study.Key()] = study
}

// List returns the registered studies in registration order
func (s *StudyService) List() []ports.Study {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ports.Study, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.studies[key])
	}
	return out
}

// Get returns a registered study by key
func (s *StudyService) Get(key core.StudyKey) (ports.Study, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	study, ok := s.studies[key]
	if !ok {
		return nil, core.ErrStudyNotFound
	}
	return study, nil
}

// Run executes one study and persists the result
func (s *StudyService) Run(ctx context.Context, key core.StudyKey) (*model.StudyRun, error) {
	study, err := s.Get(key)
	if err != nil {
		return nil, err
	}

	s.logger.Info("running study %s", key)
	report, summary, err := study.Run(ctx)
	if err != nil {
		s.logger.Error("study %s failed: %v", key, err)
		return nil, err
	}

	run := &model.StudyRun{
		ID:        core.RunID(core.NewID()),
		Study:     key,
		Report:    report,
		Summary:   summary,
		CreatedAt: core.Now(),
	}
	if err := s.repo.Save(ctx, run); err != nil {
		return nil, err
	}
	s.logger.Info("study %s completed, run %s", key, run.ID)
	return run, nil
}

// RunAll executes every registered study concurrently. The first failure
// cancels the rest; results come back in registration order.
func (s *StudyService) RunAll(ctx context.Context) ([]*model.StudyRun, error) {
	keys := make([]core.StudyKey, 0)
	s.mu.RLock()
	keys = append(keys, s.order...)
	s.mu.RUnlock()

	runs := make([]*model.StudyRun, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			run, err := s.Run(gctx, key)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

// LatestRun returns the most recent persisted run for a study
func (s *StudyService) LatestRun(ctx context.Context, key core.StudyKey) (*model.StudyRun, error) {
	if _, err := s.Get(key); err != nil {
		return nil, err
	}
	return s.repo.LatestByStudy(ctx, key)
}

// RecentRuns returns the most recent persisted runs across studies
func (s *StudyService) RecentRuns(ctx context.Context, limit int) ([]*model.StudyRun, error) {
	return s.repo.ListRecent(ctx, limit)
}
