// Package ports defines the interfaces between the application services and
// their adapters.
package ports

import (
	"context"

	"statlab/domain/core"
	"statlab/domain/model"
)

// RunRepository persists study runs
type RunRepository interface {
	Save(ctx context.Context, run *model.StudyRun) error
	GetByID(ctx context.Context, id core.RunID) (*model.StudyRun, error)
	LatestByStudy(ctx context.Context, study core.StudyKey) (*model.StudyRun, error)
	ListRecent(ctx context.Context, limit int) ([]*model.StudyRun, error)
}

// Exporter writes estimation output for external consumption
type Exporter interface {
	ExportFit(study core.StudyKey, fit *model.Fit) error
	ExportSummaries(study core.StudyKey, summaries []model.ParamSummary) error
}

// Study is one self-contained analysis: it runs its estimation and returns a
// markdown report plus a machine-readable summary.
type Study interface {
	Key() core.StudyKey
	Title() string
	Run(ctx context.Context) (report string, summary map[string]any, err error)
}
