// Command studies runs the built-in analyses from the command line, writing
// markdown reports and an xlsx coefficient workbook to the export directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"statlab/adapters/excel"
	"statlab/adapters/memory"
	"statlab/app"
	"statlab/app/studies"
	"statlab/domain/core"
	"statlab/domain/model"
	"statlab/internal"
	"statlab/internal/config"
	"statlab/internal/sampler"
)

func main() {
	only := flag.String("study", "", "run a single study by key instead of all")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()

	if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create export directory: %v", err)
	}
	writer := excel.NewWriter(filepath.Join(cfg.Export.Dir, cfg.Export.ExcelFile))

	samplerCfg := sampler.Config{
		Iterations: cfg.Sampler.Iterations,
		BurnIn:     cfg.Sampler.BurnIn,
		Seed:       cfg.Sampler.Seed,
	}

	service := app.NewStudyService(memory.NewRunRepository(), logger)
	service.Register(studies.NewPatentStudy(writer))
	service.Register(studies.NewChoiceStudy(writer, samplerCfg))
	service.Register(studies.NewCharityStudy(cfg.Sampler.Seed))
	service.Register(studies.NewSegmentStudy(cfg.Sampler.Seed))

	ctx := context.Background()
	runs, err := runSelected(ctx, service, *only)
	if err != nil {
		log.Fatalf("Study run failed: %v", err)
	}

	for _, run := range runs {
		path := filepath.Join(cfg.Export.Dir, fmt.Sprintf("%s.md", run.Study))
		if err := os.WriteFile(path, []byte(run.Report), 0o644); err != nil {
			log.Fatalf("Failed to write report %s: %v", path, err)
		}
		logger.Info("wrote %s", path)
	}

	if err := writer.Flush(); err != nil {
		log.Fatalf("Failed to save workbook: %v", err)
	}
	logger.Info("wrote %s", filepath.Join(cfg.Export.Dir, cfg.Export.ExcelFile))
}

func runSelected(ctx context.Context, service *app.StudyService, only string) ([]*model.StudyRun, error) {
	if only == "" {
		return service.RunAll(ctx)
	}
	run, err := service.Run(ctx, core.StudyKey(only))
	if err != nil {
		return nil, err
	}
	return []*model.StudyRun{run}, nil
}
