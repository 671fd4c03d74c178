package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"statlab/adapters/memory"
	"statlab/adapters/postgres"
	"statlab/app"
	"statlab/app/studies"
	"statlab/internal"
	"statlab/internal/config"
	"statlab/internal/errors"
	"statlab/internal/sampler"
	"statlab/ports"
	"statlab/ui"
)

func main() {
	// Load .env if present; environment variables win
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()

	repo, err := initRepository(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	service := app.NewStudyService(repo, logger)
	registerStudies(service, cfg)

	logger.Info("starting server on port %s", cfg.Server.Port)
	httpApp := ui.NewApp(service)
	if err := httpApp.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// initRepository connects to Postgres when DATABASE_URL is set and falls
// back to the in-memory store otherwise.
func initRepository(cfg *config.Config, logger *internal.Logger) (ports.RunRepository, error) {
	if cfg.Database.URL == "" {
		logger.Warn("DATABASE_URL not set, runs are kept in memory only")
		return memory.NewRunRepository(), nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	if err := db.Ping(); err != nil {
		return nil, errors.DatabaseError("failed to ping database", err)
	}
	return postgres.NewRunRepository(db)
}

// registerStudies wires the built-in studies into the service
func registerStudies(service *app.StudyService, cfg *config.Config) {
	samplerCfg := sampler.Config{
		Iterations: cfg.Sampler.Iterations,
		BurnIn:     cfg.Sampler.BurnIn,
		Seed:       cfg.Sampler.Seed,
	}

	service.Register(studies.NewPatentStudy(nil))
	service.Register(studies.NewChoiceStudy(nil, samplerCfg))
	service.Register(studies.NewCharityStudy(cfg.Sampler.Seed))
	service.Register(studies.NewSegmentStudy(cfg.Sampler.Seed))
}
