package config

import (
	"os"
	"strconv"

	"statlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Export   ExportConfig
	Sampler  SamplerConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. URL is optional: when
// empty the application falls back to an in-memory run repository.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ExportConfig holds file export settings
type ExportConfig struct {
	Dir       string
	ExcelFile string
}

// SamplerConfig holds default Metropolis-Hastings settings. Call sites may
// override these per study.
type SamplerConfig struct {
	Iterations int
	BurnIn     int
	Seed       uint64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Export: ExportConfig{
			Dir:       getEnvOrDefault("EXPORT_DIR", "./exports"),
			ExcelFile: getEnvOrDefault("EXCEL_FILE", "coefficients.xlsx"),
		},
		Sampler: SamplerConfig{
			Iterations: getEnvIntOrDefault("SAMPLER_ITERATIONS", 11000),
			BurnIn:     getEnvIntOrDefault("SAMPLER_BURNIN", 1000),
			Seed:       uint64(getEnvIntOrDefault("SAMPLER_SEED", 42)),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if cfg.Sampler.Iterations <= 0 {
		return errors.ConfigInvalid("sampler iterations must be positive")
	}
	if cfg.Sampler.BurnIn < 0 || cfg.Sampler.BurnIn >= cfg.Sampler.Iterations {
		return errors.ConfigInvalid("sampler burn-in must be in [0, iterations)")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
