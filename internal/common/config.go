package common

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// SourcePath is the location of the input CSV file.
	SourcePath string
	// StorePath is the location of the persistent record store: a SQLite
	// file path, ":memory:", or a postgres:// DSN.
	StorePath string
	// StoreDriver selects the store backend ("sqlite" or "postgres").
	// Left empty, it is inferred from StorePath.
	StoreDriver string
	// ReportOutputDir is the directory report artifacts are written under.
	ReportOutputDir string
	// TopN is the number of products in the top-sellers report.
	TopN int
}

// LoadConfig loads configuration from environment variables. CLI flags in
// the individual binaries take precedence over these values.
func LoadConfig() *Config {
	return &Config{
		SourcePath:      getEnv("SOURCE_PATH", ""),
		StorePath:       getEnv("STORE_PATH", "sales.db"),
		StoreDriver:     getEnv("STORE_DRIVER", ""),
		ReportOutputDir: getEnv("REPORT_OUTPUT_DIR", "reports"),
		TopN:            getEnvAsInt("TOP_N", 5),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
