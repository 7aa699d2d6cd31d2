package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "etl.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplyConfigFile(t *testing.T) {
	cfg := &Config{StorePath: "sales.db", ReportOutputDir: "reports", TopN: 5}
	path := writeConfig(t, `{
		"source_path": "data/sales.csv",
		"store_path": "data/sales.db",
		"top_n": 10
	}`)

	require.NoError(t, ApplyConfigFile(cfg, path))
	assert.Equal(t, "data/sales.csv", cfg.SourcePath)
	assert.Equal(t, "data/sales.db", cfg.StorePath)
	assert.Equal(t, 10, cfg.TopN)
	// untouched fields keep their values
	assert.Equal(t, "reports", cfg.ReportOutputDir)
}

func TestApplyConfigFileRejectsUnknownKeys(t *testing.T) {
	cfg := &Config{}
	path := writeConfig(t, `{"source_file": "typo.csv"}`)

	err := ApplyConfigFile(cfg, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	// failures surface as coded application errors for the binaries to log
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_CONFIG", appErr.Code)
}

func TestApplyConfigFileRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrong type", `{"top_n": "ten"}`},
		{"bad driver", `{"store_driver": "oracle"}`},
		{"zero top_n", `{"top_n": 0}`},
		{"not json", `source_path = "x.csv"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{StorePath: "sales.db"}
			err := ApplyConfigFile(cfg, writeConfig(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			// a bad file never half-updates the config
			assert.Equal(t, "sales.db", cfg.StorePath)
		})
	}
}

func TestApplyConfigFileMissing(t *testing.T) {
	err := ApplyConfigFile(&Config{}, filepath.Join(t.TempDir(), "none.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
