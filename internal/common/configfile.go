package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema constrains the optional JSON config file. Unknown keys are
// rejected so typos fail loudly instead of being silently ignored.
func configSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"source_path":       map[string]any{"type": "string", "minLength": 1},
			"store_path":        map[string]any{"type": "string", "minLength": 1},
			"store_driver":      map[string]any{"type": "string", "enum": []string{"sqlite", "postgres"}},
			"report_output_dir": map[string]any{"type": "string", "minLength": 1},
			"top_n":             map[string]any{"type": "integer", "minimum": 1},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

type fileConfig struct {
	SourcePath      *string `json:"source_path"`
	StorePath       *string `json:"store_path"`
	StoreDriver     *string `json:"store_driver"`
	ReportOutputDir *string `json:"report_output_dir"`
	TopN            *int    `json:"top_n"`
}

// ApplyConfigFile overlays values from a JSON config file onto cfg. The file
// is validated against configSchema before any field is applied, so a bad
// file never half-updates the configuration.
func ApplyConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewAppError("INVALID_CONFIG", fmt.Sprintf("reading config file %s: %v", path, err), ErrInvalidConfig)
	}
	if err := ValidateJSONAgainstSchema(configSchema(), data); err != nil {
		return NewAppError("INVALID_CONFIG", fmt.Sprintf("config file %s: %v", path, err), ErrInvalidConfig)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return NewAppError("INVALID_CONFIG", fmt.Sprintf("config file %s: %v", path, err), ErrInvalidConfig)
	}
	if fc.SourcePath != nil {
		cfg.SourcePath = *fc.SourcePath
	}
	if fc.StorePath != nil {
		cfg.StorePath = *fc.StorePath
	}
	if fc.StoreDriver != nil {
		cfg.StoreDriver = *fc.StoreDriver
	}
	if fc.ReportOutputDir != nil {
		cfg.ReportOutputDir = *fc.ReportOutputDir
	}
	if fc.TopN != nil {
		cfg.TopN = *fc.TopN
	}
	return nil
}
