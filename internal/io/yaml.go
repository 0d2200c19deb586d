package io

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"statread/internal/logging"
)

// YAMLWriter implements OutputWriter for YAML files. Write is
// self-contained; Close is a no-op.
type YAMLWriter struct{}

// Write saves records as a YAML sequence of mappings at filePath.
func (yw *YAMLWriter) Write(records []map[string]interface{}, filePath string) error {
	logging.Logf(logging.Debug, "YAMLWriter writing %d records to file: %s", len(records), filePath)

	dir := filepath.Dir(filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("YAMLWriter failed to create directory for '%s': %w", filePath, err)
		}
	}

	var data []byte
	if len(records) == 0 {
		data = []byte("[]\n")
	} else {
		var err error
		data, err = yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("YAMLWriter failed to marshal records: %w", err)
		}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("YAMLWriter failed to write file '%s': %w", filePath, err)
	}
	return nil
}

// Close implements OutputWriter; YAML output is finalized in Write.
func (yw *YAMLWriter) Close() error {
	return nil
}
