package io

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"statread/internal/logging"
)

// JSONWriter implements OutputWriter for JSON files. Write is
// self-contained; Close is a no-op.
type JSONWriter struct{}

// Write saves records as an indented JSON array at filePath.
func (jw *JSONWriter) Write(records []map[string]interface{}, filePath string) error {
	logging.Logf(logging.Debug, "JSONWriter writing %d records to file: %s", len(records), filePath)

	dir := filepath.Dir(filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("JSONWriter failed to create directory for '%s': %w", filePath, err)
		}
	}

	var data []byte
	if len(records) == 0 {
		data = []byte("[]\n")
	} else {
		var err error
		data, err = json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("JSONWriter failed to marshal records: %w", err)
		}
		data = append(data, '\n')
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("JSONWriter failed to write file '%s': %w", filePath, err)
	}
	return nil
}

// Close implements OutputWriter; JSON output is finalized in Write.
func (jw *JSONWriter) Close() error {
	return nil
}
