package io

import (
	"fmt"

	"statread/internal/extract"
	"statread/internal/imf"
	"statread/internal/logging"
)

// IMFReader implements InputReader for IMF data exports. The raw file is
// decoded from its detected (or configured) encoding before extraction.
type IMFReader struct {
	Delimiter rune   // Field delimiter; IMF exports default to tab.
	Encoding  string // Source encoding name; empty means detect.
}

// NewIMFReader creates an IMFReader from configured options.
func NewIMFReader(delimiter, encoding string) (*IMFReader, error) {
	delim := '\t'
	if delimiter != "" {
		d, err := parseDelimiter(delimiter)
		if err != nil {
			return nil, err
		}
		delim = d
	}
	return &IMFReader{Delimiter: delim, Encoding: encoding}, nil
}

// Read decodes and loads records from the IMF file at filePath.
func (ir *IMFReader) Read(filePath string) ([]map[string]interface{}, error) {
	logging.Logf(logging.Debug, "IMFReader reading file: %s (Delimiter: '%c', Encoding: %q)", filePath, ir.Delimiter, ir.Encoding)

	rc, err := imf.Open(filePath, ir.Encoding)
	if err != nil {
		return nil, fmt.Errorf("IMFReader: %w", err)
	}
	defer rc.Close()

	rows, err := extract.New(rc, extract.WithDelimiter(ir.Delimiter)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("IMFReader: reading '%s': %w", filePath, err)
	}
	if len(rows) == 0 {
		logging.Logf(logging.Warning, "IMF file '%s' is empty", filePath)
		return []map[string]interface{}{}, nil
	}

	header := rows[0]
	records := make([]map[string]interface{}, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("IMFReader: row %d of '%s' has %d cells, want %d: %w",
				i+2, filePath, len(row), len(header), extract.ErrInconsistentRowWidth)
		}
		rec := make(map[string]interface{}, len(header))
		for col, value := range row {
			rec[header[col]] = value
		}
		records = append(records, rec)
	}

	logging.Logf(logging.Debug, "IMFReader loaded %d records from %s", len(records), filePath)
	return records, nil
}
