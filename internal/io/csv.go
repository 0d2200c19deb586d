package io

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"statread/internal/extract"
	"statread/internal/logging"
)

// parseDelimiter converts a configured delimiter string to a rune,
// defaulting to comma for the empty string.
func parseDelimiter(delimiter string) (rune, error) {
	if delimiter == "" {
		return ',', nil
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return 0, fmt.Errorf("invalid delimiter '%s': must be a single character", delimiter)
	}
	return []rune(delimiter)[0], nil
}

// CSVReader implements InputReader for generic delimited agency exports.
// The first row is taken as the header; every data row is mapped against it.
type CSVReader struct {
	Delimiter  rune // Field delimiter (e.g. ',', '\t').
	WidthCheck bool // Enforce uniform width at the extractor level.
}

// NewCSVReader creates a CSVReader from configured options.
func NewCSVReader(delimiter string, widthCheck bool) (*CSVReader, error) {
	delim, err := parseDelimiter(delimiter)
	if err != nil {
		return nil, err
	}
	return &CSVReader{Delimiter: delim, WidthCheck: widthCheck}, nil
}

// Read loads records from a delimited file, reassembling multi-line quoted
// cells before mapping rows against the header.
func (cr *CSVReader) Read(filePath string) ([]map[string]interface{}, error) {
	logging.Logf(logging.Debug, "CSVReader reading file: %s (Delimiter: '%c', WidthCheck: %v)", filePath, cr.Delimiter, cr.WidthCheck)

	e, err := extract.OpenFile(filePath,
		extract.WithDelimiter(cr.Delimiter),
		extract.WithWidthCheck(cr.WidthCheck))
	if err != nil {
		return nil, fmt.Errorf("CSVReader: %w", err)
	}
	defer e.Close()

	rows, err := e.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSVReader: reading '%s': %w", filePath, err)
	}
	if len(rows) == 0 {
		logging.Logf(logging.Warning, "CSV file '%s' is empty", filePath)
		return []map[string]interface{}{}, nil
	}

	header := rows[0]
	records := make([]map[string]interface{}, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("CSVReader: row %d of '%s' has %d cells, want %d: %w",
				i+2, filePath, len(row), len(header), extract.ErrInconsistentRowWidth)
		}
		rec := make(map[string]interface{}, len(header))
		for col, value := range row {
			rec[header[col]] = value
		}
		records = append(records, rec)
	}

	logging.Logf(logging.Debug, "CSVReader loaded %d records from %s", len(records), filePath)
	return records, nil
}

// CSVWriter implements OutputWriter for CSV files. Writes are buffered and
// finalized by Close.
type CSVWriter struct {
	Delimiter rune

	filePath      string
	file          *os.File
	writer        *csv.Writer
	headers       []string
	headerWritten bool
}

// NewCSVWriter creates a CSVWriter, deferring file creation until the first
// Write call.
func NewCSVWriter(delimiter string) (*CSVWriter, error) {
	delim, err := parseDelimiter(delimiter)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{Delimiter: delim}, nil
}

// Write appends records to the output file, creating it (and its directory)
// on the first call. Headers are the sorted union of the first batch's keys.
func (cw *CSVWriter) Write(records []map[string]interface{}, filePath string) error {
	if cw.writer == nil {
		dir := filepath.Dir(filePath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("CSVWriter failed to create directory for '%s': %w", filePath, err)
			}
		}
		f, err := os.Create(filePath)
		if err != nil {
			return fmt.Errorf("CSVWriter failed to create file '%s': %w", filePath, err)
		}
		cw.filePath = filePath
		cw.file = f
		cw.writer = csv.NewWriter(f)
		cw.writer.Comma = cw.Delimiter
	} else if cw.filePath != filePath {
		return fmt.Errorf("CSVWriter already writing '%s', cannot write to '%s'; close the writer first", cw.filePath, filePath)
	}

	if len(records) == 0 {
		return nil
	}

	if !cw.headerWritten {
		cw.headers = sortedKeys(records)
		if err := cw.writer.Write(cw.headers); err != nil {
			return fmt.Errorf("CSVWriter failed to write header to '%s': %w", cw.filePath, err)
		}
		cw.headerWritten = true
	}

	for i, rec := range records {
		row := make([]string, len(cw.headers))
		for j, header := range cw.headers {
			if val, ok := rec[header]; ok && val != nil {
				row[j] = fmt.Sprintf("%v", val)
			}
		}
		if err := cw.writer.Write(row); err != nil {
			return fmt.Errorf("CSVWriter failed to write row %d to '%s': %w", i+1, cw.filePath, err)
		}
	}
	return nil
}

// Close flushes buffered rows and closes the file. Safe to call multiple
// times.
func (cw *CSVWriter) Close() error {
	if cw.writer == nil || cw.file == nil {
		return nil
	}
	cw.writer.Flush()
	flushErr := cw.writer.Error()
	closeErr := cw.file.Close()
	cw.writer = nil
	cw.file = nil

	if flushErr != nil {
		return fmt.Errorf("CSVWriter flush error on close for '%s': %w", cw.filePath, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("CSVWriter file close error for '%s': %w", cw.filePath, closeErr)
	}
	return nil
}

// sortedKeys returns the union of record keys in sorted order, giving
// output columns a stable order regardless of map iteration.
func sortedKeys(records []map[string]interface{}) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			set[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
