package io

import (
	"fmt"

	"statread/internal/extract"
	"statread/internal/logging"
	"statread/internal/ons"
)

// ONSReader implements InputReader for ONS time-series CSV exports. Read
// returns the data block; the metadata block is kept for retrieval through
// the MetadataProvider interface.
type ONSReader struct {
	Delimiter rune // Field delimiter; releases occasionally deviate from comma.

	dataset *ons.Dataset
}

// NewONSReader creates an ONSReader from configured options.
func NewONSReader(delimiter string) (*ONSReader, error) {
	delim, err := parseDelimiter(delimiter)
	if err != nil {
		return nil, err
	}
	return &ONSReader{Delimiter: delim}, nil
}

// Read parses the ONS dataset at filePath and returns its data records.
func (or *ONSReader) Read(filePath string) ([]map[string]interface{}, error) {
	logging.Logf(logging.Debug, "ONSReader reading file: %s (Delimiter: '%c')", filePath, or.Delimiter)

	ds, err := ons.ReadFile(filePath, extract.WithDelimiter(or.Delimiter))
	if err != nil {
		return nil, fmt.Errorf("ONSReader: %w", err)
	}
	or.dataset = ds

	logging.Logf(logging.Debug, "ONSReader loaded %d data rows and %d metadata rows from %s",
		len(ds.Data), len(ds.Metadata), filePath)
	return ds.DataRecords(), nil
}

// MetadataRecords returns the metadata block of the last successful Read,
// or nil if nothing has been read yet.
func (or *ONSReader) MetadataRecords() []map[string]interface{} {
	if or.dataset == nil {
		return nil
	}
	return or.dataset.MetadataRecords()
}
