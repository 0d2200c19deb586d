package io

import (
	"fmt"
	"strings"

	"statread/internal/config"
	"statread/internal/logging"
)

// NewInputReader creates the InputReader matching the source configuration.
func NewInputReader(cfg config.SourceConfig) (InputReader, error) {
	sourceType := strings.ToLower(cfg.Type)
	logging.Logf(logging.Debug, "Creating input reader for type: %s", sourceType)

	switch sourceType {
	case config.SourceTypeCSV:
		reader, err := NewCSVReader(cfg.Delimiter, cfg.WidthCheck)
		if err != nil {
			return nil, fmt.Errorf("failed to create CSV reader: %w", err)
		}
		return reader, nil
	case config.SourceTypeONS:
		reader, err := NewONSReader(cfg.Delimiter)
		if err != nil {
			return nil, fmt.Errorf("failed to create ONS reader: %w", err)
		}
		return reader, nil
	case config.SourceTypeIMF:
		reader, err := NewIMFReader(cfg.Delimiter, cfg.Encoding)
		if err != nil {
			return nil, fmt.Errorf("failed to create IMF reader: %w", err)
		}
		return reader, nil
	default:
		return nil, fmt.Errorf("unsupported source type '%s'", cfg.Type)
	}
}

// NewOutputWriter creates the OutputWriter matching the destination
// configuration.
func NewOutputWriter(cfg config.DestinationConfig) (OutputWriter, error) {
	destType := strings.ToLower(cfg.Type)
	logging.Logf(logging.Debug, "Creating output writer for type: %s", destType)

	switch destType {
	case config.DestinationTypeCSV:
		writer, err := NewCSVWriter(cfg.Delimiter)
		if err != nil {
			return nil, fmt.Errorf("failed to create CSV writer: %w", err)
		}
		return writer, nil
	case config.DestinationTypeJSON:
		return &JSONWriter{}, nil
	case config.DestinationTypeYAML:
		return &YAMLWriter{}, nil
	case config.DestinationTypeXLSX:
		return NewXLSXWriter(cfg.SheetName), nil
	default:
		return nil, fmt.Errorf("unsupported destination type '%s'", cfg.Type)
	}
}
