package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads, parses, and validates the YAML configuration file.
// Defaults are applied before validation.
func LoadConfig(filename string) (*Config, error) {
	fileBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(fileBytes, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in '%s': %w", filename, err)
	}

	applyDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in unset options with their documented defaults.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Source.Delimiter == "" {
		switch cfg.Source.Type {
		case SourceTypeIMF:
			cfg.Source.Delimiter = DefaultIMFDelimiter
		default:
			cfg.Source.Delimiter = DefaultCSVDelimiter
		}
	}
	if cfg.Destination.Type == DestinationTypeCSV && cfg.Destination.Delimiter == "" {
		cfg.Destination.Delimiter = DefaultCSVDelimiter
	}
	if cfg.Destination.Type == DestinationTypeXLSX && cfg.Destination.SheetName == "" {
		cfg.Destination.SheetName = DefaultSheetName
	}
}
