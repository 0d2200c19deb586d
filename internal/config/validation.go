package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Knetic/govaluate"
)

// ValidateConfig checks the loaded configuration for structural problems.
// It collects every problem found so a broken file is fixed in one pass.
func ValidateConfig(cfg *Config) error {
	var problems []string

	switch strings.ToLower(cfg.Source.Type) {
	case SourceTypeCSV, SourceTypeONS, SourceTypeIMF:
	case "":
		problems = append(problems, "source.type is required")
	default:
		problems = append(problems, fmt.Sprintf("unsupported source.type '%s' (want csv, ons or imf)", cfg.Source.Type))
	}
	if cfg.Source.File == "" {
		problems = append(problems, "source.file is required")
	}
	if d := cfg.Source.Delimiter; d != "" && utf8.RuneCountInString(d) != 1 {
		problems = append(problems, fmt.Sprintf("source.delimiter '%s' must be a single character", d))
	}
	if cfg.Source.Encoding != "" && strings.ToLower(cfg.Source.Type) != SourceTypeIMF {
		problems = append(problems, "source.encoding is only valid for source.type 'imf'")
	}

	switch strings.ToLower(cfg.Destination.Type) {
	case DestinationTypeCSV, DestinationTypeJSON, DestinationTypeYAML, DestinationTypeXLSX:
	case "":
		problems = append(problems, "destination.type is required")
	default:
		problems = append(problems, fmt.Sprintf("unsupported destination.type '%s' (want csv, json, yaml or xlsx)", cfg.Destination.Type))
	}
	if cfg.Destination.File == "" {
		problems = append(problems, "destination.file is required")
	}
	if d := cfg.Destination.Delimiter; d != "" && utf8.RuneCountInString(d) != 1 {
		problems = append(problems, fmt.Sprintf("destination.delimiter '%s' must be a single character", d))
	}

	if cfg.MetadataFile != "" && strings.ToLower(cfg.Source.Type) != SourceTypeONS {
		problems = append(problems, "metadataFile is only valid for source.type 'ons'")
	}

	if cfg.Filter != "" {
		if _, err := govaluate.NewEvaluableExpression(cfg.Filter); err != nil {
			problems = append(problems, fmt.Sprintf("invalid filter expression '%s': %v", cfg.Filter, err))
		}
	}

	if level := cfg.Logging.Level; level != "" {
		switch strings.ToLower(level) {
		case "none", "error", "warn", "warning", "info", "debug":
		default:
			problems = append(problems, fmt.Sprintf("invalid logging.level '%s'", level))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
