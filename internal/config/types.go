package config

// Configuration constants: supported source/destination types and defaults.
const (
	SourceTypeCSV = "csv" // generic delimited agency export
	SourceTypeONS = "ons" // ONS time-series CSV (metadata + data blocks)
	SourceTypeIMF = "imf" // IMF export with encoding detection

	DestinationTypeCSV  = "csv"
	DestinationTypeJSON = "json"
	DestinationTypeYAML = "yaml"
	DestinationTypeXLSX = "xlsx"

	DefaultLogLevel     = "info"
	DefaultCSVDelimiter = ","
	DefaultIMFDelimiter = "\t"
	DefaultSheetName    = "Sheet1"
)

// Config is the top-level structure of the YAML pipeline configuration.
type Config struct {
	// Logging specifies the verbosity level.
	Logging LoggingConfig `yaml:"logging"`
	// Source defines the statistical release to read.
	Source SourceConfig `yaml:"source"`
	// Destination defines where normalized records are written.
	Destination DestinationConfig `yaml:"destination"`
	// MetadataFile optionally receives the metadata block of an ONS source,
	// written in the destination format. Ignored for other source types.
	MetadataFile string `yaml:"metadataFile,omitempty"`
	// Filter is an optional govaluate expression evaluated against each
	// record; records evaluating to false are dropped before writing.
	// Example: "CDID >= '1947'"
	Filter string `yaml:"filter,omitempty"`
}

// LoggingConfig holds settings related to logging verbosity.
type LoggingConfig struct {
	// Level is one of "none", "error", "warn", "info", "debug".
	Level string `yaml:"level"`
}

// SourceConfig details the input source properties.
type SourceConfig struct {
	// Type is one of "csv", "ons", "imf". Required.
	Type string `yaml:"type"`
	// File is the path to the input file. Environment variables are
	// expanded. Required.
	File string `yaml:"file"`
	// Delimiter is the field delimiter (default "," for csv/ons, tab for
	// imf). Must be a single character.
	Delimiter string `yaml:"delimiter,omitempty"`
	// WidthCheck enforces a uniform cell count across all rows of a "csv"
	// source. The first row fixes the width; violations fail the run.
	// ONS sources always enforce width per block and ignore this flag.
	WidthCheck bool `yaml:"widthCheck,omitempty"`
	// Encoding names the source encoding of an "imf" source (e.g.
	// "windows-1252", "utf-16le"). Empty means detect.
	Encoding string `yaml:"encoding,omitempty"`
}

// DestinationConfig details the output destination properties.
type DestinationConfig struct {
	// Type is one of "csv", "json", "yaml", "xlsx". Required.
	Type string `yaml:"type"`
	// File is the path to the output file. Environment variables are
	// expanded. Required.
	File string `yaml:"file"`
	// Delimiter is the field delimiter for "csv" output (default ",").
	Delimiter string `yaml:"delimiter,omitempty"`
	// SheetName is the worksheet name for "xlsx" output (default "Sheet1").
	SheetName string `yaml:"sheetName,omitempty"`
}
