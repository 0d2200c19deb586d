package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"statread/internal/config"
	statio "statread/internal/io"
	"statread/internal/logging"
	"statread/internal/util"

	"github.com/Knetic/govaluate"
)

// Common application-level errors.
var (
	ErrUsage          = errors.New("usage error")
	ErrConfigNotFound = errors.New("configuration file not found")
)

// expressionEvaluator is the filter-evaluation seam, so tests can stand in
// for govaluate.
type expressionEvaluator interface {
	Evaluate(map[string]interface{}) (interface{}, error)
}

// Factory variables; tests can replace these with mocks.
var (
	newInputReaderFunc  = statio.NewInputReader
	newOutputWriterFunc = statio.NewOutputWriter

	newExpressionEvaluatorFunc = func(expr string) (expressionEvaluator, error) {
		evalExpr, err := govaluate.NewEvaluableExpression(expr)
		if err != nil {
			return nil, err
		}
		return evalExpr, nil
	}

	osStatFunc = os.Stat
)

// AppRunner encapsulates the application's execution logic.
type AppRunner struct{}

// NewAppRunner creates a new instance of the application runner.
func NewAppRunner() *AppRunner {
	return &AppRunner{}
}

const usageText = `Usage:
  statread [options]

Options:
  -config string
        YAML configuration file (default "config/statread.yaml")
  -input string
        Override input file path from config
  -output string
        Override output file path from config
  -metadata string
        Override ONS metadata output file path from config
  -loglevel string
        Logging level (none, error, warn, info, debug) (default "info")
  -dry-run
        Parse and filter, but write nothing (default false)
  -help
        Show help

Environment Variables:
  Any VAR          Can be used in configured paths via $VAR/${VAR} or %VAR%

Examples:
  statread -config=configs/ukea.yaml -loglevel=debug
  statread -config=configs/ukea.yaml -input=/data/ukea_2026q1.csv -output=/tmp/ukea.json
  statread -config=configs/weo.yaml -dry-run
`

// Usage prints the command-line help information to the specified writer.
func (a *AppRunner) Usage(writer io.Writer) {
	fmt.Fprint(writer, usageText)
}

// Run parses command-line arguments and executes the read/normalize/write
// workflow.
func (a *AppRunner) Run(args []string) error {
	fs := flag.NewFlagSet("statread", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configFile := fs.String("config", "config/statread.yaml", "YAML configuration file")
	flagInputFile := fs.String("input", "", "Override input file path from config")
	flagOutputFile := fs.String("output", "", "Override output file path from config")
	flagMetadataFile := fs.String("metadata", "", "Override ONS metadata output file path from config")
	logLevelStr := fs.String("loglevel", "info", "Logging level")
	dryRunFlag := fs.Bool("dry-run", false, "Perform dry run")
	helpFlag := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			a.Usage(os.Stderr)
			return nil
		}
		logging.Logf(logging.Error, "Failed to parse args: %v", err)
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *helpFlag || (len(args) == 0 && !anyFlagsSet(fs)) {
		a.Usage(os.Stderr)
		return nil
	}

	logging.SetupLogging(*logLevelStr)
	if _, err := osStatFunc(*configFile); err != nil {
		if os.IsNotExist(err) {
			logging.Logf(logging.Error, "Config file '%s' not found.", *configFile)
			return ErrConfigNotFound
		}
		return fmt.Errorf("failed to stat config file '%s': %w", *configFile, err)
	}
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logging.Logf(logging.Error, "Error loading config '%s': %v", *configFile, err)
		return err
	}

	// A loglevel from the config only applies when the flag was left at its
	// default.
	if !isFlagSet(fs, "loglevel") && cfg.Logging.Level != "" {
		logging.SetupLogging(cfg.Logging.Level)
	}
	logging.Logf(logging.Info, "Starting statread with config: %s", *configFile)

	inputFile := cfg.Source.File
	if *flagInputFile != "" {
		inputFile = *flagInputFile
		logging.Logf(logging.Info, "Override input: %s", inputFile)
	}
	inputFile = util.ExpandEnvUniversal(inputFile)

	outputFile := cfg.Destination.File
	if *flagOutputFile != "" {
		outputFile = *flagOutputFile
		logging.Logf(logging.Info, "Override output: %s", outputFile)
	}
	outputFile = util.ExpandEnvUniversal(outputFile)

	metadataFile := cfg.MetadataFile
	if *flagMetadataFile != "" {
		metadataFile = *flagMetadataFile
		logging.Logf(logging.Info, "Override metadata output: %s", metadataFile)
	}
	metadataFile = util.ExpandEnvUniversal(metadataFile)

	inputReader, err := newInputReaderFunc(cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to create input reader: %w", err)
	}
	outputWriter, err := newOutputWriterFunc(cfg.Destination)
	if err != nil {
		return fmt.Errorf("failed to create output writer: %w", err)
	}
	defer func() {
		if closeErr := outputWriter.Close(); closeErr != nil {
			logging.Logf(logging.Error, "Failed to close output writer: %v", closeErr)
		}
	}()

	// 1. Extraction
	logging.Logf(logging.Info, "Reading %s source from %s...", cfg.Source.Type, inputFile)
	records, err := inputReader.Read(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read input data: %w", err)
	}
	logging.Logf(logging.Info, "Read %d records.", len(records))

	// 2. Filtering
	if cfg.Filter != "" {
		logging.Logf(logging.Info, "Applying filter: %s", cfg.Filter)
		evaluator, err := newExpressionEvaluatorFunc(cfg.Filter)
		if err != nil {
			return fmt.Errorf("invalid filter expression '%s': %w", cfg.Filter, err)
		}
		kept := make([]map[string]interface{}, 0, len(records))
		for i, record := range records {
			result, evalErr := evaluator.Evaluate(record)
			if evalErr != nil {
				return fmt.Errorf("filter failed on record %d: %w", i, evalErr)
			}
			keep, isBool := result.(bool)
			if !isBool {
				return fmt.Errorf("filter expression returned non-boolean %T on record %d", result, i)
			}
			if keep {
				kept = append(kept, record)
			}
		}
		logging.Logf(logging.Info, "Filter applied: %d kept, %d dropped.", len(kept), len(records)-len(kept))
		records = kept
	}

	// 3. Loading
	if *dryRunFlag {
		logging.Logf(logging.Info, "DRY RUN: skip write. Would write %d records to %s.", len(records), cfg.Destination.Type)
	} else {
		logging.Logf(logging.Info, "Writing %d records to %s...", len(records), outputFile)
		if err := outputWriter.Write(records, outputFile); err != nil {
			return fmt.Errorf("failed to write output data: %w", err)
		}
	}

	// 3b. ONS metadata block, written with a second writer of the same
	// destination type.
	if metadataFile != "" {
		provider, ok := inputReader.(statio.MetadataProvider)
		if !ok {
			return fmt.Errorf("source type '%s' has no metadata block", cfg.Source.Type)
		}
		metadata := provider.MetadataRecords()
		if *dryRunFlag {
			logging.Logf(logging.Info, "DRY RUN: skip metadata write. Would write %d records to %s.", len(metadata), metadataFile)
			return nil
		}
		metadataWriter, err := newOutputWriterFunc(cfg.Destination)
		if err != nil {
			return fmt.Errorf("failed to create metadata writer: %w", err)
		}
		defer func() {
			if closeErr := metadataWriter.Close(); closeErr != nil {
				logging.Logf(logging.Error, "Failed to close metadata writer: %v", closeErr)
			}
		}()
		logging.Logf(logging.Info, "Writing %d metadata records to %s...", len(metadata), metadataFile)
		if err := metadataWriter.Write(metadata, metadataFile); err != nil {
			return fmt.Errorf("failed to write metadata: %w", err)
		}
	}

	return nil
}

func anyFlagsSet(fs *flag.FlagSet) bool {
	any := false
	fs.Visit(func(*flag.Flag) { any = true })
	return any
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
