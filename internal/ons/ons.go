// Package ons reads UK Office for National Statistics (ONS) CSV time-series
// datasets, e.g. the UK Economic Accounts:
//
//	https://www.ons.gov.uk/economy/grossdomesticproductgdp/datasets/unitedkingdomeconomicaccounts
//
// These exports interleave a metadata block with the data: a header row of
// short series codes keyed by "CDID", a run of descriptive rows (Title,
// PreUnit, Unit, Release Date, Next release, Important Notes), then the
// observations. The reader separates the two blocks while sharing the
// common header row between them, so each block is a clean rectangular
// table.
package ons

import (
	"errors"
	"fmt"
	"io"

	"statread/internal/extract"
)

// Code is the label of the header row in ONS time-series exports. The cell
// under it in each data row is the period (year, quarter or month).
const Code = "CDID"

// MetadataFields are the row labels ONS publishes in the metadata block, in
// release order.
var MetadataFields = []string{
	"Title",
	"PreUnit",
	"Unit",
	"Release Date",
	"Next release",
	"Important Notes",
}

// ErrNotONS indicates the source has no CDID header row and is not an ONS
// time-series export.
var ErrNotONS = errors.New("no CDID header row found")

// Dataset is one parsed ONS export. Header is shared by the metadata and
// data blocks, mirroring the published layout.
type Dataset struct {
	Header   []string
	Metadata [][]string
	Data     [][]string
}

// ReadFile parses the ONS CSV dataset at path. The file handle is owned by
// the call and released on every exit path. Options cover releases that
// deviate from the comma-delimited norm.
func ReadFile(path string, opts ...extract.Option) (*Dataset, error) {
	e, err := extract.OpenFile(path, opts...)
	if err != nil {
		return nil, err
	}
	defer e.Close()
	return read(e)
}

// Read parses an ONS CSV dataset from an already-open stream. The stream is
// borrowed and never closed.
func Read(r io.Reader, opts ...extract.Option) (*Dataset, error) {
	return read(extract.New(r, opts...))
}

func read(e *extract.Extractor) (*Dataset, error) {
	ds := &Dataset{}
	inData := false

	for {
		row, err := e.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		// The file header is a mix of metadata rows and the column-title
		// row; the first row with any other label starts the data block and
		// everything after it is data, whatever its label.
		if !inData {
			switch label := row[0]; {
			case label == Code:
				if ds.Header != nil {
					return nil, fmt.Errorf("ons: line %d: duplicate %s header row", e.Line(), Code)
				}
				ds.Header = row
				continue
			case isMetadataField(label):
				if err := checkWidth(ds.Header, row, e.Line()); err != nil {
					return nil, err
				}
				ds.Metadata = append(ds.Metadata, row)
				continue
			default:
				if ds.Header == nil {
					return nil, fmt.Errorf("ons: line %d: unexpected row label %q before header: %w", e.Line(), label, ErrNotONS)
				}
				inData = true
			}
		}
		if err := checkWidth(ds.Header, row, e.Line()); err != nil {
			return nil, err
		}
		ds.Data = append(ds.Data, row)
	}

	if ds.Header == nil {
		return nil, fmt.Errorf("ons: %w", ErrNotONS)
	}
	return ds, nil
}

// checkWidth enforces the header width on every block row. Width drift in a
// published file corrupts the series-to-column alignment downstream, so it
// fails the whole extraction rather than padding or truncating.
func checkWidth(header, row []string, line int) error {
	if header == nil || len(row) == len(header) {
		return nil
	}
	return fmt.Errorf("ons: line %d: row has %d cells, want %d: %w",
		line, len(row), len(header), extract.ErrInconsistentRowWidth)
}

func isMetadataField(label string) bool {
	for _, f := range MetadataFields {
		if label == f {
			return true
		}
	}
	return false
}

// MetadataRecords returns the metadata block as header-keyed records, one
// map per metadata row.
func (ds *Dataset) MetadataRecords() []map[string]interface{} {
	return toRecords(ds.Header, ds.Metadata)
}

// DataRecords returns the data block as header-keyed records, one map per
// observation period.
func (ds *Dataset) DataRecords() []map[string]interface{} {
	return toRecords(ds.Header, ds.Data)
}

func toRecords(header []string, rows [][]string) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]interface{}, len(header))
		for i, h := range header {
			rec[h] = row[i]
		}
		records = append(records, rec)
	}
	return records
}
