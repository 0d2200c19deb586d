package io

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"statread/internal/logging"
)

// XLSXWriter implements OutputWriter for Excel (.xlsx) files. Write is
// self-contained; Close is a no-op.
type XLSXWriter struct {
	sheetName string
}

const defaultSheetName = "Sheet1"

// NewXLSXWriter creates an XLSXWriter targeting the given sheet name
// (default "Sheet1").
func NewXLSXWriter(sheetName string) *XLSXWriter {
	name := sheetName
	if name == "" {
		name = defaultSheetName
	}
	return &XLSXWriter{sheetName: name}
}

// Write saves records to the configured sheet of a new workbook at
// filePath. Headers are the sorted union of record keys.
func (xw *XLSXWriter) Write(records []map[string]interface{}, filePath string) error {
	logging.Logf(logging.Debug, "XLSXWriter writing %d records to file: %s (Sheet: '%s')", len(records), filePath, xw.sheetName)

	dir := filepath.Dir(filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("XLSXWriter failed to create directory for '%s': %w", filePath, err)
		}
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logging.Logf(logging.Error, "XLSXWriter failed to close workbook for '%s': %v", filePath, err)
		}
	}()

	if xw.sheetName != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, xw.sheetName); err != nil {
			return fmt.Errorf("XLSXWriter failed to name sheet '%s': %w", xw.sheetName, err)
		}
	}

	if len(records) > 0 {
		headers := sortedKeys(records)
		headerRow := make([]interface{}, len(headers))
		for i, h := range headers {
			headerRow[i] = h
		}
		if err := f.SetSheetRow(xw.sheetName, "A1", &headerRow); err != nil {
			return fmt.Errorf("XLSXWriter failed to write header row to sheet '%s': %w", xw.sheetName, err)
		}

		for i, rec := range records {
			rowData := make([]interface{}, len(headers))
			for j, header := range headers {
				rowData[j] = rec[header]
			}
			startCell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return fmt.Errorf("XLSXWriter failed to calculate cell coordinates for row %d: %w", i+2, err)
			}
			if err := f.SetSheetRow(xw.sheetName, startCell, &rowData); err != nil {
				return fmt.Errorf("XLSXWriter failed to write data row %d to sheet '%s': %w", i+1, xw.sheetName, err)
			}
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("XLSXWriter failed to save file '%s': %w", filePath, err)
	}
	return nil
}

// Close implements OutputWriter; the workbook is finalized in Write.
func (xw *XLSXWriter) Close() error {
	return nil
}
