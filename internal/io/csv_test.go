package io

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"statread/internal/extract"
)

func TestNewCSVReader(t *testing.T) {
	testCases := []struct {
		name      string
		delimiter string
		wantDelim rune
		wantErr   bool
	}{
		{name: "Default", delimiter: "", wantDelim: ','},
		{name: "Tab", delimiter: "\t", wantDelim: '\t'},
		{name: "Semicolon", delimiter: ";", wantDelim: ';'},
		{name: "Multi-character", delimiter: ",,", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader, err := NewCSVReader(tc.delimiter, false)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("NewCSVReader(%q) error = nil, want error", tc.delimiter)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCSVReader(%q) unexpected error: %v", tc.delimiter, err)
			}
			if reader.Delimiter != tc.wantDelim {
				t.Errorf("Delimiter = %q, want %q", reader.Delimiter, tc.wantDelim)
			}
		})
	}
}

func TestCSVReaderRead(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		delimiter   string
		widthCheck  bool
		wantRecords []map[string]interface{}
		wantErr     error
	}{
		{
			name:    "Plain records",
			content: "id,name\n1,Alice\n2,Bob\n",
			wantRecords: []map[string]interface{}{
				{"id": "1", "name": "Alice"},
				{"id": "2", "name": "Bob"},
			},
		},
		{
			name:    "Multi-line quoted cell",
			content: "\"Region\",\"2019\"\n\"North,\nEast\",\"100\"\n",
			wantRecords: []map[string]interface{}{
				{"Region": "North,\nEast", "2019": "100"},
			},
		},
		{
			name:      "Semicolon delimiter",
			content:   "a;b\n1;2\n",
			delimiter: ";",
			wantRecords: []map[string]interface{}{
				{"a": "1", "b": "2"},
			},
		},
		{
			name:        "Empty file",
			content:     "",
			wantRecords: []map[string]interface{}{},
		},
		{
			name:        "Header only",
			content:     "a,b\n",
			wantRecords: []map[string]interface{}{},
		},
		{
			name:    "Ragged row fails mapping",
			content: "a,b,c\n1,2\n",
			wantErr: extract.ErrInconsistentRowWidth,
		},
		{
			name:       "Ragged row fails width check",
			content:    "a,b,c\n1,2\n",
			widthCheck: true,
			wantErr:    extract.ErrInconsistentRowWidth,
		},
		{
			name:    "Unterminated quote",
			content: "a,b\n\"open,1\n",
			wantErr: extract.ErrMalformedQuoting,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := createTempFile(t, []byte(tc.content), "input.csv")
			reader, err := NewCSVReader(tc.delimiter, tc.widthCheck)
			if err != nil {
				t.Fatalf("NewCSVReader failed: %v", err)
			}

			records, err := reader.Read(path)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Read error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if !reflect.DeepEqual(records, tc.wantRecords) {
				t.Errorf("records = %v, want %v", records, tc.wantRecords)
			}
		})
	}
}

func TestCSVReaderMissingFile(t *testing.T) {
	reader, err := NewCSVReader("", false)
	if err != nil {
		t.Fatalf("NewCSVReader failed: %v", err)
	}
	if _, err := reader.Read(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("Read on missing file returned nil error")
	}
}

func TestCSVWriter(t *testing.T) {
	records := []map[string]interface{}{
		{"CDID": "1946", "AB12": "1.0", "XY90": ""},
		{"CDID": "1947", "AB12": "2.0", "XY90": "0.0"},
	}
	path := filepath.Join(t.TempDir(), "out", "data.csv")

	writer, err := NewCSVWriter("")
	if err != nil {
		t.Fatalf("NewCSVWriter failed: %v", err)
	}
	if err := writer.Write(records, path); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse output: %v", err)
	}
	want := [][]string{
		{"AB12", "CDID", "XY90"}, // sorted header union
		{"1.0", "1946", ""},
		{"2.0", "1947", "0.0"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("output rows = %q, want %q", rows, want)
	}
}

func TestCSVWriterRejectsSecondPath(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewCSVWriter("")
	if err != nil {
		t.Fatalf("NewCSVWriter failed: %v", err)
	}
	defer writer.Close()

	rec := []map[string]interface{}{{"a": "1"}}
	if err := writer.Write(rec, filepath.Join(dir, "one.csv")); err != nil {
		t.Fatalf("first Write returned error: %v", err)
	}
	err = writer.Write(rec, filepath.Join(dir, "two.csv"))
	if err == nil || !strings.Contains(err.Error(), "close the writer first") {
		t.Errorf("second Write error = %v, want path conflict", err)
	}
}
