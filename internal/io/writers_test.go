package io

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

var writerRecords = []map[string]interface{}{
	{"CDID": "1946", "AB12": "1.0"},
	{"CDID": "1947", "AB12": "2.0"},
}

func TestJSONWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	w := &JSONWriter{}
	if err := w.Write(writerRecords, path); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	var got []map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(got, writerRecords) {
		t.Errorf("round-tripped records = %v, want %v", got, writerRecords)
	}
}

func TestJSONWriterEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := (&JSONWriter{}).Write(nil, path); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("empty output = %q, want %q", data, "[]\n")
	}
}

func TestYAMLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	w := &YAMLWriter{}
	if err := w.Write(writerRecords, path); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	var got []map[string]interface{}
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("Output is not valid YAML: %v", err)
	}
	if !reflect.DeepEqual(got, writerRecords) {
		t.Errorf("round-tripped records = %v, want %v", got, writerRecords)
	}
}

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewXLSXWriter("Data")
	if err := w.Write(writerRecords, path); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Data")
	if err != nil {
		t.Fatalf("GetRows returned error: %v", err)
	}
	want := [][]string{
		{"AB12", "CDID"},
		{"1.0", "1946"},
		{"2.0", "1947"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("sheet rows = %q, want %q", rows, want)
	}
}

func TestXLSXWriterDefaultSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := NewXLSXWriter("").Write(writerRecords, path); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()
	if _, err := f.GetRows("Sheet1"); err != nil {
		t.Errorf("default sheet missing: %v", err)
	}
}
