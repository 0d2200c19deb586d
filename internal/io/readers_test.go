package io

import (
	"errors"
	"reflect"
	"testing"

	"statread/internal/ons"
)

const onsFixture = `"CDID","AB12","XY90"
"Title","First variable","Variable 2"
"PreUnit","£","£"
"Unit","","m"
"Release Date","13-01-2018","13-01-2018"
"Next release","16 February 2018","16 February 2018"
"Important Notes","",""
"1946","1.0",""
"1947","2.0","0.0"
`

func TestONSReader(t *testing.T) {
	path := createTempFile(t, []byte(onsFixture), "ukea.csv")
	reader, err := NewONSReader("")
	if err != nil {
		t.Fatalf("NewONSReader failed: %v", err)
	}

	if got := reader.MetadataRecords(); got != nil {
		t.Errorf("MetadataRecords before Read = %v, want nil", got)
	}

	records, err := reader.Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	wantData := []map[string]interface{}{
		{"CDID": "1946", "AB12": "1.0", "XY90": ""},
		{"CDID": "1947", "AB12": "2.0", "XY90": "0.0"},
	}
	if !reflect.DeepEqual(records, wantData) {
		t.Errorf("records = %v, want %v", records, wantData)
	}

	meta := reader.MetadataRecords()
	if len(meta) != 6 {
		t.Fatalf("got %d metadata records, want 6", len(meta))
	}
	if meta[0]["CDID"] != "Title" {
		t.Errorf("first metadata label = %v, want Title", meta[0]["CDID"])
	}
}

func TestONSReaderNotONS(t *testing.T) {
	path := createTempFile(t, []byte("a,b\n1,2\n"), "plain.csv")
	reader, err := NewONSReader("")
	if err != nil {
		t.Fatalf("NewONSReader failed: %v", err)
	}
	if _, err := reader.Read(path); !errors.Is(err, ons.ErrNotONS) {
		t.Errorf("Read error = %v, want ErrNotONS", err)
	}
}

func TestIMFReader(t *testing.T) {
	// "Côte d'Ivoire" in windows-1252, tab-delimited.
	raw := []byte("ISO\tCountry\nCIV\tC\xf4te d'Ivoire\nGBR\tUnited Kingdom\n")
	path := createTempFile(t, raw, "weo.tsv")

	reader, err := NewIMFReader("", "")
	if err != nil {
		t.Fatalf("NewIMFReader failed: %v", err)
	}
	records, err := reader.Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := []map[string]interface{}{
		{"ISO": "CIV", "Country": "Côte d'Ivoire"},
		{"ISO": "GBR", "Country": "United Kingdom"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestIMFReaderExplicitEncoding(t *testing.T) {
	raw := []byte("ISO\tCountry\nCIV\tC\xf4te d'Ivoire\n")
	path := createTempFile(t, raw, "weo.tsv")

	reader, err := NewIMFReader("\t", "windows-1252")
	if err != nil {
		t.Fatalf("NewIMFReader failed: %v", err)
	}
	records, err := reader.Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(records) != 1 || records[0]["Country"] != "Côte d'Ivoire" {
		t.Errorf("records = %v, want decoded Côte d'Ivoire", records)
	}
}
