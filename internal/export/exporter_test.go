package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

var (
	testColumns = []string{"id", "name", "city"}
	testRows    = [][]string{
		{"1", "Alice", "Oslo"},
		{"2", "Bob, \"the builder\"", "Bergen"},
	}
)

func TestExportToCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "test.csv")

	if err := ExportToCSV(testColumns, testRows, csvPath); err != nil {
		t.Fatalf("ExportToCSV failed: %v", err)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) != 3 { // header + 2 rows
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0][1] != "name" {
		t.Errorf("Expected header 'name', got %q", records[0][1])
	}
	if records[2][1] != `Bob, "the builder"` {
		t.Errorf("Special characters not preserved: %q", records[2][1])
	}
}

func TestExportToJSON(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "test.json")

	if err := ExportToJSON(testColumns, testRows, jsonPath); err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Failed to read JSON: %v", err)
	}

	var records []map[string]string
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0]["city"] != "Oslo" {
		t.Errorf("Expected city Oslo, got %q", records[0]["city"])
	}
}

func TestExport_RaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	rows := [][]string{{"1", "only two"}}

	if err := Export("csv", testColumns, rows, path); err == nil {
		t.Error("Expected error for ragged CSV row")
	}
	if err := Export("json", testColumns, rows, path); err == nil {
		t.Error("Expected error for ragged JSON row")
	}
	if err := Export("xml", testColumns, testRows, path); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestExportToCSV_BadPath(t *testing.T) {
	if err := ExportToCSV(testColumns, testRows, "/nonexistent/dir/test.csv"); err == nil {
		t.Error("Expected error for invalid path")
	}
}
