package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
)

// ExportToCSV writes a header row and the data rows to a CSV file
func ExportToCSV(columns []string, rows [][]string, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ExportToJSON writes rows as an array of column -> value objects
func ExportToJSON(columns []string, rows [][]string, path string) error {
	records := make([]map[string]string, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
		rec := make(map[string]string, len(columns))
		for j, col := range columns {
			rec[col] = row[j]
		}
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// Export writes rows in format ("csv" or "json")
func Export(format string, columns []string, rows [][]string, path string) error {
	switch format {
	case "csv":
		return ExportToCSV(columns, rows, path)
	case "json":
		return ExportToJSON(columns, rows, path)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}
