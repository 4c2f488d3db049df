package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rebeliceyang/lazykit/internal/datasource"
	"github.com/rebeliceyang/lazykit/internal/models"
	"github.com/rebeliceyang/lazykit/internal/table"
)

func testCollection() *table.Collection {
	coll := table.New()
	coll.Declare(models.Column{Field: "name", Filterable: true, FilterKind: models.FilterText, DataType: "TEXT"})
	coll.Declare(models.Column{Field: "age", Filterable: true, FilterKind: models.FilterNumber, DataType: "INTEGER"})
	coll.Declare(models.Column{Field: "email", Filterable: true, FilterKind: models.FilterText, DataType: "TEXT"})
	coll.Declare(models.Column{Field: "city", Filterable: true, FilterKind: models.FilterEnum, Choices: []string{"Oslo", "Rome"}, DataType: "TEXT"})
	coll.Declare(models.Column{Field: "notes", FilterKind: models.FilterText, DataType: "TEXT"})
	return coll
}

func TestParseFilterFlag(t *testing.T) {
	coll := testCollection()

	tests := []struct {
		raw     string
		want    models.FilterCondition
		wantErr bool
	}{
		{"age=>=:18", models.FilterCondition{Column: "age", Operator: models.OpGreaterOrEqual, Value: int64(18), Type: "INTEGER"}, false},
		{"name=like:J*", models.FilterCondition{Column: "name", Operator: models.OpLike, Value: "J*", Type: "TEXT"}, false},
		{"city=IN:Oslo,Rome", models.FilterCondition{Column: "city", Operator: models.OpIn, Value: []interface{}{"Oslo", "Rome"}, Type: "TEXT"}, false},
		{"age=LIKE:3*", models.FilterCondition{}, true},
		{"age=IN:1,2", models.FilterCondition{}, true},
		{"name=>:J", models.FilterCondition{}, true},
		{"notes=LIKE:x*", models.FilterCondition{}, true},
		{"email=IS NULL", models.FilterCondition{Column: "email", Operator: models.OpIsNull, Type: "TEXT"}, false},
		{"age=>:old", models.FilterCondition{}, true},
		{"age=~:1", models.FilterCondition{}, true},
		{"=:1", models.FilterCondition{}, true},
		{"nofield", models.FilterCondition{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseFilterFlag(tt.raw, coll)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFilterFlag() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFilterFlag() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseFilterFlag_UnknownColumn(t *testing.T) {
	_, err := parseFilterFlag("height=>:1", testCollection())
	if !errors.Is(err, datasource.ErrUnknownColumn) {
		t.Errorf("Expected ErrUnknownColumn, got %v", err)
	}
}

func TestParseFilterFlags_GroupsByField(t *testing.T) {
	grouped, order, err := parseFilterFlags([]string{"age=>:18", "name=LIKE:A*", "age=<:65"}, testCollection())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(order, []string{"age", "name"}) {
		t.Errorf("Unexpected field order %v", order)
	}
	if len(grouped["age"]) != 2 {
		t.Errorf("Expected 2 age conditions, got %v", grouped["age"])
	}
}

func TestParseSortFlag(t *testing.T) {
	tests := []struct {
		raw       string
		wantField string
		wantOrder models.SortOrder
		wantErr   bool
	}{
		{"", "", models.SortNone, false},
		{"age", "age", models.SortAscending, false},
		{"age:DESC", "age", models.SortDescending, false},
		{"age:sideways", "", models.SortNone, true},
	}
	for _, tt := range tests {
		field, order, err := parseSortFlag(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSortFlag(%q) error = %v", tt.raw, err)
			continue
		}
		if field != tt.wantField || order != tt.wantOrder {
			t.Errorf("parseSortFlag(%q) = %q %v", tt.raw, field, order)
		}
	}
}

func TestExportCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "adults.csv")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{
		"export",
		"--dsn", "file:export-test?mode=memory&cache=shared",
		"--out", path,
		"--filter", "age=>=:40",
		"--sort", "age:desc",
	})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("export failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Exported") {
		t.Errorf("Expected a summary line, got %q", out.String())
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) < 2 {
		t.Fatalf("Expected a header and rows, got %d records", len(records))
	}
	if records[0][2] != "age" {
		t.Errorf("Unexpected header %v", records[0])
	}
}

func TestAttrsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"attrs"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "console") {
		t.Errorf("Expected component list, got %q", out.String())
	}
}
