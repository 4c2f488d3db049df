package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
table:
  page_size: 50
console:
  capacity: 4
data:
  driver: postgres
  dsn: postgres://localhost/demo
  table: public.people
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Table.PageSize != 50 {
		t.Errorf("Expected page size 50, got %d", cfg.Table.PageSize)
	}
	if cfg.Console.Capacity != 4 {
		t.Errorf("Expected console capacity 4, got %d", cfg.Console.Capacity)
	}
	if cfg.Console.IntervalMs != 2000 {
		t.Errorf("Expected default interval 2000, got %d", cfg.Console.IntervalMs)
	}
	if cfg.Data.Driver != "postgres" || cfg.Data.Table != "public.people" {
		t.Errorf("Unexpected data config: %+v", cfg.Data)
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  theme: default\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LAZYKIT_UI_THEME", "catppuccin")
	t.Setenv("LAZYKIT_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.UI.Theme != "catppuccin" {
		t.Errorf("Expected env theme override, got %q", cfg.UI.Theme)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected env log level override, got %q", cfg.Log.Level)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data:\n  driver: oracle\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("Expected validation error for unknown driver")
	}
}

func TestGetDefaults_Valid(t *testing.T) {
	if err := GetDefaults().Validate(); err != nil {
		t.Errorf("Defaults failed validation: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	if got, err := ResolvePath("/tmp/x.yaml", "presets.yaml"); err != nil || got != "/tmp/x.yaml" {
		t.Errorf("ResolvePath = %q, %v", got, err)
	}
}
