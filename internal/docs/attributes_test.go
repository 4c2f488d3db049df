package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rebeliceyang/lazykit/internal/models"
	"gopkg.in/yaml.v3"
)

func TestComponents(t *testing.T) {
	got := strings.Join(Components(), ",")
	if got != "column,console,filter-popup,table" {
		t.Errorf("Unexpected components: %s", got)
	}
}

func TestAttributes_Console(t *testing.T) {
	items, err := Attributes("Console")
	if err != nil {
		t.Fatal(err)
	}
	var capacity string
	for _, it := range items {
		if it.Name == "Capacity" {
			capacity = it.DefaultValue
		}
	}
	if capacity != "8" {
		t.Errorf("Expected console capacity default 8, got %q", capacity)
	}

	if _, err := Attributes("carousel"); err == nil {
		t.Error("Expected error for unknown component")
	}
}

func TestRender(t *testing.T) {
	out, err := Render("column")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Name", "Filterable", "FilterKind"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected rendered table to contain %q", want)
		}
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode("table", "json")
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON []models.AttributeItem
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatal(err)
	}

	data, err = Encode("table", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML []models.AttributeItem
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatal(err)
	}

	if len(fromJSON) != len(fromYAML) || fromJSON[1].Name != "OnSort" {
		t.Errorf("Encoded tables differ: %d json vs %d yaml", len(fromJSON), len(fromYAML))
	}

	if _, err := Encode("table", "toml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}
