package theme

import "testing"

func TestGetTheme(t *testing.T) {
	for _, name := range Names() {
		th := GetTheme(name)
		if th.Name == "" || th.FilterActive == "" || th.ConsoleLight == "" {
			t.Errorf("Theme %q has unset colors: %+v", name, th)
		}
	}
	if GetTheme("unknown").Name != "default" {
		t.Error("Expected default theme for unknown name")
	}
}
