// Package presets saves named filter sets to YAML and replays them
// into a table.
package presets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazykit/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned for an unknown preset ID
var ErrNotFound = errors.New("preset not found")

// FilterState is the read side of a table's filter registry
type FilterState interface {
	FilteredFields() []string
	FilterConditions(field string) []models.FilterCondition
}

// FilterTarget is a filter registry a preset can be applied to
type FilterTarget interface {
	FilterState
	AddFilters(field string, conds []models.FilterCondition) error
	ResetFilter(field string) (bool, error)
}

// Manager manages filter presets
type Manager struct {
	path    string
	presets []models.Preset
}

// NewManager creates a manager backed by path
func NewManager(path string) (*Manager, error) {
	m := &Manager{
		path:    path,
		presets: []models.Preset{},
	}

	// Load existing presets if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load presets: %w", err)
		}
	}

	return m, nil
}

// Path returns the backing file
func (m *Manager) Path() string {
	return m.path
}

// Load loads presets from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.presets); err != nil {
		return fmt.Errorf("failed to parse presets: %w", err)
	}

	return nil
}

// Save writes presets to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.presets)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}

	return nil
}

// Add saves the current filters of state under name
func (m *Manager) Add(name, description, table string, state FilterState) (*models.Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("preset name cannot be empty")
	}

	fields := state.FilteredFields()
	if len(fields) == 0 {
		return nil, fmt.Errorf("no active filters to save")
	}

	// Names are unique per table, case-insensitive
	for _, p := range m.presets {
		if p.Table == table && strings.EqualFold(p.Name, name) {
			return nil, fmt.Errorf("a preset named '%s' already exists for %s", name, table)
		}
	}

	filters := make(map[string][]models.FilterCondition, len(fields))
	for _, f := range fields {
		filters[f] = state.FilterConditions(f)
	}

	now := time.Now()
	preset := models.Preset{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Table:       table,
		Fields:      fields,
		Filters:     filters,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.presets = append(m.presets, preset)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save preset: %w", err)
	}

	return &preset, nil
}

// Apply replaces target's filters with the preset's
func (m *Manager) Apply(id string, target FilterTarget) error {
	p, err := m.Get(id)
	if err != nil {
		return err
	}

	for _, f := range target.FilteredFields() {
		if _, keep := p.Filters[f]; keep {
			continue
		}
		if _, err := target.ResetFilter(f); err != nil {
			return fmt.Errorf("failed to reset %s: %w", f, err)
		}
	}
	for _, f := range p.Fields {
		if err := target.AddFilters(f, p.Filters[f]); err != nil {
			return fmt.Errorf("failed to apply %s: %w", f, err)
		}
	}

	return m.RecordUsage(id)
}

// Delete deletes a preset by ID
func (m *Manager) Delete(id string) error {
	for i, p := range m.presets {
		if p.ID == id {
			m.presets = append(m.presets[:i], m.presets[i+1:]...)
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save presets after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Get returns a preset by ID
func (m *Manager) Get(id string) (*models.Preset, error) {
	for _, p := range m.presets {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Find returns a preset by ID or case-insensitive name
func (m *Manager) Find(ref string) (*models.Preset, error) {
	for _, p := range m.presets {
		if p.ID == ref || strings.EqualFold(p.Name, ref) {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// GetAll returns all presets
func (m *Manager) GetAll() []models.Preset {
	return m.presets
}

// ForTable returns the presets saved for table
func (m *Manager) ForTable(table string) []models.Preset {
	var out []models.Preset
	for _, p := range m.presets {
		if p.Table == table {
			out = append(out, p)
		}
	}
	return out
}

// Search searches presets by name or description
func (m *Manager) Search(query string) []models.Preset {
	if query == "" {
		return m.presets
	}

	query = strings.ToLower(query)
	var results []models.Preset
	for _, p := range m.presets {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			results = append(results, p)
		}
	}
	return results
}

// RecordUsage updates usage statistics for a preset
func (m *Manager) RecordUsage(id string) error {
	for i, p := range m.presets {
		if p.ID == id {
			m.presets[i].UsageCount++
			m.presets[i].LastUsed = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save usage statistics: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// GetMostUsed returns the most frequently used presets
func (m *Manager) GetMostUsed(limit int) []models.Preset {
	sorted := make([]models.Preset, len(m.presets))
	copy(sorted, m.presets)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}
