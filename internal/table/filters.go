package table

import "github.com/rebeliceyang/lazykit/internal/models"

// FilterRegistry stores the active filter conditions per field.
//
// A field is present only while it has at least one condition. Field
// keys keep their insertion order so the flattened output, and every
// query built from it, is deterministic.
type FilterRegistry struct {
	order    []string
	sets     map[string][]models.FilterCondition
	notifier *Notifier
}

// NewFilterRegistry creates a registry that reports changes to n.
// A nil notifier disables notifications.
func NewFilterRegistry(n *Notifier) *FilterRegistry {
	return &FilterRegistry{
		sets:     make(map[string][]models.FilterCondition),
		notifier: n,
	}
}

// AddFilters replaces the conditions for field. A field that is already
// filtered keeps its position; a new one goes last. An empty slice
// removes the field. Subscribers are notified on every call, even when
// the new set equals the old one.
func (r *FilterRegistry) AddFilters(field string, conds []models.FilterCondition) error {
	if len(conds) == 0 {
		r.remove(field)
		return r.notify()
	}

	set := make([]models.FilterCondition, len(conds))
	copy(set, conds)
	if _, ok := r.sets[field]; !ok {
		r.order = append(r.order, field)
	}
	r.sets[field] = set
	return r.notify()
}

// ResetFilter removes the conditions for field. It reports whether
// anything was removed and only notifies in that case.
func (r *FilterRegistry) ResetFilter(field string) (bool, error) {
	if !r.remove(field) {
		return false, nil
	}
	return true, r.notify()
}

// HasFilter reports whether field has active conditions
func (r *FilterRegistry) HasFilter(field string) bool {
	_, ok := r.sets[field]
	return ok
}

// Conditions returns a copy of the conditions active for field
func (r *FilterRegistry) Conditions(field string) []models.FilterCondition {
	set, ok := r.sets[field]
	if !ok {
		return nil
	}
	out := make([]models.FilterCondition, len(set))
	copy(out, set)
	return out
}

// GetFilters flattens all active conditions, field by field, in field
// insertion order.
func (r *FilterRegistry) GetFilters() []models.FilterCondition {
	var out []models.FilterCondition
	for _, field := range r.order {
		out = append(out, r.sets[field]...)
	}
	return out
}

// Fields returns the active field keys in insertion order
func (r *FilterRegistry) Fields() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of fields with active conditions
func (r *FilterRegistry) Len() int {
	return len(r.order)
}

func (r *FilterRegistry) remove(field string) bool {
	if _, ok := r.sets[field]; !ok {
		return false
	}
	delete(r.sets, field)
	for i, f := range r.order {
		if f == field {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *FilterRegistry) notify() error {
	if r.notifier == nil {
		return nil
	}
	return r.notifier.NotifyAll()
}
