package table

import (
	"errors"
	"fmt"
)

// ErrDuplicatePopup is returned when a field already has a popup
var ErrDuplicatePopup = errors.New("filter popup already registered")

// Popup is a filter input surface that can be opened on demand
type Popup interface {
	Show()
}

// PopupFunc adapts a plain function to Popup
type PopupFunc func()

// Show calls f
func (f PopupFunc) Show() { f() }

// PopupTable maps field keys to their filter popup. Entries are never
// removed; a popup lives as long as the owning collection.
type PopupTable struct {
	popups map[string]Popup
}

// NewPopupTable creates an empty table
func NewPopupTable() *PopupTable {
	return &PopupTable{popups: make(map[string]Popup)}
}

// Register binds popup to field. A second registration for the same
// field fails and leaves the first one in place.
func (t *PopupTable) Register(field string, popup Popup) error {
	if _, ok := t.popups[field]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePopup, field)
	}
	t.popups[field] = popup
	return nil
}

// Show opens the popup for field. Unknown fields are ignored.
func (t *PopupTable) Show(field string) {
	if p, ok := t.popups[field]; ok {
		p.Show()
	}
}

// Has reports whether field has a popup
func (t *PopupTable) Has(field string) bool {
	_, ok := t.popups[field]
	return ok
}

// Len returns the number of registered popups
func (t *PopupTable) Len() int {
	return len(t.popups)
}
