// Package table holds the state behind a filterable, sortable table:
// the declared columns, one filter popup per filterable column, the
// active filter conditions per field and the subscribers that re-render
// when those conditions change.
//
// Everything here runs on the UI's event loop. Nothing is locked, and
// the upward sort and filter hooks are the only places that block.
package table

import (
	"context"
	"log/slog"

	"github.com/rebeliceyang/lazykit/internal/models"
)

// SortHook is called when a column asks for a new sort order
type SortHook func(ctx context.Context, field string, order models.SortOrder) error

// FilterHook is called with the flattened filter conditions
type FilterHook func(ctx context.Context, filters []models.FilterCondition) error

// SortPreparer is a sort hook in two steps. The first runs on the event
// loop, in request order; the call it returns may run anywhere.
type SortPreparer func(field string, order models.SortOrder) func(context.Context) error

// FilterPreparer is the two-step form of FilterHook
type FilterPreparer func(filters []models.FilterCondition) func(context.Context) error

// Collection aggregates the column, filter and popup registries of one
// table and routes sort and filter requests to the table's data source.
type Collection struct {
	columns  *ColumnRegistry
	filters  *FilterRegistry
	popups   *PopupTable
	notifier *Notifier

	onSort   SortPreparer
	onFilter FilterPreparer
	logger   *slog.Logger

	sortField string
	sortOrder models.SortOrder
}

// Option configures a Collection
type Option func(*Collection)

// WithSortHook sets the sort hook
func WithSortHook(h SortHook) Option {
	return func(c *Collection) {
		if h == nil {
			c.onSort = nil
			return
		}
		c.onSort = func(field string, order models.SortOrder) func(context.Context) error {
			return func(ctx context.Context) error { return h(ctx, field, order) }
		}
	}
}

// WithFilterHook sets the filter hook
func WithFilterHook(h FilterHook) Option {
	return func(c *Collection) {
		if h == nil {
			c.onFilter = nil
			return
		}
		c.onFilter = func(filters []models.FilterCondition) func(context.Context) error {
			return func(ctx context.Context) error { return h(ctx, filters) }
		}
	}
}

// WithSortPreparer sets a sort hook whose first step runs inside
// PrepareSort. Use it when the receiver must see requests in order.
func WithSortPreparer(p SortPreparer) Option {
	return func(c *Collection) { c.onSort = p }
}

// WithFilterPreparer sets a filter hook whose first step runs inside
// PrepareFilter.
func WithFilterPreparer(p FilterPreparer) Option {
	return func(c *Collection) { c.onFilter = p }
}

// WithLogger sets the logger used for registry events
func WithLogger(l *slog.Logger) Option {
	return func(c *Collection) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty collection
func New(opts ...Option) *Collection {
	n := NewNotifier()
	c := &Collection{
		columns:  NewColumnRegistry(),
		filters:  NewFilterRegistry(n),
		popups:   NewPopupTable(),
		notifier: n,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Declare registers col and returns the handle the column keeps to
// reach the shared collection.
func (c *Collection) Declare(col models.Column) *ColumnRef {
	c.columns.Add(col)
	c.logger.Debug("column declared", "field", col.Field, "filterable", col.Filterable)
	return &ColumnRef{Column: col, coll: c}
}

// DeclareWithPopup registers col together with its filter popup.
// The column is not added when the popup registration fails.
func (c *Collection) DeclareWithPopup(col models.Column, popup Popup) (*ColumnRef, error) {
	if err := c.popups.Register(col.Field, popup); err != nil {
		return nil, err
	}
	return c.Declare(col), nil
}

// Columns returns the declared columns in declaration order
func (c *Collection) Columns() []models.Column {
	return c.columns.All()
}

// Column returns the column declared under field
func (c *Collection) Column(field string) (models.Column, bool) {
	return c.columns.Lookup(field)
}

// RegisterPopup binds a filter popup to field
func (c *Collection) RegisterPopup(field string, popup Popup) error {
	if err := c.popups.Register(field, popup); err != nil {
		c.logger.Warn("popup registration rejected", "field", field, "error", err)
		return err
	}
	return nil
}

// ShowFilter opens the popup for field; fields without one are ignored
func (c *Collection) ShowFilter(field string) {
	c.popups.Show(field)
}

// HasPopup reports whether field has a filter popup
func (c *Collection) HasPopup(field string) bool {
	return c.popups.Has(field)
}

// OnFilterChanged subscribes fn to filter changes
func (c *Collection) OnFilterChanged(fn func() error) {
	c.notifier.Subscribe(fn)
}

// AddFilters replaces the conditions for field and notifies subscribers
func (c *Collection) AddFilters(field string, conds []models.FilterCondition) error {
	c.logger.Debug("filters set", "field", field, "count", len(conds))
	return c.filters.AddFilters(field, conds)
}

// ResetFilter clears the conditions for field
func (c *Collection) ResetFilter(field string) (bool, error) {
	removed, err := c.filters.ResetFilter(field)
	if removed {
		c.logger.Debug("filter reset", "field", field)
	}
	return removed, err
}

// HasFilter reports whether field has active conditions
func (c *Collection) HasFilter(field string) bool {
	return c.filters.HasFilter(field)
}

// FilterConditions returns the conditions active for field
func (c *Collection) FilterConditions(field string) []models.FilterCondition {
	return c.filters.Conditions(field)
}

// GetFilters returns every active condition in field order
func (c *Collection) GetFilters() []models.FilterCondition {
	return c.filters.GetFilters()
}

// FilteredFields returns the fields with active conditions
func (c *Collection) FilteredFields() []string {
	return c.filters.Fields()
}

// SortState returns the last requested sort
func (c *Collection) SortState() (string, models.SortOrder) {
	return c.sortField, c.sortOrder
}

// Sort records the requested order and forwards it to the sort hook.
// Without a hook only the recorded state changes.
func (c *Collection) Sort(ctx context.Context, field string, order models.SortOrder) error {
	return c.PrepareSort(field, order)(ctx)
}

// PrepareSort records the requested order now and returns the call that
// forwards it to the sort hook. The returned call touches no collection
// state, so it may run off the event loop.
func (c *Collection) PrepareSort(field string, order models.SortOrder) func(context.Context) error {
	c.sortField, c.sortOrder = field, order
	if order == models.SortNone {
		c.sortField = ""
	}
	if c.onSort == nil {
		return noop
	}
	return orNoop(c.onSort(field, order))
}

// Filter forwards the current conditions to the filter hook
func (c *Collection) Filter(ctx context.Context) error {
	return c.PrepareFilter()(ctx)
}

// PrepareFilter snapshots the current conditions and returns the call
// that forwards them to the filter hook.
func (c *Collection) PrepareFilter() func(context.Context) error {
	if c.onFilter == nil {
		return noop
	}
	return orNoop(c.onFilter(c.GetFilters()))
}

func noop(context.Context) error { return nil }

func orNoop(call func(context.Context) error) func(context.Context) error {
	if call == nil {
		return noop
	}
	return call
}

// Close drops every subscriber
func (c *Collection) Close() {
	c.notifier.Clear()
}

// ColumnRef is a declared column together with the collection it was
// declared in.
type ColumnRef struct {
	Column models.Column
	coll   *Collection
}

// Collection returns the owning collection
func (r *ColumnRef) Collection() *Collection {
	return r.coll
}

// ShowFilter opens this column's popup
func (r *ColumnRef) ShowFilter() {
	r.coll.ShowFilter(r.Column.Field)
}

// HasFilter reports whether this column is filtered
func (r *ColumnRef) HasFilter() bool {
	return r.coll.HasFilter(r.Column.Field)
}

// SetFilters replaces this column's conditions
func (r *ColumnRef) SetFilters(conds ...models.FilterCondition) error {
	return r.coll.AddFilters(r.Column.Field, conds)
}

// Reset clears this column's conditions
func (r *ColumnRef) Reset() (bool, error) {
	return r.coll.ResetFilter(r.Column.Field)
}

// Sort requests a sort on this column. Unsortable columns are ignored.
func (r *ColumnRef) Sort(ctx context.Context, order models.SortOrder) error {
	if !r.Column.Sortable {
		return nil
	}
	return r.coll.Sort(ctx, r.Column.Field, order)
}
