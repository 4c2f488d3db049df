package table

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/rebeliceyang/lazykit/internal/models"
)

func TestCollection_EndToEnd(t *testing.T) {
	c := New()
	for _, f := range []string{"name", "age", "city"} {
		c.Declare(models.Column{Field: f, Filterable: true, Sortable: true})
	}

	calls := 0
	c.OnFilterChanged(func() error { calls++; return nil })

	nameCond := models.NewCondition("name", models.OpLike, "a*")
	ageCond := models.NewCondition("age", models.OpGreaterThan, 30)

	if err := c.AddFilters("name", []models.FilterCondition{nameCond}); err != nil {
		t.Fatal(err)
	}
	if err := c.AddFilters("age", []models.FilterCondition{ageCond}); err != nil {
		t.Fatal(err)
	}

	if got := c.GetFilters(); !reflect.DeepEqual(got, []models.FilterCondition{nameCond, ageCond}) {
		t.Errorf("GetFilters() = %v", got)
	}

	removed, err := c.ResetFilter("name")
	if err != nil || !removed {
		t.Fatalf("ResetFilter(name) = %v, %v", removed, err)
	}
	if got := c.GetFilters(); !reflect.DeepEqual(got, []models.FilterCondition{ageCond}) {
		t.Errorf("Expected only the age condition, got %v", got)
	}
	if calls != 3 {
		t.Errorf("Expected 3 notifications, got %d", calls)
	}

	cols := c.Columns()
	if len(cols) != 3 || cols[0].Field != "name" || cols[2].Field != "city" {
		t.Errorf("Columns not in declaration order: %v", cols)
	}
}

func TestCollection_Hooks(t *testing.T) {
	var sortField string
	var sortOrder models.SortOrder
	var filtered []models.FilterCondition

	c := New(
		WithSortHook(func(_ context.Context, field string, order models.SortOrder) error {
			sortField, sortOrder = field, order
			return nil
		}),
		WithFilterHook(func(_ context.Context, f []models.FilterCondition) error {
			filtered = f
			return nil
		}),
	)
	ref := c.Declare(models.Column{Field: "age", Sortable: true, Filterable: true})

	if err := ref.SetFilters(models.NewCondition("age", models.OpLessThan, 40)); err != nil {
		t.Fatal(err)
	}
	if err := c.Filter(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].Column != "age" {
		t.Errorf("Filter hook got %v", filtered)
	}

	if err := ref.Sort(context.Background(), models.SortDescending); err != nil {
		t.Fatal(err)
	}
	if sortField != "age" || sortOrder != models.SortDescending {
		t.Errorf("Sort hook got %q %v", sortField, sortOrder)
	}
	if f, o := c.SortState(); f != "age" || o != models.SortDescending {
		t.Errorf("SortState() = %q %v", f, o)
	}
}

func TestCollection_NoHooksAreInert(t *testing.T) {
	c := New()
	ref := c.Declare(models.Column{Field: "city", Sortable: true, Filterable: true})

	if err := ref.SetFilters(models.NewCondition("city", models.OpEqual, "Oslo")); err != nil {
		t.Fatal(err)
	}
	if err := c.Filter(context.Background()); err != nil {
		t.Errorf("Filter without hook returned %v", err)
	}
	if err := ref.Sort(context.Background(), models.SortAscending); err != nil {
		t.Errorf("Sort without hook returned %v", err)
	}
	if !ref.HasFilter() {
		t.Error("Expected state to update without hooks")
	}
}

func TestCollection_HookErrorReturnedUnchanged(t *testing.T) {
	boom := errors.New("fetch failed")
	c := New(WithFilterHook(func(context.Context, []models.FilterCondition) error { return boom }))

	if err := c.Filter(context.Background()); err != boom {
		t.Errorf("Expected hook error unchanged, got %v", err)
	}
}

func TestCollection_UnsortableColumnIgnoresSort(t *testing.T) {
	called := false
	c := New(WithSortHook(func(context.Context, string, models.SortOrder) error {
		called = true
		return nil
	}))
	ref := c.Declare(models.Column{Field: "notes"})

	_ = ref.Sort(context.Background(), models.SortAscending)
	if called {
		t.Error("Sort hook called for unsortable column")
	}
}

func TestCollection_DeclareWithPopup(t *testing.T) {
	c := New()
	shown := ""
	ref, err := c.DeclareWithPopup(
		models.Column{Field: "name", Filterable: true},
		PopupFunc(func() { shown = "name" }),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.DeclareWithPopup(models.Column{Field: "name"}, PopupFunc(func() {})); !errors.Is(err, ErrDuplicatePopup) {
		t.Errorf("Expected ErrDuplicatePopup, got %v", err)
	}
	if len(c.Columns()) != 1 {
		t.Errorf("Rejected declaration must not add a column, got %d", len(c.Columns()))
	}

	ref.ShowFilter()
	if shown != "name" {
		t.Errorf("Expected name popup shown, got %q", shown)
	}
	if ref.Collection() != c {
		t.Error("ColumnRef does not point back to its collection")
	}

	c.ShowFilter("unfilterable")
}

func TestCollection_Close(t *testing.T) {
	c := New()
	calls := 0
	c.OnFilterChanged(func() error { calls++; return nil })
	c.Close()

	_ = c.AddFilters("x", []models.FilterCondition{models.NewCondition("x", models.OpEqual, 1)})
	if calls != 0 {
		t.Errorf("Expected no notifications after Close, got %d", calls)
	}
}

func TestCollection_PrepareFilterSnapshots(t *testing.T) {
	var got []models.FilterCondition
	c := New(WithFilterHook(func(ctx context.Context, f []models.FilterCondition) error {
		got = f
		return nil
	}))
	_ = c.AddFilters("name", []models.FilterCondition{models.NewCondition("name", models.OpLike, "J*")})

	call := c.PrepareFilter()
	_ = c.AddFilters("age", []models.FilterCondition{models.NewCondition("age", models.OpGreaterThan, 30)})

	if err := call(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Column != "name" {
		t.Errorf("Expected the snapshot taken before the age filter, got %v", got)
	}
}

func TestCollection_PrepareSortRecordsImmediately(t *testing.T) {
	c := New(WithSortHook(func(ctx context.Context, field string, order models.SortOrder) error {
		return nil
	}))
	_ = c.PrepareSort("age", models.SortDescending)

	field, order := c.SortState()
	if field != "age" || order != models.SortDescending {
		t.Errorf("Expected age DESC recorded before the hook runs, got %q %v", field, order)
	}
}

func TestCollection_PreparersRunInRequestOrder(t *testing.T) {
	var order []string
	c := New(
		WithSortPreparer(func(field string, o models.SortOrder) func(context.Context) error {
			order = append(order, "sort "+field)
			return func(context.Context) error { return nil }
		}),
		WithFilterPreparer(func(f []models.FilterCondition) func(context.Context) error {
			order = append(order, fmt.Sprintf("filter %d", len(f)))
			return nil
		}),
	)

	sortCall := c.PrepareSort("age", models.SortAscending)
	_ = c.AddFilters("name", []models.FilterCondition{models.NewCondition("name", models.OpEqual, "x")})
	filterCall := c.PrepareFilter()

	want := []string{"sort age", "filter 1"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Expected preparers called on prepare as %v, got %v", want, order)
	}

	// The second step runs later and may come back nil
	if err := filterCall(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := sortCall(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 {
		t.Errorf("Expected no further preparer calls, got %v", order)
	}
}
