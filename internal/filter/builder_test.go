package filter

import (
	"reflect"
	"testing"

	"github.com/rebeliceyang/lazykit/internal/models"
)

func TestBuildWhere_Empty(t *testing.T) {
	where, args, err := NewBuilder(Postgres).BuildWhere(nil)
	if err != nil || where != "" || args != nil {
		t.Errorf("BuildWhere(nil) = %q, %v, %v", where, args, err)
	}
}

func TestBuildWhere_Dialects(t *testing.T) {
	conds := []models.FilterCondition{
		models.NewCondition("name", models.OpILike, "a*"),
		models.NewCondition("age", models.OpGreaterThan, 30),
		models.NewCondition("city", models.OpIn, "Oslo, Bergen"),
		models.NewCondition("email", models.OpIsNull, nil),
	}

	tests := []struct {
		dialect Dialect
		want    string
	}{
		{Postgres, `WHERE "name" ILIKE $1 AND "age" > $2 AND "city" IN ($3, $4) AND "email" IS NULL`},
		{SQLite, `WHERE "name" LIKE ? AND "age" > ? AND "city" IN (?, ?) AND "email" IS NULL`},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			where, args, err := NewBuilder(tt.dialect).BuildWhere(conds)
			if err != nil {
				t.Fatalf("BuildWhere failed: %v", err)
			}
			if where != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, where)
			}
			wantArgs := []interface{}{"a%", 30, "Oslo", "Bergen"}
			if !reflect.DeepEqual(args, wantArgs) {
				t.Errorf("Expected args %v, got %v", wantArgs, args)
			}
		})
	}
}

func TestBuildWhere_Errors(t *testing.T) {
	b := NewBuilder(Postgres)
	if _, _, err := b.BuildWhere([]models.FilterCondition{models.NewCondition("x", "~~", 1)}); err == nil {
		t.Error("Expected error for unsupported operator")
	}
	if _, _, err := b.BuildWhere([]models.FilterCondition{models.NewCondition("x", models.OpIn, "")}); err == nil {
		t.Error("Expected error for empty IN list")
	}
}

func TestBuildSelect(t *testing.T) {
	b := NewBuilder(Postgres)
	conds := []models.FilterCondition{models.NewCondition("age", models.OpLessOrEqual, 40)}

	query, args, err := b.BuildSelect("public.people", conds, "name", models.SortDescending, 20, 40)
	if err != nil {
		t.Fatal(err)
	}
	want := `SELECT * FROM "public"."people" WHERE "age" <= $1 ORDER BY "name" DESC LIMIT 20 OFFSET 40`
	if query != want {
		t.Errorf("Expected %q, got %q", want, query)
	}
	if len(args) != 1 {
		t.Errorf("Expected 1 arg, got %d", len(args))
	}

	count, _, err := b.BuildCount("people", nil)
	if err != nil || count != `SELECT COUNT(*) FROM "people"` {
		t.Errorf("BuildCount = %q, %v", count, err)
	}

	if got := b.BuildOrderBy("name", models.SortNone); got != "" {
		t.Errorf("Expected empty ORDER BY for SortNone, got %q", got)
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := QuoteIdent(`we"ird`); got != `"we""ird"` {
		t.Errorf("QuoteIdent = %s", got)
	}
}

func TestOperatorsForKind(t *testing.T) {
	if !ValidOperator(models.FilterText, models.OpLike) {
		t.Error("LIKE should be valid for text")
	}
	if ValidOperator(models.FilterBool, models.OpGreaterThan) {
		t.Error("> should not be valid for bool")
	}
	if !ValidOperator(models.FilterEnum, models.OpIn) {
		t.Error("IN should be valid for enum")
	}
}

func TestParseDialect(t *testing.T) {
	if d, err := ParseDialect("sqlite3"); err != nil || d != SQLite {
		t.Errorf("ParseDialect(sqlite3) = %v, %v", d, err)
	}
	if _, err := ParseDialect("oracle"); err == nil {
		t.Error("Expected error for unknown driver")
	}
}
