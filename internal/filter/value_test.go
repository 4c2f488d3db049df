package filter

import (
	"reflect"
	"testing"

	"github.com/rebeliceyang/lazykit/internal/models"
)

var (
	nameCol = models.Column{Field: "name", FilterKind: models.FilterText}
	ageCol  = models.Column{Field: "age", FilterKind: models.FilterNumber}
	cityCol = models.Column{Field: "city", FilterKind: models.FilterEnum, Choices: []string{"Oslo", "Rome"}}
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		col     models.Column
		op      models.FilterOperator
		raw     string
		want    interface{}
		wantErr bool
	}{
		{"integer", ageCol, models.OpEqual, "30", int64(30), false},
		{"float", ageCol, models.OpGreaterThan, " 1.5 ", 1.5, false},
		{"not a number", ageCol, models.OpEqual, "x", nil, true},
		{"number list", ageCol, models.OpIn, "1, 2,", []interface{}{int64(1), int64(2)}, false},
		{"empty list", ageCol, models.OpIn, " , ", nil, true},
		{"like keeps pattern", nameCol, models.OpLike, "J*", "J*", false},
		{"empty text", nameCol, models.OpEqual, "  ", nil, true},
		{"enum choice", cityCol, models.OpEqual, "Oslo", "Oslo", false},
		{"enum unknown", cityCol, models.OpEqual, "Paris", nil, true},
		{"bool", models.Column{FilterKind: models.FilterBool}, models.OpEqual, "true", true, false},
		{"date", models.Column{FilterKind: models.FilterDate}, models.OpLessThan, "2020-01-31", "2020-01-31", false},
		{"bad date", models.Column{FilterKind: models.FilterDate}, models.OpLessThan, "31/01/2020", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.col, tt.op, tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
