package recipe

import (
	"testing"

	"github.com/rowforge/recipe/row"
)

func TestStringSteps_Case(t *testing.T) {
	cases := []struct {
		directive string
		in, want  string
	}{
		{"uppercase", "Hello", "HELLO"},
		{"lowercase", "Hello", "hello"},
		{"titlecase", "hello world", "Hello World"},
	}
	for _, c := range cases {
		t.Run(c.directive, func(t *testing.T) {
			rec := mustParse(t, c.directive+" col")
			r := row.FromColumns(row.Column{Name: "col", Value: row.StringValue(c.in)})
			out, err := Execute(rec, []*row.Row{r})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			v, _ := out[0].GetValue("col")
			if v.Str() != c.want {
				t.Fatalf("got %q, want %q", v.Str(), c.want)
			}
		})
	}
}

func TestStringSteps_MissingColumn(t *testing.T) {
	rec := mustParse(t, "uppercase missing")
	r := row.FromColumns(row.Column{Name: "col", Value: row.StringValue("x")})
	if _, err := Execute(rec, []*row.Row{r}); err == nil {
		t.Fatalf("expected a missing-column error")
	}
}
