package recipe

import (
	"testing"

	"github.com/rowforge/recipe/row"
)

func TestDateSteps_FormatDate(t *testing.T) {
	rec := mustParse(t, "format-date d yyyy-MM-dd MM/dd/yyyy")
	r := row.FromColumns(row.Column{Name: "d", Value: row.StringValue("2024-03-07")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := out[0].GetValue("d")
	if v.Str() != "03/07/2024" {
		t.Fatalf("got %q, want 03/07/2024", v.Str())
	}
}

func TestDateSteps_FormatDateAuto(t *testing.T) {
	rec := mustParse(t, "format-date d auto yyyy-MM-dd")
	r := row.FromColumns(row.Column{Name: "d", Value: row.StringValue("March 7, 2024")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := out[0].GetValue("d")
	if v.Str() != "2024-03-07" {
		t.Fatalf("got %q, want 2024-03-07", v.Str())
	}
}

func TestDateSteps_FormatUnixTimestamp(t *testing.T) {
	rec := mustParse(t, "format-unix-timestamp t yyyy-MM-dd")
	r := row.FromColumns(row.Column{Name: "t", Value: row.IntValue(1709769600)})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := out[0].GetValue("t")
	if v.Str() != "2024-03-07" {
		t.Fatalf("got %q, want 2024-03-07", v.Str())
	}
}

func TestDateSteps_UnrecognizedPatternIsParseError(t *testing.T) {
	_, err := ParseRecipe("format-date d foo bar", DefaultRegistry())
	if err == nil {
		t.Fatalf("expected a parse error for an unrecognized date pattern")
	}
}
