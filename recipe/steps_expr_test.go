package recipe

import (
	"context"
	"testing"

	"github.com/rowforge/recipe/row"
)

func TestExprSteps_SetColumnArithmetic(t *testing.T) {
	rec := mustParse(t, "set column total qty * price")
	r := row.FromColumns(
		row.Column{Name: "qty", Value: row.IntValue(3)},
		row.Column{Name: "price", Value: row.FloatValue(2.5)},
	)
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := out[0].GetValue("total")
	if !ok || v.Float() != 7.5 {
		t.Fatalf("got (%v, %v), want (7.5, true)", v, ok)
	}
}

func TestExprSteps_SetColumnStringConcat(t *testing.T) {
	rec := mustParse(t, `set column full first + " " + last`)
	r := row.FromColumns(
		row.Column{Name: "first", Value: row.StringValue("Ada")},
		row.Column{Name: "last", Value: row.StringValue("Lovelace")},
	)
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := out[0].GetValue("full")
	if v.Str() != "Ada Lovelace" {
		t.Fatalf("got %q, want %q", v.Str(), "Ada Lovelace")
	}
}

func TestExprSteps_FilterRowIfMatched(t *testing.T) {
	rec := mustParse(t, `filter-row-if-matched col ^a`)
	rows := []*row.Row{
		row.FromColumns(row.Column{Name: "col", Value: row.StringValue("apple")}),
		row.FromColumns(row.Column{Name: "col", Value: row.StringValue("banana")}),
	}
	out, err := Execute(rec, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}
	v, _ := out[0].GetValue("col")
	if v.Str() != "banana" {
		t.Fatalf("matched row should be skipped, kept %q", v.Str())
	}
}

func TestExprSteps_FilterRowIfTrue(t *testing.T) {
	rec := mustParse(t, "filter-row-if-true age < 18")
	rows := []*row.Row{
		row.FromColumns(row.Column{Name: "age", Value: row.IntValue(15)}),
		row.FromColumns(row.Column{Name: "age", Value: row.IntValue(25)}),
	}
	out, err := Execute(rec, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}
	v, _ := out[0].GetValue("age")
	if v.Int() != 25 {
		t.Fatalf("got %v, want 25", v.Int())
	}
}

func TestExprSteps_Sed(t *testing.T) {
	rec := mustParse(t, `sed col s/a/b/g`)
	r := row.FromColumns(row.Column{Name: "col", Value: row.StringValue("banana")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := out[0].GetValue("col")
	if v.Str() != "bbnbnb" {
		t.Fatalf("got %q, want bbnbnb", v.Str())
	}
}

func TestExprSteps_SedNonGlobalReplacesFirstOnly(t *testing.T) {
	rec := mustParse(t, `sed col s/a/b/`)
	r := row.FromColumns(row.Column{Name: "col", Value: row.StringValue("banana")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := out[0].GetValue("col")
	if v.Str() != "bbnana" {
		t.Fatalf("got %q, want bbnana", v.Str())
	}
}

func TestExprSteps_QuantizeInlineRanges(t *testing.T) {
	rec := mustParse(t, "quantize score bucket -10:low,10-20:mid,20-:high")
	rows := []*row.Row{
		row.FromColumns(row.Column{Name: "score", Value: row.IntValue(5)}),
		row.FromColumns(row.Column{Name: "score", Value: row.IntValue(15)}),
		row.FromColumns(row.Column{Name: "score", Value: row.IntValue(25)}),
	}
	out, err := Execute(rec, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"low", "mid", "high"}
	for i, w := range want {
		v, ok := out[i].GetValue("bucket")
		if !ok || v.Str() != w {
			t.Fatalf("row %d: got (%v, %v), want %q", i, v, ok, w)
		}
	}
}

func TestExprSteps_QuantizePreset(t *testing.T) {
	rec := mustParse(t, "quantize score bucket preset:scorebands")
	rt := NewRuntime()
	rt.QuantizePresets["scorebands"] = "-10:low,10-:high"
	r := row.FromColumns(row.Column{Name: "score", Value: row.IntValue(5)})
	out, err := RunWithRuntime(context.Background(), rec, []*row.Row{r}, rt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := out[0].GetValue("bucket")
	if !ok || v.Str() != "low" {
		t.Fatalf("got (%v, %v), want (low, true)", v, ok)
	}
}

func TestExprSteps_FillNullOrEmpty(t *testing.T) {
	rec := mustParse(t, "fill-null-or-empty col unknown")
	r := row.FromColumns(row.Column{Name: "col", Value: row.StringValue("")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := out[0].GetValue("col")
	if v.Str() != "unknown" {
		t.Fatalf("got %q, want unknown", v.Str())
	}
}

func TestExprSteps_FillNullOrEmptyLeavesNonEmpty(t *testing.T) {
	rec := mustParse(t, "fill-null-or-empty col unknown")
	r := row.FromColumns(row.Column{Name: "col", Value: row.StringValue("present")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := out[0].GetValue("col")
	if v.Str() != "present" {
		t.Fatalf("got %q, want present", v.Str())
	}
}
