package recipe

import (
	"errors"
	"testing"

	"github.com/rowforge/recipe/row"
)

func mustParse(t *testing.T, text string) *Recipe {
	t.Helper()
	rec, err := ParseRecipe(text, DefaultRegistry())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return rec
}

func TestExecute_Swap(t *testing.T) {
	rec := mustParse(t, "swap a b")
	r := row.FromColumns(
		row.Column{Name: "a", Value: row.IntValue(1)},
		row.Column{Name: "b", Value: row.StringValue("s")},
	)
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].GetValueAt(0).String() != "s" || out[0].GetValueAt(1).Int() != 1 {
		t.Fatalf("swap did not exchange values")
	}
}

func TestExecute_SwapMissingColumnFails(t *testing.T) {
	rec := mustParse(t, "swap a b")
	r := row.FromColumns(
		row.Column{Name: "a", Value: row.IntValue(1)},
		row.Column{Name: "c", Value: row.StringValue("s")},
	)
	_, err := Execute(rec, []*row.Row{r})
	if err == nil {
		t.Fatalf("expected a step error")
	}
	var se *StepError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StepError, got %T", err)
	}
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestExecute_FilterPreservesOrder(t *testing.T) {
	rec := mustParse(t, "filter-row-if-matched c ^x")
	rows := []*row.Row{
		row.FromColumns(row.Column{Name: "c", Value: row.StringValue("xa")}),
		row.FromColumns(row.Column{Name: "c", Value: row.StringValue("yb")}),
		row.FromColumns(row.Column{Name: "c", Value: row.StringValue("xc")}),
	}
	out, err := Execute(rec, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}
	if v, _ := out[0].GetValue("c"); v.Str() != "yb" {
		t.Fatalf("got %q, want yb", v.Str())
	}
}

func TestExecute_SplitToRowsFanOutOrder(t *testing.T) {
	rec := mustParse(t, "split-to-rows c ,")
	r := row.FromColumns(row.Column{Name: "c", Value: row.StringValue("a,b,c")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d rows, want 3", len(out))
	}
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if v, _ := out[i].GetValue("c"); v.Str() != w {
			t.Fatalf("piece %d: got %q, want %q", i, v.Str(), w)
		}
	}
}

func TestExecute_SetFormatCSV(t *testing.T) {
	rec := mustParse(t, "set format csv , true")
	r := row.FromColumns(row.Column{Name: "body", Value: row.StringValue("x,y,z")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Find("body") >= 0 {
		t.Fatalf("starting column body should have been dropped")
	}
	for i, want := range []string{"x", "y", "z"} {
		v, ok := out[0].GetValue("body_" + string(rune('1'+i)))
		if !ok || v.Str() != want {
			t.Fatalf("body_%d: got (%q, %v), want %q", i+1, v.Str(), ok, want)
		}
	}
}

func TestExecute_Indexsplit(t *testing.T) {
	rec := mustParse(t, "indexsplit s 1 4 d")
	r := row.FromColumns(row.Column{Name: "s", Value: row.StringValue("abcdef")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := out[0].GetValue("d")
	if v.Str() != "bcd" {
		t.Fatalf("got %q, want bcd", v.Str())
	}
}
