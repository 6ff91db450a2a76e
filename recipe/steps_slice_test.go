package recipe

import (
	"testing"

	"github.com/rowforge/recipe/row"
)

func TestSliceSteps_Split(t *testing.T) {
	rec := mustParse(t, "split s , c1 c2")
	r := row.FromColumns(row.Column{Name: "s", Value: row.StringValue("a,b,c")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c1, _ := out[0].GetValue("c1")
	c2, _ := out[0].GetValue("c2")
	if c1.Str() != "a" || c2.Str() != "b,c" {
		t.Fatalf("got c1=%q c2=%q, want c1=a c2=b,c", c1.Str(), c2.Str())
	}
}

func TestSliceSteps_SplitToColumns(t *testing.T) {
	rec := mustParse(t, "split-to-columns c ,")
	r := row.FromColumns(row.Column{Name: "c", Value: row.StringValue("a,b,c")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		v, ok := out[0].GetValue("c_" + string(rune('1'+i)))
		if !ok || v.Str() != want {
			t.Fatalf("c_%d: got (%q, %v), want %q", i+1, v.Str(), ok, want)
		}
	}
}

func TestSliceSteps_CharacterCut(t *testing.T) {
	rec := mustParse(t, "character-cut s d -c 1-3,5")
	r := row.FromColumns(row.Column{Name: "s", Value: row.StringValue("abcdef")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := out[0].GetValue("d")
	if v.Str() != "abce" {
		t.Fatalf("got %q, want abce", v.Str())
	}
}

func TestSliceSteps_CharacterCutRejectsDashD(t *testing.T) {
	_, err := ParseRecipe("character-cut s d -d 1-3", DefaultRegistry())
	if err == nil {
		t.Fatalf("expected -d to be rejected at parse time")
	}
}

func TestSliceSteps_IndexsplitClampsBounds(t *testing.T) {
	rec := mustParse(t, "indexsplit s 0 100 d")
	r := row.FromColumns(row.Column{Name: "s", Value: row.StringValue("abc")})
	out, err := Execute(rec, []*row.Row{r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := out[0].GetValue("d")
	if v.Str() != "abc" {
		t.Fatalf("got %q, want abc (clamped to string length)", v.Str())
	}
}
