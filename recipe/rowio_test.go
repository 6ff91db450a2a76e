package recipe

import (
	"testing"

	"github.com/rowforge/recipe/row"
)

func TestParseJSONRow_ScalarsAndOrder(t *testing.T) {
	r, err := ParseJSONRow(`{"id":1,"name":"Ada","active":true,"note":null}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Len() != 4 {
		t.Fatalf("got %d columns, want 4", r.Len())
	}
	names := r.Names()
	want := []string{"id", "name", "active", "note"}
	for i, w := range want {
		if names[i] != w {
			t.Fatalf("column %d: got %q, want %q", i, names[i], w)
		}
	}
	id, _ := r.GetValue("id")
	if id.Kind != row.Float || id.Float() != 1 {
		t.Fatalf("id: got %v", id)
	}
	note, _ := r.GetValue("note")
	if !note.IsNull() {
		t.Fatalf("note should be null")
	}
}

func TestParseJSONRow_RejectsNonObject(t *testing.T) {
	if _, err := ParseJSONRow(`[1,2,3]`); err == nil {
		t.Fatalf("expected an error for a top-level array")
	}
	if _, err := ParseJSONRow(`not json`); err == nil {
		t.Fatalf("expected an error for invalid JSON")
	}
}

func TestFormatJSONRow_RoundTripsScalars(t *testing.T) {
	r := row.FromColumns(
		row.Column{Name: "id", Value: row.IntValue(7)},
		row.Column{Name: "name", Value: row.StringValue("Ada")},
		row.Column{Name: "active", Value: row.BoolValue(true)},
		row.Column{Name: "note", Value: row.NullValue()},
	)
	got := FormatJSONRow(r)
	want := `{"id":7,"name":"Ada","active":true,"note":null}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatJSONRow_List(t *testing.T) {
	r := row.FromColumns(row.Column{Name: "tags", Value: row.ListValue([]row.Value{
		row.StringValue("a"), row.StringValue("b"),
	})})
	got := FormatJSONRow(r)
	want := `{"tags":["a","b"]}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
