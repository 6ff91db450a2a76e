package row

import "testing"

func TestRow_AddAppends(t *testing.T) {
	r := New()
	r.Add("a", IntValue(1))
	r.Add("a", IntValue(2))
	if r.Len() != 2 {
		t.Fatalf("expected 2 columns, got %d", r.Len())
	}
	if r.Find("a") != 0 {
		t.Fatalf("expected first-match index 0, got %d", r.Find("a"))
	}
}

func TestRow_FindMissing(t *testing.T) {
	r := New()
	r.Add("a", IntValue(1))
	if got := r.Find("b"); got != -1 {
		t.Fatalf("expected -1 for missing column, got %d", got)
	}
}

func TestRow_SetValueAtPreservesShape(t *testing.T) {
	r := New()
	r.Add("a", IntValue(1))
	r.Add("b", IntValue(2))
	r.SetValueAt(0, IntValue(99))
	if r.Len() != 2 {
		t.Fatalf("SetValueAt changed column count")
	}
	if r.Names()[0] != "a" {
		t.Fatalf("SetValueAt changed column order/name")
	}
	if r.GetValueAt(0).Int() != 99 {
		t.Fatalf("SetValueAt did not replace value")
	}
}

func TestRow_RemoveAtShrinks(t *testing.T) {
	r := New()
	r.Add("a", IntValue(1))
	r.Add("b", IntValue(2))
	r.RemoveAt(0)
	if r.Len() != 1 || r.Names()[0] != "b" {
		t.Fatalf("RemoveAt did not shrink correctly: %v", r.Names())
	}
}

func TestRow_SwapSymmetry(t *testing.T) {
	r := New()
	r.Add("a", IntValue(1))
	r.Add("b", StringValue("s"))
	if err := r.Swap("a", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.GetValueAt(0); got.Kind != String || got.Str() != "s" {
		t.Fatalf("expected a to hold swapped string value, got %+v", got)
	}
	if err := r.Swap("a", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.GetValueAt(0); got.Kind != Int || got.Int() != 1 {
		t.Fatalf("swap-swap is not the identity: %+v", got)
	}
}

func TestRow_SwapMissingColumn(t *testing.T) {
	r := New()
	r.Add("a", IntValue(1))
	r.Add("c", StringValue("s"))
	if err := r.Swap("a", "b"); err == nil {
		t.Fatalf("expected error for missing column b")
	}
}

func TestRow_RenamePreservesPosition(t *testing.T) {
	r := New()
	r.Add("a", IntValue(1))
	r.Add("b", IntValue(2))
	if err := r.Rename("a", "z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Find("z") != 0 || r.Find("a") != -1 {
		t.Fatalf("rename did not preserve position: %v", r.Names())
	}
}

func TestRow_CopyThenDropIsIdentity(t *testing.T) {
	r := New()
	r.Add("a", IntValue(7))
	before := r.Names()

	v, _ := r.GetValue("a")
	r.Add("c", v)
	if err := r.Remove("c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r.Names()) != len(before) {
		t.Fatalf("copy-then-drop changed column count")
	}
	for i, n := range before {
		if r.Names()[i] != n {
			t.Fatalf("copy-then-drop changed order at %d: want %s got %s", i, n, r.Names()[i])
		}
	}
}

func TestRow_CloneIsIndependent(t *testing.T) {
	r := New()
	r.Add("a", IntValue(1))
	clone := r.Clone()
	clone.SetValueAt(0, IntValue(2))
	if r.GetValueAt(0).Int() != 1 {
		t.Fatalf("mutating clone affected original")
	}
}
