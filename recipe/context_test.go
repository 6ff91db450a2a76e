package recipe

import "testing"

func TestRuntime_CompileRegexCaches(t *testing.T) {
	rt := NewRuntime()
	re1, err := rt.CompileRegex("^a+$")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	re2, err := rt.CompileRegex("^a+$")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if re1 != re2 {
		t.Fatalf("expected the same cached *regexp2.Regexp for identical pattern text")
	}
}

func TestRuntime_CompileXPathCaches(t *testing.T) {
	rt := NewRuntime()
	e1, err := rt.CompileXPath("//item")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e2, err := rt.CompileXPath("//item")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e1 != e2 {
		t.Fatalf("expected the same cached *xpath.Expr for identical path text")
	}
}

func TestRuntime_NextRowIsMonotonic(t *testing.T) {
	rt := NewRuntime()
	if n := rt.NextRow(); n != 0 {
		t.Fatalf("first row index should be 0, got %d", n)
	}
	if n := rt.NextRow(); n != 1 {
		t.Fatalf("second row index should be 1, got %d", n)
	}
	if rt.RowIndex() != 1 {
		t.Fatalf("RowIndex should report the last issued value without advancing")
	}
}

func TestRuntime_ShufflePermutationDeterministicPerRow(t *testing.T) {
	rt1 := NewRuntime()
	rt1.NextRow()
	p1 := rt1.ShufflePermutation(6)

	rt2 := NewRuntime()
	rt2.NextRow()
	p2 := rt2.ShufflePermutation(6)

	if len(p1) != len(p2) {
		t.Fatalf("length mismatch: %d vs %d", len(p1), len(p2))
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("permutation at the same row index should be deterministic, differed at %d: %d vs %d", i, p1[i], p2[i])
		}
	}
}

func TestRuntime_ShufflePermutationIsValidPermutation(t *testing.T) {
	rt := NewRuntime()
	perm := rt.ShufflePermutation(5)
	seen := make([]bool, 5)
	for _, p := range perm {
		if p < 0 || p >= 5 || seen[p] {
			t.Fatalf("not a valid permutation of [0,5): %v", perm)
		}
		seen[p] = true
	}
}
