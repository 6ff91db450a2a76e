package recipe

import (
	"fmt"
	"math/rand"

	"github.com/antchfx/xpath"
	"github.com/dlclark/regexp2"
)

// Runtime is the per-run execution context (spec.md §3 "Execution context").
// It is created once per ExecuteContext call (or supplied by the caller to
// RunWithRuntime), owned exclusively by that run,
// and mutated only by the goroutine driving the run — concurrent runs must
// use separate Runtimes (spec.md §5).
//
// Compiled regexes, XPath expressions, and date layouts are cached here,
// keyed by their literal source text, created lazily on first use within a
// run, and dropped along with the Runtime at the end of the run.
type Runtime struct {
	// LookupTables holds named lookup tables available to steps that need
	// transient reference data (e.g. masking dictionaries), keyed by table
	// name then by key.
	LookupTables map[string]map[string]string

	// QuantizePresets holds named, reusable range specs for the quantize
	// directive, so a recipe can reference "preset:tierA" instead of
	// repeating a literal range spec across many lines.
	QuantizePresets map[string]string

	rowCounter int64

	regexCache map[string]*regexp2.Regexp
	xpathCache map[string]*xpath.Expr
	layoutCache map[string]string // srcPattern -> resolved Go layout

	rng *rand.Rand
}

// NewRuntime returns a Runtime ready for a fresh run.
func NewRuntime() *Runtime {
	return &Runtime{
		LookupTables:    map[string]map[string]string{},
		QuantizePresets: map[string]string{},
		regexCache:      map[string]*regexp2.Regexp{},
		xpathCache:      map[string]*xpath.Expr{},
		layoutCache:     map[string]string{},
		rng:             rand.New(rand.NewSource(1)),
	}
}

// NextRow advances and returns the monotonic row counter, starting at 0 for
// the first row of a run.
func (rt *Runtime) NextRow() int64 {
	n := rt.rowCounter
	rt.rowCounter++
	return n
}

// RowIndex returns the most recently issued row counter value without
// advancing it (i.e. the index of the row currently being processed).
func (rt *Runtime) RowIndex() int64 { return rt.rowCounter - 1 }

// CompileRegex returns a cached regexp2.Regexp for pattern, compiling and
// caching it on first use. regexp2 (not stdlib regexp) is used throughout
// the step library so that masking/cleaning recipes can rely on lookaround,
// which RE2 cannot express.
func (rt *Runtime) CompileRegex(pattern string) (*regexp2.Regexp, error) {
	if re, ok := rt.regexCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compiling regex %q: %w", pattern, err)
	}
	rt.regexCache[pattern] = re
	return re, nil
}

// CompileXPath returns a cached compiled XPath expression for path.
func (rt *Runtime) CompileXPath(path string) (*xpath.Expr, error) {
	if expr, ok := rt.xpathCache[path]; ok {
		return expr, nil
	}
	expr, err := xpath.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compiling xpath %q: %w", path, err)
	}
	rt.xpathCache[path] = expr
	return expr, nil
}

// cacheLayout caches the translation from a directive's source/dest
// date pattern into a Go reference-time layout; see dateLayout in steps_date.go.
func (rt *Runtime) cacheLayout(pattern, layout string) {
	rt.layoutCache[pattern] = layout
}

func (rt *Runtime) cachedLayout(pattern string) (string, bool) {
	l, ok := rt.layoutCache[pattern]
	return l, ok
}

// ShufflePermutation returns a deterministic permutation of [0, n) for the
// current row, seeded from the row counter combined with n (spec.md's
// "deterministic per-run permutation", made concrete in SPEC_FULL.md).
// Two calls with the same n on the same row index produce the same
// permutation; different rows or different n typically do not.
func (rt *Runtime) ShufflePermutation(n int) []int {
	seed := rt.RowIndex()*1_000_003 + int64(n)
	r := rand.New(rand.NewSource(seed))
	perm := r.Perm(n)
	return perm
}
