package recipe

import (
	"fmt"

	"github.com/rowforge/recipe/row"
)

const maskNumberMaskRune = 'x'

func registerMaskSteps(r *Registry) {
	r.Register(Definition{Name: "mask-number", Usage: "mask-number <col> <pattern>", Construct: parseMaskNumber})
	r.Register(Definition{Name: "mask-shuffle", Usage: "mask-shuffle <col>", Construct: parseMaskShuffle})
}

// --- mask-number ---

type maskNumberStep struct {
	stepBase
	col     string
	pattern string
}

func parseMaskNumber(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	pattern, err := p.Field(Whitespace, "pattern")
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		return nil, p.Fail(ErrEmptyLiteral, "pattern must not be empty")
	}
	return &maskNumberStep{col: col, pattern: pattern}, nil
}

// Execute walks the column's string value position by position against
// pattern: a '#' at position i reveals the source character unchanged; any
// other pattern character (conventionally 'x') masks it. Positions past the
// end of pattern are masked; positions where the source is not a digit pass
// through unchanged regardless of pattern (dashes, spaces, separators).
func (s *maskNumberStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	i := r.Find(s.col)
	if i < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	src := []rune(r.GetValueAt(i).String())
	pat := []rune(s.pattern)
	out := make([]rune, len(src))
	for idx, c := range src {
		if c < '0' || c > '9' {
			out[idx] = c
			continue
		}
		if idx < len(pat) && pat[idx] == '#' {
			out[idx] = c
		} else {
			out[idx] = maskNumberMaskRune
		}
	}
	r.SetValueAt(i, row.StringValue(string(out)))
	return KeepRow(r), nil
}

// --- mask-shuffle ---

type maskShuffleStep struct {
	stepBase
	col string
}

func parseMaskShuffle(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	return &maskShuffleStep{col: col}, nil
}

// Execute rearranges the characters of the column's string value under a
// deterministic per-row permutation (Runtime.ShufflePermutation), so the
// same recipe run over the same input always yields the same shuffled
// output, while different rows generally shuffle differently.
func (s *maskShuffleStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	i := r.Find(s.col)
	if i < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	runes := []rune(r.GetValueAt(i).String())
	if len(runes) == 0 {
		return KeepRow(r), nil
	}
	perm := rt.ShufflePermutation(len(runes))
	out := make([]rune, len(runes))
	for dst, src := range perm {
		out[dst] = runes[src]
	}
	r.SetValueAt(i, row.StringValue(string(out)))
	return KeepRow(r), nil
}
