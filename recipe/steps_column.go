package recipe

import (
	"fmt"
	"strings"

	"github.com/rowforge/recipe/row"
)

type stepBase struct{}

func (stepBase) isStep() {}

func registerColumnSteps(r *Registry) {
	r.Register(Definition{Name: "rename", Usage: "rename <old> <new>", Construct: parseRename})
	r.Register(Definition{Name: "drop", Usage: "drop <col>", Construct: parseDrop})
	r.Register(Definition{Name: "copy", Usage: "copy <src> <dest> [force]", Construct: parseCopy})
	r.Register(Definition{Name: "swap", Usage: "swap <a> <b>", Construct: parseSwapDirective})
	r.Register(Definition{Name: "merge", Usage: "merge <a> <b> <dest> <sep>", Construct: parseMerge})
	r.Register(Definition{Name: "columns", Usage: "columns <c1,c2,...>", Construct: parseColumns})
	r.Register(Definition{Name: "flatten", Usage: "flatten <col[,col...]>", Construct: parseFlatten})
}

// --- rename ---

type renameStep struct {
	stepBase
	old, new string
}

func parseRename(p *parseState) (Step, error) {
	old, err := p.Field(Whitespace, "old")
	if err != nil {
		return nil, err
	}
	nw, err := p.Field(Whitespace, "new")
	if err != nil {
		return nil, err
	}
	return &renameStep{old: old, new: nw}, nil
}

func (s *renameStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	if err := r.Rename(s.old, s.new); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMissingColumn, err)
	}
	return KeepRow(r), nil
}

// --- drop ---

type dropStep struct {
	stepBase
	col string
}

func parseDrop(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	return &dropStep{col: col}, nil
}

func (s *dropStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	if err := r.Remove(s.col); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMissingColumn, err)
	}
	return KeepRow(r), nil
}

// --- copy ---

type copyStep struct {
	stepBase
	src, dest string
	force     bool
}

func parseCopy(p *parseState) (Step, error) {
	src, err := p.Field(Whitespace, "src")
	if err != nil {
		return nil, err
	}
	dest, err := p.Field(Whitespace, "dest")
	if err != nil {
		return nil, err
	}
	force := false
	if tok, ok := p.FieldOptional(Whitespace); ok {
		force = tok == "true" || tok == "force"
	}
	return &copyStep{src: src, dest: dest, force: force}, nil
}

func (s *copyStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.src)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.src)
	}
	if r.Find(s.dest) >= 0 && !s.force {
		return Outcome{}, fmt.Errorf("destination column %q already exists (use force to overwrite)", s.dest)
	}
	if i := r.Find(s.dest); i >= 0 {
		r.SetValueAt(i, v)
	} else {
		r.Add(s.dest, v)
	}
	return KeepRow(r), nil
}

// --- swap ---

type swapStep struct {
	stepBase
	a, b string
}

func parseSwapDirective(p *parseState) (Step, error) {
	a, err := p.Field(Whitespace, "a")
	if err != nil {
		return nil, err
	}
	b, err := p.Field(Whitespace, "b")
	if err != nil {
		return nil, err
	}
	return &swapStep{a: a, b: b}, nil
}

func (s *swapStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	if err := r.Swap(s.a, s.b); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMissingColumn, err)
	}
	return KeepRow(r), nil
}

// --- merge ---

type mergeStep struct {
	stepBase
	a, b, dest, sep string
}

func parseMerge(p *parseState) (Step, error) {
	a, err := p.Field(Whitespace, "a")
	if err != nil {
		return nil, err
	}
	b, err := p.Field(Whitespace, "b")
	if err != nil {
		return nil, err
	}
	dest, err := p.Field(Whitespace, "dest")
	if err != nil {
		return nil, err
	}
	sep, err := p.Field(Whitespace, "sep")
	if err != nil {
		return nil, err
	}
	return &mergeStep{a: a, b: b, dest: dest, sep: sep}, nil
}

func (s *mergeStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	va, ok := r.GetValue(s.a)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.a)
	}
	vb, ok := r.GetValue(s.b)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.b)
	}
	r.Add(s.dest, row.StringValue(va.String()+s.sep+vb.String()))
	return KeepRow(r), nil
}

// --- columns ---

type columnsStep struct {
	stepBase
	names []string
}

func parseColumns(p *parseState) (Step, error) {
	list, err := p.Field(ToEndOfLine, "columns")
	if err != nil {
		return nil, err
	}
	names := strings.Split(list, ",")
	for i, n := range names {
		names[i] = strings.TrimSpace(n)
	}
	return &columnsStep{names: names}, nil
}

func (s *columnsStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	if err := r.SetNames(s.names); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return KeepRow(r), nil
}

// --- flatten ---

type flattenStep struct {
	stepBase
	cols []string
}

func parseFlatten(p *parseState) (Step, error) {
	list, err := p.Field(ToEndOfLine, "col")
	if err != nil {
		return nil, err
	}
	cols := strings.Split(list, ",")
	for i, c := range cols {
		c = strings.TrimSpace(c)
		if strings.Contains(c, "*") {
			return nil, p.Fail(ErrUnsupportedOption, "wildcards are not supported in flatten")
		}
		cols[i] = c
	}
	return &flattenStep{cols: cols}, nil
}

// flatten explodes each named list-valued column into its own row per
// element, combining all named columns positionally (parallel explode):
// row i of the output takes element i from every flattened column, with
// non-list columns copied through unchanged. The output row count is the
// length of the longest flattened list.
func (s *flattenStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	maxLen := 0
	lists := make(map[string][]row.Value, len(s.cols))
	for _, c := range s.cols {
		v, ok := r.GetValue(c)
		if !ok {
			return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
		if v.Kind != row.List {
			return Outcome{}, fmt.Errorf("%w: column %q is not a list", ErrTypeMismatch, c)
		}
		lists[c] = v.List()
		if len(v.List()) > maxLen {
			maxLen = len(v.List())
		}
	}
	if maxLen == 0 {
		return Outcome{Kind: Many}, nil
	}
	out := make([]*row.Row, maxLen)
	for i := 0; i < maxLen; i++ {
		clone := r.Clone()
		for _, c := range s.cols {
			elems := lists[c]
			var v row.Value
			if i < len(elems) {
				v = elems[i]
			} else {
				v = row.NullValue()
			}
			clone.SetValueAt(clone.Find(c), v)
		}
		out[i] = clone
	}
	return ManyRows(out...), nil
}
