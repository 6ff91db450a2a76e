package recipe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rowforge/recipe/row"
)

func registerExprSteps(r *Registry) {
	r.Register(Definition{Name: "set column", Usage: "set column <col> <expr>", Construct: parseSetColumn})
	r.Register(Definition{Name: "filter-row-if-matched", Usage: "filter-row-if-matched <col> <regex>", Construct: parseFilterIfMatched})
	r.Register(Definition{Name: "filter-row-if-true", Usage: "filter-row-if-true <cond>", Construct: parseFilterIfTrue})
	r.Register(Definition{Name: "sed", Usage: "sed <col> s/pattern/replacement/[flags]", Construct: parseSed})
	r.Register(Definition{Name: "quantize", Usage: "quantize <src> <dest> <ranges>", Construct: parseQuantize})
	r.Register(Definition{Name: "fill-null-or-empty", Usage: "fill-null-or-empty <col> <fixed>", Construct: parseFillNullOrEmpty})
}

// --- set column ---

type setColumnStep struct {
	stepBase
	col  string
	expr exprNode
}

func parseSetColumn(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	exprTok, err := p.Field(ToEndOfLine, "expr")
	if err != nil {
		return nil, err
	}
	node, err := compileExpr(exprTok)
	if err != nil {
		return nil, p.Fail(ErrMalformedInput, err.Error())
	}
	return &setColumnStep{col: col, expr: node}, nil
}

func (s *setColumnStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, err := s.expr.eval(r)
	if err != nil {
		return Outcome{}, err
	}
	if i := r.Find(s.col); i >= 0 {
		r.SetValueAt(i, v)
	} else {
		r.Add(s.col, v)
	}
	return KeepRow(r), nil
}

// --- filter-row-if-matched ---

type filterIfMatchedStep struct {
	stepBase
	col, pattern string
}

func parseFilterIfMatched(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	pattern, err := p.Field(ToEndOfLine, "regex")
	if err != nil {
		return nil, err
	}
	return &filterIfMatchedStep{col: col, pattern: pattern}, nil
}

func (s *filterIfMatchedStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.col)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	re, err := rt.CompileRegex(s.pattern)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	m, err := re.FindStringMatch(v.String())
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrEvalFailed, err)
	}
	if m != nil {
		return SkipRow(), nil
	}
	return KeepRow(r), nil
}

// --- filter-row-if-true ---

type filterIfTrueStep struct {
	stepBase
	expr exprNode
}

func parseFilterIfTrue(p *parseState) (Step, error) {
	exprTok, err := p.Field(ToEndOfLine, "cond")
	if err != nil {
		return nil, err
	}
	node, err := compileExpr(exprTok)
	if err != nil {
		return nil, p.Fail(ErrMalformedInput, err.Error())
	}
	return &filterIfTrueStep{expr: node}, nil
}

func (s *filterIfTrueStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, err := s.expr.eval(r)
	if err != nil {
		return Outcome{}, err
	}
	if asBool(v) {
		return SkipRow(), nil
	}
	return KeepRow(r), nil
}

// --- sed ---

type sedStep struct {
	stepBase
	col              string
	pattern, replace string
	global           bool
}

// parseSed reads a stream-editor-style s/pattern/replacement/[g] expression,
// using '/' as the conventional delimiter; an escaped "\/" inside a segment
// is a literal slash.
func parseSed(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	exprTok, err := p.Field(ToEndOfLine, "expr")
	if err != nil {
		return nil, err
	}
	pattern, replace, global, err := parseSedExpr(exprTok)
	if err != nil {
		return nil, p.Fail(ErrMalformedInput, err.Error())
	}
	return &sedStep{col: col, pattern: pattern, replace: replace, global: global}, nil
}

func parseSedExpr(expr string) (pattern, replace string, global bool, err error) {
	if !strings.HasPrefix(expr, "s/") {
		return "", "", false, fmt.Errorf("sed expression must have the form s/pattern/replacement/[g]")
	}
	segments := splitSedSegments(expr[2:])
	if len(segments) < 2 {
		return "", "", false, fmt.Errorf("sed expression must have the form s/pattern/replacement/[g]")
	}
	pattern = segments[0]
	replace = segments[1]
	if len(segments) > 2 {
		global = strings.Contains(segments[2], "g")
	}
	return pattern, replace, global, nil
}

// splitSedSegments splits on unescaped '/' delimiters, resolving "\/" to a
// literal slash within each segment.
func splitSedSegments(s string) []string {
	var segs []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '/' {
			b.WriteByte('/')
			i++
			continue
		}
		if s[i] == '/' {
			segs = append(segs, b.String())
			b.Reset()
			continue
		}
		b.WriteByte(s[i])
	}
	segs = append(segs, b.String())
	return segs
}

func (s *sedStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	i := r.Find(s.col)
	if i < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	re, err := rt.CompileRegex(s.pattern)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	str := r.GetValueAt(i).String()
	out, err := re.Replace(str, s.replace, -1, sedReplaceLimit(s.global))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrEvalFailed, err)
	}
	r.SetValueAt(i, row.StringValue(out))
	return KeepRow(r), nil
}

func sedReplaceLimit(global bool) int {
	if global {
		return -1
	}
	return 1
}

// --- quantize ---

type quantRange struct {
	hasLo, hasHi bool
	lo, hi       float64
	label        string
}

type quantizeStep struct {
	stepBase
	src, dest  string
	ranges     []quantRange // nil when ranges come from a named preset
	presetName string
}

func parseQuantize(p *parseState) (Step, error) {
	src, err := p.Field(Whitespace, "src")
	if err != nil {
		return nil, err
	}
	dest, err := p.Field(Whitespace, "dest")
	if err != nil {
		return nil, err
	}
	rangesTok, err := p.Field(ToEndOfLine, "ranges")
	if err != nil {
		return nil, err
	}
	if name, ok := strings.CutPrefix(rangesTok, "preset:"); ok {
		return &quantizeStep{src: src, dest: dest, presetName: strings.TrimSpace(name)}, nil
	}
	ranges, err := parseQuantRanges(rangesTok)
	if err != nil {
		return nil, p.Fail(ErrMalformedInput, err.Error())
	}
	return &quantizeStep{src: src, dest: dest, ranges: ranges}, nil
}

// parseQuantRanges parses a comma-separated list of "lo-hi:label" entries.
// Either bound may be omitted: "-10:low" means v < 10; "20-:high" means
// v >= 20. Bounds are inclusive on lo, exclusive on hi.
func parseQuantRanges(spec string) ([]quantRange, error) {
	entries := strings.Split(spec, ",")
	ranges := make([]quantRange, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		colon := strings.LastIndex(e, ":")
		if colon < 0 {
			return nil, fmt.Errorf("invalid range entry %q: expected lo-hi:label", e)
		}
		bounds, label := e[:colon], e[colon+1:]
		if label == "" {
			return nil, fmt.Errorf("invalid range entry %q: empty label", e)
		}
		dash := strings.Index(bounds, "-")
		if dash < 0 {
			return nil, fmt.Errorf("invalid range bounds %q", bounds)
		}
		loStr, hiStr := bounds[:dash], bounds[dash+1:]
		var r quantRange
		r.label = label
		if loStr != "" {
			lo, err := strconv.ParseFloat(loStr, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid lower bound %q", loStr)
			}
			r.hasLo, r.lo = true, lo
		}
		if hiStr != "" {
			hi, err := strconv.ParseFloat(hiStr, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid upper bound %q", hiStr)
			}
			r.hasHi, r.hi = true, hi
		}
		ranges = append(ranges, r)
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("empty ranges spec")
	}
	return ranges, nil
}

func (s *quantizeStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.src)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.src)
	}
	f, ok := asNumber(v)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: column %q is not numeric", ErrTypeMismatch, s.src)
	}

	ranges := s.ranges
	if ranges == nil {
		spec, ok := rt.QuantizePresets[s.presetName]
		if !ok {
			return Outcome{}, fmt.Errorf("%w: unknown quantize preset %q", ErrMalformedInput, s.presetName)
		}
		parsed, err := parseQuantRanges(spec)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: preset %q: %v", ErrMalformedInput, s.presetName, err)
		}
		ranges = parsed
	}

	for _, rg := range ranges {
		if rg.hasLo && f < rg.lo {
			continue
		}
		if rg.hasHi && f >= rg.hi {
			continue
		}
		r.Add(s.dest, row.StringValue(rg.label))
		return KeepRow(r), nil
	}
	return Outcome{}, fmt.Errorf("%w: no matching range for value %v in column %q", ErrEvalFailed, f, s.src)
}

// --- fill-null-or-empty ---

type fillNullOrEmptyStep struct {
	stepBase
	col, fixed string
}

func parseFillNullOrEmpty(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	fixed, err := p.Field(ToEndOfLine, "fixed")
	if err != nil {
		return nil, err
	}
	if fixed == "" {
		return nil, p.Fail(ErrEmptyLiteral, "fixed literal must not be empty")
	}
	return &fillNullOrEmptyStep{col: col, fixed: fixed}, nil
}

func (s *fillNullOrEmptyStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	i := r.Find(s.col)
	if i < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	v := r.GetValueAt(i)
	if v.IsNull() || v.String() == "" {
		r.SetValueAt(i, row.StringValue(s.fixed))
	}
	return KeepRow(r), nil
}
