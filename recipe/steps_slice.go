package recipe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rowforge/recipe/row"
)

func registerSliceSteps(r *Registry) {
	r.Register(Definition{Name: "indexsplit", Usage: "indexsplit <src> <start> <end> <dest>", Construct: parseIndexSplit})
	r.Register(Definition{Name: "split", Usage: "split <src> <delim> <c1> <c2>", Construct: parseSplit})
	r.Register(Definition{Name: "split-to-rows", Usage: "split-to-rows <col> <regex>", Construct: parseSplitToRows})
	r.Register(Definition{Name: "split-to-columns", Usage: "split-to-columns <col> <regex>", Construct: parseSplitToColumns})
	r.Register(Definition{Name: "character-cut", Usage: "character-cut <src> <dest> -c <range>", Construct: parseCharacterCut})
}

// --- indexsplit ---

type indexSplitStep struct {
	stepBase
	src, dest  string
	start, end int
}

func parseIndexSplit(p *parseState) (Step, error) {
	src, err := p.Field(Whitespace, "src")
	if err != nil {
		return nil, err
	}
	startTok, err := p.Field(Whitespace, "start")
	if err != nil {
		return nil, err
	}
	endTok, err := p.Field(Whitespace, "end")
	if err != nil {
		return nil, err
	}
	dest, err := p.Field(Whitespace, "dest")
	if err != nil {
		return nil, err
	}
	start, err := strconv.Atoi(startTok)
	if err != nil {
		return nil, p.Fail(ErrMalformedNumber, fmt.Sprintf("start %q is not an integer", startTok))
	}
	end, err := strconv.Atoi(endTok)
	if err != nil {
		return nil, p.Fail(ErrMalformedNumber, fmt.Sprintf("end %q is not an integer", endTok))
	}
	return &indexSplitStep{src: src, dest: dest, start: start, end: end}, nil
}

func (s *indexSplitStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.src)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.src)
	}
	str := v.String()
	start, end := clamp(s.start, 0, len(str)), clamp(s.end, 0, len(str))
	if end < start {
		end = start
	}
	r.Add(s.dest, row.StringValue(str[start:end]))
	return KeepRow(r), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- split ---

type splitStep struct {
	stepBase
	src, c1, c2 string
	delim       string
}

func parseSplit(p *parseState) (Step, error) {
	src, err := p.Field(Whitespace, "src")
	if err != nil {
		return nil, err
	}
	delim, err := p.Field(Whitespace, "delim")
	if err != nil {
		return nil, err
	}
	c1, err := p.Field(Whitespace, "c1")
	if err != nil {
		return nil, err
	}
	c2, err := p.Field(Whitespace, "c2")
	if err != nil {
		return nil, err
	}
	return &splitStep{src: src, c1: c1, c2: c2, delim: delim}, nil
}

func (s *splitStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.src)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.src)
	}
	str := v.String()
	idx := strings.Index(str, s.delim)
	var first, rest string
	if idx < 0 {
		first = str
		rest = ""
	} else {
		first = str[:idx]
		rest = str[idx+len(s.delim):]
	}
	r.Add(s.c1, row.StringValue(first))
	r.Add(s.c2, row.StringValue(rest))
	return KeepRow(r), nil
}

// --- split-to-rows ---

type splitToRowsStep struct {
	stepBase
	col, pattern string
}

func parseSplitToRows(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	pattern, err := p.Field(ToEndOfLine, "regex")
	if err != nil {
		return nil, err
	}
	return &splitToRowsStep{col: col, pattern: pattern}, nil
}

func (s *splitToRowsStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	i := r.Find(s.col)
	if i < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	pieces, err := regexSplit(rt, s.pattern, r.GetValueAt(i).String())
	if err != nil {
		return Outcome{}, err
	}
	out := make([]*row.Row, len(pieces))
	for idx, piece := range pieces {
		clone := r.Clone()
		clone.SetValueAt(i, row.StringValue(piece))
		out[idx] = clone
	}
	return ManyRows(out...), nil
}

// --- split-to-columns ---

type splitToColumnsStep struct {
	stepBase
	col, pattern string
}

func parseSplitToColumns(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	pattern, err := p.Field(ToEndOfLine, "regex")
	if err != nil {
		return nil, err
	}
	return &splitToColumnsStep{col: col, pattern: pattern}, nil
}

func (s *splitToColumnsStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	i := r.Find(s.col)
	if i < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	pieces, err := regexSplit(rt, s.pattern, r.GetValueAt(i).String())
	if err != nil {
		return Outcome{}, err
	}
	for idx, piece := range pieces {
		r.Add(fmt.Sprintf("%s_%d", s.col, idx+1), row.StringValue(piece))
	}
	return KeepRow(r), nil
}

// regexSplit splits str on every match of pattern, using the Runtime's
// cached regexp2.Regexp (spec.md §5, §9: compiled regexes cached per run).
func regexSplit(rt *Runtime, pattern, str string) ([]string, error) {
	re, err := rt.CompileRegex(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	var pieces []string
	last := 0
	m, err := re.FindStringMatch(str)
	for m != nil && err == nil {
		pieces = append(pieces, str[last:m.Index])
		last = m.Index + m.Length
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	pieces = append(pieces, str[last:])
	return pieces, nil
}

// --- character-cut ---

type characterCutStep struct {
	stepBase
	src, dest string
	ranges    [][2]int // inclusive, 0-based [start, end]
}

func parseCharacterCut(p *parseState) (Step, error) {
	src, err := p.Field(Whitespace, "src")
	if err != nil {
		return nil, err
	}
	dest, err := p.Field(Whitespace, "dest")
	if err != nil {
		return nil, err
	}
	flag, err := p.Field(Whitespace, "-c|-d")
	if err != nil {
		return nil, err
	}
	if flag == "-d" {
		return nil, p.Fail(ErrUnsupportedOption, "character-cut: -d is not supported, only -c (character ranges) is implemented")
	}
	if flag != "-c" {
		return nil, p.Fail(ErrUnsupportedOption, fmt.Sprintf("character-cut: unknown option %q", flag))
	}
	spec, err := p.Field(ToEndOfLine, "range")
	if err != nil {
		return nil, err
	}
	ranges, err := parseCharRanges(spec)
	if err != nil {
		return nil, p.Fail(ErrMalformedNumber, err.Error())
	}
	return &characterCutStep{src: src, dest: dest, ranges: ranges}, nil
}

// parseCharRanges parses a cut -c style range spec: comma-separated entries
// of "N", "N-M", "N-", or "-M", 1-based and inclusive on both ends.
func parseCharRanges(spec string) ([][2]int, error) {
	parts := strings.Split(spec, ",")
	ranges := make([][2]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if dash := strings.IndexByte(part, '-'); dash >= 0 {
			startStr, endStr := part[:dash], part[dash+1:]
			start, end := 1, -1
			var err error
			if startStr != "" {
				if start, err = strconv.Atoi(startStr); err != nil {
					return nil, fmt.Errorf("invalid range %q", part)
				}
			}
			if endStr != "" {
				if end, err = strconv.Atoi(endStr); err != nil {
					return nil, fmt.Errorf("invalid range %q", part)
				}
			}
			ranges = append(ranges, [2]int{start - 1, end - 1})
		} else {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid range %q", part)
			}
			ranges = append(ranges, [2]int{n - 1, n - 1})
		}
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("empty range spec")
	}
	return ranges, nil
}

func (s *characterCutStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.src)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.src)
	}
	str := []rune(v.String())
	var b strings.Builder
	for _, rg := range s.ranges {
		start, end := rg[0], rg[1]
		if end < 0 || end >= len(str) {
			end = len(str) - 1
		}
		for i := clamp(start, 0, len(str)); i <= end && i < len(str); i++ {
			b.WriteRune(str[i])
		}
	}
	r.Add(s.dest, row.StringValue(b.String()))
	return KeepRow(r), nil
}
