package recipe

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/rowforge/recipe/row"
)

func registerDateSteps(r *Registry) {
	r.Register(Definition{Name: "format-date", Usage: "format-date <col> <srcPattern> <dstPattern>", Construct: parseFormatDate})
	r.Register(Definition{Name: "format-unix-timestamp", Usage: "format-unix-timestamp <col> <dstPattern>", Construct: parseFormatUnixTimestamp})
}

// --- format-date ---

type formatDateStep struct {
	stepBase
	col                   string
	srcPattern, dstPattern string
	srcAuto               bool
}

func parseFormatDate(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	src, err := p.Field(Whitespace, "srcPattern")
	if err != nil {
		return nil, err
	}
	dst, err := p.Field(ToEndOfLine, "dstPattern")
	if err != nil {
		return nil, err
	}
	if dst == "" {
		return nil, p.Fail(ErrEmptyLiteral, "dstPattern must not be empty")
	}
	step := &formatDateStep{col: col, srcPattern: src, dstPattern: dst, srcAuto: src == "auto"}
	if !step.srcAuto {
		if _, err := dateLayout(src); err != nil {
			return nil, p.Fail(ErrMalformedInput, err.Error())
		}
	}
	if _, err := dateLayout(dst); err != nil {
		return nil, p.Fail(ErrMalformedInput, err.Error())
	}
	return step, nil
}

func (s *formatDateStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	i := r.Find(s.col)
	if i < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	str := r.GetValueAt(i).String()

	var t time.Time
	var err error
	if s.srcAuto {
		t, err = dateparse.ParseAny(str)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	} else {
		layout := cachedOrBuildLayout(rt, s.srcPattern)
		t, err = time.Parse(layout, str)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	}

	dstLayout := cachedOrBuildLayout(rt, s.dstPattern)
	r.SetValueAt(i, row.StringValue(t.Format(dstLayout)))
	return KeepRow(r), nil
}

// cachedOrBuildLayout resolves a directive date pattern to a Go reference
// layout through the Runtime's per-run cache (spec.md §3, §9: layout
// resolution is pure and cacheable by source pattern text).
func cachedOrBuildLayout(rt *Runtime, pattern string) string {
	if layout, ok := rt.cachedLayout(pattern); ok {
		return layout
	}
	layout, _ := dateLayout(pattern)
	rt.cacheLayout(pattern, layout)
	return layout
}

// dateLayoutTokens maps the strftime- and Java-style date tokens this DSL
// accepts to Go's reference-time layout equivalents.
var dateLayoutTokens = strings.NewReplacer(
	"%Y", "2006", "%m", "01", "%d", "02",
	"%H", "15", "%M", "04", "%S", "05",
	"yyyy", "2006", "MM", "01", "dd", "02",
	"HH", "15", "mm", "04", "ss", "05",
)

// dateLayout translates a directive's source/dest date pattern into a Go
// reference-time layout. A pattern containing none of the recognized tokens
// is rejected at parse time rather than silently passed through.
func dateLayout(pattern string) (string, error) {
	out := dateLayoutTokens.Replace(pattern)
	if out == pattern {
		return "", fmt.Errorf("unrecognized date pattern %q", pattern)
	}
	return out, nil
}

// --- format-unix-timestamp ---

type formatUnixTimestampStep struct {
	stepBase
	col        string
	dstPattern string
}

func parseFormatUnixTimestamp(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	dst, err := p.Field(ToEndOfLine, "dstPattern")
	if err != nil {
		return nil, err
	}
	if _, err := dateLayout(dst); err != nil {
		return nil, p.Fail(ErrMalformedInput, err.Error())
	}
	return &formatUnixTimestampStep{col: col, dstPattern: dst}, nil
}

func (s *formatUnixTimestampStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	i := r.Find(s.col)
	if i < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	v := r.GetValueAt(i)
	var secs int64
	switch v.Kind {
	case row.Int:
		secs = v.Int()
	case row.Float:
		secs = int64(v.Float())
	default:
		n, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: column %q is not a unix timestamp", ErrTypeMismatch, s.col)
		}
		secs = n
	}
	t := time.Unix(secs, 0).UTC()
	layout := cachedOrBuildLayout(rt, s.dstPattern)
	r.SetValueAt(i, row.StringValue(t.Format(layout)))
	return KeepRow(r), nil
}
