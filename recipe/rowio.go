package recipe

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/rowforge/recipe/row"
)

// ParseJSONRow decodes a single JSON object line into a Row, one column per
// top-level key in source order. It reuses the same gjson-based conversion
// the parse-as-json step applies to a column value (steps_parse.go), so a
// row read this way and one produced by parsing a JSON column carry values
// of the same Kind.
func ParseJSONRow(line string) (*row.Row, error) {
	if !gjson.Valid(line) {
		return nil, fmt.Errorf("%w: not a valid JSON object", ErrTypeMismatch)
	}
	top := gjson.Parse(line)
	if !top.IsObject() {
		return nil, fmt.Errorf("%w: expected a top-level JSON object", ErrTypeMismatch)
	}
	r := row.New()
	top.ForEach(func(key, val gjson.Result) bool {
		r.Add(key.String(), gjsonToValue(val))
		return true
	})
	return r, nil
}

// FormatJSONRow renders a Row back to a single-line JSON object, in column
// order. Opaque JSON/XML handles are emitted via their own string form
// (JSON's raw text, XML's serialized markup) rather than walked field by
// field, mirroring how Value.String already renders them for text-producing
// steps.
func FormatJSONRow(r *row.Row) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range r.Columns() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(c.Name))
		b.WriteByte(':')
		writeJSONValue(&b, c.Value)
	}
	b.WriteByte('}')
	return b.String()
}

func writeJSONValue(b *strings.Builder, v row.Value) {
	switch v.Kind {
	case row.Null:
		b.WriteString("null")
	case row.Bool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case row.Int:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case row.Float:
		b.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case row.JSON:
		raw := v.JSONResult().Raw
		if raw == "" {
			b.WriteString("null")
		} else {
			b.WriteString(raw)
		}
	case row.List:
		b.WriteByte('[')
		for i, e := range v.List() {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONValue(b, e)
		}
		b.WriteByte(']')
	case row.Map:
		b.WriteByte('{')
		keys := make([]string, 0, len(v.Map()))
		for k := range v.Map() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			writeJSONValue(b, v.Map()[k])
		}
		b.WriteByte('}')
	default:
		b.WriteString(strconv.Quote(v.String()))
	}
}
