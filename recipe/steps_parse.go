package recipe

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/dolthub/jsonpath"
	"github.com/tidwall/gjson"

	"github.com/rowforge/recipe/row"
)

func registerParseSteps(r *Registry) {
	r.Register(Definition{Name: "parse-as-csv", Usage: "parse-as-csv <col> <delim> <skipEmpty>", Construct: parseAsCSVCtor})
	r.Register(Definition{Name: "parse-as-json", Usage: "parse-as-json <col> [deleteCol]", Construct: parseAsJSONCtor})
	r.Register(Definition{Name: "parse-xml-element", Usage: "parse-xml-element <col> [deleteCol]", Construct: parseXMLElementCtor})
	r.Register(Definition{Name: "parse-as-fixed-length", Usage: "parse-as-fixed-length <col> <w1,w2,...> [padding]", Construct: parseAsFixedLengthCtor})
	r.Register(Definition{Name: "parse-as-xml", Usage: "parse-as-xml <col>", Construct: parseAsXMLCtor})
	r.Register(Definition{Name: "json-path", Usage: "json-path <src> <dest> <path>", Construct: parseJSONPathCtor})
	r.Register(Definition{Name: "xml-path", Usage: "xml-path <src> <dest> <path>", Construct: parseXMLPathCtor})
	registerSetFormatCSV(r)
}

// --- parse-as-csv ---

type parseAsCSVStep struct {
	stepBase
	col       string
	delim     rune
	skipEmpty bool
}

func parseAsCSVCtor(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	delimTok, err := p.Field(Whitespace, "delim")
	if err != nil {
		return nil, err
	}
	skipTok, err := p.Field(Whitespace, "skipEmpty")
	if err != nil {
		return nil, err
	}
	delim, err := resolveDelimiter(delimTok)
	if err != nil {
		return nil, p.Fail(ErrBadEscape, err.Error())
	}
	return &parseAsCSVStep{col: col, delim: delim, skipEmpty: skipTok == "true"}, nil
}

func (s *parseAsCSVStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.col)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	fields := splitCSVLine(v.String(), s.delim, s.skipEmpty)
	for i, f := range fields {
		r.Add(fmt.Sprintf("%s_%d", s.col, i+1), row.StringValue(f))
	}
	return KeepRow(r), nil
}

func splitCSVLine(line string, delim rune, skipEmpty bool) []string {
	raw := strings.Split(line, string(delim))
	if !skipEmpty {
		return raw
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// --- set format csv (equivalent to parse-as-csv + drop) ---

func registerSetFormatCSV(r *Registry) {
	r.Register(Definition{Name: "set format", Usage: "set format csv <delim> <skipEmpty>", Construct: parseSetFormatCSV})
}

type setFormatCSVStep struct {
	stepBase
	delim     rune
	skipEmpty bool
}

func parseSetFormatCSV(p *parseState) (Step, error) {
	kind, err := p.Field(Whitespace, "kind")
	if err != nil {
		return nil, err
	}
	if kind != "csv" {
		return nil, p.Fail(ErrUnsupportedOption, fmt.Sprintf("set format: unsupported format %q (only csv is supported)", kind))
	}
	delimTok, err := p.Field(Whitespace, "delim")
	if err != nil {
		return nil, err
	}
	skipTok, err := p.Field(Whitespace, "skipEmpty")
	if err != nil {
		return nil, err
	}
	delim, err := resolveDelimiter(delimTok)
	if err != nil {
		return nil, p.Fail(ErrBadEscape, err.Error())
	}
	return &setFormatCSVStep{delim: delim, skipEmpty: skipTok == "true"}, nil
}

// Execute re-implements parse-as-csv against the row's starting (position 0)
// column, per spec.md §4.5's "set format csv" shorthand, then drops it.
func (s *setFormatCSVStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	if r.Len() == 0 {
		return Outcome{}, fmt.Errorf("%w: row has no starting column", ErrMissingColumn)
	}
	startCol := r.Columns()[0].Name
	fields := splitCSVLine(r.GetValueAt(0).String(), s.delim, s.skipEmpty)
	for i, f := range fields {
		r.Add(fmt.Sprintf("%s_%d", startCol, i+1), row.StringValue(f))
	}
	if err := r.Remove(startCol); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMissingColumn, err)
	}
	return KeepRow(r), nil
}

// --- parse-as-json ---

type parseAsJSONStep struct {
	stepBase
	col       string
	deleteCol bool
}

func parseAsJSONCtor(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	del := false
	if tok, ok := p.FieldOptional(Whitespace); ok {
		del = tok == "true"
	}
	return &parseAsJSONStep{col: col, deleteCol: del}, nil
}

func (s *parseAsJSONStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.col)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	result, err := asJSONResult(v)
	if err != nil {
		return Outcome{}, err
	}
	if !result.IsObject() {
		return Outcome{}, fmt.Errorf("%w: column %q is not a JSON object", ErrTypeMismatch, s.col)
	}
	result.ForEach(func(key, val gjson.Result) bool {
		r.Add(s.col+"."+key.String(), gjsonToValue(val))
		return true
	})
	if s.deleteCol {
		if err := r.Remove(s.col); err != nil {
			return Outcome{}, fmt.Errorf("%w: %v", ErrMissingColumn, err)
		}
	}
	return KeepRow(r), nil
}

// asJSONResult coerces a column value into a gjson.Result, parsing a raw
// JSON string column on demand. Anything else is a type mismatch.
func asJSONResult(v row.Value) (gjson.Result, error) {
	switch v.Kind {
	case row.JSON:
		return v.JSONResult(), nil
	case row.String:
		if !gjson.Valid(v.Str()) {
			return gjson.Result{}, fmt.Errorf("%w: column is not valid JSON", ErrTypeMismatch)
		}
		return gjson.Parse(v.Str()), nil
	default:
		return gjson.Result{}, fmt.Errorf("%w: expected JSON or string, got %s", ErrTypeMismatch, v.Kind)
	}
}

// gjsonToValue converts a gjson.Result into the row value model, preserving
// type per spec.md §6: scalars become scalars, objects/arrays become an
// opaque JSON handle (not recursively expanded).
func gjsonToValue(g gjson.Result) row.Value {
	switch g.Type {
	case gjson.Null:
		return row.NullValue()
	case gjson.False:
		return row.BoolValue(false)
	case gjson.True:
		return row.BoolValue(true)
	case gjson.Number:
		return row.FloatValue(g.Float())
	case gjson.String:
		return row.StringValue(g.String())
	default: // gjson.JSON: object or array
		return row.JSONValue(g)
	}
}

// --- parse-xml-element ---

type parseXMLElementStep struct {
	stepBase
	col       string
	deleteCol bool
}

func parseXMLElementCtor(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	del := false
	if tok, ok := p.FieldOptional(Whitespace); ok {
		del = tok == "true"
	}
	return &parseXMLElementStep{col: col, deleteCol: del}, nil
}

func (s *parseXMLElementStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.col)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	node, err := asXMLNode(v)
	if err != nil {
		return Outcome{}, err
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		name := s.col + "." + c.Data
		if hasElementChild(c) {
			r.Add(name, row.XMLValue(c))
		} else {
			r.Add(name, row.StringValue(c.InnerText()))
		}
	}
	if s.deleteCol {
		if err := r.Remove(s.col); err != nil {
			return Outcome{}, fmt.Errorf("%w: %v", ErrMissingColumn, err)
		}
	}
	return KeepRow(r), nil
}

func hasElementChild(n *xmlquery.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

func asXMLNode(v row.Value) (*xmlquery.Node, error) {
	switch v.Kind {
	case row.XML:
		return v.XMLNode(), nil
	case row.String:
		doc, err := xmlquery.Parse(strings.NewReader(v.Str()))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: expected XML or string, got %s", ErrTypeMismatch, v.Kind)
	}
}

// --- parse-as-xml ---

type parseAsXMLStep struct {
	stepBase
	col string
}

func parseAsXMLCtor(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	return &parseAsXMLStep{col: col}, nil
}

func (s *parseAsXMLStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	i := r.Find(s.col)
	if i < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	node, err := asXMLNode(r.GetValueAt(i))
	if err != nil {
		return Outcome{}, err
	}
	r.SetValueAt(i, row.XMLValue(node))
	return KeepRow(r), nil
}

// --- json-path ---

type jsonPathStep struct {
	stepBase
	src, dest, path string
}

func parseJSONPathCtor(p *parseState) (Step, error) {
	src, err := p.Field(Whitespace, "src")
	if err != nil {
		return nil, err
	}
	dest, err := p.Field(Whitespace, "dest")
	if err != nil {
		return nil, err
	}
	path, err := p.Field(ToEndOfLine, "path")
	if err != nil {
		return nil, err
	}
	return &jsonPathStep{src: src, dest: dest, path: path}, nil
}

func (s *jsonPathStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.src)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.src)
	}
	result, err := asJSONResult(v)
	if err != nil {
		return Outcome{}, err
	}

	var tree interface{}
	if err := json.Unmarshal([]byte(result.Raw), &tree); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	compiled, err := jsonpath.Compile(s.path)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: invalid json path %q: %v", ErrMalformedInput, s.path, err)
	}
	found, err := compiled.Lookup(tree)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrEvalFailed, err)
	}

	out := goAnyToValue(found)
	if i := r.Find(s.dest); i >= 0 {
		r.SetValueAt(i, out)
	} else {
		r.Add(s.dest, out)
	}
	return KeepRow(r), nil
}

// goAnyToValue converts a decoded-JSON interface{} tree (as produced by
// encoding/json / dolthub/jsonpath) into the row value model.
func goAnyToValue(v interface{}) row.Value {
	switch x := v.(type) {
	case nil:
		return row.NullValue()
	case bool:
		return row.BoolValue(x)
	case float64:
		return row.FloatValue(x)
	case string:
		return row.StringValue(x)
	case []interface{}:
		list := make([]row.Value, len(x))
		for i, e := range x {
			list[i] = goAnyToValue(e)
		}
		return row.ListValue(list)
	case map[string]interface{}:
		m := make(map[string]row.Value, len(x))
		for k, e := range x {
			m[k] = goAnyToValue(e)
		}
		return row.MapValue(m)
	default:
		return row.StringValue(fmt.Sprintf("%v", x))
	}
}

// --- xml-path ---

type xmlPathStep struct {
	stepBase
	src, dest, path string
}

func parseXMLPathCtor(p *parseState) (Step, error) {
	src, err := p.Field(Whitespace, "src")
	if err != nil {
		return nil, err
	}
	dest, err := p.Field(Whitespace, "dest")
	if err != nil {
		return nil, err
	}
	path, err := p.Field(ToEndOfLine, "path")
	if err != nil {
		return nil, err
	}
	return &xmlPathStep{src: src, dest: dest, path: path}, nil
}

func (s *xmlPathStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.src)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.src)
	}
	node, err := asXMLNode(v)
	if err != nil {
		return Outcome{}, err
	}
	expr, err := rt.CompileXPath(s.path)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	result := xmlquery.QuerySelector(node, expr)
	var out row.Value
	if result == nil {
		out = row.NullValue()
	} else {
		out = row.StringValue(result.InnerText())
	}
	if i := r.Find(s.dest); i >= 0 {
		r.SetValueAt(i, out)
	} else {
		r.Add(s.dest, out)
	}
	return KeepRow(r), nil
}

// --- parse-as-fixed-length ---

type parseAsFixedLengthStep struct {
	stepBase
	col     string
	widths  []int
	padding byte
}

func parseAsFixedLengthCtor(p *parseState) (Step, error) {
	col, err := p.Field(Whitespace, "col")
	if err != nil {
		return nil, err
	}
	widthsTok, err := p.Field(Whitespace, "widths")
	if err != nil {
		return nil, err
	}
	padding := byte(' ')
	if tok, ok := p.FieldOptional(ToEndOfLine); ok && tok != "" {
		padding = tok[0]
	}
	parts := strings.Split(widthsTok, ",")
	widths := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, p.Fail(ErrMalformedNumber, fmt.Sprintf("width %q is not an integer", part))
		}
		widths[i] = n
	}
	return &parseAsFixedLengthStep{col: col, widths: widths, padding: padding}, nil
}

func (s *parseAsFixedLengthStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	v, ok := r.GetValue(s.col)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	str := v.String()
	pos := 0
	for i, w := range s.widths {
		end := pos + w
		if end > len(str) {
			end = len(str)
		}
		if pos > len(str) {
			pos = len(str)
		}
		field := strings.Trim(str[pos:end], string(s.padding))
		r.Add(fmt.Sprintf("%s_%d", s.col, i+1), row.StringValue(field))
		pos = end
	}
	return KeepRow(r), nil
}
