// Package row implements the ordered, heterogeneously-typed record that
// flows through a recipe: the Row and its column values.
package row

import (
	"fmt"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/tidwall/gjson"
)

// Kind tags the runtime type carried by a Value. Steps branch on Kind rather
// than performing a runtime type assertion, so that unsupported combinations
// (e.g. a string-only directive fed a list column) fail with a clear message
// instead of a panic.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Bytes
	List
	Map
	JSON // an opaque JSON array/object handle produced by a JSON-aware step
	XML  // an opaque XML element handle produced by an XML-aware step
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case List:
		return "list"
	case Map:
		return "map"
	case JSON:
		return "json"
	case XML:
		return "xml"
	default:
		return "unknown"
	}
}

// Value is the tagged union carried by every column. Only the field matching
// Kind is meaningful; the rest are zero.
type Value struct {
	Kind Kind

	b     bool
	i     int64
	f     float64
	s     string
	bytes []byte
	list  []Value
	m     map[string]Value
	json  gjson.Result
	xml   *xmlquery.Node
}

func NullValue() Value                { return Value{Kind: Null} }
func BoolValue(v bool) Value          { return Value{Kind: Bool, b: v} }
func IntValue(v int64) Value          { return Value{Kind: Int, i: v} }
func FloatValue(v float64) Value      { return Value{Kind: Float, f: v} }
func StringValue(v string) Value      { return Value{Kind: String, s: v} }
func BytesValue(v []byte) Value       { return Value{Kind: Bytes, bytes: v} }
func ListValue(v []Value) Value       { return Value{Kind: List, list: v} }
func MapValue(v map[string]Value) Value { return Value{Kind: Map, m: v} }
func JSONValue(v gjson.Result) Value  { return Value{Kind: JSON, json: v} }
func XMLValue(v *xmlquery.Node) Value { return Value{Kind: XML, xml: v} }

// Bool returns the boolean payload. Only meaningful when Kind == Bool.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload. Only meaningful when Kind == Int.
func (v Value) Int() int64 { return v.i }

// Float returns the floating-point payload. Only meaningful when Kind == Float.
func (v Value) Float() float64 { return v.f }

// Str returns the string payload. Only meaningful when Kind == String.
func (v Value) Str() string { return v.s }

// Raw returns the byte-sequence payload. Only meaningful when Kind == Bytes.
func (v Value) Raw() []byte { return v.bytes }

// List returns the list payload. Only meaningful when Kind == List.
func (v Value) List() []Value { return v.list }

// Map returns the map payload. Only meaningful when Kind == Map.
func (v Value) Map() map[string]Value { return v.m }

// JSONResult returns the gjson payload. Only meaningful when Kind == JSON.
func (v Value) JSONResult() gjson.Result { return v.json }

// XMLNode returns the XML DOM payload. Only meaningful when Kind == XML.
func (v Value) XMLNode() *xmlquery.Node { return v.xml }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.Kind == Null }

// String renders v the way the DSL's string-producing steps expect: the
// default scalar representation used when a value must be treated as text
// (concatenation, regex matching, masking, CSV emission, ...).
func (v Value) String() string {
	switch v.Kind {
	case Null:
		return ""
	case Bool:
		return strconv.FormatBool(v.b)
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case String:
		return v.s
	case Bytes:
		return string(v.bytes)
	case List:
		return fmt.Sprintf("%v", v.valuesAsAny())
	case Map:
		return fmt.Sprintf("%v", v.mapAsAny())
	case JSON:
		return v.json.Raw
	case XML:
		if v.xml == nil {
			return ""
		}
		return v.xml.OutputXML(true)
	default:
		return ""
	}
}

func (v Value) valuesAsAny() []any {
	out := make([]any, len(v.list))
	for i, e := range v.list {
		out[i] = e.String()
	}
	return out
}

func (v Value) mapAsAny() map[string]any {
	out := make(map[string]any, len(v.m))
	for k, e := range v.m {
		out[k] = e.String()
	}
	return out
}
