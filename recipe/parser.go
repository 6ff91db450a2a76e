package recipe

import (
	"fmt"
	"strings"
)

// parseState is handed to a Constructor: it bundles the tokenizer positioned
// after the directive name with the line number and usage template needed
// to build precise parse errors, implementing the nextToken(mode,
// directiveName, fieldName, line, optional) contract from spec.md §4.4
// point 3 as methods instead of one five-argument function.
type parseState struct {
	tok       *Tokenizer
	line      int
	text      string
	directive string
	usage     string
}

// Field reads a required token. Missing tokens fail with
// "Missing field '<field>' at line L for directive <name> (usage: <template>)".
func (p *parseState) Field(mode TokenMode, field string) (string, error) {
	tok, ok := p.tok.Next(mode)
	if !ok {
		return "", &ParseError{
			Line:      p.line,
			Directive: p.directive,
			Usage:     p.usage,
			Err:       fmt.Errorf("%w '%s' at line %d for directive %s", ErrMissingField, field, p.line, p.directive),
		}
	}
	return tok, nil
}

// FieldOptional reads an optional token, returning ("", false) if absent.
func (p *parseState) FieldOptional(mode TokenMode) (string, bool) {
	return p.tok.Next(mode)
}

// Fail builds a ParseError for directive-specific validation failures
// (numeric parsing, wildcard rejection, empty literal, etc.), wrapping the
// given sentinel.
func (p *parseState) Fail(sentinel error, detail string) error {
	return &ParseError{
		Line:      p.line,
		Directive: p.directive,
		Usage:     p.usage,
		Err:       fmt.Errorf("%w: %s at line %d for directive %s", sentinel, detail, p.line, p.directive),
	}
}

// ParseRecipe translates DSL text into an ordered, validated Recipe, or
// returns the first parse error encountered (spec.md §4.4). ParseRecipe is a
// pure function of its input text for a given registry.
func ParseRecipe(text string, reg *Registry) (*Recipe, error) {
	lines := strings.Split(text, "\n")
	rec := &Recipe{}

	for i, raw := range lines {
		lineNo := i + 1
		trimmed := strings.TrimRight(raw, " \t\r")
		if strings.TrimSpace(trimmed) == "" {
			continue // blank line: counter advances, no descriptor
		}

		tok := NewTokenizer(trimmed)
		name, ok := tok.Next(Whitespace)
		if !ok {
			continue
		}

		directive := name
		// The "set" family reads a second token as its sub-kind, folded into
		// the registry lookup key ("set column", "set format").
		if name == "set" {
			sub, ok := tok.Next(Whitespace)
			if !ok {
				return nil, &ParseError{
					Line: lineNo, Directive: name,
					Err: fmt.Errorf("%w '%s' at line %d for directive %s", ErrMissingField, "kind", lineNo, "set"),
				}
			}
			directive = "set " + sub
		}

		def, ok := reg.Get(directive)
		if !ok {
			return nil, &ParseError{
				Line:      lineNo,
				Directive: directive,
				Err:       fmt.Errorf("%w '%s' at line %d", ErrUnknownDirective, directive, lineNo),
			}
		}

		p := &parseState{tok: tok, line: lineNo, text: trimmed, directive: directive, usage: def.Usage}
		step, err := def.Construct(p)
		if err != nil {
			return nil, err
		}

		rec.Steps = append(rec.Steps, &StepDescriptor{
			Line:      lineNo,
			Text:      trimmed,
			Directive: directive,
			Step:      step,
		})
	}

	return rec, nil
}

// resolveDelimiter implements the escape-handling rule of spec.md §4.4 /
// §6: a token whose first character is '\' is passed through standard
// string-escape resolution and the first rune of the result becomes the
// delimiter; otherwise the first rune of the raw token is used directly.
func resolveDelimiter(raw string) (rune, error) {
	if raw == "" {
		return 0, ErrEmptyLiteral
	}
	if raw[0] != '\\' {
		for _, r := range raw {
			return r, nil
		}
	}
	unquoted, err := unescape(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadEscape, err)
	}
	if unquoted == "" {
		return 0, ErrEmptyLiteral
	}
	for _, r := range unquoted {
		return r, nil
	}
	return 0, ErrEmptyLiteral
}

// unescape resolves the standard single-character escapes used by the DSL:
// \t \n \r \\ \" and a bare backslash followed by any other rune passes that
// rune through unchanged.
func unescape(raw string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			i++
			continue
		}
		next := raw[i+1]
		switch next {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			b.WriteByte(next)
		}
		i += 2
	}
	return b.String(), nil
}
