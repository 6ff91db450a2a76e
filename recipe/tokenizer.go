package recipe

import "strings"

// TokenMode selects how Tokenizer.Next slices the remainder of the line.
type TokenMode int

const (
	// Whitespace returns the next maximal non-space run (the default mode).
	Whitespace TokenMode = iota
	// ToEndOfLine returns the entire remainder of the line, trimmed, and
	// exhausts the cursor. Used for trailing free-form arguments: expressions,
	// regex patterns, date patterns, JSON/XML paths, range specs.
	ToEndOfLine
)

// Tokenizer is a stateful cursor over a single directive line (spec.md
// §4.3). It has no hidden state beyond the cursor position: the mode is
// supplied explicitly to each call to Next, not tracked internally.
type Tokenizer struct {
	line string
	pos  int
}

// NewTokenizer returns a Tokenizer positioned at the start of line.
func NewTokenizer(line string) *Tokenizer {
	return &Tokenizer{line: line}
}

// Next returns the next token in the given mode, and whether one was
// available. In Whitespace mode this is the next maximal non-space run; in
// ToEndOfLine mode it is the (trimmed) remainder of the line, and the
// cursor is left exhausted.
func (t *Tokenizer) Next(mode TokenMode) (string, bool) {
	switch mode {
	case ToEndOfLine:
		rest := strings.TrimSpace(t.line[t.pos:])
		t.pos = len(t.line)
		if rest == "" {
			return "", false
		}
		return rest, true
	default:
		return t.nextWhitespace()
	}
}

func (t *Tokenizer) nextWhitespace() (string, bool) {
	n := len(t.line)
	// Skip leading whitespace.
	for t.pos < n && isSpace(t.line[t.pos]) {
		t.pos++
	}
	if t.pos >= n {
		return "", false
	}
	start := t.pos
	for t.pos < n && !isSpace(t.line[t.pos]) {
		t.pos++
	}
	return t.line[start:t.pos], true
}

// Exhausted reports whether there is nothing left to tokenize (ignoring
// trailing whitespace).
func (t *Tokenizer) Exhausted() bool {
	n := len(t.line)
	p := t.pos
	for p < n && isSpace(t.line[p]) {
		p++
	}
	return p >= n
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
