package recipe

import "github.com/rowforge/recipe/row"

// OutcomeKind tags what a Step did with its input row: keep it (transformed
// or not), drop it, or fan it out into several rows. Modelled as a sealed
// kind the same way the teacher's dsl package seals Node with an unexported
// method — Step is the execution-time analogue of dsl.Node.
type OutcomeKind int

const (
	Keep OutcomeKind = iota
	Skip
	Many
)

// Outcome is the result of executing one Step against one row.
type Outcome struct {
	Kind OutcomeKind
	Rows []*row.Row // Kind == Keep: exactly one row. Kind == Many: zero or more.
}

// KeepRow builds a Keep outcome.
func KeepRow(r *row.Row) Outcome { return Outcome{Kind: Keep, Rows: []*row.Row{r}} }

// SkipRow builds a Skip outcome.
func SkipRow() Outcome { return Outcome{Kind: Skip} }

// ManyRows builds a Many (fan-out) outcome, preserving emission order.
func ManyRows(rows ...*row.Row) Outcome { return Outcome{Kind: Many, Rows: rows} }

// Step is the uniform contract every directive implementation satisfies
// (spec.md §4.5). Execute receives a row and execution-time Runtime and
// returns either a KEEP/SKIP/MANY outcome or a step-level error.
//
// isStep is unexported to seal the interface to this package, exactly as
// the teacher seals Node with isNode() — only the directive implementations
// in this package may produce a Step.
type Step interface {
	isStep()
	Execute(r *row.Row, rt *Runtime) (Outcome, error)
}

// StepDescriptor is the immutable record produced by the parser and
// consumed by the executor (spec.md §3 "Step descriptor"). It is never
// mutated after construction.
type StepDescriptor struct {
	Line      int    // 1-based source line number
	Text      string // original directive text
	Directive string // directive kind, e.g. "rename", "split-to-rows"
	Step      Step
}

// Recipe is the ordered list of step descriptors produced by ParseRecipe.
// Equal recipes produce equal step lists from equal DSL input (parse is a
// pure function of its input text).
type Recipe struct {
	Steps []*StepDescriptor
}
