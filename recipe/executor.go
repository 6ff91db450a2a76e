package recipe

import (
	"context"

	"github.com/rowforge/recipe/row"
)

// Execute runs recipe's steps over rows and returns the transformed rows
// (spec.md §4.6). It is a convenience wrapper around ExecuteContext using
// context.Background(), for callers with no cancellation needs.
func Execute(recipe *Recipe, rows []*row.Row) ([]*row.Row, error) {
	return ExecuteContext(context.Background(), recipe, rows)
}

// ExecuteContext runs recipe's steps over rows, checking ctx for
// cancellation at each row boundary (spec.md §5: "Cancellation is
// cooperative at row boundaries"). A single Runtime is shared across the
// whole call, as required for the regex/xpath/date caches to be effective.
//
// For each input row, steps run in order over a working set of rows
// (initially the single input row):
//
//   - Keep replaces the single working row.
//   - Skip discards the row and stops the step loop for it.
//   - Many replaces the working set with its outputs; later steps run on
//     each output in turn, preserving emission order.
//   - A step error aborts the current row and is returned wrapped in a
//     StepError identifying the directive and line.
//
// Output rows are emitted in input order, with fan-out rows in the order
// their parent step produced them. Execution never parallelizes step
// application within a row — only concurrent callers running distinct
// Runtimes over disjoint row streams may overlap (spec.md §5).
func ExecuteContext(ctx context.Context, recipe *Recipe, rows []*row.Row) ([]*row.Row, error) {
	rt := NewRuntime()
	return RunWithRuntime(ctx, recipe, rows, rt)
}

// RunWithRuntime is like ExecuteContext but lets the caller supply a
// pre-seeded Runtime (e.g. one populated with lookup tables or quantize
// presets via recipe/config).
func RunWithRuntime(ctx context.Context, recipe *Recipe, rows []*row.Row, rt *Runtime) ([]*row.Row, error) {
	out := make([]*row.Row, 0, len(rows))

	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		rt.NextRow()

		working := []*row.Row{r}

		for _, sd := range recipe.Steps {
			if len(working) == 0 {
				break
			}
			var next []*row.Row
			for _, wr := range working {
				outcome, err := sd.Step.Execute(wr, rt)
				if err != nil {
					return out, &StepError{Line: sd.Line, Directive: sd.Text, Err: err}
				}
				switch outcome.Kind {
				case Skip:
					// drop this row; nothing appended to next
				case Many:
					next = append(next, outcome.Rows...)
				default: // Keep
					if len(outcome.Rows) == 1 {
						next = append(next, outcome.Rows[0])
					}
				}
			}
			working = next
		}

		out = append(out, working...)
	}

	return out, nil
}
