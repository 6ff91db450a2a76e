package recipe

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rowforge/recipe/row"
)

func registerStringSteps(r *Registry) {
	r.Register(Definition{Name: "uppercase", Usage: "uppercase <col>", Construct: parseCaseStep(strings.ToUpper)})
	r.Register(Definition{Name: "lowercase", Usage: "lowercase <col>", Construct: parseCaseStep(strings.ToLower)})

	titleCaser := cases.Title(language.Und)
	r.Register(Definition{Name: "titlecase", Usage: "titlecase <col>", Construct: parseCaseStep(titleCaser.String)})
}

type caseStep struct {
	stepBase
	col string
	fn  func(string) string
}

// parseCaseStep returns a Constructor for a single-column case transform.
func parseCaseStep(fn func(string) string) Constructor {
	return func(p *parseState) (Step, error) {
		col, err := p.Field(Whitespace, "col")
		if err != nil {
			return nil, err
		}
		return &caseStep{col: col, fn: fn}, nil
	}
}

func (s *caseStep) Execute(r *row.Row, rt *Runtime) (Outcome, error) {
	i := r.Find(s.col)
	if i < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMissingColumn, s.col)
	}
	v := r.GetValueAt(i)
	r.SetValueAt(i, row.StringValue(s.fn(v.String())))
	return KeepRow(r), nil
}
