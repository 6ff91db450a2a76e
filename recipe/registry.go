package recipe

import "sort"

// Constructor builds a Step from the tokens following the directive name on
// a single recipe line. p gives access to the remaining tokens via the
// nextToken contract (spec.md §4.4 point 3) and to the line number and
// original directive text for error reporting.
type Constructor func(p *parseState) (Step, error)

// Definition is what the registry holds for one directive (spec.md §4.2):
// its usage template, quoted verbatim in parse-error messages, and the
// constructor that turns tokens into a Step.
type Definition struct {
	Name      string
	Usage     string
	Construct Constructor
}

// Registry maps directive names to their Definition.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: map[string]Definition{}}
}

// Register adds a directive definition. Re-registering the same name
// overwrites the previous definition; callers building the default registry
// rely on each name being registered exactly once.
func (r *Registry) Register(def Definition) {
	r.defs[def.Name] = def
}

// Get looks up a directive definition by name.
func (r *Registry) Get(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// All returns every registered Definition, sorted by directive name. Used by
// the CLI's "list" command to print available directives and their usage.
func (r *Registry) All() []Definition {
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefaultRegistry returns a Registry with every directive in §4.5 registered.
// Built fresh on each call so callers may freely mutate their own copy.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	registerColumnSteps(r)
	registerStringSteps(r)
	registerSliceSteps(r)
	registerParseSteps(r)
	registerDateSteps(r)
	registerMaskSteps(r)
	registerExprSteps(r)
	return r
}
