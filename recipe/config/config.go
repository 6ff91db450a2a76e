// Package config loads the YAML-based execution configuration (lookup
// tables and quantize presets) that a caller feeds into a recipe.Runtime
// before a run, mirroring the teacher's dslyaml polymorphic-decode style.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rowforge/recipe"
)

// ExecutionConfig is the Go-level representation of a parsed configuration
// file: named lookup tables for masking/enrichment steps, and named
// quantize range presets referenced from a recipe via "preset:<name>".
type ExecutionConfig struct {
	LookupTables    map[string]map[string]string
	QuantizePresets map[string]string
}

// yamlConfig is the on-disk YAML shape. QuantizePresets entries accept two
// forms: a compact string range spec, or a sequence of structured range
// mappings — both decode through yaml.Node, the same polymorphic-decode
// idiom the teacher's dslyaml package uses for its "command"/"uses" fields.
type yamlConfig struct {
	LookupTables    map[string]map[string]string `yaml:"lookup_tables,omitempty"`
	QuantizePresets map[string]yaml.Node         `yaml:"quantize_presets,omitempty"`
}

// yamlQuantizeRange is one entry of the structured-sequence preset form.
type yamlQuantizeRange struct {
	Lo    *float64 `yaml:"lo,omitempty"`
	Hi    *float64 `yaml:"hi,omitempty"`
	Label string   `yaml:"label"`
}

// Parse reads a configuration document from its raw YAML bytes.
func Parse(in []byte) (*ExecutionConfig, error) {
	var yc yamlConfig
	if err := yaml.Unmarshal(in, &yc); err != nil {
		return nil, fmt.Errorf("parsing execution config: %w", err)
	}
	cfg := &ExecutionConfig{
		LookupTables:    yc.LookupTables,
		QuantizePresets: make(map[string]string, len(yc.QuantizePresets)),
	}
	for name, node := range yc.QuantizePresets {
		spec, err := convertQuantizePreset(node)
		if err != nil {
			return nil, fmt.Errorf("quantize preset %q: %w", name, err)
		}
		cfg.QuantizePresets[name] = spec
	}
	return cfg, nil
}

// convertQuantizePreset normalizes either YAML form of a preset into the
// compact "lo-hi:label,..." spec string that recipe.quantize already parses.
func convertQuantizePreset(node yaml.Node) (string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value, nil

	case yaml.SequenceNode:
		var ranges []yamlQuantizeRange
		if err := node.Decode(&ranges); err != nil {
			return "", fmt.Errorf("structured range list: %w", err)
		}
		parts := make([]string, 0, len(ranges))
		for _, r := range ranges {
			if r.Label == "" {
				return "", fmt.Errorf("structured range entry missing label")
			}
			var b strings.Builder
			if r.Lo != nil {
				b.WriteString(formatFloat(*r.Lo))
			}
			b.WriteByte('-')
			if r.Hi != nil {
				b.WriteString(formatFloat(*r.Hi))
			}
			b.WriteByte(':')
			b.WriteString(r.Label)
			parts = append(parts, b.String())
		}
		return strings.Join(parts, ","), nil

	default:
		return "", fmt.Errorf("expected a string or a sequence of range mappings, got YAML kind %d", node.Kind)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ApplyTo copies the configuration's lookup tables and quantize presets into
// rt, overwriting any entries already present under the same names.
func (c *ExecutionConfig) ApplyTo(rt *recipe.Runtime) {
	for name, table := range c.LookupTables {
		rt.LookupTables[name] = table
	}
	for name, spec := range c.QuantizePresets {
		rt.QuantizePresets[name] = spec
	}
}
