package guidance

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/aretw0/qiscreen/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Rule is one guidance entry of the table.
type Rule struct {
	Qi      []string `yaml:"qi" json:"qi"`
	Lumin   string   `yaml:"lumin" json:"lumin"`
	Forward string   `yaml:"forward" json:"forward"`
	Reverse string   `yaml:"reverse,omitempty" json:"reverse,omitempty"`
	Tags    []string `yaml:"tags" json:"tags"`
}

// Table maps a rhythm label to its rules.
type Table map[string][]Rule

// DefaultTable returns the built-in rule table.
func DefaultTable() Table {
	t, err := ParseTable(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("guidance: invalid embedded rules: %v", err))
	}
	return t
}

// ParseTable decodes a YAML (or JSON) rule table and checks every name against the
// canonical dimension and label lists.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse guidance rules: %w", err)
	}
	for rhythm, rules := range t {
		if kind, _ := domain.LookupDimension(rhythm); kind != domain.DimensionRhythm {
			return nil, fmt.Errorf("guidance rules: unknown rhythm %q", rhythm)
		}
		for i, r := range rules {
			if r.Forward == "" {
				return nil, fmt.Errorf("guidance rules: %s[%d]: empty forward text", rhythm, i)
			}
			if kind, _ := domain.LookupDimension(r.Lumin); r.Lumin != "" && kind != domain.DimensionLumin {
				return nil, fmt.Errorf("guidance rules: %s[%d]: unknown lumin channel %q", rhythm, i, r.Lumin)
			}
			for _, q := range r.Qi {
				if kind, _ := domain.LookupDimension(q); kind != domain.DimensionQi {
					return nil, fmt.Errorf("guidance rules: %s[%d]: unknown qi dimension %q", rhythm, i, q)
				}
			}
		}
	}
	return t, nil
}

// LoadTable reads a rule table from a file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guidance rules: %w", err)
	}
	return ParseTable(data)
}
