package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Registry holds the rules available for selection, keyed by name.
type Registry struct {
	rules map[string]*Rule
	order []string
}

// NewRegistry builds a registry from the given rules. Later rules with the
// same name replace earlier ones but keep the earlier position.
func NewRegistry(rules ...*Rule) (*Registry, error) {
	reg := &Registry{rules: make(map[string]*Rule, len(rules))}
	if err := reg.Merge(rules); err != nil {
		return nil, err
	}
	return reg, nil
}

// DefaultRegistry returns a registry containing the presets.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(Presets()...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Merge validates and adds rules, overriding existing names.
func (r *Registry) Merge(rules []*Rule) error {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if err := rule.Validate(); err != nil {
			return err
		}
		if _, ok := r.rules[rule.Name]; !ok {
			r.order = append(r.order, rule.Name)
		}
		r.rules[rule.Name] = rule
	}
	return nil
}

// Get looks up a rule by name.
func (r *Registry) Get(name string) (*Rule, error) {
	rule, ok := r.rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
	return rule, nil
}

// Rules returns all rules in registration order.
func (r *Registry) Rules() []*Rule {
	out := make([]*Rule, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.rules[name])
	}
	return out
}

type ruleFile struct {
	Rules []*Rule `yaml:"rules"`
}

// LoadFile reads rules from a YAML file of the form
//
//	rules:
//	  - name: flat
//	    constraints:
//	      - coef: 1
//	        bound: {intercept: 250}
//
// Names must be unique within the file.
func LoadFile(path string) ([]*Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pricing: read rules file %q: %w", path, err)
	}
	return ParseRules(raw)
}

// ParseRules decodes and validates a YAML rule document.
func ParseRules(raw []byte) ([]*Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("pricing: decode rules: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Rules))
	for _, rule := range f.Rules {
		if rule == nil {
			return nil, fmt.Errorf("%w: empty rule entry", ErrInvalidRule)
		}
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[rule.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate rule %q", ErrInvalidRule, rule.Name)
		}
		seen[rule.Name] = struct{}{}
	}
	return f.Rules, nil
}
