package pricing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRegistryOrderAndOverride(t *testing.T) {
	reg := DefaultRegistry()
	if len(reg.Rules()) != 6 {
		t.Fatalf("preset count: got %d, want 6", len(reg.Rules()))
	}

	override := &Rule{Name: "engagement-discount", Constraints: []Constraint{ceiling(42)}}
	if err := reg.Merge([]*Rule{override}); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	rules := reg.Rules()
	if rules[0].Name != "engagement-discount" {
		t.Errorf("override moved position: first rule is %q", rules[0].Name)
	}
	if got := rules[0].Prescribe(3000, 200); got != 42 {
		t.Errorf("override not applied: got %.2f, want 42", got)
	}
}

func TestRegistryUnknownRule(t *testing.T) {
	_, err := DefaultRegistry().Get("nope")
	if !errors.Is(err, ErrUnknownRule) {
		t.Errorf("Get(nope) error = %v; want ErrUnknownRule", err)
	}
}

func TestRegistryRejectsInvalidRule(t *testing.T) {
	_, err := NewRegistry(&Rule{Name: "bad"})
	if !errors.Is(err, ErrInvalidRule) {
		t.Errorf("NewRegistry error = %v; want ErrInvalidRule", err)
	}
}

const rulesYAML = `
rules:
  - name: flat
    description: fixed price
    constraints:
      - coef: 1
        bound: {intercept: 250}
  - name: posts-weighted
    constraints:
      - coef: 1
        bound: {posts: 2}
      - coef: 1
        bound: {intercept: 900}
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(rulesYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("rules: got %d, want 2", len(rules))
	}
	if got := rules[0].Prescribe(3000, 200); got != 250 {
		t.Errorf("flat: got %.2f, want 250", got)
	}
	if got := rules[1].Prescribe(0, 200); got != 400 {
		t.Errorf("posts-weighted: got %.2f, want 400", got)
	}
	if got := rules[1].Prescribe(0, 1000); got != 900 {
		t.Errorf("posts-weighted capped: got %.2f, want 900", got)
	}
}

func TestParseRulesErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"duplicate", "rules:\n  - name: a\n    constraints: [{coef: 1, bound: {intercept: 1}}]\n  - name: a\n    constraints: [{coef: 1, bound: {intercept: 2}}]\n"},
		{"no upper bound", "rules:\n  - name: a\n    constraints: [{coef: -1, bound: {intercept: 1}}]\n"},
		{"missing name", "rules:\n  - constraints: [{coef: 1, bound: {intercept: 1}}]\n"},
	}

	for _, tt := range tests {
		if _, err := ParseRules([]byte(tt.doc)); !errors.Is(err, ErrInvalidRule) {
			t.Errorf("%s: error = %v; want ErrInvalidRule", tt.name, err)
		}
	}

	if _, err := ParseRules([]byte("rules: [")); err == nil {
		t.Error("malformed YAML: expected error")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
