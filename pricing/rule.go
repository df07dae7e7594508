// Package pricing prescribes a price from active users and post volume.
//
// A rule is a one-variable linear program: maximise price subject to rows of
// the form coef*price <= intercept + users*u + posts*p, with price >= 0. With
// a single decision variable the optimum is the tightest upper bound, so the
// package solves it in closed form instead of calling a general LP solver.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownRule = errors.New("pricing: unknown rule")
	ErrInvalidRule = errors.New("pricing: invalid rule")
)

// Affine is intercept + users*u + posts*p.
type Affine struct {
	Intercept float64 `yaml:"intercept" json:"intercept"`
	Users     float64 `yaml:"users" json:"users"`
	Posts     float64 `yaml:"posts" json:"posts"`
}

// Eval evaluates the expression for the given active users and posts.
func (a Affine) Eval(users, posts float64) float64 {
	return a.Intercept + a.Users*users + a.Posts*posts
}

func (a Affine) String() string {
	return fmt.Sprintf("%g %+g*users %+g*posts", a.Intercept, a.Users, a.Posts)
}

// Constraint is one row coef*price <= bound(users, posts). A positive coef
// caps the price, a negative coef puts a floor under it.
type Constraint struct {
	Coef  float64 `yaml:"coef" json:"coef"`
	Bound Affine  `yaml:"bound" json:"bound"`
}

// Rule is a named constraint set.
type Rule struct {
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description" json:"description"`
	Constraints []Constraint `yaml:"constraints" json:"constraints"`
}

// Solution is the outcome of one solve. Binding is the index of the row that
// sets the price, or -1 when the rule is infeasible for the inputs.
type Solution struct {
	Price    float64 `json:"price"`
	Feasible bool    `json:"feasible"`
	Binding  int     `json:"binding"`
}

var infeasible = Solution{Price: 0, Feasible: false, Binding: -1}

// Solve maximises price under the rule's rows for the given inputs.
// Infeasible inputs yield price 0 with Feasible=false; never an error.
func (r *Rule) Solve(users, posts float64) Solution {
	upper := math.Inf(1)
	lower := 0.0
	binding := -1

	for i, c := range r.Constraints {
		b := c.Bound.Eval(users, posts)
		switch {
		case c.Coef > 0:
			if v := b / c.Coef; v < upper {
				upper = v
				binding = i
			}
		case c.Coef < 0:
			// dividing by a negative coef flips the inequality
			if v := b / c.Coef; v > lower {
				lower = v
			}
		default:
			if b < 0 {
				return infeasible
			}
		}
	}

	if binding < 0 || math.IsNaN(upper) || lower > upper {
		return infeasible
	}
	return Solution{Price: Round(upper), Feasible: true, Binding: binding}
}

// Prescribe returns the prescribed price, 0 when no price is admissible.
func (r *Rule) Prescribe(users, posts float64) float64 {
	return r.Solve(users, posts).Price
}

// Validate checks that the rule can be solved.
func (r *Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRule)
	}
	if len(r.Constraints) == 0 {
		return fmt.Errorf("%w: rule %q has no constraints", ErrInvalidRule, r.Name)
	}
	capped := false
	for i, c := range r.Constraints {
		for _, v := range []float64{c.Coef, c.Bound.Intercept, c.Bound.Users, c.Bound.Posts} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: rule %q row %d has a non-finite coefficient", ErrInvalidRule, r.Name, i)
			}
		}
		if c.Coef > 0 {
			capped = true
		}
	}
	if !capped {
		return fmt.Errorf("%w: rule %q has no upper bound on price", ErrInvalidRule, r.Name)
	}
	return nil
}

// Display formats a price the way the dashboard headline shows it.
func Display(price float64) string {
	return fmt.Sprintf("₱%.2f", price)
}

// Round rounds a price to whole centavos, half away from zero.
func Round(f float64) float64 {
	return math.Round(f*100) / 100
}
