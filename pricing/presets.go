package pricing

// Default is the rule used when none is configured.
const Default = "engagement-capped"

func upper(intercept, users, posts float64) Constraint {
	return Constraint{Coef: 1, Bound: Affine{Intercept: intercept, Users: users, Posts: posts}}
}

func ceiling(v float64) Constraint {
	return upper(v, 0, 0)
}

// Presets returns the built-in rules in display order.
func Presets() []*Rule {
	return []*Rule{
		{
			Name:        "engagement-discount",
			Description: "price <= 1000 - 0.2*users + 0.5*posts",
			Constraints: []Constraint{upper(1000, -0.2, 0.5)},
		},
		{
			Name:        "engagement-capped",
			Description: "price <= 0.1*users + 0.5*posts, capped at 5000",
			Constraints: []Constraint{upper(0, 0.1, 0.5), ceiling(5000)},
		},
		{
			Name:        "engagement-uncapped",
			Description: "price <= 0.1*users + 0.5*posts",
			Constraints: []Constraint{upper(0, 0.1, 0.5)},
		},
		{
			Name:        "user-threshold",
			Description: "price <= (2000 - users)*0.1 + 0.2*posts",
			Constraints: []Constraint{upper(200, -0.1, 0.2)},
		},
		{
			Name:        "user-threshold-capped",
			Description: "price <= (2000 - users)*0.1 + 0.2*posts, capped at 5000",
			Constraints: []Constraint{upper(200, -0.1, 0.2), ceiling(5000)},
		},
		{
			// -price <= 0.05*users - 0.5*posts, i.e. a floor of 0.5*posts - 0.05*users.
			// Inputs that push the floor above the cap have no admissible price.
			Name:        "floor-and-cap",
			Description: "price <= 5000 and price >= 0.5*posts - 0.05*users",
			Constraints: []Constraint{
				ceiling(5000),
				{Coef: -1, Bound: Affine{Users: 0.05, Posts: -0.5}},
			},
		},
	}
}
