package services

import (
	"price-dashboard/models"
	"price-dashboard/pricing"
	"price-dashboard/utils"
)

// Dashboard applies a pricing rule to observation tables and scenarios.
type Dashboard struct {
	logger    *utils.Logger
	rule      *pricing.Rule
	locations []string
}

// NewDashboard creates a Dashboard for the given rule and locations.
func NewDashboard(logger *utils.Logger, rule *pricing.Rule, locations []string) *Dashboard {
	return &Dashboard{logger: logger, rule: rule, locations: locations}
}

// Rule returns the active pricing rule.
func (d *Dashboard) Rule() *pricing.Rule {
	return d.rule
}

// Prescribe prices a single scenario.
func (d *Dashboard) Prescribe(users, posts int) models.Prescription {
	sol := d.rule.Solve(float64(users), float64(posts))
	if !sol.Feasible {
		d.logger.Debug("[dashboard] No admissible price under %s for users=%d posts=%d",
			d.rule.Name, users, posts)
	}
	return models.Prescription{
		Rule:          d.rule.Name,
		ActiveUsers:   users,
		NumberOfPosts: posts,
		Price:         sol.Price,
		Feasible:      sol.Feasible,
		Display:       pricing.Display(sol.Price),
	}
}

// PriceRows prices every observation using its own active users and posts.
func (d *Dashboard) PriceRows(obs []*models.Observation) []*models.PricedObservation {
	out := make([]*models.PricedObservation, 0, len(obs))
	for _, o := range obs {
		sol := d.rule.Solve(float64(o.ActiveUsers), float64(o.NumberOfPosts))
		out = append(out, &models.PricedObservation{
			Observation: *o,
			Price:       sol.Price,
			Feasible:    sol.Feasible,
		})
	}
	return out
}

// Build assembles one render of the dashboard: the rows for the selected
// location priced row-wise, and the headline price from the live controls.
func (d *Dashboard) Build(obs []*models.Observation, scenario models.Scenario) *models.DashboardView {
	rows := d.PriceRows(FilterByLocation(obs, scenario.Location))
	return &models.DashboardView{
		Scenario:  scenario,
		Headline:  d.Prescribe(scenario.ActiveUsers, scenario.NumberOfPosts),
		Rows:      rows,
		Summary:   Summarise(rows),
		Locations: d.locations,
	}
}

// FilterByLocation keeps the rows for one location, preserving order.
func FilterByLocation(obs []*models.Observation, location string) []*models.Observation {
	out := make([]*models.Observation, 0, len(obs))
	for _, o := range obs {
		if o.Location == location {
			out = append(out, o)
		}
	}
	return out
}

// Summarise computes price statistics over feasible rows. Infeasible rows
// are only counted.
func Summarise(rows []*models.PricedObservation) models.PriceSummary {
	s := models.PriceSummary{Rows: len(rows)}

	var total float64
	feasible := 0
	for _, r := range rows {
		if !r.Feasible {
			s.Infeasible++
			continue
		}
		if feasible == 0 || r.Price < s.Min {
			s.Min = r.Price
		}
		if feasible == 0 || r.Price > s.Max {
			s.Max = r.Price
			s.MaxDate = r.Date
		}
		total += r.Price
		feasible++
	}
	if feasible > 0 {
		s.Average = pricing.Round(total / float64(feasible))
	}
	return s
}
