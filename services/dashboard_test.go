package services

import (
	"testing"
	"time"

	"price-dashboard/models"
	"price-dashboard/pricing"
)

func sampleObservations() []*models.Observation {
	d := MonthEnds(StartDate, 3)
	return []*models.Observation{
		{Date: d[0], Location: "Manila", ActiveUsers: 3000, NumberOfPosts: 200},
		{Date: d[1], Location: "Manila", ActiveUsers: 1000, NumberOfPosts: 100},
		{Date: d[2], Location: "Manila", ActiveUsers: 6000, NumberOfPosts: 50},
		{Date: d[0], Location: "Quezon City", ActiveUsers: 2000, NumberOfPosts: 400},
		{Date: d[1], Location: "Quezon City", ActiveUsers: 5000, NumberOfPosts: 300},
		{Date: d[2], Location: "Quezon City", ActiveUsers: 1500, NumberOfPosts: 450},
	}
}

func newTestDashboard(t *testing.T, rule string) *Dashboard {
	t.Helper()
	r, err := pricing.DefaultRegistry().Get(rule)
	if err != nil {
		t.Fatal(err)
	}
	return NewDashboard(newTestLogger(), r, []string{"Manila", "Quezon City"})
}

func TestDashboardPrescribe(t *testing.T) {
	d := newTestDashboard(t, "engagement-capped")
	p := d.Prescribe(3000, 200)
	if p.Price != 400 || !p.Feasible || p.Display != "₱400.00" || p.Rule != "engagement-capped" {
		t.Errorf("Prescribe(3000, 200) = %+v", p)
	}
}

func TestDashboardBuildFiltersAndPricesRows(t *testing.T) {
	d := newTestDashboard(t, "engagement-capped")
	view := d.Build(sampleObservations(), models.Scenario{Location: "Quezon City", ActiveUsers: 3000, NumberOfPosts: 200})

	if len(view.Rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(view.Rows))
	}
	want := []float64{400, 650, 375}
	for i, r := range view.Rows {
		if r.Location != "Quezon City" {
			t.Errorf("row %d: location %q", i, r.Location)
		}
		if r.Price != want[i] {
			t.Errorf("row %d: price %.2f, want %.2f", i, r.Price, want[i])
		}
	}
	if view.Headline.Price != 400 {
		t.Errorf("headline: got %.2f, want 400", view.Headline.Price)
	}
	if view.Summary.Max != 650 || view.Summary.Min != 375 || view.Summary.Average != 475 {
		t.Errorf("summary: got %+v", view.Summary)
	}
	if !view.Summary.MaxDate.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("summary MaxDate: got %v", view.Summary.MaxDate)
	}
}

func TestSummariseCountsInfeasibleRows(t *testing.T) {
	d := newTestDashboard(t, "user-threshold")
	rows := d.PriceRows(FilterByLocation(sampleObservations(), "Manila"))

	// 200 - 0.1*u + 0.2*p: 3000/200 -> -60, 1000/100 -> 120, 6000/50 -> -390
	s := Summarise(rows)
	if s.Rows != 3 || s.Infeasible != 2 {
		t.Errorf("rows/infeasible: got %d/%d, want 3/2", s.Rows, s.Infeasible)
	}
	if s.Average != 120 || s.Min != 120 || s.Max != 120 {
		t.Errorf("stats: got %+v", s)
	}
	for _, r := range rows {
		if r.Price < 0 {
			t.Errorf("negative price %.2f", r.Price)
		}
	}
}

func TestSummariseEmpty(t *testing.T) {
	s := Summarise(nil)
	if s.Rows != 0 || s.Average != 0 {
		t.Errorf("empty summary: got %+v", s)
	}
}

func TestSummariseRoundsAverage(t *testing.T) {
	rows := []*models.PricedObservation{
		{Observation: models.Observation{Location: "Manila"}, Price: 1, Feasible: true},
		{Observation: models.Observation{Location: "Manila"}, Price: 1, Feasible: true},
		{Observation: models.Observation{Location: "Manila"}, Price: 1.01, Feasible: true},
	}
	if s := Summarise(rows); s.Average != 1 {
		t.Errorf("Average: got %v, want 1", s.Average)
	}
}
