package services

import (
	"bytes"
	"strings"
	"testing"

	"price-dashboard/models"
)

func TestReportGroupsByLocation(t *testing.T) {
	svc := NewReportService(newTestLogger(), newTestDashboard(t, "engagement-capped"))
	r := svc.Generate(sampleObservations(), models.Scenario{ActiveUsers: 3000, NumberOfPosts: 200})

	if r.Rule != "engagement-capped" {
		t.Errorf("Rule: got %q", r.Rule)
	}
	if len(r.Locations) != 2 {
		t.Fatalf("locations: got %d, want 2", len(r.Locations))
	}
	if r.Locations[0].Location != "Manila" || r.Locations[1].Location != "Quezon City" {
		t.Errorf("location order: got %s, %s", r.Locations[0].Location, r.Locations[1].Location)
	}
	if len(r.Locations[0].Rows) != 3 || len(r.Locations[1].Rows) != 3 {
		t.Errorf("rows per location: got %d and %d", len(r.Locations[0].Rows), len(r.Locations[1].Rows))
	}
	if r.Overall.Rows != 6 {
		t.Errorf("Overall.Rows: got %d, want 6", r.Overall.Rows)
	}
	if r.Scenario.Price != 400 {
		t.Errorf("Scenario.Price: got %.2f, want 400", r.Scenario.Price)
	}
}

func TestReportPrint(t *testing.T) {
	svc := NewReportService(newTestLogger(), newTestDashboard(t, "user-threshold"))
	r := svc.Generate(sampleObservations(), models.Scenario{ActiveUsers: 3000, NumberOfPosts: 200})

	var buf bytes.Buffer
	svc.Print(&buf, r)
	out := buf.String()

	for _, want := range []string{"Manila", "Quezon City", "2024-01-31", "no admissible price", "₱120.00", "Average : ₱113.33", "Range   : ₱80.00 to ₱140.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q", want)
		}
	}
}

func TestReportEmptyInput(t *testing.T) {
	svc := NewReportService(newTestLogger(), newTestDashboard(t, "engagement-capped"))
	r := svc.Generate(nil, models.Scenario{ActiveUsers: 3000, NumberOfPosts: 200})
	if len(r.Locations) != 0 || r.Overall.Rows != 0 {
		t.Errorf("expected empty report, got %d locations", len(r.Locations))
	}
}
