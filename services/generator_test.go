package services

import (
	"testing"
	"time"

	"price-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func TestGenerateRowCountAndUniqueness(t *testing.T) {
	g := NewGenerator(newTestLogger(), 1)

	tests := []struct {
		locations []string
		periods   int
		want      int
	}{
		{[]string{"Manila", "Quezon City"}, 10, 20},
		{[]string{"Manila"}, 3, 3},
		{[]string{"Manila", "Quezon City"}, 0, 0},
		{nil, 10, 0},
		{[]string{"Manila", "Manila", "Quezon City"}, 4, 8},
	}

	for _, tt := range tests {
		rows := g.Generate(tt.locations, tt.periods)
		if len(rows) != tt.want {
			t.Errorf("Generate(%v, %d): got %d rows, want %d", tt.locations, tt.periods, len(rows), tt.want)
		}

		seen := make(map[string]bool)
		for _, r := range rows {
			key := r.Location + "|" + r.Date.Format("2006-01-02")
			if seen[key] {
				t.Errorf("duplicate (date, location) pair %s", key)
			}
			seen[key] = true
		}
	}
}

func TestGenerateOrderingAndRanges(t *testing.T) {
	g := NewGenerator(newTestLogger(), 42)
	rows := g.Generate([]string{"Manila", "Quezon City"}, 10)

	for i, r := range rows {
		wantLoc := "Manila"
		if i >= 10 {
			wantLoc = "Quezon City"
		}
		if r.Location != wantLoc {
			t.Fatalf("row %d: location %q, want %q", i, r.Location, wantLoc)
		}
		if i%10 > 0 && !r.Date.After(rows[i-1].Date) {
			t.Errorf("row %d: dates not increasing within location", i)
		}
		if r.ActiveUsers < MinActiveUsers || r.ActiveUsers >= MaxActiveUsers {
			t.Errorf("row %d: active users %d out of range", i, r.ActiveUsers)
		}
		if r.NumberOfPosts < MinPosts || r.NumberOfPosts >= MaxPosts {
			t.Errorf("row %d: posts %d out of range", i, r.NumberOfPosts)
		}
	}
}

func TestGenerateSeeded(t *testing.T) {
	a := NewGenerator(newTestLogger(), 9).Generate([]string{"Manila"}, 5)
	b := NewGenerator(newTestLogger(), 9).Generate([]string{"Manila"}, 5)
	for i := range a {
		if *a[i] != *b[i] {
			t.Errorf("row %d differs for identical seeds: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestMonthEnds(t *testing.T) {
	dates := MonthEnds(StartDate, 10)
	want := []string{
		"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30", "2024-05-31",
		"2024-06-30", "2024-07-31", "2024-08-31", "2024-09-30", "2024-10-31",
	}
	if len(dates) != len(want) {
		t.Fatalf("len: got %d, want %d", len(dates), len(want))
	}
	for i, d := range dates {
		if got := d.Format("2006-01-02"); got != want[i] {
			t.Errorf("dates[%d] = %s; want %s", i, got, want[i])
		}
	}

	if got := MonthEnds(time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC), 3)[2].Format("2006-01-02"); got != "2025-01-31" {
		t.Errorf("year rollover: got %s, want 2025-01-31", got)
	}
}
