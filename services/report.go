package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"price-dashboard/models"
	"price-dashboard/pricing"
	"price-dashboard/utils"
)

// ReportService builds and prints the per-location price report.
type ReportService struct {
	logger    *utils.Logger
	dashboard *Dashboard
}

func NewReportService(logger *utils.Logger, dashboard *Dashboard) *ReportService {
	return &ReportService{logger: logger, dashboard: dashboard}
}

// Generate prices every observation and groups the result by location, in
// the order locations first appear in obs.
func (s *ReportService) Generate(obs []*models.Observation, scenario models.Scenario) *models.Report {
	report := &models.Report{
		Rule:        s.dashboard.Rule().Name,
		GeneratedAt: time.Now(),
		Scenario:    s.dashboard.Prescribe(scenario.ActiveUsers, scenario.NumberOfPosts),
	}

	all := s.dashboard.PriceRows(obs)
	byLocation := make(map[string]*models.LocationReport)
	for _, r := range all {
		lr, ok := byLocation[r.Location]
		if !ok {
			lr = &models.LocationReport{Location: r.Location}
			byLocation[r.Location] = lr
			report.Locations = append(report.Locations, lr)
		}
		lr.Rows = append(lr.Rows, r)
	}
	for _, lr := range report.Locations {
		lr.Summary = Summarise(lr.Rows)
	}
	report.Overall = Summarise(all)

	s.logger.Info("[report] Priced %d rows across %d locations with rule %s",
		len(all), len(report.Locations), report.Rule)
	return report
}

// Print renders the report as terminal tables.
func (s *ReportService) Print(w io.Writer, r *models.Report) {
	sep := strings.Repeat("═", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  PRESCRIBED PRICE REPORT (%s)\033[0m\n", r.Rule)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Scenario\033[0m\n")
	fmt.Fprintf(w, "  Active users : \033[1m%d\033[0m\n", r.Scenario.ActiveUsers)
	fmt.Fprintf(w, "  Posts        : \033[1m%d\033[0m\n", r.Scenario.NumberOfPosts)
	if r.Scenario.Feasible {
		fmt.Fprintf(w, "  Recommended  : \033[1;32m%s\033[0m\n\n", r.Scenario.Display)
	} else {
		fmt.Fprintf(w, "  Recommended  : \033[1;31m%s (no admissible price)\033[0m\n\n", r.Scenario.Display)
	}

	for _, lr := range r.Locations {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleRounded)
		t.SetTitle("%s", lr.Location)
		t.AppendHeader(table.Row{"Date", "Active users", "Posts", "Price"})
		for _, row := range lr.Rows {
			price := pricing.Display(row.Price)
			if !row.Feasible {
				price += " *"
			}
			t.AppendRow(table.Row{row.Date.Format("2006-01-02"), row.ActiveUsers, row.NumberOfPosts, price})
		}
		t.AppendFooter(table.Row{"", "", "avg", pricing.Display(lr.Summary.Average)})
		t.Render()
		if lr.Summary.Infeasible > 0 {
			fmt.Fprintf(w, "  * %d of %d months have no admissible price\n", lr.Summary.Infeasible, lr.Summary.Rows)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Overall\033[0m\n")
	fmt.Fprintf(w, "  Rows    : %d (%d infeasible)\n", r.Overall.Rows, r.Overall.Infeasible)
	fmt.Fprintf(w, "  Average : %s\n", pricing.Display(r.Overall.Average))
	fmt.Fprintf(w, "  Range   : %s to %s\n", pricing.Display(r.Overall.Min), pricing.Display(r.Overall.Max))
	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}
