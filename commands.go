package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"price-dashboard/chart"
	"price-dashboard/models"
	"price-dashboard/pricing"
	"price-dashboard/server"
	"price-dashboard/services"
	"price-dashboard/snapshot"
	"price-dashboard/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := buildApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		renderer, err := chart.NewRenderer(960, 420)
		if err != nil {
			return err
		}

		h := server.NewDashboardHandler(logger, a.source, a.panel, a.dashboard, renderer, a.rules)
		srv := server.NewServer(server.RouterConfig{Logger: logger, Dashboard: h})

		logger.Info("=== Pricing dashboard listening on %s ===", cfg.HTTPAddr)
		logger.Info("Locations: %v | months: %d | regenerate on change: %t",
			cfg.Locations, cfg.Periods, cfg.RegenerateOnChange)
		return srv.Run(ctx, cfg.HTTPAddr)
	},
}

var reportOpts struct {
	location string
	users    string
	posts    string
	csvPath  string
	export   bool
	archive  bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a dataset, price it and print a per-location report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := buildApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		scenario := a.panel.Parse(reportOpts.location, reportOpts.users, reportOpts.posts)
		obs, err := a.source.Observations(ctx)
		if err != nil {
			return err
		}
		if reportOpts.location != "" {
			obs = services.FilterByLocation(obs, scenario.Location)
		}

		svc := services.NewReportService(logger, a.dashboard)
		report := svc.Generate(obs, scenario)
		svc.Print(os.Stdout, report)

		csvPath := reportOpts.csvPath
		if csvPath == "" && reportOpts.export {
			csvPath = cfg.CSVOutputPath
		}
		if csvPath != "" {
			w, err := storage.NewCSVWriter(csvPath)
			if err != nil {
				return err
			}
			if err := exportReport(w, report); err != nil {
				return err
			}
			logger.Info("Priced rows saved to %s", csvPath)
		}

		if reportOpts.archive {
			pg, err := storage.NewPostgresArchiver(ctx, cfg.DSN(), newRetry(cfg, logger))
			if err != nil {
				return fmt.Errorf("%w (is PostgreSQL running? docker compose up -d)", err)
			}
			id, err := archiveReport(ctx, pg, report)
			if err != nil {
				return err
			}
			logger.Info("Run archived in PostgreSQL with id %s", id)
		}
		return nil
	},
}

// exportReport writes every location's priced rows to w and closes it.
func exportReport(w storage.PricedWriter, report *models.Report) error {
	for _, lr := range report.Locations {
		if err := w.WritePriced(lr.Rows); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

// archiveReport stores the run and closes the archiver.
func archiveReport(ctx context.Context, a storage.RunArchiver, report *models.Report) (string, error) {
	defer a.Close()
	return a.Archive(ctx, report)
}

var snapshotOpts struct {
	url   string
	out   string
	users string
	posts string
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a screenshot of the running dashboard for every location",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		panel := services.NewPanel(logger, cfg.Locations)
		scenario := panel.Parse("", snapshotOpts.users, snapshotOpts.posts)

		base := snapshotOpts.url
		if base == "" {
			base = cfg.BaseURL
		}
		out := snapshotOpts.out
		if out == "" {
			out = cfg.SnapshotDir
		}

		targets, err := snapshot.Targets(base, scenario, cfg.Locations)
		if err != nil {
			return err
		}
		results, err := snapshot.New(cfg, logger).Capture(ctx, targets, out)
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d snapshots failed", failed, len(results))
		}
		logger.Info("Captured %d snapshots into %s", len(results), out)
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available pricing rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := cfg.LoadRules()
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"", "Rule", "Constraints", "Price @ 3000/200"})
		for _, r := range rules.Rules() {
			active := ""
			if r.Name == cfg.PricingRule {
				active = "*"
			}
			rows := ""
			for i, c := range r.Constraints {
				if i > 0 {
					rows += "\n"
				}
				rows += strconv.FormatFloat(c.Coef, 'g', -1, 64) + "·price <= " + c.Bound.String()
			}
			t.AppendRow(table.Row{active, r.Name, rows, pricing.Display(r.Prescribe(3000, 200))})
		}
		t.Render()
		return nil
	},
}

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs archived in PostgreSQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pg, err := storage.NewPostgresArchiver(ctx, cfg.DSN(), newRetry(cfg, logger))
		if err != nil {
			return err
		}
		defer pg.Close()

		runs, err := pg.Runs(ctx, runsLimit)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Run", "Rule", "Scenario price", "Rows", "Created"})
		for _, r := range runs {
			t.AppendRow(table.Row{r.ID, r.Rule, pricing.Display(r.Price), r.Rows, r.CreatedAt.Format("2006-01-02 15:04:05")})
		}
		t.Render()
		return nil
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportOpts.location, "location", "", "only report this location")
	f.StringVar(&reportOpts.users, "users", "", "scenario active users (default 3000)")
	f.StringVar(&reportOpts.posts, "posts", "", "scenario number of posts (default 200)")
	f.StringVar(&reportOpts.csvPath, "csv", "", "also write priced rows to this CSV file")
	f.BoolVar(&reportOpts.export, "export", false, "write priced rows to CSV_OUTPUT_PATH")
	f.BoolVar(&reportOpts.archive, "archive", false, "archive the run in PostgreSQL")

	f = snapshotCmd.Flags()
	f.StringVar(&snapshotOpts.url, "url", "", "dashboard base URL (default BASE_URL)")
	f.StringVar(&snapshotOpts.out, "out", "", "output directory (default SNAPSHOT_DIR)")
	f.StringVar(&snapshotOpts.users, "users", "", "scenario active users")
	f.StringVar(&snapshotOpts.posts, "posts", "", "scenario number of posts")

	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of runs to list")
}
