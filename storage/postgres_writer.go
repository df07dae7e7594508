package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"price-dashboard/models"
	"price-dashboard/utils"
)

// PostgresArchiver stores priced runs in PostgreSQL.
type PostgresArchiver struct {
	db *sql.DB
}

// NewPostgresArchiver opens a connection to PostgreSQL, waits for it to
// accept connections, runs schema migrations and returns the archiver.
func NewPostgresArchiver(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresArchiver, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pa := &PostgresArchiver{db: db}
	if err := pa.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pa, nil
}

func (pa *PostgresArchiver) migrate(ctx context.Context) error {
	_, err := pa.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS pricing_runs (
			id              UUID         PRIMARY KEY,
			rule            VARCHAR(100) NOT NULL,
			scenario_users  INTEGER      NOT NULL,
			scenario_posts  INTEGER      NOT NULL,
			scenario_price  NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS priced_observations (
			id              SERIAL PRIMARY KEY,
			run_id          UUID          NOT NULL REFERENCES pricing_runs(id) ON DELETE CASCADE,
			obs_date        DATE          NOT NULL,
			location        TEXT          NOT NULL,
			active_users    INTEGER       NOT NULL,
			number_of_posts INTEGER       NOT NULL,
			price           NUMERIC(12,2) NOT NULL DEFAULT 0,
			feasible        BOOLEAN       NOT NULL,
			UNIQUE (run_id, obs_date, location)
		);

		CREATE INDEX IF NOT EXISTS idx_priced_observations_location ON priced_observations(location);
		CREATE INDEX IF NOT EXISTS idx_pricing_runs_rule            ON pricing_runs(rule);
	`)
	return err
}

// Archive writes the report's scenario and every priced row in a single
// transaction and returns the new run ID.
func (pa *PostgresArchiver) Archive(ctx context.Context, report *models.Report) (string, error) {
	runID := uuid.New()

	tx, err := pa.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pricing_runs (id, rule, scenario_users, scenario_posts, scenario_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, runID, report.Rule, report.Scenario.ActiveUsers, report.Scenario.NumberOfPosts,
		report.Scenario.Price, report.GeneratedAt); err != nil {
		return "", fmt.Errorf("postgres: insert run: %w", err)
	}

	var rows []*models.PricedObservation
	for _, lr := range report.Locations {
		rows = append(rows, lr.Rows...)
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := insertBatch(ctx, tx, runID, rows[i:end]); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("postgres: commit: %w", err)
	}
	return runID.String(), nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, runID uuid.UUID, batch []*models.PricedObservation) error {
	const cols = 7
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		valueArgs = append(valueArgs,
			runID, r.Date, r.Location, r.ActiveUsers, r.NumberOfPosts, r.Price, r.Feasible)
	}

	query := fmt.Sprintf(`
		INSERT INTO priced_observations (run_id, obs_date, location, active_users, number_of_posts, price, feasible)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert rows: %w", err)
	}
	return nil
}

// RunSummary is one archived run as listed by Runs.
type RunSummary struct {
	ID        string
	Rule      string
	Price     float64
	Rows      int
	CreatedAt time.Time
}

// Runs lists the most recent archived runs, newest first.
func (pa *PostgresArchiver) Runs(ctx context.Context, limit int) ([]*RunSummary, error) {
	rows, err := pa.db.QueryContext(ctx, `
		SELECT r.id, r.rule, r.scenario_price, COUNT(o.id), r.created_at
		FROM pricing_runs r
		LEFT JOIN priced_observations o ON o.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunSummary
	for rows.Next() {
		s := &RunSummary{}
		if err := rows.Scan(&s.ID, &s.Rule, &s.Price, &s.Rows, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (pa *PostgresArchiver) Close() error {
	return pa.db.Close()
}
