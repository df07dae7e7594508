package storage

import (
	"context"

	"price-dashboard/models"
)

// PricedWriter is the interface any export backend must satisfy.
type PricedWriter interface {
	WritePriced(rows []*models.PricedObservation) error
	Close() error
}

// RunArchiver persists a full priced run.
type RunArchiver interface {
	Archive(ctx context.Context, report *models.Report) (string, error)
	Close() error
}

// DatasetStore keeps the current observation table between renders.
// Load reports false when nothing has been stored yet.
type DatasetStore interface {
	Load(ctx context.Context) ([]*models.Observation, bool, error)
	Save(ctx context.Context, obs []*models.Observation) error
	Close() error
}
