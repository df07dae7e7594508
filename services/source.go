package services

import (
	"context"
	"fmt"

	"price-dashboard/models"
	"price-dashboard/storage"
	"price-dashboard/utils"
)

// DataSource hands out the observation table for a render. It either
// regenerates the table every time or reuses the stored one.
type DataSource struct {
	logger     *utils.Logger
	generator  *Generator
	store      storage.DatasetStore
	locations  []string
	periods    int
	regenerate bool
}

// NewDataSource creates a DataSource over the given store.
func NewDataSource(logger *utils.Logger, generator *Generator, store storage.DatasetStore,
	locations []string, periods int, regenerate bool) *DataSource {
	return &DataSource{
		logger:     logger,
		generator:  generator,
		store:      store,
		locations:  locations,
		periods:    periods,
		regenerate: regenerate,
	}
}

// Observations returns the table to render.
func (s *DataSource) Observations(ctx context.Context) ([]*models.Observation, error) {
	if !s.regenerate {
		obs, ok, err := s.store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		if ok {
			return obs, nil
		}
		s.logger.Info("[source] No stored dataset, generating %d months for %d locations",
			s.periods, len(s.locations))
	}

	obs := s.generator.Generate(s.locations, s.periods)
	if err := s.store.Save(ctx, obs); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}
	return obs, nil
}

// Refresh discards the stored table and generates a new one.
func (s *DataSource) Refresh(ctx context.Context) ([]*models.Observation, error) {
	obs := s.generator.Generate(s.locations, s.periods)
	if err := s.store.Save(ctx, obs); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}
	return obs, nil
}
