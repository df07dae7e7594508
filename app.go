package main

import (
	"context"
	"fmt"
	"time"

	"price-dashboard/config"
	"price-dashboard/pricing"
	"price-dashboard/services"
	"price-dashboard/storage"
	"price-dashboard/utils"
)

// app holds the components shared by the commands.
type app struct {
	rules     *pricing.Registry
	panel     *services.Panel
	dashboard *services.Dashboard
	source    *services.DataSource
	store     storage.DatasetStore
}

func newRetry(cfg *config.Config, logger *utils.Logger) *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger.With("component", "retry"),
	}
}

func buildApp(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*app, error) {
	rules, err := cfg.LoadRules()
	if err != nil {
		return nil, err
	}
	rule, err := rules.Get(cfg.PricingRule)
	if err != nil {
		return nil, err
	}
	logger.Info("Pricing rule: %s (%s)", rule.Name, rule.Description)

	var store storage.DatasetStore = storage.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rs, err := storage.NewRedisStore(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
			TTL:      cfg.RedisTTL,
		}, newRetry(cfg, logger))
		if err != nil {
			return nil, fmt.Errorf("dataset store: %w", err)
		}
		logger.Info("Sharing dataset through Redis at %s (key %s)", cfg.RedisAddr, cfg.RedisKey)
		store = rs
	}

	gen := services.NewGenerator(logger, cfg.DataSeed)
	return &app{
		rules:     rules,
		panel:     services.NewPanel(logger, cfg.Locations),
		dashboard: services.NewDashboard(logger, rule, cfg.Locations),
		source:    services.NewDataSource(logger, gen, store, cfg.Locations, cfg.Periods, cfg.RegenerateOnChange),
		store:     store,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
