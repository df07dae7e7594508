package main

import (
	"context"
	"errors"
	"testing"

	"price-dashboard/config"
	"price-dashboard/pricing"
	"price-dashboard/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		Locations:          []string{"Manila", "Quezon City"},
		Periods:            10,
		DataSeed:           5,
		PricingRule:        pricing.Default,
		RegenerateOnChange: false,
		MaxRetries:         1,
	}
}

func TestBuildAppDefaults(t *testing.T) {
	a, err := buildApp(context.Background(), testConfig(), utils.NewNopLogger())
	if err != nil {
		t.Fatalf("buildApp: %v", err)
	}
	defer a.Close()

	obs, err := a.source.Observations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(obs) != 20 {
		t.Errorf("observations: got %d, want 20", len(obs))
	}
	if got := a.dashboard.Prescribe(3000, 200).Price; got != 400 {
		t.Errorf("default scenario price: got %.2f, want 400", got)
	}
}

func TestBuildAppUnknownRule(t *testing.T) {
	cfg := testConfig()
	cfg.PricingRule = "surge"
	_, err := buildApp(context.Background(), cfg, utils.NewNopLogger())
	if !errors.Is(err, pricing.ErrUnknownRule) {
		t.Errorf("error = %v; want ErrUnknownRule", err)
	}
}
