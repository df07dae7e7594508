package snapshot

import (
	"context"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-dashboard/config"
	"price-dashboard/models"
	"price-dashboard/utils"
)

func TestTargets(t *testing.T) {
	scenario := models.Scenario{ActiveUsers: 3000, NumberOfPosts: 200}
	targets, err := Targets("http://localhost:8501/", scenario, []string{"Manila", "Quezon City", "Manila"})
	require.NoError(t, err)
	require.Len(t, targets, 2)

	assert.Equal(t, "dashboard-manila-3000-200.png", targets[0].File)
	assert.Equal(t, "dashboard-quezon-city-3000-200.png", targets[1].File)

	u, err := url.Parse(targets[1].URL)
	require.NoError(t, err)
	assert.Equal(t, "Quezon City", u.Query().Get("location"))
	assert.Equal(t, "3000", u.Query().Get("users"))
	assert.Equal(t, "200", u.Query().Get("posts"))
	assert.Equal(t, "/", u.Path)
}

func TestTargetsBadBaseURL(t *testing.T) {
	_, err := Targets("://nope", models.Scenario{}, []string{"Manila"})
	assert.Error(t, err)
}

func TestFindChromeBinaryPrefersConfigured(t *testing.T) {
	assert.Equal(t, "/custom/chrome", findChromeBinary("/custom/chrome"))
}

func TestDispatchRecordsEveryTargetWhenCancelled(t *testing.T) {
	cfg := &config.Config{MaxConcurrency: 1, RateLimitMs: 200, MaxRetries: 1}
	c := New(cfg, utils.NewNopLogger())

	targets, err := Targets("http://localhost:8501/", models.Scenario{ActiveUsers: 3000, NumberOfPosts: 200},
		[]string{"Manila", "Quezon City", "Makati"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var captured int64
	results := c.dispatch(ctx, targets, func(ctx context.Context, tg Target) Result {
		atomic.AddInt64(&captured, 1)
		cancel()
		return Result{Target: tg, Path: tg.File}
	})

	require.Len(t, results, len(targets))
	assert.EqualValues(t, 1, captured)

	var ok, cancelled int
	for _, r := range results {
		switch {
		case r.Err == nil:
			ok++
			assert.Equal(t, "Manila", r.Target.Location)
		case assert.ErrorIs(t, r.Err, context.Canceled):
			cancelled++
			assert.Empty(t, r.Path)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 2, cancelled)
}
