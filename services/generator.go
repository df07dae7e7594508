package services

import (
	"math/rand"
	"sync"
	"time"

	"price-dashboard/models"
	"price-dashboard/utils"
)

// Synthetic value ranges. Upper bounds are exclusive.
const (
	MinActiveUsers = 1000
	MaxActiveUsers = 7000
	MinPosts       = 50
	MaxPosts       = 500
)

// StartDate anchors the monthly date sequence.
var StartDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Generator produces synthetic observation tables.
type Generator struct {
	logger *utils.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator. A zero seed means time-seeded.
func NewGenerator(logger *utils.Logger, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Generate returns periods rows per location, ordered location-major and
// date-minor. Repeated location names are only generated once.
func (g *Generator) Generate(locations []string, periods int) []*models.Observation {
	if periods <= 0 || len(locations) == 0 {
		return []*models.Observation{}
	}

	dates := MonthEnds(StartDate, periods)
	seen := make(map[string]struct{}, len(locations))
	result := make([]*models.Observation, 0, len(locations)*periods)

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, loc := range locations {
		if _, dup := seen[loc]; dup {
			g.logger.Debug("[generator] Duplicate location skipped: %s", loc)
			continue
		}
		seen[loc] = struct{}{}

		for _, d := range dates {
			result = append(result, &models.Observation{
				Date:          d,
				Location:      loc,
				ActiveUsers:   MinActiveUsers + g.rng.Intn(MaxActiveUsers-MinActiveUsers),
				NumberOfPosts: MinPosts + g.rng.Intn(MaxPosts-MinPosts),
			})
		}
	}

	g.logger.Debug("[generator] Generated %d observations for %d locations over %d months",
		len(result), len(seen), periods)
	return result
}

// MonthEnds returns the last day of each month, starting with the month
// containing start.
func MonthEnds(start time.Time, periods int) []time.Time {
	if periods <= 0 {
		return nil
	}
	out := make([]time.Time, periods)
	y, m, _ := start.Date()
	for i := range out {
		// day 0 of the following month is the last day of this one
		out[i] = time.Date(y, m+time.Month(i)+1, 0, 0, 0, 0, 0, start.Location())
	}
	return out
}
