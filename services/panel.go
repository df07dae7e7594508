package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"price-dashboard/models"
	"price-dashboard/utils"
)

// numberRegexp captures the first numeric value in a raw control value.
var numberRegexp = regexp.MustCompile(`-?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`)

// Control describes one slider.
type Control struct {
	Label   string `json:"label"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Step    int    `json:"step"`
	Default int    `json:"default"`
}

var (
	ActiveUsersControl = Control{Label: "Active users", Min: 500, Max: 10000, Step: 100, Default: 3000}
	PostsControl       = Control{Label: "Number of posts", Min: 10, Max: 1000, Step: 10, Default: 200}
)

// Normalise turns a raw value into a valid slider position: unparseable
// input gives the default, anything else is snapped to the step grid and
// clamped to the range.
func (c Control) Normalise(raw string) int {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		match := numberRegexp.FindString(cleaned)
		if match == "" {
			return c.Default
		}
		if v, err = strconv.ParseFloat(match, 64); err != nil {
			return c.Default
		}
	}
	if math.IsNaN(v) {
		return c.Default
	}

	if c.Step > 0 {
		v = float64(c.Min) + math.Round((v-float64(c.Min))/float64(c.Step))*float64(c.Step)
	}
	switch {
	case v < float64(c.Min):
		return c.Min
	case v > float64(c.Max):
		return c.Max
	}
	return int(v)
}

// Panel validates the dashboard's control state.
type Panel struct {
	logger    *utils.Logger
	locations []string
	Users     Control
	Posts     Control
}

// NewPanel creates a Panel offering the given locations.
func NewPanel(logger *utils.Logger, locations []string) *Panel {
	return &Panel{
		logger:    logger,
		locations: locations,
		Users:     ActiveUsersControl,
		Posts:     PostsControl,
	}
}

// Locations returns the selectable locations.
func (p *Panel) Locations() []string {
	return p.locations
}

// DefaultScenario is the state shown before any interaction.
func (p *Panel) DefaultScenario() models.Scenario {
	return models.Scenario{
		Location:      p.defaultLocation(),
		ActiveUsers:   p.Users.Default,
		NumberOfPosts: p.Posts.Default,
	}
}

// Parse converts raw control values into a valid Scenario.
func (p *Panel) Parse(rawLocation, rawUsers, rawPosts string) models.Scenario {
	s := models.Scenario{
		Location:      p.parseLocation(rawLocation),
		ActiveUsers:   p.Users.Normalise(rawUsers),
		NumberOfPosts: p.Posts.Normalise(rawPosts),
	}
	p.logger.Debug("[panel] %q/%q/%q -> %s users=%d posts=%d",
		rawLocation, rawUsers, rawPosts, s.Location, s.ActiveUsers, s.NumberOfPosts)
	return s
}

func (p *Panel) parseLocation(raw string) string {
	raw = normaliseText(raw)
	if raw == "" {
		return p.defaultLocation()
	}
	for _, loc := range p.locations {
		if strings.EqualFold(loc, raw) {
			return loc
		}
	}
	p.logger.Warn("[panel] Unknown location %q, using %q", raw, p.defaultLocation())
	return p.defaultLocation()
}

func (p *Panel) defaultLocation() string {
	if len(p.locations) == 0 {
		return ""
	}
	return p.locations[0]
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
