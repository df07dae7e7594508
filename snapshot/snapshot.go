// Package snapshot captures dashboard screenshots with headless Chrome.
package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"price-dashboard/config"
	"price-dashboard/models"
	"price-dashboard/utils"
)

// Target is one page to capture.
type Target struct {
	Location string
	URL      string
	File     string
}

// Result records where a capture was written, or why it failed.
type Result struct {
	Target Target
	Path   string
	Err    error
}

// Capturer drives Chrome through the dashboard, one page per location.
type Capturer struct {
	cfg    *config.Config
	logger *utils.Logger
	pool   *utils.WorkerPool
	retry  *utils.RetryConfig

	mu      sync.Mutex
	results []Result
}

// New creates a ready-to-use Capturer.
func New(cfg *config.Config, logger *utils.Logger) *Capturer {
	logger = logger.With("component", "snapshot")
	return &Capturer{
		cfg:    cfg,
		logger: logger,
		pool:   utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
	}
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

// Targets builds one capture target per distinct location for the given
// scenario, against the dashboard served at baseURL.
func Targets(baseURL string, scenario models.Scenario, locations []string) ([]Target, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("snapshot: parse base url %q: %w", baseURL, err)
	}

	seen := utils.NewKeySet()
	var out []Target
	for _, loc := range locations {
		if !seen.Add(loc) {
			continue
		}
		u := *base
		q := u.Query()
		q.Set("location", loc)
		q.Set("users", fmt.Sprint(scenario.ActiveUsers))
		q.Set("posts", fmt.Sprint(scenario.NumberOfPosts))
		u.RawQuery = q.Encode()

		name := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(loc), "-"), "-")
		out = append(out, Target{
			Location: loc,
			URL:      u.String(),
			File:     fmt.Sprintf("dashboard-%s-%d-%d.png", name, scenario.ActiveUsers, scenario.NumberOfPosts),
		})
	}
	return out, nil
}

// Capture screenshots every target into outDir. Individual failures are
// reported in the results; the error is only for setup problems.
func (c *Capturer) Capture(ctx context.Context, targets []Target, outDir string) ([]Result, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("snapshot: create output dir: %w", err)
	}

	chromeBin := findChromeBinary(c.cfg.ChromeBin)
	c.logger.Info("[snapshot] Capturing %d pages with browser binary: %q", len(targets), chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 1600),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	// start the browser once so tabs share it
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("snapshot: start browser: %w", err)
	}

	return c.dispatch(ctx, targets, func(ctx context.Context, t Target) Result {
		path := filepath.Join(outDir, t.File)
		if err := c.captureOne(browserCtx, t.URL, path); err != nil {
			c.logger.Warn("[snapshot] %s failed: %v", t.Location, err)
			return Result{Target: t, Err: err}
		}
		c.logger.Info("[snapshot] %s -> %s", t.Location, path)
		return Result{Target: t, Path: path}
	}), nil
}

// dispatch runs capture for every target on the pool and returns exactly one
// result per target. Targets not started before ctx is done carry ctx.Err().
func (c *Capturer) dispatch(ctx context.Context, targets []Target, capture func(context.Context, Target) Result) []Result {
	c.mu.Lock()
	c.results = c.results[:0]
	c.mu.Unlock()

	for _, t := range targets {
		t := t
		submitted := c.pool.Submit(ctx, func(ctx context.Context) {
			if err := ctx.Err(); err != nil {
				c.record(Result{Target: t, Err: err})
				return
			}
			c.record(capture(ctx, t))
		})
		if !submitted {
			c.record(Result{Target: t, Err: ctx.Err()})
		}
	}
	c.pool.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

func (c *Capturer) record(r Result) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
}

func (c *Capturer) captureOne(browserCtx context.Context, pageURL, path string) error {
	return c.retry.Do(browserCtx, "snapshot "+pageURL, func(context.Context) error {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 30*time.Second)
		defer cancelTimeout()

		var headline string
		var buf []byte
		err := chromedp.Run(tabCtx,
			chromedp.Navigate(pageURL),
			chromedp.WaitVisible(`#price-chart`, chromedp.ByID),
			chromedp.Text(`#headline`, &headline, chromedp.ByID),
			chromedp.FullScreenshot(&buf, 90),
		)
		if err != nil {
			return fmt.Errorf("chromedp capture: %w", err)
		}
		c.logger.Debug("[snapshot] %s headline %s", pageURL, strings.TrimSpace(headline))

		if err := os.WriteFile(path, buf, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	})
}

// findChromeBinary locates a Chrome/Chromium binary. An empty result lets
// chromedp fall back to its own lookup.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
