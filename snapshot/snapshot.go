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

	"election-dashboard/config"
	"election-dashboard/utils"
)

// dashboardSelector is the element the page renders once every chart is in place.
const dashboardSelector = "#dashboard"

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Shot is one captured dashboard page.
type Shot struct {
	State string
	URL   string
	Path  string
}

// Capturer renders the dashboard for each state in headless Chrome and
// saves a full-page PNG per state.
type Capturer struct {
	cfg     *config.Config
	logger  *utils.Logger
	pool    *utils.WorkerPool
	visited *utils.URLSet
	retry   *utils.RetryConfig

	mu    sync.Mutex
	shots []Shot
}

// New creates a ready-to-use Capturer.
func New(cfg *config.Config, logger *utils.Logger) *Capturer {
	return &Capturer{
		cfg:     cfg,
		logger:  logger,
		pool:    utils.NewWorkerPool(cfg.SnapshotConcurrency, cfg.SnapshotRateLimitMs),
		visited: utils.NewURLSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Capture saves one screenshot per state under cfg.SnapshotDir. States that
// fail after retries are logged and skipped; their errors are returned
// joined alongside the shots that succeeded.
func (c *Capturer) Capture(ctx context.Context, baseURL string, states []string) ([]Shot, error) {
	if len(states) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(c.cfg.SnapshotDir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}

	chromeBin := c.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	c.logger.Info("[snapshot] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1400, 900),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	// Start the browser before fanning out so tabs share one process.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("snapshot: start browser: %w", err)
	}

	for _, state := range states {
		pageURL, err := PageURL(baseURL, state)
		if err != nil {
			return nil, err
		}
		if !c.visited.Add(pageURL) {
			continue
		}

		c.pool.Submit(func() error {
			path := filepath.Join(c.cfg.SnapshotDir, FileName(state))
			if err := c.retry.DoContext(ctx, "snapshot "+state, func() error {
				return c.capturePage(browserCtx, pageURL, path)
			}); err != nil {
				c.logger.Warn("[snapshot] %s failed: %v", state, err)
				return err
			}

			c.mu.Lock()
			c.shots = append(c.shots, Shot{State: state, URL: pageURL, Path: path})
			c.mu.Unlock()
			c.logger.Info("[snapshot] Saved %s -> %s", state, path)
			return nil
		})
	}
	err := c.pool.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Info("[snapshot] Captured %d of %d states", len(c.shots), c.visited.Size())
	return c.shots, err
}

func (c *Capturer) capturePage(browserCtx context.Context, pageURL, path string) error {
	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
	defer cancelTimeout()

	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(dashboardSelector, chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, 100),
	); err != nil {
		return fmt.Errorf("render %s: %w", pageURL, err)
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// PageURL returns the dashboard URL for state with every party and
// candidate selected.
func PageURL(baseURL, state string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("snapshot: parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("snapshot: base URL %q must be absolute", baseURL)
	}
	u.Path = "/"
	q := url.Values{}
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FileName maps a state name to a PNG file name, e.g.
// "Andaman & Nicobar Islands" -> "andaman-nicobar-islands.png".
func FileName(state string) string {
	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(state), "-"), "-")
	if slug == "" {
		slug = "state"
	}
	return slug + ".png"
}

// findChromeBinary returns the path to a Chrome or Chromium executable, or ""
// to let chromedp use its own lookup.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
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
