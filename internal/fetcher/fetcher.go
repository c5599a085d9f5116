// Package fetcher retrieves pages and images from the question bank site.
// A single CollyFetcher is built at startup and shared by every component
// that needs network access; its politeness limits are therefore global.
package fetcher

//go:generate mockgen -destination=../../testutils/mocks/fetcher/fetcher.go -package=fetcher github.com/jonesrussell/mcqer/internal/fetcher Fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/mcqer/internal/domain"
	"github.com/jonesrussell/mcqer/internal/logger"
)

// ErrRobotsDisallowed is returned (wrapped with domain.ErrNetworkFailure)
// when robots.txt forbids a URL.
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// Fetcher retrieves the raw content behind a URL. Any error means "no
// content" to callers and wraps domain.ErrNetworkFailure.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// RobotsAllower checks robots.txt compliance.
type RobotsAllower interface {
	IsAllowed(ctx context.Context, rawURL string) (bool, error)
	CrawlDelay(host string) time.Duration
}

// CollyFetcher fetches URLs through a shared colly collector.
type CollyFetcher struct {
	collector *colly.Collector
	robots    RobotsAllower
	log       logger.Logger
	cfg       Config

	limitMu sync.Mutex
	limited map[string]struct{} // hosts with a registered limit rule
}

var _ Fetcher = (*CollyFetcher)(nil)

// New creates a CollyFetcher. robots may be nil to skip robots.txt checks.
func New(cfg Config, robots RobotsAllower, log logger.Logger) *CollyFetcher {
	cfg = cfg.WithDefaults()

	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.MaxBodySize(cfg.MaxBodySize),
	)
	collector.SetRequestTimeout(cfg.RequestTimeout)

	return &CollyFetcher{
		collector: collector,
		robots:    robots,
		log:       log,
		cfg:       cfg,
		limited:   make(map[string]struct{}),
	}
}

// Fetch performs a GET request for rawURL and returns the response body.
// Non-2xx responses, transport errors and empty bodies are network failures.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", domain.ErrNetworkFailure, rawURL)
	}

	if f.robots != nil && f.cfg.RespectRobotsTxt {
		allowed, robotsErr := f.robots.IsAllowed(ctx, rawURL)
		if robotsErr != nil {
			return nil, fmt.Errorf("%w: robots check: %w", domain.ErrNetworkFailure, robotsErr)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrNetworkFailure, rawURL, ErrRobotsDisallowed)
		}
	}

	if limitErr := f.ensureLimit(parsed.Host); limitErr != nil {
		return nil, limitErr
	}

	return f.get(ctx, rawURL)
}

// get runs the request on a clone of the shared collector so the caller's
// context and response capture stay private to this call while the HTTP
// backend and its limit rules remain shared.
func (f *CollyFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	c := f.collector.Clone()
	c.Context = ctx

	var (
		body   []byte
		status int
	)

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		status = r.StatusCode
	})

	start := time.Now()
	if err := c.Visit(rawURL); err != nil {
		f.log.Debug("fetch failed",
			logger.String("url", rawURL),
			logger.Error(err),
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrNetworkFailure, rawURL, err)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s: empty body (status %d)", domain.ErrNetworkFailure, rawURL, status)
	}

	f.log.Debug("fetched",
		logger.String("url", rawURL),
		logger.Int("status", status),
		logger.Int("bytes", len(body)),
		logger.Duration("duration", time.Since(start)),
	)

	return body, nil
}

// ensureLimit registers a politeness rule for host on first contact. The
// delay is the configured delay or the robots.txt crawl-delay, whichever is
// larger.
func (f *CollyFetcher) ensureLimit(host string) error {
	f.limitMu.Lock()
	defer f.limitMu.Unlock()

	if _, ok := f.limited[host]; ok {
		return nil
	}

	delay := f.cfg.Delay
	if f.robots != nil && f.cfg.RespectRobotsTxt {
		if robotsDelay := f.robots.CrawlDelay(host); robotsDelay > delay {
			delay = robotsDelay
		}
	}

	rule := &colly.LimitRule{
		DomainGlob:  quoteGlob(host),
		Parallelism: f.cfg.Parallelism,
		Delay:       delay,
		RandomDelay: f.cfg.RandomDelay,
	}
	if err := f.collector.Limit(rule); err != nil {
		return fmt.Errorf("set limit rule for %s: %w", host, err)
	}

	f.limited[host] = struct{}{}
	f.log.Debug("limit rule registered",
		logger.String("host", host),
		logger.Duration("delay", delay),
		logger.Int("parallelism", f.cfg.Parallelism),
	)

	return nil
}

// globReplacer escapes glob metacharacters that can appear in a host.
var globReplacer = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
)

func quoteGlob(host string) string {
	return globReplacer.Replace(host)
}
