package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

const (
	robotsTxtPath      = "/robots.txt"
	maxRobotsBodyBytes = 512 * 1024 // 512 KB
)

// RobotsChecker fetches, parses and caches robots.txt per host. A missing,
// unreadable or non-2xx robots.txt allows everything.
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	ttl       time.Duration

	mu     sync.RWMutex
	byHost map[string]robotsEntry
	group  singleflight.Group
}

type robotsEntry struct {
	group     *robotstxt.Group // nil means allow all
	fetchedAt time.Time
}

var _ RobotsAllower = (*RobotsChecker)(nil)

// NewRobotsChecker creates a RobotsChecker. A nil client uses a client with
// the fetcher's request timeout.
func NewRobotsChecker(client *http.Client, cfg Config) *RobotsChecker {
	cfg = cfg.WithDefaults()
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}

	return &RobotsChecker{
		client:    client,
		userAgent: cfg.UserAgent,
		ttl:       cfg.RobotsCacheTTL,
		byHost:    make(map[string]robotsEntry),
	}
}

// IsAllowed reports whether rawURL may be fetched by the configured agent.
func (r *RobotsChecker) IsAllowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("robots: parse url: %w", err)
	}
	host := strings.ToLower(u.Host)
	if host == "" {
		return false, fmt.Errorf("robots: empty host in url %q", rawURL)
	}

	entry, err := r.entry(ctx, u.Scheme, host)
	if err != nil {
		return false, err
	}
	if entry.group == nil {
		return true, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return entry.group.Test(path), nil
}

// CrawlDelay returns the cached crawl-delay for host, or zero when robots.txt
// has not been fetched yet or declares none.
func (r *RobotsChecker) CrawlDelay(host string) time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byHost[strings.ToLower(host)]
	if !ok || entry.group == nil {
		return 0
	}
	return entry.group.CrawlDelay
}

func (r *RobotsChecker) entry(ctx context.Context, scheme, host string) (robotsEntry, error) {
	r.mu.RLock()
	cached, ok := r.byHost[host]
	r.mu.RUnlock()
	if ok && time.Since(cached.fetchedAt) < r.ttl {
		return cached, nil
	}

	v, err, _ := r.group.Do(host, func() (any, error) {
		fresh, fetchErr := r.fetch(ctx, scheme, host)
		if fetchErr != nil {
			return robotsEntry{}, fetchErr
		}
		r.mu.Lock()
		r.byHost[host] = fresh
		r.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return robotsEntry{}, err
	}
	return v.(robotsEntry), nil
}

// fetch only fails on a cancelled context; every other problem yields an
// allow-all entry.
func (r *RobotsChecker) fetch(ctx context.Context, scheme, host string) (robotsEntry, error) {
	if scheme == "" {
		scheme = "https"
	}
	allowAll := robotsEntry{fetchedAt: time.Now()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scheme+"://"+host+robotsTxtPath, http.NoBody)
	if err != nil {
		return allowAll, nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return robotsEntry{}, ctxErr
		}
		return allowAll, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return allowAll, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodyBytes))
	if err != nil {
		return allowAll, nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return allowAll, nil
	}

	return robotsEntry{group: data.FindGroup(r.userAgent), fetchedAt: time.Now()}, nil
}
