package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/mcqer/internal/domain"
	"github.com/jonesrussell/mcqer/internal/fetcher"
	"github.com/jonesrussell/mcqer/internal/logger"
)

const testUserAgent = "mcqer-test/1.0"

func testConfig() fetcher.Config {
	return fetcher.Config{
		UserAgent:        testUserAgent,
		RequestTimeout:   5 * time.Second,
		RespectRobotsTxt: true,
	}
}

func newSite(t *testing.T, robots string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		if robots == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(robots))
	})
	mux.HandleFunc("/civil-engineering/surveying/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>surveying</body></html>"))
	})
	mux.HandleFunc("/private/page", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("secret"))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func newFetcher(t *testing.T, cfg fetcher.Config) *fetcher.CollyFetcher {
	t.Helper()
	return fetcher.New(cfg, fetcher.NewRobotsChecker(nil, cfg), logger.NewNop())
}

func TestFetch_ReturnsBody(t *testing.T) {
	t.Parallel()

	srv := newSite(t, "")
	f := newFetcher(t, testConfig())

	body, err := f.Fetch(context.Background(), srv.URL+"/civil-engineering/surveying/")
	require.NoError(t, err)
	assert.Contains(t, string(body), "surveying")
}

func TestFetch_FailuresWrapNetworkFailure(t *testing.T) {
	t.Parallel()

	srv := newSite(t, "")
	f := newFetcher(t, testConfig())

	tests := []struct {
		name string
		url  string
	}{
		{name: "not found", url: srv.URL + "/missing"},
		{name: "empty body", url: srv.URL + "/empty"},
		{name: "invalid url", url: "::not a url"},
		{name: "unreachable host", url: "http://127.0.0.1:1/closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := f.Fetch(context.Background(), tt.url)
			require.Error(t, err)
			require.ErrorIs(t, err, domain.ErrNetworkFailure)
			assert.Nil(t, body)
		})
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	t.Parallel()

	srv := newSite(t, "User-agent: *\nDisallow: /private/\n")
	f := newFetcher(t, testConfig())

	_, err := f.Fetch(context.Background(), srv.URL+"/private/page")
	require.ErrorIs(t, err, fetcher.ErrRobotsDisallowed)
	require.ErrorIs(t, err, domain.ErrNetworkFailure)

	body, err := f.Fetch(context.Background(), srv.URL+"/civil-engineering/surveying/")
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}

func TestFetch_RobotsIgnoredWhenDisabled(t *testing.T) {
	t.Parallel()

	srv := newSite(t, "User-agent: *\nDisallow: /\n")
	cfg := testConfig()
	cfg.RespectRobotsTxt = false
	f := newFetcher(t, cfg)

	body, err := f.Fetch(context.Background(), srv.URL+"/private/page")
	require.NoError(t, err)
	assert.Equal(t, "secret", string(body))
}

func TestFetch_CancelledContext(t *testing.T) {
	t.Parallel()

	srv := newSite(t, "")
	f := newFetcher(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, srv.URL+"/civil-engineering/surveying/")
	require.ErrorIs(t, err, context.Canceled)
}

func TestRobotsChecker_MissingRobotsAllowsAll(t *testing.T) {
	t.Parallel()

	srv := newSite(t, "")
	rc := fetcher.NewRobotsChecker(srv.Client(), testConfig())

	allowed, err := rc.IsAllowed(context.Background(), srv.URL+"/private/page")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsChecker_CrawlDelay(t *testing.T) {
	t.Parallel()

	srv := newSite(t, "User-agent: *\nCrawl-delay: 2\nDisallow: /private/\n")
	rc := fetcher.NewRobotsChecker(srv.Client(), testConfig())

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	assert.Zero(t, rc.CrawlDelay(u.Host), "delay is unknown before the first check")

	allowed, err := rc.IsAllowed(context.Background(), srv.URL+"/private/page")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 2*time.Second, rc.CrawlDelay(u.Host))
}

func TestRobotsChecker_EmptyHost(t *testing.T) {
	t.Parallel()

	rc := fetcher.NewRobotsChecker(nil, testConfig())

	_, err := rc.IsAllowed(context.Background(), "/relative/path")
	require.Error(t, err)
}

func TestConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	cfg := fetcher.Config{}.WithDefaults()
	assert.NotEmpty(t, cfg.UserAgent)
	assert.Positive(t, cfg.RequestTimeout)
	assert.Positive(t, cfg.Parallelism)
	assert.Positive(t, cfg.MaxBodySize)
	assert.Zero(t, cfg.Delay)

	def := fetcher.DefaultConfig()
	assert.Equal(t, time.Second, def.Delay)
	assert.True(t, def.RespectRobotsTxt)
}
