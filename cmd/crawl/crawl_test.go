package crawl

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/mcqer/cmd/common"
	"github.com/jonesrussell/mcqer/internal/config"
	"github.com/jonesrussell/mcqer/internal/crawler"
	"github.com/jonesrussell/mcqer/internal/domain"
	"github.com/jonesrussell/mcqer/internal/logger"
)

type nullStore struct{}

func (nullStore) InsertIfNew(context.Context, domain.Question) (bool, error) { return true, nil }

func testDeps(t *testing.T) common.CommandDeps {
	t.Helper()

	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	require.NoError(t, err)

	return common.CommandDeps{Logger: logger.NewNop(), Config: cfg}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	deps := testDeps(t)
	c, err := Build(deps, nullStore{}, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBaseURL+"/surveying", c.CategoryURL("surveying"))
}

func TestBuild_InvalidRootURL(t *testing.T) {
	t.Parallel()

	deps := testDeps(t)
	deps.Config.Crawler.RootURL = "not-absolute"

	_, err := Build(deps, nullStore{}, nil)
	require.Error(t, err)
}

func TestProgressPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	progressPrinter(&buf)(crawler.Event{Kind: crawler.EventPageWritten, URL: "https://x/1", Count: 2})
	assert.Equal(t, "Written 2 new questions from https://x/1\n", buf.String())
}

func TestCronLoggerFields(t *testing.T) {
	t.Parallel()

	got := fields([]any{"now", 1, "entry", 2, "dangling"})
	require.Len(t, got, 2)
	assert.Equal(t, "now", got[0].Key)
	assert.Equal(t, "entry", got[1].Key)

	// Must not panic on an odd argument list or nil error.
	l := cronLogger{log: logger.NewNop()}
	l.Info("tick", "a")
	l.Error(errors.New("boom"), "failed")
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := Command()
	for _, name := range []string{"category", "workers", "schedule"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
