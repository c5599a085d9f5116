package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/mcqer/internal/logger"
)

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	cfg := logger.Config{}
	cfg.SetDefaults()

	assert.Equal(t, logger.DefaultLevel, cfg.Level)
	assert.Equal(t, logger.DefaultEncoding, cfg.Encoding)
	assert.Equal(t, logger.DefaultOutputPaths, cfg.OutputPaths)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     logger.Config
		wantErr bool
	}{
		{name: "json info", cfg: logger.Config{Level: "info", Encoding: "json"}},
		{name: "console debug", cfg: logger.Config{Level: "debug", Encoding: "console"}},
		{name: "bad level", cfg: logger.Config{Level: "loud", Encoding: "json"}, wantErr: true},
		{name: "bad encoding", cfg: logger.Config{Level: "info", Encoding: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew_WritesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mcqer.log")

	log, err := logger.New(logger.Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.With(logger.String("category", "surveying")).Info("section found", logger.Int("pages", 3))
	log.Debug("filtered out")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "section found")
	assert.Contains(t, out, `"category":"surveying"`)
	assert.False(t, strings.Contains(out, "filtered out"))
}

func TestNop_DoesNotPanic(t *testing.T) {
	t.Parallel()

	log := logger.NewNop()
	log.Debug("debug")
	log.Info("info", logger.String("k", "v"))
	log.Warn("warn")
	log.Error("error")
	assert.Same(t, log, log.With(logger.Int("n", 1)))
	assert.NoError(t, log.Sync())
}
