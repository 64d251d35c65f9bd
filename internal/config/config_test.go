package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/fractal/internal/geom"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 1000.0, cfg.VMin)
	assert.Equal(t, 6, cfg.DetailFactor)
	assert.Equal(t, 24, cfg.MaxDepth)
	assert.Equal(t, []string{"localhost:5173", "localhost:3000"}, cfg.Origins())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEED", "42")
	t.Setenv("CURVE_LENGTH", "400")
	t.Setenv("VIEW_WIDTH", "320")
	t.Setenv("VIEW_HEIGHT", "240")
	t.Setenv("ALLOWED_ORIGINS", "https://fractal.example.com, http://localhost:8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"fractal.example.com", "localhost:8080"}, cfg.Origins())

	opts := cfg.EngineOptions()
	assert.Equal(t, uint32(42), opts.Seed)
	assert.Equal(t, geom.V(-200, 0), opts.Start)
	assert.Equal(t, geom.V(200, 0), opts.End)
	assert.Equal(t, 320.0, opts.Width)
	assert.Equal(t, 240.0, opts.Height)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"VMIN":          "0",
		"VIEW_WIDTH":    "-1",
		"MAX_DEPTH":     "-2",
		"ROUGHNESS":     "-0.5",
		"CURVE_LENGTH":  "0",
		"DETAIL_FACTOR": "-1",
		"PORT":          "not-a-port",
		"LOG_LEVEL":     "loud",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
