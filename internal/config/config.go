package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/fractal/internal/engine"
	"github.com/inamate/fractal/internal/geom"
	"github.com/inamate/fractal/internal/render"
)

type Config struct {
	Port           int        `envconfig:"PORT" default:"8080"`
	LogLevel       slog.Level `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins string     `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`

	// Curve and view defaults for new sessions and render requests.
	VMin         float64 `envconfig:"VMIN" default:"1000"`
	DetailFactor int     `envconfig:"DETAIL_FACTOR" default:"6"`
	MaxDepth     int     `envconfig:"MAX_DEPTH" default:"24"`
	Seed         uint32  `envconfig:"SEED" default:"1"`
	Roughness    float64 `envconfig:"ROUGHNESS" default:"0.5"`
	ViewWidth    int     `envconfig:"VIEW_WIDTH" default:"800"`
	ViewHeight   int     `envconfig:"VIEW_HEIGHT" default:"600"`
	CurveLength  float64 `envconfig:"CURVE_LENGTH" default:"1000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch {
	case c.VMin <= 0:
		return fmt.Errorf("config: VMIN must be positive, got %g", c.VMin)
	case c.ViewWidth <= 0 || c.ViewHeight <= 0:
		return fmt.Errorf("config: view size must be positive, got %dx%d", c.ViewWidth, c.ViewHeight)
	case c.DetailFactor < 0:
		return fmt.Errorf("config: DETAIL_FACTOR must not be negative, got %d", c.DetailFactor)
	case c.MaxDepth < 0:
		return fmt.Errorf("config: MAX_DEPTH must not be negative, got %d", c.MaxDepth)
	case c.Roughness < 0:
		return fmt.Errorf("config: ROUGHNESS must not be negative, got %g", c.Roughness)
	case c.CurveLength <= 0:
		return fmt.Errorf("config: CURVE_LENGTH must be positive, got %g", c.CurveLength)
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// EngineOptions returns the engine options for a horizontal curve of
// CurveLength centered on the origin.
func (c *Config) EngineOptions() engine.Options {
	half := c.CurveLength / 2
	return engine.Options{
		Width:        float64(c.ViewWidth),
		Height:       float64(c.ViewHeight),
		VMin:         c.VMin,
		Start:        geom.V(-half, 0),
		End:          geom.V(half, 0),
		Seed:         c.Seed,
		Roughness:    c.Roughness,
		DetailFactor: c.DetailFactor,
		MaxDepth:     c.MaxDepth,
		Style:        render.DefaultStyle,
	}
}
