// Package scene reads TOML descriptions of a curve and a sequence of view
// operations, and plays them against an engine.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/inamate/fractal/internal/engine"
	"github.com/inamate/fractal/internal/geom"
)

// ErrUnknownOp is returned for an op whose kind is not recognized.
var ErrUnknownOp = errors.New("scene: unknown op kind")

const (
	OpPan         = "pan"
	OpPanRelative = "pan_relative"
	OpZoom        = "zoom"
	OpResize      = "resize"
)

// Point is written as a two element array, [x, y].
type Point [2]float64

func (p Point) Vec() geom.Vec2 { return geom.V(p[0], p[1]) }

type Scene struct {
	Start     Point   `toml:"start"`
	End       Point   `toml:"end"`
	Seed      uint32  `toml:"seed"`
	Roughness float64 `toml:"roughness"`

	VMin   float64 `toml:"v_min"`
	Center Point   `toml:"center"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`

	DetailFactor int `toml:"detail_factor"`
	MaxDepth     int `toml:"max_depth"`

	Ops []Op `toml:"op"`
}

// Op is one view operation. Which fields apply depends on Kind.
type Op struct {
	Kind string `toml:"kind"`

	// pan and pan_relative
	DX float64 `toml:"dx"`
	DY float64 `toml:"dy"`

	// zoom; Pivot is viewport-local, [0.5, 0.5] when omitted.
	Factor float64 `toml:"factor"`
	Pivot  *Point  `toml:"pivot"`

	// resize
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Default returns a scene with the engine defaults and no ops.
func Default() *Scene {
	opts := engine.DefaultOptions()
	return &Scene{
		Start:        Point{opts.Start.X, opts.Start.Y},
		End:          Point{opts.End.X, opts.End.Y},
		Seed:         opts.Seed,
		Roughness:    opts.Roughness,
		VMin:         opts.VMin,
		Center:       Point{opts.Center.X, opts.Center.Y},
		Width:        opts.Width,
		Height:       opts.Height,
		DetailFactor: opts.DetailFactor,
		MaxDepth:     opts.MaxDepth,
	}
}

// Load reads a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene. Fields left out keep their defaults and unknown
// keys are rejected.
func Parse(data []byte) (*Scene, error) {
	s := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("scene: %s", strict.String())
		}
		return nil, fmt.Errorf("scene: %w", err)
	}

	for i, op := range s.Ops {
		switch op.Kind {
		case OpPan, OpPanRelative, OpZoom, OpResize:
		default:
			return nil, fmt.Errorf("%w: op %d: %q", ErrUnknownOp, i, op.Kind)
		}
	}
	return s, nil
}

// Options returns engine options for the scene's curve and view.
func (s *Scene) Options() engine.Options {
	opts := engine.DefaultOptions()
	opts.Start = s.Start.Vec()
	opts.End = s.End.Vec()
	opts.Seed = s.Seed
	opts.Roughness = s.Roughness
	opts.VMin = s.VMin
	opts.Center = s.Center.Vec()
	opts.Width = s.Width
	opts.Height = s.Height
	opts.DetailFactor = s.DetailFactor
	opts.MaxDepth = s.MaxDepth
	return opts
}

// Play applies the scene's ops to e in order and stops at the first error.
func (s *Scene) Play(e *engine.Engine) error {
	for i, op := range s.Ops {
		if err := op.apply(e); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
	}
	return nil
}

// Run builds an engine for the scene and plays it.
func (s *Scene) Run(opts engine.Options) (*engine.Engine, error) {
	e, err := engine.New(opts)
	if err != nil {
		return nil, err
	}
	if err := s.Play(e); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (op Op) apply(e *engine.Engine) error {
	switch op.Kind {
	case OpPan:
		return e.Pan(op.DX, op.DY)
	case OpPanRelative:
		return e.PanRelative(op.DX, op.DY)
	case OpZoom:
		pivot := Point{0.5, 0.5}
		if op.Pivot != nil {
			pivot = *op.Pivot
		}
		return e.View().Zoom(op.Factor, pivot.Vec())
	case OpResize:
		return e.Resize(op.Width, op.Height)
	}
	return fmt.Errorf("%w: %q", ErrUnknownOp, op.Kind)
}
