// Package path ties a segment tree to a viewport. It picks the level of
// detail from the zoom level, refines the tree whenever the viewport moves and
// forwards the resulting polyline to its sinks.
package path

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/inamate/fractal/internal/curve"
	"github.com/inamate/fractal/internal/geom"
	"github.com/inamate/fractal/internal/viewport"
)

// ErrRedrawing is returned by Refresh when it is called while sinks are being
// drawn, typically by a sink that moved the viewport.
var ErrRedrawing = errors.New("path: refresh during sink draw")

const (
	DefaultDetailFactor = 6
	DefaultMaxDepth     = 24
)

// Sink receives the full polyline every time it changes: one MoveTo followed
// by LineTo commands in curve order. Draw runs with the path locked, so it
// must not pan, zoom or resize the viewport the path follows; doing so fails
// with ErrRedrawing.
type Sink interface {
	Draw(cmds []curve.Command) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(cmds []curve.Command) error

func (f SinkFunc) Draw(cmds []curve.Command) error {
	return f(cmds)
}

// Option configures a Path.
type Option func(*Path)

// WithDetailFactor sets how many subdivision levels each doubling of zoom
// adds.
func WithDetailFactor(n int) Option {
	return func(p *Path) { p.detailFactor = n }
}

// WithMinDepth sets the lowest level of detail used when zoomed out.
func WithMinDepth(n int) Option {
	return func(p *Path) { p.minDepth = n }
}

// WithMaxDepth caps the level of detail.
func WithMaxDepth(n int) Option {
	return func(p *Path) { p.maxDepth = n }
}

// WithBaselineVMin sets the vMin that counts as zoom level zero. The default
// is the viewport's vMin when the path is created.
func WithBaselineVMin(v float64) Option {
	return func(p *Path) { p.initialVMin = v }
}

// WithSink attaches an output sink.
func WithSink(s Sink) Option {
	return func(p *Path) { p.sinks = append(p.sinks, s) }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Path) { p.logger = l }
}

// Path owns the segment tree for one curve. All tree access goes through a
// single lock.
type Path struct {
	mu sync.Mutex

	root        *curve.Segment
	view        *viewport.Viewport
	initialVMin float64
	level       int

	detailFactor int
	minDepth     int
	maxDepth     int

	sinks       []Sink
	drawing     atomic.Bool
	unsubscribe []func()
	logger      *slog.Logger
}

// New builds the curve from start to end, draws the unrefined line to every
// sink, and from then on refreshes whenever view is panned or resized.
func New(start, end geom.Vec2, view *viewport.Viewport, interp curve.Interpolator, opts ...Option) (*Path, error) {
	p := &Path{
		view:         view,
		initialVMin:  view.VMin(),
		detailFactor: DefaultDetailFactor,
		maxDepth:     DefaultMaxDepth,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if !(p.initialVMin > 0) || math.IsInf(p.initialVMin, 0) {
		return nil, fmt.Errorf("path: invalid baseline vMin %g", p.initialVMin)
	}
	if p.minDepth > p.maxDepth {
		return nil, fmt.Errorf("path: min depth %d above max depth %d", p.minDepth, p.maxDepth)
	}

	root, err := curve.NewRoot(start, end, view, interp)
	if err != nil {
		return nil, fmt.Errorf("build root: %w", err)
	}
	p.root = root

	if err := p.draw(); err != nil {
		return nil, err
	}

	obs := viewport.ObserverFunc(func(viewport.Event) error { return p.Refresh() })
	p.unsubscribe = []func(){
		view.Subscribe(viewport.EventPan, obs),
		view.Subscribe(viewport.EventResize, obs),
	}

	if err := p.Refresh(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// TargetLevel returns the level of detail for the viewport's current zoom.
func (p *Path) TargetLevel() int {
	zoom := math.Floor(math.Log2(2 * p.initialVMin / p.view.VMin()))
	level := int(zoom) * p.detailFactor
	return min(max(level, p.minDepth), p.maxDepth)
}

// Refresh refines the tree for the current viewport and redraws the sinks if
// anything changed.
func (p *Path) Refresh() error {
	if p.drawing.Load() {
		return ErrRedrawing
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	level := p.TargetLevel()
	changed, err := p.root.Refine(level)
	if err != nil {
		err = fmt.Errorf("refine to level %d: %w", level, err)
	}
	if level != p.level {
		p.logger.Debug("level of detail changed", "from", p.level, "to", level, "vMin", p.view.VMin())
		p.level = level
	}
	if !changed {
		return err
	}

	if p.logger.Enabled(context.Background(), slog.LevelDebug) {
		st := p.root.Stats()
		p.logger.Debug("path refined", "level", level, "nodes", st.Nodes, "leaves", st.Leaves, "maxDepth", st.MaxDepth)
	}
	return errors.Join(err, p.draw())
}

// draw pushes the root's commands to every sink. Each sink gets its own copy.
func (p *Path) draw() error {
	p.drawing.Store(true)
	defer p.drawing.Store(false)

	cmds := p.root.Commands()
	var errs []error
	for i, s := range p.sinks {
		if err := s.Draw(slices.Clone(cmds)); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// AddSink attaches s and draws the current polyline to it.
func (p *Path) AddSink(s Sink) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sinks = append(p.sinks, s)
	p.drawing.Store(true)
	defer p.drawing.Store(false)
	return s.Draw(p.root.Commands())
}

// Commands returns the current polyline.
func (p *Path) Commands() []curve.Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.root.Commands()
}

// Stats describes the tree and the level it was last refined to.
type Stats struct {
	curve.Stats
	Level int `json:"level"`
}

func (p *Path) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{Stats: p.root.Stats(), Level: p.level}
}

// Close stops following the viewport.
func (p *Path) Close() {
	for _, cancel := range p.unsubscribe {
		cancel()
	}
	p.unsubscribe = nil
}
