// Package engine bundles one viewport, one fractal path and its output into
// the command/query API used by the browser bridge and websocket sessions.
package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/inamate/fractal/internal/curve"
	"github.com/inamate/fractal/internal/geom"
	"github.com/inamate/fractal/internal/path"
	"github.com/inamate/fractal/internal/render"
	"github.com/inamate/fractal/internal/viewport"
)

// HitTolerance is how close to the curve, in screen pixels, a hit test must
// land.
const HitTolerance = 4.0

// Options describes the curve and the surface it is shown on.
type Options struct {
	// Container size in pixels.
	Width  float64
	Height float64

	VMin   float64
	Center geom.Vec2
	// BaselineVMin is the vMin rendered at the base level of detail. Zero
	// means VMin.
	BaselineVMin float64

	Start geom.Vec2
	End   geom.Vec2

	Seed      uint32
	Roughness float64

	DetailFactor int
	MaxDepth     int

	Style  render.Style
	Sinks  []path.Sink
	Logger *slog.Logger
}

// DefaultOptions returns a 1000 unit curve across an 800x600 surface.
func DefaultOptions() Options {
	return Options{
		Width:        800,
		Height:       600,
		VMin:         1000,
		Start:        geom.V(-500, 0),
		End:          geom.V(500, 0),
		Seed:         1,
		Roughness:    0.5,
		DetailFactor: path.DefaultDetailFactor,
		MaxDepth:     path.DefaultMaxDepth,
		Style:        render.DefaultStyle,
	}
}

// Engine owns the viewport and path state for one viewer. It is not safe for
// concurrent use; commands and queries must come from one goroutine.
type Engine struct {
	canvas   *viewport.Canvas
	view     *viewport.Viewport
	path     *path.Path
	recorder *render.Recorder
	style    render.Style
	logger   *slog.Logger
}

// New creates an engine and renders the initial polyline.
func New(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	canvas := &viewport.Canvas{Width: opts.Width, Height: opts.Height}
	view, err := viewport.New(canvas, opts.VMin, opts.Center)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		canvas:   canvas,
		view:     view,
		recorder: &render.Recorder{},
		style:    opts.Style,
		logger:   logger,
	}

	pathOpts := []path.Option{
		path.WithDetailFactor(opts.DetailFactor),
		path.WithMaxDepth(opts.MaxDepth),
		path.WithLogger(logger),
		path.WithSink(e.recorder),
	}
	if opts.BaselineVMin != 0 {
		pathOpts = append(pathOpts, path.WithBaselineVMin(opts.BaselineVMin))
	}
	for _, s := range opts.Sinks {
		pathOpts = append(pathOpts, path.WithSink(s))
	}

	interp := curve.Stable(opts.Seed, opts.Roughness)
	e.path, err = path.New(opts.Start, opts.End, view, interp, pathOpts...)
	if err != nil {
		return nil, fmt.Errorf("create path: %w", err)
	}
	return e, nil
}

// --- Commands ---

// Pan moves the view by world units.
func (e *Engine) Pan(dx, dy float64) error {
	return e.view.Pan(dx, dy)
}

// PanRelative moves the view by fractions of its size.
func (e *Engine) PanRelative(fx, fy float64) error {
	return e.view.PanRelative(fx, fy)
}

// Zoom scales the view by factor around the screen pixel (sx, sy).
func (e *Engine) Zoom(factor, sx, sy float64) error {
	pivot := geom.V(sx/e.canvas.Width, sy/e.canvas.Height)
	return e.view.Zoom(factor, pivot)
}

// Resize changes the container size in pixels.
func (e *Engine) Resize(width, height float64) error {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return fmt.Errorf("%w: container %gx%g", viewport.ErrInvalidDimensions, width, height)
	}
	e.canvas.Width, e.canvas.Height = width, height
	return e.view.OnContainerResize()
}

// AddSink attaches another output and draws the current polyline to it.
func (e *Engine) AddSink(s path.Sink) error {
	return e.path.AddSink(s)
}

// Close detaches the path from the viewport.
func (e *Engine) Close() {
	e.path.Close()
}

// --- Queries ---

// Commands returns the current polyline.
func (e *Engine) Commands() []curve.Command {
	return e.recorder.Last()
}

// Frame counts renders so far. It changes exactly when the polyline does.
func (e *Engine) Frame() int {
	return e.recorder.Count()
}

// DrawCommands returns the current polyline as Canvas2D draw commands in
// screen pixels.
func (e *Engine) DrawCommands() []render.DrawCommand {
	return e.Compile(e.recorder.Last())
}

// Compile converts world space commands to draw commands for the current
// view. It modifies cmds in place.
func (e *Engine) Compile(cmds []curve.Command) []render.DrawCommand {
	toScreen := e.WorldToScreen()
	for i := range cmds {
		cmds[i].Point = toScreen.Apply(cmds[i].Point)
	}
	return render.CompileDrawCommands(cmds, e.style)
}

// Render returns DrawCommands as JSON.
func (e *Engine) Render() string {
	result, err := render.DrawCommandsToJSON(e.DrawCommands())
	if err != nil {
		e.logger.Error("encode draw commands", "error", err)
	}
	return result
}

// WorldToScreen maps world coordinates onto container pixels.
func (e *Engine) WorldToScreen() geom.Transform {
	return geom.RectToRect(e.view.Rect(), geom.Rect{Width: e.canvas.Width, Height: e.canvas.Height})
}

// ScreenToWorld converts a container pixel to world coordinates.
func (e *Engine) ScreenToWorld(sx, sy float64) geom.Vec2 {
	// A valid viewport never has a zero sized axis.
	toWorld, _ := e.WorldToScreen().Invert()
	return toWorld.Apply(geom.V(sx, sy))
}

// HitTest reports the object ID of the curve when the screen pixel (sx, sy)
// is within HitTolerance pixels of it, or an empty string.
func (e *Engine) HitTest(sx, sy float64) string {
	p := e.ScreenToWorld(sx, sy)
	tolerance := HitTolerance * e.view.Width() / e.canvas.Width

	cmds := e.recorder.Last()
	for i := 1; i < len(cmds); i++ {
		if cmds[i].Op != curve.LineTo {
			continue
		}
		if geom.DistanceToSegment(p, cmds[i-1].Point, cmds[i].Point) <= tolerance {
			return e.style.ObjectID
		}
	}
	return ""
}

// View returns the viewport.
func (e *Engine) View() *viewport.Viewport {
	return e.view
}

// ViewState returns the viewport state.
func (e *Engine) ViewState() viewport.State {
	return e.view.Snapshot()
}

// Viewport returns the viewport state as JSON.
func (e *Engine) Viewport() string {
	data, _ := json.Marshal(e.view.Snapshot())
	return string(data)
}

// PathStats returns the shape of the segment tree.
func (e *Engine) PathStats() path.Stats {
	return e.path.Stats()
}

// Stats returns the segment tree shape and render count as JSON.
func (e *Engine) Stats() string {
	data, _ := json.Marshal(struct {
		path.Stats
		Frame  int `json:"frame"`
		Points int `json:"points"`
		Target int `json:"target"`
	}{
		Stats:  e.path.Stats(),
		Frame:  e.recorder.Count(),
		Points: len(e.recorder.Last()),
		Target: e.path.TargetLevel(),
	})
	return string(data)
}

// SVG returns a standalone SVG document of the visible part of the world.
func (e *Engine) SVG() (string, error) {
	s := &render.SVG{Stroke: e.style.Stroke}
	if err := s.Draw(e.recorder.Last()); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := s.WriteDocument(&buf, e.view.Rect()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PNG rasterizes the current view at the container size.
func (e *Engine) PNG() ([]byte, error) {
	r := render.NewRaster(int(e.canvas.Width), int(e.canvas.Height), e.view)
	if e.style.Stroke != "" {
		r.Stroke = e.style.Stroke
	}
	if e.style.StrokeWidth > 0 {
		r.LineWidth = e.style.StrokeWidth
	}
	if err := r.Draw(e.recorder.Last()); err != nil {
		return nil, err
	}
	return r.PNG(), nil
}
