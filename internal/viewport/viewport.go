// Package viewport tracks the visible world rectangle of a drawing surface
// and notifies observers when it is panned, zoomed or resized.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/inamate/fractal/internal/geom"
)

// ErrInvalidDimensions is returned when a viewport would end up with a
// non-positive or non-finite width or height.
var ErrInvalidDimensions = errors.New("viewport: invalid dimensions")

// Container is the surface a viewport is bound to. Only its aspect ratio is
// used.
type Container interface {
	Size() (width, height float64)
}

// Canvas is a Container with a settable size.
type Canvas struct {
	Width  float64
	Height float64
}

func (c *Canvas) Size() (float64, float64) {
	return c.Width, c.Height
}

// Viewport is the visible rectangle in world units. Width and height are
// always positive.
type Viewport struct {
	container Container
	x, y      float64
	w, h      float64

	observers map[EventKind][]subscription
	nextID    int
}

// New creates a viewport whose smaller dimension is vMin world units,
// centered on center, with the aspect ratio of container.
func New(container Container, vMin float64, center geom.Vec2) (*Viewport, error) {
	if !(vMin > 0) || math.IsInf(vMin, 0) {
		return nil, fmt.Errorf("%w: vMin %g", ErrInvalidDimensions, vMin)
	}
	cw, ch, err := containerSize(container)
	if err != nil {
		return nil, err
	}

	cMin := min(cw, ch)
	v := &Viewport{
		container: container,
		w:         cw / cMin * vMin,
		h:         ch / cMin * vMin,
		observers: make(map[EventKind][]subscription),
	}
	v.x = center.X - v.w/2
	v.y = center.Y - v.h/2
	return v, nil
}

func containerSize(c Container) (float64, float64, error) {
	cw, ch := c.Size()
	if !(cw > 0) || !(ch > 0) || math.IsInf(cw, 0) || math.IsInf(ch, 0) {
		return 0, 0, fmt.Errorf("%w: container %gx%g", ErrInvalidDimensions, cw, ch)
	}
	return cw, ch, nil
}

func (v *Viewport) X() float64      { return v.x }
func (v *Viewport) Y() float64      { return v.y }
func (v *Viewport) Width() float64  { return v.w }
func (v *Viewport) Height() float64 { return v.h }

// VMin returns the smaller of width and height.
func (v *Viewport) VMin() float64 {
	return min(v.w, v.h)
}

// VMax returns the larger of width and height.
func (v *Viewport) VMax() float64 {
	return max(v.w, v.h)
}

// Center returns the world point in the middle of the viewport.
func (v *Viewport) Center() geom.Vec2 {
	return geom.V(v.x+v.w/2, v.y+v.h/2)
}

// Rect returns the visible rectangle.
func (v *Viewport) Rect() geom.Rect {
	return geom.Rect{X: v.x, Y: v.y, Width: v.w, Height: v.h}
}

// Polygon returns the visible rectangle as a four vertex polygon.
func (v *Viewport) Polygon() geom.Polygon {
	return v.Rect().Polygon()
}

// Pan translates the viewport by world-space deltas and notifies EventPan
// observers.
func (v *Viewport) Pan(dx, dy float64) error {
	v.x += dx
	v.y += dy
	return v.notify(EventPan)
}

// PanRelative pans by fractions of the current width and height, which is
// how pointer drags map onto the view.
func (v *Viewport) PanRelative(fx, fy float64) error {
	return v.Pan(fx*v.w, fy*v.h)
}

// Zoom scales the viewport by factor while keeping the world point under
// pivot fixed. Pivot is in viewport-local coordinates, (0, 0) being the
// top-left corner and (1, 1) the bottom-right. A factor below 1 zooms in.
func (v *Viewport) Zoom(factor float64, pivot geom.Vec2) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return fmt.Errorf("%w: zoom factor %g", ErrInvalidDimensions, factor)
	}
	w, h := v.w*factor, v.h*factor
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return fmt.Errorf("%w: zoom to %gx%g", ErrInvalidDimensions, w, h)
	}

	v.x += (v.w - w) * pivot.X
	v.y += (v.h - h) * pivot.Y
	v.w, v.h = w, h
	return v.notify(EventResize)
}

// ZoomCenter zooms around the center of the viewport.
func (v *Viewport) ZoomCenter(factor float64) error {
	return v.Zoom(factor, geom.V(0.5, 0.5))
}

// OnContainerResize recomputes the rectangle after the container changed
// size. The smaller dimension and the center are kept; the larger dimension
// follows the container's aspect ratio.
func (v *Viewport) OnContainerResize() error {
	cw, ch, err := containerSize(v.container)
	if err != nil {
		return err
	}

	vMin := v.VMin()
	c := v.Center()
	if cw < ch {
		v.w = vMin
		v.h = ch / cw * vMin
	} else {
		v.h = vMin
		v.w = cw / ch * vMin
	}
	v.x = c.X - v.w/2
	v.y = c.Y - v.h/2
	return v.notify(EventResize)
}

// Contains reports whether p lies inside the viewport, edges included.
func (v *Viewport) Contains(p geom.Vec2) bool {
	return v.Rect().Contains(p)
}

// Intersects reports whether polygon overlaps the viewport. The rectangle's
// own edge normals are the cardinal axes, so only the polygon's normals are
// added to those.
func (v *Viewport) Intersects(polygon geom.Polygon) bool {
	axes := make([]geom.Vec2, 0, 2+len(polygon))
	axes = append(axes, geom.AxisX, geom.AxisY)
	axes = append(axes, geom.Axes(polygon)...)
	return geom.Overlaps(v.Polygon(), polygon, axes...)
}

// State is a snapshot of the viewport used for serialization.
type State struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	VMin   float64 `json:"vMin"`
}

// Snapshot returns the current state.
func (v *Viewport) Snapshot() State {
	return State{X: v.x, Y: v.y, Width: v.w, Height: v.h, VMin: v.VMin()}
}
