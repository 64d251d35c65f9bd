// Package render holds output sinks for the polyline: an in-memory recorder,
// SVG path data, Canvas2D draw commands and PNG rasterization.
package render

import (
	"slices"
	"sync"

	"github.com/inamate/fractal/internal/curve"
)

// Recorder keeps the most recent command sequence.
type Recorder struct {
	mu    sync.Mutex
	last  []curve.Command
	count int
}

func (r *Recorder) Draw(cmds []curve.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = cmds
	r.count++
	return nil
}

// Last returns a copy of the last sequence drawn.
func (r *Recorder) Last() []curve.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.last)
}

// Count returns how many times Draw was called.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
