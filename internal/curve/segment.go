// Package curve implements the adaptive segment tree behind the fractal
// polyline. Each Segment spans two fixed endpoints and a control point; it
// splits into two children at the control point when the viewport needs more
// detail and drops them again when it does not.
package curve

import (
	"errors"
	"fmt"
	"slices"

	"github.com/inamate/fractal/internal/geom"
)

// ErrNonFinite is returned when an interpolator produces NaN or Inf.
var ErrNonFinite = errors.New("curve: interpolated point is not finite")

// Visibility answers the two questions refinement asks of a viewport.
type Visibility interface {
	Contains(p geom.Vec2) bool
	Intersects(p geom.Polygon) bool
}

// Segment is a node of the refinement tree. The zero value is not usable;
// build trees with NewRoot.
type Segment struct {
	start, control, end geom.Vec2
	depth               int
	root                bool

	view   Visibility
	interp Interpolator

	// Both nil or both set.
	left, right *Segment

	fragment []Command
	visible  bool // all three points were inside the viewport last time
	level    int  // target level of the last refine, -1 before the first
}

// NewRoot builds the root segment from start to end. The root starts
// collapsed; call Refine to add detail.
func NewRoot(start, end geom.Vec2, view Visibility, interp Interpolator) (*Segment, error) {
	return newSegment(start, end, 0, true, view, interp)
}

func newSegment(start, end geom.Vec2, depth int, root bool, view Visibility, interp Interpolator) (*Segment, error) {
	control := interp(start, end, depth)
	if !control.IsFinite() {
		return nil, fmt.Errorf("%w: %v between %v and %v at depth %d", ErrNonFinite, control, start, end, depth)
	}
	s := &Segment{
		start:   start,
		control: control,
		end:     end,
		depth:   depth,
		root:    root,
		view:    view,
		interp:  interp,
		level:   -1,
	}
	s.fragment = s.line()
	return s, nil
}

func (s *Segment) Start() geom.Vec2   { return s.start }
func (s *Segment) Control() geom.Vec2 { return s.control }
func (s *Segment) End() geom.Vec2     { return s.end }
func (s *Segment) Depth() int         { return s.depth }
func (s *Segment) Left() *Segment     { return s.left }
func (s *Segment) Right() *Segment    { return s.right }

// Expanded reports whether the segment currently has children.
func (s *Segment) Expanded() bool {
	return s.left != nil
}

// Triangle returns the control triangle start, control, end.
func (s *Segment) Triangle() geom.Polygon {
	return geom.Polygon{s.start, s.control, s.end}
}

// Commands returns a copy of the segment's rendered fragment. For the root
// this is the whole polyline, starting with a MoveTo.
func (s *Segment) Commands() []Command {
	return slices.Clone(s.fragment)
}

// Refine brings the subtree to targetLevel levels of detail where the
// viewport can see it and collapses it where it cannot. It reports whether
// the rendered fragment changed.
func (s *Segment) Refine(targetLevel int) (bool, error) {
	visible := s.view.Contains(s.start) && s.view.Contains(s.control) && s.view.Contains(s.end)
	stable := visible && s.visible && targetLevel == s.level
	s.visible, s.level = visible, targetLevel
	if stable {
		return false, nil
	}

	if targetLevel <= 0 || !s.view.Intersects(s.Triangle()) {
		return s.collapse(), nil
	}

	created := false
	if s.left == nil {
		if err := s.split(); err != nil {
			s.level = -1
			return false, err
		}
		created = true
	}

	changed, err := s.left.Refine(targetLevel - 1)
	if err == nil {
		var rc bool
		rc, err = s.right.Refine(targetLevel - 1)
		changed = changed || rc
	}
	changed = changed || created
	if changed {
		s.join()
	}
	if err != nil {
		// Not finished; the next refine must not short-circuit.
		s.level = -1
	}
	return changed, err
}

func (s *Segment) split() error {
	left, err := newSegment(s.start, s.control, s.depth+1, false, s.view, s.interp)
	if err != nil {
		return err
	}
	right, err := newSegment(s.control, s.end, s.depth+1, false, s.view, s.interp)
	if err != nil {
		return err
	}
	s.left, s.right = left, right
	return nil
}

func (s *Segment) collapse() bool {
	if s.left == nil {
		return false
	}
	s.left, s.right = nil, nil
	s.fragment = s.line()
	return true
}

// line is the fragment of a collapsed segment.
func (s *Segment) line() []Command {
	if s.root {
		return []Command{{Op: MoveTo, Point: s.start}, {Op: LineTo, Point: s.end}}
	}
	return []Command{{Op: LineTo, Point: s.end}}
}

func (s *Segment) join() {
	n := len(s.left.fragment) + len(s.right.fragment)
	if s.root {
		n++
	}
	frag := make([]Command, 0, n)
	if s.root {
		frag = append(frag, Command{Op: MoveTo, Point: s.start})
	}
	frag = append(frag, s.left.fragment...)
	frag = append(frag, s.right.fragment...)
	s.fragment = frag
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// children of that segment.
func (s *Segment) Walk(fn func(*Segment) bool) {
	if !fn(s) || s.left == nil {
		return
	}
	s.left.Walk(fn)
	s.right.Walk(fn)
}

// Stats summarizes the current shape of a tree.
type Stats struct {
	Nodes    int `json:"nodes"`
	Leaves   int `json:"leaves"`
	MaxDepth int `json:"maxDepth"`
}

// Stats walks the subtree and counts its nodes.
func (s *Segment) Stats() Stats {
	var st Stats
	s.Walk(func(n *Segment) bool {
		st.Nodes++
		if n.left == nil {
			st.Leaves++
		}
		st.MaxDepth = max(st.MaxDepth, n.depth)
		return true
	})
	return st
}
