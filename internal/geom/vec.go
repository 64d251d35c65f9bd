package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrDivideByZero is returned when a vector is divided by zero or a zero
// length vector is normalized.
var ErrDivideByZero = errors.New("geom: divide by zero")

// Vec2 is a 2D vector or point in world space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V returns the vector (x, y).
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by n.
func (v Vec2) Scale(n float64) Vec2 {
	return Vec2{X: v.X * n, Y: v.Y * n}
}

// Divide divides both components by n.
func (v Vec2) Divide(n float64) (Vec2, error) {
	if n == 0 {
		return Vec2{}, ErrDivideByZero
	}
	return Vec2{X: v.X / n, Y: v.Y / n}, nil
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Magnitude returns the euclidean length of v.
func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns a unit vector with the direction of v.
func (v Vec2) Normalize() (Vec2, error) {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}, ErrDivideByZero
	}
	return v.Scale(1 / m), nil
}

// Rotate rotates v by the given angle in radians.
func (v Vec2) Rotate(radians float64) Vec2 {
	s, c := math.Sincos(radians)
	return Vec2{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
	}
}

// Rotate90 rotates v by a quarter turn. It returns (-y, x), or (y, -x) when
// clockwise is set.
func (v Vec2) Rotate90(clockwise bool) Vec2 {
	if clockwise {
		return Vec2{X: v.Y, Y: -v.X}
	}
	return Vec2{X: -v.Y, Y: v.X}
}

// Lerp linearly interpolates between v and o.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return v.Add(o.Sub(v).Scale(t))
}

// Midpoint returns the point halfway between v and o.
func (v Vec2) Midpoint(o Vec2) Vec2 {
	return Vec2{X: 0.5 * (v.X + o.X), Y: 0.5 * (v.Y + o.Y)}
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// DistanceToSegment returns the distance from p to the closest point of the
// line segment a-b.
func DistanceToSegment(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Sub(a).Magnitude()
	}
	t := min(max(p.Sub(a).Dot(ab)/lenSq, 0), 1)
	return p.Sub(a.Lerp(b, t)).Magnitude()
}
