package geom

import "math"

// Polygon is an ordered, cyclic list of vertices. Winding order does not
// matter to the overlap test.
type Polygon []Vec2

// Cardinal axes, sufficient to separate anything from an axis-aligned rectangle.
var (
	AxisX = Vec2{X: 1, Y: 0}
	AxisY = Vec2{X: 0, Y: 1}
)

// Axes returns one candidate separating axis per edge of p, in edge order.
// Each axis is the unit normal of its edge rather than the edge direction, so
// the overlap test is exact for convex polygons. Zero-length edges have no
// normal and are skipped.
func Axes(p Polygon) []Vec2 {
	axes := make([]Vec2, 0, len(p))
	for i := range p {
		edge := p[(i+1)%len(p)].Sub(p[i])
		axis, err := edge.Rotate90(false).Normalize()
		if err != nil {
			continue
		}
		axes = append(axes, axis)
	}
	return axes
}

// Project returns the interval covered by p when projected onto axis.
func Project(p Polygon, axis Vec2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range p {
		d := v.Dot(axis)
		lo = min(lo, d)
		hi = max(hi, d)
	}
	return lo, hi
}

// Overlaps reports whether a and b share at least one point, using the
// separating axis theorem. If no axes are given, the edge normals of both
// polygons are used, which is exact for convex polygons. Callers may pass a
// cheaper set when some axes are known to be redundant.
func Overlaps(a, b Polygon, axes ...Vec2) bool {
	if len(axes) == 0 {
		axes = append(Axes(a), Axes(b)...)
	}
	for _, axis := range axes {
		aMin, aMax := Project(a, axis)
		bMin, bMax := Project(b, axis)
		if aMax < bMin || bMax < aMin {
			return false
		}
	}
	return true
}
