package geom

// Transform maps world coordinates to another axis-aligned frame: each axis
// is scaled, then shifted. It is all a viewport mapping needs, since views
// never rotate or shear.
type Transform struct {
	Scale  Vec2
	Offset Vec2
}

// RectToRect returns the transform mapping src onto dst, scaling each axis
// independently.
func RectToRect(src, dst Rect) Transform {
	s := V(dst.Width/src.Width, dst.Height/src.Height)
	return Transform{
		Scale:  s,
		Offset: V(dst.X-src.X*s.X, dst.Y-src.Y*s.Y),
	}
}

// Apply maps p.
func (t Transform) Apply(p Vec2) Vec2 {
	return V(p.X*t.Scale.X+t.Offset.X, p.Y*t.Scale.Y+t.Offset.Y)
}

// Invert returns the reverse mapping. ok is false when an axis collapses to
// zero and the mapping cannot be undone.
func (t Transform) Invert() (inv Transform, ok bool) {
	if t.Scale.X == 0 || t.Scale.Y == 0 {
		return Transform{}, false
	}
	inv.Scale = V(1/t.Scale.X, 1/t.Scale.Y)
	inv.Offset = V(-t.Offset.X*inv.Scale.X, -t.Offset.Y*inv.Scale.Y)
	return inv, true
}
