package geom

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func TestAxes(t *testing.T) {
	square := Rect{X: 0, Y: 0, Width: 2, Height: 2}.Polygon()
	want := []Vec2{{0, 1}, {-1, 0}, {0, -1}, {1, 0}}
	diff(t, want, Axes(square), cmpopts.EquateApprox(0, 1e-12))

	// Repeated vertex: the zero-length edge contributes nothing.
	tri := Polygon{{0, 0}, {0, 0}, {1, 0}, {0, 1}}
	assert.Len(t, Axes(tri), 3)
}

func TestProject(t *testing.T) {
	tri := Polygon{{0, 0}, {4, 1}, {2, 3}}
	lo, hi := Project(tri, AxisX)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 4.0, hi)

	lo, hi = Project(tri, AxisY)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 3.0, hi)
}

func TestOverlaps(t *testing.T) {
	box := Rect{X: 0, Y: 0, Width: 10, Height: 10}.Polygon()

	tests := []struct {
		name string
		poly Polygon
		want bool
	}{
		{"inside", Polygon{{1, 1}, {2, 1}, {1, 2}}, true},
		{"containing", Polygon{{-100, -100}, {100, -100}, {0, 100}}, true},
		{"crossing", Polygon{{-5, 5}, {15, 5}, {5, 20}}, true},
		{"touching vertex", Polygon{{10, 10}, {20, 10}, {20, 20}}, true},
		{"touching edge", Polygon{{10, 0}, {20, 0}, {10, 10}}, true},
		{"left", Polygon{{-5, 0}, {-1, 0}, {-3, 5}}, false},
		// Separable only along the triangle's hypotenuse normal.
		{"diagonal gap", Polygon{{30, 0}, {0, 30}, {30, 30}}, false},
		{"degenerate segment crossing", Polygon{{-5, 5}, {5, 5}, {15, 5}}, true},
		{"degenerate segment outside", Polygon{{-5, 30}, {5, 20}, {15, 10}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(box, tt.poly))
			assert.Equal(t, tt.want, Overlaps(tt.poly, box))
		})
	}
}

func TestOverlapsCustomAxes(t *testing.T) {
	box := Rect{X: 0, Y: 0, Width: 10, Height: 10}.Polygon()
	gap := Polygon{{30, 0}, {0, 30}, {30, 30}}

	// The cardinal axes alone cannot separate these two.
	assert.True(t, Overlaps(box, gap, AxisX, AxisY))
	assert.False(t, Overlaps(box, gap, append([]Vec2{AxisX, AxisY}, Axes(gap)...)...))
}

func TestOverlapsTranslatedApart(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for range 500 {
		a := randomTriangle(r)
		b := randomTriangle(r)

		// Shifting b past a's bounds along x makes them disjoint.
		ab, bb := Bounds(a...), Bounds(b...)
		shift := ab.X + ab.Width - bb.X + 1 + r.Float64()*10
		moved := make(Polygon, len(b))
		for i, v := range b {
			moved[i] = v.Add(V(shift, r.Float64()))
		}
		assert.False(t, Overlaps(a, moved), "a=%v b=%v", a, moved)

		// Sharing a vertex always overlaps.
		touching := Polygon{a[0], b[1], b[2]}
		assert.True(t, Overlaps(a, touching), "a=%v b=%v", a, touching)
	}
}

func randomTriangle(r *rand.Rand) Polygon {
	p := func() Vec2 { return V(r.Float64()*100, r.Float64()*100) }
	return Polygon{p(), p(), p()}
}
