package curve

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/fractal/internal/geom"
	"github.com/inamate/fractal/internal/random"
	"github.com/inamate/fractal/internal/viewport"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func newView(t *testing.T, cw, ch, vMin float64, center geom.Vec2) *viewport.Viewport {
	t.Helper()
	v, err := viewport.New(&viewport.Canvas{Width: cw, Height: ch}, vMin, center)
	require.NoError(t, err)
	return v
}

func m(x, y float64) Command { return Command{Op: MoveTo, Point: geom.V(x, y)} }
func l(x, y float64) Command { return Command{Op: LineTo, Point: geom.V(x, y)} }

type countingView struct {
	*viewport.Viewport
	intersects int
}

func (c *countingView) Intersects(p geom.Polygon) bool {
	c.intersects++
	return c.Viewport.Intersects(p)
}

func TestRefineOneLevel(t *testing.T) {
	v := newView(t, 200, 100, 1000, geom.V(0, 0))
	root, err := NewRoot(geom.V(-500, 0), geom.V(500, 0), v, Midpoint)
	require.NoError(t, err)
	diff(t, []Command{m(-500, 0), l(500, 0)}, root.Commands())

	changed, err := root.Refine(1)
	require.NoError(t, err)
	assert.True(t, changed)
	diff(t, []Command{m(-500, 0), l(0, 0), l(500, 0)}, root.Commands())
}

func TestRefineDeeper(t *testing.T) {
	v := newView(t, 200, 100, 1000, geom.V(0, 0))
	root, err := NewRoot(geom.V(-500, 0), geom.V(500, 0), v, Midpoint)
	require.NoError(t, err)

	_, err = root.Refine(3)
	require.NoError(t, err)

	want := []Command{m(-500, 0)}
	for x := -375.0; x <= 500; x += 125 {
		want = append(want, l(x, 0))
	}
	diff(t, want, root.Commands())
	assert.Equal(t, Stats{Nodes: 15, Leaves: 8, MaxDepth: 3}, root.Stats())
}

func TestRefineIdempotent(t *testing.T) {
	for _, center := range []geom.Vec2{geom.V(0, 0), geom.V(300, 0)} {
		v := newView(t, 100, 100, 400, center)
		root, err := NewRoot(geom.V(-500, 0), geom.V(500, 0), v, Displaced(random.New(3), 0.6))
		require.NoError(t, err)

		_, err = root.Refine(6)
		require.NoError(t, err)
		changed, err := root.Refine(6)
		require.NoError(t, err)
		assert.False(t, changed, "center %v", center)
	}
}

func TestRefineCollapseToZero(t *testing.T) {
	v := newView(t, 200, 100, 1000, geom.V(0, 0))
	root, err := NewRoot(geom.V(-500, 0), geom.V(500, 0), v, Displaced(random.New(5), 0.5))
	require.NoError(t, err)

	_, err = root.Refine(7)
	require.NoError(t, err)
	require.True(t, root.Expanded())

	changed, err := root.Refine(0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, root.Expanded())
	diff(t, []Command{m(-500, 0), l(500, 0)}, root.Commands())

	changed, err = root.Refine(0)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRefineOutsideStaysCollapsed(t *testing.T) {
	v := newView(t, 200, 100, 1000, geom.V(0, 0))
	root, err := NewRoot(geom.V(2000, 0), geom.V(3000, 0), v, Midpoint)
	require.NoError(t, err)
	before := root.Commands()

	changed, err := root.Refine(5)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, root.Expanded())
	diff(t, before, root.Commands())
}

func TestRefineCullsInvisibleHalf(t *testing.T) {
	v := newView(t, 100, 100, 1000, geom.V(900, 0))
	root, err := NewRoot(geom.V(-500, 0), geom.V(500, 0), v, Midpoint)
	require.NoError(t, err)

	_, err = root.Refine(2)
	require.NoError(t, err)
	diff(t, []Command{m(-500, 0), l(0, 0), l(250, 0), l(500, 0)}, root.Commands())
	assert.False(t, root.Left().Expanded())
	assert.True(t, root.Right().Expanded())

	// Panning the left half into view expands it; the right half goes away.
	require.NoError(t, v.Pan(-1500, 0))
	_, err = root.Refine(2)
	require.NoError(t, err)
	diff(t, []Command{m(-500, 0), l(-250, 0), l(0, 0), l(500, 0)}, root.Commands())
	assert.False(t, root.Right().Expanded())
}

func TestRefineStableSubtreeShortCircuits(t *testing.T) {
	cv := &countingView{Viewport: newView(t, 200, 100, 1000, geom.V(0, 0))}
	root, err := NewRoot(geom.V(-500, 0), geom.V(500, 0), cv, Midpoint)
	require.NoError(t, err)

	_, err = root.Refine(2)
	require.NoError(t, err)
	assert.Equal(t, 3, cv.intersects)

	cv.intersects = 0
	changed, err := root.Refine(2)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0, cv.intersects)

	// A pan that keeps everything on screen is still stable.
	require.NoError(t, cv.Pan(10, 10))
	changed, err = root.Refine(2)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0, cv.intersects)

	// A new level is not.
	changed, err = root.Refine(3)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotZero(t, cv.intersects)
}

func TestInterpolatorCalledOncePerNode(t *testing.T) {
	v := newView(t, 200, 100, 1000, geom.V(0, 0))
	calls := 0
	interp := func(a, b geom.Vec2, depth int) geom.Vec2 {
		calls++
		return Midpoint(a, b, depth)
	}
	root, err := NewRoot(geom.V(-500, 0), geom.V(500, 0), v, interp)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = root.Refine(4)
	require.NoError(t, err)
	assert.Equal(t, root.Stats().Nodes, calls)

	_, err = root.Refine(4)
	require.NoError(t, err)
	assert.Equal(t, 31, calls)

	// Rebuilding after a collapse computes the children again, never the root.
	_, err = root.Refine(0)
	require.NoError(t, err)
	_, err = root.Refine(4)
	require.NoError(t, err)
	assert.Equal(t, 61, calls)
}

func TestRefineNonFinite(t *testing.T) {
	v := newView(t, 200, 100, 1000, geom.V(0, 0))
	bad := func(a, b geom.Vec2, depth int) geom.Vec2 {
		if depth == 1 {
			return geom.V(math.NaN(), 0)
		}
		return Midpoint(a, b, depth)
	}
	root, err := NewRoot(geom.V(-500, 0), geom.V(500, 0), v, bad)
	require.NoError(t, err)

	_, err = root.Refine(3)
	assert.ErrorIs(t, err, ErrNonFinite)
	assert.False(t, root.Expanded())
	diff(t, []Command{m(-500, 0), l(500, 0)}, root.Commands())

	// The failed attempt is not remembered as done.
	_, err = root.Refine(3)
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = NewRoot(geom.V(0, 0), geom.V(1, 0), v, func(geom.Vec2, geom.Vec2, int) geom.Vec2 {
		return geom.V(math.Inf(1), 0)
	})
	assert.ErrorIs(t, err, ErrNonFinite)
}

// checkContinuous verifies that the root's commands form one polyline from
// start to end through the leaves in order.
func checkContinuous(t *testing.T, root *Segment) {
	t.Helper()
	cmds := root.Commands()
	require.GreaterOrEqual(t, len(cmds), 2)
	assert.Equal(t, m(root.Start().X, root.Start().Y), cmds[0])
	for _, c := range cmds[1:] {
		require.Equal(t, LineTo, c.Op)
	}
	assert.Equal(t, root.End(), cmds[len(cmds)-1].Point)

	var leaves []*Segment
	root.Walk(func(s *Segment) bool {
		if !s.Expanded() {
			leaves = append(leaves, s)
		}
		return true
	})
	require.Len(t, cmds, len(leaves)+1)
	prev := root.Start()
	for i, leaf := range leaves {
		require.Equal(t, prev, leaf.Start(), "leaf %d", i)
		require.Equal(t, leaf.End(), cmds[i+1].Point, "leaf %d", i)
		prev = leaf.End()
	}
}

func TestContinuityUnderPanAndZoom(t *testing.T) {
	v := newView(t, 160, 90, 1000, geom.V(0, 0))
	root, err := NewRoot(geom.V(-500, 0), geom.V(500, 0), v, Displaced(random.New(9), 0.5))
	require.NoError(t, err)

	r := rand.New(rand.NewPCG(21, 42))
	for i := range 300 {
		switch r.IntN(3) {
		case 0:
			require.NoError(t, v.Pan(r.Float64()*400-200, r.Float64()*400-200))
		case 1:
			require.NoError(t, v.Zoom(0.6+r.Float64()*0.8, geom.V(r.Float64(), r.Float64())))
		case 2:
			// no viewport change
		}
		_, err := root.Refine(r.IntN(9))
		require.NoError(t, err, "step %d", i)
		checkContinuous(t, root)
	}
}

func TestStableRebuildsSameShape(t *testing.T) {
	v := newView(t, 200, 100, 1000, geom.V(0, 0))
	root, err := NewRoot(geom.V(-500, 0), geom.V(500, 0), v, Stable(77, 0.5))
	require.NoError(t, err)

	_, err = root.Refine(6)
	require.NoError(t, err)
	first := root.Commands()

	_, err = root.Refine(0)
	require.NoError(t, err)
	_, err = root.Refine(6)
	require.NoError(t, err)
	diff(t, first, root.Commands())
}
