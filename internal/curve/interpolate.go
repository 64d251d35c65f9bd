package curve

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/inamate/fractal/internal/geom"
	"github.com/inamate/fractal/internal/random"
)

// Interpolator returns the control point of the segment from start to end at
// the given tree depth. It is called once per segment, when the segment is
// built.
type Interpolator func(start, end geom.Vec2, depth int) geom.Vec2

// Midpoint places the control point halfway between the endpoints, which
// yields a straight line at every depth.
func Midpoint(start, end geom.Vec2, _ int) geom.Vec2 {
	return start.Midpoint(end)
}

// Float64Source is a stream of values in [0, 1).
type Float64Source interface {
	Float64() float64
}

// Displaced moves the midpoint by up to roughness times the half length of
// the segment, in a random direction. Values are drawn from src in call
// order, so the shape depends on the order segments are built in.
func Displaced(src Float64Source, roughness float64) Interpolator {
	return func(start, end geom.Vec2, _ int) geom.Vec2 {
		return displace(start, end, src.Float64(), src.Float64(), roughness)
	}
}

// Stable is like Displaced, but each control point is drawn from a stream
// seeded by the segment's endpoints and depth. A segment that is collapsed
// and later rebuilt gets the same control point, so the curve keeps its shape
// however it is panned and zoomed.
func Stable(seed uint32, roughness float64) Interpolator {
	return func(start, end geom.Vec2, depth int) geom.Vec2 {
		src := random.New(segmentSeed(seed, start, end, depth))
		return displace(start, end, src.Float64(), src.Float64(), roughness)
	}
}

func displace(start, end geom.Vec2, r, turn, roughness float64) geom.Vec2 {
	mid := start.Midpoint(end)
	offset := end.Sub(mid).Scale(r * r * roughness)
	return mid.Add(offset.Rotate(turn * 2 * math.Pi))
}

func segmentSeed(seed uint32, start, end geom.Vec2, depth int) uint32 {
	h := fnv.New32a()
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], seed)
	binary.LittleEndian.PutUint32(buf[4:], uint32(depth))
	h.Write(buf[:])
	for _, f := range []float64{start.X, start.Y, end.X, end.Y} {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	return h.Sum32()
}
