package curve

import "github.com/inamate/fractal/internal/geom"

// Op is a drawing operation, named after the SVG and Canvas2D path letters.
type Op string

const (
	MoveTo Op = "M"
	LineTo Op = "L"
)

// Command is a single polyline drawing step.
type Command struct {
	Op    Op        `json:"op"`
	Point geom.Vec2 `json:"point"`
}
