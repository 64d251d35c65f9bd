package render

import (
	"encoding/json"

	"github.com/inamate/fractal/internal/curve"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // Operation: "path"
	ObjectID    string        `json:"objectId,omitempty"`    // For hit correlation
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" ops
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width in screen pixels
	Opacity     float64       `json:"opacity,omitempty"`     // Global alpha
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y].
type PathCommand []interface{}

// Style is how the curve is stroked on the frontend.
type Style struct {
	ObjectID    string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
}

// DefaultStyle is a one pixel black line.
var DefaultStyle = Style{ObjectID: "curve", Stroke: "#000", StrokeWidth: 1, Opacity: 1}

// CompileDrawCommands turns a polyline into the draw command buffer the
// frontend executes.
func CompileDrawCommands(cmds []curve.Command, style Style) []DrawCommand {
	if len(cmds) == 0 {
		return nil
	}

	path := make([]PathCommand, len(cmds))
	for i, c := range cmds {
		path[i] = PathCommand{string(c.Op), c.Point.X, c.Point.Y}
	}
	return []DrawCommand{{
		Op:          "path",
		ObjectID:    style.ObjectID,
		Path:        path,
		Stroke:      style.Stroke,
		StrokeWidth: style.StrokeWidth,
		Opacity:     style.Opacity,
	}}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
