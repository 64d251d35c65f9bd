package render

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/inamate/fractal/internal/curve"
	"github.com/inamate/fractal/internal/geom"
)

// PathData formats cmds as SVG path data, e.g. "M -500 0 L 500 0".
func PathData(cmds []curve.Command) string {
	buf := make([]byte, 0, len(cmds)*16)
	for i, c := range cmds {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c.Op...)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, c.Point.X, 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, c.Point.Y, 'g', -1, 64)
	}
	return string(buf)
}

// SVG is a sink that keeps the polyline as SVG path data.
type SVG struct {
	mu sync.Mutex
	d  string

	Stroke string
}

func (s *SVG) Draw(cmds []curve.Command) error {
	d := PathData(cmds)
	s.mu.Lock()
	s.d = d
	s.mu.Unlock()
	return nil
}

// PathData returns the last path data drawn.
func (s *SVG) PathData() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d
}

// WriteDocument writes a standalone SVG document showing the view rectangle
// of world space.
func (s *SVG) WriteDocument(w io.Writer, view geom.Rect) error {
	stroke := s.Stroke
	if stroke == "" {
		stroke = "#000"
	}
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%g %g %g %g">`+
			`<path d="%s" fill="none" stroke="%s" vector-effect="non-scaling-stroke"/></svg>`+"\n",
		view.X, view.Y, view.Width, view.Height, s.PathData(), stroke)
	return err
}
