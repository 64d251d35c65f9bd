package render

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/gogpu/gg"

	"github.com/inamate/fractal/internal/curve"
	"github.com/inamate/fractal/internal/geom"
)

// Framer reports the world rectangle that should fill the image.
type Framer interface {
	Rect() geom.Rect
}

// Raster is a sink that strokes the polyline into a PNG image.
type Raster struct {
	width, height int
	frame         Framer

	Stroke     string
	Background string
	LineWidth  float64

	mu  sync.Mutex
	png []byte
}

// NewRaster returns a width×height pixel sink showing frame's rectangle.
// The image should have the same aspect ratio as the rectangle.
func NewRaster(width, height int, frame Framer) *Raster {
	return &Raster{
		width:      width,
		height:     height,
		frame:      frame,
		Stroke:     "#000000",
		Background: "#ffffff",
		LineWidth:  1,
	}
}

func (r *Raster) Draw(cmds []curve.Command) error {
	dc := gg.NewContext(r.width, r.height)
	defer dc.Close()

	dc.ClearWithColor(gg.Hex(r.Background))

	toPixels := geom.RectToRect(r.frame.Rect(), geom.Rect{Width: float64(r.width), Height: float64(r.height)})
	for _, c := range cmds {
		p := toPixels.Apply(c.Point)
		switch c.Op {
		case curve.MoveTo:
			dc.MoveTo(p.X, p.Y)
		case curve.LineTo:
			dc.LineTo(p.X, p.Y)
		}
	}

	dc.SetHexColor(r.Stroke)
	dc.SetLineWidth(r.LineWidth)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroke polyline: %w", err)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	r.mu.Lock()
	r.png = buf.Bytes()
	r.mu.Unlock()
	return nil
}

// PNG returns the last encoded image, or nil before the first Draw.
func (r *Raster) PNG() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.png
}

// WriteTo writes the last encoded image to w.
func (r *Raster) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.PNG())
	return int64(n), err
}
