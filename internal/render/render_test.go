package render

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/fractal/internal/curve"
	"github.com/inamate/fractal/internal/geom"
)

var polyline = []curve.Command{
	{Op: curve.MoveTo, Point: geom.V(-500, 0)},
	{Op: curve.LineTo, Point: geom.V(0, 0.5)},
	{Op: curve.LineTo, Point: geom.V(500, 0)},
}

func TestRecorder(t *testing.T) {
	var r Recorder
	assert.Nil(t, r.Last())

	require.NoError(t, r.Draw(polyline))
	require.NoError(t, r.Draw(polyline[:2]))
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, polyline[:2], r.Last())
}

func TestPathData(t *testing.T) {
	assert.Equal(t, "M -500 0 L 0 0.5 L 500 0", PathData(polyline))
	assert.Equal(t, "", PathData(nil))
}

func TestSVGDocument(t *testing.T) {
	s := &SVG{Stroke: "#f00"}
	require.NoError(t, s.Draw(polyline))

	var buf bytes.Buffer
	require.NoError(t, s.WriteDocument(&buf, geom.Rect{X: -1000, Y: -500, Width: 2000, Height: 1000}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="-1000 -500 2000 1000">`))
	assert.Contains(t, out, `d="M -500 0 L 0 0.5 L 500 0"`)
	assert.Contains(t, out, `stroke="#f00"`)
}

func TestCompileDrawCommands(t *testing.T) {
	cmds := CompileDrawCommands(polyline, DefaultStyle)
	require.Len(t, cmds, 1)
	assert.Equal(t, "path", cmds[0].Op)
	assert.Equal(t, "curve", cmds[0].ObjectID)
	assert.Equal(t, PathCommand{"L", 0.0, 0.5}, cmds[0].Path[1])

	out, err := DrawCommandsToJSON(cmds)
	require.NoError(t, err)

	var decoded []struct {
		Op   string          `json:"op"`
		Path [][]interface{} `json:"path"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, []interface{}{"M", -500.0, 0.0}, decoded[0].Path[0])

	assert.Nil(t, CompileDrawCommands(nil, DefaultStyle))
	empty, err := DrawCommandsToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}

type fixedFrame geom.Rect

func (f fixedFrame) Rect() geom.Rect { return geom.Rect(f) }

func TestRaster(t *testing.T) {
	r := NewRaster(200, 100, fixedFrame{X: -1000, Y: -500, Width: 2000, Height: 1000})
	r.LineWidth = 3
	assert.Nil(t, r.PNG())

	require.NoError(t, r.Draw(polyline))
	img, err := png.Decode(bytes.NewReader(r.PNG()))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	// The line runs through the middle row; the corner stays background.
	cr, _, _, _ := img.At(100, 50).RGBA()
	assert.Less(t, cr, uint32(0x8000))
	wr, wg, wb, _ := img.At(2, 2).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{wr, wg, wb})

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(r.PNG())), n)
}
