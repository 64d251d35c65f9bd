package session

import (
	"encoding/json"

	"github.com/inamate/fractal/internal/path"
	"github.com/inamate/fractal/internal/render"
	"github.com/inamate/fractal/internal/viewport"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Viewport commands (client → server)
	TypePan         = "view.pan"
	TypePanRelative = "view.pan_relative"
	TypeZoom        = "view.zoom"
	TypeResize      = "view.resize"

	// Queries and pushes (server → client)
	TypeViewState = "view.state"
	TypeRender    = "path.render"
	TypeStats     = "path.stats"
)

// PanPayload moves the view by world units.
type PanPayload struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// PanRelativePayload moves the view by fractions of its size.
type PanRelativePayload struct {
	FX float64 `json:"fx"`
	FY float64 `json:"fy"`
}

// ZoomPayload scales the view around the screen pixel (x, y).
type ZoomPayload struct {
	Factor float64 `json:"factor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// ResizePayload reports a new container size in pixels.
type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type WelcomePayload struct {
	SessionID string         `json:"sessionId"`
	ClientID  string         `json:"clientId"`
	View      viewport.State `json:"view"`
	Stats     path.Stats     `json:"stats"`
}

type RenderPayload struct {
	Frame    int                  `json:"frame"`
	Commands []render.DrawCommand `json:"commands"`
}

type ViewStatePayload struct {
	View  viewport.State `json:"view"`
	Level int            `json:"level"`
}

type ErrorPayload struct {
	Request string `json:"request,omitempty"`
	Error   string `json:"error"`
}
