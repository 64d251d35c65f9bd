package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/inamate/fractal/internal/engine"
	"github.com/inamate/fractal/internal/typeid"
)

const (
	maxImageSize = 4096
	// maxDepth caps the level of detail of a single render.
	maxDepth = 16
)

type Handler struct {
	defaults engine.Options
}

func NewHandler(defaults engine.Options) *Handler {
	return &Handler{defaults: defaults}
}

// PNG renders the curve for the requested view as a PNG image.
func (h *Handler) PNG(w http.ResponseWriter, r *http.Request) {
	e, id, ok := h.engine(w, r)
	if !ok {
		return
	}
	defer e.Close()

	data, err := e.PNG()
	if err != nil {
		slog.Error("render png", "error", err, "render", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	setRenderHeaders(w, e, id)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// SVG renders the curve for the requested view as an SVG document.
func (h *Handler) SVG(w http.ResponseWriter, r *http.Request) {
	e, id, ok := h.engine(w, r)
	if !ok {
		return
	}
	defer e.Close()

	doc, err := e.SVG()
	if err != nil {
		slog.Error("render svg", "error", err, "render", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	setRenderHeaders(w, e, id)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

func setRenderHeaders(w http.ResponseWriter, e *engine.Engine, id string) {
	w.Header().Set("X-Render-Id", id)
	w.Header().Set("X-Render-Level", strconv.Itoa(e.PathStats().Level))
}

// engine builds an engine from the defaults overridden by the query
// parameters cx, cy, vmin, w, h, seed and roughness. The level of detail is
// measured against the default vMin, so a smaller vmin renders a deeper
// tree. On failure it writes the error response itself.
func (h *Handler) engine(w http.ResponseWriter, r *http.Request) (*engine.Engine, string, bool) {
	opts, err := h.options(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, "", false
	}

	id := typeid.NewRenderID()
	e, err := engine.New(opts)
	if err != nil {
		slog.Warn("render rejected", "error", err, "render", id)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, "", false
	}

	slog.Info("render", "render", id, "center", opts.Center, "vMin", opts.VMin, "size", fmt.Sprintf("%gx%g", opts.Width, opts.Height))
	return e, id, true
}

func (h *Handler) options(r *http.Request) (engine.Options, error) {
	opts := h.defaults
	if opts.BaselineVMin == 0 {
		opts.BaselineVMin = h.defaults.VMin
	}
	opts.MaxDepth = min(opts.MaxDepth, maxDepth)
	q := r.URL.Query()

	floats := []struct {
		name string
		dst  *float64
	}{
		{"cx", &opts.Center.X},
		{"cy", &opts.Center.Y},
		{"vmin", &opts.VMin},
		{"w", &opts.Width},
		{"h", &opts.Height},
		{"roughness", &opts.Roughness},
	}
	for _, f := range floats {
		s := q.Get(f.name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid %s: %q", f.name, s)
		}
		*f.dst = v
	}

	if s := q.Get("seed"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return opts, fmt.Errorf("invalid seed: %q", s)
		}
		opts.Seed = uint32(seed)
	}

	if opts.Width < 1 || opts.Height < 1 || opts.Width > maxImageSize || opts.Height > maxImageSize {
		return opts, fmt.Errorf("image size must be between 1 and %d pixels", maxImageSize)
	}
	return opts, nil
}
