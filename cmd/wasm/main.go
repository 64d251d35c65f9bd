//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/inamate/fractal/internal/engine"
)

var eng *engine.Engine

func main() {
	// Create the engine API object
	fractalEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	fractalEngine.Set("init", js.FuncOf(initEngine))
	fractalEngine.Set("pan", js.FuncOf(pan))
	fractalEngine.Set("panRelative", js.FuncOf(panRelative))
	fractalEngine.Set("zoom", js.FuncOf(zoom))
	fractalEngine.Set("resize", js.FuncOf(resize))
	fractalEngine.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← backend) ---
	fractalEngine.Set("render", js.FuncOf(render))
	fractalEngine.Set("hitTest", js.FuncOf(hitTest))
	fractalEngine.Set("screenToWorld", js.FuncOf(screenToWorld))
	fractalEngine.Set("getViewport", js.FuncOf(getViewport))
	fractalEngine.Set("getStats", js.FuncOf(getStats))
	fractalEngine.Set("getSVG", js.FuncOf(getSVG))
	fractalEngine.Set("getFrame", js.FuncOf(getFrame))

	// Register on global scope
	js.Global().Set("fractalEngine", fractalEngine)

	// Signal that WASM is ready
	js.Global().Set("fractalWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func notReady() interface{} {
	return js.ValueOf(map[string]interface{}{"error": "engine not initialized"})
}

// --- Command Handlers ---

// initEngine(width, height, [seed], [roughness], [vMin]) creates the engine
// for a canvas of the given pixel size.
func initEngine(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "missing canvas size"})
	}

	opts := engine.DefaultOptions()
	opts.Width = args[0].Float()
	opts.Height = args[1].Float()
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		opts.Seed = uint32(args[2].Int())
	}
	if len(args) > 3 && args[3].Type() == js.TypeNumber {
		opts.Roughness = args[3].Float()
	}
	if len(args) > 4 && args[4].Type() == js.TypeNumber {
		opts.VMin = args[4].Float()
	}

	e, err := engine.New(opts)
	if err != nil {
		return result(err)
	}
	if eng != nil {
		eng.Close()
	}
	eng = e
	return result(nil)
}

func pan(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return notReady()
	}
	if len(args) < 2 {
		return nil
	}
	return result(eng.Pan(args[0].Float(), args[1].Float()))
}

func panRelative(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return notReady()
	}
	if len(args) < 2 {
		return nil
	}
	return result(eng.PanRelative(args[0].Float(), args[1].Float()))
}

// zoom(factor, x, y) zooms around the canvas pixel (x, y).
func zoom(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return notReady()
	}
	if len(args) < 3 {
		return nil
	}
	return result(eng.Zoom(args[0].Float(), args[1].Float(), args[2].Float()))
}

func resize(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return notReady()
	}
	if len(args) < 2 {
		return nil
	}
	return result(eng.Resize(args[0].Float(), args[1].Float()))
}

// tick(lastFrame) returns draw commands when the polyline changed since
// lastFrame, and an empty string otherwise.
func tick(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf("")
	}
	if len(args) > 0 && args[0].Type() == js.TypeNumber && args[0].Int() == eng.Frame() {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.Render())
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 2 {
		return js.ValueOf("")
	}
	x := args[0].Float()
	y := args[1].Float()
	return js.ValueOf(eng.HitTest(x, y))
}

func screenToWorld(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 2 {
		return nil
	}
	p := eng.ScreenToWorld(args[0].Float(), args[1].Float())
	return js.ValueOf(map[string]interface{}{"x": p.X, "y": p.Y})
}

func getViewport(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(eng.Viewport())
}

func getStats(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(eng.Stats())
}

func getSVG(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf("")
	}
	doc, err := eng.SVG()
	if err != nil {
		return result(err)
	}
	return js.ValueOf(doc)
}

func getFrame(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf(0)
	}
	return js.ValueOf(eng.Frame())
}
