// Command fractal renders a scene file to a PNG or SVG image.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inamate/fractal/internal/scene"
)

func main() {
	var (
		scenePath = flag.String("scene", "", "scene file (TOML); defaults are used when empty")
		output    = flag.String("output", "fractal.png", "output file, .png or .svg")
		seed      = flag.Int64("seed", -1, "override the scene seed")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*scenePath, *output, *seed); err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run(scenePath, output string, seed int64) error {
	s := scene.Default()
	if scenePath != "" {
		var err error
		if s, err = scene.Load(scenePath); err != nil {
			return err
		}
	}
	if seed >= 0 {
		s.Seed = uint32(seed)
	}

	e, err := s.Run(s.Options())
	if err != nil {
		return err
	}
	defer e.Close()

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".png":
		data, err = e.PNG()
	case ".svg":
		var doc string
		doc, err = e.SVG()
		data = []byte(doc)
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	st := e.PathStats()
	slog.Info("rendered", "output", output, "ops", len(s.Ops), "level", st.Level, "nodes", st.Nodes, "points", len(e.Commands()))
	return nil
}
