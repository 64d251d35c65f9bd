package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWritesImages(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(scenePath, []byte(`
width = 64.0
height = 48.0
max_depth = 10

[[op]]
kind = "zoom"
factor = 0.5
`), 0o644))

	png := filepath.Join(dir, "out.png")
	require.NoError(t, run(scenePath, png, 9))
	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\x89PNG"))

	svg := filepath.Join(dir, "out.svg")
	require.NoError(t, run("", svg, -1))
	data, err = os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<path d=\"M -500 0")

	assert.Error(t, run("", filepath.Join(dir, "out.gif"), -1))
	assert.Error(t, run(filepath.Join(dir, "missing.toml"), png, -1))
}
