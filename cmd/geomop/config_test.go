package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/geometry"
	"github.com/tdewolff/geometry/rtree"
	"github.com/tdewolff/test"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	test.Error(t, err)
	test.T(t, cfg, DefaultConfig())

	opts, err := cfg.Options()
	test.Error(t, err)
	test.T(t, opts.CoordinateSystem, geometry.Cartesian)
	test.T(t, opts.NoThrow, false)
	test.T(t, opts.IndexOptions, rtree.DefaultOptions)
}

func TestLoadConfig(t *testing.T) {
	filename := writeFile(t, "geomop.toml", `
coordinate_system = "spherical"
no_throw = true

[index]
min_entries = 2
max_entries = 8
split = "rstar"

[render]
width = 100.0
`)
	cfg, err := LoadConfig(filename)
	test.Error(t, err)
	test.Float(t, cfg.Render.Width, 100.0)
	test.Float(t, cfg.Render.StrokeWidth, 0.5)

	opts, err := cfg.Options()
	test.Error(t, err)
	test.T(t, opts.CoordinateSystem, geometry.Spherical)
	test.T(t, opts.NoThrow, true)
	test.T(t, opts.IndexOptions, rtree.Options{MinEntries: 2, MaxEntries: 8, Split: rtree.RStarSplit})
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	test.That(t, err != nil)

	_, err = LoadConfig(writeFile(t, "bad.toml", "coordinate_system = "))
	test.That(t, err != nil)

	cfg := DefaultConfig()
	cfg.Index.Split = "random"
	_, err = cfg.Options()
	test.That(t, err != nil)

	cfg = DefaultConfig()
	cfg.Index.MinEntries = 9
	_, err = cfg.IndexOptions()
	test.That(t, err != nil)

	cfg = DefaultConfig()
	cfg.CoordinateSystem = "polar"
	_, err = cfg.Options()
	test.That(t, err != nil)
}
