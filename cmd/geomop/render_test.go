package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/geometry"
	"github.com/tdewolff/test"
)

func TestAsCollection(t *testing.T) {
	var tts = []struct {
		wkt                     string
		polygons, lines, points int
	}{
		{"POINT(1 2)", 0, 0, 1},
		{"MULTIPOINT(1 2,3 4)", 0, 0, 2},
		{"LINESTRING(0 0,1 1)", 0, 1, 0},
		{"MULTILINESTRING((0 0,1 1),(2 2,3 3))", 0, 2, 0},
		{"BOX(0 0,1 1)", 1, 0, 0},
		{"POLYGON((0 0,1 0,1 1,0 0))", 1, 0, 0},
		{"MULTIPOLYGON(((0 0,1 0,1 1,0 0)),((2 2,3 2,3 3,2 2)))", 2, 0, 0},
		{"GEOMETRYCOLLECTION(POLYGON((0 0,1 0,1 1,0 0)),LINESTRING(2 2,3 3))", 1, 1, 0},
	}
	for _, tt := range tts {
		t.Run(tt.wkt, func(t *testing.T) {
			c := asCollection(geometry.MustParseWKT(tt.wkt))
			test.T(t, len(c.Polygons), tt.polygons)
			test.T(t, len(c.Lines), tt.lines)
			test.T(t, len(c.Points), tt.points)
		})
	}
}

func TestProjection(t *testing.T) {
	cfg := DefaultConfig()
	f, err := projection(cfg)
	test.Error(t, err)
	test.T(t, f(geometry.Point{X: 10.0, Y: 20.0}), geometry.Point{X: 10.0, Y: 20.0})

	cfg.CoordinateSystem = "geographic"
	f, err = projection(cfg)
	test.Error(t, err)
	p := f(geometry.Point{X: 180.0, Y: 0.0})
	test.That(t, 2.0e7 < p.X && p.X < 2.01e7, p)
	test.FloatDiff(t, p.Y, 0.0, 1e-3)

	cfg.CoordinateSystem = "polar"
	_, err = projection(cfg)
	test.That(t, err != nil)
}

func TestProject(t *testing.T) {
	c := asCollection(geometry.MustParseWKT("GEOMETRYCOLLECTION(POLYGON((0 0,1 0,1 1,0 0)),LINESTRING(2 2,3 3),POINT(4 4))"))
	d := project(c, func(p geometry.Point) geometry.Point { return p.Mul(2.0) })
	test.String(t, geometry.WKT(d), "GEOMETRYCOLLECTION(MULTIPOLYGON(((0 0,2 0,2 2,0 0))),MULTILINESTRING((4 4,6 6)),MULTIPOINT(8 8))")
	test.String(t, geometry.WKT(c), "GEOMETRYCOLLECTION(MULTIPOLYGON(((0 0,1 0,1 1,0 0))),MULTILINESTRING((2 2,3 3)),MULTIPOINT(4 4))")
}

func TestRender(t *testing.T) {
	a := geometry.MustParseWKT("POLYGON((0 0,2 0,2 2,0 2,0 0))")
	b := geometry.MustParseWKT("POLYGON((1 1,3 1,3 3,1 3,1 1))")
	result, err := geometry.Overlay(geometry.UnionOp, a, b, geometry.DefaultOptions())
	test.Error(t, err)

	for _, name := range []string{"union.svg", "union.png"} {
		t.Run(name, func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), name)
			test.Error(t, render(filename, DefaultConfig(), layer{a, colorA}, layer{b, colorB}, layer{result, colorResult}))

			info, err := os.Stat(filename)
			test.Error(t, err)
			test.That(t, 0 < info.Size())
		})
	}
}

func TestIsRaster(t *testing.T) {
	test.That(t, isRaster("out.png"))
	test.That(t, isRaster("OUT.JPG"))
	test.That(t, isRaster("out.tiff"))
	test.That(t, !isRaster("out.svg"))
	test.That(t, !isRaster("out.pdf"))
}
