package main

import (
	"bytes"
	"testing"

	"github.com/tdewolff/geometry"
	"github.com/tdewolff/test"
)

func TestParseGeometry(t *testing.T) {
	var tts = []struct {
		filename string
		input    string
		expected string
	}{
		{"a.wkt", "POLYGON((0 0,1 0,1 1,0 0))", "POLYGON((0 0,1 0,1 1,0 0))"},
		{"a.txt", "  LINESTRING(0 0,1 1)\n", "LINESTRING(0 0,1 1)"},
		{"a.json", `{"type":"Point","coordinates":[1,2]}`, "POINT(1 2)"},
		{"a.wkt", ` {"type":"LineString","coordinates":[[0,0],[1,1]]}`, "LINESTRING(0 0,1 1)"},
		{"a.geojson", `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`, "POLYGON((0 0,1 0,1 1,0 0))"},
	}
	for _, tt := range tts {
		t.Run(tt.input, func(t *testing.T) {
			g, err := parseGeometry(tt.filename, []byte(tt.input))
			test.Error(t, err)
			test.String(t, geometry.WKT(g), tt.expected)
		})
	}
}

func TestParseGeometryErrors(t *testing.T) {
	_, err := parseGeometry("a.wkt", []byte("POLYGON((0 0"))
	test.That(t, err != nil)

	_, err = parseGeometry("a.json", []byte(`{"type":"Polygon","coordinates":`))
	test.That(t, err != nil)
}

func TestReadGeometries(t *testing.T) {
	filename := writeFile(t, "index.wkt", "# boxes\nBOX(0 0,1 1)\n\nPOINT(5 5)\n")
	gs, err := readGeometries(filename)
	test.Error(t, err)
	test.T(t, len(gs), 2)
	test.String(t, geometry.WKT(gs[1]), "POINT(5 5)")

	_, err = readGeometries(writeFile(t, "bad.wkt", "POINT(1 2)\nPOINT(1)\n"))
	test.That(t, err != nil)
}

func TestWriteGeometry(t *testing.T) {
	g := geometry.MustParseWKT("POINT(1 2)")

	buf := &bytes.Buffer{}
	test.Error(t, writeGeometry(buf, g, "wkt"))
	test.String(t, buf.String(), "POINT(1 2)\n")

	buf.Reset()
	test.Error(t, writeGeometry(buf, g, "geojson"))
	test.String(t, buf.String(), `{"type":"Point","coordinates":[1,2]}`+"\n")

	test.That(t, writeGeometry(buf, g, "svg") != nil)
}
