package geometry

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestParseWKT(t *testing.T) {
	var tts = []struct {
		wkt      string
		expected string
	}{
		{"POINT(1 2)", "POINT(1 2)"},
		{" point ( 1.5e1  -0.25 ) ", "POINT(15 -0.25)"},
		{"POINT EMPTY", "MULTIPOINT EMPTY"},
		{"LINESTRING(0 0,1 1,2 0)", "LINESTRING(0 0,1 1,2 0)"},
		{"LineString EMPTY", "LINESTRING EMPTY"},
		{"POLYGON((0 0,1 0,1 1,0 0))", "POLYGON((0 0,1 0,1 1,0 0))"},
		{"POLYGON((0 0,1 0,1 1))", "POLYGON((0 0,1 0,1 1,0 0))"},
		{"POLYGON((0 0,4 0,4 4,0 4,0 0),(1 1,1 2,2 2,1 1))", "POLYGON((0 0,4 0,4 4,0 4,0 0),(1 1,1 2,2 2,1 1))"},
		{"POLYGON EMPTY", "POLYGON EMPTY"},
		{"BOX(0 0,2 3)", "BOX(0 0,2 3)"},
		{"BOX(2 3,0 0)", "BOX(0 0,2 3)"},
		{"MULTIPOINT(1 2,3 4)", "MULTIPOINT(1 2,3 4)"},
		{"MULTIPOINT((1 2),(3 4))", "MULTIPOINT(1 2,3 4)"},
		{"MULTILINESTRING((0 0,1 1),(2 2,3 3))", "MULTILINESTRING((0 0,1 1),(2 2,3 3))"},
		{"MULTIPOLYGON(((0 0,1 0,1 1,0 0)),((2 2,3 2,3 3,2 2)))", "MULTIPOLYGON(((0 0,1 0,1 1,0 0)),((2 2,3 2,3 3,2 2)))"},
		{"MULTIPOLYGON EMPTY", "MULTIPOLYGON EMPTY"},
		{"GEOMETRYCOLLECTION(POLYGON((0 0,1 0,1 1,0 0)),LINESTRING(2 2,3 3))", "GEOMETRYCOLLECTION(MULTIPOLYGON(((0 0,1 0,1 1,0 0))),MULTILINESTRING((2 2,3 3)))"},
		{"GEOMETRYCOLLECTION(POINT(1 2),POINT(3 4))", "MULTIPOINT(1 2,3 4)"},
		{"GEOMETRYCOLLECTION EMPTY", "GEOMETRYCOLLECTION EMPTY"},
	}
	for _, tt := range tts {
		t.Run(tt.wkt, func(t *testing.T) {
			g, err := ParseWKT(tt.wkt)
			test.Error(t, err)
			test.String(t, WKT(g), tt.expected)
		})
	}
}

func TestParseWKTKind(t *testing.T) {
	var tts = []struct {
		wkt  string
		kind Kind
	}{
		{"POINT(1 2)", PointKind},
		{"LINESTRING(0 0,1 1)", LineStringKind},
		{"POLYGON((0 0,1 0,1 1,0 0))", PolygonKind},
		{"BOX(0 0,1 1)", BoxKind},
		{"MULTIPOINT(1 2)", MultiPointKind},
		{"MULTILINESTRING((0 0,1 1))", MultiLineStringKind},
		{"MULTIPOLYGON(((0 0,1 0,1 1,0 0)))", MultiPolygonKind},
		{"GEOMETRYCOLLECTION(POINT(1 2))", CollectionKind},
	}
	for _, tt := range tts {
		t.Run(tt.wkt, func(t *testing.T) {
			test.T(t, MustParseWKT(tt.wkt).Kind(), tt.kind)
		})
	}
}

func TestParseWKTErrors(t *testing.T) {
	var tts = []string{
		"",
		"FOO(1 2)",
		"POINT",
		"POINT(1)",
		"POINT(1 2",
		"POINT(1 2) x",
		"POLYGON((0 0,1 1)",
		"POLYGON((0 0,1 x))",
		"BOX(0 0,1 1,2 2)",
		"MULTIPOINT(1 2,)",
	}
	for _, tt := range tts {
		t.Run(tt, func(t *testing.T) {
			_, err := ParseWKT(tt)
			test.That(t, err != nil)
		})
	}
}

func TestMustParseWKT(t *testing.T) {
	defer func() {
		test.That(t, recover() != nil)
	}()
	MustParseWKT("POINT(1)")
}

func TestWKT(t *testing.T) {
	test.String(t, WKT(Ring{{0.0, 0.0}, {1.0, 0.0}, {0.0, 1.0}}), "POLYGON((0 0,1 0,0 1,0 0))")
	test.String(t, WKT(EmptyBox()), "BOX EMPTY")
	test.String(t, WKT(Point{0.1, -1e-3}), "POINT(0.1 -0.001)")
	test.String(t, WKT(Collection{Lines: MultiLineString{{{0.0, 0.0}, {1.0, 1.0}}}}), "LINESTRING(0 0,1 1)")
	test.String(t, WKT(Collection{
		Lines:  MultiLineString{{{0.0, 0.0}, {1.0, 1.0}}},
		Points: MultiPoint{{2.0, 2.0}},
	}), "GEOMETRYCOLLECTION(MULTILINESTRING((0 0,1 1)),MULTIPOINT(2 2))")
}
