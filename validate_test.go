package geometry

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/tdewolff/test"
)

func TestValidate(t *testing.T) {
	var tts = []struct {
		wkt  string
		kind ErrorKind
	}{
		{"POLYGON((0 0,4 0,4 4,0 4,0 0))", 0},
		{"POLYGON((0 0,0 4,4 4,4 0,0 0))", 0},
		{"POLYGON((0 0,4 0,4 4,0 4,0 0),(1 1,1 3,3 3,3 1,1 1))", 0},
		{"POLYGON((0 0,4 0,4 4,0 4,0 0),(2 0,3 1,1 1,2 0))", 0},
		{"MULTIPOLYGON(((0 0,2 0,2 2,0 2,0 0)),((2 2,4 2,4 4,2 4,2 2)))", 0},
		{"LINESTRING(0 0,1 1,0 1,1 0)", 0},
		{"POINT(1 2)", 0},
		{"BOX(0 0,1 1)", 0},

		{"POLYGON EMPTY", EmptyInput},
		{"MULTIPOINT EMPTY", EmptyInput},
		{"POLYGON((0 0,1 1,0 0))", FewPoints},
		{"LINESTRING(1 1,1 1)", FewPoints},
		{"POLYGON((0 0,1 1,2 2,0 0))", WrongDimension},
		{"POLYGON((0 0,4 4,4 0,0 2,0 0))", SelfIntersections},
		{"POLYGON((0 0,4 0,2 2,4 4,0 4,2 2,0 0))", SelfIntersections},
		{"POLYGON((0 0,4 0,4 4,0 4,0 0),(2 -1,3 1,1 1,2 -1))", SelfIntersections},
		{"MULTIPOLYGON(((0 0,2 0,2 2,0 2,0 0)),((1 1,3 1,3 3,1 3,1 1)))", SelfIntersections},
		{"POLYGON((0 0,4 0,4 4,0 4,0 0),(5 5,6 5,6 6,5 6,5 5))", InteriorOutside},
		{"POLYGON((0 0,10 0,10 10,0 10,0 0),(1 1,9 1,9 9,1 9,1 1),(2 2,8 2,8 8,2 8,2 2))", NestedHoles},
		{"POLYGON((0 0,4 0,4 4,0 4,0 0),(2 0,4 2,2 4,0 2,2 0))", DisconnectedInterior},
	}
	for _, tt := range tts {
		t.Run(tt.wkt, func(t *testing.T) {
			err := Validate(MustParseWKT(tt.wkt), DefaultOptions())
			if tt.kind == 0 {
				test.Error(t, err)
			} else {
				test.T(t, KindOf(err), tt.kind)
				test.That(t, errors.Is(err, tt.kind))
			}
		})
	}
}

func TestValidateCollection(t *testing.T) {
	c := MustParseWKT("GEOMETRYCOLLECTION(POLYGON((0 0,4 4,4 0,0 2,0 0)),LINESTRING(0 0,0 0))").(Collection)
	err := Validate(c, DefaultOptions())
	test.That(t, errors.Is(err, SelfIntersections))
	test.That(t, errors.Is(err, FewPoints))
}

func TestValidateOverlayResult(t *testing.T) {
	for _, tt := range overlayPairs {
		a, b := MustParseWKT(tt.a), MustParseWKT(tt.b)
		for _, op := range []OverlayOp{UnionOp, IntersectionOp, DifferenceOp} {
			c, err := Overlay(op, a, b, DefaultOptions())
			test.Error(t, err)
			test.Error(t, Validate(c.Polygons, DefaultOptions()), tt.name, op)
		}
	}
}
