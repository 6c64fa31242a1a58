package geometry

import (
	"fmt"
	"math"
	"testing"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
	"github.com/tdewolff/test"
)

var crossingA, crossingB = Box{Point{0.0, 0.0}, Point{2.0, 2.0}}, Box{Point{1.0, 1.0}, Point{3.0, 3.0}}

func TestOverlay(t *testing.T) {
	var tts = []struct {
		op       OverlayOp
		a, b     Geometry
		expected string
	}{
		// crossing
		{UnionOp, crossingA, crossingB, "POLYGON((0 0,2 0,2 1,3 1,3 3,1 3,1 2,0 2,0 0))"},
		{IntersectionOp, crossingA, crossingB, "POLYGON((1 1,2 1,2 2,1 2,1 1))"},
		{DifferenceOp, crossingA, crossingB, "POLYGON((0 0,2 0,2 1,1 1,1 2,0 2,0 0))"},
		{DifferenceOp, crossingB, crossingA, "POLYGON((1 2,2 2,2 1,3 1,3 3,1 3,1 2))"},

		// disjoint
		{UnionOp, MustParseWKT("POLYGON((0 1,2 5,5 3,0 1))"), MustParseWKT("POLYGON((1 1,5 2,5 0,1 1))"), "MULTIPOLYGON(((0 1,5 3,2 5,0 1)),((1 1,5 0,5 2,1 1)))"},
		{IntersectionOp, MustParseWKT("POLYGON((0 1,2 5,5 3,0 1))"), MustParseWKT("POLYGON((1 1,5 2,5 0,1 1))"), "GEOMETRYCOLLECTION EMPTY"},
		{DifferenceOp, MustParseWKT("POLYGON((0 1,2 5,5 3,0 1))"), MustParseWKT("POLYGON((1 1,5 2,5 0,1 1))"), "POLYGON((0 1,5 3,2 5,0 1))"},

		// containment
		{UnionOp, Box{Point{0.0, 0.0}, Point{4.0, 4.0}}, Box{Point{1.0, 1.0}, Point{3.0, 3.0}}, "POLYGON((0 0,4 0,4 4,0 4,0 0))"},
		{IntersectionOp, Box{Point{0.0, 0.0}, Point{4.0, 4.0}}, Box{Point{1.0, 1.0}, Point{3.0, 3.0}}, "POLYGON((1 1,3 1,3 3,1 3,1 1))"},
		{DifferenceOp, Box{Point{0.0, 0.0}, Point{4.0, 4.0}}, Box{Point{1.0, 1.0}, Point{3.0, 3.0}}, "POLYGON((0 0,4 0,4 4,0 4,0 0),(1 1,1 3,3 3,3 1,1 1))"},
		{DifferenceOp, Box{Point{1.0, 1.0}, Point{3.0, 3.0}}, Box{Point{0.0, 0.0}, Point{4.0, 4.0}}, "GEOMETRYCOLLECTION EMPTY"},

		// identical
		{UnionOp, crossingA, crossingA.Ring(), "POLYGON((0 0,2 0,2 2,0 2,0 0))"},
		{IntersectionOp, crossingA, crossingA.Ring(), "POLYGON((0 0,2 0,2 2,0 2,0 0))"},
		{DifferenceOp, crossingA, crossingA.Ring(), "GEOMETRYCOLLECTION EMPTY"},

		// ring with vertices and edges on the box
		{IntersectionOp, MustParseWKT("POLYGON((0 0,0 7,4 2,2 0,0 0))"), MustParseWKT("BOX(0 0,2 2)"), "POLYGON((0 0,2 0,2 2,0 2,0 0))"},
		{IntersectionOp, MustParseWKT("POLYGON((0 0,0 7,4 2,2 0,0 0))"), MustParseWKT("BOX(2 0,4 2)"), "POLYGON((2 0,4 2,2 2,2 0))"},

		// clockwise input
		{IntersectionOp, Ring{{0.0, 0.0}, {0.0, 2.0}, {2.0, 2.0}, {2.0, 0.0}}, crossingB, "POLYGON((1 1,2 1,2 2,1 2,1 1))"},
	}
	for _, tt := range tts {
		t.Run(fmt.Sprintf("%v(%v,%v)", tt.op, WKT(tt.a), WKT(tt.b)), func(t *testing.T) {
			c, err := Overlay(tt.op, tt.a, tt.b, DefaultOptions())
			test.Error(t, err)
			test.String(t, WKT(c), tt.expected)
		})
	}
}

func TestOverlayGolden(t *testing.T) {
	ring := MustParseWKT("POLYGON((0 0,0 7,4 2,2 0,0 0))")

	c, err := Intersection(ring, MustParseWKT("BOX(0 0,2 2)"))
	test.Error(t, err)
	test.Float(t, c.Area(), 4.0)

	c, err = Intersection(ring, MustParseWKT("BOX(2 0,4 2)"))
	test.Error(t, err)
	test.Float(t, c.Area(), 2.0)

	c, err = Union(MustParseWKT("POLYGON((0 1,2 5,5 3,0 1))"), MustParseWKT("POLYGON((1 1,5 2,5 0,1 1))"))
	test.Error(t, err)
	test.T(t, len(c.Polygons), 2)
	test.Float(t, c.Area(), 8.0+4.0)
}

func TestOverlayOrientation(t *testing.T) {
	c, err := Difference(Box{Point{0.0, 0.0}, Point{4.0, 4.0}}, Box{Point{1.0, 1.0}, Point{3.0, 3.0}})
	test.Error(t, err)
	test.T(t, len(c.Polygons), 1)
	test.T(t, len(c.Polygons[0]), 2)
	test.That(t, c.Polygons[0][0].CCW(), "outer ring must be counter clockwise")
	test.That(t, !c.Polygons[0][1].CCW(), "hole must be clockwise")
	for _, ring := range c.Polygons[0] {
		test.That(t, ring.Closed(), "rings must be closed")
	}
}

func TestOverlayInputUnchanged(t *testing.T) {
	a := MustParseWKT("POLYGON((0 0,2 0,2 2,0 2,0 0))").(Polygon)
	b := MustParseWKT("POLYGON((1 1,1 3,3 3,3 1,1 1))").(Polygon)
	wktA, wktB := WKT(a), WKT(b)
	for _, op := range []OverlayOp{UnionOp, IntersectionOp, DifferenceOp} {
		_, err := Overlay(op, a, b, DefaultOptions())
		test.Error(t, err)
		test.String(t, WKT(a), wktA)
		test.String(t, WKT(b), wktB)
	}
}

func TestOverlayErrors(t *testing.T) {
	square := Box{Point{0.0, 0.0}, Point{1.0, 1.0}}
	var tts = []struct {
		a, b Geometry
		kind ErrorKind
	}{
		{MultiPolygon(nil), square, EmptyInput},
		{square, Polygon{}, EmptyInput},
		{Ring{{0.0, 0.0}, {1.0, 1.0}, {0.0, 0.0}}, square, FewPoints},
		{square, Ring{{0.0, 0.0}, {1.0, 1.0}, {2.0, 2.0}}, WrongDimension},
		{BoxOf(Point{0.0, 0.0}, Point{1.0, 0.0}), square, WrongDimension},
		{LineString{{1.0, 1.0}, {1.0, 1.0}}, square, FewPoints},
		{Point{0.5, 0.5}, square, NotImplemented},
	}
	for _, tt := range tts {
		t.Run(fmt.Sprintf("%v", tt.kind), func(t *testing.T) {
			c, err := Union(tt.a, tt.b)
			test.T(t, KindOf(err), tt.kind)
			test.That(t, errors.Is(err, tt.kind))
			test.That(t, c.Empty())
		})
	}
}

func TestOverlayNoThrow(t *testing.T) {
	opts := DefaultOptions()
	opts.NoThrow = true
	c, err := Overlay(UnionOp, MultiPolygon(nil), crossingA, opts)
	test.Error(t, err)
	test.That(t, c.Empty())
}

func TestOverlayPartial(t *testing.T) {
	// the nested hole cannot be closed, the other ring is still returned
	a := MustParseWKT("POLYGON((0 0,10 0,10 10,0 10,0 0),(2 2,8 2,8 8,2 8,2 2),(3 3,7 3,7 7,3 7,3 3))")
	b := MustParseWKT("BOX(5 -1,12 12)")
	c, err := Intersection(a, b)
	test.That(t, errors.Is(err, SelfIntersections), err)
	test.T(t, len(c.Polygons), 1)
	test.Float(t, c.Area(), 32.0)

	opts := DefaultOptions()
	opts.NoThrow = true
	c, err = Overlay(IntersectionOp, a, b, opts)
	test.Error(t, err)
	test.T(t, len(c.Polygons), 1)
	test.Float(t, c.Area(), 32.0)
}

func TestOverlayTouchingHole(t *testing.T) {
	a := MustParseWKT("POLYGON((2 0,1 1,0 2,-2 2,-2 0,-2 -2,-0 -2,1 -1,2 0))")
	b := MustParseWKT("POLYGON((5 2,4 3,4 4,3 6,2 3,-0 4,0 2,1 2,1 0,3 1,4 0,5 1,5 2))")
	test.Error(t, Validate(a, DefaultOptions()))
	test.Error(t, Validate(b, DefaultOptions()))

	c, err := Union(a, b)
	test.Error(t, err)
	test.T(t, len(c.Polygons), 1)
	test.T(t, len(c.Polygons[0]), 2)
	test.T(t, c.Polygons[0][1], Ring{{0.0, 2.0}, {1.0, 2.0}, {1.0, 1.0}, {0.0, 2.0}})
	test.Error(t, Validate(c.Polygons, DefaultOptions()))

	ab, err := Intersection(a, b)
	test.Error(t, err)
	test.FloatDiff(t, c.Area(), a.(Polygon).Area()+b.(Polygon).Area()-ab.Area(), 1e-9)
}

func TestOverlayDuality(t *testing.T) {
	s := CartesianStrategy{}
	for _, tt := range overlayPairs {
		t.Run(tt.name, func(t *testing.T) {
			a, b := MustParseWKT(tt.a).(Polygon), MustParseWKT(tt.b).(Polygon)
			c, err := Difference(a, b)
			test.Error(t, err)

			// intersection with the complement of b
			ts, err := detectTurns(s, arealOperand(0, a, false), arealOperand(1, b, true), DefaultOptions().indexOptions())
			test.Error(t, err)
			mp, err := buildGraph(s, ts).assemble(IntersectionOp)
			test.Error(t, err)
			test.String(t, WKT(mp), WKT(c.Polygons))

			// difference removes exactly the intersection
			ab, err := Intersection(a, b)
			test.Error(t, err)
			test.FloatDiff(t, c.Area(), a.Area()-ab.Area(), 1e-9)
		})
	}
}

func TestOverlayRegistry(t *testing.T) {
	opts := DefaultOptions()
	opts.Registry = NewRegistry()
	_, err := Overlay(UnionOp, crossingA, crossingB, opts)
	test.T(t, KindOf(err), NotImplemented)

	opts.Registry.Register(Cartesian, CartesianStrategy{})
	c, err := Overlay(IntersectionOp, crossingA, crossingB, opts)
	test.Error(t, err)
	test.Float(t, c.Area(), 1.0)
}

func TestOverlaySpherical(t *testing.T) {
	opts := DefaultOptions()
	opts.CoordinateSystem = Spherical
	c, err := Overlay(IntersectionOp, crossingA, crossingB, opts)
	test.Error(t, err)
	test.T(t, len(c.Polygons), 1)
	test.FloatDiff(t, c.Area(), 1.0, 0.01)

	c, err = Overlay(UnionOp, crossingA, crossingB, opts)
	test.Error(t, err)
	test.FloatDiff(t, c.Area(), 7.0, 0.01)
}

func TestOverlayIndexOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.IndexOptions.MinEntries = 1
	opts.IndexOptions.MaxEntries = 2
	c, err := Overlay(UnionOp, crossingA, crossingB, opts)
	test.Error(t, err)
	test.Float(t, c.Area(), 7.0)

	opts.IndexOptions.MinEntries = 5
	_, err = Overlay(UnionOp, crossingA, crossingB, opts)
	test.That(t, err != nil)
}

////////////////////////////////////////////////////////////////

func toPolyclip(p Polygon) polyclip.Polygon {
	var q polyclip.Polygon
	for _, ring := range p {
		var c polyclip.Contour
		for _, pt := range ring[:len(ring)-1] {
			c = append(c, polyclip.Point{X: pt.X, Y: pt.Y})
		}
		q = append(q, c)
	}
	return q
}

// polyclipArea returns the area of a result without holes.
func polyclipArea(p polyclip.Polygon) float64 {
	a := 0.0
	for _, c := range p {
		var ring Ring
		for _, pt := range c {
			ring = append(ring, Point{pt.X, pt.Y})
		}
		a += ring.Close().Area()
	}
	return a
}

func toOrbPolygon(p Polygon) orb.Polygon {
	var q orb.Polygon
	for _, ring := range p {
		var r orb.Ring
		for _, pt := range ring.Close() {
			r = append(r, orb.Point{pt.X, pt.Y})
		}
		q = append(q, r)
	}
	return q
}

var overlayPairs = []struct {
	name string
	a, b string
}{
	{"squares", "POLYGON((0 0,2 0,2 2,0 2,0 0))", "POLYGON((1 1,3 1,3 3,1 3,1 1))"},
	{"star", "POLYGON((0 0,6 0,3 6,0 0))", "POLYGON((0 4,6 4,3 -2,0 4))"},
	{"quads", "POLYGON((2 3,14 7,13 12,0 6,2 3))", "POLYGON((4 0,8 0,12 16,9 16,4 0))"},
	{"bar", "POLYGON((0 0,10 0,10 1,0 1,0 0))", "POLYGON((4 -3,6 -3,6 4,4 4,4 -3))"},
}

func TestOverlayPolyclip(t *testing.T) {
	ops := []struct {
		op   OverlayOp
		clip polyclip.Op
	}{
		{UnionOp, polyclip.UNION},
		{IntersectionOp, polyclip.INTERSECTION},
		{DifferenceOp, polyclip.DIFFERENCE},
	}
	for _, tt := range overlayPairs {
		a, b := MustParseWKT(tt.a).(Polygon), MustParseWKT(tt.b).(Polygon)
		for _, op := range ops {
			t.Run(fmt.Sprintf("%s_%v", tt.name, op.op), func(t *testing.T) {
				c, err := Overlay(op.op, a, b, DefaultOptions())
				test.Error(t, err)
				expected := polyclipArea(toPolyclip(a).Construct(op.clip, toPolyclip(b)))
				test.FloatDiff(t, c.Area(), expected, 1e-9)
			})
		}
	}
}

func TestOverlayAreaIdentities(t *testing.T) {
	for _, tt := range overlayPairs {
		t.Run(tt.name, func(t *testing.T) {
			a, b := MustParseWKT(tt.a).(Polygon), MustParseWKT(tt.b).(Polygon)
			union, err := Union(a, b)
			test.Error(t, err)
			intersection, err := Intersection(a, b)
			test.Error(t, err)
			difference, err := Difference(a, b)
			test.Error(t, err)

			test.FloatDiff(t, union.Area()+intersection.Area(), a.Area()+b.Area(), 1e-9)
			test.FloatDiff(t, difference.Area()+intersection.Area(), a.Area(), 1e-9)

			// commutativity
			union2, err := Union(b, a)
			test.Error(t, err)
			test.FloatDiff(t, union2.Area(), union.Area(), 1e-9)
			intersection2, err := Intersection(b, a)
			test.Error(t, err)
			test.FloatDiff(t, intersection2.Area(), intersection.Area(), 1e-9)
		})
	}
}

func TestOverlayClipBox(t *testing.T) {
	boxes := []Box{
		{Point{1.0, 0.5}, Point{4.0, 3.5}},
		{Point{-1.0, 1.5}, Point{2.5, 4.5}},
		{Point{2.5, -1.0}, Point{3.5, 7.0}},
	}
	for _, tt := range overlayPairs {
		a := MustParseWKT(tt.a).(Polygon)
		for _, box := range boxes {
			t.Run(fmt.Sprintf("%s_%v", tt.name, box), func(t *testing.T) {
				c, err := Intersection(a, box)
				test.Error(t, err)
				bound := orb.Bound{Min: orb.Point{box.Min.X, box.Min.Y}, Max: orb.Point{box.Max.X, box.Max.Y}}
				expected := planar.Area(clip.Polygon(bound, toOrbPolygon(a)))
				test.FloatDiff(t, c.Area(), math.Abs(expected), 1e-9)
			})
		}
	}
}

////////////////////////////////////////////////////////////////

func TestOverlayLineArea(t *testing.T) {
	line := MustParseWKT("LINESTRING(-1 1,5 1)")
	square := MustParseWKT("BOX(0 0,4 4)")

	c, err := Intersection(line, square)
	test.Error(t, err)
	test.String(t, WKT(c), "LINESTRING(0 1,4 1)")

	c, err = Intersection(square, line)
	test.Error(t, err)
	test.String(t, WKT(c), "LINESTRING(0 1,4 1)")

	c, err = Difference(line, square)
	test.Error(t, err)
	test.String(t, WKT(c), "MULTILINESTRING((-1 1,0 1),(4 1,5 1))")

	c, err = Difference(square, line)
	test.Error(t, err)
	test.String(t, WKT(c), "POLYGON((0 0,4 0,4 4,0 4,0 0))")

	c, err = Union(line, square)
	test.Error(t, err)
	test.String(t, WKT(c.Polygons), "MULTIPOLYGON(((0 0,4 0,4 4,0 4,0 0)))")
	test.String(t, WKT(c.Lines), "MULTILINESTRING((-1 1,0 1),(4 1,5 1))")
}

func TestOverlayLineBoundary(t *testing.T) {
	// pieces along the boundary count as inside
	c, err := Intersection(MustParseWKT("LINESTRING(-2 0,2 0)"), MustParseWKT("BOX(0 0,4 4)"))
	test.Error(t, err)
	test.String(t, WKT(c), "LINESTRING(0 0,2 0)")
}

func TestOverlayLines(t *testing.T) {
	var tts = []struct {
		op       OverlayOp
		a, b     string
		expected string
	}{
		{IntersectionOp, "LINESTRING(0 0,4 4)", "LINESTRING(0 4,4 0)", "POINT(2 2)"},
		{DifferenceOp, "LINESTRING(0 0,4 4)", "LINESTRING(0 4,4 0)", "LINESTRING(0 0,2 2,4 4)"},
		{IntersectionOp, "LINESTRING(0 0,4 0)", "LINESTRING(2 0,6 0)", "LINESTRING(2 0,4 0)"},
		{DifferenceOp, "LINESTRING(0 0,4 0)", "LINESTRING(2 0,6 0)", "LINESTRING(0 0,2 0)"},
		{UnionOp, "LINESTRING(0 0,4 0)", "LINESTRING(2 0,6 0)", "MULTILINESTRING((0 0,4 0),(4 0,6 0))"},
		{IntersectionOp, "LINESTRING(0 0,1 0)", "LINESTRING(0 1,1 1)", "GEOMETRYCOLLECTION EMPTY"},
	}
	for _, tt := range tts {
		t.Run(fmt.Sprintf("%v(%v,%v)", tt.op, tt.a, tt.b), func(t *testing.T) {
			c, err := Overlay(tt.op, MustParseWKT(tt.a), MustParseWKT(tt.b), DefaultOptions())
			test.Error(t, err)
			test.String(t, WKT(c), tt.expected)
		})
	}
}

////////////////////////////////////////////////////////////////

func TestTurns(t *testing.T) {
	turns, err := Turns(crossingA, crossingB, DefaultOptions())
	test.Error(t, err)
	test.T(t, len(turns), 2)

	test.T(t, turns[0].Point, Point{2.0, 1.0})
	test.T(t, turns[0].Method, MethodCross)
	test.T(t, turns[0].Operations[0].SegmentID, SegmentID{0, 0, 1})
	test.T(t, turns[0].Operations[1].SegmentID, SegmentID{1, 0, 0})
	test.Float(t, turns[0].Operations[0].Fraction, 0.5)
	test.Float(t, turns[0].Operations[1].Fraction, 0.5)
	test.T(t, turns[0].Operations[0].Operation, OperationIntersection)
	test.T(t, turns[0].Operations[0].CountLeft, 2)
	test.T(t, turns[0].Operations[0].CountRight, 1)
	test.T(t, turns[0].Operations[0].Next, 1)
	test.T(t, turns[0].Operations[1].Operation, OperationUnion)
	test.T(t, turns[0].Operations[1].CountLeft, 1)
	test.T(t, turns[0].Operations[1].CountRight, 0)

	test.T(t, turns[1].Point, Point{1.0, 2.0})
	test.T(t, turns[1].Operations[0].Operation, OperationUnion)
	test.T(t, turns[1].Operations[0].Next, 0)
	test.T(t, turns[1].Operations[1].Operation, OperationIntersection)
}

func TestTurnsCollinear(t *testing.T) {
	turns, err := Turns(crossingA, crossingA.Ring(), DefaultOptions())
	test.Error(t, err)
	test.That(t, 0 < len(turns))
	for _, turn := range turns {
		test.That(t, turn.Method == MethodCollinear || turn.Method == MethodTouch, turn)
		test.T(t, turn.Operations[0].Operation, OperationContinue, turn)
		test.T(t, turn.Operations[1].Operation, OperationBlocked, turn)
	}
}

func TestTurnsLines(t *testing.T) {
	turns, err := Turns(MustParseWKT("LINESTRING(0 0,4 4)"), MustParseWKT("LINESTRING(0 4,4 0)"), DefaultOptions())
	test.Error(t, err)
	test.T(t, len(turns), 1)
	test.T(t, turns[0].Point, Point{2.0, 2.0})
	test.T(t, turns[0].Method, MethodCross)
	test.T(t, turns[0].Operations[0].Operation, OperationNone)
	test.T(t, turns[0].Operations[0].Next, -1)
}

func TestSelfTurns(t *testing.T) {
	turns, err := SelfTurns(crossingA, DefaultOptions())
	test.Error(t, err)
	test.T(t, len(turns), 0)

	turns, err = SelfTurns(MustParseWKT("POLYGON((0 0,4 4,4 0,0 2,0 0))"), DefaultOptions())
	test.Error(t, err)
	test.T(t, len(turns), 1)
	test.T(t, turns[0].Method, MethodCross)
	test.T(t, turns[0].Point, Point{4.0 / 3.0, 4.0 / 3.0})
}

func TestCovers(t *testing.T) {
	s := CartesianStrategy{}
	for _, tt := range overlayPairs {
		t.Run(tt.name, func(t *testing.T) {
			for _, complement := range []bool{false, true} {
				scanned := arealOperand(0, MustParseWKT(tt.a).(Polygon), complement)
				indexed := arealOperand(0, MustParseWKT(tt.a).(Polygon), complement)
				_, err := indexed.segmentIndex(DefaultOptions().indexOptions())
				test.Error(t, err)
				test.That(t, scanned.index == nil)

				for x := -1.0; x <= 7.0; x += 0.25 {
					for y := -3.0; y <= 7.0; y += 0.25 {
						p := Point{x, y}
						test.T(t, covers(s, indexed, p), covers(s, scanned, p), p)
					}
				}
			}
		})
	}
	test.That(t, covers(s, arealOperand(0, crossingA, false), Point{1.0, 1.0}))
	test.That(t, !covers(s, arealOperand(0, crossingA, true), Point{1.0, 1.0}))
}

func TestOverlayOpParse(t *testing.T) {
	for _, op := range []OverlayOp{UnionOp, IntersectionOp, DifferenceOp} {
		parsed, err := ParseOverlayOp(op.String())
		test.Error(t, err)
		test.T(t, parsed, op)
	}
	_, err := ParseOverlayOp("xor")
	test.T(t, KindOf(err), NotImplemented)
}
