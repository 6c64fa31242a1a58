package geometry

import (
	"math"
)

// Kind is the closed set of geometry types.
type Kind int

// see Kind
const (
	PointKind Kind = iota
	LineStringKind
	RingKind
	PolygonKind
	MultiPointKind
	MultiLineStringKind
	MultiPolygonKind
	BoxKind
	CollectionKind
)

func (k Kind) String() string {
	switch k {
	case PointKind:
		return "Point"
	case LineStringKind:
		return "LineString"
	case RingKind:
		return "Ring"
	case PolygonKind:
		return "Polygon"
	case MultiPointKind:
		return "MultiPoint"
	case MultiLineStringKind:
		return "MultiLineString"
	case MultiPolygonKind:
		return "MultiPolygon"
	case BoxKind:
		return "Box"
	case CollectionKind:
		return "Collection"
	}
	return "Invalid"
}

// Dimension returns the topological dimension of the kind: 0 for points, 1 for lines and 2 for areas. A collection returns -1.
func (k Kind) Dimension() int {
	switch k {
	case PointKind, MultiPointKind:
		return 0
	case LineStringKind, MultiLineStringKind:
		return 1
	case RingKind, PolygonKind, MultiPolygonKind, BoxKind:
		return 2
	}
	return -1
}

// Geometry is implemented by all geometry values.
type Geometry interface {
	Kind() Kind
	Bounds() Box
	Empty() bool
}

// Areal is the capability needed to use a geometry as an areal overlay operand. Rings are numbered over all polygons, IsOuter tells whether ring i starts a new polygon.
type Areal interface {
	Geometry
	NumRings() int
	RingAt(i int) Ring
	IsOuter(i int) bool
}

// Linear is the capability needed to use a geometry as a linear overlay operand.
type Linear interface {
	Geometry
	NumLines() int
	LineAt(i int) LineString
}

// RingWriter receives the points of an output ring.
type RingWriter interface {
	AppendPoint(Point)
}

////////////////////////////////////////////////////////////////

func (p Point) Kind() Kind     { return PointKind }
func (p Point) Bounds() Box    { return Box{p, p} }
func (p Point) Empty() bool    { return false }
func (b Box) Kind() Kind       { return BoxKind }
func (b Box) Bounds() Box      { return b }
func (b Box) Empty() bool      { return b.IsEmpty() }
func (b Box) NumRings() int    { return boolToInt(!b.IsEmpty()) }
func (b Box) RingAt(int) Ring  { return b.Ring() }
func (b Box) IsOuter(int) bool { return true }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

////////////////////////////////////////////////////////////////

// Ring is a sequence of points that is implicitly closed, the first point may be repeated at the end. Counter clockwise rings have a positive area.
type Ring []Point

func (r Ring) Kind() Kind           { return RingKind }
func (r Ring) Bounds() Box          { return BoxOf(r...) }
func (r Ring) Empty() bool          { return len(r) == 0 }
func (r Ring) NumRings() int        { return boolToInt(len(r) != 0) }
func (r Ring) RingAt(int) Ring      { return r }
func (r Ring) IsOuter(int) bool     { return true }
func (r *Ring) AppendPoint(p Point) { *r = append(*r, p) }

// Closed returns true if the last point equals the first.
func (r Ring) Closed() bool {
	return 1 < len(r) && r[0].Equals(r[len(r)-1])
}

// Close returns a copy of the ring with the first point repeated at the end.
func (r Ring) Close() Ring {
	q := make(Ring, len(r), len(r)+1)
	copy(q, r)
	if 0 < len(q) && !q.Closed() {
		q = append(q, q[0])
	}
	return q
}

// SignedArea returns the area using the shoelace formula, it is positive for counter clockwise rings.
func (r Ring) SignedArea() float64 {
	if len(r) < 3 {
		return 0.0
	}
	a := 0.0
	o := r[0] // offset improves precision for rings far from the origin
	for i := 1; i+1 < len(r); i++ {
		a += r[i].Sub(o).PerpDot(r[i+1].Sub(o))
	}
	return a / 2.0
}

// Area returns the absolute area.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// CCW returns true if the ring is counter clockwise.
func (r Ring) CCW() bool {
	return 0.0 < r.SignedArea()
}

// Length returns the perimeter including the closing segment.
func (r Ring) Length() float64 {
	if len(r) < 2 {
		return 0.0
	}
	return LineString(r.Close()).Length()
}

// Reverse returns a reversed copy.
func (r Ring) Reverse() Ring {
	q := make(Ring, len(r))
	for i, p := range r {
		q[len(r)-1-i] = p
	}
	return q
}

// Copy returns a copy.
func (r Ring) Copy() Ring {
	return append(Ring(nil), r...)
}

// Transform returns a transformed copy.
func (r Ring) Transform(m Matrix) Ring {
	q := make(Ring, len(r))
	for i, p := range r {
		q[i] = m.Dot(p)
	}
	return q
}

// distinct returns the number of distinct points, ignoring the closing point.
func (r Ring) distinct() int {
	n := 0
	for i, p := range r {
		j := 0
		for ; j < i; j++ {
			if r[j].Equals(p) {
				break
			}
		}
		if j == i {
			n++
		}
	}
	return n
}

// normalize returns a closed copy without consecutive duplicate points that is counter clockwise if ccw is true and clockwise otherwise.
func (r Ring) normalize(ccw bool) Ring {
	q := make(Ring, 0, len(r)+1)
	for _, p := range r {
		if len(q) == 0 || !q[len(q)-1].Equals(p) {
			q = append(q, p)
		}
	}
	if 1 < len(q) && q[0].Equals(q[len(q)-1]) {
		q = q[:len(q)-1]
	}
	if len(q) == 0 {
		return nil
	}
	q = append(q, q[0])
	if area := q.SignedArea(); area != 0.0 && (0.0 < area) != ccw {
		q = q.Reverse()
	}
	return q
}

////////////////////////////////////////////////////////////////

// LineString is an open sequence of points.
type LineString []Point

func (l LineString) Kind() Kind            { return LineStringKind }
func (l LineString) Bounds() Box           { return BoxOf(l...) }
func (l LineString) Empty() bool           { return len(l) == 0 }
func (l LineString) NumLines() int         { return boolToInt(len(l) != 0) }
func (l LineString) LineAt(int) LineString { return l }
func (l *LineString) AppendPoint(p Point)  { *l = append(*l, p) }

// Length returns the Euclidean length.
func (l LineString) Length() float64 {
	d := 0.0
	for i := 1; i < len(l); i++ {
		d += l[i].Sub(l[i-1]).Length()
	}
	return d
}

// Reverse returns a reversed copy.
func (l LineString) Reverse() LineString {
	return LineString(Ring(l).Reverse())
}

// Transform returns a transformed copy.
func (l LineString) Transform(m Matrix) LineString {
	return LineString(Ring(l).Transform(m))
}

////////////////////////////////////////////////////////////////

// Polygon is an outer ring followed by zero or more holes.
type Polygon []Ring

func (p Polygon) Kind() Kind         { return PolygonKind }
func (p Polygon) Empty() bool        { return len(p) == 0 || len(p[0]) == 0 }
func (p Polygon) NumRings() int      { return len(p) }
func (p Polygon) RingAt(i int) Ring  { return p[i] }
func (p Polygon) IsOuter(i int) bool { return i == 0 }

func (p Polygon) Bounds() Box {
	if len(p) == 0 {
		return EmptyBox()
	}
	return p[0].Bounds()
}

// Area returns the area of the outer ring minus the area of the holes.
func (p Polygon) Area() float64 {
	a := 0.0
	for i, r := range p {
		if i == 0 {
			a += r.Area()
		} else {
			a -= r.Area()
		}
	}
	return a
}

// Reverse returns a copy with each ring reversed.
func (p Polygon) Reverse() Polygon {
	q := make(Polygon, len(p))
	for i, r := range p {
		q[i] = r.Reverse()
	}
	return q
}

// Normalize returns a copy with a counter clockwise outer ring and clockwise holes, all rings closed.
func (p Polygon) Normalize() Polygon {
	q := make(Polygon, len(p))
	for i, r := range p {
		q[i] = r.normalize(i == 0)
	}
	return q
}

// Transform returns a transformed copy.
func (p Polygon) Transform(m Matrix) Polygon {
	q := make(Polygon, len(p))
	for i, r := range p {
		q[i] = r.Transform(m)
	}
	return q
}

////////////////////////////////////////////////////////////////

// MultiPoint is a set of points.
type MultiPoint []Point

func (mp MultiPoint) Kind() Kind  { return MultiPointKind }
func (mp MultiPoint) Bounds() Box { return BoxOf(mp...) }
func (mp MultiPoint) Empty() bool { return len(mp) == 0 }

// MultiLineString is a set of line strings.
type MultiLineString []LineString

func (ml MultiLineString) Kind() Kind              { return MultiLineStringKind }
func (ml MultiLineString) NumLines() int           { return len(ml) }
func (ml MultiLineString) LineAt(i int) LineString { return ml[i] }

func (ml MultiLineString) Bounds() Box {
	b := EmptyBox()
	for _, l := range ml {
		b = b.Extend(l.Bounds())
	}
	return b
}

func (ml MultiLineString) Empty() bool {
	for _, l := range ml {
		if !l.Empty() {
			return false
		}
	}
	return true
}

// Length returns the summed length.
func (ml MultiLineString) Length() float64 {
	d := 0.0
	for _, l := range ml {
		d += l.Length()
	}
	return d
}

// MultiPolygon is a set of polygons.
type MultiPolygon []Polygon

func (mp MultiPolygon) Kind() Kind { return MultiPolygonKind }

func (mp MultiPolygon) Bounds() Box {
	b := EmptyBox()
	for _, p := range mp {
		b = b.Extend(p.Bounds())
	}
	return b
}

func (mp MultiPolygon) Empty() bool {
	for _, p := range mp {
		if !p.Empty() {
			return false
		}
	}
	return true
}

func (mp MultiPolygon) NumRings() int {
	n := 0
	for _, p := range mp {
		n += len(p)
	}
	return n
}

func (mp MultiPolygon) RingAt(i int) Ring {
	for _, p := range mp {
		if i < len(p) {
			return p[i]
		}
		i -= len(p)
	}
	panic("ring index out of range")
}

func (mp MultiPolygon) IsOuter(i int) bool {
	for _, p := range mp {
		if i < len(p) {
			return i == 0
		}
		i -= len(p)
	}
	return false
}

// Area returns the summed area.
func (mp MultiPolygon) Area() float64 {
	a := 0.0
	for _, p := range mp {
		a += p.Area()
	}
	return a
}

// Reverse returns a copy with each ring reversed.
func (mp MultiPolygon) Reverse() MultiPolygon {
	q := make(MultiPolygon, len(mp))
	for i, p := range mp {
		q[i] = p.Reverse()
	}
	return q
}

// Normalize returns a copy with counter clockwise outer rings and clockwise holes.
func (mp MultiPolygon) Normalize() MultiPolygon {
	q := make(MultiPolygon, len(mp))
	for i, p := range mp {
		q[i] = p.Normalize()
	}
	return q
}

////////////////////////////////////////////////////////////////

// Collection is the result of an overlay, it holds the areal, linear and punctual parts separately.
type Collection struct {
	Polygons MultiPolygon
	Lines    MultiLineString
	Points   MultiPoint
}

func (c Collection) Kind() Kind { return CollectionKind }

func (c Collection) Bounds() Box {
	return c.Polygons.Bounds().Extend(c.Lines.Bounds()).Extend(c.Points.Bounds())
}

func (c Collection) Empty() bool {
	return c.Polygons.Empty() && c.Lines.Empty() && c.Points.Empty()
}

// Area returns the area of the polygons.
func (c Collection) Area() float64 {
	return c.Polygons.Area()
}

// Geometry returns the single non-empty part as its most specific type, ie. a Polygon if only one polygon is present. It returns the collection itself when it has mixed parts.
func (c Collection) Geometry() Geometry {
	hasPolygons, hasLines, hasPoints := !c.Polygons.Empty(), !c.Lines.Empty(), !c.Points.Empty()
	switch {
	case hasPolygons && !hasLines && !hasPoints:
		if len(c.Polygons) == 1 {
			return c.Polygons[0]
		}
		return c.Polygons
	case hasLines && !hasPolygons && !hasPoints:
		if len(c.Lines) == 1 {
			return c.Lines[0]
		}
		return c.Lines
	case hasPoints && !hasPolygons && !hasLines:
		if len(c.Points) == 1 {
			return c.Points[0]
		}
		return c.Points
	}
	return c
}

// WriteRings writes the outer rings of all polygons to newRing, holes are dropped.
func (c Collection) WriteRings(newRing func() RingWriter) {
	for _, p := range c.Polygons {
		if len(p) == 0 {
			continue
		}
		w := newRing()
		for _, q := range p[0] {
			w.AppendPoint(q)
		}
	}
}

////////////////////////////////////////////////////////////////

// Transform applies an affine transformation to any geometry. The result has the same kind, except for a box which becomes a polygon when rotated.
func Transform(g Geometry, m Matrix) Geometry {
	switch g := g.(type) {
	case Point:
		return m.Dot(g)
	case Box:
		if m[0][1] == 0.0 && m[1][0] == 0.0 {
			return BoxOf(m.Dot(g.Min), m.Dot(g.Max))
		}
		return Polygon{g.Ring().Transform(m)}
	case Ring:
		return g.Transform(m)
	case LineString:
		return g.Transform(m)
	case Polygon:
		return g.Transform(m)
	case MultiPoint:
		return MultiPoint(Ring(g).Transform(m))
	case MultiLineString:
		q := make(MultiLineString, len(g))
		for i, l := range g {
			q[i] = l.Transform(m)
		}
		return q
	case MultiPolygon:
		q := make(MultiPolygon, len(g))
		for i, p := range g {
			q[i] = p.Transform(m)
		}
		return q
	case Collection:
		return Collection{
			Polygons: Transform(g.Polygons, m).(MultiPolygon),
			Lines:    Transform(g.Lines, m).(MultiLineString),
			Points:   Transform(g.Points, m).(MultiPoint),
		}
	}
	return g
}
