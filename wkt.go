package geometry

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/tdewolff/parse/v2"
	parseStrconv "github.com/tdewolff/parse/v2/strconv"
)

type wktParser struct {
	b []byte
	i int
}

func (p *wktParser) errorf(format string, args ...any) error {
	return errors.Wrapf(errors.Newf(format, args...), "wkt at position %d", p.i)
}

func (p *wktParser) skipWhitespace() {
	for p.i < len(p.b) && parse.IsWhitespace(p.b[p.i]) {
		p.i++
	}
}

func (p *wktParser) keyword() []byte {
	p.skipWhitespace()
	start := p.i
	for p.i < len(p.b) && ('A' <= p.b[p.i] && p.b[p.i] <= 'Z' || 'a' <= p.b[p.i] && p.b[p.i] <= 'z') {
		p.i++
	}
	return p.b[start:p.i]
}

func (p *wktParser) peek(c byte) bool {
	p.skipWhitespace()
	return p.i < len(p.b) && p.b[p.i] == c
}

func (p *wktParser) expect(c byte) error {
	if !p.peek(c) {
		return p.errorf("expected '%c'", c)
	}
	p.i++
	return nil
}

// empty consumes the EMPTY keyword if present.
func (p *wktParser) empty() bool {
	i := p.i
	if parse.EqualFold(p.keyword(), []byte("empty")) {
		return true
	}
	p.i = i
	return false
}

func (p *wktParser) num() (float64, error) {
	p.skipWhitespace()
	f, n := parseStrconv.ParseFloat(p.b[p.i:])
	if n == 0 {
		return 0.0, p.errorf("expected number")
	}
	p.i += n
	return f, nil
}

func (p *wktParser) point() (Point, error) {
	x, err := p.num()
	if err != nil {
		return Point{}, err
	}
	y, err := p.num()
	if err != nil {
		return Point{}, err
	}
	return Point{x, y}, nil
}

// list parses a parenthesized comma-separated list, or EMPTY.
func (p *wktParser) list(item func() error) error {
	if p.empty() {
		return nil
	} else if err := p.expect('('); err != nil {
		return err
	}
	for {
		if err := item(); err != nil {
			return err
		} else if !p.peek(',') {
			break
		}
		p.i++
	}
	return p.expect(')')
}

func (p *wktParser) points() ([]Point, error) {
	var ps []Point
	err := p.list(func() error {
		q, err := p.point()
		ps = append(ps, q)
		return err
	})
	return ps, err
}

func (p *wktParser) polygon() (Polygon, error) {
	var polygon Polygon
	err := p.list(func() error {
		ring, err := p.points()
		polygon = append(polygon, Ring(ring))
		return err
	})
	return polygon, err
}

// geometry parses a tagged geometry.
func (p *wktParser) geometry() (Geometry, error) {
	tag := parse.ToLower(parse.Copy(p.keyword()))
	switch string(tag) {
	case "point":
		if p.empty() {
			return MultiPoint(nil), nil
		}
		if err := p.expect('('); err != nil {
			return nil, err
		}
		q, err := p.point()
		if err != nil {
			return nil, err
		}
		return q, p.expect(')')
	case "linestring":
		ps, err := p.points()
		return LineString(ps), err
	case "polygon":
		return p.polygon()
	case "box":
		ps, err := p.points()
		if err != nil {
			return nil, err
		} else if len(ps) == 0 {
			return EmptyBox(), nil
		} else if len(ps) != 2 {
			return nil, p.errorf("box needs two corners")
		}
		return BoxOf(ps...), nil
	case "multipoint":
		var mp MultiPoint
		err := p.list(func() error {
			if p.peek('(') {
				// MULTIPOINT((1 2),(3 4))
				ps, err := p.points()
				mp = append(mp, ps...)
				return err
			}
			q, err := p.point()
			mp = append(mp, q)
			return err
		})
		return mp, err
	case "multilinestring":
		var ml MultiLineString
		err := p.list(func() error {
			ps, err := p.points()
			ml = append(ml, LineString(ps))
			return err
		})
		return ml, err
	case "multipolygon":
		var mp MultiPolygon
		err := p.list(func() error {
			polygon, err := p.polygon()
			mp = append(mp, polygon)
			return err
		})
		return mp, err
	case "geometrycollection":
		var c Collection
		err := p.list(func() error {
			g, err := p.geometry()
			if err != nil {
				return err
			}
			switch g := g.(type) {
			case Point:
				c.Points = append(c.Points, g)
			case MultiPoint:
				c.Points = append(c.Points, g...)
			case LineString:
				c.Lines = append(c.Lines, g)
			case MultiLineString:
				c.Lines = append(c.Lines, g...)
			case Polygon:
				c.Polygons = append(c.Polygons, g)
			case MultiPolygon:
				c.Polygons = append(c.Polygons, g...)
			case Box:
				c.Polygons = append(c.Polygons, Polygon{g.Ring()})
			case Collection:
				c.Polygons = append(c.Polygons, g.Polygons...)
				c.Lines = append(c.Lines, g.Lines...)
				c.Points = append(c.Points, g.Points...)
			}
			return nil
		})
		return c, err
	case "":
		return nil, p.errorf("expected geometry tag")
	}
	return nil, p.errorf("unknown geometry tag %q", tag)
}

// ParseWKT parses well-known text. Besides the standard tags for points, lines, polygons and their multi variants, it accepts BOX(x0 y0,x1 y1) for a box and GEOMETRYCOLLECTION, which is returned as a Collection. Coordinates must be two-dimensional.
func ParseWKT(s string) (Geometry, error) {
	p := &wktParser{b: []byte(s)}
	g, err := p.geometry()
	if err != nil {
		return nil, err
	}
	if p.skipWhitespace(); p.i < len(p.b) {
		return nil, p.errorf("unexpected %q", p.b[p.i:])
	}
	return g, nil
}

// MustParseWKT parses well-known text and panics on error.
func MustParseWKT(s string) Geometry {
	g, err := ParseWKT(s)
	if err != nil {
		panic(err)
	}
	return g
}

////////////////////////////////////////////////////////////////

func appendWKTPoints(b []byte, ps []Point) []byte {
	b = append(b, '(')
	for i, q := range ps {
		if i != 0 {
			b = append(b, ',')
		}
		b = strconv.AppendFloat(b, q.X, 'f', -1, 64)
		b = append(b, ' ')
		b = strconv.AppendFloat(b, q.Y, 'f', -1, 64)
	}
	return append(b, ')')
}

func appendWKTPolygon(b []byte, polygon Polygon) []byte {
	b = append(b, '(')
	for i, ring := range polygon {
		if i != 0 {
			b = append(b, ',')
		}
		b = appendWKTPoints(b, ring.Close())
	}
	return append(b, ')')
}

func appendWKT(b []byte, g Geometry) []byte {
	switch g := g.(type) {
	case Point:
		b = append(b, "POINT"...)
		return appendWKTPoints(b, []Point{g})
	case Box:
		if g.IsEmpty() {
			return append(b, "BOX EMPTY"...)
		}
		return appendWKTPoints(append(b, "BOX"...), []Point{g.Min, g.Max})
	case Ring:
		if len(g) == 0 {
			return append(b, "POLYGON EMPTY"...)
		}
		return appendWKTPolygon(append(b, "POLYGON"...), Polygon{g})
	case LineString:
		if len(g) == 0 {
			return append(b, "LINESTRING EMPTY"...)
		}
		return appendWKTPoints(append(b, "LINESTRING"...), g)
	case Polygon:
		if g.Empty() {
			return append(b, "POLYGON EMPTY"...)
		}
		return appendWKTPolygon(append(b, "POLYGON"...), g)
	case MultiPoint:
		if len(g) == 0 {
			return append(b, "MULTIPOINT EMPTY"...)
		}
		return appendWKTPoints(append(b, "MULTIPOINT"...), g)
	case MultiLineString:
		if len(g) == 0 {
			return append(b, "MULTILINESTRING EMPTY"...)
		}
		b = append(b, "MULTILINESTRING("...)
		for i, l := range g {
			if i != 0 {
				b = append(b, ',')
			}
			b = appendWKTPoints(b, l)
		}
		return append(b, ')')
	case MultiPolygon:
		if len(g) == 0 {
			return append(b, "MULTIPOLYGON EMPTY"...)
		}
		b = append(b, "MULTIPOLYGON("...)
		for i, polygon := range g {
			if i != 0 {
				b = append(b, ',')
			}
			b = appendWKTPolygon(b, polygon)
		}
		return append(b, ')')
	case Collection:
		if g.Empty() {
			return append(b, "GEOMETRYCOLLECTION EMPTY"...)
		} else if single := g.Geometry(); single.Kind() != CollectionKind {
			return appendWKT(b, single)
		}
		b = append(b, "GEOMETRYCOLLECTION("...)
		first := true
		for _, part := range []Geometry{g.Polygons, g.Lines, g.Points} {
			if part.Empty() {
				continue
			} else if !first {
				b = append(b, ',')
			}
			b = appendWKT(b, part)
			first = false
		}
		return append(b, ')')
	}
	return b
}

// WKT returns the well-known text representation of the geometry. Rings are written as polygons and are closed. Numbers use the shortest representation that parses back to the same value.
func WKT(g Geometry) string {
	return string(appendWKT(nil, g))
}
