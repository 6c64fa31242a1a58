package adapter

import (
	"github.com/cockroachdb/errors"
	"github.com/tdewolff/geometry"
	geom "github.com/twpayne/go-geom"
)

func fromCoords(cs []geom.Coord) []geometry.Point {
	if len(cs) == 0 {
		return nil
	}
	ps := make([]geometry.Point, len(cs))
	for i, c := range cs {
		ps[i] = geometry.Point{X: c.X(), Y: c.Y()}
	}
	return ps
}

func toCoords(ps []geometry.Point) []geom.Coord {
	cs := make([]geom.Coord, len(ps))
	for i, p := range ps {
		cs[i] = geom.Coord{p.X, p.Y}
	}
	return cs
}

func fromPolygonCoords(css [][]geom.Coord) geometry.Polygon {
	p := make(geometry.Polygon, len(css))
	for i, cs := range css {
		p[i] = geometry.Ring(fromCoords(cs))
	}
	return p
}

func toPolygonCoords(p geometry.Polygon) [][]geom.Coord {
	css := make([][]geom.Coord, len(p))
	for i, ring := range p {
		css[i] = toCoords(ring.Close())
	}
	return css
}

// FromGeom converts a go-geom geometry, only the X and Y coordinates are kept. Geometry collections become a Collection.
func FromGeom(g geom.T) (geometry.Geometry, error) {
	switch g := g.(type) {
	case *geom.Point:
		if g.Empty() {
			return geometry.MultiPoint(nil), nil
		}
		return geometry.Point{X: g.X(), Y: g.Y()}, nil
	case *geom.MultiPoint:
		return geometry.MultiPoint(fromCoords(g.Coords())), nil
	case *geom.LineString:
		return geometry.LineString(fromCoords(g.Coords())), nil
	case *geom.LinearRing:
		return geometry.Ring(fromCoords(g.Coords())), nil
	case *geom.MultiLineString:
		css := g.Coords()
		ml := make(geometry.MultiLineString, len(css))
		for i, cs := range css {
			ml[i] = geometry.LineString(fromCoords(cs))
		}
		return ml, nil
	case *geom.Polygon:
		return fromPolygonCoords(g.Coords()), nil
	case *geom.MultiPolygon:
		csss := g.Coords()
		mp := make(geometry.MultiPolygon, len(csss))
		for i, css := range csss {
			mp[i] = fromPolygonCoords(css)
		}
		return mp, nil
	case *geom.GeometryCollection:
		var c geometry.Collection
		for _, part := range g.Geoms() {
			h, err := FromGeom(part)
			if err != nil {
				return nil, err
			}
			switch h := h.(type) {
			case geometry.Point:
				c.Points = append(c.Points, h)
			case geometry.MultiPoint:
				c.Points = append(c.Points, h...)
			case geometry.LineString:
				c.Lines = append(c.Lines, h)
			case geometry.MultiLineString:
				c.Lines = append(c.Lines, h...)
			case geometry.Ring:
				c.Polygons = append(c.Polygons, geometry.Polygon{h})
			case geometry.Polygon:
				c.Polygons = append(c.Polygons, h)
			case geometry.MultiPolygon:
				c.Polygons = append(c.Polygons, h...)
			case geometry.Collection:
				c.Polygons = append(c.Polygons, h.Polygons...)
				c.Lines = append(c.Lines, h.Lines...)
				c.Points = append(c.Points, h.Points...)
			}
		}
		return c, nil
	}
	return nil, errors.Wrapf(geometry.NotImplemented, "go-geom geometry %T", g)
}

// ToGeom converts a geometry to go-geom with the XY layout. Boxes become polygons.
func ToGeom(g geometry.Geometry) (geom.T, error) {
	switch g := g.(type) {
	case geometry.Point:
		return geom.NewPoint(geom.XY).SetCoords(geom.Coord{g.X, g.Y})
	case geometry.MultiPoint:
		return geom.NewMultiPoint(geom.XY).SetCoords(toCoords(g))
	case geometry.LineString:
		return geom.NewLineString(geom.XY).SetCoords(toCoords(g))
	case geometry.Ring:
		return geom.NewPolygon(geom.XY).SetCoords(toPolygonCoords(geometry.Polygon{g}))
	case geometry.Box:
		return geom.NewPolygon(geom.XY).SetCoords(toPolygonCoords(geometry.Polygon{g.Ring()}))
	case geometry.MultiLineString:
		css := make([][]geom.Coord, len(g))
		for i, l := range g {
			css[i] = toCoords(l)
		}
		return geom.NewMultiLineString(geom.XY).SetCoords(css)
	case geometry.Polygon:
		return geom.NewPolygon(geom.XY).SetCoords(toPolygonCoords(g))
	case geometry.MultiPolygon:
		csss := make([][][]geom.Coord, len(g))
		for i, p := range g {
			csss[i] = toPolygonCoords(p)
		}
		return geom.NewMultiPolygon(geom.XY).SetCoords(csss)
	case geometry.Collection:
		c := geom.NewGeometryCollection()
		for _, part := range []geometry.Geometry{g.Polygons, g.Lines, g.Points} {
			if part.Empty() {
				continue
			}
			h, err := ToGeom(part)
			if err != nil {
				return nil, err
			} else if err := c.Push(h); err != nil {
				return nil, err
			}
		}
		return c, nil
	}
	return nil, errors.Wrapf(geometry.NotImplemented, "geometry %T", g)
}
