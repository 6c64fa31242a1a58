// Package adapter converts geometries between this module and the github.com/paulmach/orb and github.com/twpayne/go-geom geometry models.
package adapter

import (
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/tdewolff/geometry"
)

func fromOrbPoints(ps []orb.Point) []geometry.Point {
	if ps == nil {
		return nil
	}
	q := make([]geometry.Point, len(ps))
	for i, p := range ps {
		q[i] = geometry.Point{X: p[0], Y: p[1]}
	}
	return q
}

func toOrbPoints(ps []geometry.Point) []orb.Point {
	if ps == nil {
		return nil
	}
	q := make([]orb.Point, len(ps))
	for i, p := range ps {
		q[i] = orb.Point{p.X, p.Y}
	}
	return q
}

func fromOrbPolygon(p orb.Polygon) geometry.Polygon {
	q := make(geometry.Polygon, len(p))
	for i, ring := range p {
		q[i] = geometry.Ring(fromOrbPoints(ring))
	}
	return q
}

func toOrbPolygon(p geometry.Polygon) orb.Polygon {
	q := make(orb.Polygon, len(p))
	for i, ring := range p {
		q[i] = orb.Ring(toOrbPoints(ring.Close()))
	}
	return q
}

// FromOrb converts an orb geometry. Bounds become boxes and collections become a Collection.
func FromOrb(g orb.Geometry) (geometry.Geometry, error) {
	switch g := g.(type) {
	case orb.Point:
		return geometry.Point{X: g[0], Y: g[1]}, nil
	case orb.MultiPoint:
		return geometry.MultiPoint(fromOrbPoints(g)), nil
	case orb.LineString:
		return geometry.LineString(fromOrbPoints(g)), nil
	case orb.MultiLineString:
		ml := make(geometry.MultiLineString, len(g))
		for i, l := range g {
			ml[i] = geometry.LineString(fromOrbPoints(l))
		}
		return ml, nil
	case orb.Ring:
		return geometry.Ring(fromOrbPoints(g)), nil
	case orb.Polygon:
		return fromOrbPolygon(g), nil
	case orb.MultiPolygon:
		mp := make(geometry.MultiPolygon, len(g))
		for i, p := range g {
			mp[i] = fromOrbPolygon(p)
		}
		return mp, nil
	case orb.Bound:
		return geometry.BoxOf(geometry.Point{X: g.Min[0], Y: g.Min[1]}, geometry.Point{X: g.Max[0], Y: g.Max[1]}), nil
	case orb.Collection:
		var c geometry.Collection
		for _, part := range g {
			h, err := FromOrb(part)
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
			case geometry.Box:
				c.Polygons = append(c.Polygons, geometry.Polygon{h.Ring()})
			case geometry.Collection:
				c.Polygons = append(c.Polygons, h.Polygons...)
				c.Lines = append(c.Lines, h.Lines...)
				c.Points = append(c.Points, h.Points...)
			}
		}
		return c, nil
	}
	return nil, errors.Wrapf(geometry.NotImplemented, "orb geometry %T", g)
}

// ToOrb converts a geometry to orb. Rings are closed as orb expects, boxes become bounds and a Collection becomes a collection of its non-empty parts.
func ToOrb(g geometry.Geometry) orb.Geometry {
	switch g := g.(type) {
	case geometry.Point:
		return orb.Point{g.X, g.Y}
	case geometry.MultiPoint:
		return orb.MultiPoint(toOrbPoints(g))
	case geometry.LineString:
		return orb.LineString(toOrbPoints(g))
	case geometry.MultiLineString:
		ml := make(orb.MultiLineString, len(g))
		for i, l := range g {
			ml[i] = orb.LineString(toOrbPoints(l))
		}
		return ml
	case geometry.Ring:
		return orb.Ring(toOrbPoints(g.Close()))
	case geometry.Polygon:
		return toOrbPolygon(g)
	case geometry.MultiPolygon:
		mp := make(orb.MultiPolygon, len(g))
		for i, p := range g {
			mp[i] = toOrbPolygon(p)
		}
		return mp
	case geometry.Box:
		return orb.Bound{Min: orb.Point{g.Min.X, g.Min.Y}, Max: orb.Point{g.Max.X, g.Max.Y}}
	case geometry.Collection:
		var c orb.Collection
		for _, part := range []geometry.Geometry{g.Polygons, g.Lines, g.Points} {
			if !part.Empty() {
				c = append(c, ToOrb(part))
			}
		}
		return c
	}
	return nil
}
