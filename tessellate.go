package geometry

import (
	"github.com/ByteArena/poly2tri-go"
	"github.com/cockroachdb/errors"
)

func contour(ring Ring, ccw bool) []*poly2tri.Point {
	ring = ring.normalize(ccw)
	if len(ring) == 0 {
		return nil
	}
	ps := make([]*poly2tri.Point, 0, len(ring)-1)
	for _, p := range ring[:len(ring)-1] {
		ps = append(ps, poly2tri.NewPoint(p.X, p.Y))
	}
	return ps
}

// Tessellate returns a constrained Delaunay triangulation of the polygons. Polygons must be valid, ie. the result of an overlay, a triangulation failure of an invalid polygon is returned as an error.
func Tessellate(mp MultiPolygon) (triangles [][3]Point, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("tessellate: %v", r)
		}
	}()

	for _, polygon := range mp {
		if polygon.Empty() {
			continue
		}
		swctx := poly2tri.NewSweepContext(contour(polygon[0], true), false)
		for _, hole := range polygon[1:] {
			swctx.AddHole(contour(hole, false))
		}
		swctx.Triangulate()

		for _, tr := range swctx.GetTriangles() {
			p0 := Point{tr.Points[0].X, tr.Points[0].Y}
			p1 := Point{tr.Points[1].X, tr.Points[1].Y}
			p2 := Point{tr.Points[2].X, tr.Points[2].Y}
			triangles = append(triangles, [3]Point{p0, p1, p2})
		}
	}
	return triangles, nil
}
