package geometry

import (
	"math"
	"sort"
)

// selects returns true if the fragment bounds the result of op. Difference is an intersection with the complement of the second operand.
func (f *fragment) selects(op OverlayOp) bool {
	if op == UnionOp {
		return f.op == OperationUnion || f.op == OperationContinue
	}
	return f.op == OperationIntersection || f.op == OperationContinue
}

// incoming returns the direction in which the fragment arrives at its end node.
func (f *fragment) incoming() Point {
	for i := len(f.points) - 1; 0 < i; i-- {
		if d := f.points[i].Sub(f.points[i-1]); !d.IsZero() {
			return d
		}
	}
	return Point{}
}

// outgoing returns the direction in which the fragment leaves its start node.
func (f *fragment) outgoing() Point {
	for i := 1; i < len(f.points); i++ {
		if d := f.points[i].Sub(f.points[i-1]); !d.IsZero() {
			return d
		}
	}
	return Point{}
}

// clockwiseAngle returns the angle in (0,2π] to rotate from direction a to direction b in clockwise direction.
func clockwiseAngle(a, b Point) float64 {
	theta := a.Angle() - b.Angle()
	for theta <= 0.0 {
		theta += 2.0 * math.Pi
	}
	for 2.0*math.Pi < theta {
		theta -= 2.0 * math.Pi
	}
	return theta
}

// next chooses among the unused candidates leaving the end node of cur the one making the sharpest left turn.
func (g *graph) next(cur *fragment, candidates []*fragment) *fragment {
	back := cur.incoming().Neg()
	var best *fragment
	bestAngle := math.Inf(1)
	for _, c := range candidates {
		if c.used {
			continue
		}
		if angle := clockwiseAngle(back, c.outgoing()); angle < bestAngle {
			best, bestAngle = c, angle
		}
	}
	return best
}

// walk follows fragments starting at f until it returns to the start node of f. At most budget fragments are followed. A walk passing a node more than once is split into one ring per loop, so that a ring touching itself at a node becomes a hole or a separate outer ring.
func (g *graph) walk(f *fragment, outgoing map[int][]*fragment, budget int) ([]Ring, error) {
	var rings []Ring
	var path []*fragment
	seen := map[int]int{} // node to index in path
	cur := f
	for hops := 1; ; hops++ {
		cur.used = true
		if i, ok := seen[cur.start]; ok {
			rings = append(rings, loop(path[i:]))
			for _, h := range path[i:] {
				delete(seen, h.start)
			}
			path = path[:i]
		}
		seen[cur.start] = len(path)
		path = append(path, cur)
		if cur.end == f.start {
			break
		} else if budget < hops {
			return nil, errorf(DisconnectedInterior, "ring starting at %v did not close after %d fragments", g.ts.nodes.points[f.start], budget)
		}

		next := g.next(cur, outgoing[cur.end])
		if next == nil {
			return nil, errorf(SelfIntersections, "no outgoing fragment at %v for ring %d of operand %d", g.ts.nodes.points[cur.end], cur.ring, cur.source)
		}
		cur = next
	}
	return append(rings, loop(path)), nil
}

// loop concatenates fragments that end where the first one starts into a closed ring.
func loop(fs []*fragment) Ring {
	var ring Ring
	for _, f := range fs {
		ring = append(ring, f.points[:len(f.points)-1]...)
	}
	return append(ring, ring[0])
}

// assemble walks the fragments selected by op into rings and groups them into polygons. Failing rings are skipped and their errors are returned alongside all other polygons.
func (g *graph) assemble(op OverlayOp) (MultiPolygon, error) {
	var selected []*fragment
	var rings []Ring
	outgoing := map[int][]*fragment{}
	for _, f := range g.fragments {
		if !f.selects(op) {
			continue
		} else if f.start == -1 {
			f.used = true
			rings = append(rings, Ring(f.points).Close())
			continue
		}
		selected = append(selected, f)
		outgoing[f.start] = append(outgoing[f.start], f)
	}

	var errs []error
	for _, f := range selected {
		if f.used {
			continue
		}
		loops, err := g.walk(f, outgoing, len(selected))
		if err != nil {
			Logger().WithError(err).Warn("aborted ring")
			errs = append(errs, err)
			continue
		}
		rings = append(rings, loops...)
	}

	polygons, err := g.polygons(rings)
	if err != nil {
		errs = append(errs, err)
	}
	return polygons, combine(errs...)
}

// polygons assigns the holes to the smallest outer ring containing them. Degenerate rings are dropped.
func (g *graph) polygons(rings []Ring) (MultiPolygon, error) {
	var outers, holes []Ring
	for _, ring := range rings {
		ring = ring.normalize(0.0 < ring.SignedArea())
		if ring.distinct() < 3 || ring.SignedArea() == 0.0 {
			continue
		} else if 0.0 < ring.SignedArea() {
			outers = append(outers, ring)
		} else {
			holes = append(holes, ring)
		}
	}

	var mp MultiPolygon
	for _, outer := range outers {
		mp = append(mp, Polygon{outer})
	}

	var errs []error
	for _, hole := range holes {
		best, bestArea := -1, math.Inf(1)
		for i, outer := range outers {
			if area := outer.SignedArea(); area < bestArea && g.contains(outer, hole) {
				best, bestArea = i, area
			}
		}
		if best == -1 {
			errs = append(errs, errorf(InteriorOutside, "hole at %v has no enclosing ring", hole[0]))
			continue
		}
		mp[best] = append(mp[best], hole)
	}
	return orderPolygons(mp), combine(errs...)
}

// contains returns true if the hole lies inside the outer ring, testing the first point of the hole that is not on the outer ring.
func (g *graph) contains(outer, hole Ring) bool {
	for i := 0; i+1 < len(hole); i++ {
		for _, p := range []Point{hole[i], hole[i].Interpolate(hole[i+1], 0.5)} {
			if loc := locateRing(g.s, outer, p); loc != 0 {
				return 0 < loc
			}
		}
	}
	return true
}

// onRing returns true if p lies on one of the ring's segments.
func onRing(ring Ring, p Point) bool {
	for i := 0; i+1 < len(ring); i++ {
		if ring[i].Interpolate(ring[i+1], fraction(p, ring[i], ring[i+1])).Equals(p) {
			return true
		}
	}
	return false
}

// locateRing returns 1 if p is inside the closed ring, 0 if on its boundary and -1 if outside.
func locateRing(s Strategy, ring Ring, p Point) int {
	if onRing(ring, p) {
		return 0
	} else if windingNumber(s, ring, p) != 0 {
		return 1
	}
	return -1
}

////////////////////////////////////////////////////////////////

// canonical returns the closed ring rotated to start at its lowest-leftmost point.
func canonical(ring Ring) Ring {
	n := len(ring) - 1
	if n < 1 {
		return ring
	}
	first := 0
	for i := 1; i < n; i++ {
		if ring[i].less(ring[first]) {
			first = i
		}
	}
	q := make(Ring, 0, n+1)
	q = append(q, ring[first:n]...)
	q = append(q, ring[:first]...)
	return append(q, q[0])
}

// orderPolygons rotates each ring to its lowest-leftmost point and sorts the holes of each polygon and the polygons by that point.
func orderPolygons(mp MultiPolygon) MultiPolygon {
	for _, polygon := range mp {
		for j := range polygon {
			polygon[j] = canonical(polygon[j])
		}
		holes := polygon[1:]
		sort.SliceStable(holes, func(i, j int) bool {
			return holes[i][0].less(holes[j][0])
		})
	}
	sort.SliceStable(mp, func(i, j int) bool {
		return mp[i][0][0].less(mp[j][0][0])
	})
	return mp
}
