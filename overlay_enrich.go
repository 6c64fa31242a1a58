package geometry

import (
	"math"
	"sort"

	"github.com/tdewolff/geometry/rtree"
)

// stop is a location along a ring where the ring passes through a node, it holds the turns at that location.
type stop struct {
	pos   position
	node  int
	turns []int
}

// ringStops returns the stops of ring r of operand k, sorted along the ring. Consecutive turns at the same node are merged into one stop.
func (ts *turnSet) ringStops(k int) [][]stop {
	op := ts.ops[k]
	stops := make([][]stop, len(op.rings))
	for i, t := range ts.turns {
		r := t.pos[k].ring
		stops[r] = append(stops[r], stop{pos: t.pos[k], node: t.node, turns: []int{i}})
	}
	for r := range stops {
		sort.SliceStable(stops[r], func(i, j int) bool {
			if stops[r][i].pos != stops[r][j].pos {
				return stops[r][i].pos.less(stops[r][j].pos)
			}
			return stops[r][i].node < stops[r][j].node
		})

		merged := stops[r][:0]
		for _, st := range stops[r] {
			if 0 < len(merged) {
				last := &merged[len(merged)-1]
				if last.node == st.node && (last.pos.seg == st.pos.seg || last.pos.seg+1 == st.pos.seg && st.pos.frac == 0.0) {
					last.turns = append(last.turns, st.turns...)
					continue
				}
			}
			merged = append(merged, st)
		}
		if n := len(merged); op.closed && 1 < n && merged[0].node == merged[n-1].node && merged[0].pos.seg == 0 && merged[0].pos.frac == 0.0 && merged[n-1].pos.seg == op.numSegments(r)-1 {
			merged[0].turns = append(merged[0].turns, merged[n-1].turns...)
			merged = merged[:n-1]
		}
		stops[r] = merged
	}
	return stops
}

// piecePoints returns the points of ring from position from to position to. Closed rings wrap around when to does not come after from, in particular the whole ring is returned when they are equal.
func piecePoints(ring Ring, closed bool, from, to position, first, last Point) []Point {
	n := len(ring) - 1
	endSeg := to.seg
	if closed && !from.less(to) {
		endSeg += n
	}
	pts := []Point{first}
	for v := from.seg + 1; v < endSeg || v == endSeg && 0.0 < to.frac; v++ {
		q := ring[v%(n+1)]
		if closed {
			q = ring[v%n]
		}
		if !pts[len(pts)-1].Equals(q) {
			pts = append(pts, q)
		}
	}
	if !pts[len(pts)-1].Equals(last) || len(pts) == 1 {
		pts = append(pts, last)
	}
	return pts
}

////////////////////////////////////////////////////////////////

// fragment is a piece of an operand's boundary between two consecutive stops. Fragments of rings without stops span the whole ring and have no nodes.
type fragment struct {
	source, ring int
	start, end   int // node indices, -1 for whole rings
	startStop    int // index of the start stop of its ring, -1 for whole rings
	points       []Point

	op         OperationType
	countLeft  int
	countRight int
	used       bool
}

// graph is the planar graph of fragments of two areal operands.
type graph struct {
	s         Strategy
	ts        *turnSet
	stops     [2][][]stop
	fragments []*fragment
}

func buildGraph(s Strategy, ts *turnSet) *graph {
	g := &graph{s: s, ts: ts}
	for k := 0; k < 2; k++ {
		op := ts.ops[k]
		g.stops[k] = ts.ringStops(k)
		for r, ring := range op.rings {
			stops := g.stops[k][r]
			if len(stops) == 0 {
				g.fragments = append(g.fragments, &fragment{
					source:    k,
					ring:      r,
					start:     -1,
					end:       -1,
					startStop: -1,
					points:    ring.Copy(),
				})
				continue
			}
			for i, from := range stops {
				to := stops[(i+1)%len(stops)]
				pts := piecePoints(ring, true, from.pos, to.pos, ts.nodes.points[from.node], ts.nodes.points[to.node])
				if len(pts) == 2 && pts[0].Equals(pts[1]) {
					continue
				}
				g.fragments = append(g.fragments, &fragment{
					source:    k,
					ring:      r,
					start:     from.node,
					end:       to.node,
					startStop: i,
					points:    pts,
				})
			}
		}
	}
	g.classify()
	Logger().WithField("fragments", len(g.fragments)).Debug("enriched turns")
	return g
}

// covers returns true if p lies inside the area covered by operand o, using the winding number of its rings. Operands with a segment index only visit the segments near the ray from p. Points on the boundary are undefined.
func covers(s Strategy, o *operand, p Point) bool {
	wn := 0
	if o.index == nil {
		for _, ring := range o.rings {
			wn += windingNumber(s, ring, p)
		}
	} else {
		// only segments reaching the horizontal ray to the right of p wind around it
		ray := rtree.Box{MinX: p.X, MinY: p.Y, MaxX: math.Inf(1), MaxY: p.Y}
		_ = o.index.Search(rtree.Intersects(ray), func(_ rtree.Box, key segmentKey) error {
			a, b := o.segment(key.ring, key.seg)
			wn += winding(s, a, b, p)
			return nil
		})
	}
	return (wn != 0) != o.complement
}

// windingNumber returns the number of times the closed ring winds counter clockwise around p.
func windingNumber(s Strategy, ring Ring, p Point) int {
	wn := 0
	for i := 0; i+1 < len(ring); i++ {
		wn += winding(s, ring[i], ring[i+1], p)
	}
	return wn
}

// winding returns +1 if segment ab crosses the ray to the right of p upwards, -1 if downwards and 0 otherwise. The lower endpoint is included and the upper excluded.
func winding(s Strategy, a, b, p Point) int {
	if a.Y <= p.Y {
		if p.Y < b.Y && 0 < s.Side(a, b, p) {
			return 1
		}
	} else if b.Y <= p.Y && s.Side(a, b, p) < 0 {
		return -1
	}
	return 0
}

// classify computes the coverage counts and the operation type of each fragment. A fragment's own operand covers its left side. The other operand covers either both or none of the sides, except when the fragment coincides with a fragment of the other operand.
func (g *graph) classify() {
	type nodePair struct{ start, end int }
	shared := map[nodePair][]*fragment{}
	for _, f := range g.fragments {
		if f.source == 1 && len(f.points) == 2 && f.start != -1 {
			key := nodePair{f.start, f.end}
			shared[key] = append(shared[key], f)
		}
	}
	match := func(key nodePair) *fragment {
		for _, f := range shared[key] {
			if f.op == OperationNone {
				return f
			}
		}
		return nil
	}

	for _, f := range g.fragments {
		if f.source != 0 || len(f.points) != 2 || f.start == -1 {
			continue
		}
		if h := match(nodePair{f.start, f.end}); h != nil {
			// same direction, both sides bounded by both operands
			f.countLeft, f.countRight, f.op = 2, 0, OperationContinue
			h.countLeft, h.countRight, h.op = 2, 0, OperationBlocked
		} else if h := match(nodePair{f.end, f.start}); h != nil {
			// opposite direction, the operands lie on either side
			f.countLeft, f.countRight, f.op = 1, 1, OperationBlocked
			h.countLeft, h.countRight, h.op = 1, 1, OperationBlocked
		}
	}

	for _, f := range g.fragments {
		if f.op != OperationNone {
			continue
		}
		other := g.ts.ops[1-f.source]
		if covers(g.s, other, interiorPoint(f.points)) {
			f.countLeft, f.countRight, f.op = 2, 1, OperationIntersection
		} else {
			f.countLeft, f.countRight, f.op = 1, 0, OperationUnion
		}
	}
}

// exportTurns returns the turns with the enrichment of the fragments leaving them.
func (g *graph) exportTurns() []Turn {
	turns := g.ts.exportTurns()
	for _, f := range g.fragments {
		if f.startStop == -1 {
			continue
		}
		stops := g.stops[f.source][f.ring]
		from := stops[f.startStop]
		next := -1
		for i := 1; i <= len(stops); i++ {
			if to := stops[(f.startStop+i)%len(stops)]; to.node == f.end {
				next = to.turns[0]
				break
			}
		}
		for _, i := range from.turns {
			op := &turns[i].Operations[f.source]
			op.Operation = f.op
			op.CountLeft = f.countLeft
			op.CountRight = f.countRight
			op.Next = next
		}
	}
	return turns
}
