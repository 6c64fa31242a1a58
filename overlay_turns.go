package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/tdewolff/geometry/rtree"
)

// Geometries are cut at the points where the segments of A and B cross, touch or overlap. Each such point is a turn, and turns closer than Epsilon are clustered into one node of a planar graph. The boundary pieces between consecutive nodes along a ring are fragments, and the overlay result is assembled by walking the fragments that bound the result.

// TurnMethod is the way two segments meet at a turn.
type TurnMethod int

// see TurnMethod
const (
	MethodCross     TurnMethod = iota // segments cross in their interiors
	MethodTouch                       // an endpoint of one segment lies on the other
	MethodCollinear                   // start or end of a collinear overlap
)

func (m TurnMethod) String() string {
	switch m {
	case MethodCross:
		return "cross"
	case MethodTouch:
		return "touch"
	case MethodCollinear:
		return "collinear"
	}
	return "unknown"
}

// OperationType tells which overlay results the outgoing boundary of a turn operation belongs to.
type OperationType int

// see OperationType
const (
	OperationNone         OperationType = iota // not enriched
	OperationUnion                             // boundary of the union only
	OperationIntersection                      // boundary of the intersection only
	OperationContinue                          // boundary of both union and intersection
	OperationBlocked                           // boundary of neither
)

func (op OperationType) String() string {
	switch op {
	case OperationUnion:
		return "union"
	case OperationIntersection:
		return "intersection"
	case OperationContinue:
		return "continue"
	case OperationBlocked:
		return "blocked"
	}
	return "none"
}

// SegmentID identifies a segment of an operand. Source is 0 for the first and 1 for the second operand, Ring counts over all rings or lines of the operand.
type SegmentID struct {
	Source  int
	Ring    int
	Segment int
}

func (id SegmentID) less(o SegmentID) bool {
	if id.Source != o.Source {
		return id.Source < o.Source
	} else if id.Ring != o.Ring {
		return id.Ring < o.Ring
	}
	return id.Segment < o.Segment
}

// TurnOperation is the part of a turn that belongs to one operand. The enrichment fields describe the fragment of the operand's boundary that leaves the turn going forward.
type TurnOperation struct {
	SegmentID
	Fraction float64 // position along the segment in [0,1)

	Operation  OperationType
	CountLeft  int // number of operands covering the left side of the outgoing fragment
	CountRight int // number of operands covering the right side of the outgoing fragment
	Next       int // index of the turn at which the outgoing fragment ends, -1 if unknown
}

// Turn is a point where a segment of one operand crosses, touches or overlaps a segment of the other.
type Turn struct {
	Point
	Method     TurnMethod
	Operations [2]TurnOperation
}

func (t Turn) String() string {
	return fmt.Sprintf("(%g %g) %v seg={%d:%d:%d,%d:%d:%d} t={%g,%g} op={%v,%v}", t.X, t.Y, t.Method,
		t.Operations[0].Source, t.Operations[0].Ring, t.Operations[0].Segment,
		t.Operations[1].Source, t.Operations[1].Ring, t.Operations[1].Segment,
		t.Operations[0].Fraction, t.Operations[1].Fraction,
		t.Operations[0].Operation, t.Operations[1].Operation)
}

////////////////////////////////////////////////////////////////

// operand is a normalised copy of an overlay input. Areal rings are closed with the interior on their left, linear operands keep their lines open.
type operand struct {
	source     int
	rings      []Ring
	polygon    []int // polygon index of each ring
	outer      []bool
	closed     bool
	complement bool // the covered area is the complement, used for the subtrahend of a difference
	index      *rtree.RTree[segmentKey]
}

func arealOperand(source int, a Areal, complement bool) *operand {
	o := &operand{source: source, closed: true, complement: complement}
	polygon := -1
	for i := 0; i < a.NumRings(); i++ {
		outer := a.IsOuter(i)
		if outer {
			polygon++
		}
		ring := a.RingAt(i).normalize(outer)
		if len(ring) < 2 {
			continue
		}
		if complement {
			ring = ring.Reverse()
		}
		o.rings = append(o.rings, ring)
		o.polygon = append(o.polygon, polygon)
		o.outer = append(o.outer, outer)
	}
	return o
}

func linearOperand(source int, l Linear) *operand {
	o := &operand{source: source}
	for i := 0; i < l.NumLines(); i++ {
		var line Ring
		for _, p := range l.LineAt(i) {
			if len(line) == 0 || !line[len(line)-1].Equals(p) {
				line = append(line, p)
			}
		}
		if len(line) < 2 {
			continue
		}
		o.rings = append(o.rings, line)
		o.polygon = append(o.polygon, i)
		o.outer = append(o.outer, true)
	}
	return o
}

func (o *operand) numSegments(ring int) int {
	return len(o.rings[ring]) - 1
}

func (o *operand) numSegmentsTotal() int {
	n := 0
	for i := range o.rings {
		n += o.numSegments(i)
	}
	return n
}

func (o *operand) segment(ring, seg int) (Point, Point) {
	return o.rings[ring][seg], o.rings[ring][seg+1]
}

// position is a location along a ring of an operand.
type position struct {
	ring, seg int
	frac      float64
}

func (p position) less(q position) bool {
	if p.ring != q.ring {
		return p.ring < q.ring
	} else if p.seg != q.seg {
		return p.seg < q.seg
	}
	return p.frac < q.frac
}

// snap moves positions that coincide with a vertex onto the start of the segment following that vertex, the closing vertex of a ring maps to the start of the ring.
func (o *operand) snap(pos position, p Point) (position, Point) {
	a, b := o.segment(pos.ring, pos.seg)
	if pos.frac <= 0.0 || p.Equals(a) {
		return position{pos.ring, pos.seg, 0.0}, a
	} else if 1.0 <= pos.frac || p.Equals(b) {
		pos = position{pos.ring, pos.seg + 1, 0.0}
		if o.closed && pos.seg == o.numSegments(pos.ring) {
			pos.seg = 0
		}
		return pos, b
	}
	return pos, p
}

////////////////////////////////////////////////////////////////

// segmentIntersection is an intersection point between two segments with the fractions along each.
type segmentIntersection struct {
	Point
	ta, tb float64
	method TurnMethod
}

// fraction returns the position of p projected onto segment s0s1 in [0,1].
func fraction(p, s0, s1 Point) float64 {
	d := s1.Sub(s0)
	l2 := d.Dot(d)
	if l2 == 0.0 {
		return 0.0
	}
	return math.Max(0.0, math.Min(1.0, p.Sub(s0).Dot(d)/l2))
}

// onSegment returns true if p, which is known to be collinear with s0s1, lies on the segment.
func onSegment(p, s0, s1 Point) bool {
	return math.Min(s0.X, s1.X)-Epsilon <= p.X && p.X <= math.Max(s0.X, s1.X)+Epsilon &&
		math.Min(s0.Y, s1.Y)-Epsilon <= p.Y && p.Y <= math.Max(s0.Y, s1.Y)+Epsilon
}

// intersectSegments classifies the relation between segments a0a1 and b0b1 using the side predicate of the strategy. Disjoint segments return nothing, crossing and touching segments one point, and collinear overlaps the two ends of the overlap.
func intersectSegments(s Strategy, a0, a1, b0, b1 Point) []segmentIntersection {
	if a0.Equals(a1) || b0.Equals(b1) {
		return nil
	}
	d1, d2 := s.Side(b0, b1, a0), s.Side(b0, b1, a1)
	d3, d4 := s.Side(a0, a1, b0), s.Side(a0, a1, b1)
	if d1 == 0 && d2 == 0 || d3 == 0 && d4 == 0 {
		return intersectCollinear(a0, a1, b0, b1)
	} else if 0 < d1*d2 || 0 < d3*d4 {
		return nil
	} else if d1 != 0 && d2 != 0 && d3 != 0 && d4 != 0 {
		p := s.Intersection(a0, a1, b0, b1)
		return []segmentIntersection{{p, fraction(p, a0, a1), fraction(p, b0, b1), MethodCross}}
	}

	// an endpoint lies on the other segment
	var p Point
	switch {
	case d1 == 0 && onSegment(a0, b0, b1):
		p = a0
	case d2 == 0 && onSegment(a1, b0, b1):
		p = a1
	case d3 == 0 && onSegment(b0, a0, a1):
		p = b0
	case d4 == 0 && onSegment(b1, a0, a1):
		p = b1
	default:
		return nil
	}
	return []segmentIntersection{{p, fraction(p, a0, a1), fraction(p, b0, b1), MethodTouch}}
}

func intersectCollinear(a0, a1, b0, b1 Point) []segmentIntersection {
	// parametrize along A, the overlap ends are segment endpoints
	tb0, tb1 := fraction(b0, a0, a1), fraction(b1, a0, a1)
	d := a1.Sub(a0)
	param := func(p Point) float64 {
		return p.Sub(a0).Dot(d) / d.Dot(d)
	}
	lo, hi := math.Min(param(b0), param(b1)), math.Max(param(b0), param(b1))
	if hi < -Epsilon || 1.0+Epsilon < lo {
		return nil
	}

	type candidate struct {
		Point
		t float64
	}
	var cs []candidate
	for _, c := range []candidate{{a0, 0.0}, {a1, 1.0}, {b0, tb0}, {b1, tb1}} {
		if t := param(c.Point); -Epsilon <= t && t <= 1.0+Epsilon && lo-Epsilon <= t && t <= hi+Epsilon {
			cs = append(cs, c)
		}
	}
	if len(cs) == 0 {
		return nil
	}
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].t < cs[j].t })
	first, last := cs[0], cs[len(cs)-1]
	if first.Equals(last.Point) {
		return []segmentIntersection{{first.Point, first.t, fraction(first.Point, b0, b1), MethodTouch}}
	}
	return []segmentIntersection{
		{first.Point, first.t, fraction(first.Point, b0, b1), MethodCollinear},
		{last.Point, last.t, fraction(last.Point, b0, b1), MethodCollinear},
	}
}

////////////////////////////////////////////////////////////////

// nodeSet clusters points closer than Epsilon into nodes.
type nodeSet struct {
	index  rtree.RTree[int]
	points []Point
}

func (ns *nodeSet) add(p Point) int {
	found := -1
	box := rtree.Box{MinX: p.X - Epsilon, MinY: p.Y - Epsilon, MaxX: p.X + Epsilon, MaxY: p.Y + Epsilon}
	_ = ns.index.Search(rtree.Intersects(box), func(_ rtree.Box, id int) error {
		if ns.points[id].Equals(p) {
			found = id
			return rtree.Stop
		}
		return nil
	})
	if found != -1 {
		return found
	}
	ns.points = append(ns.points, p)
	ns.index.Insert(rtree.PointBox(p.X, p.Y), len(ns.points)-1)
	return len(ns.points) - 1
}

// rawTurn is a detected turn before enrichment, it refers to positions on both operands and to its node.
type rawTurn struct {
	node   int
	method TurnMethod
	pos    [2]position
}

// turnSet is the result of turn detection between two operands.
type turnSet struct {
	ops   [2]*operand
	nodes nodeSet
	turns []rawTurn
}

type segmentKey struct {
	ring, seg int
}

func segmentBox(p, q Point) rtree.Box {
	return rtree.Box{
		MinX: math.Min(p.X, q.X) - Epsilon,
		MinY: math.Min(p.Y, q.Y) - Epsilon,
		MaxX: math.Max(p.X, q.X) + Epsilon,
		MaxY: math.Max(p.Y, q.Y) + Epsilon,
	}
}

// segmentIndex bulk loads the segments of the operand into an R-tree, the tree is built once per operand.
func (o *operand) segmentIndex(opts rtree.Options) (*rtree.RTree[segmentKey], error) {
	if o.index != nil {
		return o.index, nil
	}
	index, err := rtree.New[segmentKey](opts)
	if err != nil {
		return nil, err
	}
	items := make([]rtree.Item[segmentKey], 0, o.numSegmentsTotal())
	for i := range o.rings {
		for j := 0; j < o.numSegments(i); j++ {
			p, q := o.segment(i, j)
			items = append(items, rtree.Item[segmentKey]{Box: segmentBox(p, q), Value: segmentKey{i, j}})
		}
	}
	index.Load(items)
	o.index = index
	return index, nil
}

// adjacent returns true if two segments of the same operand share a vertex by construction.
func (o *operand) adjacent(a, b segmentKey) bool {
	if a.ring != b.ring {
		return false
	}
	n := o.numSegments(a.ring)
	if a.seg+1 == b.seg || b.seg+1 == a.seg {
		return true
	}
	return o.closed && 2 < n && (a.seg == 0 && b.seg == n-1 || b.seg == 0 && a.seg == n-1)
}

// detectTurns finds all turns between a and b. If b is nil, the turns of a with itself are found, excluding the shared vertices of adjacent segments.
func detectTurns(s Strategy, a, b *operand, opts rtree.Options) (*turnSet, error) {
	self := b == nil
	if self {
		b = a
	}
	ts := &turnSet{ops: [2]*operand{a, b}}

	// index the operand with more segments and query it with the segments of the other
	indexed, queried, swapped := b, a, false
	if !self && b.numSegmentsTotal() < a.numSegmentsTotal() {
		indexed, queried, swapped = a, b, true
	}
	index, err := indexed.segmentIndex(opts)
	if err != nil {
		return nil, err
	}
	if queried.closed {
		// used for the coverage of fragments
		if _, err := queried.segmentIndex(opts); err != nil {
			return nil, err
		}
	}

	seen := map[[2]position]int{}
	var candidates []segmentKey
	for i := range queried.rings {
		for j := 0; j < queried.numSegments(i); j++ {
			q0, q1 := queried.segment(i, j)
			qKey := segmentKey{i, j}
			candidates = index.Query(rtree.Intersects(segmentBox(q0, q1)))
			sort.Slice(candidates, func(m, n int) bool {
				return candidates[m].ring < candidates[n].ring || candidates[m].ring == candidates[n].ring && candidates[m].seg < candidates[n].seg
			})
			for _, cKey := range candidates {
				if self && (cKey.ring < qKey.ring || cKey.ring == qKey.ring && cKey.seg <= qKey.seg) {
					continue
				}
				c0, c1 := indexed.segment(cKey.ring, cKey.seg)

				// A is always the first operand
				keyA, keyB := qKey, cKey
				a0, a1, b0, b1 := q0, q1, c0, c1
				if swapped {
					keyA, keyB = cKey, qKey
					a0, a1, b0, b1 = c0, c1, q0, q1
				}
				isAdjacent := self && a.adjacent(keyA, keyB)
				for _, z := range intersectSegments(s, a0, a1, b0, b1) {
					// the node is a vertex of either operand if it lies within Epsilon of one
					posA, p := a.snap(position{keyA.ring, keyA.seg, z.ta}, z.Point)
					posB, pb := b.snap(position{keyB.ring, keyB.seg, z.tb}, p)
					if posA.frac != 0.0 {
						p = pb
					}
					if isAdjacent && posA == posB {
						// the vertex joining consecutive segments
						continue
					}
					key := [2]position{posA, posB}
					if k, ok := seen[key]; ok {
						if ts.turns[k].method < z.method {
							ts.turns[k].method = z.method
						}
						continue
					}
					seen[key] = len(ts.turns)
					ts.turns = append(ts.turns, rawTurn{
						node:   ts.nodes.add(p),
						method: z.method,
						pos:    key,
					})
				}
			}
		}
	}

	// order deterministically along the first operand
	sort.SliceStable(ts.turns, func(i, j int) bool {
		if ts.turns[i].pos[0] != ts.turns[j].pos[0] {
			return ts.turns[i].pos[0].less(ts.turns[j].pos[0])
		}
		return ts.turns[i].pos[1].less(ts.turns[j].pos[1])
	})
	Logger().WithFields(logrus.Fields{
		"turns": len(ts.turns),
		"nodes": len(ts.nodes.points),
		"split": opts.Split,
	}).Debug("detected turns")
	return ts, nil
}

// Turns returns the turns between two areal or linear geometries. Turns between two areal geometries are enriched with the operation types and coverage counts of their outgoing fragments.
func Turns(a, b Geometry, opts Options) ([]Turn, error) {
	s, err := opts.strategy()
	if err != nil {
		return nil, err
	}
	opA, err := newOperand(0, a, false)
	if err != nil {
		return nil, err
	}
	opB, err := newOperand(1, b, false)
	if err != nil {
		return nil, err
	}
	ts, err := detectTurns(s, opA, opB, opts.indexOptions())
	if err != nil {
		return nil, err
	}
	if opA.closed && opB.closed {
		g := buildGraph(s, ts)
		return g.exportTurns(), nil
	}
	return ts.exportTurns(), nil
}

// SelfTurns returns the points where the boundary of a geometry touches or crosses itself, excluding the vertices shared by consecutive segments.
func SelfTurns(g Geometry, opts Options) ([]Turn, error) {
	s, err := opts.strategy()
	if err != nil {
		return nil, err
	}
	op, err := newOperand(0, g, false)
	if err != nil {
		return nil, err
	}
	ts, err := detectTurns(s, op, nil, opts.indexOptions())
	if err != nil {
		return nil, err
	}
	return ts.exportTurns(), nil
}

func (ts *turnSet) exportTurns() []Turn {
	turns := make([]Turn, len(ts.turns))
	for i, t := range ts.turns {
		turns[i] = Turn{
			Point:  ts.nodes.points[t.node],
			Method: t.method,
		}
		for k := 0; k < 2; k++ {
			turns[i].Operations[k] = TurnOperation{
				SegmentID: SegmentID{ts.ops[k].source, t.pos[k].ring, t.pos[k].seg},
				Fraction:  t.pos[k].frac,
				Next:      -1,
			}
		}
	}
	return turns
}
