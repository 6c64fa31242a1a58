package geometry

import (
	"sort"

	"github.com/tdewolff/geometry/rtree"
)

// linePiece is a part of a line between consecutive turns. Index counts the non-degenerate pieces along the line.
type linePiece struct {
	line, index int
	points      []Point
}

// interiorPoint returns a point in the interior of the first non-degenerate segment.
func interiorPoint(points []Point) Point {
	for i := 0; i+1 < len(points); i++ {
		if !points[i].Equals(points[i+1]) {
			return points[i].Interpolate(points[i+1], 0.5)
		}
	}
	return points[0]
}

func degenerate(points []Point) bool {
	for _, p := range points[1:] {
		if !p.Equals(points[0]) {
			return false
		}
	}
	return true
}

// linePieces cuts the lines of operand k at the turns with the other operand.
func linePieces(ts *turnSet, k int) []linePiece {
	op := ts.ops[k]
	stops := ts.ringStops(k)

	var pieces []linePiece
	for r, line := range op.rings {
		n := op.numSegments(r)
		index := 0
		from, first := position{r, 0, 0.0}, line[0]
		add := func(to position, last Point) {
			if pts := piecePoints(line, false, from, to, first, last); !degenerate(pts) {
				pieces = append(pieces, linePiece{r, index, pts})
				index++
			}
			from, first = to, last
		}
		for _, st := range stops[r] {
			add(st.pos, ts.nodes.points[st.node])
		}
		add(position{r, n, 0.0}, line[n])
	}
	return pieces
}

// mergePieces joins consecutive kept pieces of the same line into one line string.
func mergePieces(pieces []linePiece, keep func(int) bool) MultiLineString {
	var ml MultiLineString
	prev := -1
	for i, piece := range pieces {
		if !keep(i) {
			continue
		}
		if prev != -1 && pieces[prev].line == piece.line && pieces[prev].index+1 == piece.index {
			ml[len(ml)-1] = append(ml[len(ml)-1], piece.points[1:]...)
		} else {
			ml = append(ml, append(LineString(nil), piece.points...))
		}
		prev = i
	}
	return ml
}

// locate returns 1 if p lies inside the areal operand, 0 if on its boundary and -1 if outside.
func (o *operand) locate(s Strategy, p Point) int {
	for _, ring := range o.rings {
		if onRing(ring, p) {
			return 0
		}
	}
	if covers(s, o, p) {
		return 1
	}
	return -1
}

// onSegments returns true if p lies on one of the indexed segments of o.
func (o *operand) onSegments(index *rtree.RTree[segmentKey], p Point) bool {
	found := false
	_ = index.Search(rtree.Intersects(segmentBox(p, p)), func(_ rtree.Box, key segmentKey) error {
		a, b := o.segment(key.ring, key.seg)
		if a.Interpolate(b, fraction(p, a, b)).Equals(p) {
			found = true
			return rtree.Stop
		}
		return nil
	})
	return found
}

// multiPolygon returns the rings of an areal operand grouped into polygons.
func (o *operand) multiPolygon() MultiPolygon {
	var mp MultiPolygon
	for i, ring := range o.rings {
		if o.outer[i] || len(mp) == 0 {
			mp = append(mp, Polygon{ring.Copy()})
		} else {
			mp[len(mp)-1] = append(mp[len(mp)-1], ring.Copy())
		}
	}
	return orderPolygons(mp)
}

// multiLineString returns the lines of a linear operand.
func (o *operand) multiLineString() MultiLineString {
	ml := make(MultiLineString, len(o.rings))
	for i, line := range o.rings {
		ml[i] = append(LineString(nil), line...)
	}
	return ml
}

////////////////////////////////////////////////////////////////

// overlayLinear computes overlays where at least one operand is linear.
func overlayLinear(s Strategy, op OverlayOp, a, b Geometry, opts Options) (Collection, error) {
	opA, err := newOperand(0, a, false)
	if err != nil {
		return Collection{}, err
	}
	opB, err := newOperand(1, b, false)
	if err != nil {
		return Collection{}, err
	}
	ts, err := detectTurns(s, opA, opB, opts.indexOptions())
	if err != nil {
		return Collection{}, err
	}

	switch {
	case !opA.closed && opB.closed:
		return overlayLineArea(s, op, ts, 0), nil
	case opA.closed && !opB.closed:
		return overlayLineArea(s, op, ts, 1), nil
	}
	return overlayLines(op, ts, opts)
}

// overlayLineArea combines the linear operand k with the areal operand 1-k. Pieces of the line on the boundary of the area count as inside.
func overlayLineArea(s Strategy, op OverlayOp, ts *turnSet, k int) Collection {
	area := ts.ops[1-k]
	pieces := linePieces(ts, k)
	loc := make([]int, len(pieces))
	for i, piece := range pieces {
		loc[i] = area.locate(s, interiorPoint(piece.points))
	}
	inside := func(i int) bool { return 0 <= loc[i] }
	outside := func(i int) bool { return loc[i] < 0 }

	switch {
	case op == IntersectionOp:
		return Collection{Lines: mergePieces(pieces, inside)}
	case op == UnionOp:
		return Collection{Polygons: area.multiPolygon(), Lines: mergePieces(pieces, outside)}
	case k == 0:
		return Collection{Lines: mergePieces(pieces, outside)}
	}
	// removing a line does not change an area
	return Collection{Polygons: area.multiPolygon()}
}

// overlayLines combines two linear operands. Overlapping pieces form the intersection together with the isolated crossings.
func overlayLines(op OverlayOp, ts *turnSet, opts Options) (Collection, error) {
	shared := func(k int) ([]linePiece, []bool, error) {
		other := ts.ops[1-k]
		index, err := other.segmentIndex(opts.indexOptions())
		if err != nil {
			return nil, nil, err
		}
		pieces := linePieces(ts, k)
		overlaps := make([]bool, len(pieces))
		for i, piece := range pieces {
			overlaps[i] = other.onSegments(index, interiorPoint(piece.points))
		}
		return pieces, overlaps, nil
	}

	piecesA, sharedA, err := shared(0)
	if err != nil {
		return Collection{}, err
	}
	switch op {
	case IntersectionOp:
		lines := mergePieces(piecesA, func(i int) bool { return sharedA[i] })
		var points MultiPoint
	Nodes:
		for _, p := range ts.nodes.points {
			for i, piece := range piecesA {
				if sharedA[i] && (piece.points[0].Equals(p) || piece.points[len(piece.points)-1].Equals(p)) {
					continue Nodes
				}
			}
			points = append(points, p)
		}
		sort.Slice(points, func(i, j int) bool { return points[i].less(points[j]) })
		return Collection{Lines: lines, Points: points}, nil
	case DifferenceOp:
		return Collection{Lines: mergePieces(piecesA, func(i int) bool { return !sharedA[i] })}, nil
	}

	piecesB, sharedB, err := shared(1)
	if err != nil {
		return Collection{}, err
	}
	lines := ts.ops[0].multiLineString()
	lines = append(lines, mergePieces(piecesB, func(i int) bool { return !sharedB[i] })...)
	return Collection{Lines: lines}, nil
}
