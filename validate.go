package geometry

// Validate checks whether the geometry is valid in the OGC sense and returns all problems found, each wrapping one ErrorKind. Rings must have at least three distinct points and a non-zero area. They may not cross or overlap themselves or each other, and may not touch themselves. Holes must lie inside their outer ring and outside the other holes, and rings touching at points may not disconnect the interior of a polygon. Lines need at least two distinct points.
func Validate(g Geometry, opts Options) error {
	if c, ok := g.(Collection); ok {
		var errs []error
		for _, part := range []Geometry{c.Polygons, c.Lines} {
			if !part.Empty() {
				errs = append(errs, Validate(part, opts))
			}
		}
		return combine(errs...)
	} else if _, ok := g.(Areal); !ok {
		if _, ok := g.(Linear); ok {
			return checkOperand(0, g)
		} else if g == nil || g.Empty() {
			return errorf(EmptyInput, "geometry")
		}
		return nil
	}

	s, err := opts.strategy()
	if err != nil {
		return err
	}
	o, err := newOperand(0, g, false)
	if err != nil {
		return err
	}
	ts, err := detectTurns(s, o, nil, opts.indexOptions())
	if err != nil {
		return err
	}

	var errs []error
	for _, t := range ts.turns {
		p := ts.nodes.points[t.node]
		a, b := t.pos[0], t.pos[1]
		if t.method == MethodCross {
			errs = append(errs, errorf(SelfIntersections, "rings %d and %d cross at %v", a.ring, b.ring, p))
		} else if t.method == MethodCollinear {
			errs = append(errs, errorf(SelfIntersections, "rings %d and %d overlap at %v", a.ring, b.ring, p))
		} else if a.ring == b.ring {
			errs = append(errs, errorf(SelfIntersections, "ring %d touches itself at %v", a.ring, p))
		}
	}
	if 0 < len(errs) {
		// containment is undefined for crossing rings
		return combine(errs...)
	}

	errs = append(errs, validateHoles(s, o)...)
	errs = append(errs, validateConnected(o, ts)...)
	return combine(errs...)
}

// validateHoles checks that each hole lies inside its outer ring and not inside another hole.
func validateHoles(s Strategy, o *operand) []error {
	var errs []error
	outer := -1
	for i, ring := range o.rings {
		if o.outer[i] {
			outer = i
			continue
		}
		if locateRings(s, o.rings[outer], ring) < 0 {
			errs = append(errs, errorf(InteriorOutside, "hole %d at %v lies outside its outer ring", i, ring[0]))
			continue
		}
		for j := outer + 1; j < len(o.rings) && !o.outer[j]; j++ {
			if j != i && 0 < locateRings(s, o.rings[j], ring) {
				errs = append(errs, errorf(NestedHoles, "hole %d at %v lies inside hole %d", i, ring[0], j))
				break
			}
		}
	}
	return errs
}

// locateRings returns whether the rings inner lies inside (1) or outside (-1) of ring, using the first point of inner that is not on ring. It returns 0 if all of inner lies on ring.
func locateRings(s Strategy, ring, inner Ring) int {
	for i := 0; i+1 < len(inner); i++ {
		for _, p := range []Point{inner[i], inner[i].Interpolate(inner[i+1], 0.5)} {
			if loc := locateRing(s, ring, p); loc != 0 {
				return loc
			}
		}
	}
	return 0
}

// validateConnected checks that the rings of each polygon and the points where they touch form no cycle, which would cut off a part of the interior.
func validateConnected(o *operand, ts *turnSet) []error {
	// union-find over rings followed by nodes
	numRings := len(o.rings)
	parent := make([]int, numRings+len(ts.nodes.points))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	type link struct{ ring, node int }
	linked := map[link]bool{}
	var errs []error
	for _, t := range ts.turns {
		a, b := t.pos[0].ring, t.pos[1].ring
		if a == b || o.polygon[a] != o.polygon[b] {
			continue
		}
		for _, ring := range []int{a, b} {
			l := link{ring, t.node}
			if linked[l] {
				continue
			}
			linked[l] = true
			if x, y := find(ring), find(numRings+t.node); x != y {
				parent[x] = y
			} else {
				errs = append(errs, errorf(DisconnectedInterior, "rings of polygon %d enclose a part of the interior at %v", o.polygon[a], ts.nodes.points[t.node]))
			}
		}
	}
	return errs
}
