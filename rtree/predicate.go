package rtree

// Predicate selects values in a search. Node is a necessary condition evaluated on the box of a subtree, if it returns false none of the values below are visited. Value decides for the box of a single value.
type Predicate interface {
	Node(Box) bool
	Value(Box) bool
}

type intersects Box

func (p intersects) Node(b Box) bool  { return overlap(b, Box(p)) }
func (p intersects) Value(b Box) bool { return overlap(b, Box(p)) }

// Intersects selects values whose box overlaps or touches b.
func Intersects(b Box) Predicate {
	return intersects(b)
}

type pointPredicate struct{ x, y float64 }

func (p pointPredicate) Node(b Box) bool  { return containsPoint(b, p.x, p.y) }
func (p pointPredicate) Value(b Box) bool { return containsPoint(b, p.x, p.y) }

// ContainsPoint selects values whose box contains (x,y), including its boundary.
func ContainsPoint(x, y float64) Predicate {
	return pointPredicate{x, y}
}

type withinPredicate Box

func (p withinPredicate) Node(b Box) bool  { return overlap(b, Box(p)) }
func (p withinPredicate) Value(b Box) bool { return within(b, Box(p)) }

// Within selects values whose box lies completely inside b.
func Within(b Box) Predicate {
	return withinPredicate(b)
}

type satisfies func(Box) bool

func (p satisfies) Node(Box) bool    { return true }
func (p satisfies) Value(b Box) bool { return p(b) }

// Satisfies selects values for which f returns true. All nodes are visited.
func Satisfies(f func(Box) bool) Predicate {
	return satisfies(f)
}

type and []Predicate

func (ps and) Node(b Box) bool {
	for _, p := range ps {
		if !p.Node(b) {
			return false
		}
	}
	return true
}

func (ps and) Value(b Box) bool {
	for _, p := range ps {
		if !p.Value(b) {
			return false
		}
	}
	return true
}

// And selects values that satisfy all predicates.
func And(preds ...Predicate) Predicate {
	return and(preds)
}
