package geometry

import (
	"github.com/sirupsen/logrus"
	"github.com/tdewolff/geometry/rtree"
)

// OverlayOp is a boolean operation between two geometries.
type OverlayOp int

// see OverlayOp
const (
	UnionOp OverlayOp = iota
	IntersectionOp
	DifferenceOp
)

func (op OverlayOp) String() string {
	switch op {
	case UnionOp:
		return "union"
	case IntersectionOp:
		return "intersection"
	case DifferenceOp:
		return "difference"
	}
	return "unknown"
}

// ParseOverlayOp parses the names returned by OverlayOp.String.
func ParseOverlayOp(s string) (OverlayOp, error) {
	for _, op := range []OverlayOp{UnionOp, IntersectionOp, DifferenceOp} {
		if op.String() == s {
			return op, nil
		}
	}
	return 0, errorf(NotImplemented, "overlay operation %q", s)
}

// Options configures overlays, turn detection and validity checks.
type Options struct {
	CoordinateSystem CoordinateSystem
	Registry         *Registry     // DefaultRegistry if nil
	NoThrow          bool          // return the partial or empty result instead of an error
	IndexOptions     rtree.Options // segment index parameters, rtree.DefaultOptions if zero
}

// DefaultOptions returns options for Cartesian coordinates.
func DefaultOptions() Options {
	return Options{
		CoordinateSystem: Cartesian,
		IndexOptions:     rtree.DefaultOptions,
	}
}

func (o Options) strategy() (Strategy, error) {
	registry := o.Registry
	if registry == nil {
		registry = DefaultRegistry
	}
	return registry.Lookup(o.CoordinateSystem)
}

func (o Options) indexOptions() rtree.Options {
	if o.IndexOptions == (rtree.Options{}) {
		return rtree.DefaultOptions
	}
	return o.IndexOptions
}

// checkOperand returns an error if the geometry cannot take part in an overlay.
func checkOperand(source int, g Geometry) error {
	if g == nil || g.Empty() {
		return errorf(EmptyInput, "operand %d", source)
	}
	switch v := g.(type) {
	case Box:
		if v.Area() == 0.0 {
			return errorf(WrongDimension, "operand %d is a degenerate box", source)
		}
	case Areal:
		for i := 0; i < v.NumRings(); i++ {
			ring := v.RingAt(i)
			if n := ring.distinct(); n < 3 {
				return errorf(FewPoints, "operand %d ring %d has %d distinct points", source, i, n)
			} else if ring.SignedArea() == 0.0 {
				return errorf(WrongDimension, "operand %d ring %d has no area", source, i)
			}
		}
	case Linear:
		for i := 0; i < v.NumLines(); i++ {
			if n := Ring(v.LineAt(i)).distinct(); n < 2 {
				return errorf(FewPoints, "operand %d line %d has %d distinct points", source, i, n)
			}
		}
	default:
		return errorf(NotImplemented, "operand %d of kind %v", source, g.Kind())
	}
	return nil
}

// newOperand validates the geometry and returns its normalised copy.
func newOperand(source int, g Geometry, complement bool) (*operand, error) {
	if err := checkOperand(source, g); err != nil {
		return nil, err
	}
	switch v := g.(type) {
	case Areal:
		return arealOperand(source, v, complement), nil
	case Linear:
		return linearOperand(source, v), nil
	}
	return nil, errorf(NotImplemented, "operand %d of kind %v", source, g.Kind())
}

// Overlay computes the union, intersection or difference of two geometries. Areal and linear geometries of any kind can be combined, the result holds polygons for areal results, lines for linear results and points for isolated crossings of two linear geometries.
//
// Invalid input is reported before computation starts and gives an empty result. Errors found while assembling rings abort only the affected ring, the result then holds all other rings together with the error. With NoThrow set, errors are logged and not returned. The inputs are never modified.
func Overlay(op OverlayOp, a, b Geometry, opts Options) (Collection, error) {
	c, err := overlay(op, a, b, opts)
	if err != nil && opts.NoThrow {
		Logger().WithError(err).WithField("op", op).Warn("overlay failed")
		return c, nil
	}
	return c, err
}

func overlay(op OverlayOp, a, b Geometry, opts Options) (Collection, error) {
	s, err := opts.strategy()
	if err != nil {
		return Collection{}, err
	}
	if err := checkOperand(0, a); err != nil {
		return Collection{}, err
	} else if err := checkOperand(1, b); err != nil {
		return Collection{}, err
	}
	Logger().WithFields(logrus.Fields{
		"op": op,
		"a":  a.Kind(),
		"b":  b.Kind(),
	}).Debug("overlay")

	arealA, isArealA := a.(Areal)
	arealB, isArealB := b.(Areal)
	if isArealA && isArealB {
		opA := arealOperand(0, arealA, false)
		opB := arealOperand(1, arealB, op == DifferenceOp)
		ts, err := detectTurns(s, opA, opB, opts.indexOptions())
		if err != nil {
			return Collection{}, err
		}
		polygons, err := buildGraph(s, ts).assemble(op)
		return Collection{Polygons: polygons}, err
	}
	return overlayLinear(s, op, a, b, opts)
}

// Union returns the point set covered by a or b, using Cartesian coordinates.
func Union(a, b Geometry) (Collection, error) {
	return Overlay(UnionOp, a, b, DefaultOptions())
}

// Intersection returns the point set covered by both a and b, using Cartesian coordinates.
func Intersection(a, b Geometry) (Collection, error) {
	return Overlay(IntersectionOp, a, b, DefaultOptions())
}

// Difference returns the point set covered by a but not by b, using Cartesian coordinates.
func Difference(a, b Geometry) (Collection, error) {
	return Overlay(DifferenceOp, a, b, DefaultOptions())
}
