package geometry

import (
	"math"
	"sync"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/bigxy"
	"github.com/twpayne/go-geom/xy/orientation"
)

// CoordinateSystem tags how coordinates are interpreted.
type CoordinateSystem int

// see CoordinateSystem
const (
	Cartesian CoordinateSystem = iota
	Spherical
	Geographic
)

func (cs CoordinateSystem) String() string {
	switch cs {
	case Cartesian:
		return "cartesian"
	case Spherical:
		return "spherical"
	case Geographic:
		return "geographic"
	}
	return "unknown"
}

// ParseCoordinateSystem parses the name as returned by String.
func ParseCoordinateSystem(s string) (CoordinateSystem, error) {
	for _, cs := range []CoordinateSystem{Cartesian, Spherical, Geographic} {
		if cs.String() == s {
			return cs, nil
		}
	}
	return 0, errorf(NotImplemented, "coordinate system %q", s)
}

// Strategy holds the numeric primitives for one coordinate system.
type Strategy interface {
	// Side returns 1 if r lies left of the directed line pq, -1 if it lies right and 0 if it is collinear.
	Side(p, q, r Point) int

	// Distance returns the distance between p and q.
	Distance(p, q Point) float64

	// Intersection returns the crossing point of segments a0a1 and b0b1, which must be known to cross.
	Intersection(a0, a1, b0, b1 Point) Point
}

// Registry maps coordinate systems to strategies. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	strategies map[CoordinateSystem]Strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: map[CoordinateSystem]Strategy{},
	}
}

// DefaultRegistry has strategies for the Cartesian, Spherical and Geographic coordinate systems.
var DefaultRegistry = func() *Registry {
	r := NewRegistry()
	r.Register(Cartesian, CartesianStrategy{})
	r.Register(Spherical, SphericalStrategy{})
	r.Register(Geographic, GeographicStrategy{})
	return r
}()

// Register sets the strategy for a coordinate system, replacing any previous one.
func (r *Registry) Register(cs CoordinateSystem, s Strategy) {
	r.mu.Lock()
	r.strategies[cs] = s
	r.mu.Unlock()
}

// Lookup returns the strategy for a coordinate system or a NotImplemented error.
func (r *Registry) Lookup(cs CoordinateSystem) (Strategy, error) {
	r.mu.RLock()
	s, ok := r.strategies[cs]
	r.mu.RUnlock()
	if !ok {
		return nil, errorf(NotImplemented, "no strategy for %v coordinates", cs)
	}
	return s, nil
}

////////////////////////////////////////////////////////////////

// CartesianStrategy uses planar Euclidean geometry. Side is exact: a floating point filter decides clear cases and the remainder is evaluated with arbitrary precision.
type CartesianStrategy struct{}

// orientErrBound is the relative error bound of the 2x2 determinant in floating point, see Shewchuk's orient2d.
const orientErrBound = (3.0 + 16.0*epsilon64) * epsilon64

const epsilon64 = 1.1102230246251565e-16 // 2^-53

func (CartesianStrategy) Side(p, q, r Point) int {
	detLeft := (q.X - p.X) * (r.Y - p.Y)
	detRight := (q.Y - p.Y) * (r.X - p.X)
	det := detLeft - detRight
	if errBound := orientErrBound * (math.Abs(detLeft) + math.Abs(detRight)); errBound < math.Abs(det) {
		if 0.0 < det {
			return 1
		}
		return -1
	}
	switch bigxy.OrientationIndex(geom.Coord{p.X, p.Y}, geom.Coord{q.X, q.Y}, geom.Coord{r.X, r.Y}) {
	case orientation.CounterClockwise:
		return 1
	case orientation.Clockwise:
		return -1
	}
	return 0
}

func (CartesianStrategy) Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Intersection returns the crossing point of two segments. The point is interpolated along the shorter segment, coordinates of horizontal or vertical segments are taken exactly, and the result is clamped to the bounding boxes of both segments so that it is independent of the operand order up to rounding.
func (CartesianStrategy) Intersection(a0, a1, b0, b1 Point) Point {
	da, db := a1.Sub(a0), b1.Sub(b0)
	div := da.PerpDot(db)
	if div == 0.0 {
		return a0
	}

	var p Point
	if da.Dot(da) <= db.Dot(db) {
		p = a0.Interpolate(a1, math.Max(0.0, math.Min(1.0, b0.Sub(a0).PerpDot(db)/div)))
	} else {
		p = b0.Interpolate(b1, math.Max(0.0, math.Min(1.0, b0.Sub(a0).PerpDot(da)/div)))
	}
	if a0.X == a1.X {
		p.X = a0.X
	} else if b0.X == b1.X {
		p.X = b0.X
	}
	if a0.Y == a1.Y {
		p.Y = a0.Y
	} else if b0.Y == b1.Y {
		p.Y = b0.Y
	}

	boxA, boxB := BoxOf(a0, a1), BoxOf(b0, b1)
	box := Box{
		Min: Point{math.Max(boxA.Min.X, boxB.Min.X), math.Max(boxA.Min.Y, boxB.Min.Y)},
		Max: Point{math.Min(boxA.Max.X, boxB.Max.X), math.Min(boxA.Max.Y, boxB.Max.Y)},
	}
	if !box.IsEmpty() {
		p.X = math.Max(box.Min.X, math.Min(box.Max.X, p.X))
		p.Y = math.Max(box.Min.Y, math.Min(box.Max.Y, p.Y))
	}
	return p
}

////////////////////////////////////////////////////////////////

// SphericalStrategy interprets X as longitude and Y as latitude in degrees on a unit sphere, segments are great circle arcs. Distance is in meters on a sphere with the mean Earth radius.
type SphericalStrategy struct{}

// sphereSideTolerance is the triple product below which three points are considered to lie on one great circle.
const sphereSideTolerance = 1e-15

func toS2(p Point) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(p.Y, p.X))
}

func fromS2(p s2.Point) Point {
	ll := s2.LatLngFromPoint(p)
	return Point{ll.Lng.Degrees(), ll.Lat.Degrees()}
}

func (SphericalStrategy) Side(p, q, r Point) int {
	a, b, c := toS2(p), toS2(q), toS2(r)
	if math.Abs(a.Vector.Cross(b.Vector).Dot(c.Vector)) <= sphereSideTolerance {
		return 0
	}
	return int(s2.RobustSign(a, b, c))
}

func (SphericalStrategy) Distance(p, q Point) float64 {
	d := s2.LatLngFromDegrees(p.Y, p.X).Distance(s2.LatLngFromDegrees(q.Y, q.X))
	return d.Radians() * orb.EarthRadius
}

func (SphericalStrategy) Intersection(a0, a1, b0, b1 Point) Point {
	return fromS2(s2.Intersection(toS2(a0), toS2(a1), toS2(b0), toS2(b1)))
}

////////////////////////////////////////////////////////////////

// GeographicStrategy is like SphericalStrategy but measures distance with the haversine formula.
type GeographicStrategy struct {
	SphericalStrategy
}

func (GeographicStrategy) Distance(p, q Point) float64 {
	return geo.DistanceHaversine(orb.Point{p.X, p.Y}, orb.Point{q.X, q.Y})
}
