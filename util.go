package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used to consider two coordinates equal.
const Epsilon = 1e-10

// equal returns true if a and b are equal with tolerance Epsilon.
func equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

////////////////////////////////////////////////////////////////

// Point is a coordinate in 2D space. OP refers to the line that goes through the origin (0,0) and this point (x,y). For spherical and geographic coordinate systems X is the longitude and Y the latitude in degrees.
type Point struct {
	X, Y float64
}

// Coord returns the j-th coordinate of P, ie. 0 for X and 1 for Y.
func (p Point) Coord(j int) float64 {
	switch j {
	case 0:
		return p.X
	case 1:
		return p.Y
	}
	panic(fmt.Sprintf("coordinate index %d out of range", j))
}

// IsZero returns true if P is exactly zero.
func (p Point) IsZero() bool {
	return p.X == 0.0 && p.Y == 0.0
}

// Equals returns true if P and Q are equal with tolerance Epsilon.
func (p Point) Equals(q Point) bool {
	return equal(p.X, q.X) && equal(p.Y, q.Y)
}

// Neg negates x and y.
func (p Point) Neg() Point {
	return Point{-p.X, -p.Y}
}

// Add adds Q to P.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub subtracts Q from P.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Mul multiplies x and y by f.
func (p Point) Mul(f float64) Point {
	return Point{f * p.X, f * p.Y}
}

// Dot returns the dot product between OP and OQ, ie. zero if perpendicular and |OP|*|OQ| if aligned.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// PerpDot returns the perp dot product between OP and OQ, ie. zero if aligned and |OP|*|OQ| if perpendicular.
func (p Point) PerpDot(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the length of OP.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Angle returns the angle between the x-axis and OP.
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// Interpolate returns a point on PQ that is linearly interpolated by t, ie. t=0 returns P and t=1 returns Q.
func (p Point) Interpolate(q Point, t float64) Point {
	return Point{(1-t)*p.X + t*q.X, (1-t)*p.Y + t*q.Y}
}

// less orders points lexicographically by X and then Y.
func (p Point) less(q Point) bool {
	return p.X < q.X || p.X == q.X && p.Y < q.Y
}

func (p Point) String() string {
	return fmt.Sprintf("(%g %g)", p.X, p.Y)
}

////////////////////////////////////////////////////////////////

// Box is an axis-aligned bounding box. The zero box with Min greater than Max is empty, see EmptyBox.
type Box struct {
	Min, Max Point
}

// EmptyBox returns a box that contains nothing and that extends to any point or box it is combined with.
func EmptyBox() Box {
	return Box{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

// BoxOf returns the bounding box of the given points.
func BoxOf(ps ...Point) Box {
	b := EmptyBox()
	for _, p := range ps {
		b = b.ExtendPoint(p)
	}
	return b
}

// IsEmpty returns true if the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// ExtendPoint returns the smallest box containing both B and P.
func (b Box) ExtendPoint(p Point) Box {
	return Box{
		Min: Point{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)},
		Max: Point{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)},
	}
}

// Extend returns the smallest box containing both B and C.
func (b Box) Extend(c Box) Box {
	if c.IsEmpty() {
		return b
	} else if b.IsEmpty() {
		return c
	}
	return b.ExtendPoint(c.Min).ExtendPoint(c.Max)
}

// Intersects returns true if B and C overlap or touch.
func (b Box) Intersects(c Box) bool {
	return b.Min.X <= c.Max.X && c.Min.X <= b.Max.X && b.Min.Y <= c.Max.Y && c.Min.Y <= b.Max.Y
}

// ContainsPoint returns true if P lies inside or on the boundary of B.
func (b Box) ContainsPoint(p Point) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X && b.Min.Y <= p.Y && p.Y <= b.Max.Y
}

// Area returns the area of B.
func (b Box) Area() float64 {
	if b.IsEmpty() {
		return 0.0
	}
	return (b.Max.X - b.Min.X) * (b.Max.Y - b.Min.Y)
}

// Expand grows B by d in every direction.
func (b Box) Expand(d float64) Box {
	if b.IsEmpty() {
		return b
	}
	return Box{Point{b.Min.X - d, b.Min.Y - d}, Point{b.Max.X + d, b.Max.Y + d}}
}

// Ring returns the closed counter clockwise ring of the four corners of B.
func (b Box) Ring() Ring {
	if b.IsEmpty() {
		return nil
	}
	return Ring{b.Min, {b.Max.X, b.Min.Y}, b.Max, {b.Min.X, b.Max.Y}, b.Min}
}

func (b Box) String() string {
	return fmt.Sprintf("[%g; %g]--[%g; %g]", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

////////////////////////////////////////////////////////////////

// Matrix is used for affine transformations. Be aware that concatenating transformation function will be evaluated right-to-left! So in Identity.Rotate(30).Translate(20,0) will first translate 20 points horizontally and then rotate 30 degrees counter clockwise.
type Matrix [2][3]float64

var Identity = Matrix{
	{1.0, 0.0, 0.0},
	{0.0, 1.0, 0.0},
}

func (m Matrix) Mul(q Matrix) Matrix {
	return Matrix{{
		m[0][0]*q[0][0] + m[0][1]*q[1][0],
		m[0][0]*q[0][1] + m[0][1]*q[1][1],
		m[0][0]*q[0][2] + m[0][1]*q[1][2] + m[0][2],
	}, {
		m[1][0]*q[0][0] + m[1][1]*q[1][0],
		m[1][0]*q[0][1] + m[1][1]*q[1][1],
		m[1][0]*q[0][2] + m[1][1]*q[1][2] + m[1][2],
	}}
}

func (m Matrix) Dot(p Point) Point {
	return Point{
		m[0][0]*p.X + m[0][1]*p.Y + m[0][2],
		m[1][0]*p.X + m[1][1]*p.Y + m[1][2],
	}
}

func (m Matrix) Translate(x, y float64) Matrix {
	return m.Mul(Matrix{
		{1.0, 0.0, x},
		{0.0, 1.0, y},
	})
}

func (m Matrix) Rotate(rot float64) Matrix {
	sintheta, costheta := math.Sincos(rot * math.Pi / 180.0)
	return m.Mul(Matrix{
		{costheta, -sintheta, 0.0},
		{sintheta, costheta, 0.0},
	})
}

func (m Matrix) Scale(x, y float64) Matrix {
	if equal(x, 0.0) && equal(y, 0.0) {
		panic("cannot scale affine transformation matrix to zero in x and y")
	}
	return m.Mul(Matrix{
		{x, 0.0, 0.0},
		{0.0, y, 0.0},
	})
}

// Det returns the matrix determinant, a negative value means the transformation mirrors and flips ring orientation.
func (m Matrix) Det() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

func (m Matrix) String() string {
	return fmt.Sprintf("(%g %g; %g %g) + (%g,%g)", m[0][0], m[0][1], m[1][0], m[1][1], m[0][2], m[1][2])
}
