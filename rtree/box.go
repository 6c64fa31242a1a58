package rtree

import (
	"fmt"
	"math"
)

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// PointBox returns the degenerate box of a single point.
func PointBox(x, y float64) Box {
	return Box{x, y, x, y}
}

func (b Box) String() string {
	return fmt.Sprintf("[%g; %g]--[%g; %g]", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// combine gives the smallest bounding box containing both b1 and b2.
func combine(b1, b2 Box) Box {
	return Box{
		MinX: math.Min(b1.MinX, b2.MinX),
		MinY: math.Min(b1.MinY, b2.MinY),
		MaxX: math.Max(b1.MaxX, b2.MaxX),
		MaxY: math.Max(b1.MaxY, b2.MaxY),
	}
}

// enlargement returns how much additional area the existing Box would have to
// enlarge by to accommodate the additional Box.
func enlargement(existing, additional Box) float64 {
	return area(combine(existing, additional)) - area(existing)
}

func area(b Box) float64 {
	return (b.MaxX - b.MinX) * (b.MaxY - b.MinY)
}

// margin is half the perimeter.
func margin(b Box) float64 {
	return (b.MaxX - b.MinX) + (b.MaxY - b.MinY)
}

func overlap(b1, b2 Box) bool {
	return b1.MinX <= b2.MaxX && b2.MinX <= b1.MaxX &&
		b1.MinY <= b2.MaxY && b2.MinY <= b1.MaxY
}

func overlapArea(b1, b2 Box) float64 {
	w := math.Min(b1.MaxX, b2.MaxX) - math.Max(b1.MinX, b2.MinX)
	h := math.Min(b1.MaxY, b2.MaxY) - math.Max(b1.MinY, b2.MinY)
	if w <= 0.0 || h <= 0.0 {
		return 0.0
	}
	return w * h
}

// within returns true if inner is completely inside outer.
func within(inner, outer Box) bool {
	return outer.MinX <= inner.MinX && inner.MaxX <= outer.MaxX &&
		outer.MinY <= inner.MinY && inner.MaxY <= outer.MaxY
}

func containsPoint(b Box, x, y float64) bool {
	return b.MinX <= x && x <= b.MaxX && b.MinY <= y && y <= b.MaxY
}

func center(b Box) (float64, float64) {
	return (b.MinX + b.MaxX) / 2.0, (b.MinY + b.MaxY) / 2.0
}

// MinDist returns the smallest Euclidean distance between the point (x,y) and any point of b, it is zero when the point lies inside.
func MinDist(b Box, x, y float64) float64 {
	dx := math.Max(0.0, math.Max(b.MinX-x, x-b.MaxX))
	dy := math.Max(0.0, math.Max(b.MinY-y, y-b.MaxY))
	return math.Hypot(dx, dy)
}

func boundEntries[T comparable](entries []entry[T]) Box {
	b := entries[0].box
	for _, e := range entries[1:] {
		b = combine(b, e.box)
	}
	return b
}
