package rtree

import (
	"math"
	"sort"
)

// splitNode splits the node into two nodes using the configured policy. The
// first group of entries stays in the node, and the second group moves to a
// newly created node. The return value is the index of the new node.
func (t *RTree[T]) splitNode(nodeIdx int) int {
	opts := t.Options()
	entries := t.node(nodeIdx).entries

	var groupA, groupB []entry[T]
	switch opts.Split {
	case LinearSplit:
		groupA, groupB = linearSplit(entries, opts.MinEntries)
	case RStarSplit:
		groupA, groupB = rstarSplit(entries, opts.MinEntries)
	default:
		groupA, groupB = quadraticSplit(entries, opts.MinEntries)
	}

	newNodeIdx := t.newNode(t.node(nodeIdx).isLeaf)
	n := t.node(nodeIdx)
	n.entries = groupA
	for _, e := range groupB {
		t.appendEntry(newNodeIdx, e)
	}
	return newNodeIdx
}

// distribute assigns the remaining entries one at a time to the group whose box grows least, ties are broken by smaller area and then fewer entries. When a group needs all remaining entries to reach minEntries it receives them.
func distribute[T comparable](seedA, seedB entry[T], rest []entry[T], minEntries int, pickNext func(rest []entry[T], boxA, boxB Box) int) ([]entry[T], []entry[T]) {
	groupA, groupB := []entry[T]{seedA}, []entry[T]{seedB}
	boxA, boxB := seedA.box, seedB.box
	rest = append([]entry[T](nil), rest...)
	for 0 < len(rest) {
		if len(groupA)+len(rest) == minEntries {
			groupA = append(groupA, rest...)
			break
		} else if len(groupB)+len(rest) == minEntries {
			groupB = append(groupB, rest...)
			break
		}

		i := pickNext(rest, boxA, boxB)
		e := rest[i]
		rest = append(rest[:i], rest[i+1:]...)

		dA, dB := enlargement(boxA, e.box), enlargement(boxB, e.box)
		toA := dA < dB
		if dA == dB {
			if aA, aB := area(boxA), area(boxB); aA != aB {
				toA = aA < aB
			} else {
				toA = len(groupA) <= len(groupB)
			}
		}
		if toA {
			groupA = append(groupA, e)
			boxA = combine(boxA, e.box)
		} else {
			groupB = append(groupB, e)
			boxB = combine(boxB, e.box)
		}
	}
	return groupA, groupB
}

func without[T comparable](entries []entry[T], i, j int) []entry[T] {
	rest := make([]entry[T], 0, len(entries)-2)
	for k, e := range entries {
		if k != i && k != j {
			rest = append(rest, e)
		}
	}
	return rest
}

// quadraticSplit is Guttman's quadratic split: the seeds are the pair that would waste the most area in one node, and the next entry assigned is the one with the strongest preference for a group.
func quadraticSplit[T comparable](entries []entry[T], minEntries int) ([]entry[T], []entry[T]) {
	seedA, seedB := 0, 1
	worst := math.Inf(-1)
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			d := area(combine(entries[i].box, entries[j].box)) - area(entries[i].box) - area(entries[j].box)
			if worst < d {
				worst = d
				seedA, seedB = i, j
			}
		}
	}
	pickNext := func(rest []entry[T], boxA, boxB Box) int {
		best, bestDiff := 0, math.Inf(-1)
		for i, e := range rest {
			if diff := math.Abs(enlargement(boxA, e.box) - enlargement(boxB, e.box)); bestDiff < diff {
				best, bestDiff = i, diff
			}
		}
		return best
	}
	return distribute(entries[seedA], entries[seedB], without(entries, seedA, seedB), minEntries, pickNext)
}

// linearSplit is Guttman's linear split: the seeds are the pair with the greatest normalized separation along either axis, remaining entries are assigned in order.
func linearSplit[T comparable](entries []entry[T], minEntries int) ([]entry[T], []entry[T]) {
	seedA, seedB := 0, 1
	bestSep := math.Inf(-1)
	for axis := 0; axis < 2; axis++ {
		lo := func(b Box) float64 { return b.MinX }
		hi := func(b Box) float64 { return b.MaxX }
		if axis == 1 {
			lo = func(b Box) float64 { return b.MinY }
			hi = func(b Box) float64 { return b.MaxY }
		}

		// entry with the highest low side and entry with the lowest high side
		highestLow, lowestHigh := 0, 0
		minLo, maxHi := math.Inf(1), math.Inf(-1)
		for i, e := range entries {
			if lo(entries[highestLow].box) < lo(e.box) {
				highestLow = i
			}
			if hi(e.box) < hi(entries[lowestHigh].box) {
				lowestHigh = i
			}
			minLo = math.Min(minLo, lo(e.box))
			maxHi = math.Max(maxHi, hi(e.box))
		}
		if highestLow == lowestHigh {
			continue
		}
		width := maxHi - minLo
		if width <= 0.0 {
			width = 1.0
		}
		if sep := (lo(entries[highestLow].box) - hi(entries[lowestHigh].box)) / width; bestSep < sep {
			bestSep = sep
			seedA, seedB = lowestHigh, highestLow
		}
	}
	pickNext := func([]entry[T], Box, Box) int {
		return 0
	}
	return distribute(entries[seedA], entries[seedB], without(entries, seedA, seedB), minEntries, pickNext)
}

// rstarSplit is the split of the R*-tree: the axis is chosen with the smallest sum of margins over all distributions, and along that axis the distribution with the least overlap, ties broken by the least area.
func rstarSplit[T comparable](entries []entry[T], minEntries int) ([]entry[T], []entry[T]) {
	n := len(entries)
	sorts := func(axis int) [2][]entry[T] {
		var sorted [2][]entry[T]
		for k := 0; k < 2; k++ {
			sorted[k] = append([]entry[T](nil), entries...)
			key := func(b Box) (float64, float64) {
				if axis == 0 {
					if k == 0 {
						return b.MinX, b.MaxX
					}
					return b.MaxX, b.MinX
				}
				if k == 0 {
					return b.MinY, b.MaxY
				}
				return b.MaxY, b.MinY
			}
			sort.SliceStable(sorted[k], func(i, j int) bool {
				ki0, ki1 := key(sorted[k][i].box)
				kj0, kj1 := key(sorted[k][j].box)
				return ki0 < kj0 || ki0 == kj0 && ki1 < kj1
			})
		}
		return sorted
	}

	bestAxis, bestMargin := 0, math.Inf(1)
	var candidates [2][2][]entry[T]
	for axis := 0; axis < 2; axis++ {
		candidates[axis] = sorts(axis)
		sum := 0.0
		for _, sorted := range candidates[axis] {
			for k := minEntries; k <= n-minEntries; k++ {
				sum += margin(boundEntries(sorted[:k])) + margin(boundEntries(sorted[k:]))
			}
		}
		if sum < bestMargin {
			bestAxis, bestMargin = axis, sum
		}
	}

	var best []entry[T]
	bestK := 0
	bestOverlap, bestArea := math.Inf(1), math.Inf(1)
	for _, sorted := range candidates[bestAxis] {
		for k := minEntries; k <= n-minEntries; k++ {
			boxA, boxB := boundEntries(sorted[:k]), boundEntries(sorted[k:])
			o, a := overlapArea(boxA, boxB), area(boxA)+area(boxB)
			if o < bestOverlap || o == bestOverlap && a < bestArea {
				best, bestK = sorted, k
				bestOverlap, bestArea = o, a
			}
		}
	}
	return append([]entry[T](nil), best[:bestK]...), append([]entry[T](nil), best[bestK:]...)
}
