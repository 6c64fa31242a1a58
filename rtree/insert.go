package rtree

import (
	"math"
	"sort"
)

// insertState tracks, per node height, whether R* forced reinsertion already happened during one top-level insertion.
type insertState struct {
	reinserted map[int]bool
}

// Insert adds a new value to the RTree.
func (t *RTree[T]) Insert(box Box, value T) {
	if t.root == 0 {
		t.root = t.newNode(true)
	}
	t.insertEntry(entry[T]{box: box, value: value}, 0, &insertState{})
	t.size++
}

// insertEntry places e in a node at the given height, where leaves have height zero.
func (t *RTree[T]) insertEntry(e entry[T], height int, state *insertState) {
	level := t.nodeHeight(t.root) - height
	nodeIdx := t.chooseBestNode(e.box, level)
	t.appendEntry(nodeIdx, e)
	t.adjustBoxesUpwards(nodeIdx, e.box)
	t.handleOverflow(nodeIdx, height, state)
}

// handleOverflow splits nodes with too many entries from the given node up to the root, possibly growing the tree. With the R* policy the first overflow at each height reinserts entries instead.
func (t *RTree[T]) handleOverflow(nodeIdx, height int, state *insertState) {
	opts := t.Options()
	for len(t.node(nodeIdx).entries) > opts.MaxEntries {
		if opts.Split == RStarSplit && nodeIdx != t.root && !state.reinserted[height] {
			if state.reinserted == nil {
				state.reinserted = map[int]bool{}
			}
			state.reinserted[height] = true
			t.forcedReinsert(nodeIdx, height, state)
			return
		}

		newNodeIdx := t.splitNode(nodeIdx)
		if nodeIdx == t.root {
			t.joinRoots(nodeIdx, newNodeIdx)
			return
		}

		parentIdx := t.node(nodeIdx).parent
		t.updateParentEntry(nodeIdx)
		t.appendEntry(parentIdx, entry[T]{box: t.bound(newNodeIdx), child: newNodeIdx})
		nodeIdx = parentIdx
		height++
	}
}

// adjustBoxesUpwards expands the boxes from the given node all the way to the
// root by the given box.
func (t *RTree[T]) adjustBoxesUpwards(nodeIdx int, box Box) {
	for nodeIdx != t.root {
		n := t.node(nodeIdx)
		parent := t.node(n.parent)
		for i := range parent.entries {
			if e := &parent.entries[i]; e.child == nodeIdx {
				e.box = combine(e.box, box)
				break
			}
		}
		nodeIdx = n.parent
	}
}

// updateParentEntry recalculates the box in the parent entry of a node after it lost entries.
func (t *RTree[T]) updateParentEntry(nodeIdx int) {
	parent := t.node(t.node(nodeIdx).parent)
	for i := range parent.entries {
		if parent.entries[i].child == nodeIdx {
			parent.entries[i].box = t.bound(nodeIdx)
			return
		}
	}
}

// shrinkBoxesUpwards recalculates the boxes from the given node up to the root.
func (t *RTree[T]) shrinkBoxesUpwards(nodeIdx int) {
	for nodeIdx != t.root {
		t.updateParentEntry(nodeIdx)
		nodeIdx = t.node(nodeIdx).parent
	}
}

func (t *RTree[T]) joinRoots(root1Idx, root2Idx int) {
	newRootIdx := t.newNode(false)
	t.appendEntry(newRootIdx, entry[T]{box: t.bound(root1Idx), child: root1Idx})
	t.appendEntry(newRootIdx, entry[T]{box: t.bound(root2Idx), child: root2Idx})
	t.root = newRootIdx
	t.node(newRootIdx).parent = 0
}

// chooseBestNode chooses the best node in the tree under which to insert a new
// entry. The Box is the box of the new entry, and the level is the level of
// the tree on which the best node will be found (where the root is at level 0,
// the nodes under the root are level 1 etc.).
func (t *RTree[T]) chooseBestNode(box Box, level int) int {
	rstar := t.Options().Split == RStarSplit
	currentIdx := t.root
	for ; 0 < level; level-- {
		current := t.node(currentIdx)
		var bestEntry int
		if rstar && t.node(current.entries[0].child).isLeaf {
			bestEntry = leastOverlapEnlargement(current.entries, box)
		} else {
			bestEntry = leastEnlargement(current.entries, box)
		}
		currentIdx = current.entries[bestEntry].child
	}
	return currentIdx
}

func leastEnlargement[T comparable](entries []entry[T], box Box) int {
	bestDelta := enlargement(entries[0].box, box)
	bestEntry := 0
	for i := 1; i < len(entries); i++ {
		entryBox := entries[i].box
		delta := enlargement(entryBox, box)
		if delta < bestDelta {
			bestDelta = delta
			bestEntry = i
		} else if delta == bestDelta && area(entryBox) < area(entries[bestEntry].box) {
			// area is used as a tie breaker if the enlargements are the same
			bestEntry = i
		}
	}
	return bestEntry
}

// leastOverlapEnlargement picks the entry whose overlap with its siblings grows the least when enlarged by box, ties are broken by area enlargement and then by area.
func leastOverlapEnlargement[T comparable](entries []entry[T], box Box) int {
	bestEntry := -1
	var bestOverlap, bestDelta float64
	for i, e := range entries {
		grown := combine(e.box, box)
		overlapDelta := 0.0
		for j, sibling := range entries {
			if j != i {
				overlapDelta += overlapArea(grown, sibling.box) - overlapArea(e.box, sibling.box)
			}
		}
		delta := area(grown) - area(e.box)
		if bestEntry == -1 || overlapDelta < bestOverlap ||
			overlapDelta == bestOverlap && (delta < bestDelta || delta == bestDelta && area(e.box) < area(entries[bestEntry].box)) {
			bestEntry = i
			bestOverlap = overlapDelta
			bestDelta = delta
		}
	}
	return bestEntry
}

// reinsertFraction is the share of MaxEntries removed from an overflowing node by R* forced reinsertion.
const reinsertFraction = 0.3

// forcedReinsert removes the entries farthest from the node's center and inserts them again, starting with the closest of them.
func (t *RTree[T]) forcedReinsert(nodeIdx, height int, state *insertState) {
	n := t.node(nodeIdx)
	cx, cy := center(t.bound(nodeIdx))
	dist := func(e entry[T]) float64 {
		x, y := center(e.box)
		return math.Hypot(x-cx, y-cy)
	}
	sort.SliceStable(n.entries, func(i, j int) bool {
		return dist(n.entries[i]) < dist(n.entries[j])
	})

	p := int(math.Ceil(reinsertFraction * float64(t.Options().MaxEntries)))
	keep := len(n.entries) - p
	removed := append([]entry[T](nil), n.entries[keep:]...)
	clear(n.entries[keep:])
	n.entries = n.entries[:keep]
	t.shrinkBoxesUpwards(nodeIdx)

	for _, e := range removed {
		t.insertEntry(e, height, state)
	}
}
