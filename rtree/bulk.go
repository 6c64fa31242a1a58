package rtree

import (
	"math"
	"sort"
)

// BulkLoad builds a tree with DefaultOptions from the items using sort-tile-recursive packing.
func BulkLoad[T comparable](items []Item[T]) *RTree[T] {
	t := &RTree[T]{}
	t.Load(items)
	return t
}

// Load replaces the contents of the tree by the items, packing them with the sort-tile-recursive algorithm. Nodes are filled evenly so that every node has at least MinEntries entries.
func (t *RTree[T]) Load(items []Item[T]) {
	t.nodes, t.free, t.root, t.size = nil, nil, 0, len(items)
	if len(items) == 0 {
		return
	}

	entries := make([]entry[T], len(items))
	for i, item := range items {
		entries[i] = entry[T]{box: item.Box, value: item.Value}
	}

	isLeaf := true
	for {
		nodes := t.pack(entries, isLeaf)
		if len(nodes) == 1 {
			t.root = nodes[0]
			return
		}
		entries = entries[:0:0]
		for _, nodeIdx := range nodes {
			entries = append(entries, entry[T]{box: t.bound(nodeIdx), child: nodeIdx})
		}
		isLeaf = false
	}
}

// pack groups the entries into nodes of one level and returns their indices.
func (t *RTree[T]) pack(entries []entry[T], isLeaf bool) []int {
	maxEntries := t.Options().MaxEntries
	numNodes := (len(entries) + maxEntries - 1) / maxEntries
	numSlabs := int(math.Ceil(math.Sqrt(float64(numNodes))))

	sortByCenter(entries, 0)
	var nodes []int
	for _, slab := range splitEvenly(entries, numSlabs) {
		sortByCenter(slab, 1)
		for _, group := range splitEvenly(slab, (len(slab)+maxEntries-1)/maxEntries) {
			nodeIdx := t.newNode(isLeaf)
			for _, e := range group {
				t.appendEntry(nodeIdx, e)
			}
			nodes = append(nodes, nodeIdx)
		}
	}
	return nodes
}

func sortByCenter[T comparable](entries []entry[T], axis int) {
	sort.SliceStable(entries, func(i, j int) bool {
		xi, yi := center(entries[i].box)
		xj, yj := center(entries[j].box)
		if axis == 0 {
			return xi < xj
		}
		return yi < yj
	})
}

// splitEvenly splits entries into n consecutive parts whose sizes differ by at most one.
func splitEvenly[T comparable](entries []entry[T], n int) [][]entry[T] {
	if n <= 1 {
		return [][]entry[T]{entries}
	}
	parts := make([][]entry[T], 0, n)
	start := 0
	for i := 0; i < n; i++ {
		end := start + (len(entries)-start)/(n-i)
		parts = append(parts, entries[start:end])
		start = end
	}
	return parts
}
