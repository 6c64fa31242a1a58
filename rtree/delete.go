package rtree

// Delete removes a single value from the RTree. The box specifies where to
// search for the value (the search box must intersect with the box of the
// value for it to be found and deleted). The returned bool indicates whether
// or not the value could be found and thus removed.
func (t *RTree[T]) Delete(box Box, value T) bool {
	if t.size == 0 {
		return false
	}

	// D1 [Find node containing record]
	foundNode, foundEntry := t.findLeaf(t.root, func(b Box) bool { return overlap(b, box) }, value)
	if foundNode == 0 {
		return false
	}
	t.deleteAt(foundNode, foundEntry)
	return true
}

// Remove removes a single value from the RTree, searching all leaves. It returns ErrNotFound if the value is not in the tree.
func (t *RTree[T]) Remove(value T) error {
	if t.size == 0 {
		return ErrNotFound
	}
	foundNode, foundEntry := t.findLeaf(t.root, func(Box) bool { return true }, value)
	if foundNode == 0 {
		return ErrNotFound
	}
	t.deleteAt(foundNode, foundEntry)
	return nil
}

func (t *RTree[T]) findLeaf(nodeIdx int, visit func(Box) bool, value T) (int, int) {
	n := t.node(nodeIdx)
	for i, e := range n.entries {
		if !visit(e.box) {
			continue
		}
		if n.isLeaf {
			if e.value == value {
				return nodeIdx, i
			}
		} else if found, entryIdx := t.findLeaf(e.child, visit, value); found != 0 {
			return found, entryIdx
		}
	}
	return 0, 0
}

func (t *RTree[T]) deleteAt(nodeIdx, entryIdx int) {
	// D2 [Delete record]
	t.deleteEntry(nodeIdx, entryIdx)
	t.size--

	// D3 [Propagate changes]
	t.condenseTree(nodeIdx)

	// D4 [Shorten tree]
	for root := t.node(t.root); !root.isLeaf && len(root.entries) == 1; root = t.node(t.root) {
		oldRoot := t.root
		t.root = root.entries[0].child
		t.node(t.root).parent = 0
		t.freeNode(oldRoot)
	}
}

func (t *RTree[T]) deleteEntry(nodeIdx int, entryIdx int) {
	n := t.node(nodeIdx)
	last := len(n.entries) - 1
	n.entries[entryIdx] = n.entries[last]
	n.entries[last] = entry[T]{}
	n.entries = n.entries[:last]
}

func (t *RTree[T]) condenseTree(leafIdx int) {
	// CT1 [Initialise]
	type orphan struct {
		e      entry[T]
		height int
	}
	var orphans []orphan
	minEntries := t.Options().MinEntries

	current, height := leafIdx, 0
	for current != t.root {
		// CT2 [Find Parent Entry]
		currentNode := t.node(current)
		parentIdx := currentNode.parent
		parentNode := t.node(parentIdx)
		entryIdx := -1
		for i := range parentNode.entries {
			if parentNode.entries[i].child == current {
				entryIdx = i
				break
			}
		}

		if len(currentNode.entries) < minEntries {
			// CT3 [Eliminate Under-Full Node]
			for _, e := range currentNode.entries {
				orphans = append(orphans, orphan{e, height})
			}
			t.deleteEntry(parentIdx, entryIdx)
			t.freeNode(current)
		} else {
			// CT4 [Adjust Covering Rectangle]
			parentNode.entries[entryIdx].box = t.bound(current)
		}

		// CT5 [Move Up One Level In Tree]
		current = parentIdx
		height++
	}

	if root := t.node(t.root); !root.isLeaf && len(root.entries) == 0 {
		// all subtrees were eliminated, restart from an empty leaf
		root.isLeaf = true
	}

	// CT6 [Reinsert orphaned entries]
	state := &insertState{}
	for _, o := range orphans {
		if o.e.child == 0 {
			t.insertEntry(o.e, 0, state)
			continue
		}
		// a subtree taller than the remaining tree is reinserted value by value
		if t.nodeHeight(t.root) < o.height {
			t.reinsertValues(o.e.child, state)
			continue
		}
		t.insertEntry(o.e, o.height, state)
	}
}

// reinsertValues inserts every value of a detached subtree and frees its nodes.
func (t *RTree[T]) reinsertValues(nodeIdx int, state *insertState) {
	n := t.node(nodeIdx)
	entries := append([]entry[T](nil), n.entries...)
	isLeaf := n.isLeaf
	t.freeNode(nodeIdx)
	for _, e := range entries {
		if isLeaf {
			t.insertEntry(e, 0, state)
		} else {
			t.reinsertValues(e.child, state)
		}
	}
}
