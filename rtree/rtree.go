package rtree

import (
	"iter"

	"github.com/cockroachdb/errors"
)

// Stop is a special sentinel error that can be used to stop a search operation
// without any error.
var Stop = errors.New("stop")

// ErrNotFound is returned when removing a value that is not in the tree.
var ErrNotFound = errors.New("value not found")

// SplitPolicy selects how an overflowing node is divided.
type SplitPolicy int

// see SplitPolicy
const (
	QuadraticSplit SplitPolicy = iota
	LinearSplit
	RStarSplit
)

func (s SplitPolicy) String() string {
	switch s {
	case LinearSplit:
		return "linear"
	case QuadraticSplit:
		return "quadratic"
	case RStarSplit:
		return "rstar"
	}
	return "unknown"
}

// ParseSplitPolicy parses the names returned by SplitPolicy.String.
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	for _, policy := range []SplitPolicy{LinearSplit, QuadraticSplit, RStarSplit} {
		if policy.String() == s {
			return policy, nil
		}
	}
	return 0, errors.Newf("unknown split policy %q", s)
}

// Options are the node size parameters and the split policy of a tree. They are fixed when the tree is created.
type Options struct {
	MinEntries int
	MaxEntries int
	Split      SplitPolicy
}

// DefaultOptions are used for the zero value of RTree.
var DefaultOptions = Options{
	MinEntries: 4,
	MaxEntries: 16,
	Split:      QuadraticSplit,
}

// Validate returns an error if the node size parameters cannot produce a balanced tree.
func (o Options) Validate() error {
	if o.MaxEntries < 2 {
		return errors.Newf("max entries must be at least 2, got %d", o.MaxEntries)
	} else if o.MinEntries < 1 {
		return errors.Newf("min entries must be at least 1, got %d", o.MinEntries)
	} else if o.MaxEntries/2 < o.MinEntries {
		return errors.Newf("min entries %d must be less than or equal to half of the max entries %d", o.MinEntries, o.MaxEntries)
	} else if o.Split < QuadraticSplit || RStarSplit < o.Split {
		return errors.Newf("invalid split policy %d", o.Split)
	}
	return nil
}

////////////////////////////////////////////////////////////////

// node is a node in an R-Tree. nodes can either be leaf nodes holding entries
// for values, or intermediate nodes holding entries for more nodes.
type node[T comparable] struct {
	entries []entry[T]
	parent  int
	isLeaf  bool
}

// entry is an entry under a node, leading either to a value, or more nodes.
type entry[T comparable] struct {
	box Box

	// child is zero for leaf entries
	child int
	value T
}

// Item is a box and value pair used for bulk loading.
type Item[T comparable] struct {
	Box   Box
	Value T
}

// RTree is an in-memory R-Tree holding values of type T with their bounding boxes. Its zero value is an empty tree using DefaultOptions.
//
// A tree may be read concurrently as long as no goroutine modifies it.
type RTree[T comparable] struct {
	opts  Options
	nodes []node[T] // 1-indexed, allowing 0 to represent "nil"
	free  []int
	root  int
	size  int
}

// New returns an empty tree with the given options.
func New[T comparable](opts Options) (*RTree[T], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &RTree[T]{opts: opts}, nil
}

// Options returns the options of the tree.
func (t *RTree[T]) Options() Options {
	if t.opts.MaxEntries == 0 {
		return DefaultOptions
	}
	return t.opts
}

// node converts a 1-indexed node index into a node pointer. The pointer is invalidated by newNode.
func (t *RTree[T]) node(nodeIdx int) *node[T] {
	return &t.nodes[nodeIdx-1]
}

func (t *RTree[T]) newNode(isLeaf bool) int {
	if n := len(t.free); 0 < n {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		*t.node(idx) = node[T]{isLeaf: isLeaf}
		return idx
	}
	t.nodes = append(t.nodes, node[T]{isLeaf: isLeaf})
	return len(t.nodes)
}

func (t *RTree[T]) freeNode(nodeIdx int) {
	*t.node(nodeIdx) = node[T]{}
	t.free = append(t.free, nodeIdx)
}

func (t *RTree[T]) appendEntry(nodeIdx int, e entry[T]) {
	n := t.node(nodeIdx)
	n.entries = append(n.entries, e)
	if e.child != 0 {
		t.node(e.child).parent = nodeIdx
	}
}

// nodeHeight returns the number of levels below the node, leaves have height zero.
func (t *RTree[T]) nodeHeight(nodeIdx int) int {
	h := 0
	for n := t.node(nodeIdx); !n.isLeaf; n = t.node(n.entries[0].child) {
		h++
	}
	return h
}

func (t *RTree[T]) bound(nodeIdx int) Box {
	return boundEntries(t.node(nodeIdx).entries)
}

// Len returns the number of values in the tree.
func (t *RTree[T]) Len() int {
	return t.size
}

// Height returns the number of node levels, zero for an empty tree.
func (t *RTree[T]) Height() int {
	if t.size == 0 {
		return 0
	}
	return t.nodeHeight(t.root) + 1
}

// Extent gives the Box that most closely bounds the RTree. If the RTree is
// empty, then false is returned.
func (t *RTree[T]) Extent() (Box, bool) {
	if t.size == 0 {
		return Box{}, false
	}
	return t.bound(t.root), true
}

// Search calls callback for each value whose box satisfies the predicate, in tree order. If an error is returned from the callback then the search is terminated early. Any error returned from the callback is returned by Search, except for the special Stop sentinel error in which case nil is returned.
func (t *RTree[T]) Search(pred Predicate, callback func(box Box, value T) error) error {
	if t.size == 0 {
		return nil
	}
	var recurse func(int) error
	recurse = func(nodeIdx int) error {
		n := t.node(nodeIdx)
		for _, e := range n.entries {
			if n.isLeaf {
				if !pred.Value(e.box) {
					continue
				}
				if err := callback(e.box, e.value); err == Stop {
					return Stop
				} else if err != nil {
					return err
				}
			} else if pred.Node(e.box) {
				if err := recurse(e.child); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := recurse(t.root); err != nil && err != Stop {
		return err
	}
	return nil
}

// Query returns all values whose box satisfies the predicate.
func (t *RTree[T]) Query(pred Predicate) []T {
	var values []T
	_ = t.Search(pred, func(_ Box, value T) error {
		values = append(values, value)
		return nil
	})
	return values
}

// All iterates over all boxes and values in tree order.
func (t *RTree[T]) All() iter.Seq2[Box, T] {
	return func(yield func(Box, T) bool) {
		_ = t.Search(Satisfies(func(Box) bool { return true }), func(box Box, value T) error {
			if !yield(box, value) {
				return Stop
			}
			return nil
		})
	}
}
