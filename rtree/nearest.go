package rtree

import (
	"container/heap"
	"iter"
)

// Nearest iterates over the values in ascending order of Euclidean distance between (x,y) and their box.
func (t *RTree[T]) Nearest(x, y float64) iter.Seq2[T, float64] {
	return t.NearestFunc(func(b Box) float64 {
		return MinDist(b, x, y)
	})
}

// NearestFunc iterates over the values in ascending order of dist. The distance of a box must never exceed the distance of any box it contains, so that the distance of a subtree's box is a lower bound for all values in the subtree.
func (t *RTree[T]) NearestFunc(dist func(Box) float64) iter.Seq2[T, float64] {
	return func(yield func(T, float64) bool) {
		if t.size == 0 {
			return
		}
		queue := entriesQueue[T]{}
		enqueueNode := func(n *node[T]) {
			for _, e := range n.entries {
				heap.Push(&queue, queueItem[T]{e, dist(e.box)})
			}
		}

		enqueueNode(t.node(t.root))
		for 0 < len(queue) {
			nearest := heap.Pop(&queue).(queueItem[T])
			if nearest.child == 0 {
				if !yield(nearest.value, nearest.dist) {
					return
				}
			} else {
				enqueueNode(t.node(nearest.child))
			}
		}
	}
}

// NearestK returns the k values nearest to (x,y), the closest first.
func (t *RTree[T]) NearestK(x, y float64, k int) []T {
	values := make([]T, 0, k)
	if k <= 0 {
		return values
	}
	for value := range t.Nearest(x, y) {
		values = append(values, value)
		if len(values) == k {
			break
		}
	}
	return values
}

type queueItem[T comparable] struct {
	entry[T]
	dist float64
}

type entriesQueue[T comparable] []queueItem[T]

func (q entriesQueue[T]) Len() int {
	return len(q)
}

// Less orders by distance, values before subtrees at equal distance so that they are reported as soon as possible.
func (q entriesQueue[T]) Less(i int, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].child == 0 && q[j].child != 0
}

func (q entriesQueue[T]) Swap(i int, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *entriesQueue[T]) Push(x any) {
	*q = append(*q, x.(queueItem[T]))
}

func (q *entriesQueue[T]) Pop() any {
	e := (*q)[len(*q)-1]
	*q = (*q)[:len(*q)-1]
	return e
}
