// Package bpq provides the bounded priority queue backing top-k selection.
package bpq

// A Queue retains at most capacity elements, evicting the worst-ranked
// survivor whenever a better element arrives at capacity. Rank ties break by
// arrival order, earlier arrivals ranking higher. Internally the worst
// survivor sits at the heap root, so an offer at capacity costs O(log
// capacity).
type Queue[T any] struct {
	capacity int
	cmp      func(a T, b T) int
	items    []entry[T]
	seq      uint64
}

type entry[T any] struct {
	el  T
	seq uint64
}

// CreateQueue produces an empty Queue retaining the capacity best elements per cmp,
// where a positive cmp(a, b) ranks a above b
func CreateQueue[T any](capacity int, cmp func(a T, b T) int) *Queue[T] {
	return &Queue[T]{capacity: capacity, cmp: cmp}
}

// Len returns the number of retained elements
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Offer inserts el, evicting the worst survivor when the queue is at capacity
// and el outranks it. Offers to a queue with no capacity are dropped.
func (q *Queue[T]) Offer(el T) {
	if q.capacity <= 0 {
		return
	}
	e := entry[T]{el: el, seq: q.seq}
	q.seq++
	if len(q.items) < q.capacity {
		q.items = append(q.items, e)
		q.up(len(q.items) - 1)
		return
	}
	if q.worse(q.items[0], e) {
		q.items[0] = e
		q.down(0)
	}
}

// Drain empties the queue, returning the retained elements in rank order,
// best first
func (q *Queue[T]) Drain() []T {
	res := make([]T, len(q.items))
	for i := len(q.items) - 1; i >= 0; i-- {
		res[i] = q.items[0].el
		last := len(q.items) - 1
		q.items[0] = q.items[last]
		q.items = q.items[:last]
		if last > 0 {
			q.down(0)
		}
	}
	return res
}

// worse returns true iff a ranks strictly below b
func (q *Queue[T]) worse(a entry[T], b entry[T]) bool {
	if c := q.cmp(a.el, b.el); c != 0 {
		return c < 0
	}
	return a.seq > b.seq
}

func (q *Queue[T]) up(j int) {
	for {
		i := (j - 1) / 2 // parent
		if i == j || !q.worse(q.items[j], q.items[i]) {
			break
		}
		q.items[i], q.items[j] = q.items[j], q.items[i]
		j = i
	}
}

func (q *Queue[T]) down(i0 int) {
	n := len(q.items)
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 { // j1 < 0 after int overflow
			break
		}
		j := j1 // left child
		if j2 := j1 + 1; j2 < n && q.worse(q.items[j2], q.items[j1]) {
			j = j2 // = 2*i + 2  // right child
		}
		if !q.worse(q.items[j], q.items[i]) {
			break
		}
		q.items[i], q.items[j] = q.items[j], q.items[i]
		i = j
	}
}
