package datastructure

import (
	"errors"
)

type PriorityQueueNode[T comparable] struct {
	rank    float64
	tieRank int32
	item    T
	itemPos int
}

func (p *PriorityQueueNode[T]) GetItem() T {
	return p.item
}

func (p *PriorityQueueNode[T]) GetRank() float64 {
	return p.rank
}

func NewPriorityQueueNode[T comparable](rank float64, tieRank int32, item T) *PriorityQueueNode[T] {
	return &PriorityQueueNode[T]{rank: rank, tieRank: tieRank, item: item}
}

// MinHeap d-ary heap priority queue. Equal ranks are ordered by tieRank so
// that extraction order is deterministic.
type MinHeap[T comparable] struct {
	heap []*PriorityQueueNode[T]
	d    int
}

func NewBinaryHeap[T comparable]() *MinHeap[T] {
	return NewdAryHeap[T](2)
}

func NewFourAryHeap[T comparable]() *MinHeap[T] {
	return NewdAryHeap[T](4)
}

func NewdAryHeap[T comparable](d int) *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]*PriorityQueueNode[T], 0),
		d:    d,
	}
}

func (h *MinHeap[T]) Preallocate(maxSearchSize int) {
	h.heap = make([]*PriorityQueueNode[T], 0, maxSearchSize)
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) IsEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) less(i, j int) bool {
	if h.heap[i].rank != h.heap[j].rank {
		return h.heap[i].rank < h.heap[j].rank
	}
	return h.heap[i].tieRank < h.heap[j].tieRank
}

func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / h.d
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.heap[i].itemPos = i
	h.heap[j].itemPos = j
}

// heapifyUp restore heap property upward from index. O(logN) tree height.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(index, h.parent(index)) {
		h.swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// heapifyDown restore heap property downward from index. O(logN) tree height.
func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		smallest := index
		first := index*h.d + 1
		for c := first; c < first+h.d && c < len(h.heap); c++ {
			if h.less(c, smallest) {
				smallest = c
			}
		}
		if smallest == index {
			return
		}
		h.swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap[T]) Insert(node *PriorityQueueNode[T]) {
	h.heap = append(h.heap, node)
	node.itemPos = len(h.heap) - 1
	h.heapifyUp(node.itemPos)
}

func (h *MinHeap[T]) ExtractMin() (*PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return nil, errors.New("heap is empty")
	}
	min := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}
	return min, nil
}

// DecreaseKey lower the rank of a node already in the queue.
func (h *MinHeap[T]) DecreaseKey(node *PriorityQueueNode[T], newRank float64) {
	node.rank = newRank
	h.heapifyUp(node.itemPos)
}
