package datastructure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinHeapExtractOrder(t *testing.T) {
	for _, d := range []int{2, 4} {
		h := NewdAryHeap[int](d)
		ranks := []float64{5, 1, 4, 2, 3, 0}
		for i, r := range ranks {
			h.Insert(NewPriorityQueueNode(r, int32(i), i))
		}

		prev := -1.0
		for !h.IsEmpty() {
			n, err := h.ExtractMin()
			require.NoError(t, err)
			require.GreaterOrEqual(t, n.GetRank(), prev)
			prev = n.GetRank()
		}
	}
}

func TestMinHeapTieBreak(t *testing.T) {
	h := NewFourAryHeap[int]()
	// same rank, insertion order reversed from tie rank
	h.Insert(NewPriorityQueueNode(1.0, 7, 7))
	h.Insert(NewPriorityQueueNode(1.0, 3, 3))
	h.Insert(NewPriorityQueueNode(1.0, 5, 5))

	want := []int{3, 5, 7}
	for _, w := range want {
		n, err := h.ExtractMin()
		require.NoError(t, err)
		require.Equal(t, w, n.GetItem())
	}
}

func TestMinHeapDecreaseKey(t *testing.T) {
	h := NewBinaryHeap[int]()
	nodes := make([]*PriorityQueueNode[int], 0, 5)
	for i := 0; i < 5; i++ {
		n := NewPriorityQueueNode(float64(10+i), int32(i), i)
		nodes = append(nodes, n)
		h.Insert(n)
	}

	h.DecreaseKey(nodes[4], 1.0)

	min, err := h.ExtractMin()
	require.NoError(t, err)
	require.Equal(t, 4, min.GetItem())
	require.Equal(t, 1.0, min.GetRank())
}

func TestMinHeapEmpty(t *testing.T) {
	h := NewBinaryHeap[int]()
	_, err := h.ExtractMin()
	require.Error(t, err)
	require.True(t, h.IsEmpty())
	require.Equal(t, 0, h.Size())
}
