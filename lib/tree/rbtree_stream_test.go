package tree

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRBStreamTraversal(t *testing.T) {
	set := NewRBSetOf[int](5, 3, 8, 1, 4)
	stream := set.Stream()
	require.Equal(t, int64(5), stream.Rest())

	elem, ok := stream.Peek()
	require.True(t, ok)
	require.Equal(t, 1, elem)
	// peek does not advance
	elem, ok = stream.Peek()
	require.True(t, ok)
	require.Equal(t, 1, elem)
	require.Equal(t, int64(5), stream.Rest())

	collected := make([]int, 0, 5)
	for stream.HasNext() {
		elem, ok = stream.Next()
		require.True(t, ok)
		collected = append(collected, elem)
	}
	require.Equal(t, []int{1, 3, 4, 5, 8}, collected)
	require.Equal(t, int64(0), stream.Rest())
	_, ok = stream.Next()
	require.False(t, ok)
	_, ok = stream.Peek()
	require.False(t, ok)
}

func TestRBStreamCutFromOneVersion(t *testing.T) {
	set := NewRBSetOf[uint64](7, 11, 13)
	stream := set.Stream()
	next := set.Remove(11)
	require.False(t, next.Contains(11))

	collected := make([]uint64, 0, 3)
	for stream.HasNext() {
		elem, _ := stream.Next()
		collected = append(collected, elem)
	}
	require.Equal(t, []uint64{7, 11, 13}, collected)

	collected = collected[:0]
	for stream = next.Stream(); stream.HasNext(); {
		elem, _ := stream.Next()
		collected = append(collected, elem)
	}
	require.Equal(t, []uint64{7, 13}, collected)
}

func TestRBStreamEmptyAndNil(t *testing.T) {
	stream := NewRBSet[int]().Stream()
	require.False(t, stream.HasNext())
	require.Equal(t, int64(0), stream.Rest())
	_, ok := stream.Next()
	require.False(t, ok)

	var nilStream *RBStream[int]
	require.False(t, nilStream.HasNext())
	require.Equal(t, int64(0), nilStream.Rest())
}

func TestRBMapStream(t *testing.T) {
	m := NewRBMapOf[uint64, string](
		RBEntry[uint64, string]{Key: 2, Val: "b"},
		RBEntry[uint64, string]{Key: 1, Val: "a"},
		RBEntry[uint64, string]{Key: 3, Val: "c"},
	)
	stream := m.Stream()
	collected := make([]RBEntry[uint64, string], 0, 3)
	for stream.HasNext() {
		entry, _ := stream.Next()
		collected = append(collected, entry)
	}
	require.Equal(t, []RBEntry[uint64, string]{
		{Key: 1, Val: "a"},
		{Key: 2, Val: "b"},
		{Key: 3, Val: "c"},
	}, collected)
}

func TestFolds(t *testing.T) {
	set := NewRBSetOf[int](5, 3, 8, 1, 4)

	sum := FoldLeft(set.Root(), 0, func(acc int, elem int) int {
		return acc + elem
	})
	require.Equal(t, 21, sum)

	asc := FoldLeft(set.Root(), "", func(acc string, elem int) string {
		return acc + strconv.Itoa(elem)
	})
	require.Equal(t, "13458", asc)

	desc := FoldRight(set.Root(), "", func(elem int, acc string) string {
		return acc + strconv.Itoa(elem)
	})
	require.Equal(t, "85431", desc)

	// foldr with cons rebuilds the ascending order
	elems := FoldRight(set.Root(), []int(nil), func(elem int, acc []int) []int {
		return append([]int{elem}, acc...)
	})
	require.Equal(t, []int{1, 3, 4, 5, 8}, elems)

	empty := NewRBSet[int]()
	require.Equal(t, 42, FoldLeft(empty.Root(), 42, func(acc int, _ int) int {
		return acc + 1
	}))
}

func TestTryFoldLeftStopsAtFirstError(t *testing.T) {
	set := NewRBSetOf[int](5, 3, 8, 1, 4)

	acc, err := TryFoldLeft(set.Root(), 0, func(acc int, elem int) (int, error) {
		return acc + elem, nil
	})
	require.NoError(t, err)
	require.Equal(t, 21, acc)

	visited := 0
	acc, err = TryFoldLeft(set.Root(), 0, func(acc int, elem int) (int, error) {
		visited++
		if elem >= 4 {
			return acc, errors.New("limit reached")
		}
		return acc + elem, nil
	})
	require.EqualError(t, err, "limit reached")
	require.Equal(t, 4, acc)
	require.Equal(t, 3, visited)
}
