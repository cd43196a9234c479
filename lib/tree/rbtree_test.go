package tree

import (
	"fmt"
	randv2 "math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"
)

func TestRBNodeNilLeaf(t *testing.T) {
	var nilNode RBNode[uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *rbNode[uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)
	require.False(t, nilNode.HasElem())
	require.Equal(t, Black, nilNode.Color())
	require.Nil(t, nilNode.Left())
	require.Nil(t, nilNode.Right())
}

type checkData struct {
	color RBColor
	elem  uint64
}

func requireSeq(t *testing.T, set RBSet[uint64], expected []checkData) {
	count := int64(0)
	set.Foreach(func(idx int64, color RBColor, elem uint64) bool {
		require.Equal(t, expected[idx].color, color)
		require.Equal(t, expected[idx].elem, elem)
		count++
		return true
	})
	require.Equal(t, int64(len(expected)), count)
	require.Equal(t, int64(len(expected)), set.Len())
	require.NoError(t, RedViolationValidate[uint64](set.Root()))
	require.NoError(t, BlackViolationValidate[uint64](set.Root()))
}

func TestRBSetInsertAndRemove_Versioned(t *testing.T) {
	v0 := NewRBSet[uint64]()
	require.True(t, v0.IsEmpty())
	require.Nil(t, v0.Root())

	v1 := v0.Insert(52)
	requireSeq(t, v1, []checkData{
		{Black, 52},
	})

	v2 := v1.Insert(47)
	requireSeq(t, v2, []checkData{
		{Red, 47}, {Black, 52},
	})

	v3 := v2.Insert(3)
	requireSeq(t, v3, []checkData{
		{Black, 3}, {Black, 47}, {Black, 52},
	})

	v4 := v3.Insert(35)
	requireSeq(t, v4, []checkData{
		{Black, 3},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	})

	v5 := v4.Insert(24)
	requireSeq(t, v5, []checkData{
		{Black, 3},
		{Red, 24},
		{Black, 35},
		{Black, 47},
		{Black, 52},
	})

	// remove

	v6 := v5.Remove(24)
	requireSeq(t, v6, []checkData{
		{Black, 3},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	})

	v7 := v6.Remove(47)
	requireSeq(t, v7, []checkData{
		{Black, 3},
		{Black, 35},
		{Black, 52},
	})

	v8 := v7.Remove(52)
	requireSeq(t, v8, []checkData{
		{Red, 3}, {Black, 35},
	})

	v9 := v8.Remove(3)
	requireSeq(t, v9, []checkData{
		{Black, 35},
	})

	v10 := v9.Remove(35)
	require.Equal(t, int64(0), v10.Len())
	require.Nil(t, v10.Root())

	// every older version stays intact after its successors mutated

	requireSeq(t, v0, nil)
	requireSeq(t, v2, []checkData{
		{Red, 47}, {Black, 52},
	})
	requireSeq(t, v5, []checkData{
		{Black, 3},
		{Red, 24},
		{Black, 35},
		{Black, 47},
		{Black, 52},
	})
	requireSeq(t, v8, []checkData{
		{Red, 3}, {Black, 35},
	})
	require.True(t, v5.Contains(24))
	require.False(t, v6.Contains(24))
}

func TestRBSetRemove_MissShares(t *testing.T) {
	v1 := NewRBSetOf[uint64](7, 11, 13)
	v2 := v1.Remove(8)
	require.Same(t, v1, v2)
	v3 := v1.RemoveFunc(func(elem uint64) int64 {
		return 1
	})
	require.Same(t, v1, v3)
}

type revisionElem struct {
	id  uint64
	rev int
}

func TestRBSetInsert_ReplaceAndIfNotPresent(t *testing.T) {
	cmp := func(i, j revisionElem) int64 {
		if i.id == j.id {
			return 0
		} else if i.id < j.id {
			return -1
		}
		return 1
	}

	s1 := NewRBSetFunc[revisionElem](cmp).Insert(revisionElem{id: 7, rev: 1})
	s2 := s1.Insert(revisionElem{id: 7, rev: 2})
	require.Equal(t, int64(1), s2.Len())
	elem, ok := s2.Find(revisionElem{id: 7})
	require.True(t, ok)
	require.Equal(t, 2, elem.rev)
	elem, ok = s1.Find(revisionElem{id: 7})
	require.True(t, ok)
	require.Equal(t, 1, elem.rev)

	s3 := s2.Insert(revisionElem{id: 7, rev: 3}, true)
	require.Same(t, s2, s3)
	elem, _ = s3.Find(revisionElem{id: 7})
	require.Equal(t, 2, elem.rev)

	s4 := s2.Insert(revisionElem{id: 9, rev: 1}, true)
	require.Equal(t, int64(2), s4.Len())
	require.True(t, s4.Contains(revisionElem{id: 9}))
}

func TestRBSetBoundQueries(t *testing.T) {
	set := NewRBSetOf[int](5, 3, 8, 1, 4)
	count := int64(0)
	expected := []struct {
		color RBColor
		elem  int
	}{
		{Black, 1},
		{Black, 3},
		{Red, 4},
		{Black, 5},
		{Red, 8},
	}
	set.Foreach(func(idx int64, color RBColor, elem int) bool {
		require.Equal(t, expected[idx].color, color)
		require.Equal(t, expected[idx].elem, elem)
		count++
		return true
	})
	require.Equal(t, int64(5), count)

	elem, ok := set.Find(4)
	require.True(t, ok)
	require.Equal(t, 4, elem)
	_, ok = set.Find(6)
	require.False(t, ok)

	elem, ok = set.Ceiling(6)
	require.True(t, ok)
	require.Equal(t, 8, elem)
	elem, ok = set.Floor(6)
	require.True(t, ok)
	require.Equal(t, 5, elem)
	elem, ok = set.Ceiling(4)
	require.True(t, ok)
	require.Equal(t, 4, elem)
	elem, ok = set.Floor(4)
	require.True(t, ok)
	require.Equal(t, 4, elem)
	_, ok = set.Ceiling(9)
	require.False(t, ok)
	_, ok = set.Floor(0)
	require.False(t, ok)

	elem, ok = set.Min()
	require.True(t, ok)
	require.Equal(t, 1, elem)
	elem, ok = set.Max()
	require.True(t, ok)
	require.Equal(t, 8, elem)

	// a weak cut matches the whole [4,5] run, any member may answer
	weak := func(elem int) int64 {
		if elem < 4 {
			return 1
		} else if elem > 5 {
			return -1
		}
		return 0
	}
	elem, ok = set.FindFunc(weak)
	require.True(t, ok)
	require.Contains(t, []int{4, 5}, elem)
	elem, ok = set.CeilingFunc(weak)
	require.True(t, ok)
	require.Contains(t, []int{4, 5}, elem)
	elem, ok = set.FloorFunc(weak)
	require.True(t, ok)
	require.Contains(t, []int{4, 5}, elem)

	next := set.Remove(3)
	require.Equal(t, []int{1, 4, 5, 8}, next.ToSlice())
	require.Equal(t, []int{1, 3, 4, 5, 8}, set.ToSlice())
	elem, ok = next.Ceiling(2)
	require.True(t, ok)
	require.Equal(t, 4, elem)
	require.NoError(t, RedViolationValidate[int](next.Root()))
	require.NoError(t, BlackViolationValidate[int](next.Root()))
}

func TestRBSetDesc(t *testing.T) {
	set := NewRBSet[uint64](WithRBSetDesc[uint64]())
	for _, elem := range []uint64{52, 47, 3, 35, 24} {
		set = set.Insert(elem)
	}

	// the exact mirror of the ascending shape
	expected := []checkData{
		{Black, 52},
		{Black, 47},
		{Black, 35},
		{Red, 24},
		{Black, 3},
	}
	count := int64(0)
	set.Foreach(func(idx int64, color RBColor, elem uint64) bool {
		require.Equal(t, expected[idx].color, color)
		require.Equal(t, expected[idx].elem, elem)
		count++
		return true
	})
	require.Equal(t, int64(5), count)
	require.NoError(t, RedViolationValidate[uint64](set.Root()))
	require.NoError(t, BlackViolationValidate[uint64](set.Root()))
	require.NoError(t, OrderViolationValidate[uint64](set.Root(), set.(*rbSet[uint64]).cmp))

	elem, ok := set.Min()
	require.True(t, ok)
	require.Equal(t, uint64(52), elem)
	elem, ok = set.Max()
	require.True(t, ok)
	require.Equal(t, uint64(3), elem)

	// bounds follow the flipped order as well
	elem, ok = set.Ceiling(40)
	require.True(t, ok)
	require.Equal(t, uint64(35), elem)
	elem, ok = set.Floor(40)
	require.True(t, ok)
	require.Equal(t, uint64(47), elem)
}

func rbSetRandomInsertAndRemoveSequentialRunCore(t *testing.T, total uint64, selfCheck bool) {
	insertTotal := uint64(float64(total) * 0.8)
	removeTotal := uint64(float64(total) * 0.2)

	opts := make([]RBSetOpt[uint64], 0, 1)
	if selfCheck {
		opts = append(opts, WithRBSetSelfCheck[uint64]())
	}
	set := NewRBSet[uint64](opts...)

	rand := uint64(randv2.Uint32() % 1_000)
	for i := uint64(0); i < insertTotal; i++ {
		set = set.Insert(i)
		if i%1_000 == rand {
			require.NoError(t, RedViolationValidate[uint64](set.Root()))
			require.NoError(t, BlackViolationValidate[uint64](set.Root()))
		}
	}
	set.Foreach(func(idx int64, color RBColor, elem uint64) bool {
		require.Equal(t, uint64(idx), elem)
		return true
	})

	for i := insertTotal; i < insertTotal+removeTotal; i++ {
		set = set.Insert(i)
	}
	require.Equal(t, int64(insertTotal+removeTotal), set.Len())

	probe := insertTotal + removeTotal>>1
	for i := insertTotal; i < insertTotal+removeTotal; i++ {
		if i == probe {
			elem, ok := set.FindFunc(func(elem uint64) int64 {
				if probe == elem {
					return 0
				} else if probe < elem {
					return -1
				}
				return 1
			})
			require.True(t, ok)
			require.Equal(t, probe, elem)
		}
		set = set.Remove(i)
		if i%1_000 == rand {
			require.NoError(t, RedViolationValidate[uint64](set.Root()))
			require.NoError(t, BlackViolationValidate[uint64](set.Root()))
		}
	}
	require.Equal(t, int64(insertTotal), set.Len())
	set.Foreach(func(idx int64, color RBColor, elem uint64) bool {
		require.Equal(t, uint64(idx), elem)
		return true
	})
}

func TestRBSetRandomInsertAndRemove_SequentialNumber(t *testing.T) {
	type testcase struct {
		name      string
		total     uint64
		selfCheck bool
	}
	testcases := []testcase{
		{
			name:      "self check 1000",
			total:     1_000,
			selfCheck: true,
		},
		{
			name:  "spot check 100000",
			total: 100_000,
		},
	}
	t.Parallel()
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbSetRandomInsertAndRemoveSequentialRunCore(tt, tc.total, tc.selfCheck)
		})
	}
}

func TestRBSetRandomInsertAndRemove_ShuffledNumber(t *testing.T) {
	total := 10_000
	removeTotal := total / 5

	elems := randv2.Perm(total)
	set := NewRBSet[int]()
	versions := make([]RBSet[int], 0, 10)

	rand := randv2.IntN(1_000)
	for i := 0; i < total; i++ {
		set = set.Insert(elems[i])
		if i%1_000 == rand {
			require.NoError(t, RedViolationValidate[int](set.Root()))
			require.NoError(t, BlackViolationValidate[int](set.Root()))
		}
		if (i+1)%(total/10) == 0 {
			versions = append(versions, set)
		}
	}
	set.Foreach(func(idx int64, color RBColor, elem int) bool {
		require.Equal(t, int(idx), elem)
		return true
	})

	for i := 0; i < removeTotal; i++ {
		set = set.Remove(elems[i])
		if i%1_000 == rand {
			require.NoError(t, RedViolationValidate[int](set.Root()))
			require.NoError(t, BlackViolationValidate[int](set.Root()))
		}
	}
	require.Equal(t, int64(total-removeTotal), set.Len())
	require.NoError(t, RedViolationValidate[int](set.Root()))
	require.NoError(t, BlackViolationValidate[int](set.Root()))

	// snapshots taken along the way never saw the removals
	for i, version := range versions {
		require.Equal(t, int64((i+1)*(total/10)), version.Len())
		require.NoError(t, RedViolationValidate[int](version.Root()))
		require.NoError(t, BlackViolationValidate[int](version.Root()))
	}
}

func TestRBSetRelease(t *testing.T) {
	insertTotal := uint64(100_000)

	set := NewRBSet[uint64]()
	rand := uint64(randv2.Uint32() % 1_000)
	for i := uint64(0); i < insertTotal; i++ {
		set = set.Insert(i)
		if i%1_000 == rand {
			require.NoError(t, RedViolationValidate[uint64](set.Root()))
			require.NoError(t, BlackViolationValidate[uint64](set.Root()))
		}
	}
	set.Foreach(func(idx int64, color RBColor, elem uint64) bool {
		require.Equal(t, uint64(idx), elem)
		return true
	})

	snapshot := set.Remove(0)
	set.Release()
	require.Equal(t, int64(0), set.Len())
	require.Nil(t, set.Root())

	// releasing one version leaves its siblings alone
	require.Equal(t, int64(insertTotal-1), snapshot.Len())
	require.NoError(t, BlackViolationValidate[uint64](snapshot.Root()))
}

func TestRBSetSnapshotConcurrentRead(t *testing.T) {
	const (
		readers    = 8
		writeTotal = 2_000
		readRounds = 500
	)

	pool, err := ants.NewPool(readers)
	require.NoError(t, err)
	defer pool.Release()

	var published atomic.Pointer[rbSet[uint64]]
	published.Store(NewRBSet[uint64]().(*rbSet[uint64]))

	errCh := make(chan error, readers)
	var wg sync.WaitGroup
	for r := 0; r < readers; r++ {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			for i := 0; i < readRounds; i++ {
				set := published.Load()
				count, prev, broken := int64(0), uint64(0), false
				set.Foreach(func(idx int64, color RBColor, elem uint64) bool {
					if idx > 0 && elem <= prev {
						broken = true
						return false
					}
					prev = elem
					count++
					return true
				})
				if broken || count != set.Len() {
					errCh <- fmt.Errorf("reader saw a torn version, count: %d, len: %d", count, set.Len())
					return
				}
			}
			errCh <- nil
		})
		require.NoError(t, err)
	}

	for i := uint64(0); i < writeTotal; i++ {
		next := published.Load().Insert(i).(*rbSet[uint64])
		published.Store(next)
	}

	wg.Wait()
	for r := 0; r < readers; r++ {
		require.NoError(t, <-errCh)
	}
	require.Equal(t, int64(writeTotal), published.Load().Len())
}

func BenchmarkRBSetInsert_Serial(b *testing.B) {
	b.StopTimer()
	set := NewRBSet[int]()
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		set = set.Insert(i)
	}
}

func BenchmarkRBSetInsert_Random(b *testing.B) {
	b.StopTimer()
	set := NewRBSet[int]()
	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		set = set.Insert(rngArr[i])
	}
}

func BenchmarkRBSetFind(b *testing.B) {
	b.StopTimer()
	const mask = 1<<16 - 1
	set := NewRBSet[int]()
	for i := 0; i <= mask; i++ {
		set = set.Insert(i)
	}
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_, _ = set.Find(i & mask)
	}
}
