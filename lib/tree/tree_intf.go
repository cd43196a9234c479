package tree

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

// RBCut is a monotone probe over the tree order, generalizing
// "compare a fixed target key against the candidate":
//  1. return 0, the candidate matches the target region.
//  2. return positive, the target region is right of the candidate.
//  3. return negative, the target region is left of the candidate.
//
// Monotonicity against the container's comparator is a precondition
// and is never checked at runtime; a non-monotone cut silently
// produces wrong answers. A strict cut maps at most one element
// to 0 (every comparator-derived cut is strict). A weak cut may
// match a whole run of elements; search then returns an arbitrary
// element of that run.
type RBCut[E any] func(elem E) int64

// RBNode is the read-only structural view of a persistent subtree.
// A nil interface stands for the empty leaf, which is always black.
type RBNode[E any] interface {
	Elem() E
	HasElem() bool
	Color() RBColor
	Left() RBNode[E]
	Right() RBNode[E]
}

// RBEntry is the key-value element stored by RBMap.
type RBEntry[K any, V any] struct {
	Key K
	Val V
}

// RBSet is a persistent ordered set. Mutations never touch the
// receiver; they hand back a new version sharing untouched subtrees,
// so any number of goroutines may read any version without locks.
type RBSet[E any] interface {
	Len() int64
	IsEmpty() bool
	Root() RBNode[E]
	Insert(elem E, ifNotPresent ...bool) RBSet[E]
	Remove(elem E) RBSet[E]
	RemoveFunc(cut RBCut[E]) RBSet[E]
	Find(elem E) (E, bool)
	FindFunc(cut RBCut[E]) (E, bool)
	Contains(elem E) bool
	Ceiling(elem E) (E, bool)
	CeilingFunc(cut RBCut[E]) (E, bool)
	Floor(elem E) (E, bool)
	FloorFunc(cut RBCut[E]) (E, bool)
	Min() (E, bool)
	Max() (E, bool)
	Foreach(action func(idx int64, color RBColor, elem E) bool)
	ToSlice() []E
	Stream() *RBStream[E]
	Release()
}

// RBMap is a persistent ordered key-value map built on the same
// engine as RBSet, ordering entries by the key projection only.
type RBMap[K any, V any] interface {
	Len() int64
	IsEmpty() bool
	Root() RBNode[RBEntry[K, V]]
	Put(key K, val V, ifNotPresent ...bool) RBMap[K, V]
	Remove(key K) RBMap[K, V]
	RemoveFunc(cut RBCut[K]) RBMap[K, V]
	Get(key K) (V, bool)
	GetFunc(cut RBCut[K]) (V, bool)
	FindEntry(key K) (RBEntry[K, V], bool)
	FindEntryFunc(cut RBCut[K]) (RBEntry[K, V], bool)
	Contains(key K) bool
	CeilingEntry(key K) (RBEntry[K, V], bool)
	CeilingEntryFunc(cut RBCut[K]) (RBEntry[K, V], bool)
	FloorEntry(key K) (RBEntry[K, V], bool)
	FloorEntryFunc(cut RBCut[K]) (RBEntry[K, V], bool)
	MinEntry() (RBEntry[K, V], bool)
	MaxEntry() (RBEntry[K, V], bool)
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Keys() []K
	Values() []V
	ToSlice() []RBEntry[K, V]
	Stream() *RBStream[RBEntry[K, V]]
	Release()
}
