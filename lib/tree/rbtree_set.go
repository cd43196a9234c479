package tree

import (
	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

// rbSet is one immutable version of a persistent ordered set. The
// comparator, stats sink and check flag travel unchanged through
// every version derived from the same constructor call.
type rbSet[E any] struct {
	root      *rbNode[E]
	cmp       infra.Comparator[E]
	stats     *rbTreeStats
	size      int64
	selfCheck bool
}

var _ RBSet[int] = (*rbSet[int])(nil)

type RBSetOpt[E any] func(*rbSet[E])

// WithRBSetDesc flips the element order of the new set.
func WithRBSetDesc[E any]() RBSetOpt[E] {
	return func(set *rbSet[E]) {
		set.cmp = infra.ReverseComparator(set.cmp)
	}
}

// WithRBSetSelfCheck revalidates the tree shape after every mutation
// and panics on the first violation. Meant for tests and debugging,
// it turns each mutation into a full tree walk.
func WithRBSetSelfCheck[E any]() RBSetOpt[E] {
	return func(set *rbSet[E]) {
		set.selfCheck = true
	}
}

// WithRBSetStats publishes mutation and query counters for the set
// and all versions derived from it through the global otel meter
// under the given instance name.
func WithRBSetStats[E any](name string) RBSetOpt[E] {
	return func(set *rbSet[E]) {
		set.stats = newRBTreeStats(name)
	}
}

func NewRBSet[E infra.OrderedKey](opts ...RBSetOpt[E]) RBSet[E] {
	set := &rbSet[E]{
		cmp: infra.Comparator[E](infra.NewOrderedKeyComparator[E](false)),
	}
	for _, o := range opts {
		o(set)
	}
	return set
}

// NewRBSetFunc builds an empty set over an arbitrary element type
// ordered by cmp.
func NewRBSetFunc[E any](cmp infra.Comparator[E], opts ...RBSetOpt[E]) RBSet[E] {
	if cmp == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] set constructed without comparator")
	}
	set := &rbSet[E]{cmp: cmp}
	for _, o := range opts {
		o(set)
	}
	return set
}

// NewRBSetOf builds a set holding elems, inserting them in order.
func NewRBSetOf[E infra.OrderedKey](elems ...E) RBSet[E] {
	set := &rbSet[E]{
		cmp: infra.Comparator[E](infra.NewOrderedKeyComparator[E](false)),
	}
	for _, elem := range elems {
		root, grown := insert(set.root, set.cmp, elem, true)
		set.root = root
		if grown {
			set.size++
		}
	}
	return set
}

// derive clones the facade around a new root, keeping comparator,
// stats and flags shared across versions.
func (set *rbSet[E]) derive(root *rbNode[E], size int64) *rbSet[E] {
	return &rbSet[E]{
		root:      root,
		cmp:       set.cmp,
		stats:     set.stats,
		size:      size,
		selfCheck: set.selfCheck,
	}
}

func (set *rbSet[E]) verify() {
	if !set.selfCheck {
		return
	}
	if err := multierr.Combine(
		RedViolationValidate[E](set.Root()),
		BlackViolationValidate[E](set.Root()),
		OrderViolationValidate[E](set.Root(), set.cmp),
	); err != nil {
		panic(infra.WrapErrorStackWithMessage(err, "[rbtree] set self check failed"))
	}
}

// cutOf projects a fixed target element into the cut the engine
// descends by.
func (set *rbSet[E]) cutOf(elem E) RBCut[E] {
	return func(candidate E) int64 {
		return set.cmp(elem, candidate)
	}
}

// descentDepth counts the nodes a zoom for cut visits. Only charged
// when a stats sink is attached.
func descentDepth[E any](root *rbNode[E], cut RBCut[E]) int64 {
	depth := int64(0)
	for aux := root; aux != nil; {
		depth++
		res := cut(aux.elem)
		if res == 0 {
			break
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return depth
}

func (set *rbSet[E]) Len() int64 {
	return set.size
}

func (set *rbSet[E]) IsEmpty() bool {
	return set.size <= 0
}

func (set *rbSet[E]) Root() RBNode[E] {
	if set.root == nil {
		return nil
	}
	return set.root
}

// Insert hands back a version containing elem. A present element is
// replaced in place unless ifNotPresent[0] is true, in which case
// the receiver comes back untouched.
func (set *rbSet[E]) Insert(elem E, ifNotPresent ...bool) RBSet[E] {
	replace := len(ifNotPresent) <= 0 || !ifNotPresent[0]
	if set.stats != nil {
		set.stats.RecordZoomDepth(descentDepth(set.root, set.cutOf(elem)))
	}
	root, grown := insert(set.root, set.cmp, elem, replace)
	if root == set.root {
		return set
	}
	size := set.size
	if grown {
		size++
	}
	next := set.derive(root, size)
	next.verify()
	set.stats.RecordInsert()
	if grown {
		set.stats.RecordElemDelta(1)
	}
	return next
}

// Remove hands back a version without elem, or the receiver itself
// when elem is absent.
func (set *rbSet[E]) Remove(elem E) RBSet[E] {
	return set.RemoveFunc(set.cutOf(elem))
}

// RemoveFunc removes the element the cut matches. A weak cut drops
// an arbitrary element of its matching run.
func (set *rbSet[E]) RemoveFunc(cut RBCut[E]) RBSet[E] {
	if set.stats != nil {
		set.stats.RecordZoomDepth(descentDepth(set.root, cut))
	}
	root, removed := remove(set.root, cut)
	if !removed {
		return set
	}
	next := set.derive(root, set.size-1)
	next.verify()
	set.stats.RecordRemove()
	set.stats.RecordElemDelta(-1)
	return next
}

func (set *rbSet[E]) Find(elem E) (E, bool) {
	return set.FindFunc(set.cutOf(elem))
}

func (set *rbSet[E]) FindFunc(cut RBCut[E]) (E, bool) {
	set.stats.RecordQuery()
	if node := set.root.lookup(cut); node != nil {
		return node.elem, true
	}
	return *new(E), false
}

func (set *rbSet[E]) Contains(elem E) bool {
	_, ok := set.Find(elem)
	return ok
}

// Ceiling returns the least element at or above elem.
func (set *rbSet[E]) Ceiling(elem E) (E, bool) {
	return set.CeilingFunc(set.cutOf(elem))
}

func (set *rbSet[E]) CeilingFunc(cut RBCut[E]) (E, bool) {
	set.stats.RecordQuery()
	if node := set.root.ceiling(cut); node != nil {
		return node.elem, true
	}
	return *new(E), false
}

// Floor returns the greatest element at or below elem.
func (set *rbSet[E]) Floor(elem E) (E, bool) {
	return set.FloorFunc(set.cutOf(elem))
}

func (set *rbSet[E]) FloorFunc(cut RBCut[E]) (E, bool) {
	set.stats.RecordQuery()
	if node := set.root.floor(cut); node != nil {
		return node.elem, true
	}
	return *new(E), false
}

func (set *rbSet[E]) Min() (E, bool) {
	if node := set.root.minimum(); node != nil {
		return node.elem, true
	}
	return *new(E), false
}

func (set *rbSet[E]) Max() (E, bool) {
	if node := set.root.maximum(); node != nil {
		return node.elem, true
	}
	return *new(E), false
}

// Foreach walks the elements in comparator order until action
// returns false.
func (set *rbSet[E]) Foreach(action func(idx int64, color RBColor, elem E) bool) {
	aux := set.root
	if aux == nil {
		return
	}
	stack := make([]*rbNode[E], 0, set.size>>1)
	defer func() {
		clear(stack)
		stack = nil
	}()
	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}
	for idx, size := int64(0), len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if !action(idx, aux.color, aux.elem) {
			return
		}
		idx++
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (set *rbSet[E]) ToSlice() []E {
	elems := make([]E, 0, set.size)
	set.Foreach(func(_ int64, _ RBColor, elem E) bool {
		elems = append(elems, elem)
		return true
	})
	return elems
}

func (set *rbSet[E]) Stream() *RBStream[E] {
	return newRBStream(set.root, set.size)
}

// Release drops this version's references. Other versions sharing
// subtrees are unaffected; the nodes return to the allocator once no
// version points at them.
func (set *rbSet[E]) Release() {
	set.root = nil
	set.size = 0
}
