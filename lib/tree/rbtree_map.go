package tree

import (
	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

// rbMap is one immutable version of a persistent ordered map. It
// rides the same engine as rbSet with RBEntry elements ordered by
// the key projection only, so a Put of an existing key swaps the
// whole entry in place.
type rbMap[K any, V any] struct {
	root      *rbNode[RBEntry[K, V]]
	keyCmp    infra.Comparator[K]
	stats     *rbTreeStats
	size      int64
	selfCheck bool
}

var _ RBMap[int, string] = (*rbMap[int, string])(nil)

type RBMapOpt[K any, V any] func(*rbMap[K, V])

// WithRBMapDesc flips the key order of the new map.
func WithRBMapDesc[K any, V any]() RBMapOpt[K, V] {
	return func(m *rbMap[K, V]) {
		m.keyCmp = infra.ReverseComparator(m.keyCmp)
	}
}

// WithRBMapSelfCheck revalidates the tree shape after every mutation
// and panics on the first violation.
func WithRBMapSelfCheck[K any, V any]() RBMapOpt[K, V] {
	return func(m *rbMap[K, V]) {
		m.selfCheck = true
	}
}

// WithRBMapStats publishes mutation and query counters for the map
// and all versions derived from it through the global otel meter
// under the given instance name.
func WithRBMapStats[K any, V any](name string) RBMapOpt[K, V] {
	return func(m *rbMap[K, V]) {
		m.stats = newRBTreeStats(name)
	}
}

func NewRBMap[K infra.OrderedKey, V any](opts ...RBMapOpt[K, V]) RBMap[K, V] {
	m := &rbMap[K, V]{
		keyCmp: infra.Comparator[K](infra.NewOrderedKeyComparator[K](false)),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// NewRBMapFunc builds an empty map over an arbitrary key type
// ordered by keyCmp.
func NewRBMapFunc[K any, V any](keyCmp infra.Comparator[K], opts ...RBMapOpt[K, V]) RBMap[K, V] {
	if keyCmp == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] map constructed without comparator")
	}
	m := &rbMap[K, V]{keyCmp: keyCmp}
	for _, o := range opts {
		o(m)
	}
	return m
}

// NewRBMapOf builds a map holding entries, putting them in order.
func NewRBMapOf[K infra.OrderedKey, V any](entries ...RBEntry[K, V]) RBMap[K, V] {
	m := &rbMap[K, V]{
		keyCmp: infra.Comparator[K](infra.NewOrderedKeyComparator[K](false)),
	}
	for _, entry := range entries {
		root, grown := insert(m.root, m.entryCmp(), entry, true)
		m.root = root
		if grown {
			m.size++
		}
	}
	return m
}

func (m *rbMap[K, V]) derive(root *rbNode[RBEntry[K, V]], size int64) *rbMap[K, V] {
	return &rbMap[K, V]{
		root:      root,
		keyCmp:    m.keyCmp,
		stats:     m.stats,
		size:      size,
		selfCheck: m.selfCheck,
	}
}

func (m *rbMap[K, V]) entryCmp() infra.Comparator[RBEntry[K, V]] {
	return func(i, j RBEntry[K, V]) int64 {
		return m.keyCmp(i.Key, j.Key)
	}
}

// entryCut lifts a key cut onto stored entries.
func (m *rbMap[K, V]) entryCut(cut RBCut[K]) RBCut[RBEntry[K, V]] {
	return func(candidate RBEntry[K, V]) int64 {
		return cut(candidate.Key)
	}
}

func (m *rbMap[K, V]) cutOf(key K) RBCut[RBEntry[K, V]] {
	return func(candidate RBEntry[K, V]) int64 {
		return m.keyCmp(key, candidate.Key)
	}
}

func (m *rbMap[K, V]) verify() {
	if !m.selfCheck {
		return
	}
	if err := multierr.Combine(
		RedViolationValidate[RBEntry[K, V]](m.Root()),
		BlackViolationValidate[RBEntry[K, V]](m.Root()),
		OrderViolationValidate[RBEntry[K, V]](m.Root(), m.entryCmp()),
	); err != nil {
		panic(infra.WrapErrorStackWithMessage(err, "[rbtree] map self check failed"))
	}
}

func (m *rbMap[K, V]) Len() int64 {
	return m.size
}

func (m *rbMap[K, V]) IsEmpty() bool {
	return m.size <= 0
}

func (m *rbMap[K, V]) Root() RBNode[RBEntry[K, V]] {
	if m.root == nil {
		return nil
	}
	return m.root
}

// Put hands back a version mapping key to val. A present key has its
// entry replaced in place unless ifNotPresent[0] is true, in which
// case the receiver comes back untouched.
func (m *rbMap[K, V]) Put(key K, val V, ifNotPresent ...bool) RBMap[K, V] {
	replace := len(ifNotPresent) <= 0 || !ifNotPresent[0]
	if m.stats != nil {
		m.stats.RecordZoomDepth(descentDepth(m.root, m.cutOf(key)))
	}
	root, grown := insert(m.root, m.entryCmp(), RBEntry[K, V]{Key: key, Val: val}, replace)
	if root == m.root {
		return m
	}
	size := m.size
	if grown {
		size++
	}
	next := m.derive(root, size)
	next.verify()
	m.stats.RecordInsert()
	if grown {
		m.stats.RecordElemDelta(1)
	}
	return next
}

// Remove hands back a version without key, or the receiver itself
// when key is absent.
func (m *rbMap[K, V]) Remove(key K) RBMap[K, V] {
	return m.removeByEntryCut(m.cutOf(key))
}

// RemoveFunc removes the entry whose key the cut matches. A weak cut
// drops an arbitrary entry of its matching run.
func (m *rbMap[K, V]) RemoveFunc(cut RBCut[K]) RBMap[K, V] {
	return m.removeByEntryCut(m.entryCut(cut))
}

func (m *rbMap[K, V]) removeByEntryCut(cut RBCut[RBEntry[K, V]]) RBMap[K, V] {
	if m.stats != nil {
		m.stats.RecordZoomDepth(descentDepth(m.root, cut))
	}
	root, removed := remove(m.root, cut)
	if !removed {
		return m
	}
	next := m.derive(root, m.size-1)
	next.verify()
	m.stats.RecordRemove()
	m.stats.RecordElemDelta(-1)
	return next
}

func (m *rbMap[K, V]) Get(key K) (V, bool) {
	entry, ok := m.FindEntry(key)
	return entry.Val, ok
}

func (m *rbMap[K, V]) GetFunc(cut RBCut[K]) (V, bool) {
	entry, ok := m.FindEntryFunc(cut)
	return entry.Val, ok
}

func (m *rbMap[K, V]) FindEntry(key K) (RBEntry[K, V], bool) {
	m.stats.RecordQuery()
	if node := m.root.lookup(m.cutOf(key)); node != nil {
		return node.elem, true
	}
	return RBEntry[K, V]{}, false
}

func (m *rbMap[K, V]) FindEntryFunc(cut RBCut[K]) (RBEntry[K, V], bool) {
	m.stats.RecordQuery()
	if node := m.root.lookup(m.entryCut(cut)); node != nil {
		return node.elem, true
	}
	return RBEntry[K, V]{}, false
}

func (m *rbMap[K, V]) Contains(key K) bool {
	_, ok := m.FindEntry(key)
	return ok
}

// CeilingEntry returns the entry with the least key at or above key.
func (m *rbMap[K, V]) CeilingEntry(key K) (RBEntry[K, V], bool) {
	m.stats.RecordQuery()
	if node := m.root.ceiling(m.cutOf(key)); node != nil {
		return node.elem, true
	}
	return RBEntry[K, V]{}, false
}

func (m *rbMap[K, V]) CeilingEntryFunc(cut RBCut[K]) (RBEntry[K, V], bool) {
	m.stats.RecordQuery()
	if node := m.root.ceiling(m.entryCut(cut)); node != nil {
		return node.elem, true
	}
	return RBEntry[K, V]{}, false
}

// FloorEntry returns the entry with the greatest key at or below key.
func (m *rbMap[K, V]) FloorEntry(key K) (RBEntry[K, V], bool) {
	m.stats.RecordQuery()
	if node := m.root.floor(m.cutOf(key)); node != nil {
		return node.elem, true
	}
	return RBEntry[K, V]{}, false
}

func (m *rbMap[K, V]) FloorEntryFunc(cut RBCut[K]) (RBEntry[K, V], bool) {
	m.stats.RecordQuery()
	if node := m.root.floor(m.entryCut(cut)); node != nil {
		return node.elem, true
	}
	return RBEntry[K, V]{}, false
}

func (m *rbMap[K, V]) MinEntry() (RBEntry[K, V], bool) {
	if node := m.root.minimum(); node != nil {
		return node.elem, true
	}
	return RBEntry[K, V]{}, false
}

func (m *rbMap[K, V]) MaxEntry() (RBEntry[K, V], bool) {
	if node := m.root.maximum(); node != nil {
		return node.elem, true
	}
	return RBEntry[K, V]{}, false
}

// Foreach walks the entries in key order until action returns false.
func (m *rbMap[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	aux := m.root
	if aux == nil {
		return
	}
	stack := make([]*rbNode[RBEntry[K, V]], 0, m.size>>1)
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
		if !action(idx, aux.color, aux.elem.Key, aux.elem.Val) {
			return
		}
		idx++
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (m *rbMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.size)
	m.Foreach(func(_ int64, _ RBColor, key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (m *rbMap[K, V]) Values() []V {
	vals := make([]V, 0, m.size)
	m.Foreach(func(_ int64, _ RBColor, _ K, val V) bool {
		vals = append(vals, val)
		return true
	})
	return vals
}

func (m *rbMap[K, V]) ToSlice() []RBEntry[K, V] {
	entries := make([]RBEntry[K, V], 0, m.size)
	m.Foreach(func(_ int64, _ RBColor, key K, val V) bool {
		entries = append(entries, RBEntry[K, V]{Key: key, Val: val})
		return true
	})
	return entries
}

func (m *rbMap[K, V]) Stream() *RBStream[RBEntry[K, V]] {
	return newRBStream(m.root, m.size)
}

// Release drops this version's references. Other versions sharing
// subtrees are unaffected.
func (m *rbMap[K, V]) Release() {
	m.root = nil
	m.size = 0
}
