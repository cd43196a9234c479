package tree

// RBStream is a forward cursor over one immutable version, yielding
// elements in comparator order. It keeps the unvisited part of the
// current left spine on an explicit stack, so advancing is amortized
// constant time and never touches the tree it was cut from.
type RBStream[E any] struct {
	spine []*rbNode[E]
	rest  int64
}

func newRBStream[E any](root *rbNode[E], size int64) *RBStream[E] {
	stream := &RBStream[E]{
		spine: make([]*rbNode[E], 0, size>>1),
		rest:  size,
	}
	for aux := root; aux != nil; aux = aux.left {
		stream.spine = append(stream.spine, aux)
	}
	return stream
}

func (stream *RBStream[E]) HasNext() bool {
	return stream != nil && len(stream.spine) > 0
}

// Peek returns the next element without advancing the cursor.
func (stream *RBStream[E]) Peek() (E, bool) {
	if !stream.HasNext() {
		return *new(E), false
	}
	return stream.spine[len(stream.spine)-1].elem, true
}

// Next returns the next element and advances the cursor past it.
func (stream *RBStream[E]) Next() (E, bool) {
	if !stream.HasNext() {
		return *new(E), false
	}
	top := stream.spine[len(stream.spine)-1]
	stream.spine = stream.spine[:len(stream.spine)-1]
	for aux := top.right; aux != nil; aux = aux.left {
		stream.spine = append(stream.spine, aux)
	}
	stream.rest--
	return top.elem, true
}

// Rest reports how many elements the cursor has not yielded yet.
func (stream *RBStream[E]) Rest() int64 {
	if stream == nil {
		return 0
	}
	return stream.rest
}

// FoldLeft folds the subtree under root in ascending order.
func FoldLeft[E any, A any](root RBNode[E], init A, fold func(acc A, elem E) A) A {
	if root == nil || !root.HasElem() {
		return init
	}
	acc := FoldLeft(root.Left(), init, fold)
	acc = fold(acc, root.Elem())
	return FoldLeft(root.Right(), acc, fold)
}

// FoldRight folds the subtree under root in descending order.
func FoldRight[E any, A any](root RBNode[E], init A, fold func(elem E, acc A) A) A {
	if root == nil || !root.HasElem() {
		return init
	}
	acc := FoldRight(root.Right(), init, fold)
	acc = fold(root.Elem(), acc)
	return FoldRight(root.Left(), acc, fold)
}

// TryFoldLeft folds in ascending order and stops at the first error,
// handing it back unchanged together with the accumulator so far.
func TryFoldLeft[E any, A any](root RBNode[E], init A, fold func(acc A, elem E) (A, error)) (A, error) {
	if root == nil || !root.HasElem() {
		return init, nil
	}
	acc, err := TryFoldLeft(root.Left(), init, fold)
	if err != nil {
		return acc, err
	}
	if acc, err = fold(acc, root.Elem()); err != nil {
		return acc, err
	}
	return TryFoldLeft(root.Right(), acc, fold)
}
