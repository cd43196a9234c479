package tree

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
)

func isBlack[E any](node RBNode[E]) bool {
	return isNilLeaf[E](node) || node.Color() == Black
}

func isRed[E any](node RBNode[E]) bool {
	return !isNilLeaf[E](node) && node.Color() == Red
}

func isNilLeaf[E any](node RBNode[E]) bool {
	return node == nil || !node.HasElem()
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// Inorder traversal to validate the red rules: no red node carries a
// red child, and the root of a published version is black.
func RedViolationValidate[E any](root RBNode[E]) error {
	if isRed[E](root) {
		return errors.New("rbtree red violation")
	}

	aux := root
	stack := make([]RBNode[E], 0, 16)
	defer func() {
		clear(stack)
	}()

	for ; !isNilLeaf[E](aux); aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; isRed[E](aux) {
			if isRed[E](aux.Left()) || isRed[E](aux.Right()) {
				return errors.New("rbtree red violation")
			}
		}

		stack = stack[:size-1]
		if aux.Right() != nil {
			for aux = aux.Right(); aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
		}
	}
	return nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each nil leaf up to the root crosses the same number of black nodes.
Without parent links the depth check runs top down: the walk hands
back the subtree's black height and fails on the first pair of
siblings that disagree.
*/
func BlackViolationValidate[E any](root RBNode[E]) error {
	_, err := blackHeightOf[E](root)
	return err
}

func blackHeightOf[E any](node RBNode[E]) (int64, error) {
	if isNilLeaf[E](node) {
		return 1, nil
	}
	lh, err := blackHeightOf[E](node.Left())
	if err != nil {
		return 0, err
	}
	rh, err := blackHeightOf[E](node.Right())
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, errors.New("rbtree black violation")
	}
	if node.Color() == Black {
		lh++
	}
	return lh, nil
}

// Inorder traversal to validate that elements ascend strictly under
// cmp, which also rules out duplicates.
func OrderViolationValidate[E any](root RBNode[E], cmp infra.Comparator[E]) error {
	var (
		prev    E
		hasPrev bool
	)
	aux := root
	stack := make([]RBNode[E], 0, 16)
	defer func() {
		clear(stack)
	}()

	for ; !isNilLeaf[E](aux); aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		if hasPrev && cmp(prev, aux.Elem()) >= 0 {
			return errors.New("rbtree order violation")
		}
		prev, hasPrev = aux.Elem(), true

		stack = stack[:size-1]
		if aux.Right() != nil {
			for aux = aux.Right(); aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
		}
	}
	return nil
}
