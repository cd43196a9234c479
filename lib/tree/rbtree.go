package tree

// A persistent red-black tree. Versions are immutable. A mutation
// rebuilds the nodes along the root path and shares every untouched
// subtree with the previous version, so old roots stay valid and
// readable forever.
//
// References:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree
// https://en.wikipedia.org/wiki/Persistent_data_structure
// https://www.cs.tufts.edu/~nr/cs257/archive/chris-okasaki/redblack99.pdf
// https://www.cs.kent.ac.uk/people/staff/smk/redblack/rb.html
// https://matt.might.net/articles/red-black-delete/
//
// Properties:
// p1. Each node is either red or black.
// p2. The nil leaves count as black.
// p3. A red node never has a red child.
// p4. Each path from a node down to its nil leaves crosses the same
//     number of black nodes.
// p5. Every root handed out by a public operation is black.
//
// Insertion follows Okasaki's balance rotations and deletion follows
// Kahrs' join-and-repair scheme. Both run over an explicit path of
// unzipped ancestors rather than recursion; the path records, per
// level, everything needed to rebuild the spine.

type rbNode[E any] struct {
	left  *rbNode[E]
	right *rbNode[E]
	elem  E
	color RBColor
}

func newRBNode[E any](color RBColor, left *rbNode[E], elem E, right *rbNode[E]) *rbNode[E] {
	return &rbNode[E]{
		left:  left,
		right: right,
		elem:  elem,
		color: color,
	}
}

var _ RBNode[struct{}] = (*rbNode[struct{}])(nil)

func (node *rbNode[E]) Elem() E {
	if node == nil {
		return *new(E)
	}
	return node.elem
}

func (node *rbNode[E]) HasElem() bool {
	return node != nil
}

func (node *rbNode[E]) Color() RBColor {
	if node == nil {
		return Black
	}
	return node.color
}

func (node *rbNode[E]) Left() RBNode[E] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[E]) Right() RBNode[E] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[E]) isRed() bool {
	return node != nil && node.color == Red
}

// setBlack returns a black node carrying the same element and
// children. The receiver is never written; an already black node
// comes back as is.
func (node *rbNode[E]) setBlack() *rbNode[E] {
	if node == nil || node.color == Black {
		return node
	}
	return newRBNode(Black, node.left, node.elem, node.right)
}

func (node *rbNode[E]) setRed() *rbNode[E] {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] paint a nil leaf to red")
	}
	if node.color == Red {
		return node
	}
	return newRBNode(Red, node.left, node.elem, node.right)
}

// balance1 repairs a red-red violation sitting in the left subtree
// after the left child of a black node grew. Both broken shapes
// rotate to the same balanced node:
//
//	      z (B)            z (B)
//	     /     \          /     \
//	(R) y       d    (R) x       d            y (R)
//	   / \       or     / \          =>      /     \
//	  x   c            a   y (R)        (B) x       z (B)
//	 /(R)\                / \              / \     / \
//	a     b              b   c            a   b   c   d
func balance1[E any](left *rbNode[E], elem E, right *rbNode[E]) *rbNode[E] {
	if left.isRed() {
		if ll := left.left; ll.isRed() {
			return newRBNode(Red,
				ll.setBlack(),
				left.elem,
				newRBNode(Black, left.right, elem, right),
			)
		} else if lr := left.right; lr.isRed() {
			return newRBNode(Red,
				newRBNode(Black, left.left, left.elem, lr.left),
				lr.elem,
				newRBNode(Black, lr.right, elem, right),
			)
		}
	}
	return newRBNode(Black, left, elem, right)
}

// balance2 is the mirror of balance1, repairing a red-red violation
// sitting in the right subtree.
func balance2[E any](left *rbNode[E], elem E, right *rbNode[E]) *rbNode[E] {
	if right.isRed() {
		if rl := right.left; rl.isRed() {
			return newRBNode(Red,
				newRBNode(Black, left, elem, rl.left),
				rl.elem,
				newRBNode(Black, rl.right, right.elem, right.right),
			)
		} else if rr := right.right; rr.isRed() {
			return newRBNode(Red,
				newRBNode(Black, left, elem, right.left),
				right.elem,
				rr.setBlack(),
			)
		}
	}
	return newRBNode(Black, left, elem, right)
}

// balLeft rebuilds a node whose left subtree came back one black
// level short after a removal. The deficit is either paid on the
// spot or converted into a red-red violation for balance2 to repair.
func balLeft[E any](left *rbNode[E], elem E, right *rbNode[E]) *rbNode[E] {
	if left.isRed() {
		return newRBNode(Red, left.setBlack(), elem, right)
	}
	if right != nil {
		if right.color == Black {
			return balance2(left, elem, right.setRed())
		}
		if rl := right.left; rl != nil && rl.color == Black {
			return newRBNode(Red,
				newRBNode(Black, left, elem, rl.left),
				rl.elem,
				balance2(rl.right, right.elem, right.right.setRed()),
			)
		}
	}
	// impossible run to here
	panic( /* debug assertion */ "[rbtree] balance left applied to a malformed subtree")
}

// balRight is the mirror of balLeft for a right subtree that came
// back one black level short.
func balRight[E any](left *rbNode[E], elem E, right *rbNode[E]) *rbNode[E] {
	if right.isRed() {
		return newRBNode(Red, left, elem, right.setBlack())
	}
	if left != nil {
		if left.color == Black {
			return balance1(left.setRed(), elem, right)
		}
		if lr := left.right; lr != nil && lr.color == Black {
			return newRBNode(Red,
				balance1(left.left.setRed(), left.elem, lr.left),
				lr.elem,
				newRBNode(Black, lr.right, elem, right),
			)
		}
	}
	// impossible run to here
	panic( /* debug assertion */ "[rbtree] balance right applied to a malformed subtree")
}

// appendTrees joins the two subtrees flanking a removed element.
// Both inputs carry the same black height; the join preserves it and
// surfaces at most one violation at the seam, either a red-red pair
// left for path repair to absorb or a short subtree already handed
// to balLeft here.
func appendTrees[E any](left, right *rbNode[E]) *rbNode[E] {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	case left.color == Red && right.color == Red:
		mid := appendTrees(left.right, right.left)
		if mid.isRed() {
			return newRBNode(Red,
				newRBNode(Red, left.left, left.elem, mid.left),
				mid.elem,
				newRBNode(Red, mid.right, right.elem, right.right),
			)
		}
		return newRBNode(Red,
			left.left,
			left.elem,
			newRBNode(Red, mid, right.elem, right.right),
		)
	case left.color == Black && right.color == Black:
		mid := appendTrees(left.right, right.left)
		if mid.isRed() {
			return newRBNode(Red,
				newRBNode(Black, left.left, left.elem, mid.left),
				mid.elem,
				newRBNode(Black, mid.right, right.elem, right.right),
			)
		}
		return balLeft(left.left, left.elem, newRBNode(Black, mid, right.elem, right.right))
	case right.color == Red:
		return newRBNode(Red, appendTrees(left, right.left), right.elem, right.right)
	default: /* left red, right black */
		return newRBNode(Red, left.left, left.elem, appendTrees(left.right, right))
	}
}

// lookup descends by cut and returns the first node the cut maps to
// zero, or nil. Under a weak cut the node found is an arbitrary
// member of the matching run, not necessarily its least one.
func (node *rbNode[E]) lookup(cut RBCut[E]) *rbNode[E] {
	aux := node
	for aux != nil {
		if res := cut(aux.elem); res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return nil
}

// ceiling returns the least node whose element the cut places at or
// right of the target, or nil if the whole tree lies left of it.
func (node *rbNode[E]) ceiling(cut RBCut[E]) *rbNode[E] {
	var candidate *rbNode[E]
	aux := node
	for aux != nil {
		if res := cut(aux.elem); res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.right
		} else {
			candidate = aux
			aux = aux.left
		}
	}
	return candidate
}

// floor returns the greatest node whose element the cut places at or
// left of the target, or nil if the whole tree lies right of it.
func (node *rbNode[E]) floor(cut RBCut[E]) *rbNode[E] {
	var candidate *rbNode[E]
	aux := node
	for aux != nil {
		if res := cut(aux.elem); res == 0 {
			return aux
		} else if res > 0 {
			candidate = aux
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return candidate
}

func (node *rbNode[E]) minimum() *rbNode[E] {
	aux := node
	for aux != nil && aux.left != nil {
		aux = aux.left
	}
	return aux
}

func (node *rbNode[E]) maximum() *rbNode[E] {
	aux := node
	for aux != nil && aux.right != nil {
		aux = aux.right
	}
	return aux
}
