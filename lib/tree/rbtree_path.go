package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

// pathFrame is one unzipped ancestor on the way from the root down
// to a hole. dir names the side the hole hangs on, sibling is the
// child on the other side, and a nil parent marks the root frame.
type pathFrame[E any] struct {
	parent  *pathFrame[E]
	sibling *rbNode[E]
	elem    E
	color   RBColor
	dir     RBDirection
}

// zoom unzips node along cut. It returns the subtree whose root the
// cut maps to zero plus the path of unzipped ancestors, or a nil
// subtree with the path pointing at the leaf hole the target would
// occupy.
func zoom[E any](node *rbNode[E], cut RBCut[E]) (*rbNode[E], *pathFrame[E]) {
	var path *pathFrame[E]
	aux := node
	for aux != nil {
		res := cut(aux.elem)
		if res == 0 {
			return aux, path
		}
		if res > 0 {
			path = &pathFrame[E]{
				parent:  path,
				sibling: aux.left,
				elem:    aux.elem,
				color:   aux.color,
				dir:     Right,
			}
			aux = aux.right
		} else {
			path = &pathFrame[E]{
				parent:  path,
				sibling: aux.right,
				elem:    aux.elem,
				color:   aux.color,
				dir:     Left,
			}
			aux = aux.left
		}
	}
	return nil, path
}

// fill zips the path back up around sub without rebalancing. Only
// valid when sub keeps the black height and color found at the hole,
// as an in-place element replacement does.
func (path *pathFrame[E]) fill(sub *rbNode[E]) *rbNode[E] {
	aux := sub
	for frame := path; frame != nil; frame = frame.parent {
		if frame.dir == Left {
			aux = newRBNode(frame.color, aux, frame.elem, frame.sibling)
		} else {
			aux = newRBNode(frame.color, frame.sibling, frame.elem, aux)
		}
	}
	return aux
}

// ins zips the path back up around a subtree that grew by one red
// node, repairing the possible red-red violation under each black
// ancestor with the balance rotation of the hole's side. The new
// root comes back painted black.
func (path *pathFrame[E]) ins(sub *rbNode[E]) *rbNode[E] {
	aux := sub
	for frame := path; frame != nil; frame = frame.parent {
		if frame.color == Red {
			if frame.dir == Left {
				aux = newRBNode(Red, aux, frame.elem, frame.sibling)
			} else {
				aux = newRBNode(Red, frame.sibling, frame.elem, aux)
			}
			continue
		}
		if frame.dir == Left {
			aux = balance1(aux, frame.elem, frame.sibling)
		} else {
			aux = balance2(frame.sibling, frame.elem, aux)
		}
	}
	return aux.setBlack()
}

// insertNew grows a red singleton at the leaf hole the path points
// to and zips up with ins.
func (path *pathFrame[E]) insertNew(elem E) *rbNode[E] {
	return path.ins(newRBNode(Red, nil, elem, nil))
}

// del zips the path back up after the subtree at the hole shrank.
// c is the color the removed subtree root had at this level; a red
// root costs no black height and rebuilds plainly, a black one
// leaves the hole one level short and routes through balLeft or
// balRight, with the debt threaded upward through each frame color
// until some repair absorbs it.
func (path *pathFrame[E]) del(sub *rbNode[E], c RBColor) *rbNode[E] {
	aux := sub
	for frame := path; frame != nil; frame = frame.parent {
		if c == Black {
			if frame.dir == Left {
				aux = balLeft(aux, frame.elem, frame.sibling)
			} else {
				aux = balRight(frame.sibling, frame.elem, aux)
			}
		} else {
			if frame.dir == Left {
				aux = newRBNode(Red, aux, frame.elem, frame.sibling)
			} else {
				aux = newRBNode(Red, frame.sibling, frame.elem, aux)
			}
		}
		c = frame.color
	}
	return aux.setBlack()
}

// insert returns the root of a new version containing elem. When an
// equal element is already present it is replaced in place, or kept
// with the whole tree shared if replace is false. The bool reports
// whether the version grew.
func insert[E any](root *rbNode[E], cmp infra.Comparator[E], elem E, replace bool) (*rbNode[E], bool) {
	target, path := zoom(root, func(candidate E) int64 {
		return cmp(elem, candidate)
	})
	if target == nil {
		return path.insertNew(elem), true
	}
	if !replace {
		return root, false
	}
	return path.fill(newRBNode(target.color, target.left, elem, target.right)), false
}

// remove returns the root of a new version without the element the
// cut matches, joining the two orphaned subtrees at the hole. A miss
// shares the whole tree unchanged.
func remove[E any](root *rbNode[E], cut RBCut[E]) (*rbNode[E], bool) {
	target, path := zoom(root, cut)
	if target == nil {
		return root, false
	}
	return path.del(appendTrees(target.left, target.right), target.color), true
}
