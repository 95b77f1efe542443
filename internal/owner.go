package internal

import (
	"iter"
)

// Owner is a node in a cleanup tree. Disposing an owner disposes its
// children first, then runs its own cleanups in registration order.
type Owner struct {
	// cleanup functions to be called when the owner is disposed
	cleanups []func()

	disposed bool

	parent       *Owner
	prevSibling  *Owner
	nextSibling  *Owner
	childrenHead *Owner
}

func NewOwner() *Owner {
	return &Owner{
		cleanups: make([]func(), 0),
	}
}

// NewChild creates an owner attached to the receiver.
func (parent *Owner) NewChild() *Owner {
	child := NewOwner()
	parent.AddChild(child)
	return child
}

func (parent *Owner) AddChild(child *Owner) {
	child.parent = parent
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

func (n *Owner) Children() iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		child := n.childrenHead

		for child != nil {
			// read next first, yield may detach the child
			next := child.nextSibling
			if !yield(child) {
				return
			}

			child = next
		}
	}
}

func (n *Owner) Disposed() bool {
	return n.disposed
}

func (n *Owner) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true

	n.DisposeChildren()

	// cleanups may register more cleanups, so don't range
	for i := 0; i < len(n.cleanups); i++ {
		n.cleanups[i]()
	}
	n.cleanups = nil

	n.detach()
}

func (n *Owner) DisposeChildren() {
	for child := range n.Children() {
		child.Dispose()
	}
	n.childrenHead = nil
}

// OnCleanup registers fn to run when the owner is disposed. Registering on
// an already disposed owner runs fn immediately.
func (n *Owner) OnCleanup(fn func()) {
	if n.disposed {
		fn()
		return
	}

	n.cleanups = append(n.cleanups, fn)
}

func (n *Owner) detach() {
	if n.parent == nil {
		return
	}

	if n.prevSibling != nil {
		n.prevSibling.nextSibling = n.nextSibling
	} else if n.parent.childrenHead == n {
		n.parent.childrenHead = n.nextSibling
	}

	if n.nextSibling != nil {
		n.nextSibling.prevSibling = n.prevSibling
	}

	n.parent = nil
	n.prevSibling = nil
	n.nextSibling = nil
}
