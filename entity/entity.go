// Package entity is the library's default builder (spec component C4): an
// owned, heap-allocated tree that materializes an entire JSON document so
// callers who don't want to write their own builder.Builder can just
// Decode and walk the result.
package entity

import (
	"github.com/fenwick-labs/spanjson/builder"
	"github.com/fenwick-labs/spanjson/jsonerr"
	"github.com/fenwick-labs/spanjson/jsonparse"
	"github.com/fenwick-labs/spanjson/numfmt"
	"github.com/fenwick-labs/spanjson/span"
)

// ParentKind records what kind of container, if any, a Node's parent is.
// It governs which of ID/Index is meaningful.
type ParentKind int

const (
	// RootParent marks the single node returned directly by Decode.
	RootParent ParentKind = iota
	// ObjectParent marks a node reachable through a parent's member chain; ID is set.
	ObjectParent
	// ArrayParent marks a node reachable through a parent's element chain; Index is set.
	ArrayParent
)

// Node is one entry in the entity tree. Children form a singly-linked list
// rooted at FirstChild; there are no back-edges, so freeing a Node is a
// straightforward post-order walk (handled here by the garbage collector —
// Release exists only to mirror the source's explicit free and to let a
// long-lived caller detach a subtree's references promptly).
type Node struct {
	Kind       builder.ValueKind
	ParentKind ParentKind
	ID         string
	Index      uint64
	Num        Numeric
	Bool       bool
	Str        string

	FirstChild *Node
	NextSib    *Node
}

// Numeric mirrors builder.Value's Integer/Decimal tagged union, widened to
// int64/float64 per spec.md §9.
type Numeric struct {
	IsInteger bool
	Int       int64
	Dec       float64
}

// Decode parses input (object, array, or a bare primitive) into a freshly
// allocated entity tree. Trailing bytes after the root value are tolerated.
func Decode(input []byte) (*Node, *jsonerr.Error) {
	return decode(input, false)
}

// DecodeExact is like Decode but reports CodeUnexpectedInput if anything
// other than whitespace follows the root value.
func DecodeExact(input []byte) (*Node, *jsonerr.Error) {
	return decode(input, true)
}

func decode(input []byte, exact bool) (*Node, *jsonerr.Error) {
	tb := &treeBuilder{}
	root := &Node{ParentKind: RootParent}
	p := jsonparse.New(input, tb)

	v, err := p.ParseValue(root, 0, builder.Key{})
	if err != nil {
		return nil, err
	}
	applyValue(root, v)

	if exact {
		if err := p.RequireTrailingWhitespaceOnly(); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// Member returns the child whose ID decodes equal to id, or nil.
func (n *Node) Member(id string) *Node {
	for c := n.FirstChild; c != nil; c = c.NextSib {
		if c.ParentKind == ObjectParent && c.ID == id {
			return c
		}
	}
	return nil
}

// Item returns the child at the given array index, or nil.
func (n *Node) Item(index uint64) *Node {
	for c := n.FirstChild; c != nil; c = c.NextSib {
		if c.ParentKind == ArrayParent && c.Index == index {
			return c
		}
	}
	return nil
}

// Len counts the entries in n's child chain.
func (n *Node) Len() int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSib {
		count++
	}
	return count
}

// AsNumber returns n's numeric value, or the zero Numeric on type mismatch.
func (n *Node) AsNumber() Numeric {
	if n == nil || (n.Kind != builder.KindInteger && n.Kind != builder.KindDecimal) {
		return Numeric{}
	}
	return n.Num
}

// AsBool returns n's boolean value, or false on type mismatch.
func (n *Node) AsBool() bool {
	if n == nil || n.Kind != builder.KindBool {
		return false
	}
	return n.Bool
}

// AsString returns n's decoded string value, or "" on type mismatch.
func (n *Node) AsString() string {
	if n == nil || n.Kind != builder.KindString {
		return ""
	}
	return n.Str
}

// IsNull reports whether n holds the JSON null literal.
func (n *Node) IsNull() bool {
	return n != nil && n.Kind == builder.KindNull
}

// Release detaches n's subtree references so a long-lived parent can drop
// them promptly instead of waiting on the collector; it is not required for
// correctness, only for anticipated memory pressure.
func (n *Node) Release() {
	if n == nil {
		return
	}
	n.FirstChild.Release()
	n.NextSib.Release()
	n.FirstChild = nil
	n.NextSib = nil
}

// String renders n the way numfmt would encode it, for callers inspecting
// a tree outside the encoder.
func (n Numeric) String() string {
	if n.IsInteger {
		return numfmt.FormatInteger(n.Int)
	}
	return numfmt.FormatDecimal(n.Dec)
}

func applyValue(dst *Node, v builder.Value) {
	dst.Kind = v.Kind
	switch v.Kind {
	case builder.KindString:
		dst.Str = v.Str.Dup()
	case builder.KindInteger:
		dst.Num = Numeric{IsInteger: true, Int: v.Int}
	case builder.KindDecimal:
		dst.Num = Numeric{Dec: v.Dec}
	case builder.KindBool:
		dst.Bool = v.Bool
	case builder.KindContainerObject, builder.KindContainerArray:
		child := v.Handle.(*Node)
		dst.FirstChild = child.FirstChild
	}
}

// treeBuilder implements builder.Builder by allocating a Node per Open and
// promoting it into its parent's child chain on the matching Set/Push.
type treeBuilder struct{}

func (tb *treeBuilder) Open(kind builder.Kind, parent builder.Handle, parentTag builder.Tag, key builder.Key) (builder.Handle, builder.Tag, *jsonerr.Error) {
	n := &Node{}
	if key.IsIndex {
		n.ParentKind = ArrayParent
		n.Index = key.Index
	} else {
		n.ParentKind = ObjectParent
		n.ID = key.ID.Dup()
	}
	if kind == builder.KindObject {
		n.Kind = builder.KindContainerObject
	} else {
		n.Kind = builder.KindContainerArray
	}
	return n, 0, nil
}

func (tb *treeBuilder) Set(parent builder.Handle, parentTag builder.Tag, id span.Span, v builder.Value) *jsonerr.Error {
	p := parent.(*Node)
	n := nodeForValue(v, ObjectParent, id.Dup(), 0)
	appendChild(p, n)
	return nil
}

func (tb *treeBuilder) Push(parent builder.Handle, parentTag builder.Tag, index uint64, v builder.Value) *jsonerr.Error {
	p := parent.(*Node)
	n := nodeForValue(v, ArrayParent, "", index)
	appendChild(p, n)
	return nil
}

// nodeForValue allocates the child node for a Set/Push callback. For
// container values the Handle already points at the Node Open allocated;
// it just needs its parent-relative key filled in.
func nodeForValue(v builder.Value, pk ParentKind, id string, index uint64) *Node {
	var n *Node
	if v.Kind == builder.KindContainerObject || v.Kind == builder.KindContainerArray {
		n = v.Handle.(*Node)
	} else {
		n = &Node{Kind: v.Kind}
		switch v.Kind {
		case builder.KindString:
			n.Str = v.Str.Dup()
		case builder.KindInteger:
			n.Num = Numeric{IsInteger: true, Int: v.Int}
		case builder.KindDecimal:
			n.Num = Numeric{Dec: v.Dec}
		case builder.KindBool:
			n.Bool = v.Bool
		}
	}
	n.ParentKind = pk
	n.ID = id
	n.Index = index
	return n
}

func appendChild(parent, child *Node) {
	if parent.FirstChild == nil {
		parent.FirstChild = child
		return
	}
	last := parent.FirstChild
	for last.NextSib != nil {
		last = last.NextSib
	}
	last.NextSib = child
}
