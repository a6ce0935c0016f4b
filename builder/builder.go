// Package builder defines the callback contract (spec component C3) between
// package jsonparse and whatever caller-chosen storage a parse fills in.
//
// A Builder is notified once per container open, once per array element,
// and once per object member, in the lexical order the parser encounters
// them. It returns an opaque Handle (plus a caller-chosen Tag) for each
// container it opens, which the parser threads back in as the parent of
// whatever comes next. Handles are never inspected or dereferenced by the
// parser; they exist purely to let a Builder route callbacks back to its own
// in-progress data structure without a handle-to-type lookup table, by
// stashing the Tag alongside.
package builder

import (
	"github.com/fenwick-labs/spanjson/jsonerr"
	"github.com/fenwick-labs/spanjson/span"
)

// Kind identifies which kind of container a parser is about to open.
type Kind int

const (
	// KindObject is passed to Open when the parser encounters '{'.
	KindObject Kind = iota
	// KindArray is passed to Open when the parser encounters '['.
	KindArray
)

// Handle is an opaque, caller-defined reference to an in-construction
// container. The parser never inspects it.
type Handle any

// Tag is an opaque, caller-assigned integer that accompanies a Handle so a
// Builder can discriminate between multiple container shapes without a
// handle-to-type lookup.
type Tag int

// Key is a discriminated value: either an object member id (a string span)
// or an array index (a monotonically increasing unsigned integer assigned
// during array parsing). IsIndex selects which arm is meaningful.
type Key struct {
	IsIndex bool
	ID      span.Span
	Index   uint64
}

// ValueKind identifies the shape of a Value, mirroring spec.md §3's Value
// tagged union.
type ValueKind int

const (
	// KindNull identifies the JSON null literal.
	KindNull ValueKind = iota
	// KindBool identifies a JSON boolean literal.
	KindBool
	// KindInteger identifies a JSON number lexeme with no fractional part or exponent.
	KindInteger
	// KindDecimal identifies a JSON number lexeme with a fractional part and/or exponent.
	KindDecimal
	// KindString identifies a JSON string token.
	KindString
	// KindContainerObject identifies a value that is itself an object.
	KindContainerObject
	// KindContainerArray identifies a value that is itself an array.
	KindContainerArray
)

// Value is the tagged union the parser hands to Builder callbacks. For
// KindContainerObject/KindContainerArray, Handle/ContainerTag carry the
// values the Builder itself returned from Open.
type Value struct {
	Kind         ValueKind
	Str          span.Span
	Int          int64
	Dec          float64
	Bool         bool
	Handle       Handle
	ContainerTag Tag
}

// Builder is the callback trio a parse drives. Any non-nil error aborts the
// parse; it is propagated unchanged as the outer parse result, so a Builder
// that wants a distinguishable failure uses one of the three reserved codes
// (jsonerr.CodeUnexpectedKey, CodeDuplicateKey, CodeNotEqual) rather than
// inventing its own taxonomy.
type Builder interface {
	// Open is called when the parser encounters '{' or '[' as a value,
	// before any of the container's contents are parsed. It must return a
	// non-nil Handle (the well-known void sentinel if the caller doesn't
	// care about this subtree) and whatever Tag the caller wants threaded
	// back through Push/Set for this container.
	Open(kind Kind, parent Handle, parentTag Tag, key Key) (Handle, Tag, *jsonerr.Error)

	// Push is called once per array element, in increasing index order,
	// after the element has been fully parsed.
	Push(parent Handle, parentTag Tag, index uint64, v Value) *jsonerr.Error

	// Set is called once per object member, in source order, after the
	// member's value has been fully parsed.
	Set(parent Handle, parentTag Tag, id span.Span, v Value) *jsonerr.Error
}

// voidHandle is the well-known sentinel handle VoidBuilder returns.
type voidHandle struct{}

// VoidHandle is the sentinel Handle returned by VoidBuilder.Open.
var VoidHandle Handle = voidHandle{}

// VoidBuilder implements Builder by discarding every callback. Open still
// returns the well-known VoidHandle/VoidTag pair, since a parse exercises
// the same recursion regardless of what the Builder does with it — useful
// for syntax-only validation of an input.
type VoidBuilder struct{}

// VoidTag is the sentinel Tag VoidBuilder.Open returns.
const VoidTag Tag = -1

// Open implements Builder.
func (VoidBuilder) Open(Kind, Handle, Tag, Key) (Handle, Tag, *jsonerr.Error) {
	return VoidHandle, VoidTag, nil
}

// Push implements Builder.
func (VoidBuilder) Push(Handle, Tag, uint64, Value) *jsonerr.Error { return nil }

// Set implements Builder.
func (VoidBuilder) Set(Handle, Tag, span.Span, Value) *jsonerr.Error { return nil }
