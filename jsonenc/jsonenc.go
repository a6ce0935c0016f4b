// Package jsonenc is the encoder pushdown automaton (spec component C5): a
// state machine that accepts a sequence of primitive emission calls and
// either produces well-formed minified JSON or rejects the call sequence
// deterministically by entering a sticky error state.
package jsonenc

import (
	"errors"
	"strings"

	"github.com/fenwick-labs/spanjson/builder"
	"github.com/fenwick-labs/spanjson/entity"
	"github.com/fenwick-labs/spanjson/numfmt"
)

// State is one frame's position in the pushdown automaton.
type State int

const (
	StateRoot State = iota
	StateObject
	StateObjectAwaitingValue
	StateArray
	StateEndObject
	StateEndArray
	StateEndRoot
	StateError
)

// ErrInvalidState is returned once an operation is attempted against a
// frame transition the state table forbids; the encoder becomes inert from
// that point on.
var ErrInvalidState = errors.New("jsonenc: operation not valid in current encoder state")

// ErrNotCollapsible is returned by Collapse when the root frame has not
// reached StateEndRoot.
var ErrNotCollapsible = errors.New("jsonenc: collapse requires a completed root value")

type frame struct {
	state    State
	hasValue bool
}

// Encoder drives the pushdown automaton described in spec.md §4.5. A zero
// Encoder is not usable; construct one with New.
type Encoder struct {
	frames    []frame
	fragments []string
	err       error
	collapsed bool
}

// New returns an Encoder ready to accept a single top-level value.
func New() *Encoder {
	return &Encoder{frames: []frame{{state: StateRoot}}}
}

func (e *Encoder) top() *frame { return &e.frames[len(e.frames)-1] }

func (e *Encoder) fail() {
	e.top().state = StateError
	e.err = ErrInvalidState
}

func (e *Encoder) emit(s string) { e.fragments = append(e.fragments, s) }

// putValue runs the put_value transition against the top frame, emitting a
// leading "," in an Array frame with a pending value, and returns whether
// the transition succeeded.
func (e *Encoder) putValue() bool {
	if e.err != nil {
		return false
	}
	f := e.top()
	switch f.state {
	case StateRoot:
		f.state = StateEndRoot
	case StateArray:
		if f.hasValue {
			e.emit(",")
		}
		f.hasValue = true
	case StateObjectAwaitingValue:
		f.state = StateObject
	default:
		e.fail()
		return false
	}
	return true
}

// putID runs the put_id transition, emitting a leading "," if this object
// already has a member, followed by the encoded id and a ":".
func (e *Encoder) putID(id string) bool {
	if e.err != nil {
		return false
	}
	f := e.top()
	if f.state != StateObject {
		e.fail()
		return false
	}
	if f.hasValue {
		e.emit(",")
	}
	f.hasValue = true
	f.state = StateObjectAwaitingValue
	e.emit(EncodeString(id))
	e.emit(":")
	return true
}

// close runs the close transition against the top frame.
func (e *Encoder) close() bool {
	if e.err != nil {
		return false
	}
	f := e.top()
	switch f.state {
	case StateObject:
		f.state = StateEndObject
	case StateArray:
		f.state = StateEndArray
	default:
		e.fail()
		return false
	}
	return true
}

// BeginObject performs a put_value on the current frame, then pushes a new
// Object frame.
func (e *Encoder) BeginObject() error {
	if !e.putValue() {
		return e.err
	}
	e.emit("{")
	e.frames = append(e.frames, frame{state: StateObject})
	return nil
}

// BeginArray performs a put_value on the current frame, then pushes a new
// Array frame.
func (e *Encoder) BeginArray() error {
	if !e.putValue() {
		return e.err
	}
	e.emit("[")
	e.frames = append(e.frames, frame{state: StateArray})
	return nil
}

// PushID emits an object member id. Valid only directly inside an Object
// frame, and must be followed by exactly one value-producing call.
func (e *Encoder) PushID(id string) error {
	if !e.putID(id) {
		return e.err
	}
	return nil
}

// PushValue emits raw, pre-formatted JSON verbatim — used for numeric
// literals or strings a caller has already encoded — without running it
// through the string encoder.
func (e *Encoder) PushValue(raw string) error {
	if !e.putValue() {
		return e.err
	}
	e.emit(raw)
	return nil
}

// PushString runs s through the string encoder and emits the result.
func (e *Encoder) PushString(s string) error {
	if !e.putValue() {
		return e.err
	}
	e.emit(EncodeString(s))
	return nil
}

// PushNumeric emits n using FormatInteger or FormatDecimal as appropriate.
func (e *Encoder) PushNumeric(n entity.Numeric) error {
	if n.IsInteger {
		return e.PushInteger(n.Int)
	}
	return e.PushDecimal(n.Dec)
}

// PushInteger emits i using a plain decimal formatter.
func (e *Encoder) PushInteger(i int64) error {
	if !e.putValue() {
		return e.err
	}
	e.emit(numfmt.FormatInteger(i))
	return nil
}

// PushDecimal emits f using a shortest-round-trip float formatter.
func (e *Encoder) PushDecimal(f float64) error {
	if !e.putValue() {
		return e.err
	}
	e.emit(numfmt.FormatDecimal(f))
	return nil
}

// PushBool emits the JSON boolean literal for b.
func (e *Encoder) PushBool(b bool) error {
	if !e.putValue() {
		return e.err
	}
	if b {
		e.emit("true")
	} else {
		e.emit("false")
	}
	return nil
}

// PushNull emits the JSON null literal.
func (e *Encoder) PushNull() error {
	if !e.putValue() {
		return e.err
	}
	e.emit("null")
	return nil
}

// End performs close on the current frame, emits the matching closing
// bracket, and pops the frame. The root frame is never popped.
func (e *Encoder) End() error {
	if !e.close() {
		return e.err
	}
	f := e.top()
	switch f.state {
	case StateEndObject:
		e.emit("}")
	case StateEndArray:
		e.emit("]")
	}
	if len(e.frames) > 1 {
		e.frames = e.frames[:len(e.frames)-1]
	}
	return nil
}

// Collapse concatenates the buffered fragments into one owned byte slice.
// It requires the root frame to have reached StateEndRoot; a shallower
// call sequence leaves Collapse refusing to produce output.
func (e *Encoder) Collapse() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.frames) != 1 || e.frames[0].state != StateEndRoot {
		return nil, ErrNotCollapsible
	}
	out := strings.Join(e.fragments, "")
	e.collapsed = true
	return []byte(out), nil
}

// EncodeString implements the library's string encoder: control characters
// below 0x20 are escaped (with the five named two-character escapes taking
// priority over the generic \u00XX form), '"' and '\\' are escaped, '/' is
// left unescaped, and everything else — including multi-byte UTF-8
// sequences — passes through unchanged. The result is wrapped in double
// quotes.
func EncodeString(s string) string {
	var buf strings.Builder
	buf.Grow(len(s) + 2)
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		b := s[i]
		if esc, ok := namedEscape(b); ok {
			buf.WriteString(esc)
			i++
			continue
		}
		if b < 0x20 {
			buf.WriteString(`\u00`)
			buf.WriteByte(hexDigitUpper(b >> 4))
			buf.WriteByte(hexDigitUpper(b & 0x0F))
			i++
			continue
		}
		n := utf8SeqLen(b)
		if i+n > len(s) {
			n = len(s) - i
		}
		for k := 1; k < n; k++ {
			if s[i+k] < 0x80 {
				n = k
				break
			}
		}
		buf.WriteString(s[i : i+n])
		i += n
	}
	buf.WriteByte('"')
	return buf.String()
}

func namedEscape(b byte) (string, bool) {
	switch b {
	case '"':
		return `\"`, true
	case '\\':
		return `\\`, true
	case '\b':
		return `\b`, true
	case '\f':
		return `\f`, true
	case '\n':
		return `\n`, true
	case '\r':
		return `\r`, true
	case '\t':
		return `\t`, true
	default:
		return "", false
	}
}

func hexDigitUpper(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'A' + (b - 10)
}

func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// EncodeEntity walks an entity tree depth-first and drives an Encoder to
// produce its minified JSON form, collapsing at the end.
func EncodeEntity(n *entity.Node) ([]byte, error) {
	e := New()
	if err := encodeNode(e, n); err != nil {
		return nil, err
	}
	return e.Collapse()
}

func encodeNode(e *Encoder, n *entity.Node) error {
	if n.ParentKind == entity.ObjectParent {
		if err := e.PushID(n.ID); err != nil {
			return err
		}
	}
	switch n.Kind {
	case builder.KindNull:
		return e.PushNull()
	case builder.KindBool:
		return e.PushBool(n.Bool)
	case builder.KindInteger, builder.KindDecimal:
		return e.PushNumeric(n.Num)
	case builder.KindString:
		return e.PushString(n.Str)
	case builder.KindContainerObject:
		if err := e.BeginObject(); err != nil {
			return err
		}
		if err := encodeChildren(e, n); err != nil {
			return err
		}
		return e.End()
	case builder.KindContainerArray:
		if err := e.BeginArray(); err != nil {
			return err
		}
		if err := encodeChildren(e, n); err != nil {
			return err
		}
		return e.End()
	}
	return nil
}

func encodeChildren(e *Encoder, n *entity.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSib {
		if err := encodeNode(e, c); err != nil {
			return err
		}
	}
	return nil
}
