// Package span implements the JSON string span decoder (spec component C1).
//
// A Span is a non-owning view of a JSON string token as it appears in the
// original input, enclosing quotes included. The routines here validate a
// span's escape sequences, measure the byte length of its decoded UTF-8
// form, compare it against a plain string, and materialize the decoded form
// on demand — without ever building an intermediate decoded value until the
// caller asks for one.
//
// Validate is the one entry point that treats the span as untrusted input.
// DecodedLen, Equals, Copy, and Dup are the fast path: they assume the span
// has already been validated (by Validate, or implicitly by having come out
// of package jsonparse, which only ever emits well-formed string tokens) and
// may produce meaningless results on malformed input rather than erroring.
package span

import (
	"github.com/fenwick-labs/spanjson/jsonerr"
)

// Span is a view into a JSON string token, including the surrounding
// double quotes. Its lifetime is bounded by the buffer it was sliced from.
type Span struct {
	Data []byte
}

// Of wraps a byte slice as a Span without copying.
func Of(data []byte) Span { return Span{Data: data} }

// OfString wraps a Go string as a Span without copying.
func OfString(s string) Span { return Span{Data: []byte(s)} }

// Validate confirms the span begins and ends with '"' and that every
// escape sequence in its interior is well-formed: a '\' must be followed by
// one of `" \ / b f n r t u`, and a `u` must be followed by 4 hex digits; if
// those 4 hex digits decode to a high surrogate, the next 6 bytes must form
// a matching low-surrogate escape.
func (s Span) Validate() *jsonerr.Error {
	d := s.Data
	if len(d) < 2 || d[0] != '"' || d[len(d)-1] != '"' {
		return jsonerr.New(jsonerr.CodeSpanNotQuoted, d, 0, 0)
	}
	i := 1
	end := len(d) - 1
	for i < end {
		c := d[i]
		if c != '\\' {
			i++
			continue
		}
		i++
		if i >= end {
			return jsonerr.New(jsonerr.CodeUnexpectedEOF, d, 0, i)
		}
		esc := d[i]
		if esc == 'u' {
			i++
			r, n, err := readHex4(d, i, end)
			if err != nil {
				return err
			}
			i += n
			if r >= 0xD800 && r <= 0xDBFF { // high surrogate: a low surrogate must follow
				if i+1 >= end || d[i] != '\\' || d[i+1] != 'u' {
					return jsonerr.New(jsonerr.CodeExpectedEscapedChar, d, 0, i)
				}
				i += 2
				low, n2, err := readHex4(d, i, end)
				if err != nil {
					return err
				}
				if low < 0xDC00 || low > 0xDFFF {
					return jsonerr.New(jsonerr.CodeExpectedHex, d, 0, i)
				}
				i += n2
			}
			continue
		}
		if !isSimpleEscape(esc) {
			return jsonerr.New(jsonerr.CodeExpectedEscapedChar, d, 0, i)
		}
		i++
	}
	return nil
}

func isSimpleEscape(b byte) bool {
	switch b {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return true
	default:
		return false
	}
}

func readHex4(d []byte, i, end int) (rune, int, *jsonerr.Error) {
	if i+4 > end {
		return 0, 0, jsonerr.New(jsonerr.CodeUnexpectedEOF, d, 0, i)
	}
	var v int
	for k := 0; k < 4; k++ {
		h, ok := hexVal(d[i+k])
		if !ok {
			return 0, 0, jsonerr.New(jsonerr.CodeExpectedHex, d, 0, i+k)
		}
		v = v<<4 | h
	}
	return rune(v), 4, nil
}

func hexVal(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}
