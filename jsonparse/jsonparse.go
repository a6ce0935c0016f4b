// Package jsonparse is the grammar parser (spec component C2): a
// hand-written recursive-descent scanner over a byte slice that recognizes
// exactly RFC-8259 JSON and drives a builder.Builder. It never allocates on
// its own behalf; strings are handed to the Builder as spans into the
// original input, and every failure is reported as a *jsonerr.Error pinned
// to the offending byte.
package jsonparse

import (
	"math"
	"strconv"

	"github.com/fenwick-labs/spanjson/builder"
	"github.com/fenwick-labs/spanjson/jsonerr"
	"github.com/fenwick-labs/spanjson/span"
)

// Parser holds the cursor state for a single parse. It is not safe for
// concurrent use; two parses over disjoint inputs need independent Parsers.
type Parser struct {
	data []byte
	pos  int
	b    builder.Builder
}

// New returns a Parser over input that delivers callbacks to b.
func New(input []byte, b builder.Builder) *Parser {
	return &Parser{data: input, b: b}
}

// Pos reports the current cursor offset into the input.
func (p *Parser) Pos() int { return p.pos }

// ParseObject parses input as a top-level object, delivering Set callbacks
// against rootHandle/rootTag for each member. The cursor rests on the first
// byte after the closing '}' on success, or on the offending byte on
// failure. Trailing bytes after the object are not checked; call
// RequireTrailingWhitespaceOnly afterwards to reject them.
func (p *Parser) ParseObject(rootHandle builder.Handle, rootTag builder.Tag) *jsonerr.Error {
	p.skipWS()
	return p.parseObjectMembers(rootHandle, rootTag)
}

// ParseArray parses input as a top-level array, delivering Push callbacks
// against rootHandle/rootTag for each element.
func (p *Parser) ParseArray(rootHandle builder.Handle, rootTag builder.Tag) *jsonerr.Error {
	p.skipWS()
	return p.parseArrayElements(rootHandle, rootTag)
}

// ParseValue parses a single JSON value of any kind — object, array, or
// primitive — rooted under parent/parentTag at key, and returns the
// resulting builder.Value. It is the entry point entity.Decode uses when
// the root of a document is a primitive rather than a container.
func (p *Parser) ParseValue(parent builder.Handle, parentTag builder.Tag, key builder.Key) (builder.Value, *jsonerr.Error) {
	p.skipWS()
	return p.parseValue(parent, parentTag, key)
}

// RequireTrailingWhitespaceOnly reports unexpectedInput if anything other
// than whitespace remains at the cursor. It implements the decode_exact
// variant spec.md's "Open question — trailing input" recommends alongside
// the default, trailing-tolerant entry points above.
func (p *Parser) RequireTrailingWhitespaceOnly() *jsonerr.Error {
	p.skipWS()
	if p.pos != len(p.data) {
		return jsonerr.New(jsonerr.CodeUnexpectedInput, p.data, 0, p.pos)
	}
	return nil
}

func (p *Parser) peekByte() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func (p *Parser) skipWS() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *Parser) errAt(code jsonerr.Code) *jsonerr.Error {
	return jsonerr.New(code, p.data, 0, p.pos)
}

func (p *Parser) expect(c byte, onMiss jsonerr.Code) *jsonerr.Error {
	b, ok := p.peekByte()
	if !ok || b != c {
		return p.errAt(onMiss)
	}
	p.pos++
	return nil
}

// parseValue implements the grammar parser's peek-by-first-byte dispatch.
func (p *Parser) parseValue(parent builder.Handle, parentTag builder.Tag, key builder.Key) (builder.Value, *jsonerr.Error) {
	p.skipWS()
	c, ok := p.peekByte()
	if !ok {
		return builder.Value{}, p.errAt(jsonerr.CodeUnexpectedEOF)
	}
	switch {
	case c == '{':
		return p.parseObjectAsValue(parent, parentTag, key)
	case c == '[':
		return p.parseArrayAsValue(parent, parentTag, key)
	case c == '"':
		sp, err := p.parseStringSpan()
		if err != nil {
			return builder.Value{}, err
		}
		return builder.Value{Kind: builder.KindString, Str: sp}, nil
	case c == 't' || c == 'f':
		return p.parseBoolValue()
	case c == 'n':
		return p.parseNullValue()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumberValue()
	default:
		return builder.Value{}, p.errAt(jsonerr.CodeExpectedValue)
	}
}

func (p *Parser) parseObjectAsValue(parent builder.Handle, parentTag builder.Tag, key builder.Key) (builder.Value, *jsonerr.Error) {
	h, tag, berr := p.b.Open(builder.KindObject, parent, parentTag, key)
	if berr != nil {
		return builder.Value{}, berr
	}
	if err := p.parseObjectMembers(h, tag); err != nil {
		return builder.Value{}, err
	}
	return builder.Value{Kind: builder.KindContainerObject, Handle: h, ContainerTag: tag}, nil
}

func (p *Parser) parseArrayAsValue(parent builder.Handle, parentTag builder.Tag, key builder.Key) (builder.Value, *jsonerr.Error) {
	h, tag, berr := p.b.Open(builder.KindArray, parent, parentTag, key)
	if berr != nil {
		return builder.Value{}, berr
	}
	if err := p.parseArrayElements(h, tag); err != nil {
		return builder.Value{}, err
	}
	return builder.Value{Kind: builder.KindContainerArray, Handle: h, ContainerTag: tag}, nil
}

// parseObjectMembers consumes the '{' ... '}' body (the opening brace must
// still be at the cursor) and delivers one Set per member in source order.
func (p *Parser) parseObjectMembers(h builder.Handle, tag builder.Tag) *jsonerr.Error {
	if err := p.expect('{', jsonerr.CodeExpectedOpenObject); err != nil {
		return err
	}
	p.skipWS()
	if c, ok := p.peekByte(); ok && c == '}' {
		p.pos++
		return nil
	}
	for {
		p.skipWS()
		idSpan, err := p.parseStringSpan()
		if err != nil {
			return err
		}
		p.skipWS()
		if err := p.expect(':', jsonerr.CodeExpectedColon); err != nil {
			return err
		}
		val, err := p.parseValue(h, tag, builder.Key{ID: idSpan})
		if err != nil {
			return err
		}
		if berr := p.b.Set(h, tag, idSpan, val); berr != nil {
			return berr
		}
		p.skipWS()
		c, ok := p.peekByte()
		if !ok {
			return p.errAt(jsonerr.CodeUnexpectedEOF)
		}
		if c == ',' {
			p.pos++
			continue
		}
		if err := p.expect('}', jsonerr.CodeExpectedCloseObject); err != nil {
			return err
		}
		return nil
	}
}

// parseArrayElements consumes the '[' ... ']' body and delivers one Push
// per element, index starting at 0 and incrementing strictly.
func (p *Parser) parseArrayElements(h builder.Handle, tag builder.Tag) *jsonerr.Error {
	if err := p.expect('[', jsonerr.CodeExpectedOpenArray); err != nil {
		return err
	}
	p.skipWS()
	if c, ok := p.peekByte(); ok && c == ']' {
		p.pos++
		return nil
	}
	var index uint64
	for {
		val, err := p.parseValue(h, tag, builder.Key{IsIndex: true, Index: index})
		if err != nil {
			return err
		}
		if berr := p.b.Push(h, tag, index, val); berr != nil {
			return berr
		}
		index++
		p.skipWS()
		c, ok := p.peekByte()
		if !ok {
			return p.errAt(jsonerr.CodeUnexpectedEOF)
		}
		if c == ',' {
			p.pos++
			continue
		}
		if err := p.expect(']', jsonerr.CodeExpectedCloseArray); err != nil {
			return err
		}
		return nil
	}
}

// parseStringSpan records the opening quote position, scans to the matching
// closing quote checking the escape grammar's shape (no decoding), runs
// span.Validate over the token so a high-surrogate \u escape must be followed
// by a low one, and returns the span including both quotes.
func (p *Parser) parseStringSpan() (span.Span, *jsonerr.Error) {
	start := p.pos
	if err := p.expect('"', jsonerr.CodeExpectedQuote); err != nil {
		return span.Span{}, err
	}
	for {
		c, ok := p.peekByte()
		if !ok {
			return span.Span{}, p.errAt(jsonerr.CodeUnexpectedEOF)
		}
		switch c {
		case '"':
			p.pos++
			sp := span.Of(p.data[start:p.pos])
			if verr := sp.Validate(); verr != nil {
				p.pos = start + verr.Cursor
				return span.Span{}, p.errAt(verr.Code)
			}
			return sp, nil
		case '\\':
			p.pos++
			if err := p.skipEscape(); err != nil {
				return span.Span{}, err
			}
		default:
			p.pos++
		}
	}
}

func (p *Parser) skipEscape() *jsonerr.Error {
	c, ok := p.peekByte()
	if !ok {
		return p.errAt(jsonerr.CodeUnexpectedEOF)
	}
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		p.pos++
		return nil
	case 'u':
		p.pos++
		return p.skipHex4()
	default:
		return p.errAt(jsonerr.CodeExpectedEscapedChar)
	}
}

func (p *Parser) skipHex4() *jsonerr.Error {
	for i := 0; i < 4; i++ {
		c, ok := p.peekByte()
		if !ok {
			return p.errAt(jsonerr.CodeUnexpectedEOF)
		}
		if !isHexDigit(c) {
			return p.errAt(jsonerr.CodeExpectedHex)
		}
		p.pos++
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (p *Parser) parseBoolValue() (builder.Value, *jsonerr.Error) {
	if p.hasLiteral("true") {
		p.pos += 4
		return builder.Value{Kind: builder.KindBool, Bool: true}, nil
	}
	if p.hasLiteral("false") {
		p.pos += 5
		return builder.Value{Kind: builder.KindBool, Bool: false}, nil
	}
	return builder.Value{}, p.errAt(jsonerr.CodeExpectedPrimitive)
}

func (p *Parser) parseNullValue() (builder.Value, *jsonerr.Error) {
	if p.hasLiteral("null") {
		p.pos += 4
		return builder.Value{Kind: builder.KindNull}, nil
	}
	return builder.Value{}, p.errAt(jsonerr.CodeExpectedPrimitive)
}

func (p *Parser) hasLiteral(lit string) bool {
	if p.pos+len(lit) > len(p.data) {
		return false
	}
	return string(p.data[p.pos:p.pos+len(lit)]) == lit
}

// parseNumberValue implements the grammar -? (0 | [1-9][0-9]*) (\.
// [0-9]+)? ([eE] [+\-]? [0-9]+)?, producing an Integer value iff neither a
// fraction nor an exponent was present.
func (p *Parser) parseNumberValue() (builder.Value, *jsonerr.Error) {
	start := p.pos
	end, isDecimal, err := scanNumberLexeme(p.data, p.pos, len(p.data))
	if err != nil {
		p.pos = err.Cursor
		return builder.Value{}, err
	}
	lexeme := string(p.data[start:end])
	p.pos = end
	if isDecimal {
		f, _ := strconv.ParseFloat(lexeme, 64)
		return builder.Value{Kind: builder.KindDecimal, Dec: f}, nil
	}
	return builder.Value{Kind: builder.KindInteger, Int: parseIntSaturating(lexeme)}, nil
}

// scanNumberLexeme scans a number lexeme starting at i and returns the
// offset just past it, plus whether a '.' or exponent marker was seen. It
// is exercised directly (not just through parseNumberValue) so the number
// grammar's edge cases can be tested against exact byte offsets.
func scanNumberLexeme(d []byte, i, limit int) (int, bool, *jsonerr.Error) {
	if i < limit && d[i] == '-' {
		i++
	}
	i, err := scanIntegerPart(d, i, limit)
	if err != nil {
		return 0, false, err
	}
	isDecimal := false
	i, hasFrac, err := scanFractionPart(d, i, limit)
	if err != nil {
		return 0, false, err
	}
	isDecimal = isDecimal || hasFrac
	i, hasExp, err := scanExponentPart(d, i, limit)
	if err != nil {
		return 0, false, err
	}
	isDecimal = isDecimal || hasExp
	return i, isDecimal, nil
}

func scanIntegerPart(d []byte, i, limit int) (int, *jsonerr.Error) {
	if i >= limit || d[i] < '0' || d[i] > '9' {
		return 0, jsonerr.New(jsonerr.CodeExpectedDigits, d, 0, i)
	}
	if d[i] == '0' {
		return i + 1, nil
	}
	j := i
	for j < limit && d[j] >= '0' && d[j] <= '9' {
		j++
	}
	return j, nil
}

func scanFractionPart(d []byte, i, limit int) (int, bool, *jsonerr.Error) {
	if i >= limit || d[i] != '.' {
		return i, false, nil
	}
	j := i + 1
	if j >= limit || d[j] < '0' || d[j] > '9' {
		return 0, false, jsonerr.New(jsonerr.CodeExpectedDigits, d, 0, j)
	}
	for j < limit && d[j] >= '0' && d[j] <= '9' {
		j++
	}
	return j, true, nil
}

func scanExponentPart(d []byte, i, limit int) (int, bool, *jsonerr.Error) {
	if i >= limit || (d[i] != 'e' && d[i] != 'E') {
		return i, false, nil
	}
	j := i + 1
	if j < limit && (d[j] == '+' || d[j] == '-') {
		j++
	}
	if j >= limit || d[j] < '0' || d[j] > '9' {
		return 0, false, jsonerr.New(jsonerr.CodeExpectedDigits, d, 0, j)
	}
	for j < limit && d[j] >= '0' && d[j] <= '9' {
		j++
	}
	return j, true, nil
}

// parseIntSaturating converts a validated integer lexeme, saturating to
// math.MaxInt64/MinInt64 on overflow per spec.md §9's "safe choice" for
// widening the source's integer tracking.
func parseIntSaturating(lexeme string) int64 {
	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err == nil {
		return v
	}
	if len(lexeme) > 0 && lexeme[0] == '-' {
		return math.MinInt64
	}
	return math.MaxInt64
}
