package span

import "unicode/utf8"

// DecodedLen returns the byte length of the span's decoded UTF-8 form.
// Requires a validated span; called on a malformed span it may read past
// structurally-expected escape boundaries, since bounds here come from the
// escape grammar itself, not from a second validation pass.
func (s Span) DecodedLen() int {
	n := 0
	walkDecoded(s, func(r rune) {
		n += utf8.RuneLen(r)
	}, func(b byte) {
		n++
	})
	return n
}

// Equals reports whether the span's decoded form equals lit, a plain UTF-8
// Go string, byte for byte.
func (s Span) Equals(lit string) bool {
	dec := s.Dup()
	return dec == lit
}

// Copy writes the span's decoded form into dst, truncating to len(dst)-1
// bytes if necessary, and always terminates the written region with a
// trailing 0x00 byte. Returns the number of bytes written, including the
// terminator.
func (s Span) Copy(dst []byte) int {
	if len(dst) == 0 {
		return 0
	}
	cap := len(dst) - 1
	w := 0
	full := s.Dup()
	for i := 0; i < len(full) && w < cap; i++ {
		dst[w] = full[i]
		w++
	}
	dst[w] = 0
	return w + 1
}

// Dup allocates and returns the span's fully decoded form as a Go string.
func (s Span) Dup() string {
	var buf []byte
	walkDecoded(s, func(r rune) {
		var tmp [utf8.UTFMax]byte
		n := utf8.EncodeRune(tmp[:], r)
		buf = append(buf, tmp[:n]...)
	}, func(b byte) {
		buf = append(buf, b)
	})
	return string(buf)
}

// walkDecoded scans the span's interior (quotes stripped) emitting either a
// decoded rune (for escapes) or a raw byte (for unescaped UTF-8 bytes,
// passed through unchanged) in source order.
func walkDecoded(s Span, emitRune func(rune), emitByte func(byte)) {
	d := s.Data
	if len(d) < 2 {
		return
	}
	i := 1
	end := len(d) - 1
	for i < end {
		c := d[i]
		if c != '\\' {
			emitByte(c)
			i++
			continue
		}
		i++
		if i >= end {
			return
		}
		esc := d[i]
		i++
		switch esc {
		case '"':
			emitRune('"')
		case '\\':
			emitRune('\\')
		case '/':
			emitRune('/')
		case 'b':
			emitRune('\b')
		case 'f':
			emitRune('\f')
		case 'n':
			emitRune('\n')
		case 'r':
			emitRune('\r')
		case 't':
			emitRune('\t')
		case 'u':
			r, n := decodeHex4(d, i, end)
			i += n
			if r >= 0xD800 && r <= 0xDBFF && i+1 < end && d[i] == '\\' && d[i+1] == 'u' {
				low, n2 := decodeHex4(d, i+2, end)
				if low >= 0xDC00 && low <= 0xDFFF {
					r = ((r - 0xD800) * 0x400) + (low - 0xDC00) + 0x10000
					i += 2 + n2
				}
			}
			emitRune(r)
		default:
			// Unreachable on a validated span; pass the byte through raw
			// on an unvalidated one rather than panicking.
			emitByte(esc)
		}
	}
}

func decodeHex4(d []byte, i, end int) (rune, int) {
	if i+4 > end {
		return 0, end - i
	}
	var v rune
	for k := 0; k < 4; k++ {
		h, _ := hexVal(d[i+k])
		v = v<<4 | rune(h)
	}
	return v, 4
}
