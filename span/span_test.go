package span_test

import (
	"testing"

	"github.com/fenwick-labs/spanjson/jsonerr"
	"github.com/fenwick-labs/spanjson/span"
)

func TestValidateRejectsUnquoted(t *testing.T) {
	s := span.OfString(`abc`)
	err := s.Validate()
	if err == nil || err.Code != jsonerr.CodeSpanNotQuoted {
		t.Fatalf("Validate() = %v, want spanNotQuoted", err)
	}
}

func TestValidateAcceptsSimpleEscapes(t *testing.T) {
	s := span.OfString(`"line\nbreak"`)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsBadEscape(t *testing.T) {
	s := span.OfString(`"bad\qescape"`)
	err := s.Validate()
	if err == nil || err.Code != jsonerr.CodeExpectedEscapedChar {
		t.Fatalf("Validate() = %v, want expectedEscapedChar", err)
	}
}

func TestValidateRejectsBadHex(t *testing.T) {
	s := span.OfString(`"\u09fx"`)
	err := s.Validate()
	if err == nil || err.Code != jsonerr.CodeExpectedHex {
		t.Fatalf("Validate() = %v, want expectedHex", err)
	}
}

func TestValidateRequiresSurrogatePair(t *testing.T) {
	s := span.OfString(`"\uD800"`)
	if err := s.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for lone high surrogate")
	}
}

// span("\"This is \\u0061 t\\u1EB9st \\u2020\"").equals("This is a tẹst †")
func TestEqualsSimpleEscapeAndUnicode(t *testing.T) {
	s := span.OfString(`"This is \u0061 t\u1EB9st \u2020"`)
	if !s.Equals("This is a tẹst †") {
		t.Fatalf("Equals() = false, want true")
	}
}

// span("\"\\uD83D\\uDE03\"").equals("😃")
func TestEqualsSurrogatePair(t *testing.T) {
	s := span.OfString("\"\\uD83D\\uDE03\"")
	if !s.Equals("😃") {
		t.Fatalf("Equals() = false, want true for surrogate pair")
	}
}

func TestEqualsEscapedQuotes(t *testing.T) {
	s := span.OfString(`"My \"Project\""`)
	if !s.Equals(`My "Project"`) {
		t.Fatalf("Equals() = false, want true")
	}
}

func TestDecodedLenMatchesDup(t *testing.T) {
	s := span.OfString(`"ẹ†x"`)
	dup := s.Dup()
	if got, want := s.DecodedLen(), len(dup); got != want {
		t.Fatalf("DecodedLen() = %d, want %d (len of %q)", got, want, dup)
	}
}

func TestCopyTruncatesAndTerminates(t *testing.T) {
	s := span.OfString(`"hello world"`)
	dst := make([]byte, 6)
	n := s.Copy(dst)
	if n != 6 {
		t.Fatalf("Copy() returned %d, want 6", n)
	}
	if string(dst[:5]) != "hello" || dst[5] != 0 {
		t.Fatalf("Copy() wrote %q, want \"hello\\x00\"", dst)
	}
}

func TestCopyFitsExactly(t *testing.T) {
	s := span.OfString(`"hi"`)
	dst := make([]byte, 3)
	n := s.Copy(dst)
	if n != 3 || string(dst[:2]) != "hi" || dst[2] != 0 {
		t.Fatalf("Copy() = %d, dst = %q", n, dst)
	}
}

func TestDupSolidusPassthrough(t *testing.T) {
	s := span.OfString(`"a\/b"`)
	if got := s.Dup(); got != "a/b" {
		t.Fatalf("Dup() = %q, want \"a/b\"", got)
	}
}
