package jsonerr_test

import (
	"testing"

	"github.com/fenwick-labs/spanjson/jsonerr"
)

func TestCodeString(t *testing.T) {
	cases := []struct {
		code jsonerr.Code
		want string
	}{
		{jsonerr.CodeNone, "none"},
		{jsonerr.CodeUnexpectedEOF, "unexpectedEof"},
		{jsonerr.CodeExpectedHex, "expectedHex"},
		{jsonerr.CodeSpanNotQuoted, "spanNotQuoted"},
		{jsonerr.CodeDuplicateKey, "duplicateKey"},
		{jsonerr.Code(999), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.code.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestNewLocatesLineAndColumn(t *testing.T) {
	input := []byte("{\n  \"a\": ]\n}")
	cursor := 9 // the offending ']'
	err := jsonerr.New(jsonerr.CodeExpectedValue, input, 0, cursor)

	if err.Code != jsonerr.CodeExpectedValue {
		t.Fatalf("Code = %v", err.Code)
	}
	if err.Line != 1 {
		t.Fatalf("Line = %d, want 1", err.Line)
	}
	if err.Column != 7 {
		t.Fatalf("Column = %d, want 7", err.Column)
	}
}

func TestNewFirstLine(t *testing.T) {
	err := jsonerr.New(jsonerr.CodeUnexpectedEOF, []byte(`{"a"`), 0, 4)
	if err.Line != 0 || err.Column != 4 {
		t.Fatalf("Line/Column = %d/%d, want 0/4", err.Line, err.Column)
	}
}

func TestErrorString(t *testing.T) {
	err := jsonerr.New(jsonerr.CodeExpectedColon, []byte(`{"a" 1}`), 0, 5)
	got := err.Error()
	want := "jsonerr: expectedColon at byte 5 (line 0, column 5)"
	if got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
