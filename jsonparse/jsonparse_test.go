package jsonparse_test

import (
	"testing"

	"github.com/fenwick-labs/spanjson/builder"
	"github.com/fenwick-labs/spanjson/jsonerr"
	"github.com/fenwick-labs/spanjson/jsonparse"
	"github.com/fenwick-labs/spanjson/span"
)

// recNode is a minimal test double standing in for a caller's own
// schema-bound data structure, recording exactly what the parser reports.
type recNode struct {
	kind     builder.Kind
	members  map[string]builder.Value
	elements []builder.Value
}

type recBuilder struct {
	roots []*recNode
}

func (b *recBuilder) Open(kind builder.Kind, parent builder.Handle, parentTag builder.Tag, key builder.Key) (builder.Handle, builder.Tag, *jsonerr.Error) {
	n := &recNode{kind: kind, members: map[string]builder.Value{}}
	return n, 0, nil
}

func (b *recBuilder) Push(parent builder.Handle, parentTag builder.Tag, index uint64, v builder.Value) *jsonerr.Error {
	n := parent.(*recNode)
	n.elements = append(n.elements, v)
	return nil
}

func (b *recBuilder) Set(parent builder.Handle, parentTag builder.Tag, id span.Span, v builder.Value) *jsonerr.Error {
	n := parent.(*recNode)
	n.members[id.Dup()] = v
	return nil
}

func TestParseObjectScenario1(t *testing.T) {
	input := []byte(`{ "name": "My \"Project\"", "description": "This is a project!", "progress": { "linesWritten": 628 }, "tags": ["writing", "book"], "metadata":null, "done":true }`)
	b := &recBuilder{}
	root := &recNode{kind: builder.KindObject, members: map[string]builder.Value{}}
	p := jsonparse.New(input, b)
	if err := p.ParseObject(root, 0); err != nil {
		t.Fatalf("ParseObject() error = %v", err)
	}
	if len(root.members) != 6 {
		t.Fatalf("len(members) = %d, want 6", len(root.members))
	}
	name := root.members["name"]
	if !name.Str.Equals(`My "Project"`) {
		t.Errorf("name = %q, want `My \"Project\"`", name.Str.Dup())
	}
	progress := root.members["progress"].Handle.(*recNode)
	linesWritten := progress.members["linesWritten"]
	if linesWritten.Kind != builder.KindInteger || linesWritten.Int != 628 {
		t.Errorf("linesWritten = %+v, want Integer(628)", linesWritten)
	}
	tags := root.members["tags"].Handle.(*recNode)
	if len(tags.elements) != 2 || !tags.elements[1].Str.Equals("book") {
		t.Errorf("tags = %+v, want [writing book]", tags.elements)
	}
	if root.members["metadata"].Kind != builder.KindNull {
		t.Errorf("metadata kind = %v, want Null", root.members["metadata"].Kind)
	}
	done := root.members["done"]
	if done.Kind != builder.KindBool || !done.Bool {
		t.Errorf("done = %+v, want Bool(true)", done)
	}
}

func TestParseArrayScenario2(t *testing.T) {
	input := []byte(`[{"id":"x"},null,7.2,"txt",false]`)
	b := &recBuilder{}
	root := &recNode{kind: builder.KindArray}
	p := jsonparse.New(input, b)
	if err := p.ParseArray(root, 0); err != nil {
		t.Fatalf("ParseArray() error = %v", err)
	}
	if len(root.elements) != 5 {
		t.Fatalf("len(elements) = %d, want 5", len(root.elements))
	}
	if root.elements[2].Kind != builder.KindDecimal || root.elements[2].Dec != 7.2 {
		t.Errorf("elements[2] = %+v, want Decimal(7.2)", root.elements[2])
	}
	if root.elements[4].Kind != builder.KindBool || root.elements[4].Bool {
		t.Errorf("elements[4] = %+v, want Bool(false)", root.elements[4])
	}
}

func TestParseObjectHexValidationScenario4(t *testing.T) {
	input := []byte(`{"hex_test":"\u09fx"}`)
	b := &recBuilder{}
	root := &recNode{kind: builder.KindObject, members: map[string]builder.Value{}}
	p := jsonparse.New(input, b)
	err := p.ParseObject(root, 0)
	if err == nil || err.Code != jsonerr.CodeExpectedHex {
		t.Fatalf("ParseObject() = %v, want expectedHex", err)
	}
}

func TestParseArrayIndicesAreMonotonic(t *testing.T) {
	input := []byte(`[10,20,30]`)
	b := &recBuilder{}
	root := &recNode{kind: builder.KindArray}
	var seen []uint64
	recorder := &indexRecorder{recBuilder: b, seen: &seen}
	p := jsonparse.New(input, recorder)
	if err := p.ParseArray(root, 0); err != nil {
		t.Fatalf("ParseArray() error = %v", err)
	}
	for i, idx := range seen {
		if idx != uint64(i) {
			t.Fatalf("index[%d] = %d, want %d", i, idx, i)
		}
	}
}

type indexRecorder struct {
	*recBuilder
	seen *[]uint64
}

func (r *indexRecorder) Push(parent builder.Handle, parentTag builder.Tag, index uint64, v builder.Value) *jsonerr.Error {
	*r.seen = append(*r.seen, index)
	return r.recBuilder.Push(parent, parentTag, index, v)
}

func TestParseObjectErrorLocalization(t *testing.T) {
	input := []byte(`{"a":}`)
	b := &recBuilder{}
	root := &recNode{kind: builder.KindObject, members: map[string]builder.Value{}}
	p := jsonparse.New(input, b)
	err := p.ParseObject(root, 0)
	if err == nil {
		t.Fatalf("ParseObject() = nil, want error")
	}
	if err.Cursor < err.InputStart || err.Cursor > len(input) {
		t.Fatalf("Cursor %d out of bounds [0, %d]", err.Cursor, len(input))
	}
}

func TestRequireTrailingWhitespaceOnlyRejectsGarbage(t *testing.T) {
	input := []byte(`{"a":1} junk`)
	b := &recBuilder{}
	root := &recNode{kind: builder.KindObject, members: map[string]builder.Value{}}
	p := jsonparse.New(input, b)
	if err := p.ParseObject(root, 0); err != nil {
		t.Fatalf("ParseObject() error = %v", err)
	}
	if err := p.RequireTrailingWhitespaceOnly(); err == nil || err.Code != jsonerr.CodeUnexpectedInput {
		t.Fatalf("RequireTrailingWhitespaceOnly() = %v, want unexpectedInput", err)
	}
}

func TestRequireTrailingWhitespaceOnlyAcceptsWhitespace(t *testing.T) {
	input := []byte(`{"a":1}   `)
	b := &recBuilder{}
	root := &recNode{kind: builder.KindObject, members: map[string]builder.Value{}}
	p := jsonparse.New(input, b)
	if err := p.ParseObject(root, 0); err != nil {
		t.Fatalf("ParseObject() error = %v", err)
	}
	if err := p.RequireTrailingWhitespaceOnly(); err != nil {
		t.Fatalf("RequireTrailingWhitespaceOnly() error = %v", err)
	}
}
