// Package spanjson is a streaming JSON codec: a callback-driven
// recursive-descent parser (jsonparse), a span-based string decoder
// (span), an owned heap tree for callers who don't want to write their own
// builder.Builder (entity), and a pushdown-automaton encoder (jsonenc).
//
// A typical caller either implements builder.Builder directly against its
// own types and drives jsonparse.Parser, or skips straight to
// entity.Decode/jsonenc.EncodeEntity for a generic tree.
package spanjson
