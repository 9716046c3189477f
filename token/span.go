// Copyright 2026 The docrules Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package token

import "unicode/utf8"

// Span is an immutable view into rule-source text: the remaining input
// together with enough bookkeeping (byte offset, line, column) to report a
// Position for whatever the next token turns out to be. Parser combinators
// take a Span and return the Span that remains after they consumed their
// piece of input, so every AST node can record where it came from without
// the lexer and parser needing to share mutable state.
type Span struct {
	full   string // the entire source text, for slicing
	source string
	offset int
	line   int
	column int
}

// New creates a Span positioned at the start of src, attributed to source
// (typically a file path; empty for anonymous/in-memory rule text).
func New(source, src string) Span {
	return Span{full: src, source: source, offset: 0, line: 1, column: 1}
}

// Pos reports the current position of the span.
func (s Span) Pos() Position {
	return Position{Source: s.source, Offset: s.offset, Line: s.line, Column: s.column}
}

// Remaining returns the unconsumed input.
func (s Span) Remaining() string {
	return s.full[s.offset:]
}

// Done reports whether there is no more input.
func (s Span) Done() bool {
	return s.offset >= len(s.full)
}

// Peek returns the next rune and its byte width without consuming it.
func (s Span) Peek() (rune, int, bool) {
	if s.Done() {
		return 0, 0, false
	}
	r, w := utf8.DecodeRuneInString(s.Remaining())
	return r, w, true
}

// PeekAt returns the rune n bytes ahead of the current offset, not
// advancing the span. Used for short fixed-width lookahead (e.g. telling
// "!=" from "!" or "<<" from "<").
func (s Span) PeekAt(n int) (rune, bool) {
	rest := s.Remaining()
	if n >= len(rest) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(rest[n:])
	return r, true
}

// HasPrefix reports whether the remaining input starts with prefix.
func (s Span) HasPrefix(prefix string) bool {
	rest := s.Remaining()
	return len(rest) >= len(prefix) && rest[:len(prefix)] == prefix
}

// Advance consumes n bytes of input, updating line and column bookkeeping,
// and returns the resulting span. It panics if n would run past the end of
// input; callers must bound n by len(s.Remaining()) or a prefix thereof.
func (s Span) Advance(n int) Span {
	rest := s.Remaining()
	if n > len(rest) {
		panic("token: Advance past end of input")
	}
	next := s
	for i := 0; i < n; {
		r, w := utf8.DecodeRuneInString(rest[i:])
		if r == '\n' {
			next.line++
			next.column = 1
		} else {
			next.column++
		}
		i += w
	}
	next.offset += n
	return next
}

// AdvanceRune consumes exactly one rune and returns it along with the
// resulting span. ok is false at end of input.
func (s Span) AdvanceRune() (rune, Span, bool) {
	r, w, ok := s.Peek()
	if !ok {
		return 0, s, false
	}
	return r, s.Advance(w), true
}
