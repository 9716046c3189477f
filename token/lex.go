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

import "unicode"

// SkipWsOrComment implements zero_or_more_ws_or_comment: it consumes spaces,
// tabs, newlines, and '#'-to-end-of-line comments until it finds something
// else (or runs out of input), and returns the resulting span. It never
// fails — an input with no leading whitespace is returned unchanged.
func SkipWsOrComment(s Span) Span {
	for {
		r, w, ok := s.Peek()
		if !ok {
			return s
		}
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			s = s.Advance(w)
		case r == '#':
			s = skipLineComment(s)
		default:
			return s
		}
	}
}

// SkipWsOrComment1 implements one_or_more_ws_or_comment: like
// SkipWsOrComment, but reports false if no whitespace or comment was
// consumed at all, since the grammar uses this form where separation is
// mandatory (e.g. between "not" and the access it negates).
func SkipWsOrComment1(s Span) (Span, bool) {
	after := SkipWsOrComment(s)
	return after, after.offset != s.offset
}

func skipLineComment(s Span) Span {
	for {
		r, w, ok := s.Peek()
		if !ok || r == '\n' {
			return s
		}
		s = s.Advance(w)
	}
}

// IsLetter reports whether r may start or continue a var_name, per the
// grammar's alpha class: Unicode letters and underscore.
func IsLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// IsDigit reports whether r is a decimal digit.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsIdentRune reports whether r may continue (not start) a var_name.
func IsIdentRune(r rune) bool {
	return IsLetter(r) || IsDigit(r)
}
