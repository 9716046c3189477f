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

// Package literal parses the value literals described in spec.md §4.2:
// quoted strings, regex literals, integers, floats, booleans, null,
// characters, ranges, lists, and maps. It operates directly on a
// token.Span, in the same combinator style as the rest of the rule-language
// parser: every Parse* function consumes a prefix of the span and returns
// the span that remains.
package literal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docrules/docrules/token"
	"github.com/docrules/docrules/value"
)

// ParseValue parses one value literal starting at s. It does not skip
// surrounding whitespace; callers are expected to have already called
// token.SkipWsOrComment.
//
// Ranges are always written with a leading `r`/`R` (r(a,b], r[a,b), ...);
// an unprefixed `[` is always a list. The grammar in spec.md §4.2 shows both
// forms for a range's own delimiters but is silent on how a bare `[a,b)`
// would be told apart from a two-element list — this implementation
// requires the `r` prefix to resolve that ambiguity (see DESIGN.md).
func ParseValue(s token.Span) (value.Value, token.Span, error) {
	if s.Done() {
		return nil, s, fmt.Errorf("literal: unexpected end of input, expected a value")
	}
	r, _, _ := s.Peek()
	switch {
	case r == '\'':
		return parseCharOrString(s)
	case r == '"':
		return parseString(s)
	case r == '/':
		return parseRegex(s)
	case r == '[':
		return parseList(s)
	case r == '{':
		return parseMap(s)
	case (r == 'r' || r == 'R') && isRangePrefix(s):
		return parseRange(s)
	case r == '-' || token.IsDigit(r):
		return parseNumber(s)
	default:
		return parseBareword(s)
	}
}

func isRangePrefix(s token.Span) bool {
	after := s.Advance(1)
	r, _, ok := after.Peek()
	return ok && (r == '(' || r == '[')
}

// parseCharOrString parses a single-quoted literal, which is a Char if it
// holds exactly one character, otherwise a single-quoted string.
func parseCharOrString(s token.Span) (value.Value, token.Span, error) {
	if v, next, ok := tryChar(s); ok {
		return v, next, nil
	}
	return parseString(s)
}

// parseString parses a double- or single-quoted string. Per spec.md §4.2,
// there is no escape handling beyond recognizing the closing quote: a
// backslash is an ordinary character, so the only way to end the string is
// the next occurrence of the opening quote character.
func parseString(s token.Span) (value.Value, token.Span, error) {
	quote, qw, _ := s.Peek()
	start := s.Pos()
	s = s.Advance(qw)
	var b strings.Builder
	for {
		r, w, ok := s.Peek()
		if !ok {
			return nil, s, fmt.Errorf("literal: unterminated string starting at %s", start)
		}
		s = s.Advance(w)
		if r == quote {
			return value.Str(b.String()), s, nil
		}
		b.WriteRune(r)
	}
}

// parseRegex parses a `/pattern/` literal, where `\/` escapes the
// delimiter. The compiled form is held as its source text (spec.md §3): the
// evaluator compiles it lazily when a comparison actually needs it.
func parseRegex(s token.Span) (value.Value, token.Span, error) {
	start := s.Pos()
	s = s.Advance(1) // opening '/'
	var b strings.Builder
	for {
		r, w, ok := s.Peek()
		if !ok {
			return nil, s, fmt.Errorf("literal: unterminated regex starting at %s", start)
		}
		if r == '\\' {
			if nr, nw := peekAfter(s, w); nr == '/' {
				b.WriteRune('/')
				s = s.Advance(w + nw)
				continue
			}
		}
		s = s.Advance(w)
		if r == '/' {
			return value.Regex(b.String()), s, nil
		}
		b.WriteRune(r)
	}
}

func peekAfter(s token.Span, skip int) (rune, int) {
	after := s.Advance(skip)
	r, w, ok := after.Peek()
	if !ok {
		return 0, 0
	}
	return r, w
}

// tryChar attempts a single-quoted one-character literal, e.g. 'a'. It
// reports ok=false if the input at s is not shaped like one, so the caller
// can fall back to a general single-quoted string.
func tryChar(s token.Span) (value.Value, token.Span, bool) {
	r0, w0, ok := s.Peek()
	if !ok || r0 != '\'' {
		return nil, s, false
	}
	after := s.Advance(w0)
	ch, cw, ok := after.Peek()
	if !ok || ch == '\'' {
		return nil, s, false
	}
	after2 := after.Advance(cw)
	closeR, closeW, ok := after2.Peek()
	if !ok || closeR != '\'' {
		return nil, s, false
	}
	return value.Char(ch), after2.Advance(closeW), true
}

func parseBareword(s token.Span) (value.Value, token.Span, error) {
	start := s
	end := s
	for {
		r, w, ok := end.Peek()
		if !ok || !(token.IsLetter(r) || token.IsDigit(r)) {
			break
		}
		end = end.Advance(w)
	}
	word := start.Remaining()[:len(start.Remaining())-len(end.Remaining())]
	switch strings.ToLower(word) {
	case "true":
		return value.Bool(true), end, nil
	case "false":
		return value.Bool(false), end, nil
	case "null":
		return value.Null{}, end, nil
	default:
		return nil, s, fmt.Errorf("literal: %q is not a value literal", word)
	}
}

func parseNumber(s token.Span) (value.Value, token.Span, error) {
	start := s
	end := s
	isFloat := false
	if r, w, ok := end.Peek(); ok && r == '-' {
		end = end.Advance(w)
	}
	end = skipDigits(end)
	if r, w, ok := end.Peek(); ok && r == '.' {
		if next, nw, ok2 := end.Advance(w).Peek(); ok2 && token.IsDigit(next) {
			isFloat = true
			end = skipDigits(end.Advance(w + nw))
		}
	}
	if r, w, ok := end.Peek(); ok && (r == 'e' || r == 'E') {
		lookahead := end.Advance(w)
		if r2, w2, ok2 := lookahead.Peek(); ok2 && (r2 == '+' || r2 == '-') {
			lookahead = lookahead.Advance(w2)
		}
		if r3, _, ok3 := lookahead.Peek(); ok3 && token.IsDigit(r3) {
			isFloat = true
			end = skipDigits(lookahead)
		}
	}
	text := start.Remaining()[:len(start.Remaining())-len(end.Remaining())]
	if text == "" || text == "-" {
		return nil, s, fmt.Errorf("literal: expected a number at %s", s.Pos())
	}
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, s, fmt.Errorf("literal: invalid float %q: %w", text, err)
		}
		return value.Float(f), end, nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, s, fmt.Errorf("literal: invalid integer %q: %w", text, err)
	}
	return value.Int(i), end, nil
}

func skipDigits(s token.Span) token.Span {
	for {
		r, w, ok := s.Peek()
		if !ok || !token.IsDigit(r) {
			return s
		}
		s = s.Advance(w)
	}
}

// parseList parses `[v, v, …]`. Trailing commas are not accepted.
func parseList(s token.Span) (value.Value, token.Span, error) {
	s = s.Advance(1) // '['
	s = token.SkipWsOrComment(s)
	var items value.List
	if r, w, ok := s.Peek(); ok && r == ']' {
		return items, s.Advance(w), nil
	}
	for {
		v, next, err := ParseValue(s)
		if err != nil {
			return nil, s, err
		}
		items = append(items, v)
		s = token.SkipWsOrComment(next)
		r, w, ok := s.Peek()
		if !ok {
			return nil, s, fmt.Errorf("literal: unterminated list")
		}
		if r == ',' {
			s = token.SkipWsOrComment(s.Advance(w))
			continue
		}
		if r == ']' {
			return items, s.Advance(w), nil
		}
		return nil, s, fmt.Errorf("literal: expected ',' or ']' at %s", s.Pos())
	}
}

// parseMap parses `{key: v, 'key2': v}`. Keys may be bare identifiers or
// quoted strings. Trailing commas are not accepted.
func parseMap(s token.Span) (value.Value, token.Span, error) {
	s = s.Advance(1) // '{'
	s = token.SkipWsOrComment(s)
	m := value.NewMap()
	if r, w, ok := s.Peek(); ok && r == '}' {
		return m, s.Advance(w), nil
	}
	for {
		key, next, err := parseMapKey(s)
		if err != nil {
			return nil, s, err
		}
		s = token.SkipWsOrComment(next)
		r, w, ok := s.Peek()
		if !ok || r != ':' {
			return nil, s, fmt.Errorf("literal: expected ':' after map key %q at %s", key, s.Pos())
		}
		s = token.SkipWsOrComment(s.Advance(w))
		v, next2, err := ParseValue(s)
		if err != nil {
			return nil, s, err
		}
		m.Set(key, v)
		s = token.SkipWsOrComment(next2)
		r, w, ok = s.Peek()
		if !ok {
			return nil, s, fmt.Errorf("literal: unterminated map")
		}
		if r == ',' {
			s = token.SkipWsOrComment(s.Advance(w))
			continue
		}
		if r == '}' {
			return m, s.Advance(w), nil
		}
		return nil, s, fmt.Errorf("literal: expected ',' or '}' at %s", s.Pos())
	}
}

func parseMapKey(s token.Span) (string, token.Span, error) {
	r, _, ok := s.Peek()
	if !ok {
		return "", s, fmt.Errorf("literal: expected a map key")
	}
	if r == '"' || r == '\'' {
		v, next, err := parseString(s)
		if err != nil {
			return "", s, err
		}
		return string(v.(value.Str)), next, nil
	}
	if !token.IsLetter(r) {
		return "", s, fmt.Errorf("literal: invalid map key at %s", s.Pos())
	}
	end := s
	for {
		r, w, ok := end.Peek()
		if !ok || !token.IsIdentRune(r) {
			break
		}
		end = end.Advance(w)
	}
	key := s.Remaining()[:len(s.Remaining())-len(end.Remaining())]
	return key, end, nil
}

// parseRange parses `r(a,b]`, `r[a,b)`, etc. — int, float, or char
// endpoints, with independent inclusive/exclusive bounds per side.
func parseRange(s token.Span) (value.Value, token.Span, error) {
	s = s.Advance(1) // 'r'/'R'
	open, ow, _ := s.Peek()
	loInclusive := open == '['
	s = token.SkipWsOrComment(s.Advance(ow))

	lo, next, err := ParseValue(s)
	if err != nil {
		return nil, s, err
	}
	s = token.SkipWsOrComment(next)
	r, w, ok := s.Peek()
	if !ok || r != ',' {
		return nil, s, fmt.Errorf("literal: expected ',' in range at %s", s.Pos())
	}
	s = token.SkipWsOrComment(s.Advance(w))

	hi, next2, err := ParseValue(s)
	if err != nil {
		return nil, s, err
	}
	s = token.SkipWsOrComment(next2)
	close, cw, ok := s.Peek()
	if !ok || (close != ')' && close != ']') {
		return nil, s, fmt.Errorf("literal: expected ')' or ']' to close range at %s", s.Pos())
	}
	hiInclusive := close == ']'
	s = s.Advance(cw)

	switch loVal := lo.(type) {
	case value.Int:
		hiVal, ok := hi.(value.Int)
		if !ok {
			return nil, s, fmt.Errorf("literal: range endpoints must be the same type")
		}
		return value.RangeInt{Lo: int64(loVal), Hi: int64(hiVal), LoInclusive: loInclusive, HiInclusive: hiInclusive}, s, nil
	case value.Float:
		hiVal, ok := hi.(value.Float)
		if !ok {
			return nil, s, fmt.Errorf("literal: range endpoints must be the same type")
		}
		return value.RangeFloat{Lo: float64(loVal), Hi: float64(hiVal), LoInclusive: loInclusive, HiInclusive: hiInclusive}, s, nil
	case value.Char:
		hiVal, ok := hi.(value.Char)
		if !ok {
			return nil, s, fmt.Errorf("literal: range endpoints must be the same type")
		}
		return value.RangeChar{Lo: rune(loVal), Hi: rune(hiVal), LoInclusive: loInclusive, HiInclusive: hiInclusive}, s, nil
	default:
		return nil, s, fmt.Errorf("literal: ranges only support int, float, or char endpoints")
	}
}
