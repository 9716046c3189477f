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

import "testing"

func checkPos(t *testing.T, msg string, got, want Position) {
	t.Helper()
	if got.Source != want.Source {
		t.Errorf("%s: got source = %q; want %q", msg, got.Source, want.Source)
	}
	if got.Offset != want.Offset {
		t.Errorf("%s: got offset = %d; want %d", msg, got.Offset, want.Offset)
	}
	if got.Line != want.Line {
		t.Errorf("%s: got line = %d; want %d", msg, got.Line, want.Line)
	}
	if got.Column != want.Column {
		t.Errorf("%s: got column = %d; want %d", msg, got.Column, want.Column)
	}
}

func TestSpanAdvance(t *testing.T) {
	s := New("rule.grl", "abc\ndef")
	checkPos(t, "start", s.Pos(), Position{Source: "rule.grl", Offset: 0, Line: 1, Column: 1})

	s = s.Advance(3) // "abc"
	checkPos(t, "after abc", s.Pos(), Position{Source: "rule.grl", Offset: 3, Line: 1, Column: 4})

	s = s.Advance(1) // newline
	checkPos(t, "after newline", s.Pos(), Position{Source: "rule.grl", Offset: 4, Line: 2, Column: 1})

	s = s.Advance(3) // "def"
	checkPos(t, "after def", s.Pos(), Position{Source: "rule.grl", Offset: 7, Line: 2, Column: 4})

	if !s.Done() {
		t.Errorf("expected span to be done")
	}
}

func TestSkipWsOrComment(t *testing.T) {
	s := New("", "  \t\n # a comment\nrest")
	s = SkipWsOrComment(s)
	if s.Remaining() != "rest" {
		t.Errorf("got remaining = %q; want %q", s.Remaining(), "rest")
	}

	// zero_or_more never fails.
	s2 := New("", "rest")
	if got := SkipWsOrComment(s2).Remaining(); got != "rest" {
		t.Errorf("got remaining = %q; want %q", got, "rest")
	}
}

func TestSkipWsOrComment1(t *testing.T) {
	s := New("", " x")
	if after, ok := SkipWsOrComment1(s); !ok || after.Remaining() != "x" {
		t.Errorf("expected one_or_more to succeed and consume the space")
	}

	s2 := New("", "x")
	if _, ok := SkipWsOrComment1(s2); ok {
		t.Errorf("expected one_or_more to fail with no leading whitespace")
	}
}

func TestPositionString(t *testing.T) {
	cases := []struct {
		pos  Position
		want string
	}{
		{Position{}, "-"},
		{Position{Line: 3, Column: 5}, "3:5"},
		{Position{Source: "a.grl", Line: 3, Column: 5}, "a.grl:3:5"},
		{Position{Source: "a.grl"}, "a.grl"},
	}
	for _, c := range cases {
		if got := c.pos.String(); got != c.want {
			t.Errorf("Position{%+v}.String() = %q; want %q", c.pos, got, c.want)
		}
	}
}
