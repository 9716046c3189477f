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

// Package token defines source positions and the span type used throughout
// the rule-language lexer and parser to keep every AST node anchored to the
// text it was parsed from.
package token

import "fmt"

// Position describes a location in a rule-source file: a 1-based line and
// UTF-8 column, the byte offset from the start of the file, and the source
// name (typically a file path) the position belongs to.
type Position struct {
	Source string // source name, e.g. a file path; empty for in-memory sources
	Offset int    // byte offset, starting at 0
	Line   int    // line number, starting at 1
	Column int    // column number in UTF-8 code points, starting at 1
}

// IsValid reports whether the position carries real location information.
func (p Position) IsValid() bool { return p.Line > 0 }

// String renders the position as "source:line:column", or "line:column" if
// there is no source name, or "-" if the position is invalid.
func (p Position) String() string {
	s := p.Source
	if p.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}
