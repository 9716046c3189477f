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

// Package errors defines the error kinds shared by the rule parser, query
// resolver, scope, and evaluator, in the same shape as the teacher's
// cue/errors package: a narrow Error interface built around a deferred
// Message, a List accumulator with Sort/Dedupe, and a Print/Details pair
// that renders a list of errors the way cmd/cue renders diagnostics. Each
// kind carries the context that applies to it — a source position, a
// document path, or, for ParseError, an expectation string — to be usable
// directly in a CLI error message without further wrapping.
package errors

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docrules/docrules/token"
)

// Message implements the error interface while keeping the format string and
// its arguments around for later consumption, mirroring cue/errors.Message —
// the deferred form is what would let a future localized CLI re-render a
// message without re-deriving it from scratch.
type Message struct {
	format string
	args   []interface{}
}

// NewMessagef creates a deferred, printf-style error message.
func NewMessagef(format string, args ...interface{}) Message {
	return Message{format: format, args: args}
}

// Msg returns the unformatted message and its arguments.
func (m *Message) Msg() (string, []interface{}) { return m.format, m.args }

func (m *Message) Error() string { return fmt.Sprintf(m.format, m.args...) }

// Error is the common interface implemented by every error kind in this
// package. Position and Path may be zero-valued/nil when an error kind does
// not apply to either (e.g. a CycleDetected error has no document path).
type Error interface {
	error
	Position() token.Position
	// InputPositions reports additional positions that contributed to the
	// error, e.g. both operands of a failed comparison.
	InputPositions() []token.Position
	// Path returns the document path the error occurred at, split into its
	// '/'-separated segments, or nil if the error has none.
	Path() []string
}

// base supplies the position/path bookkeeping common to every error kind, so
// each kind below only needs to add its own message formatting.
type base struct {
	pos    token.Position
	inputs []token.Position
	path   string
	Message
}

func (b *base) Position() token.Position         { return b.pos }
func (b *base) InputPositions() []token.Position { return b.inputs }
func (b *base) Path() []string {
	if b.path == "" {
		return nil
	}
	return strings.Split(b.path, "/")
}
func (b *base) Error() string {
	msg := b.Message.Error()
	switch {
	case b.path != "" && b.pos.IsValid():
		return fmt.Sprintf("%s: %s (at %s)", b.pos, msg, b.path)
	case b.pos.IsValid():
		return fmt.Sprintf("%s: %s", b.pos, msg)
	case b.path != "":
		return fmt.Sprintf("%s (at %s)", msg, b.path)
	default:
		return msg
	}
}

func newBase(pos token.Position, path string, format string, args ...interface{}) base {
	return base{pos: pos, path: path, Message: NewMessagef(format, args...)}
}

// ParseError reports a grammar violation: the parser expected one production
// and found the source did not match it, with the one "hard cut" exception
// documented in spec.md §4.3 (a comparator with no valid right-hand side).
type ParseError struct {
	base
	Expectation string
}

func NewParseError(pos token.Position, expectation string, format string, args ...interface{}) *ParseError {
	return &ParseError{base: newBase(pos, "", format, args...), Expectation: expectation}
}

// RetrievalError reports that a query step targeted a path that does not
// exist in the document (a missing map key or out-of-range index).
type RetrievalError struct{ base }

func NewRetrievalError(path string, format string, args ...interface{}) *RetrievalError {
	return &RetrievalError{newBase(token.Position{}, path, format, args...)}
}

// IncompatibleError reports that a query operation was applied to a value of
// the wrong kind, e.g. AllIndices against a map.
type IncompatibleError struct{ base }

func NewIncompatibleError(path string, format string, args ...interface{}) *IncompatibleError {
	return &IncompatibleError{newBase(token.Position{}, path, format, args...)}
}

// NotComparable reports that a comparator was applied to cross-typed or NaN
// operands.
type NotComparable struct{ base }

func NewNotComparable(path string, format string, args ...interface{}) *NotComparable {
	return &NotComparable{newBase(token.Position{}, path, format, args...)}
}

// VariableNotFound reports that a `%name` dereference had no binding in any
// enclosing scope.
type VariableNotFound struct{ base }

func NewVariableNotFound(pos token.Position, name string) *VariableNotFound {
	return &VariableNotFound{newBase(pos, "", "variable %q not found", name)}
}

// CycleDetected reports that evaluating a named rule re-entered a rule
// already on the call stack.
type CycleDetected struct {
	base
	Cycle []string
}

func NewCycleDetected(cycle []string) *CycleDetected {
	return &CycleDetected{
		base:  newBase(token.Position{}, "", "cyclic rule reference: %s", strings.Join(cycle, " -> ")),
		Cycle: cycle,
	}
}

// RegexCompile reports that a regex literal on the right-hand side of a
// comparison failed to compile.
type RegexCompile struct{ base }

func NewRegexCompile(pos token.Position, pattern string, cause error) *RegexCompile {
	return &RegexCompile{newBase(pos, "", "invalid regex %q: %v", pattern, cause)}
}

// List accumulates multiple Errors, as the parser does when it recovers from
// one failed alternative and tries the next, and as the CLI does across
// several rule files.
type List []Error

func (l List) Error() string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

// Sort orders a List by position, then message, for deterministic reporting.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		pi, pj := l[i].Position(), l[j].Position()
		if pi.Source != pj.Source {
			return pi.Source < pj.Source
		}
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		if pi.Column != pj.Column {
			return pi.Column < pj.Column
		}
		return l[i].Error() < l[j].Error()
	})
}

// Dedupe sorts the list and removes consecutive errors that report the same
// position and message, mirroring cue/errors.List.RemoveMultiples — the
// parser's soft-failure retries can otherwise surface the same complaint
// once per abandoned alternative.
func (l *List) Dedupe() {
	l.Sort()
	out := (*l)[:0]
	for i, e := range *l {
		if i > 0 {
			p, q := out[len(out)-1].Position(), e.Position()
			if p == q && out[len(out)-1].Error() == e.Error() {
				continue
			}
		}
		out = append(out, e)
	}
	*l = out
}

// Config controls how Print/Details render a List: Cwd makes source paths
// relative, ToSlash forces forward slashes regardless of OS (used by tests
// so golden output is platform-independent), matching cue/errors.Config.
type Config struct {
	Cwd     string
	ToSlash bool
}

// Print writes one line per error in err to w: the message, then every
// contributing position indented beneath it.
func Print(w io.Writer, err error, cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	list, ok := err.(List)
	if !ok {
		if e, ok := err.(Error); ok {
			list = List{e}
		} else if err != nil {
			fmt.Fprintf(w, "%v\n", err)
			return
		}
	}
	for _, e := range list {
		fmt.Fprintf(w, "%s\n", e.Error())
		for _, p := range e.InputPositions() {
			fmt.Fprintf(w, "    %s\n", relPosition(p, cfg))
		}
	}
}

// Details is a convenience wrapper for Print that returns the rendered text.
func Details(err error, cfg *Config) string {
	var b strings.Builder
	Print(&b, err, cfg)
	return b.String()
}

func relPosition(p token.Position, cfg *Config) token.Position {
	if cfg.Cwd != "" && p.Source != "" {
		if rel, err := filepath.Rel(cfg.Cwd, p.Source); err == nil {
			p.Source = rel
		}
	}
	if cfg.ToSlash {
		p.Source = filepath.ToSlash(p.Source)
	}
	return p
}
