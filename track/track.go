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

// Package track implements the StatusContext recorder described in
// spec.md §4.6: a stack-shaped trace of every clause, conjunction, rule, and
// type block the evaluator visited, with enough detail (the comparator's
// operands and the outcome) to render a human-readable report or compare
// traces across implementations.
package track

import (
	"encoding/json"

	"github.com/docrules/docrules/value"
)

// Status is the three-valued evaluation outcome of spec.md §4.5.
type Status string

const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
	Skip Status = "SKIP"
)

// StatusContext is one frame of the evaluation trace: what kind of thing was
// evaluated (eval_type), a human-readable description of it (context), the
// values compared (From/To, either of which may be absent), the outcome, and
// the frames nested inside it. A clause's custom `<<...>>` message has no
// field of its own: the evaluator folds it into Context.
type StatusContext struct {
	EvalType string
	Context  string
	From     value.PathAwareValue
	To       value.PathAwareValue
	Status   Status
	Children []*StatusContext
}

// MarshalJSON renders exactly the field set spec.md §4.6 specifies — used by
// cross-implementation comparison tests, so no additional fields are added
// here.
func (c *StatusContext) MarshalJSON() ([]byte, error) {
	from, err := marshalOptional(c.From)
	if err != nil {
		return nil, err
	}
	to, err := marshalOptional(c.To)
	if err != nil {
		return nil, err
	}
	children := c.Children
	if children == nil {
		children = []*StatusContext{}
	}
	return json.Marshal(struct {
		EvalType string            `json:"eval_type"`
		Context  string            `json:"context"`
		From     json.RawMessage   `json:"from"`
		To       json.RawMessage   `json:"to"`
		Status   Status            `json:"status"`
		Children []*StatusContext  `json:"children"`
	}{
		EvalType: c.EvalType,
		Context:  c.Context,
		From:     from,
		To:       to,
		Status:   c.Status,
		Children: children,
	})
}

func marshalOptional(v value.PathAwareValue) (json.RawMessage, error) {
	if v == nil {
		return json.RawMessage("null"), nil
	}
	b, err := value.MarshalJSON(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

// Tracker builds a StatusContext tree by pushing a frame on Start and
// popping it on End, mirroring the original implementation's
// start_evaluation/end_evaluation pair (spec.md §4.6).
type Tracker struct {
	root  *StatusContext
	stack []*StatusContext
}

// NewTracker creates a tracker whose root frame describes the top-level
// evaluation unit (usually the rules file itself).
func NewTracker(evalType, context string) *Tracker {
	root := &StatusContext{EvalType: evalType, Context: context}
	return &Tracker{root: root, stack: []*StatusContext{root}}
}

// Root returns the tree's outermost frame. Valid once every Start has a
// matching End.
func (t *Tracker) Root() *StatusContext { return t.root }

// Current returns the innermost open frame.
func (t *Tracker) Current() *StatusContext { return t.stack[len(t.stack)-1] }

// Start pushes a new frame as a child of the current one and returns it.
func (t *Tracker) Start(evalType, context string) *StatusContext {
	child := &StatusContext{EvalType: evalType, Context: context}
	cur := t.Current()
	cur.Children = append(cur.Children, child)
	t.stack = append(t.stack, child)
	return child
}

// End closes the innermost open frame, recording its outcome. Calling End
// without a matching Start is a programming error in the evaluator, not a
// recoverable condition, so it panics rather than returning an error.
func (t *Tracker) End(status Status, from, to value.PathAwareValue) {
	if len(t.stack) <= 1 {
		panic("track: End called with no open frame (unbalanced Start/End)")
	}
	cur := t.Current()
	cur.Status = status
	cur.From = from
	cur.To = to
	t.stack = t.stack[:len(t.stack)-1]
}
