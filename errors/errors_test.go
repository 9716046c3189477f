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

package errors

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/docrules/docrules/token"
)

func TestRetrievalErrorMessage(t *testing.T) {
	err := NewRetrievalError("/Resources/VPC", "missing key %q", "Type")
	qt.Assert(t, qt.Equals(err.Error(), `missing key "Type" (at /Resources/VPC)`))
	qt.Assert(t, qt.DeepEquals(err.Path(), []string{"", "Resources", "VPC"}))
}

func TestVariableNotFoundMessage(t *testing.T) {
	pos := token.Position{Source: "rule.guard", Line: 3, Column: 5}
	err := NewVariableNotFound(pos, "allowed")
	qt.Assert(t, qt.Equals(err.Error(), `rule.guard:3:5: variable "allowed" not found`))
	qt.Assert(t, qt.IsNil(err.Path()))
}

func TestCycleDetectedJoinsChain(t *testing.T) {
	err := NewCycleDetected([]string{"a", "b", "a"})
	qt.Assert(t, qt.Equals(err.Error(), "cyclic rule reference: a -> b -> a"))
}

func TestListSortOrdersByPosition(t *testing.T) {
	l := List{
		NewVariableNotFound(token.Position{Line: 5, Column: 1}, "z"),
		NewVariableNotFound(token.Position{Line: 1, Column: 1}, "a"),
	}
	l.Sort()
	qt.Assert(t, qt.Equals(l[0].(*VariableNotFound).Error(), `1:1: variable "a" not found`))
}

func TestListDedupeRemovesRepeats(t *testing.T) {
	pos := token.Position{Line: 1, Column: 1}
	l := List{
		NewVariableNotFound(pos, "x"),
		NewVariableNotFound(pos, "x"),
		NewVariableNotFound(pos, "y"),
	}
	l.Dedupe()
	qt.Assert(t, qt.HasLen(l, 2))
}

func TestPrintRendersOneErrorPerLine(t *testing.T) {
	l := List{
		NewVariableNotFound(token.Position{Line: 1, Column: 1}, "a"),
		NewVariableNotFound(token.Position{Line: 2, Column: 1}, "b"),
	}
	got := Details(l, nil)
	qt.Assert(t, qt.Equals(strings.Count(got, "\n"), 2))
	qt.Assert(t, qt.StringContains(got, `variable "a" not found`))
	qt.Assert(t, qt.StringContains(got, `variable "b" not found`))
}
