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

package track

import (
	"encoding/json"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/docrules/docrules/value"
)

func TestTrackerStartEndNesting(t *testing.T) {
	tr := NewTracker("RuleSet", "file")
	tr.Start("Rule", "base")
	tr.Start("Clause", "Properties.Enabled == true")
	tr.End(Pass, nil, nil)
	tr.End(Pass, nil, nil)

	root := tr.Root()
	qt.Assert(t, qt.Equals(root.EvalType, "RuleSet"))
	qt.Assert(t, qt.Equals(root.Context, "file"))
	qt.Assert(t, qt.HasLen(root.Children, 1))
	rule := root.Children[0]
	qt.Assert(t, qt.Equals(rule.Status, Pass))
	qt.Assert(t, qt.HasLen(rule.Children, 1))
	qt.Assert(t, qt.Equals(rule.Children[0].Status, Pass))
}

func TestTrackerUnbalancedEndPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("End() on the root frame did not panic")
		}
	}()
	tr := NewTracker("RuleSet", "file")
	tr.End(Pass, nil, nil)
}

func TestStatusContextMarshalJSONShape(t *testing.T) {
	from, err := value.FromValue(value.Str("10.0.0.0/24"), value.Root)
	if err != nil {
		t.Fatal(err)
	}
	to, err := value.FromValue(value.Str("NONE"), value.Root)
	if err != nil {
		t.Fatal(err)
	}
	c := &StatusContext{
		EvalType: "Clause",
		Context:  "Properties.AuthorizationType == \"NONE\"",
		From:     from,
		To:       to,
		Status:   Fail,
	}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"eval_type", "context", "from", "to", "status", "children"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("marshaled output missing field %q: %s", field, b)
		}
	}
	if decoded["status"] != "FAIL" {
		t.Errorf("status = %v; want FAIL", decoded["status"])
	}
	children, ok := decoded["children"].([]interface{})
	if !ok || children == nil {
		t.Errorf("children = %#v; want an empty JSON array, not null", decoded["children"])
	}
}

func TestStatusContextMarshalJSONNilFromTo(t *testing.T) {
	c := &StatusContext{EvalType: "Type", Context: "AWS::EC2::VPC", Status: Skip}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["from"] != nil {
		t.Errorf("from = %v; want null", decoded["from"])
	}
	if decoded["to"] != nil {
		t.Errorf("to = %v; want null", decoded["to"])
	}
}
