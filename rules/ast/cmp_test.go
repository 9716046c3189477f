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

package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"
)

// TestQueryStructuralEquality uses go-cmp for deep structural comparison of a
// Query's navigation steps, the way the teacher's own AST tests diff whole
// trees rather than re-deriving them field by field.
func TestQueryStructuralEquality(t *testing.T) {
	got := Query{Key{Name: "Resources"}, AllValues{}, MapKeys{}, Index{Value: 2}, VarRef{Name: "engine"}}
	want := Query{Key{Name: "Resources"}, AllValues{}, MapKeys{}, Index{Value: 2}, VarRef{Name: "engine"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Query mismatch (-want +got):\n%s\npretty got: %# v", diff, pretty.Formatter(got))
	}
}

func TestQueryStructuralEqualityCatchesDrift(t *testing.T) {
	got := Query{Key{Name: "Resources"}, Index{Value: 1}}
	want := Query{Key{Name: "Resources"}, Index{Value: 2}}
	if diff := cmp.Diff(want, got); diff == "" {
		t.Fatalf("expected a diff between Index{1} and Index{2}, got none\npretty: %# v", pretty.Formatter(got))
	}
}
