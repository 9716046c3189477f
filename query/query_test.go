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

package query

import (
	"testing"

	"github.com/docrules/docrules/rules/ast"
	"github.com/docrules/docrules/value"
)

// stubResolver lets tests exercise VarRef and Filter query parts without
// pulling in scope or eval.
type stubResolver struct {
	vars       map[string][]value.PathAwareValue
	filterKeep func(candidate value.PathAwareValue) bool
}

func (s stubResolver) ResolveVar(name string) ([]value.PathAwareValue, error) {
	return s.vars[name], nil
}

func (s stubResolver) EvalFilter(conj []ast.ConjunctionClause, candidate value.PathAwareValue) (bool, error) {
	if s.filterKeep == nil {
		return true, nil
	}
	return s.filterKeep(candidate), nil
}

func doc(t *testing.T) value.PathAwareValue {
	t.Helper()
	native := value.OrderedMap{
		Keys: []string{"Resources"},
		Values: map[string]interface{}{
			"Resources": value.OrderedMap{
				Keys: []string{"VPC", "Subnet"},
				Values: map[string]interface{}{
					"VPC": value.OrderedMap{
						Keys:   []string{"Type", "Tags"},
						Values: map[string]interface{}{"Type": "AWS::EC2::VPC", "Tags": []interface{}{"a", "b"}},
					},
					"Subnet": value.OrderedMap{
						Keys:   []string{"Type"},
						Values: map[string]interface{}{"Type": "AWS::EC2::Subnet"},
					},
				},
			},
		},
	}
	root, err := value.FromNative(native, value.Root)
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestSelectKeyDescendsMap(t *testing.T) {
	q := ast.Query{ast.Key{Name: "Resources"}, ast.Key{Name: "VPC"}, ast.Key{Name: "Type"}}
	got, err := Select(doc(t), q, stubResolver{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d; want 1", len(got))
	}
	s, ok := got[0].(value.PString)
	if !ok || s.Val != "AWS::EC2::VPC" {
		t.Errorf("got %#v; want PString(AWS::EC2::VPC)", got[0])
	}
}

func TestSelectKeyOnListIsIndex(t *testing.T) {
	q := ast.Query{ast.Key{Name: "Resources"}, ast.Key{Name: "VPC"}, ast.Key{Name: "Tags"}, ast.Key{Name: "1"}}
	got, err := Select(doc(t), q, stubResolver{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].(value.PString).Val != "b" {
		t.Fatalf("got %#v; want PString(b)", got)
	}
}

func TestSelectIndexIgnoresSign(t *testing.T) {
	q := ast.Query{ast.Key{Name: "Resources"}, ast.Key{Name: "VPC"}, ast.Key{Name: "Tags"}, ast.Index{Value: -1}}
	got, err := Select(doc(t), q, stubResolver{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].(value.PString).Val != "b" {
		t.Fatalf("got %#v; want PString(b) (sign ignored)", got)
	}
}

func TestSelectAllValuesOverMap(t *testing.T) {
	q := ast.Query{ast.Key{Name: "Resources"}, ast.AllValues{}, ast.Key{Name: "Type"}}
	got, err := Select(doc(t), q, stubResolver{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d; want 2", len(got))
	}
}

func TestSelectMapKeys(t *testing.T) {
	q := ast.Query{ast.Key{Name: "Resources"}, ast.MapKeys{}}
	got, err := Select(doc(t), q, stubResolver{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].(value.PString).Val != "VPC" || got[1].(value.PString).Val != "Subnet" {
		t.Fatalf("got %#v; want [VPC Subnet]", got)
	}
}

func TestSelectMissingKeyNonStrictSkipped(t *testing.T) {
	q := ast.Query{ast.Key{Name: "Resources"}, ast.AllValues{}, ast.Key{Name: "Tags"}}
	got, err := Select(doc(t), q, stubResolver{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d; want 1 (Subnet has no Tags, silently skipped)", len(got))
	}
}

func TestSelectAllStrictNoMatchesErrors(t *testing.T) {
	q := ast.Query{ast.Key{Name: "Resources"}, ast.Key{Name: "Missing"}}
	_, err := Select(doc(t), q, stubResolver{}, true)
	if err == nil {
		t.Fatal("Select() succeeded; want a RetrievalError for a missing key")
	}
}

func TestSelectVarRef(t *testing.T) {
	vpc, err := Select(doc(t), ast.Query{ast.Key{Name: "Resources"}, ast.Key{Name: "VPC"}}, stubResolver{}, false)
	if err != nil {
		t.Fatal(err)
	}
	resolver := stubResolver{vars: map[string][]value.PathAwareValue{"v": vpc}}
	got, err := Select(doc(t), ast.Query{ast.VarRef{Name: "v"}, ast.Key{Name: "Type"}}, resolver, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].(value.PString).Val != "AWS::EC2::VPC" {
		t.Fatalf("got %#v; want PString(AWS::EC2::VPC)", got)
	}
}

func TestSelectFilterKeepsMatchingElements(t *testing.T) {
	q := ast.Query{ast.Key{Name: "Resources"}, ast.AllValues{}, ast.Filter{}}
	resolver := stubResolver{filterKeep: func(candidate value.PathAwareValue) bool {
		m, ok := candidate.(value.PMap)
		if !ok {
			return false
		}
		typ, ok := m.Get("Type")
		return ok && typ.(value.PString).Val == "AWS::EC2::VPC"
	}}
	got, err := Select(doc(t), q, resolver, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d; want 1 (only VPC matches the filter)", len(got))
	}
}

func TestSelectIncompatibleKindErrors(t *testing.T) {
	q := ast.Query{ast.Key{Name: "Resources"}, ast.Key{Name: "VPC"}, ast.AllIndices{}}
	_, err := Select(doc(t), q, stubResolver{}, false)
	if err == nil {
		t.Fatal("Select() succeeded; want an IncompatibleError for AllIndices over a map")
	}
}
