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

package scope

import (
	"testing"

	"github.com/docrules/docrules/rules/ast"
	"github.com/docrules/docrules/value"
)

func root(t *testing.T) value.PathAwareValue {
	t.Helper()
	native := value.OrderedMap{
		Keys: []string{"a", "b"},
		Values: map[string]interface{}{
			"a": "x",
			"b": "y",
		},
	}
	v, err := value.FromNative(native, value.Root)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestBindLiteralResolves(t *testing.T) {
	s := NewRoot(root(t), nil)
	if err := s.BindLiteral("allowed", value.Str("mysql")); err != nil {
		t.Fatal(err)
	}
	got, err := s.ResolveVar("allowed")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].(value.PString).Val != "mysql" {
		t.Fatalf("ResolveVar() = %#v; want [PString(mysql)]", got)
	}
}

func TestBindQueryResolvesLazilyAndCaches(t *testing.T) {
	s := NewRoot(root(t), nil)
	s.BindQuery("a_value", ast.Query{ast.Key{Name: "a"}})

	got1, err := s.ResolveVar("a_value")
	if err != nil {
		t.Fatal(err)
	}
	got2, err := s.ResolveVar("a_value")
	if err != nil {
		t.Fatal(err)
	}
	if len(got1) != 1 || got1[0].(value.PString).Val != "x" {
		t.Fatalf("got %#v; want [PString(x)]", got1)
	}
	if len(got2) != 1 || got2[0].(value.PString).Val != "x" {
		t.Fatalf("cached resolution changed shape: %#v", got2)
	}
}

func TestResolveVarMissingFails(t *testing.T) {
	s := NewRoot(root(t), nil)
	if _, err := s.ResolveVar("nope"); err == nil {
		t.Fatal("ResolveVar() succeeded; want a VariableNotFound error")
	}
}

func TestNestedScopeShadowsParent(t *testing.T) {
	parent := NewRoot(root(t), nil)
	if err := parent.BindLiteral("name", value.Str("outer")); err != nil {
		t.Fatal(err)
	}
	child := parent.Nested()
	if err := child.BindLiteral("name", value.Str("inner")); err != nil {
		t.Fatal(err)
	}

	got, err := child.ResolveVar("name")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].(value.PString).Val != "inner" {
		t.Errorf("child ResolveVar(name) = %q; want inner", got[0].(value.PString).Val)
	}

	stillOuter, err := parent.ResolveVar("name")
	if err != nil {
		t.Fatal(err)
	}
	if stillOuter[0].(value.PString).Val != "outer" {
		t.Errorf("parent ResolveVar(name) = %q; want outer (unaffected by shadowing)", stillOuter[0].(value.PString).Val)
	}
}

func TestNestedScopeFallsThroughToParent(t *testing.T) {
	parent := NewRoot(root(t), nil)
	if err := parent.BindLiteral("shared", value.Int(7)); err != nil {
		t.Fatal(err)
	}
	child := parent.Nested()
	got, err := child.ResolveVar("shared")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].(value.PInt).Val != 7 {
		t.Errorf("got %#v; want PInt(7) resolved through the parent", got[0])
	}
}

func TestSelfReferentialQueryBindingIsCycleDetected(t *testing.T) {
	// A variable bound to a query containing a VarRef to itself would spin
	// forever without cycle detection; Select calls back into ResolveVar via
	// the scope acting as its own query.Resolver.
	s := NewRoot(root(t), nil)
	s.BindQuery("self", ast.Query{ast.VarRef{Name: "self"}})
	if _, err := s.ResolveVar("self"); err == nil {
		t.Fatal("ResolveVar() succeeded; want a CycleDetected error")
	}
}

func TestEvalFilterWithoutEvaluatorErrors(t *testing.T) {
	s := NewRoot(root(t), nil)
	if _, err := s.EvalFilter(nil, root(t)); err == nil {
		t.Fatal("EvalFilter() succeeded with no FilterEvaluator configured; want an error")
	}
}

func TestEvalFilterDelegates(t *testing.T) {
	called := false
	s := NewRoot(root(t), func(sc *Scope, conj []ast.ConjunctionClause, candidate value.PathAwareValue) (bool, error) {
		called = true
		return true, nil
	})
	ok, err := s.EvalFilter(nil, root(t))
	if err != nil {
		t.Fatal(err)
	}
	if !ok || !called {
		t.Errorf("EvalFilter() = %v, called=%v; want true, true", ok, called)
	}
}
