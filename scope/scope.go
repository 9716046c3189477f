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

// Package scope implements the variable store of spec.md §3: a mapping from
// name to either a literal value or an unresolved query, resolved lazily
// against the evaluation root and cached for the scope's lifetime. Scopes
// nest; a lookup that misses locally continues into the parent, so inner
// scopes shadow outer ones without copying their bindings.
package scope

import (
	"fmt"

	rerrors "github.com/docrules/docrules/errors"
	"github.com/docrules/docrules/query"
	"github.com/docrules/docrules/rules/ast"
	"github.com/docrules/docrules/token"
	"github.com/docrules/docrules/value"
)

// FilterEvaluator runs a nested conjunction of clauses against a candidate
// value, as required to resolve a query.Filter part. Only the evaluator
// (component G) knows how to run a ConjunctionClause, so Scope is handed one
// at construction rather than importing the eval package directly — the
// same cycle-avoiding shape query.Resolver uses.
type FilterEvaluator func(scope *Scope, conj []ast.ConjunctionClause, candidate value.PathAwareValue) (bool, error)

type binding struct {
	literal value.PathAwareValue // non-nil for a literal binding
	query   ast.Query            // non-nil for a query binding
}

// Scope is one lexical frame. It implements query.Resolver so that it can
// be passed directly to query.Select both for clauses evaluated in this
// scope and for resolving its own query-valued bindings.
type Scope struct {
	parent    *Scope
	root      value.PathAwareValue
	evalFilt  FilterEvaluator
	bindings  map[string]binding
	cache     map[string][]value.PathAwareValue
	resolving map[string]bool
}

// NewRoot creates the outermost scope of one evaluation over root.
func NewRoot(root value.PathAwareValue, evalFilt FilterEvaluator) *Scope {
	return &Scope{
		root:      root,
		evalFilt:  evalFilt,
		bindings:  map[string]binding{},
		cache:     map[string][]value.PathAwareValue{},
		resolving: map[string]bool{},
	}
}

// Nested creates a child scope that shares this scope's root and filter
// evaluator but starts with no bindings of its own.
func (s *Scope) Nested() *Scope {
	return &Scope{
		parent:    s,
		root:      s.root,
		evalFilt:  s.evalFilt,
		bindings:  map[string]binding{},
		cache:     map[string][]value.PathAwareValue{},
		resolving: map[string]bool{},
	}
}

// Root returns the path-aware value every query in this scope resolves
// against.
func (s *Scope) Root() value.PathAwareValue { return s.root }

// NestedWithRoot creates a child scope like Nested, but resolves queries
// against a different root — used when a type block or filter narrows
// evaluation to one matched sub-value, so `Properties.X` inside it means
// "Properties.X of this element", not of the whole document.
func (s *Scope) NestedWithRoot(root value.PathAwareValue) *Scope {
	child := s.Nested()
	child.root = root
	return child
}

// BindLiteral binds name to a literal assignment value (`let x = 10`).
func (s *Scope) BindLiteral(name string, v value.Value) error {
	pv, err := value.FromValue(v, value.Root.Append(name))
	if err != nil {
		return err
	}
	s.bindings[name] = binding{literal: pv}
	delete(s.cache, name)
	return nil
}

// BindQuery binds name to an unresolved query (`let x = Resources.*`).
// Resolution happens lazily, on first dereference.
func (s *Scope) BindQuery(name string, q ast.Query) {
	s.bindings[name] = binding{query: q}
	delete(s.cache, name)
}

// ResolveVar implements query.Resolver. A miss in this scope's own bindings
// continues into the parent, so shadowing is just "closest binding wins".
func (s *Scope) ResolveVar(name string) ([]value.PathAwareValue, error) {
	if cached, ok := s.cache[name]; ok {
		return cached, nil
	}
	b, ok := s.bindings[name]
	if !ok {
		if s.parent != nil {
			return s.parent.ResolveVar(name)
		}
		return nil, rerrors.NewVariableNotFound(token.Position{}, name)
	}
	if b.literal != nil {
		result := []value.PathAwareValue{b.literal}
		s.cache[name] = result
		return result, nil
	}
	if s.resolving[name] {
		return nil, rerrors.NewCycleDetected([]string{name})
	}
	s.resolving[name] = true
	defer delete(s.resolving, name)

	result, err := query.Select(s.root, b.query, s, false)
	if err != nil {
		return nil, err
	}
	s.cache[name] = result
	return result, nil
}

// EvalFilter implements query.Resolver by delegating to the evaluator
// supplied at construction.
func (s *Scope) EvalFilter(conj []ast.ConjunctionClause, candidate value.PathAwareValue) (bool, error) {
	if s.evalFilt == nil {
		return false, fmt.Errorf("scope: no filter evaluator configured for this evaluation")
	}
	return s.evalFilt(s, conj, candidate)
}
