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

// Package query implements the select() resolver of spec.md §4.4: walking a
// value.PathAwareValue by an ast.Query and returning every matching
// sub-value.
//
// Two of the query parts need help from outside this package: VarRef needs
// the enclosing scope's variable bindings, and Filter needs to evaluate a
// nested conjunction of clauses. Rather than import the scope and eval
// packages (which both need to resolve queries themselves, which would be
// a dependency cycle), Select takes a Resolver the caller implements — the
// same "resolver" parameter named in spec.md's select(V, Q, resolver, all)
// signature. This mirrors the callback-based EvaluationContext the original
// implementation's query.rs threads through its own resolver.
package query

import (
	"fmt"

	rerrors "github.com/docrules/docrules/errors"
	"github.com/docrules/docrules/rules/ast"
	"github.com/docrules/docrules/value"
)

// Resolver supplies the two operations select() cannot perform on its own.
type Resolver interface {
	// ResolveVar returns the current binding of a `%name` variable
	// reference: either a cached literal value or the (possibly multi-value)
	// result of resolving the variable's assigned query.
	ResolveVar(name string) ([]value.PathAwareValue, error)

	// EvalFilter evaluates conj against candidate and reports whether it
	// passed (spec.md §4.4: "on PASS include it").
	EvalFilter(conj []ast.ConjunctionClause, candidate value.PathAwareValue) (bool, error)
}

// Select implements select(V, Q, resolver, all).
func Select(root value.PathAwareValue, q ast.Query, resolver Resolver, all bool) ([]value.PathAwareValue, error) {
	cur := []value.PathAwareValue{root}
	for _, part := range q {
		if vr, ok := part.(ast.VarRef); ok {
			vals, err := resolver.ResolveVar(vr.Name)
			if err != nil {
				return nil, err
			}
			cur = vals
			continue
		}
		next, err := stepAll(cur, part, resolver, all)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if all && len(cur) == 0 {
		return nil, rerrors.NewRetrievalError("", "query %s produced no matches", q)
	}
	return cur, nil
}

func stepAll(values []value.PathAwareValue, part ast.QueryPart, resolver Resolver, all bool) ([]value.PathAwareValue, error) {
	var out []value.PathAwareValue
	for _, v := range values {
		results, err := step(v, part, resolver, all)
		if err != nil {
			if !all && isRetrieval(err) {
				continue
			}
			return nil, err
		}
		out = append(out, results...)
	}
	return out, nil
}

func isRetrieval(err error) bool {
	_, ok := err.(*rerrors.RetrievalError)
	return ok
}

func step(v value.PathAwareValue, part ast.QueryPart, resolver Resolver, all bool) ([]value.PathAwareValue, error) {
	switch p := part.(type) {
	case ast.Key:
		return stepKey(v, p.Name)
	case ast.Index:
		return stepIndex(v, int(p.Value))
	case ast.AllIndices:
		return stepAllIndices(v)
	case ast.AllValues:
		return stepAllValues(v)
	case ast.MapKeys:
		return stepMapKeys(v)
	case ast.Filter:
		return stepFilter(v, p.Conjunctions, resolver, all)
	default:
		return nil, fmt.Errorf("query: unsupported query part %T", part)
	}
}

// stepKey implements: a map recurses into its value; a list whose key
// parses as a non-negative integer is treated as Index (spec.md §3's
// documented dual interpretation); anything else fails.
func stepKey(v value.PathAwareValue, key string) ([]value.PathAwareValue, error) {
	switch x := v.(type) {
	case value.PMap:
		child, ok := x.Get(key)
		if !ok {
			return nil, rerrors.NewRetrievalError(string(x.Path()), "missing key %q", key)
		}
		return []value.PathAwareValue{child}, nil
	case value.PList:
		if n, ok := parseNonNegInt(key); ok {
			return stepIndex(v, n)
		}
		return nil, rerrors.NewIncompatibleError(string(x.Path()), "key %q applied to a list", key)
	default:
		return nil, rerrors.NewIncompatibleError(string(v.Path()), "key %q applied to a %s", key, v.Kind())
	}
}

// stepIndex implements Index(i): the sign of i is ignored, a documented
// quirk carried over from the original query language.
func stepIndex(v value.PathAwareValue, i int) ([]value.PathAwareValue, error) {
	l, ok := v.(value.PList)
	if !ok {
		return nil, rerrors.NewIncompatibleError(string(v.Path()), "index %d applied to a %s", i, v.Kind())
	}
	abs := i
	if abs < 0 {
		abs = -abs
	}
	elems := l.Elem
	if abs >= len(elems) {
		return nil, rerrors.NewRetrievalError(string(l.Path()), "index %d out of range (len %d)", i, len(elems))
	}
	return []value.PathAwareValue{elems[abs]}, nil
}

func stepAllIndices(v value.PathAwareValue) ([]value.PathAwareValue, error) {
	l, ok := v.(value.PList)
	if !ok {
		return nil, rerrors.NewIncompatibleError(string(v.Path()), "AllIndices applied to a %s", v.Kind())
	}
	return append([]value.PathAwareValue(nil), l.Elem...), nil
}

// stepAllValues implements AllValues: list behaves like AllIndices, map
// iterates its values in insertion order, anything else fails.
func stepAllValues(v value.PathAwareValue) ([]value.PathAwareValue, error) {
	switch x := v.(type) {
	case value.PList:
		return append([]value.PathAwareValue(nil), x.Elem...), nil
	case value.PMap:
		return append([]value.PathAwareValue(nil), x.Values()...), nil
	default:
		return nil, rerrors.NewIncompatibleError(string(v.Path()), "AllValues applied to a %s", v.Kind())
	}
}

func stepMapKeys(v value.PathAwareValue) ([]value.PathAwareValue, error) {
	m, ok := v.(value.PMap)
	if !ok {
		return nil, rerrors.NewIncompatibleError(string(v.Path()), "KEYS applied to a %s", v.Kind())
	}
	return append([]value.PathAwareValue(nil), m.Keys...), nil
}

// stepFilter implements Filter(C): a list filters its elements; a map is
// treated as a singleton candidate.
func stepFilter(v value.PathAwareValue, conj []ast.ConjunctionClause, resolver Resolver, all bool) ([]value.PathAwareValue, error) {
	var candidates []value.PathAwareValue
	if l, ok := v.(value.PList); ok {
		candidates = l.Elem
	} else {
		candidates = []value.PathAwareValue{v}
	}
	var out []value.PathAwareValue
	for _, c := range candidates {
		pass, err := resolver.EvalFilter(conj, c)
		if err != nil {
			return nil, err
		}
		if pass {
			out = append(out, c)
		}
	}
	return out, nil
}

func parseNonNegInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
