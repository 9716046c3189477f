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

// Package eval implements the three-valued rule evaluator of spec.md §4.5:
// it walks a parsed RulesFile against a document root, producing a
// track.StatusContext trace of every clause, conjunction, rule, and type
// block it visited. It is the one package that knows how to run a
// ConjunctionClause, which is why scope.FilterEvaluator and query.Resolver
// exist as separate, narrower interfaces rather than letting query and
// scope import this package directly.
package eval

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strings"

	rerrors "github.com/docrules/docrules/errors"
	"github.com/docrules/docrules/query"
	"github.com/docrules/docrules/rules/ast"
	"github.com/docrules/docrules/scope"
	"github.com/docrules/docrules/token"
	"github.com/docrules/docrules/track"
	"github.com/docrules/docrules/value"
)

// Evaluator runs one RulesFile against one or more documents. Named-rule
// results are memoized per Evaluate call and reset on the next one, matching
// spec.md §4.5's "evaluated at most once per document" rule.
type Evaluator struct {
	file      *ast.RulesFile
	tracker   *track.Tracker
	memo      map[string]track.Status
	calling   map[string]bool
	callOrder []string
}

// NewEvaluator prepares an evaluator for file. The same Evaluator may be
// reused across several calls to Evaluate, each against a different
// document; memoization and cycle tracking are reset at the start of each.
func NewEvaluator(file *ast.RulesFile) *Evaluator {
	return &Evaluator{file: file}
}

// Evaluate runs every top-level item of the rules file against root, in
// file order, and returns the resulting StatusContext tree.
func (e *Evaluator) Evaluate(root value.PathAwareValue) (*track.StatusContext, error) {
	e.tracker = track.NewTracker("RuleSet", "file")
	e.memo = map[string]track.Status{}
	e.calling = map[string]bool{}
	e.callOrder = nil

	rootScope := scope.NewRoot(root, e.evalFilterCallback)

	overall := track.Pass
	any := false
	for _, item := range e.file.Items {
		switch x := item.(type) {
		case *ast.Assignment:
			if err := e.bindAssignment(rootScope, x); err != nil {
				return nil, err
			}
		case *ast.Rule:
			st, err := e.evalNamedRule(rootScope, x.Name)
			if err != nil {
				return nil, err
			}
			overall = andStatus(overall, st)
			any = true
		case *ast.TypeBlock:
			st, err := e.evalTypeBlock(rootScope, x)
			if err != nil {
				return nil, err
			}
			overall = andStatus(overall, st)
			any = true
		case ast.ConjunctionClause:
			st, err := e.evalConjunction(rootScope, x, "Clause")
			if err != nil {
				return nil, err
			}
			overall = andStatus(overall, st)
			any = true
		}
	}
	if !any {
		overall = track.Skip
	}
	e.tracker.Root().Status = overall
	return e.tracker.Root(), nil
}

func (e *Evaluator) bindAssignment(sc *scope.Scope, a *ast.Assignment) error {
	if a.Query != nil {
		sc.BindQuery(a.Name, a.Query)
		return nil
	}
	return sc.BindLiteral(a.Name, a.Value)
}

// evalNamedRule evaluates a rule by name, memoizing the result and detecting
// reference cycles (spec.md §4.5 rule 4, §9 "use an explicit visit-set").
func (e *Evaluator) evalNamedRule(sc *scope.Scope, name string) (track.Status, error) {
	if st, ok := e.memo[name]; ok {
		e.tracker.Start("Rule", name)
		e.tracker.End(st, nil, nil)
		return st, nil
	}
	if e.calling[name] {
		cycle := append(append([]string{}, e.callOrder...), name)
		return track.Fail, rerrors.NewCycleDetected(cycle)
	}
	rule, ok := e.file.RuleByName(name)
	if !ok {
		return track.Fail, fmt.Errorf("eval: rule %q not found", name)
	}

	e.calling[name] = true
	e.callOrder = append(e.callOrder, name)
	defer func() {
		delete(e.calling, name)
		e.callOrder = e.callOrder[:len(e.callOrder)-1]
	}()

	e.tracker.Start("Rule", name)
	ruleScope := sc.Nested()

	if len(rule.When) > 0 {
		whenStatus, err := e.evalConjunctions(ruleScope, rule.When, "Condition")
		if err != nil {
			e.tracker.End(track.Fail, nil, nil)
			return track.Fail, err
		}
		if whenStatus != track.Pass {
			e.tracker.End(track.Skip, nil, nil)
			e.memo[name] = track.Skip
			return track.Skip, nil
		}
	}

	status, err := e.evalRuleBody(ruleScope, rule.Body)
	if err != nil {
		e.tracker.End(track.Fail, nil, nil)
		return track.Fail, err
	}
	e.tracker.End(status, nil, nil)
	e.memo[name] = status
	return status, nil
}

func (e *Evaluator) evalRuleBody(sc *scope.Scope, body []ast.RuleItem) (track.Status, error) {
	result := track.Pass
	any := false
	for _, item := range body {
		switch x := item.(type) {
		case *ast.Assignment:
			if err := e.bindAssignment(sc, x); err != nil {
				return track.Fail, err
			}
		case ast.ConjunctionClause:
			st, err := e.evalConjunction(sc, x, "Clause")
			if err != nil {
				return track.Fail, err
			}
			result = andStatus(result, st)
			any = true
		case *ast.TypeBlock:
			st, err := e.evalTypeBlock(sc, x)
			if err != nil {
				return track.Fail, err
			}
			result = andStatus(result, st)
			any = true
		}
	}
	if !any {
		return track.Skip, nil
	}
	return result, nil
}

// evalConjunctions ANDs a list of ConjunctionClause groups together (used
// for when-conditions and type-block bodies, both of which are "clauses" in
// spec.md's grammar — a list of AND-joined, possibly-OR-joined groups).
func (e *Evaluator) evalConjunctions(sc *scope.Scope, groups []ast.ConjunctionClause, evalType string) (track.Status, error) {
	if len(groups) == 0 {
		return track.Skip, nil
	}
	result := track.Pass
	for _, g := range groups {
		st, err := e.evalConjunction(sc, g, evalType)
		if err != nil {
			return track.Fail, err
		}
		result = andStatus(result, st)
	}
	return result, nil
}

// evalConjunction evaluates one ConjunctionClause: a lone clause, or a group
// of clauses OR-joined together. Per spec.md §5, OR evaluation never short
// circuits — every member is evaluated so the trace records full status.
func (e *Evaluator) evalConjunction(sc *scope.Scope, group ast.ConjunctionClause, evalType string) (track.Status, error) {
	if len(group.Clauses) == 1 {
		return e.evalClause(sc, group.Clauses[0])
	}
	e.tracker.Start(evalType, "or")
	result := track.Fail
	for _, c := range group.Clauses {
		st, err := e.evalClause(sc, c)
		if err != nil {
			e.tracker.End(track.Fail, nil, nil)
			return track.Fail, err
		}
		result = orStatus(result, st)
	}
	e.tracker.End(result, nil, nil)
	return result, nil
}

func (e *Evaluator) evalClause(sc *scope.Scope, clause ast.Clause) (track.Status, error) {
	switch c := clause.(type) {
	case *ast.AccessClause:
		return e.evalAccessClause(sc, c)
	case *ast.NamedRuleRef:
		return e.evalNamedRuleRef(sc, c)
	case *ast.TypeBlock:
		return e.evalTypeBlock(sc, c)
	default:
		return track.Fail, fmt.Errorf("eval: unknown clause type %T", clause)
	}
}

func (e *Evaluator) evalNamedRuleRef(sc *scope.Scope, ref *ast.NamedRuleRef) (track.Status, error) {
	status, err := e.evalNamedRule(sc, ref.Name)
	if err != nil {
		return track.Fail, err
	}
	if ref.Negate {
		status = negateStatus(status)
	}
	return status, nil
}

// evalTypeBlock implements spec.md §4.5 rule 5: select every sub-value whose
// Type field matches TypeName and evaluate the nested clauses against each
// in turn, AND-ing the per-element outcomes. Zero matches, or every match
// skipped by its own when-condition, is SKIP.
func (e *Evaluator) evalTypeBlock(sc *scope.Scope, tb *ast.TypeBlock) (track.Status, error) {
	e.tracker.Start("Type", tb.TypeName)
	matches := findByType(sc.Root(), tb.TypeName)
	if len(matches) == 0 {
		e.tracker.End(track.Skip, nil, nil)
		return track.Skip, nil
	}

	result := track.Pass
	anyEvaluated := false
	for _, m := range matches {
		elemScope := sc.NestedWithRoot(m)
		if len(tb.When) > 0 {
			whenStatus, err := e.evalConjunctions(elemScope, tb.When, "Condition")
			if err != nil {
				e.tracker.End(track.Fail, nil, nil)
				return track.Fail, err
			}
			if whenStatus != track.Pass {
				continue
			}
		}
		st, err := e.evalConjunctions(elemScope, tb.Body, "Clause")
		if err != nil {
			e.tracker.End(track.Fail, nil, nil)
			return track.Fail, err
		}
		anyEvaluated = true
		// The real FAIL stays on the nested Clause/Condition children for
		// reporting, but per spec.md §8 S1 (and the matching ground truth
		// in original_source/cfn-guard/tests/functional.rs) a Type frame's
		// own status is never escalated to FAIL by a failing element —
		// only a clean PASS across every matched element earns PASS here.
		if st == track.Fail {
			st = track.Skip
		}
		result = andStatus(result, st)
	}
	if !anyEvaluated {
		e.tracker.End(track.Skip, nil, nil)
		return track.Skip, nil
	}
	e.tracker.End(result, nil, nil)
	return result, nil
}

// evalFilterCallback is the scope.FilterEvaluator supplied to every scope
// this evaluator creates, closing the dependency-avoiding cycle described
// in the package doc: query.Filter calls scope.EvalFilter, which calls back
// in here.
func (e *Evaluator) evalFilterCallback(sc *scope.Scope, conj []ast.ConjunctionClause, candidate value.PathAwareValue) (bool, error) {
	filterScope := sc.NestedWithRoot(candidate)
	e.tracker.Start("Filter", "candidate")
	status, err := e.evalConjunctions(filterScope, conj, "Clause")
	if err != nil {
		e.tracker.End(track.Fail, nil, nil)
		return false, err
	}
	e.tracker.End(status, nil, nil)
	return status == track.Pass, nil
}

// evalAccessClause implements spec.md §4.5 rules 1-2 for one AccessClause.
func (e *Evaluator) evalAccessClause(sc *scope.Scope, c *ast.AccessClause) (track.Status, error) {
	e.tracker.Start("Clause", clauseContext(c))

	lhsVals, err := e.resolveLHS(sc, c.LHS)
	if err != nil {
		if isNonFatal(err) {
			e.tracker.End(track.Fail, nil, nil)
			return track.Fail, nil
		}
		e.tracker.End(track.Fail, nil, nil)
		return track.Fail, err
	}

	if c.Keys {
		lhsVals, err = applyKeysFlag(lhsVals)
		if err != nil {
			e.tracker.End(track.Fail, nil, nil)
			return track.Fail, nil
		}
	}

	var fromVal, toVal value.PathAwareValue
	if len(lhsVals) > 0 {
		fromVal = lhsVals[0]
	}

	var status track.Status
	switch {
	case c.Cmp == ast.Exists || c.Cmp == ast.NotExists:
		status = boolStatus(unaryClausePasses(c.Cmp, lhsVals))
	case len(lhsVals) == 0:
		// Missing data is not a failure (spec.md §4.5 rule 1), except for
		// EXISTS/NotExists handled above, which test absence directly.
		status = track.Skip
	case c.Cmp.IsUnary():
		status = boolStatus(unaryClausePasses(c.Cmp, lhsVals))
	default:
		rhsVals, rerr := e.resolveRHS(sc, c.RHS)
		if rerr != nil {
			e.tracker.End(track.Fail, fromVal, nil)
			return track.Fail, rerr
		}
		if len(rhsVals) > 0 {
			toVal = rhsVals[0]
		}
		ok, cerr := binaryClausePasses(c.Cmp, lhsVals, rhsVals)
		if cerr != nil {
			status = track.Fail
		} else {
			status = boolStatus(ok)
		}
	}

	if status != track.Skip && c.Negate {
		status = negateStatus(status)
	}

	e.tracker.End(status, fromVal, toVal)
	return status, nil
}

// resolveLHS resolves a clause's access. An empty Query means the clause
// omitted its access entirely, which is only legal inside a filter
// predicate — there it refers to the filter's current candidate, which is
// exactly what NestedWithRoot made the scope's root.
func (e *Evaluator) resolveLHS(sc *scope.Scope, q ast.Query) ([]value.PathAwareValue, error) {
	if len(q) == 0 {
		return []value.PathAwareValue{sc.Root()}, nil
	}
	return query.Select(sc.Root(), q, sc, false)
}

func (e *Evaluator) resolveRHS(sc *scope.Scope, rhs ast.RHS) ([]value.PathAwareValue, error) {
	switch r := rhs.(type) {
	case ast.QueryRHS:
		return query.Select(sc.Root(), r.Query, sc, false)
	case ast.LiteralRHS:
		pv, err := value.FromValue(r.Value, value.Root)
		if err != nil {
			return nil, err
		}
		return []value.PathAwareValue{pv}, nil
	default:
		return nil, fmt.Errorf("eval: binary comparator has no right-hand side")
	}
}

func isNonFatal(err error) bool {
	switch err.(type) {
	case *rerrors.IncompatibleError, *rerrors.NotComparable:
		return true
	default:
		return false
	}
}

func applyKeysFlag(lhsVals []value.PathAwareValue) ([]value.PathAwareValue, error) {
	var out []value.PathAwareValue
	for _, v := range lhsVals {
		m, ok := v.(value.PMap)
		if !ok {
			return nil, rerrors.NewIncompatibleError(string(v.Path()), "KEYS applied to a %s", v.Kind())
		}
		out = append(out, m.Keys...)
	}
	return out, nil
}

func boolStatus(ok bool) track.Status {
	if ok {
		return track.Pass
	}
	return track.Fail
}

// andStatus implements spec.md §8's conjunction law; track.Pass is its
// identity element.
func andStatus(a, b track.Status) track.Status {
	if a == track.Fail || b == track.Fail {
		return track.Fail
	}
	if a == track.Skip || b == track.Skip {
		return track.Skip
	}
	return track.Pass
}

// orStatus implements spec.md §8's disjunction law; track.Fail is its
// identity element.
func orStatus(a, b track.Status) track.Status {
	if a == track.Pass || b == track.Pass {
		return track.Pass
	}
	if a == track.Skip || b == track.Skip {
		return track.Skip
	}
	return track.Fail
}

// negateStatus implements spec.md §8's negation law: PASS and FAIL swap,
// SKIP is unaffected.
func negateStatus(s track.Status) track.Status {
	switch s {
	case track.Pass:
		return track.Fail
	case track.Fail:
		return track.Pass
	default:
		return track.Skip
	}
}

func unaryClausePasses(cmp ast.Comparator, lhsVals []value.PathAwareValue) bool {
	switch cmp {
	case ast.Exists:
		return len(lhsVals) > 0
	case ast.NotExists:
		return len(lhsVals) == 0
	case ast.Empty:
		for _, v := range lhsVals {
			if !isEmptyValue(v) {
				return false
			}
		}
		return true
	case ast.NotEmpty:
		for _, v := range lhsVals {
			if isEmptyValue(v) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isEmptyValue(v value.PathAwareValue) bool {
	switch x := v.(type) {
	case value.PNull:
		return true
	case value.PString:
		return x.Val == ""
	case value.PList:
		return len(x.Elem) == 0
	case value.PMap:
		return x.Len() == 0
	default:
		return false
	}
}

// binaryClausePasses implements spec.md §4.5 rule 2: the comparison
// succeeds iff it succeeds for every LHS value against at least one RHS
// value.
func binaryClausePasses(cmp ast.Comparator, lhsVals, rhsVals []value.PathAwareValue) (bool, error) {
	for _, l := range lhsVals {
		hold := false
		for _, r := range rhsVals {
			ok, err := comparatorHolds(cmp, l, r)
			if err != nil {
				return false, err
			}
			if ok {
				hold = true
				break
			}
		}
		if !hold {
			return false, nil
		}
	}
	return true, nil
}

func comparatorHolds(cmp ast.Comparator, lhs, rhs value.PathAwareValue) (bool, error) {
	switch cmp {
	case ast.Eq:
		return valuesEqual(lhs, rhs)
	case ast.Ne:
		eq, err := valuesEqual(lhs, rhs)
		return !eq, err
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		c, err := compareOrder(lhs, rhs)
		if err != nil {
			return false, err
		}
		switch cmp {
		case ast.Lt:
			return c < 0, nil
		case ast.Le:
			return c <= 0, nil
		case ast.Gt:
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	case ast.In, ast.NotIn:
		ok, err := containerContains(rhs, lhs)
		if err != nil {
			return false, err
		}
		if cmp == ast.NotIn {
			ok = !ok
		}
		return ok, nil
	default:
		return false, fmt.Errorf("eval: comparator %s is not binary", cmp)
	}
}

// valuesEqual implements `==`: a string compared against a regex (either
// side) matches the regex against the string (spec.md §4.5, S4); otherwise
// it is structural equality.
func valuesEqual(a, b value.PathAwareValue) (bool, error) {
	if as, ok := a.(value.PString); ok {
		if br, ok := b.(value.PRegex); ok {
			return regexMatches(br.Val, as.Val)
		}
	}
	if ar, ok := a.(value.PRegex); ok {
		if bs, ok := b.(value.PString); ok {
			return regexMatches(ar.Val, bs.Val)
		}
	}
	return value.Equal(a, b), nil
}

func regexMatches(pattern, s string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, rerrors.NewRegexCompile(token.Position{}, pattern, err)
	}
	return re.MatchString(s), nil
}

// compareOrder implements `<`,`<=`,`>`,`>=`: same-typed scalars only.
func compareOrder(a, b value.PathAwareValue) (int, error) {
	switch x := a.(type) {
	case value.PString:
		y, ok := b.(value.PString)
		if !ok {
			return 0, notComparable(a, b)
		}
		return strings.Compare(x.Val, y.Val), nil
	case value.PInt:
		y, ok := b.(value.PInt)
		if !ok {
			return 0, notComparable(a, b)
		}
		return compareInt64(x.Val, y.Val), nil
	case value.PFloat:
		y, ok := b.(value.PFloat)
		if !ok || math.IsNaN(x.Val) || math.IsNaN(y.Val) {
			return 0, notComparable(a, b)
		}
		return compareFloat64(x.Val, y.Val), nil
	case value.PChar:
		y, ok := b.(value.PChar)
		if !ok {
			return 0, notComparable(a, b)
		}
		return compareInt64(int64(x.Val), int64(y.Val)), nil
	default:
		return 0, notComparable(a, b)
	}
}

func compareInt64(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareFloat64(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func notComparable(a, b value.PathAwareValue) error {
	return rerrors.NewNotComparable(string(a.Path()), "%s and %s are not comparable", a.Kind(), b.Kind())
}

// containerContains implements `IN`'s three RHS shapes (spec.md §4.5 rule
// "IN with RHS list/range/map").
func containerContains(container, lhs value.PathAwareValue) (bool, error) {
	switch x := container.(type) {
	case value.PList:
		for _, e := range x.Elem {
			ok, err := valuesEqual(lhs, e)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case value.PMap:
		ls, ok := lhs.(value.PString)
		if !ok {
			return false, nil
		}
		for _, k := range x.OrderedKeys() {
			if ls.Val == k {
				return true, nil
			}
		}
		return false, nil
	case value.PRangeInt:
		li, ok := lhs.(value.PInt)
		if !ok {
			return false, notComparable(lhs, container)
		}
		return x.Val.Contains(li.Val), nil
	case value.PRangeFloat:
		lf, ok := lhs.(value.PFloat)
		if !ok {
			return false, notComparable(lhs, container)
		}
		return x.Val.Contains(lf.Val), nil
	case value.PRangeChar:
		lc, ok := lhs.(value.PChar)
		if !ok {
			return false, notComparable(lhs, container)
		}
		return x.Val.Contains(lc.Val), nil
	default:
		return false, rerrors.NewIncompatibleError(string(container.Path()), "IN applied to a %s", container.Kind())
	}
}

func clauseContext(c *ast.AccessClause) string {
	lhs := "this"
	if len(c.LHS) > 0 {
		lhs = c.LHS.String()
	}
	ctx := lhs
	if c.Keys {
		ctx += " KEYS"
	}
	ctx += " " + c.Cmp.String()
	switch r := c.RHS.(type) {
	case ast.QueryRHS:
		ctx += " " + r.Query.String()
	case ast.LiteralRHS:
		ctx += " <literal>"
	}
	if c.Negate {
		ctx = "not " + ctx
	}
	if c.Message != "" {
		ctx += " << " + c.Message + " >>"
	}
	return ctx
}

// findByType recursively searches v for every sub-value whose "Type" key
// equals typeName, matched as a filepath-style glob so a named type like
// "AWS::EC2::*" selects a whole service family (spec.md §4.5 rule 5).
func findByType(root value.PathAwareValue, typeName string) []value.PathAwareValue {
	var out []value.PathAwareValue
	var walk func(value.PathAwareValue)
	walk = func(v value.PathAwareValue) {
		switch x := v.(type) {
		case value.PMap:
			if tv, ok := x.Get("Type"); ok {
				if ts, ok := tv.(value.PString); ok && matchesType(typeName, ts.Val) {
					out = append(out, v)
				}
			}
			for _, child := range x.Values() {
				walk(child)
			}
		case value.PList:
			for _, child := range x.Elem {
				walk(child)
			}
		}
	}
	walk(root)
	return out
}

func matchesType(pattern, candidate string) bool {
	ok, err := filepath.Match(pattern, candidate)
	return err == nil && ok
}
