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

// Package parser implements the recursive-descent grammar of spec.md §4.3
// over a token.Span, in the same combinator style cue/parser uses over its
// own scanner: every parse* function consumes a prefix of the span and
// returns the span that remains, so alternatives can be retried from the
// original span on a soft failure.
//
// The grammar's own production names are kept as function-name suffixes
// (parseAccess, parseClause, parseRulesFile, …) so the mapping from spec.md
// to code is mechanical.
package parser

import (
	"fmt"
	"strings"

	rerrors "github.com/docrules/docrules/errors"
	"github.com/docrules/docrules/literal"
	"github.com/docrules/docrules/rules/ast"
	"github.com/docrules/docrules/token"
)

// cut wraps an error produced after the grammar's single commit point (a
// comparator with no valid right-hand side). Once raised it is never treated
// as a soft, try-the-next-alternative failure; it propagates straight to the
// caller of Parse.
type cut struct{ err error }

func (c *cut) Error() string { return c.err.Error() }
func (c *cut) Unwrap() error { return c.err }

func isCut(err error) bool {
	_, ok := err.(*cut)
	return ok
}

// Parse parses one complete rules file.
func Parse(source, src string) (*ast.RulesFile, error) {
	s := token.New(source, src)
	file, rest, err := parseRulesFile(s)
	if err != nil {
		return nil, err
	}
	rest = token.SkipWsOrComment(rest)
	if !rest.Done() {
		return nil, rerrors.NewParseError(rest.Pos(), "end of input", "unexpected trailing input %q", firstLine(rest.Remaining()))
	}
	return file, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 40 {
		s = s[:40] + "…"
	}
	return s
}

// --- var_name, access, dotted_access -------------------------------------

func parseVarName(s token.Span) (string, token.Span, error) {
	r, _, ok := s.Peek()
	if !ok || !token.IsLetter(r) {
		return "", s, fmt.Errorf("parser: expected a name at %s", s.Pos())
	}
	end := s
	for {
		r, w, ok := end.Peek()
		if !ok || !token.IsIdentRune(r) {
			break
		}
		end = end.Advance(w)
	}
	name := s.Remaining()[:len(s.Remaining())-len(end.Remaining())]
	return name, end, nil
}

func parseUint(s token.Span) (int32, token.Span, error) {
	end := s
	for {
		r, w, ok := end.Peek()
		if !ok || !token.IsDigit(r) {
			break
		}
		end = end.Advance(w)
	}
	text := s.Remaining()[:len(s.Remaining())-len(end.Remaining())]
	if text == "" {
		return 0, s, fmt.Errorf("parser: expected digits at %s", s.Pos())
	}
	var n int32
	for _, r := range text {
		n = n*10 + int32(r-'0')
	}
	return n, end, nil
}

// access = ('%' var_name | var_name) dotted_access?
//
// Beyond the literal grammar, each segment (the head and every dotted part)
// may be followed directly by a bracket suffix `[*]`, `[N]`, or `[ clauses
// ]`. spec.md §4.3 does not spell this out, but §4.4's Filter semantics and
// the worked example in §8 (S2) require it; this is resolved in DESIGN.md as
// an intentional extension grounded on the bracket/predicate notation of the
// original implementation's query language.
func parseAccess(s token.Span) (ast.Query, token.Span, error) {
	var q ast.Query
	r, w, ok := s.Peek()
	if !ok {
		return nil, s, fmt.Errorf("parser: expected an access at %s", s.Pos())
	}
	if r == '%' {
		name, next, err := parseVarName(s.Advance(w))
		if err != nil {
			return nil, s, err
		}
		q = append(q, ast.VarRef{Name: name})
		s = next
	} else {
		name, next, err := parseVarName(s)
		if err != nil {
			return nil, s, err
		}
		q = append(q, ast.Key{Name: name})
		s = next
	}
	s = appendBracketSuffix(&q, s)
	for {
		r, w, ok := s.Peek()
		if !ok || r != '.' {
			break
		}
		after := s.Advance(w)
		part, next, err := parseDottedPart(after)
		if err != nil {
			break
		}
		q = append(q, part)
		s = appendBracketSuffix(&q, next)
	}
	return q, s, nil
}

func parseDottedPart(s token.Span) (ast.QueryPart, token.Span, error) {
	r, w, ok := s.Peek()
	if !ok {
		return nil, s, fmt.Errorf("parser: expected a dotted-access part at %s", s.Pos())
	}
	switch {
	case r == '%':
		name, next, err := parseVarName(s.Advance(w))
		if err != nil {
			return nil, s, err
		}
		return ast.VarRef{Name: name}, next, nil
	case r == '*':
		return ast.AllValues{}, s.Advance(w), nil
	case token.IsDigit(r):
		n, next, err := parseUint(s)
		if err != nil {
			return nil, s, err
		}
		return ast.Index{Value: n}, next, nil
	case token.IsLetter(r):
		name, next, err := parseVarName(s)
		if err != nil {
			return nil, s, err
		}
		return ast.Key{Name: name}, next, nil
	default:
		return nil, s, fmt.Errorf("parser: unexpected %q in dotted access at %s", r, s.Pos())
	}
}

// appendBracketSuffix parses zero or one `[...]` suffix directly following
// the current position (no intervening whitespace, matching property
// access syntax) and appends the resulting QueryPart to q. It never fails:
// absence of a bracket is not an error, it just returns s unchanged.
func appendBracketSuffix(q *ast.Query, s token.Span) token.Span {
	r, w, ok := s.Peek()
	if !ok || r != '[' {
		return s
	}
	inner := token.SkipWsOrComment(s.Advance(w))
	if r2, w2, ok2 := inner.Peek(); ok2 && r2 == '*' {
		after := token.SkipWsOrComment(inner.Advance(w2))
		if r3, w3, ok3 := after.Peek(); ok3 && r3 == ']' {
			*q = append(*q, ast.AllIndices{})
			return after.Advance(w3)
		}
		return s
	}
	if r2, _, ok2 := inner.Peek(); ok2 && token.IsDigit(r2) {
		n, after, err := parseUint(inner)
		if err == nil {
			after = token.SkipWsOrComment(after)
			if r3, w3, ok3 := after.Peek(); ok3 && r3 == ']' {
				*q = append(*q, ast.Index{Value: n})
				return after.Advance(w3)
			}
		}
		return s
	}
	conj, after, err := parseFilterConjunctions(inner)
	if err != nil {
		return s
	}
	after = token.SkipWsOrComment(after)
	r3, w3, ok3 := after.Peek()
	if !ok3 || r3 != ']' {
		return s
	}
	*q = append(*q, ast.Filter{Conjunctions: conj})
	return after.Advance(w3)
}

// parseFilterConjunctions parses the clause list inside a `[...]` filter. A
// clause here may omit its access/LHS entirely, which implicitly refers to
// the element currently being filtered — the KEYS-meta clauses in S2's
// example (`[ KEYS == /…/ ]`) have no LHS query at all.
func parseFilterConjunctions(s token.Span) ([]ast.ConjunctionClause, token.Span, error) {
	return parseClausesUntil(s, false, stopAtBracket)
}

// --- not, comparators -----------------------------------------------------

func parseNot(s token.Span) (bool, token.Span) {
	if s.HasPrefix("not") {
		after := s.Advance(3)
		if ws, ok := token.SkipWsOrComment1(after); ok {
			return true, ws
		}
	}
	if s.HasPrefix("NOT") {
		after := s.Advance(3)
		if ws, ok := token.SkipWsOrComment1(after); ok {
			return true, ws
		}
	}
	if s.HasPrefix("!") {
		return true, s.Advance(1)
	}
	return false, s
}

func parseBinaryCmp(s token.Span) (ast.Comparator, token.Span, bool) {
	type tok struct {
		text string
		cmp  ast.Comparator
	}
	if s.HasPrefix("NOT") {
		after := s.Advance(3)
		if ws, ok := token.SkipWsOrComment1(after); ok && ws.HasPrefix("IN") {
			return ast.NotIn, ws.Advance(2), true
		}
	}
	toks := []tok{
		{"==", ast.Eq}, {"!=", ast.Ne}, {">=", ast.Ge}, {"<=", ast.Le},
		{"!IN", ast.NotIn}, {"IN", ast.In}, {">", ast.Gt}, {"<", ast.Lt},
	}
	for _, t := range toks {
		if s.HasPrefix(t.text) {
			return t.cmp, s.Advance(len(t.text)), true
		}
	}
	return 0, s, false
}

func parseUnaryCmp(s token.Span) (ast.Comparator, token.Span, bool) {
	if s.HasPrefix("EXISTS") {
		return ast.Exists, s.Advance(6), true
	}
	if s.HasPrefix("EMPTY") {
		return ast.Empty, s.Advance(5), true
	}
	negate, after := parseNot(s)
	if !negate {
		return 0, s, false
	}
	inner, next, ok := parseUnaryCmp(after)
	if !ok {
		return 0, s, false
	}
	switch inner {
	case ast.Exists:
		return ast.NotExists, next, true
	case ast.Empty:
		return ast.NotEmpty, next, true
	case ast.NotExists:
		return ast.Exists, next, true
	case ast.NotEmpty:
		return ast.Empty, next, true
	default:
		return 0, s, false
	}
}

// parseCmp parses cmp = binary_cmp | unary_cmp | keys_cmp, returning the
// comparator and whether the KEYS meta-prefix was present.
func parseCmp(s token.Span) (ast.Comparator, bool, token.Span, bool) {
	if s.HasPrefix("KEYS") {
		after := s.Advance(4)
		if ws, ok := token.SkipWsOrComment1(after); ok {
			if c, next, ok := parseBinaryCmp(ws); ok {
				return c, true, next, true
			}
			if c, next, ok := parseUnaryCmp(ws); ok {
				return c, true, next, true
			}
		}
		return 0, false, s, false
	}
	if c, next, ok := parseBinaryCmp(s); ok {
		return c, false, next, true
	}
	if c, next, ok := parseUnaryCmp(s); ok {
		return c, false, next, true
	}
	return 0, false, s, false
}

// --- message ----------------------------------------------------------

func parseMessage(s token.Span) (string, token.Span, bool) {
	if !s.HasPrefix("<<") {
		return "", s, false
	}
	after := s.Advance(2)
	rest := after.Remaining()
	i := strings.Index(rest, ">>")
	if i < 0 {
		return "", s, false
	}
	return rest[:i], after.Advance(i + 2), true
}

// --- clause, rule_clause ---------------------------------------------

// parseClause implements:
//
//	clause = not? access WS+ cmp (WS+ (access | literal))? WS* message?
func parseClause(s token.Span) (*ast.AccessClause, token.Span, error) {
	return parseClauseWithAccess(s, true)
}

// parseClauseWithAccess parses a clause; if requireAccess is false, a
// missing access/LHS is tolerated and treated as an implicit reference to
// the value currently in scope (used inside filter brackets, e.g. the bare
// `KEYS == /…/` of S2). "KEYS" and the unary keywords are reserved: when an
// access is not required, a bare comparator is tried before an explicit
// access, so `KEYS` is never misread as a field named "KEYS".
func parseClauseWithAccess(s token.Span, requireAccess bool) (*ast.AccessClause, token.Span, error) {
	start := s.Pos()
	negate, s1 := parseNot(s)

	if !requireAccess {
		if cmp, keys, afterCmp, ok := parseCmp(s1); ok {
			return finishClause(start, negate, nil, cmp, keys, afterCmp)
		}
	}

	lhs, next, err := parseAccess(s1)
	if err != nil {
		return nil, s, err
	}
	ws, ok := token.SkipWsOrComment1(next)
	if !ok {
		return nil, s, fmt.Errorf("parser: expected whitespace before comparator at %s", next.Pos())
	}
	cmp, keys, afterCmp, ok := parseCmp(ws)
	if !ok {
		return nil, s, fmt.Errorf("parser: expected a comparator at %s", ws.Pos())
	}
	return finishClause(start, negate, lhs, cmp, keys, afterCmp)
}

// finishClause parses the part of a clause that follows a committed
// comparator: the optional right-hand side and message. Once called, any
// failure to find a required right-hand side is a hard cut (spec.md §4.3).
func finishClause(start token.Position, negate bool, lhs ast.Query, cmp ast.Comparator, keys bool, afterCmp token.Span) (*ast.AccessClause, token.Span, error) {
	clause := &ast.AccessClause{LHS: lhs, Cmp: cmp, Keys: keys, Negate: negate, Loc: start}

	rest := afterCmp
	if !cmp.IsUnary() {
		rhsWs, ok := token.SkipWsOrComment1(afterCmp)
		if !ok {
			return nil, afterCmp, &cut{rerrors.NewParseError(afterCmp.Pos(), "right-hand side", "comparator %s requires a right-hand side", cmp)}
		}
		if v, next, err := literal.ParseValue(rhsWs); err == nil {
			clause.RHS = ast.LiteralRHS{Value: v}
			rest = next
		} else if q, next, qerr := parseAccess(rhsWs); qerr == nil {
			clause.RHS = ast.QueryRHS{Query: q}
			rest = next
		} else {
			return nil, afterCmp, &cut{rerrors.NewParseError(rhsWs.Pos(), "right-hand side", "comparator %s requires a right-hand side: %v", cmp, err)}
		}
	}

	if msg, next, ok := parseMessage(token.SkipWsOrComment(rest)); ok {
		clause.Message = msg
		rest = next
	}
	return clause, rest, nil
}

// parseRuleClause implements:
//
//	rule_clause = not? var_name (WS* message)?
//
// accepted only if what follows is a newline, comment, `or`-join, closing
// brace, or end of input — anything else means the identifier was really the
// start of an access-clause LHS, and the caller should use parseClause
// instead.
func parseRuleClause(s token.Span) (*ast.NamedRuleRef, token.Span, error) {
	start := s.Pos()
	negate, s1 := parseNot(s)
	name, next, err := parseVarName(s1)
	if err != nil {
		return nil, s, err
	}
	ref := &ast.NamedRuleRef{Name: name, Negate: negate, Loc: start}

	lookahead := token.SkipWsOrComment(next)
	if msg, after, ok := parseMessage(lookahead); ok {
		ref.Message = msg
		next = after
	}
	if !followsAsRuleClause(next) {
		return nil, s, fmt.Errorf("parser: %q is not a rule reference at %s", name, next.Pos())
	}
	return ref, next, nil
}

func followsAsRuleClause(s token.Span) bool {
	for !s.Done() {
		if r, _, _ := s.Peek(); r != ' ' && r != '\t' {
			break
		}
		s = s.Advance(1)
	}
	if s.Done() {
		return true
	}
	if r, _, _ := s.Peek(); r == '\n' || r == '\r' || r == '#' || r == '}' || r == ']' {
		return true
	}
	if s.HasPrefix("or") || s.HasPrefix("OR") || s.HasPrefix("|OR|") {
		return true
	}
	return false
}

func parseClauseOrRuleClause(s token.Span, requireAccess bool) (ast.Clause, token.Span, error) {
	if clause, next, err := parseClauseWithAccess(s, requireAccess); err == nil {
		return clause, next, nil
	} else if isCut(err) {
		return nil, s, err
	}
	ref, next, err := parseRuleClause(s)
	if err != nil {
		return nil, s, err
	}
	return ref, next, nil
}

// --- or_join, conjunctions, clauses -----------------------------------

func parseOrJoin(s token.Span) (token.Span, bool) {
	ws, ok := token.SkipWsOrComment1(s)
	if !ok {
		return s, false
	}
	for _, kw := range []string{"|OR|", "or", "OR"} {
		if ws.HasPrefix(kw) {
			after := ws.Advance(len(kw))
			if ws2, ok := token.SkipWsOrComment1(after); ok {
				return ws2, true
			}
		}
	}
	return s, false
}

// parseConjunctionClause parses one OR-joined group:
//
//	(clause|rule_clause) ( or_join (clause|rule_clause) )*
func parseConjunctionClause(s token.Span, requireAccess bool) (*ast.ConjunctionClause, token.Span, error) {
	first, next, err := parseClauseOrRuleClause(s, requireAccess)
	if err != nil {
		return nil, s, err
	}
	group := &ast.ConjunctionClause{Clauses: []ast.Clause{first}}
	for {
		afterOr, ok := parseOrJoin(next)
		if !ok {
			break
		}
		clause, after, err := parseClauseOrRuleClause(afterOr, requireAccess)
		if err != nil {
			if isCut(err) {
				return nil, s, err
			}
			break
		}
		group.Clauses = append(group.Clauses, clause)
		next = after
	}
	return group, next, nil
}

// parseClausesUntil parses a run of AND-joined conjunction groups, stopping
// when stop(s) reports true (end of input, a closing brace, or a closing
// bracket, depending on context). requireAccess is forwarded to every
// clause: false inside a filter bracket, where a clause's LHS may be
// omitted to mean "the value currently being filtered".
func parseClausesUntil(s token.Span, requireAccess bool, stop func(token.Span) bool) ([]ast.ConjunctionClause, token.Span, error) {
	var out []ast.ConjunctionClause
	cur := token.SkipWsOrComment(s)
	for {
		if stop(cur) {
			return out, cur, nil
		}
		group, next, err := parseConjunctionClause(cur, requireAccess)
		if err != nil {
			if isCut(err) {
				return nil, cur, err
			}
			if len(out) == 0 {
				return nil, cur, err
			}
			return out, cur, nil
		}
		out = append(out, *group)
		cur = token.SkipWsOrComment(next)
	}
}

func stopAtBrace(s token.Span) bool {
	r, _, ok := s.Peek()
	return !ok || r == '}'
}

func stopAtEOF(s token.Span) bool {
	return s.Done()
}

func stopAtBracket(s token.Span) bool {
	r, _, ok := s.Peek()
	return !ok || r == ']'
}

// --- assignment, when_cond, type_block, named_rule, rules_file --------

// assignment = "let" WS+ var_name WS* (":="|"=") WS* (access | literal)
func parseAssignment(s token.Span) (*ast.Assignment, token.Span, error) {
	start := s.Pos()
	if !s.HasPrefix("let") {
		return nil, s, fmt.Errorf("parser: expected 'let' at %s", s.Pos())
	}
	ws, ok := token.SkipWsOrComment1(s.Advance(3))
	if !ok {
		return nil, s, fmt.Errorf("parser: expected whitespace after 'let' at %s", s.Pos())
	}
	name, next, err := parseVarName(ws)
	if err != nil {
		return nil, s, err
	}
	next = token.SkipWsOrComment(next)
	if next.HasPrefix(":=") {
		next = next.Advance(2)
	} else if next.HasPrefix("=") {
		next = next.Advance(1)
	} else {
		return nil, s, fmt.Errorf("parser: expected ':=' or '=' at %s", next.Pos())
	}
	next = token.SkipWsOrComment(next)

	a := &ast.Assignment{Name: name, Loc: start}
	if q, after, err := parseAccess(next); err == nil {
		a.Query = q
		return a, after, nil
	}
	v, after, err := literal.ParseValue(next)
	if err != nil {
		return nil, s, fmt.Errorf("parser: invalid assignment value for %q at %s: %w", name, next.Pos(), err)
	}
	a.Value = v
	return a, after, nil
}

// when_cond = "when" clauses
func parseWhenCond(s token.Span, stop func(token.Span) bool) ([]ast.ConjunctionClause, token.Span, bool) {
	if !s.HasPrefix("when") {
		return nil, s, false
	}
	ws, ok := token.SkipWsOrComment1(s.Advance(4))
	if !ok {
		return nil, s, false
	}
	conj, next, err := parseClausesUntil(ws, true, stop)
	if err != nil || len(conj) == 0 {
		return nil, s, false
	}
	return conj, next, true
}

func stopAtBraceOrWhenNotFollowed(s token.Span) bool {
	r, _, ok := s.Peek()
	return !ok || r == '{'
}

// TypeName is a resource/document type selector, e.g. AWS::EC2::Volume. It
// is lexically letters, digits, underscore, '.', ':' and '*'.
func parseTypeName(s token.Span) (string, token.Span, error) {
	r, _, ok := s.Peek()
	if !ok || !(token.IsLetter(r) || r == '*') {
		return "", s, fmt.Errorf("parser: expected a type name at %s", s.Pos())
	}
	end := s
	for {
		r, w, ok := end.Peek()
		if !ok || !(token.IsIdentRune(r) || r == ':' || r == '.' || r == '*') {
			break
		}
		end = end.Advance(w)
	}
	name := s.Remaining()[:len(s.Remaining())-len(end.Remaining())]
	return name, end, nil
}

// type_block = TypeName WS* when_cond? "{" clauses "}"
func parseTypeBlock(s token.Span) (*ast.TypeBlock, token.Span, error) {
	start := s.Pos()
	name, next, err := parseTypeName(s)
	if err != nil {
		return nil, s, err
	}
	next = token.SkipWsOrComment(next)
	when, next2, hasWhen := parseWhenCond(next, stopAtBraceOrWhenNotFollowed)
	if hasWhen {
		next = token.SkipWsOrComment(next2)
	}
	if r, _, ok := next.Peek(); !ok || r != '{' {
		return nil, s, fmt.Errorf("parser: %q is not a type block at %s", name, next.Pos())
	}
	next = next.Advance(1)
	body, next, err := parseClausesUntil(next, true, stopAtBrace)
	if err != nil {
		return nil, s, err
	}
	next = token.SkipWsOrComment(next)
	if r, _, ok := next.Peek(); !ok || r != '}' {
		return nil, s, fmt.Errorf("parser: unterminated type block %q at %s", name, next.Pos())
	}
	return &ast.TypeBlock{TypeName: name, When: when, Body: body, Loc: start}, next.Advance(1), nil
}

// named_rule = "rule" WS+ var_name WS* when_cond? "{" (assignment|clauses|type_block|…) "}"
func parseNamedRule(s token.Span) (*ast.Rule, token.Span, error) {
	start := s.Pos()
	if !s.HasPrefix("rule") {
		return nil, s, fmt.Errorf("parser: expected 'rule' at %s", s.Pos())
	}
	ws, ok := token.SkipWsOrComment1(s.Advance(4))
	if !ok {
		return nil, s, fmt.Errorf("parser: expected whitespace after 'rule' at %s", s.Pos())
	}
	name, next, err := parseVarName(ws)
	if err != nil {
		return nil, s, err
	}
	next = token.SkipWsOrComment(next)
	when, next2, hasWhen := parseWhenCond(next, stopAtBraceOrWhenNotFollowed)
	if hasWhen {
		next = token.SkipWsOrComment(next2)
	}
	if r, _, ok := next.Peek(); !ok || r != '{' {
		return nil, s, fmt.Errorf("parser: expected '{' to open rule %q at %s", name, next.Pos())
	}
	next = next.Advance(1)

	var body []ast.RuleItem
	cur := token.SkipWsOrComment(next)
	for !stopAtBrace(cur) {
		if a, after, err := parseAssignment(cur); err == nil {
			body = append(body, a)
			cur = token.SkipWsOrComment(after)
			continue
		}
		if tb, after, err := parseTypeBlock(cur); err == nil {
			body = append(body, tb)
			cur = token.SkipWsOrComment(after)
			continue
		}
		group, after, err := parseConjunctionClause(cur, true)
		if err != nil {
			if isCut(err) {
				return nil, s, err
			}
			return nil, s, fmt.Errorf("parser: invalid rule body in %q at %s: %w", name, cur.Pos(), err)
		}
		body = append(body, *group)
		cur = token.SkipWsOrComment(after)
	}
	return &ast.Rule{Name: name, When: when, Body: body, Loc: start}, cur.Advance(1), nil
}

// rules_file = ( assignment | named_rule | type_block | clauses )*
func parseRulesFile(s token.Span) (*ast.RulesFile, token.Span, error) {
	file := &ast.RulesFile{}
	cur := token.SkipWsOrComment(s)
	for !stopAtEOF(cur) {
		if a, after, err := parseAssignment(cur); err == nil {
			file.Items = append(file.Items, a)
			cur = token.SkipWsOrComment(after)
			continue
		}
		if r, after, err := parseNamedRule(cur); err == nil {
			file.Items = append(file.Items, r)
			cur = token.SkipWsOrComment(after)
			continue
		}
		if tb, after, err := parseTypeBlock(cur); err == nil {
			file.Items = append(file.Items, tb)
			cur = token.SkipWsOrComment(after)
			continue
		}
		group, after, err := parseConjunctionClause(cur, true)
		if err != nil {
			if isCut(err) {
				return nil, cur, err
			}
			return nil, cur, rerrors.NewParseError(cur.Pos(), "top-level declaration", "expected an assignment, rule, type block, or clause: %v", err)
		}
		file.Items = append(file.Items, *group)
		cur = token.SkipWsOrComment(after)
	}
	return file, cur, nil
}
