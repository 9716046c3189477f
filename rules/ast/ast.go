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

// Package ast declares the types used to represent the rule-language syntax
// tree described in spec.md §3 and §4.3. Every node records a Location so
// that parse errors and evaluation reports can point back at source text,
// following the same "nodes never lose their position" discipline the
// teacher's cue/ast package uses for CUE source.
package ast

import (
	"fmt"
	"strings"

	"github.com/docrules/docrules/token"
	"github.com/docrules/docrules/value"
)

// Location is where in rule source a node began.
type Location = token.Position

// QueryPart is one navigation step in a Query (spec.md §3).
type QueryPart interface {
	isQueryPart()
}

// Key names a map field, or — when applied to a list — a numeric index
// written as a bare identifier (spec.md's documented dual interpretation).
type Key struct{ Name string }

func (Key) isQueryPart() {}

// Index selects a list element by position.
type Index struct{ Value int32 }

func (Index) isQueryPart() {}

// AllIndices selects every element of a list.
type AllIndices struct{}

func (AllIndices) isQueryPart() {}

// AllValues selects every element of a list, or every value of a map.
type AllValues struct{}

func (AllValues) isQueryPart() {}

// MapKeys selects a map's KEYS list instead of its values.
type MapKeys struct{}

func (MapKeys) isQueryPart() {}

// Filter selects only the elements for which the nested conjunctions
// evaluate to PASS.
type Filter struct{ Conjunctions []ConjunctionClause }

func (Filter) isQueryPart() {}

// VarRef dereferences a named variable (`%name`) bound by an assignment.
type VarRef struct{ Name string }

func (VarRef) isQueryPart() {}

// Query is an ordered list of navigation steps from a root value.
type Query []QueryPart

func (q Query) String() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('.')
		}
		switch x := p.(type) {
		case Key:
			b.WriteString(x.Name)
		case Index:
			fmt.Fprintf(&b, "%d", x.Value)
		case AllIndices:
			b.WriteString("*")
		case AllValues:
			b.WriteString("*")
		case MapKeys:
			b.WriteString("KEYS")
		case Filter:
			b.WriteString("[...]")
		case VarRef:
			fmt.Fprintf(&b, "%%%s", x.Name)
		}
	}
	return b.String()
}

// Comparator is a clause's comparison operator (spec.md §3).
type Comparator int

const (
	Eq Comparator = iota
	Ne
	Lt
	Le
	Gt
	Ge
	In
	NotIn
	Exists
	NotExists
	Empty
	NotEmpty
)

func (c Comparator) String() string {
	switch c {
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case In:
		return "IN"
	case NotIn:
		return "NOT IN"
	case Exists:
		return "EXISTS"
	case NotExists:
		return "!EXISTS"
	case Empty:
		return "EMPTY"
	case NotEmpty:
		return "!EMPTY"
	default:
		return "?"
	}
}

// IsUnary reports whether the comparator takes no right-hand side.
func (c Comparator) IsUnary() bool {
	return c == Exists || c == NotExists || c == Empty || c == NotEmpty
}

// RHS is an AccessClause's optional right-hand side: either another query or
// a literal value.
type RHS interface{ isRHS() }

type QueryRHS struct{ Query Query }

func (QueryRHS) isRHS() {}

type LiteralRHS struct{ Value value.Value }

func (LiteralRHS) isRHS() {}

// Clause is one of AccessClause, NamedRuleRef, or TypeBlock.
type Clause interface {
	isClause()
	Location() Location
}

// AccessClause compares a query's resolved value(s) against an optional
// right-hand side.
type AccessClause struct {
	LHS     Query
	Keys    bool // KEYS meta-modifier: compare against the map's key list
	Cmp     Comparator
	RHS     RHS // nil for unary comparators
	Message string
	Negate  bool
	Loc     Location
}

func (*AccessClause) isClause()          {}
func (c *AccessClause) Location() Location { return c.Loc }

// NamedRuleRef invokes a previously declared named rule.
type NamedRuleRef struct {
	Name    string
	Negate  bool
	Message string
	Loc     Location
}

func (*NamedRuleRef) isClause()          {}
func (c *NamedRuleRef) Location() Location { return c.Loc }

// TypeBlock scopes nested clauses to every sub-value whose `Type` field
// equals TypeName.
type TypeBlock struct {
	TypeName string
	When     []ConjunctionClause // optional; empty means no when-condition
	Body     []ConjunctionClause
	Loc      Location
}

func (*TypeBlock) isClause()          {}
func (c *TypeBlock) Location() Location { return c.Loc }

// ConjunctionClause is either a single clause (AND-joined with siblings) or
// a non-empty list of clauses joined by OR.
type ConjunctionClause struct {
	Clauses []Clause // len==1: plain AND member; len>1: OR-joined group
}

// Assignment binds a name to a literal value or an unresolved query,
// evaluated lazily by the scope (spec.md §3).
type Assignment struct {
	Name  string
	Value value.Value // nil if Query is set
	Query Query       // nil if Value is set
	Loc   Location
}

// RuleItem is one declaration inside a named rule's body: an Assignment, a
// ConjunctionClause, or a nested TypeBlock.
type RuleItem interface{ isRuleItem() }

func (*Assignment) isRuleItem()       {}
func (ConjunctionClause) isRuleItem() {}
func (*TypeBlock) isRuleItem()        {}

// Rule is a named, reusable group of clauses.
type Rule struct {
	Name  string
	When  []ConjunctionClause // optional
	Body  []RuleItem
	Loc   Location
}

// TopLevelItem is one declaration at file scope: an Assignment, a Rule, a
// TypeBlock, or a bare ConjunctionClause (spec.md's rules_file production
// allows all four at the top level).
type TopLevelItem interface{ isTopLevelItem() }

func (*Assignment) isTopLevelItem()       {}
func (*Rule) isTopLevelItem()             {}
func (*TypeBlock) isTopLevelItem()        {}
func (ConjunctionClause) isTopLevelItem() {}

// RulesFile is the parsed result of one rule-source file: an ordered list of
// top-level assignments, an ordered list of named rules, and preserves full
// file order in Items for anything that needs it (e.g. a future formatter).
type RulesFile struct {
	Items []TopLevelItem
}

// Assignments returns the file's top-level assignments in declaration order.
func (f *RulesFile) Assignments() []*Assignment {
	var out []*Assignment
	for _, it := range f.Items {
		if a, ok := it.(*Assignment); ok {
			out = append(out, a)
		}
	}
	return out
}

// Rules returns the file's named rules in declaration order.
func (f *RulesFile) Rules() []*Rule {
	var out []*Rule
	for _, it := range f.Items {
		if r, ok := it.(*Rule); ok {
			out = append(out, r)
		}
	}
	return out
}

// RuleByName looks up a named rule declared in this file.
func (f *RulesFile) RuleByName(name string) (*Rule, bool) {
	for _, r := range f.Rules() {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}
