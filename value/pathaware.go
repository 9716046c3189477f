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

package value

import (
	"fmt"
	"math"
)

// PathAwareValue is the document-tree counterpart of Value: the same tagged
// sum, but every node additionally carries its absolute Path. It is built
// once from a decoded document (see FromNative) and is immutable afterward;
// the query resolver and evaluator only ever read it.
type PathAwareValue interface {
	Kind() Kind
	Path() Path
	isPathAwareValue()
}

type PNull struct{ path Path }

func (v PNull) Kind() Kind          { return NullKind }
func (v PNull) Path() Path          { return v.path }
func (PNull) isPathAwareValue()     {}

type PString struct {
	path Path
	Val  string
}

func (v PString) Kind() Kind      { return StringKind }
func (v PString) Path() Path      { return v.path }
func (PString) isPathAwareValue() {}

type PRegex struct {
	path Path
	Val  string
}

func (v PRegex) Kind() Kind      { return RegexKind }
func (v PRegex) Path() Path      { return v.path }
func (PRegex) isPathAwareValue() {}

type PBool struct {
	path Path
	Val  bool
}

func (v PBool) Kind() Kind      { return BoolKind }
func (v PBool) Path() Path      { return v.path }
func (PBool) isPathAwareValue() {}

type PInt struct {
	path Path
	Val  int64
}

func (v PInt) Kind() Kind      { return IntKind }
func (v PInt) Path() Path      { return v.path }
func (PInt) isPathAwareValue() {}

type PFloat struct {
	path Path
	Val  float64
}

func (v PFloat) Kind() Kind      { return FloatKind }
func (v PFloat) Path() Path      { return v.path }
func (PFloat) isPathAwareValue() {}

type PChar struct {
	path Path
	Val  rune
}

func (v PChar) Kind() Kind      { return CharKind }
func (v PChar) Path() Path      { return v.path }
func (PChar) isPathAwareValue() {}

type PList struct {
	path Path
	Elem []PathAwareValue
}

func (v PList) Kind() Kind      { return ListKind }
func (v PList) Path() Path      { return v.path }
func (PList) isPathAwareValue() {}

// PMap is a map node. Keys carries the map's keys re-expressed as string
// PathAwareValues in insertion order — this is what a KEYS query matches
// against (spec.md §3).
type PMap struct {
	path   Path
	keys   []string
	Keys   []PathAwareValue
	values map[string]PathAwareValue
}

func (v PMap) Kind() Kind      { return MapKind }
func (v PMap) Path() Path      { return v.path }
func (PMap) isPathAwareValue() {}

// Get looks up key, preserving map semantics for the query resolver.
func (v PMap) Get(key string) (PathAwareValue, bool) {
	pv, ok := v.values[key]
	return pv, ok
}

// OrderedKeys returns the map's keys in insertion order.
func (v PMap) OrderedKeys() []string { return v.keys }

// Values returns the map's values in insertion order.
func (v PMap) Values() []PathAwareValue {
	out := make([]PathAwareValue, 0, len(v.keys))
	for _, k := range v.keys {
		out = append(out, v.values[k])
	}
	return out
}

func (v PMap) Len() int { return len(v.keys) }

type PRangeInt struct {
	path Path
	Val  RangeInt
}

func (v PRangeInt) Kind() Kind      { return RangeIntKind }
func (v PRangeInt) Path() Path      { return v.path }
func (PRangeInt) isPathAwareValue() {}

type PRangeFloat struct {
	path Path
	Val  RangeFloat
}

func (v PRangeFloat) Kind() Kind      { return RangeFloatKind }
func (v PRangeFloat) Path() Path      { return v.path }
func (PRangeFloat) isPathAwareValue() {}

type PRangeChar struct {
	path Path
	Val  RangeChar
}

func (v PRangeChar) Kind() Kind      { return RangeCharKind }
func (v PRangeChar) Path() Path      { return v.path }
func (PRangeChar) isPathAwareValue() {}

// IsList reports whether v is a list node.
func IsList(v PathAwareValue) bool { _, ok := v.(PList); return ok }

// IsMap reports whether v is a map node.
func IsMap(v PathAwareValue) bool { _, ok := v.(PMap); return ok }

// IsScalar reports whether v is neither a list nor a map.
func IsScalar(v PathAwareValue) bool { return v.Kind().IsScalar() }

// FromValue builds a PathAwareValue tree from a parsed literal Value,
// rooted at path. Used when a clause's right-hand side is a composite
// literal (a list/map/range written directly in rule source) that needs a
// path for error messages even though it did not come from the document.
func FromValue(v Value, path Path) (PathAwareValue, error) {
	switch x := v.(type) {
	case Null:
		return PNull{path: path}, nil
	case Str:
		return PString{path: path, Val: string(x)}, nil
	case Regex:
		return PRegex{path: path, Val: string(x)}, nil
	case Bool:
		return PBool{path: path, Val: bool(x)}, nil
	case Int:
		return PInt{path: path, Val: int64(x)}, nil
	case Float:
		return PFloat{path: path, Val: float64(x)}, nil
	case Char:
		return PChar{path: path, Val: rune(x)}, nil
	case RangeInt:
		return PRangeInt{path: path, Val: x}, nil
	case RangeFloat:
		return PRangeFloat{path: path, Val: x}, nil
	case RangeChar:
		return PRangeChar{path: path, Val: x}, nil
	case List:
		elems := make([]PathAwareValue, 0, len(x))
		for i, e := range x {
			sub, err := FromValue(e, path.AppendIndex(i))
			if err != nil {
				return nil, err
			}
			elems = append(elems, sub)
		}
		return PList{path: path, Elem: elems}, nil
	case *Map:
		return fromValueMap(x, path)
	default:
		return nil, fmt.Errorf("value: unhandled kind %v", v.Kind())
	}
}

func fromValueMap(m *Map, path Path) (PathAwareValue, error) {
	keys := make([]string, 0, m.Len())
	values := make(map[string]PathAwareValue, m.Len())
	pkeys := make([]PathAwareValue, 0, m.Len())
	for _, k := range m.Keys() {
		sub, _ := m.Get(k)
		subPath := path.Append(k)
		pv, err := FromValue(sub, subPath)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		values[k] = pv
		pkeys = append(pkeys, PString{path: subPath, Val: k})
	}
	return PMap{path: path, keys: keys, Keys: pkeys, values: values}, nil
}

// Equal compares two PathAwareValues ignoring their paths: structure and
// scalars only. Float comparison uses partial ordering and fails (reports
// unequal) if either side is NaN, per spec.md §3.
func Equal(a, b PathAwareValue) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case PNull:
		return true
	case PString:
		return x.Val == b.(PString).Val
	case PRegex:
		return x.Val == b.(PRegex).Val
	case PBool:
		return x.Val == b.(PBool).Val
	case PInt:
		return x.Val == b.(PInt).Val
	case PFloat:
		y := b.(PFloat).Val
		if math.IsNaN(x.Val) || math.IsNaN(y) {
			return false
		}
		return x.Val == y
	case PChar:
		return x.Val == b.(PChar).Val
	case PRangeInt:
		return x.Val == b.(PRangeInt).Val
	case PRangeFloat:
		return x.Val == b.(PRangeFloat).Val
	case PRangeChar:
		return x.Val == b.(PRangeChar).Val
	case PList:
		y := b.(PList)
		if len(x.Elem) != len(y.Elem) {
			return false
		}
		for i := range x.Elem {
			if !Equal(x.Elem[i], y.Elem[i]) {
				return false
			}
		}
		return true
	case PMap:
		y := b.(PMap)
		if x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			yv, ok := y.Get(k)
			if !ok || !Equal(x.values[k], yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func incompatiblePathExtension(v Value) error {
	return fmt.Errorf("value: cannot extend path with non-string value of kind %v", v.Kind())
}
