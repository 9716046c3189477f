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

// Kind tags which variant of the dynamic-value sum a Value or
// PathAwareValue holds. The design deliberately avoids an inheritance
// hierarchy: every operation that needs to branch on kind does so with an
// exhaustive type switch over the concrete variant types below, guided by
// Kind only for fast dispatch or error messages.
type Kind int

const (
	NullKind Kind = iota
	StringKind
	RegexKind
	BoolKind
	IntKind
	FloatKind
	CharKind
	ListKind
	MapKind
	RangeIntKind
	RangeFloatKind
	RangeCharKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "Null"
	case StringKind:
		return "String"
	case RegexKind:
		return "Regex"
	case BoolKind:
		return "Bool"
	case IntKind:
		return "Int"
	case FloatKind:
		return "Float"
	case CharKind:
		return "Char"
	case ListKind:
		return "List"
	case MapKind:
		return "Map"
	case RangeIntKind:
		return "RangeInt"
	case RangeFloatKind:
		return "RangeFloat"
	case RangeCharKind:
		return "RangeChar"
	default:
		return "Unknown"
	}
}

// IsScalar reports whether a kind is neither list nor map. The source
// implementation's "is_scalar" predicate was a tautology
// (!is_list() || !is_map()`); spec.md §9 calls out the fix: scalar-ness is
// "neither list nor map" (!(is_list || is_map)).
func (k Kind) IsScalar() bool {
	return k != ListKind && k != MapKind
}
