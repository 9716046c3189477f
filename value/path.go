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

// Package value implements the dynamic, path-aware value model described in
// spec.md §3: a tagged sum of scalar/list/map/regex/range variants, plus a
// path-carrying wrapper used to give every node in a document its absolute
// position for reporting.
package value

import "strconv"

// Path is an absolute pointer into a document: a sequence of tokens joined
// by '/'. The root path is the empty string. Paths are treated as opaque
// strings for comparison and display, constructed only by Append/AppendIndex
// or by another Path.
type Path string

// Root is the empty path, pointing at the document root.
const Root Path = ""

// Append returns the path extended with a map key.
func (p Path) Append(key string) Path {
	return p + "/" + Path(key)
}

// AppendIndex returns the path extended with a list index, expressed as its
// decimal string per spec.md §3.
func (p Path) AppendIndex(i int) Path {
	return p.Append(strconv.Itoa(i))
}

// AppendValue extends the path using a computed value, which must be a
// string (spec.md §12, "Path.extend_with_value"). Used by filter clauses
// that key into a map using a dynamically selected sub-value.
func (p Path) AppendValue(v Value) (Path, error) {
	s, ok := v.(Str)
	if !ok {
		return "", incompatiblePathExtension(v)
	}
	return p.Append(string(s)), nil
}

func (p Path) String() string { return string(p) }
