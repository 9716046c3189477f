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
	"sort"
)

// FromNative builds a PathAwareValue tree from a generic dynamic value as
// produced by decoding JSON or YAML into interface{} — the boundary named in
// spec.md §1 and §6 ("Document input... any map-like container with string
// keys and insertion-order iteration is acceptable"). Maps must already
// iterate in insertion order, which is what encoding/json's token-by-token
// decoder and gopkg.in/yaml.v3's node-based decoder both provide when fed
// through docload (see the docload package).
func FromNative(doc interface{}, path Path) (PathAwareValue, error) {
	switch x := doc.(type) {
	case nil:
		return PNull{path: path}, nil
	case string:
		return PString{path: path, Val: x}, nil
	case bool:
		return PBool{path: path, Val: x}, nil
	case int:
		return PInt{path: path, Val: int64(x)}, nil
	case int64:
		return PInt{path: path, Val: x}, nil
	case float64:
		if i := int64(x); float64(i) == x {
			return PInt{path: path, Val: i}, nil
		}
		return PFloat{path: path, Val: x}, nil
	case []interface{}:
		elems := make([]PathAwareValue, 0, len(x))
		for i, e := range x {
			sub, err := FromNative(e, path.AppendIndex(i))
			if err != nil {
				return nil, err
			}
			elems = append(elems, sub)
		}
		return PList{path: path, Elem: elems}, nil
	case OrderedMap:
		return fromOrderedMap(x, path)
	case map[string]interface{}:
		return fromOrderedMap(orderedFromUnordered(x), path)
	default:
		return nil, fmt.Errorf("value: unsupported native type %T at %s", doc, path)
	}
}

// OrderedMap is the insertion-order-preserving representation docload
// produces when decoding a document, so that map iteration honors spec.md
// §3's "Map values iterate in insertion order" invariant even though Go's
// built-in map type does not.
type OrderedMap struct {
	Keys   []string
	Values map[string]interface{}
}

func fromOrderedMap(m OrderedMap, path Path) (PathAwareValue, error) {
	keys := make([]string, 0, len(m.Keys))
	values := make(map[string]PathAwareValue, len(m.Keys))
	pkeys := make([]PathAwareValue, 0, len(m.Keys))
	for _, k := range m.Keys {
		subPath := path.Append(k)
		pv, err := FromNative(m.Values[k], subPath)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		values[k] = pv
		pkeys = append(pkeys, PString{path: subPath, Val: k})
	}
	return PMap{path: path, keys: keys, Keys: pkeys, values: values}, nil
}

// orderedFromUnordered is a fallback for callers that hand FromNative a
// plain map[string]interface{} (e.g. ad hoc test fixtures) instead of the
// OrderedMap that docload produces from the real decoder. It sorts keys
// alphabetically so that two calls on the same map produce the same tree;
// this is NOT the same as source-document order and must not be used for
// anything that depends on declaration order.
func orderedFromUnordered(m map[string]interface{}) OrderedMap {
	out := OrderedMap{Values: m}
	for k := range m {
		out.Keys = append(out.Keys, k)
	}
	sort.Strings(out.Keys)
	return out
}
