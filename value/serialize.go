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
	"encoding/json"
	"fmt"
)

func errUnhandledKind(v PathAwareValue) error {
	return fmt.Errorf("value: unhandled kind %v in MarshalJSON", v.Kind())
}

// MarshalJSON renders a PathAwareValue as the cross-implementation wire
// format from spec.md §6: `{variantName: [path, payload]}` for scalars,
// recursively for composites.
func MarshalJSON(v PathAwareValue) ([]byte, error) {
	name, payload, err := jsonParts(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]interface{}{name: payload})
}

func jsonParts(v PathAwareValue) (string, []interface{}, error) {
	switch x := v.(type) {
	case PNull:
		return "Null", []interface{}{x.path, nil}, nil
	case PString:
		return "String", []interface{}{x.path, x.Val}, nil
	case PRegex:
		return "Regex", []interface{}{x.path, x.Val}, nil
	case PBool:
		return "Bool", []interface{}{x.path, x.Val}, nil
	case PInt:
		return "Int", []interface{}{x.path, x.Val}, nil
	case PFloat:
		return "Float", []interface{}{x.path, x.Val}, nil
	case PChar:
		return "Char", []interface{}{x.path, string(x.Val)}, nil
	case PRangeInt:
		return "RangeInt", []interface{}{x.path, x.Val}, nil
	case PRangeFloat:
		return "RangeFloat", []interface{}{x.path, x.Val}, nil
	case PRangeChar:
		return "RangeChar", []interface{}{x.path, x.Val}, nil
	case PList:
		items := make([]json.RawMessage, 0, len(x.Elem))
		for _, e := range x.Elem {
			b, err := MarshalJSON(e)
			if err != nil {
				return "", nil, err
			}
			items = append(items, b)
		}
		return "List", []interface{}{x.path, items}, nil
	case PMap:
		entries := make(map[string]json.RawMessage, x.Len())
		for _, k := range x.keys {
			b, err := MarshalJSON(x.values[k])
			if err != nil {
				return "", nil, err
			}
			entries[k] = b
		}
		return "Map", []interface{}{x.path, entries}, nil
	default:
		return "", nil, errUnhandledKind(v)
	}
}
