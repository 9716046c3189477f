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

// Package docload implements the "external collaborator" named in spec.md
// §1: deserializing a JSON or YAML document into the generic dynamic value
// (value.OrderedMap-backed) that the core's value model builds a
// PathAwareValue tree from. It is deliberately outside the core: the core
// only ever consumes the already-decoded interface{} tree.
package docload

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/docrules/docrules/value"
)

// DecodeJSON decodes a single JSON document from r into the generic dynamic
// value shape FromNative understands, preserving object key order exactly as
// it appeared in the source text (encoding/json's map[string]interface{}
// decoding does not preserve this, so DecodeJSON walks tokens directly).
func DecodeJSON(r io.Reader) (interface{}, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (interface{}, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		default:
			return nil, fmt.Errorf("docload: unexpected delimiter %q", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return tok, nil
	}
}

func decodeJSONObject(dec *json.Decoder) (value.OrderedMap, error) {
	out := value.OrderedMap{Values: map[string]interface{}{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return out, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return out, fmt.Errorf("docload: non-string object key %v", keyTok)
		}
		val, err := decodeJSONValue(dec)
		if err != nil {
			return out, err
		}
		out.Keys = append(out.Keys, key)
		out.Values[key] = val
	}
	// consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return out, err
	}
	return out, nil
}

func decodeJSONArray(dec *json.Decoder) ([]interface{}, error) {
	var out []interface{}
	for dec.More() {
		val, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	// consume the closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
