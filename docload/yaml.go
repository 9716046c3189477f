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

package docload

import (
	"fmt"
	"io"

	"github.com/docrules/docrules/value"
	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes a single YAML document from r the same way DecodeJSON
// decodes JSON: into the generic dynamic value shape, preserving mapping key
// order. yaml.v3's Node type keeps mapping keys and values as an alternating
// Content slice in source order, which is what makes this possible without
// hand-rolling a tokenizer the way DecodeJSON must.
func DecodeYAML(r io.Reader) (interface{}, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return decodeYAMLNode(&doc)
}

func decodeYAMLNode(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return decodeYAMLNode(n.Content[0])
	case yaml.MappingNode:
		out := value.OrderedMap{Values: map[string]interface{}{}}
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			key := keyNode.Value
			val, err := decodeYAMLNode(valNode)
			if err != nil {
				return nil, err
			}
			out.Keys = append(out.Keys, key)
			out.Values[key] = val
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := decodeYAMLNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.ScalarNode:
		return decodeYAMLScalar(n)
	case yaml.AliasNode:
		return decodeYAMLNode(n.Alias)
	default:
		return nil, fmt.Errorf("docload: unsupported YAML node kind %v", n.Kind)
	}
}

func decodeYAMLScalar(n *yaml.Node) (interface{}, error) {
	var v interface{}
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case int:
		return int64(x), nil
	default:
		return v, nil
	}
}
