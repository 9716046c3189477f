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
	"strings"
	"testing"

	"github.com/docrules/docrules/value"
)

func TestDecodeYAMLPreservesKeyOrder(t *testing.T) {
	doc := "z: 1\na: 2\nm: 3\n"
	v, err := DecodeYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeYAML() error: %v", err)
	}
	om, ok := v.(value.OrderedMap)
	if !ok {
		t.Fatalf("DecodeYAML() = %#v; want an OrderedMap", v)
	}
	want := []string{"z", "a", "m"}
	for i, k := range want {
		if om.Keys[i] != k {
			t.Errorf("Keys[%d] = %q; want %q", i, om.Keys[i], k)
		}
	}
}

func TestDecodeYAMLSequenceAndNestedMapping(t *testing.T) {
	doc := "list:\n  - 1\n  - 2\nnested:\n  inner: true\n"
	v, err := DecodeYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeYAML() error: %v", err)
	}
	om := v.(value.OrderedMap)
	list, ok := om.Values["list"].([]interface{})
	if !ok || len(list) != 2 || list[0] != int64(1) {
		t.Fatalf("Values[list] = %#v; want [int64(1), int64(2)]", om.Values["list"])
	}
	inner, ok := om.Values["nested"].(value.OrderedMap)
	if !ok || inner.Values["inner"] != true {
		t.Fatalf("Values[nested] = %#v; want OrderedMap{inner: true}", om.Values["nested"])
	}
}

func TestDecodeYAMLEmptyDocument(t *testing.T) {
	v, err := DecodeYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("DecodeYAML() error: %v", err)
	}
	if v != nil {
		t.Errorf("DecodeYAML(\"\") = %#v; want nil", v)
	}
}
