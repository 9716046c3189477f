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
	"math"
	"testing"
)

func TestFromNativeBuildsPaths(t *testing.T) {
	doc := OrderedMap{
		Keys: []string{"Resources"},
		Values: map[string]interface{}{
			"Resources": OrderedMap{
				Keys: []string{"VPC"},
				Values: map[string]interface{}{
					"VPC": OrderedMap{
						Keys: []string{"Type"},
						Values: map[string]interface{}{
							"Type": "AWS::EC2::VPC",
						},
					},
				},
			},
		},
	}

	root, err := FromNative(doc, Root)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := root.(PMap)
	if !ok {
		t.Fatalf("got %T; want PMap", root)
	}
	resources, ok := m.Get("Resources")
	if !ok {
		t.Fatalf("missing Resources")
	}
	vpc, ok := resources.(PMap).Get("VPC")
	if !ok {
		t.Fatalf("missing VPC")
	}
	typ, ok := vpc.(PMap).Get("Type")
	if !ok {
		t.Fatalf("missing Type")
	}
	if got, want := typ.Path(), Path("/Resources/VPC/Type"); got != want {
		t.Errorf("got path %q; want %q", got, want)
	}
	if got, want := typ.(PString).Val, "AWS::EC2::VPC"; got != want {
		t.Errorf("got %q; want %q", got, want)
	}
}

func TestEqualIgnoresPath(t *testing.T) {
	a := PString{path: "/a", Val: "x"}
	b := PString{path: "/b", Val: "x"}
	if !Equal(a, b) {
		t.Errorf("expected equal values at different paths to be Equal")
	}
}

func TestEqualNaNFails(t *testing.T) {
	a := PFloat{Val: math.NaN()}
	b := PFloat{Val: math.NaN()}
	if Equal(a, b) {
		t.Errorf("NaN should never compare equal")
	}
}

func TestMapKeysList(t *testing.T) {
	doc := OrderedMap{
		Keys: []string{"a", "b"},
		Values: map[string]interface{}{
			"a": 1,
			"b": 2,
		},
	}
	root, err := FromNative(doc, Root)
	if err != nil {
		t.Fatal(err)
	}
	m := root.(PMap)
	if len(m.Keys) != 2 {
		t.Fatalf("got %d keys; want 2", len(m.Keys))
	}
	for i, k := range m.OrderedKeys() {
		ks := m.Keys[i].(PString).Val
		if ks != k {
			t.Errorf("KEYS[%d] = %q; want %q", i, ks, k)
		}
	}
}
