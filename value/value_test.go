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

import "testing"

func TestMapInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", Int(2))
	m.Set("a", Int(1))
	m.Set("b", Int(20)) // overwrite keeps original position

	if got, want := m.Keys(), []string{"b", "a"}; !equalStrings(got, want) {
		t.Fatalf("got keys %v; want %v", got, want)
	}
	v, ok := m.Get("b")
	if !ok || v.(Int) != 20 {
		t.Fatalf("got %v, %v; want 20, true", v, ok)
	}
}

func TestRangeContains(t *testing.T) {
	r := RangeInt{Lo: 1, Hi: 10, LoInclusive: false, HiInclusive: true}
	cases := []struct {
		n    int64
		want bool
	}{
		{1, false},
		{2, true},
		{10, true},
		{11, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.n); got != c.want {
			t.Errorf("Contains(%d) = %v; want %v", c.n, got, c.want)
		}
	}
}

func TestKindIsScalar(t *testing.T) {
	if !IntKind.IsScalar() || !StringKind.IsScalar() {
		t.Errorf("scalar kinds misclassified")
	}
	if ListKind.IsScalar() || MapKind.IsScalar() {
		t.Errorf("list/map kinds should not be scalar")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
