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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docrules/docrules/value"
)

func TestDiscoverSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rule.guard")
	if err := os.WriteFile(path, []byte("Type == \"x\""), 0o644); err != nil {
		t.Fatal(err)
	}
	files, err := Discover(path, OrderNatural)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(files) != 1 || files[0].Path != path {
		t.Fatalf("Discover() = %+v; want one File for %s", files, path)
	}
}

func TestDiscoverDirectoryAlphabetical(t *testing.T) {
	dir := t.TempDir()
	names := []string{"c.guard", "a.guard", "b.guard"}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := Discover(dir, OrderAlphabetical)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("len(files) = %d; want 3", len(files))
	}
	for i, want := range []string{"a.guard", "b.guard", "c.guard"} {
		if got := filepath.Base(files[i].Path); got != want {
			t.Errorf("files[%d] = %s; want %s", i, got, want)
		}
	}
}

func TestDiscoverDirectoryLastModified(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "older.guard")
	newer := filepath.Join(dir, "newer.guard")
	if err := os.WriteFile(older, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newer, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}
	files, err := Discover(dir, OrderLastModified)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0].Path) != "older.guard" || filepath.Base(files[1].Path) != "newer.guard" {
		t.Fatalf("Discover() order = %+v; want older before newer", files)
	}
}

func TestDiscoverDirectorySkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "top.guard"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	files, err := Discover(dir, OrderAlphabetical)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0].Path) != "top.guard" {
		t.Fatalf("Discover() = %+v; want only top.guard, not the nested directory", files)
	}
}

func TestDecodeDispatchesOnExtension(t *testing.T) {
	jsonFile := File{Path: "doc.json", Content: []byte(`{"a": 1}`)}
	v, err := Decode(jsonFile)
	if err != nil {
		t.Fatalf("Decode(.json) error: %v", err)
	}
	om, ok := v.(value.OrderedMap)
	if !ok || om.Values["a"] != int64(1) {
		t.Errorf("Decode(.json) = %#v; want an OrderedMap with a=1", v)
	}

	yamlFile := File{Path: "doc.yaml", Content: []byte("a: 1\n")}
	if _, err := Decode(yamlFile); err != nil {
		t.Fatalf("Decode(.yaml) error: %v", err)
	}

	templateFile := File{Path: "doc.template", Content: []byte("a: 1\n")}
	if _, err := Decode(templateFile); err != nil {
		t.Fatalf("Decode(.template) error: %v", err)
	}

	unknownFile := File{Path: "doc.txt", Content: []byte("a: 1\n")}
	if _, err := Decode(unknownFile); err == nil {
		t.Fatal("Decode(.txt) succeeded; want an error for an unrecognized extension")
	}
}
