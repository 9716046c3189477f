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

// Command docrules validates structured configuration documents against
// declarative rule files (spec.md §6, "CLI surface").
package main

import (
	"os"

	"github.com/docrules/docrules/cmd/docrules/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
