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

// Package cmd wires the docrules CLI surface described in spec.md §6: a
// root cobra.Command with one subcommand, "validate". The core evaluator
// and parser are reusable APIs; this package is the harness around them,
// kept separate per spec.md's "these belong to the harness, not the core".
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Command wraps a cobra.Command the way the teacher's cmd/cue/cmd package
// does, so Stderr writes can flip the process exit code without every
// subcommand needing to track that itself.
type Command struct {
	*cobra.Command

	root   *cobra.Command
	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = len(b) > 0
	return c.Command.OutOrStderr().Write(b)
}

// Stderr returns a writer for error output; any write to it marks the run
// as failed for exit-code purposes.
func (c *Command) Stderr() io.Writer {
	return (*errWriter)(c)
}

// New creates the top-level "docrules" command.
func New(args []string) *Command {
	root := &cobra.Command{
		Use:           "docrules",
		Short:         "validate structured configuration documents against declarative rules",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	c := &Command{Command: root, root: root}
	root.AddCommand(newValidateCmd(c))
	root.SetArgs(args)
	return c
}

// Run executes the parsed command line and reports whether any write to
// Stderr happened, beyond whatever error cobra itself returns.
func (c *Command) Run() error {
	if err := c.root.Execute(); err != nil {
		return err
	}
	if c.hasErr {
		return errPrinted
	}
	return nil
}

var errPrinted = fmt.Errorf("docrules: completed with errors")

// Main runs the CLI against os.Args and returns a process exit code.
func Main() int {
	c := New(os.Args[1:])
	if err := c.Run(); err != nil {
		if err != errPrinted {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}
