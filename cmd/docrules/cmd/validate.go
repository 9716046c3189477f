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

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docrules/docrules/docload"
	"github.com/docrules/docrules/eval"
	"github.com/docrules/docrules/rules/parser"
	"github.com/docrules/docrules/track"
	"github.com/docrules/docrules/value"
)

func newValidateCmd(c *Command) *cobra.Command {
	var rulesPath, dataPath string
	var alphabetical, lastModified, verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "validate data files against rule files",
		Long: `validate evaluates every rule file named by --rules against every data
file named by --data, printing a PASS/FAIL/SKIP summary for each pairing.
With --verbose, the full evaluation trace is printed as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(c, cmd, rulesPath, dataPath, order(alphabetical, lastModified), verbose)
		},
	}

	f := cmd.Flags()
	f.StringVar(&rulesPath, "rules", "", "rule file or directory (required)")
	f.StringVar(&dataPath, "data", "", "data file or directory (required)")
	f.BoolVar(&alphabetical, "alphabetical", false, "process directory entries in alphabetical order")
	f.BoolVar(&lastModified, "last-modified", false, "process directory entries in last-modified order")
	f.BoolVar(&verbose, "verbose", false, "print the full evaluation trace as JSON")
	cmd.MarkFlagRequired("rules")
	cmd.MarkFlagRequired("data")

	return cmd
}

func order(alphabetical, lastModified bool) docload.Order {
	switch {
	case alphabetical:
		return docload.OrderAlphabetical
	case lastModified:
		return docload.OrderLastModified
	default:
		return docload.OrderNatural
	}
}

func runValidate(c *Command, cmd *cobra.Command, rulesPath, dataPath string, ord docload.Order, verbose bool) error {
	ruleFiles, err := docload.Discover(rulesPath, ord)
	if err != nil {
		return fmt.Errorf("docrules: discovering rule files: %w", err)
	}
	dataFiles, err := docload.Discover(dataPath, ord)
	if err != nil {
		return fmt.Errorf("docrules: discovering data files: %w", err)
	}

	anyFail := false
	for _, rf := range ruleFiles {
		rulesFile, err := parser.Parse(rf.Path, string(rf.Content))
		if err != nil {
			fmt.Fprintf(c.Stderr(), "%s: %v\n", rf.Path, err)
			continue
		}
		for _, df := range dataFiles {
			native, err := docload.Decode(df)
			if err != nil {
				fmt.Fprintf(c.Stderr(), "%s: %v\n", df.Path, err)
				continue
			}
			root, err := value.FromNative(native, value.Root)
			if err != nil {
				fmt.Fprintf(c.Stderr(), "%s: %v\n", df.Path, err)
				continue
			}

			result, err := eval.NewEvaluator(rulesFile).Evaluate(root)
			if err != nil {
				fmt.Fprintf(c.Stderr(), "%s against %s: %v\n", df.Path, rf.Path, err)
				continue
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s against %s\n", result.Status, df.Path, rf.Path)
			if result.Status == track.Fail {
				anyFail = true
			}
			if verbose {
				printTrace(cmd, result)
			}
		}
	}

	if anyFail {
		return fmt.Errorf("docrules: one or more checks failed")
	}
	return nil
}

func printTrace(cmd *cobra.Command, result *track.StatusContext) {
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "docrules: rendering trace: %v\n", err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
