// Copyright 2023 Silvio Böhler
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmdtest runs commands in tests.
package cmdtest

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/sboehler/ledgerbook/cmd/flags"
)

// Execute runs c below a root command carrying the global flags and
// returns what it wrote to stdout and stderr.
func Execute(c *cobra.Command, args []string) (stdout, stderr []byte, err error) {
	root := &cobra.Command{
		Use:           "ledgerbook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.SetupGlobal(root)
	root.AddCommand(c)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{c.Name()}, args...))
	err = root.ExecuteContext(context.Background())
	return out.Bytes(), errOut.Bytes(), err
}

// Run runs c and returns its stdout. The test fails if the command fails.
func Run(t *testing.T, c *cobra.Command, args []string) []byte {
	t.Helper()
	out, errOut, err := Execute(c, args)
	if err != nil {
		t.Fatalf("%s %v: %v\n%s", c.Name(), args, err, errOut)
	}
	return out
}
