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

package commands

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sboehler/ledgerbook/lib/scan"
)

// CreateMonthsCommand creates the command.
func CreateMonthsCommand() *cobra.Command {

	var r monthsRunner

	c := &cobra.Command{
		Use:   "months [YYYY]",
		Short: "list the recorded years or months",
		Long: `Without argument, list the years with recorded months. With a year,
list its months. Months with unsaved changes are marked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.run,
	}
	return c
}

type monthsRunner struct{}

func (r *monthsRunner) run(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	listing, err := scan.Dir(e.dir)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	if len(args) == 0 {
		for _, y := range listing.Years() {
			fmt.Fprintln(out, y)
		}
		for _, p := range listing.AllUnsaved() {
			fmt.Fprintf(out, "%s has unsaved changes\n", p)
		}
		return nil
	}
	year, err := parseYear(args[0])
	if err != nil {
		return err
	}
	for _, p := range listing.Partitions(year) {
		if listing.Unsaved(p) {
			fmt.Fprintf(out, "%s *\n", p)
		} else {
			fmt.Fprintln(out, p)
		}
	}
	return nil
}
