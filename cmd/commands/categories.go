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

	"github.com/sboehler/ledgerbook/lib/record"
)

// CreateCategoriesCommand creates the command.
func CreateCategoriesCommand() *cobra.Command {

	var r categoriesRunner

	c := &cobra.Command{
		Use:   "categories [KIND [CATEGORY]]",
		Short: "show the category taxonomy",
		Long: `Without arguments, list the kinds. With a kind, list its categories.
With a kind and a category, list the valid subcategories.`,
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: completeCategoryArgs,
		RunE:              r.run,
	}
	return c
}

type categoriesRunner struct{}

func (r *categoriesRunner) run(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	tax := e.opts.Taxonomy
	var names []string
	switch len(args) {
	case 0:
		for _, k := range tax.Kinds() {
			names = append(names, k.String())
		}
	case 1, 2:
		kind, err := record.ParseKind(args[0])
		if err != nil {
			return err
		}
		if len(args) == 1 {
			names, err = tax.Categories(kind)
		} else {
			names, err = tax.ValidSubcategories(kind, args[1])
		}
		if err != nil {
			return err
		}
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}
