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
	"github.com/spf13/cobra"

	"github.com/sboehler/ledgerbook/lib/record"
	"github.com/sboehler/ledgerbook/lib/taxonomy"
)

type completionFunc = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)

// completeNames completes from the taxonomy names returned by f.
func completeNames(f func(*taxonomy.Taxonomy) []string) completionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		e, err := loadEnv(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return f(e.opts.Taxonomy), cobra.ShellCompDirectiveNoFileComp
	}
}

func kindNames(tax *taxonomy.Taxonomy) []string {
	var res []string
	for _, k := range tax.Kinds() {
		res = append(res, k.String())
	}
	return res
}

// registerCompletions completes the taxonomy flags of add and edit.
func (ef *entryFlags) registerCompletions(c *cobra.Command) {
	c.RegisterFlagCompletionFunc("kind", completeNames(kindNames))
	c.RegisterFlagCompletionFunc("category", completeNames(func(tax *taxonomy.Taxonomy) []string {
		res, _ := tax.Categories(ef.kind.Value())
		return res
	}))
	c.RegisterFlagCompletionFunc("subcategory", completeNames(func(tax *taxonomy.Taxonomy) []string {
		res, _ := tax.ValidSubcategories(ef.kind.Value(), ef.category)
		return res
	}))
}

// completeCategoryArgs completes the arguments of the categories command.
func completeCategoryArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeNames(func(tax *taxonomy.Taxonomy) []string {
		switch len(args) {
		case 0:
			return kindNames(tax)
		case 1:
			kind, err := record.ParseKind(args[0])
			if err != nil {
				return nil
			}
			res, _ := tax.Categories(kind)
			return res
		}
		return nil
	})(cmd, args, toComplete)
}
