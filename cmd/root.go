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

// Package cmd is the main command file for Cobra
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sboehler/ledgerbook/cmd/commands"
	"github.com/sboehler/ledgerbook/cmd/completion"
	"github.com/sboehler/ledgerbook/cmd/flags"
	"github.com/sboehler/ledgerbook/cmd/format"
)

// CreateRootCommand creates the root command with all subcommands.
func CreateRootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "ledgerbook",
		Short: "ledgerbook is a monthly income and expense ledger",
		Long: `ledgerbook records income and expenses in one plain file per month and
summarizes them by category.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.SetupGlobal(c)
	c.AddCommand(
		commands.CreateAddCommand(),
		commands.CreateEditCommand(),
		commands.CreateDeleteCommand(),
		commands.CreateListCommand(),
		commands.CreateSummaryCommand(),
		commands.CreateYearCommand(),
		commands.CreateMonthsCommand(),
		commands.CreateCategoriesCommand(),
		commands.CreateShellCommand(),
		format.CreateCmd(),
	)
	c.AddCommand(completion.CreateCmd(c))
	return c
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	rootCmd := CreateRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "%v\n", err)
		os.Exit(1)
	}
}
