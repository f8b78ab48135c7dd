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
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sboehler/ledgerbook/cmd/flags"
	"github.com/sboehler/ledgerbook/lib/ledger"
	"github.com/sboehler/ledgerbook/lib/record"
)

// CreateAddCommand creates the command.
func CreateAddCommand() *cobra.Command {

	var r addRunner

	c := &cobra.Command{
		Use:   "add",
		Short: "add a transaction",
		Long:  `Add a transaction to a month. Rows are kept ordered by day.`,
		Args:  cobra.NoArgs,
		RunE:  r.run,
	}
	r.setupFlags(c)
	return c
}

type addRunner struct {
	month flags.PartitionFlag
	entry entryFlags
}

func (r *addRunner) setupFlags(c *cobra.Command) {
	c.Flags().Var(&r.month, "month", "month (default current month)")
	r.entry.setup(c)
	for _, f := range []string{"day", "vendor", "kind", "category", "subcategory", "amount"} {
		c.MarkFlagRequired(f)
	}
}

func (r *addRunner) run(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	p := r.month.ValueOr(time.Now())
	return e.withLedger(p, func(l *ledger.Ledger) error {
		entry, err := record.FromRow(r.entry.fill(cmd, nil))
		if err != nil {
			return err
		}
		id, err := l.Add(entry)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: added row %d\n", p, position(l, id))
		return nil
	})
}
