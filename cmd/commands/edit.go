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
	"github.com/sboehler/ledgerbook/lib/store"
)

// CreateEditCommand creates the command.
func CreateEditCommand() *cobra.Command {

	var r editRunner

	c := &cobra.Command{
		Use:   "edit",
		Short: "edit a transaction",
		Long:  `Replace the fields given as flags in a row, keeping the others.`,
		Args:  cobra.NoArgs,
		RunE:  r.run,
	}
	r.setupFlags(c)
	return c
}

type editRunner struct {
	month flags.PartitionFlag
	row   int
	entry entryFlags
}

func (r *editRunner) setupFlags(c *cobra.Command) {
	c.Flags().Var(&r.month, "month", "month (default current month)")
	c.Flags().IntVar(&r.row, "row", 0, "1-based row number, as shown by list")
	c.MarkFlagRequired("row")
	r.entry.setup(c)
}

func (r *editRunner) run(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	p := r.month.ValueOr(time.Now())
	return e.withLedger(p, func(l *ledger.Ledger) error {
		rows := l.Rows()
		if r.row < 1 || r.row > len(rows) {
			return fmt.Errorf("%w: row %d not in [1, %d]", store.ErrOutOfRange, r.row, len(rows))
		}
		entry, err := record.FromRow(r.entry.fill(cmd, rows[r.row-1]))
		if err != nil {
			return err
		}
		if err := l.ReplaceAt(r.row, entry); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: replaced row %d\n", p, r.row)
		return nil
	})
}
