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
)

// CreateDeleteCommand creates the command.
func CreateDeleteCommand() *cobra.Command {

	var r deleteRunner

	c := &cobra.Command{
		Use:   "delete",
		Short: "delete a transaction",
		Long:  `Delete a row of a month.`,
		Args:  cobra.NoArgs,
		RunE:  r.run,
	}
	r.setupFlags(c)
	return c
}

type deleteRunner struct {
	month flags.PartitionFlag
	row   int
}

func (r *deleteRunner) setupFlags(c *cobra.Command) {
	c.Flags().Var(&r.month, "month", "month (default current month)")
	c.Flags().IntVar(&r.row, "row", 0, "1-based row number, as shown by list")
	c.MarkFlagRequired("row")
}

func (r *deleteRunner) run(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	p := r.month.ValueOr(time.Now())
	return e.withLedger(p, func(l *ledger.Ledger) error {
		row, err := l.Delete(r.row)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: deleted row %d: %s\n", p, r.row, row)
		return nil
	})
}
