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
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sboehler/ledgerbook/cmd/flags"
	"github.com/sboehler/ledgerbook/lib/record"
	"github.com/sboehler/ledgerbook/lib/table"
)

// CreateListCommand creates the command.
func CreateListCommand() *cobra.Command {

	var r listRunner

	c := &cobra.Command{
		Use:   "list",
		Short: "list the transactions of a month",
		Long:  `List the rows of a month with their row numbers.`,
		Args:  cobra.NoArgs,
		RunE:  r.run,
	}
	r.setupFlags(c)
	return c
}

type listRunner struct {
	month  flags.PartitionFlag
	format string
}

func (r *listRunner) setupFlags(c *cobra.Command) {
	c.Flags().Var(&r.month, "month", "month (default current month)")
	c.Flags().StringVarP(&r.format, "format", "f", "text", "output format: text or csv")
}

func (r *listRunner) run(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	rows, err := e.rows(r.month.ValueOr(time.Now()))
	if err != nil {
		return err
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	return render(rowTable(rows), r.format, false, out)
}

// rowTable renders rows with their 1-based numbers. Fields are shown as
// stored.
func rowTable(rows []record.Row) *table.Table {
	tbl := table.New(record.Width + 1)
	tbl.AddSeparatorRow()
	header := tbl.AddRow().AddText("#", table.Right)
	for _, h := range record.Header {
		header.AddText(h, table.Left)
	}
	tbl.AddSeparatorRow()
	for i, row := range rows {
		tr := tbl.AddRow().AddText(strconv.Itoa(i+1), table.Right)
		for j := 0; j < record.Width; j++ {
			align := table.Left
			if j == record.Day || j == record.Amount {
				align = table.Right
			}
			tr.AddText(row.Field(j), align)
		}
	}
	tbl.AddSeparatorRow()
	return tbl
}

func render(tbl *table.Table, format string, color bool, w io.Writer) error {
	switch format {
	case "text":
		r := table.TextRenderer{Color: color, Digits: 2}
		return r.Render(tbl, w)
	case "csv":
		r := table.CSVRenderer{Digits: 2}
		return r.Render(tbl, w)
	}
	return fmt.Errorf("unsupported format %q", format)
}
