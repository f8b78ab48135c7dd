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
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sboehler/ledgerbook/cmd/flags"
	"github.com/sboehler/ledgerbook/lib/readout"
)

// CreateSummaryCommand creates the command.
func CreateSummaryCommand() *cobra.Command {

	var r summaryRunner

	c := &cobra.Command{
		Use:   "summary",
		Short: "summarize a month by category",
		Long: `Compute the totals of a month per kind, category and subcategory,
and the net of income and expenses. Rows with a malformed amount or an
unknown category are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: r.run,
	}
	r.setupFlags(c)
	return c
}

type summaryRunner struct {
	month flags.PartitionFlag
	output
}

// output holds the formatting flags of reports.
type output struct {
	format      string
	zero, color bool
}

func (o *output) setup(c *cobra.Command) {
	c.Flags().StringVarP(&o.format, "format", "f", "text", "output format: text, yaml or csv")
	c.Flags().BoolVar(&o.zero, "zero", false, "show categories without transactions")
	c.Flags().BoolVar(&o.color, "color", false, "print output in color")
}

func (o *output) write(rep *readout.Report, w io.Writer) error {
	rn := readout.Renderer{ShowZero: o.zero}
	if o.format == "yaml" {
		return rn.WriteYAML(rep, w)
	}
	return render(rn.Table(rep), o.format, o.color, w)
}

func (r *summaryRunner) setupFlags(c *cobra.Command) {
	c.Flags().Var(&r.month, "month", "month (default current month)")
	r.output.setup(c)
}

func (r *summaryRunner) run(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	p := r.month.ValueOr(time.Now())
	rows, err := e.rows(p)
	if err != nil {
		return err
	}
	// diagnostics are logged and the rows skipped
	rep, _ := readout.Summarize(e.opts.Taxonomy, p.String(), rows, e.opts.Logger)
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	return r.write(rep, out)
}
