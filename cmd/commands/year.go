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
	"strconv"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/sboehler/ledgerbook/lib/ledger"
	"github.com/sboehler/ledgerbook/lib/partition"
	"github.com/sboehler/ledgerbook/lib/scan"
)

// CreateYearCommand creates the command.
func CreateYearCommand() *cobra.Command {

	var r yearRunner

	c := &cobra.Command{
		Use:   "year YYYY",
		Short: "summarize a year by category",
		Long:  `Sum the category totals of all saved months of a year. No file is written.`,
		Args:  cobra.ExactArgs(1),
		RunE:  r.run,
	}
	r.setupFlags(c)
	return c
}

type yearRunner struct {
	progress bool
	output
}

func (r *yearRunner) setupFlags(c *cobra.Command) {
	c.Flags().BoolVar(&r.progress, "progress", false, "show a progress bar")
	r.output.setup(c)
}

func (r *yearRunner) run(cmd *cobra.Command, args []string) error {
	year, err := parseYear(args[0])
	if err != nil {
		return err
	}
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	opts := ledger.YearOptions{Options: e.opts}
	if r.progress {
		listing, err := scan.Dir(e.dir)
		if err != nil {
			return err
		}
		bar := pb.New(len(listing.Partitions(year)))
		bar.SetWriter(cmd.ErrOrStderr())
		bar.Start()
		defer bar.Finish()
		opts.Progress = func() { bar.Increment() }
	}
	res, err := ledger.SummarizeYear(cmd.Context(), e.dir, year, opts)
	if err != nil {
		return err
	}
	e.log.Info().Int("year", year).Int("months", len(res.Partitions)).Msg("summarized")
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	return r.write(res.Report, out)
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	if _, err := partition.New(year, time.January); err != nil {
		return 0, err
	}
	return year, nil
}
