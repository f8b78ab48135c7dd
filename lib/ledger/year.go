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

package ledger

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sboehler/ledgerbook/lib/partition"
	"github.com/sboehler/ledgerbook/lib/readout"
	"github.com/sboehler/ledgerbook/lib/scan"
	"github.com/sboehler/ledgerbook/lib/store"
)

const concurrency = 4

// YearOptions configures SummarizeYear.
type YearOptions struct {
	Options

	// Progress, if set, is called once per partition read.
	Progress func()
}

// Year is the merged readout of all partitions of a year.
type Year struct {
	Partitions []partition.Partition
	Report     *readout.Report
}

// SummarizeYear reads every partition of the year found in dir and merges
// their readouts. It never writes to dir. The returned error is set only
// if a partition cannot be read; row diagnostics are in the report.
func SummarizeYear(ctx context.Context, dir string, year int, opts YearOptions) (*Year, error) {
	listing, err := scan.Dir(dir)
	if err != nil {
		return nil, err
	}
	var (
		parts   = listing.Partitions(year)
		reports = make([]*readout.Report, len(parts))
		tax     = opts.taxonomy()
		log     = opts.logger()
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, p := range parts {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := store.Read(p.File(dir), opts.store())
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			// diagnostics stay in the report
			reports[i], _ = readout.Summarize(tax, p.String(), s.Rows(), log)
			if opts.Progress != nil {
				opts.Progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	merged, err := readout.Merge(tax, reports...)
	if err != nil {
		return nil, err
	}
	return &Year{Partitions: parts, Report: merged}, nil
}
