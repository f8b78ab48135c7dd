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

// Package readout computes category totals of a set of rows.
package readout

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/sboehler/ledgerbook/lib/record"
	"github.com/sboehler/ledgerbook/lib/taxonomy"
)

// Problem classifies a diagnostic.
type Problem int

// Problems found while summarizing.
const (
	MalformedAmount Problem = iota
	UnknownCategory
)

func (p Problem) String() string {
	switch p {
	case MalformedAmount:
		return "malformed amount"
	case UnknownCategory:
		return "unknown category"
	}
	return "unknown problem"
}

// Diagnostic describes a row that could not be fully counted. Line is the
// 1-based data row index within Source.
type Diagnostic struct {
	Source  string
	Line    int
	Problem Problem
	Row     record.Row
	Message string
}

func (d Diagnostic) Error() string {
	if d.Source != "" {
		return fmt.Sprintf("%s: row %d: %s: %s", d.Source, d.Line, d.Problem, d.Message)
	}
	return fmt.Sprintf("row %d: %s: %s", d.Line, d.Problem, d.Message)
}

// Report holds the totals of every taxonomy path.
type Report struct {
	tax         *taxonomy.Taxonomy
	totals      map[taxonomy.Path]decimal.Decimal
	Diagnostics []Diagnostic
}

// Summarize folds the rows into a fresh accumulator. A row with a
// malformed amount counts as zero; a row with an unknown category path is
// left out without looking at its amount. Each skipped or zeroed row
// produces one diagnostic, and they are combined in the returned error.
// The report is returned in either case.
func Summarize(tax *taxonomy.Taxonomy, source string, rows []record.Row, log *zerolog.Logger) (*Report, error) {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	r := &Report{
		tax:    tax,
		totals: tax.NewAccumulator(),
	}
	for i, row := range rows {
		line := i + 1
		kind, cat, sub := row.Path()
		p := taxonomy.Path{Kind: kind, Category: cat, Subcategory: sub}
		total, ok := r.totals[p]
		if !ok {
			r.diagnose(log, Diagnostic{
				Source:  source,
				Line:    line,
				Problem: UnknownCategory,
				Row:     row,
				Message: fmt.Sprintf("%s is not recognized", p),
			})
			continue
		}
		amount, err := row.Amount()
		if err != nil {
			r.diagnose(log, Diagnostic{
				Source:  source,
				Line:    line,
				Problem: MalformedAmount,
				Row:     row,
				Message: fmt.Sprintf("cannot parse %q, counting it as 0", row.Field(record.Amount)),
			})
			amount = decimal.Zero
		}
		r.totals[p] = total.Add(amount)
	}
	return r, r.Err()
}

func (r *Report) diagnose(log *zerolog.Logger, d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	log.Warn().Str("source", d.Source).Int("row", d.Line).Str("problem", d.Problem.String()).Msg(d.Message)
}

// Err combines all diagnostics into one error, or returns nil.
func (r *Report) Err() error {
	var err error
	for _, d := range r.Diagnostics {
		err = multierr.Append(err, d)
	}
	return err
}

// Taxonomy returns the taxonomy of the report.
func (r *Report) Taxonomy() *taxonomy.Taxonomy {
	return r.tax
}

// Total returns the total of a subcategory.
func (r *Report) Total(kind record.Kind, category, subcategory string) decimal.Decimal {
	return r.totals[taxonomy.Path{Kind: kind, Category: category, Subcategory: subcategory}]
}

// CategoryTotal returns the sum over the subcategories of a category.
func (r *Report) CategoryTotal(kind record.Kind, category string) decimal.Decimal {
	var res decimal.Decimal
	for p, t := range r.totals {
		if p.Kind == kind && p.Category == category {
			res = res.Add(t)
		}
	}
	return res
}

// KindTotal returns the sum over all categories of a kind.
func (r *Report) KindTotal(kind record.Kind) decimal.Decimal {
	var res decimal.Decimal
	for p, t := range r.totals {
		if p.Kind == kind {
			res = res.Add(t)
		}
	}
	return res
}

// Net returns income minus expenses.
func (r *Report) Net() decimal.Decimal {
	return r.KindTotal(record.Income).Sub(r.KindTotal(record.Expense))
}

// ErrTaxonomyMismatch is returned when merging reports built on different
// taxonomies.
var ErrTaxonomyMismatch = errors.New("reports use different taxonomies")

// Merge sums reports. Diagnostics are concatenated.
func Merge(tax *taxonomy.Taxonomy, reports ...*Report) (*Report, error) {
	res := &Report{
		tax:    tax,
		totals: tax.NewAccumulator(),
	}
	for _, r := range reports {
		if r.tax != tax {
			return nil, ErrTaxonomyMismatch
		}
		for p, t := range r.totals {
			res.totals[p] = res.totals[p].Add(t)
		}
		res.Diagnostics = append(res.Diagnostics, r.Diagnostics...)
	}
	return res, nil
}
