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

package readout

import (
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"github.com/sboehler/ledgerbook/lib/table"
)

// Renderer converts a report into printable forms. Kinds are always
// shown; zero subcategories only if ShowZero is set.
type Renderer struct {
	ShowZero bool
}

type subtotal struct {
	name   string
	amount decimal.Decimal
	subs   []subtotal
}

// tree returns the report in taxonomy order, pruned according to the
// renderer settings.
func (rn Renderer) tree(r *Report) []subtotal {
	var res []subtotal
	for _, k := range r.tax.Kinds() {
		kt := subtotal{name: k.String(), amount: r.KindTotal(k)}
		cats, _ := r.tax.Categories(k)
		for _, c := range cats {
			ct := subtotal{name: c, amount: r.CategoryTotal(k, c)}
			subs, _ := r.tax.ValidSubcategories(k, c)
			for _, s := range subs {
				t := r.Total(k, c, s)
				if t.IsZero() && !rn.ShowZero {
					continue
				}
				ct.subs = append(ct.subs, subtotal{name: s, amount: t})
			}
			if len(ct.subs) == 0 && !rn.ShowZero {
				continue
			}
			kt.subs = append(kt.subs, ct)
		}
		res = append(res, kt)
	}
	return res
}

// Table renders the report as a two-column table with a final net row.
func (rn Renderer) Table(r *Report) *table.Table {
	tbl := table.New(2)
	tbl.AddSeparatorRow()
	tbl.AddRow().AddText("Category", table.Center).AddText("Amount", table.Center)
	tbl.AddSeparatorRow()
	for _, k := range rn.tree(r) {
		tbl.AddRow().AddIndented(k.name, 0).AddNumber(k.amount)
		for _, c := range k.subs {
			tbl.AddRow().AddIndented(c.name, 2).AddNumber(c.amount)
			for _, s := range c.subs {
				tbl.AddRow().AddIndented(s.name, 4).AddNumber(s.amount)
			}
		}
		tbl.AddSeparatorRow()
	}
	tbl.AddRow().AddIndented("Net", 0).AddNumber(r.Net())
	tbl.AddSeparatorRow()
	return tbl
}

// WriteYAML writes the nested totals as YAML, in taxonomy order. Amounts
// are written as exact decimal strings with two fraction digits.
func (rn Renderer) WriteYAML(r *Report, w io.Writer) error {
	var doc yaml.MapSlice
	for _, k := range rn.tree(r) {
		cats := yaml.MapSlice{}
		for _, c := range k.subs {
			subs := yaml.MapSlice{}
			for _, s := range c.subs {
				subs = append(subs, yaml.MapItem{Key: s.name, Value: s.amount.StringFixed(2)})
			}
			cats = append(cats, yaml.MapItem{Key: c.name, Value: subs})
		}
		doc = append(doc, yaml.MapItem{Key: k.name, Value: cats})
	}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

