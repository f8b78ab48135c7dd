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
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sboehler/ledgerbook/cmd/flags"
	"github.com/sboehler/ledgerbook/lib/ledger"
	"github.com/sboehler/ledgerbook/lib/record"
)

// entryFlags are the field flags of add and edit.
type entryFlags struct {
	day                                 int
	vendor, category, subcategory, note string
	kind                                flags.KindFlag
	amount                              flags.DecimalFlag
}

func (ef *entryFlags) setup(c *cobra.Command) {
	c.Flags().IntVar(&ef.day, "day", 0, "day of the month")
	c.Flags().StringVar(&ef.vendor, "vendor", "", "vendor or company")
	c.Flags().Var(&ef.kind, "kind", "transaction type")
	c.Flags().StringVar(&ef.category, "category", "", "category")
	c.Flags().StringVar(&ef.subcategory, "subcategory", "", "subcategory")
	c.Flags().Var(&ef.amount, "amount", "amount, without sign")
	c.Flags().StringVar(&ef.note, "note", "", "note")
	ef.registerCompletions(c)
}

// fill returns a copy of row, padded to full width, with the fields
// whose flags were given overwritten.
func (ef *entryFlags) fill(c *cobra.Command, row record.Row) record.Row {
	res := make(record.Row, record.Width)
	copy(res, row)
	fs := c.Flags()
	if fs.Changed("day") {
		res[record.Day] = strconv.Itoa(ef.day)
	}
	if fs.Changed("vendor") {
		res[record.Vendor] = ef.vendor
	}
	if fs.Changed("kind") {
		res[record.Type] = ef.kind.Value().String()
	}
	if fs.Changed("category") {
		res[record.Category] = ef.category
	}
	if fs.Changed("subcategory") {
		res[record.Subcategory] = ef.subcategory
	}
	if fs.Changed("amount") {
		res[record.Amount] = ef.amount.Value().String()
	}
	if fs.Changed("note") {
		res[record.Note] = ef.note
	}
	return res
}

// position returns the 1-based index of the row with the given id, or 0.
func position(l *ledger.Ledger, id uuid.UUID) int {
	for i, e := range l.Entries() {
		if e.ID == id {
			return i + 1
		}
	}
	return 0
}
