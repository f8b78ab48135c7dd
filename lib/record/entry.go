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

package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Schema reports whether a category path is allowed.
type Schema interface {
	Has(kind Kind, category, subcategory string) bool
}

// Entry is the typed form of a new record.
type Entry struct {
	Day         int
	Vendor      string
	Kind        Kind
	Category    string
	Subcategory string
	Amount      decimal.Decimal
	Note        string
}

// FromRow parses a row into an entry. The category path is not checked.
func FromRow(r Row) (Entry, error) {
	var (
		e   Entry
		err error
	)
	if e.Day, err = r.Day(); err != nil {
		return e, fmt.Errorf("%w: day %q: %v", ErrInvalid, r.Field(Day), err)
	}
	if e.Kind, err = ParseKind(r.Field(Type)); err != nil {
		return e, err
	}
	if e.Amount, err = r.Amount(); err != nil {
		return e, fmt.Errorf("%w: amount %q: %v", ErrInvalid, r.Field(Amount), err)
	}
	e.Vendor = r.Field(Vendor)
	e.Category = r.Field(Category)
	e.Subcategory = r.Field(Subcategory)
	e.Note = r.Field(Note)
	return e, nil
}

// Row formats the entry as a complete row. Amounts are written with two
// fraction digits.
func (e Entry) Row() Row {
	return Row{
		strconv.Itoa(e.Day),
		strings.TrimSpace(e.Vendor),
		string(e.Kind),
		strings.TrimSpace(e.Category),
		strings.TrimSpace(e.Subcategory),
		e.Amount.StringFixed(2),
		strings.TrimSpace(e.Note),
	}
}

// Validate checks the entry for a partition of the given month. Amounts are
// magnitudes: the kind determines the direction, so negative amounts are
// rejected.
func (e Entry) Validate(s Schema, year int, month time.Month) error {
	if last := DaysIn(year, month); e.Day < 1 || e.Day > last {
		return fmt.Errorf("%w: day %d is not in 1..%d", ErrInvalid, e.Day, last)
	}
	if _, err := ParseKind(string(e.Kind)); err != nil {
		return err
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: amount %s is negative", ErrInvalid, e.Amount)
	}
	for _, f := range []string{e.Vendor, e.Category, e.Subcategory, e.Note} {
		if strings.ContainsAny(f, ",\r\n") {
			return fmt.Errorf("%w: field %q contains a delimiter", ErrInvalid, f)
		}
	}
	if s != nil && !s.Has(e.Kind, e.Category, e.Subcategory) {
		return fmt.Errorf("%w: %s > %s > %s is not a known category", ErrInvalid, e.Kind, e.Category, e.Subcategory)
	}
	return nil
}

// DaysIn returns the number of days of the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
