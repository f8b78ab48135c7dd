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

// Package record defines the rows stored in a monthly partition.
//
// Header and rows are written with bare commas, without a space after the
// separator. Fields are trimmed on read, so a file written with ", " reads
// the same but is rewritten in the compact form on its next commit.
package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Column positions of the fixed header.
const (
	Day = iota
	Vendor
	Type
	Category
	Subcategory
	Amount
	Note

	// Width is the number of fields of a complete row.
	Width
)

// Header is the fixed first row of every partition file.
var Header = Row{
	"Day",
	"Vendor/Company",
	"Transaction/Type",
	"Category",
	"Subcategory",
	"Amount",
	"Note",
}

// ErrInvalid is returned when an entry fails validation.
var ErrInvalid = errors.New("invalid record")

// Kind is the transaction kind.
type Kind string

// Transaction kinds.
const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
)

// Kinds lists the known kinds in display order.
var Kinds = []Kind{Income, Expense}

// ParseKind parses a transaction kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown transaction kind %q", ErrInvalid, s)
}

func (k Kind) String() string {
	return string(k)
}

// Row is a single line of a partition file, with every field trimmed.
// Data rows may be shorter than Width if they were written partially.
type Row []string

// Field returns the field at position i, or the empty string if the row
// is too short.
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Day parses the day-of-month field.
func (r Row) Day() (int, error) {
	return strconv.Atoi(r.Field(Day))
}

// Amount parses the amount field, rounded to two fraction digits.
func (r Row) Amount() (decimal.Decimal, error) {
	a, err := decimal.NewFromString(r.Field(Amount))
	if err != nil {
		return decimal.Zero, err
	}
	return a.Round(2), nil
}

// Kind returns the transaction kind field as written.
func (r Row) Kind() Kind {
	return Kind(r.Field(Type))
}

// Path returns the (kind, category, subcategory) triple of the row.
func (r Row) Path() (Kind, string, string) {
	return r.Kind(), r.Field(Category), r.Field(Subcategory)
}

// Equal reports whether both rows have exactly the same fields.
func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	res := make(Row, len(r))
	copy(res, r)
	return res
}

func (r Row) String() string {
	return strings.Join(r, ",")
}
