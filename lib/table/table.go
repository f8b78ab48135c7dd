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

// Package table builds and renders simple text tables.
package table

import (
	"github.com/shopspring/decimal"
)

// Alignment is the alignment of a text cell.
type Alignment int

const (
	// Left aligns to the left.
	Left Alignment = iota
	// Right aligns to the right.
	Right
	// Center centers.
	Center
)

// Table is a matrix of cells.
type Table struct {
	width int
	rows  []*Row
}

// New creates a table with the given number of columns.
func New(width int) *Table {
	return &Table{width: width}
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return t.width
}

// AddRow appends a row.
func (t *Table) AddRow() *Row {
	r := &Row{cells: make([]cell, 0, t.width)}
	t.rows = append(t.rows, r)
	return r
}

// AddSeparatorRow appends a row of separators.
func (t *Table) AddSeparatorRow() {
	r := t.AddRow()
	for i := 0; i < t.width; i++ {
		r.add(separatorCell{})
	}
}

// AddEmptyRow appends a blank row.
func (t *Table) AddEmptyRow() {
	t.AddRow().FillEmpty()
}

// Row is a table row.
type Row struct {
	cells []cell
}

func (r *Row) add(c cell) *Row {
	r.cells = append(r.cells, c)
	return r
}

// AddEmpty adds an empty cell.
func (r *Row) AddEmpty() *Row {
	return r.add(emptyCell{})
}

// AddText adds a text cell.
func (r *Row) AddText(content string, align Alignment) *Row {
	return r.add(textCell{content: content, align: align})
}

// AddIndented adds a left-aligned text cell with leading indentation.
func (r *Row) AddIndented(content string, indent int) *Row {
	return r.add(textCell{content: content, indent: indent})
}

// AddNumber adds a number cell.
func (r *Row) AddNumber(n decimal.Decimal) *Row {
	return r.add(numberCell{n})
}

// FillEmpty pads the row with empty cells up to the table width.
func (r *Row) FillEmpty() {
	for len(r.cells) < cap(r.cells) {
		r.AddEmpty()
	}
}

type cell interface {
	isSep() bool
}

type textCell struct {
	content string
	align   Alignment
	indent  int
}

func (textCell) isSep() bool { return false }

type numberCell struct {
	n decimal.Decimal
}

func (numberCell) isSep() bool { return false }

type separatorCell struct{}

func (separatorCell) isSep() bool { return true }

type emptyCell struct{}

func (emptyCell) isSep() bool { return false }
