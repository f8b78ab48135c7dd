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

package table

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

// TextRenderer renders a table as boxed text.
type TextRenderer struct {
	Color  bool
	Digits int32

	green, red *color.Color
}

// Render writes the table to w.
func (r *TextRenderer) Render(t *Table, w io.Writer) error {
	r.green, r.red = color.New(color.FgGreen), color.New(color.FgRed)
	if r.Color {
		r.green.EnableColor()
		r.red.EnableColor()
	} else {
		r.green.DisableColor()
		r.red.DisableColor()
	}
	widths := make([]int, t.Width())
	for _, row := range t.rows {
		for i, c := range row.cells {
			if l := r.minLength(c); widths[i] < l {
				widths[i] = l
			}
		}
	}
	for _, row := range t.rows {
		if err := r.renderRow(row, widths, w); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) renderRow(row *Row, widths []int, w io.Writer) error {
	if len(row.cells) == 0 {
		return nil
	}
	start, end := "| ", " |\n"
	if row.cells[0].isSep() {
		start = "+-"
	}
	if row.cells[len(row.cells)-1].isSep() {
		end = "-+\n"
	}
	if _, err := io.WriteString(w, start); err != nil {
		return err
	}
	for i, c := range row.cells {
		if err := r.renderCell(c, widths[i], w); err != nil {
			return err
		}
		if i < len(row.cells)-1 {
			if _, err := io.WriteString(w, separator(c, row.cells[i+1])); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, end)
	return err
}

func (r *TextRenderer) renderCell(c cell, l int, w io.Writer) error {
	switch t := c.(type) {

	case emptyCell:
		return pad(w, " ", l)

	case separatorCell:
		return pad(w, "-", l)

	case textCell:
		var (
			n      = utf8.RuneCountInString(t.content)
			before int
		)
		switch t.align {
		case Left:
			before = t.indent
		case Right:
			before = l - n
		case Center:
			before = (l - n) / 2
		}
		if err := pad(w, " ", before); err != nil {
			return err
		}
		if _, err := io.WriteString(w, t.content); err != nil {
			return err
		}
		return pad(w, " ", l-before-n)

	case numberCell:
		s := r.format(t.n)
		if err := pad(w, " ", l-utf8.RuneCountInString(s)); err != nil {
			return err
		}
		var err error
		switch {
		case t.n.IsNegative():
			_, err = r.red.Fprint(w, s)
		case t.n.IsPositive():
			_, err = r.green.Fprint(w, s)
		default:
			_, err = io.WriteString(w, s)
		}
		return err
	}
	return fmt.Errorf("%v is not a valid cell type", c)
}

func (r *TextRenderer) minLength(c cell) int {
	switch t := c.(type) {
	case textCell:
		if t.align == Left {
			return t.indent + utf8.RuneCountInString(t.content)
		}
		return utf8.RuneCountInString(t.content)
	case numberCell:
		return utf8.RuneCountInString(r.format(t.n))
	}
	return 0
}

func (r *TextRenderer) format(d decimal.Decimal) string {
	return thousands(d.StringFixed(r.Digits))
}

func separator(c1, c2 cell) string {
	switch {
	case c1.isSep() && c2.isSep():
		return "-+-"
	case c1.isSep():
		return "-+ "
	case c2.isSep():
		return " +-"
	}
	return " | "
}

func pad(w io.Writer, s string, l int) error {
	if l <= 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Repeat(s, l))
	return err
}

// thousands inserts a comma between groups of three integer digits.
func thousands(s string) string {
	end := strings.IndexByte(s, '.')
	if end < 0 {
		end = len(s)
	}
	var (
		b      strings.Builder
		digits bool
	)
	for i, ch := range s[:end] {
		if digits && (end-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
		if unicode.IsDigit(ch) {
			digits = true
		}
	}
	b.WriteString(s[end:])
	return b.String()
}
