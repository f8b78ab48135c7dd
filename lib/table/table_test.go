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
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
)

func TestThousands(t *testing.T) {
	var tests = map[string]string{
		"0.00":        "0.00",
		"123.00":      "123.00",
		"1234.50":     "1,234.50",
		"-1234.50":    "-1,234.50",
		"1234567":     "1,234,567",
		"-100":        "-100",
		"12345678.91": "12,345,678.91",
	}
	for input, want := range tests {
		if got := thousands(input); got != want {
			t.Errorf("thousands(%q) = %q, want %q", input, got, want)
		}
	}
}

func sample() *Table {
	tbl := New(2)
	tbl.AddSeparatorRow()
	tbl.AddRow().AddText("Category", Center).AddText("Amount", Center)
	tbl.AddSeparatorRow()
	tbl.AddRow().AddIndented("Food", 0).AddNumber(decimal.RequireFromString("1234.5"))
	tbl.AddRow().AddIndented("Groceries", 2).AddNumber(decimal.RequireFromString("-20"))
	tbl.AddEmptyRow()
	tbl.AddSeparatorRow()
	return tbl
}

func TestTextRenderer(t *testing.T) {
	var (
		buf  bytes.Buffer
		r    = TextRenderer{Digits: 2}
		want = "" +
			"+-------------+----------+\n" +
			"|  Category   |  Amount  |\n" +
			"+-------------+----------+\n" +
			"| Food        | 1,234.50 |\n" +
			"|   Groceries |   -20.00 |\n" +
			"|             |          |\n" +
			"+-------------+----------+\n"
	)

	if err := r.Render(sample(), &buf); err != nil {
		t.Fatalf("Render() returned unexpected error: %v", err)
	}

	if got := buf.String(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestCSVRenderer(t *testing.T) {
	var (
		buf  bytes.Buffer
		r    = CSVRenderer{Digits: 2}
		want = "Category,Amount\nFood,1234.50\nGroceries,-20.00\n"
	)

	if err := r.Render(sample(), &buf); err != nil {
		t.Fatalf("Render() returned unexpected error: %v", err)
	}

	if got := buf.String(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
