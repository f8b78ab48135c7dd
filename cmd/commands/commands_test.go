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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"

	"github.com/sboehler/ledgerbook/cmd/cmdtest"
	"github.com/sboehler/ledgerbook/lib/record"
	"github.com/sboehler/ledgerbook/lib/store"
)

const header = "Day,Vendor/Company,Transaction/Type,Category,Subcategory,Amount,Note"

func lines(ls ...string) string {
	return strings.Join(ls, "\r") + "\r"
}

var august = lines(
	header,
	"1,Employer,Income,Employment,Salary,3000.00,",
	"3,Market,Expense,Food,Groceries,12.50,weekly",
	"3,Bakery,Expense,Food,Groceries,7.50,",
	"15,Landlord,Expense,Housing,Rent,1200.00,August",
	"20,Broken,Expense,Food,Groceries,abc,",
)

var september = lines(
	header,
	"2,Market,Expense,Food,Groceries,30.00,",
)

// fixture creates a ledger directory with two saved months of 2023, an
// empty month of 2022 and unsaved changes in 2023-09.
func fixture(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	for name, content := range map[string]string{
		"2022-12.csv":      lines(header),
		"2023-08.csv":      august,
		"2023-09.csv":      september,
		"2023-09-temp.csv": september,
		"notes.txt":        "not a ledger",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func read(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func exists(t *testing.T, p string) bool {
	t.Helper()
	_, err := os.Stat(p)
	return err == nil
}

func TestGolden(t *testing.T) {
	tests := []struct {
		name string
		cmd  func() *cobra.Command
		args []string
	}{
		{"list_text", CreateListCommand, []string{"--month", "2023-08"}},
		{"list_csv", CreateListCommand, []string{"--month", "2023-08", "--format", "csv"}},
		{"summary_text", CreateSummaryCommand, []string{"--month", "2023-08"}},
		{"summary_csv", CreateSummaryCommand, []string{"--month", "2023-08", "-f", "csv"}},
		{"summary_yaml", CreateSummaryCommand, []string{"--month", "2023-08", "-f", "yaml"}},
		{"year_csv", CreateYearCommand, []string{"2023", "-f", "csv"}},
		{"months", CreateMonthsCommand, nil},
		{"months_2023", CreateMonthsCommand, []string{"2023"}},
		{"categories", CreateCategoriesCommand, nil},
		{"categories_expense_food", CreateCategoriesCommand, []string{"expense", "Food"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := fixture(t)
			g := goldie.New(t)

			got := cmdtest.Run(t, test.cmd(), append(test.args, "--dir", dir))

			g.Assert(t, test.name, got)
			if diff := cmp.Diff(august, read(t, filepath.Join(dir, "2023-08.csv"))); diff != "" {
				t.Errorf("2023-08.csv changed (-want, +got):\n%s", diff)
			}
			if exists(t, filepath.Join(dir, "2023-08-temp.csv")) {
				t.Error("read-only command left a working copy")
			}
		})
	}
}

func TestAddEditDelete(t *testing.T) {
	dir := fixture(t)
	run := func(c *cobra.Command, args ...string) string {
		t.Helper()
		return string(cmdtest.Run(t, c, append(args, "--dir", dir, "--month", "2023-08")))
	}

	steps := []struct {
		got, want string
	}{
		{
			run(CreateAddCommand(), "--day", "3", "--vendor", "Cafe", "--kind", "expense",
				"--category", "Food", "--subcategory", "Restaurants", "--amount", "4.5"),
			"2023-08: added row 4\n",
		},
		{
			run(CreateEditCommand(), "--row", "6", "--amount", "9.99", "--note", "fixed"),
			"2023-08: replaced row 6\n",
		},
		{
			run(CreateDeleteCommand(), "--row", "1"),
			"2023-08: deleted row 1: 1,Employer,Income,Employment,Salary,3000.00,\n",
		},
	}
	for i, s := range steps {
		if diff := cmp.Diff(s.want, s.got); diff != "" {
			t.Errorf("step %d: unexpected output (-want, +got):\n%s", i, diff)
		}
	}

	want := lines(
		header,
		"3,Market,Expense,Food,Groceries,12.50,weekly",
		"3,Bakery,Expense,Food,Groceries,7.50,",
		"3,Cafe,Expense,Food,Restaurants,4.50,",
		"15,Landlord,Expense,Housing,Rent,1200.00,August",
		"20,Broken,Expense,Food,Groceries,9.99,fixed",
	)
	if diff := cmp.Diff(want, read(t, filepath.Join(dir, "2023-08.csv"))); diff != "" {
		t.Errorf("unexpected file content (-want, +got):\n%s", diff)
	}
	if exists(t, filepath.Join(dir, "2023-08-temp.csv")) {
		t.Error("working copy was not removed")
	}
}

func TestAddCreatesMonth(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "books")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmdtest.Run(t, CreateAddCommand(), []string{
		"--dir", dir, "--month", "2024-02", "--day", "29", "--vendor", "Employer",
		"--kind", "Income", "--category", "Employment", "--subcategory", "Bonus", "--amount", "100",
	})

	want := lines(header, "29,Employer,Income,Employment,Bonus,100.00,")
	if diff := cmp.Diff(want, read(t, filepath.Join(dir, "2024-02.csv"))); diff != "" {
		t.Errorf("unexpected file content (-want, +got):\n%s", diff)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  func() *cobra.Command
		args []string
		want error
	}{
		{
			name: "unknown category",
			cmd:  CreateAddCommand,
			args: []string{"--month", "2023-08", "--day", "1", "--vendor", "X", "--kind", "Expense",
				"--category", "Food", "--subcategory", "Caviar", "--amount", "1"},
			want: record.ErrInvalid,
		},
		{
			name: "day outside month",
			cmd:  CreateAddCommand,
			args: []string{"--month", "2023-06", "--day", "31", "--vendor", "X", "--kind", "Expense",
				"--category", "Food", "--subcategory", "Groceries", "--amount", "1"},
			want: record.ErrInvalid,
		},
		{
			name: "row out of range",
			cmd:  CreateDeleteCommand,
			args: []string{"--month", "2023-08", "--row", "99"},
			want: store.ErrOutOfRange,
		},
		{
			name: "edit out of range",
			cmd:  CreateEditCommand,
			args: []string{"--month", "2023-08", "--row", "0", "--amount", "1"},
			want: store.ErrOutOfRange,
		},
		{
			name: "unsaved changes",
			cmd:  CreateDeleteCommand,
			args: []string{"--month", "2023-09", "--row", "1"},
			want: errUnsaved,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := fixture(t)

			_, _, err := cmdtest.Execute(test.cmd(), append(test.args, "--dir", dir))

			if !errors.Is(err, test.want) {
				t.Fatalf("got error %v, want %v", err, test.want)
			}
			if diff := cmp.Diff(august, read(t, filepath.Join(dir, "2023-08.csv"))); diff != "" {
				t.Errorf("2023-08.csv changed (-want, +got):\n%s", diff)
			}
			if exists(t, filepath.Join(dir, "2023-08-temp.csv")) {
				t.Error("failed command left a working copy")
			}
			for _, name := range []string{"2023-06.csv", "2023-06-temp.csv"} {
				if exists(t, filepath.Join(dir, name)) {
					t.Errorf("failed command created %s", name)
				}
			}
		})
	}
}

func TestFailedCommandKeepsFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	spaced := "Day, Vendor/Company, Transaction/Type, Category, Subcategory, Amount, Note\n" +
		"3, Market, Expense, Food, Groceries, 12.50, weekly\n"
	path := filepath.Join(dir, "2023-08.csv")
	if err := os.WriteFile(path, []byte(spaced), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := cmdtest.Execute(CreateDeleteCommand(), []string{"--dir", dir, "--month", "2023-08", "--row", "9"})
	if !errors.Is(err, store.ErrOutOfRange) {
		t.Fatalf("got error %v, want %v", err, store.ErrOutOfRange)
	}
	_, _, err = cmdtest.Execute(CreateAddCommand(), []string{
		"--dir", dir, "--month", "2023-11", "--day", "40", "--vendor", "X", "--kind", "Expense",
		"--category", "Food", "--subcategory", "Groceries", "--amount", "1",
	})
	if err == nil {
		t.Fatal("add with day 40 succeeded")
	}

	if diff := cmp.Diff(spaced, read(t, path)); diff != "" {
		t.Errorf("2023-08.csv changed (-want, +got):\n%s", diff)
	}
	for _, name := range []string{"2023-08-temp.csv", "2023-11.csv", "2023-11-temp.csv"} {
		if exists(t, filepath.Join(dir, name)) {
			t.Errorf("failed command left %s", name)
		}
	}
}

func TestInvalidArguments(t *testing.T) {
	dir := fixture(t)
	for _, args := range [][]string{
		{"year", "twenty"},
		{"year", "0"},
		{"months", "abc"},
		{"summary", "--month", "2023-13"},
		{"summary", "--month", "2023-08", "-f", "xml"},
		{"categories", "Transfer"},
		{"categories", "Expense", "Caviar"},
	} {
		var c *cobra.Command
		switch args[0] {
		case "year":
			c = CreateYearCommand()
		case "months":
			c = CreateMonthsCommand()
		case "summary":
			c = CreateSummaryCommand()
		case "categories":
			c = CreateCategoriesCommand()
		}
		if _, _, err := cmdtest.Execute(c, append(args[1:], "--dir", dir)); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}
