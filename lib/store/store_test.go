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

package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sboehler/ledgerbook/lib/record"
)

const header = "Day,Vendor/Company,Transaction/Type,Category,Subcategory,Amount,Note\r"

func row(day, vendor, amount string) record.Row {
	return record.Row{day, vendor, "Expense", "Food", "Groceries", amount, ""}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "2023-08.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func days(s *Store) []string {
	var res []string
	for _, r := range s.Rows() {
		res = append(res, r.Field(record.Day))
	}
	return res
}

func TestLoadCreatesMissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "2023-08.csv")

	s, err := Load(p, Options{})

	if err != nil {
		t.Fatalf("Load(%q) returned unexpected error: %v", p, err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if got := readFile(t, p); got != header {
		t.Errorf("file content = %q, want %q", got, header)
	}
}

func TestLoadTrimsFields(t *testing.T) {
	p := writeFile(t, header+" 3 ,  Acme ,Expense, Food,Groceries , 12.50 , \r")

	s, err := Load(p, Options{})

	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	want := []record.Row{row("3", "Acme", "12.50")}
	if diff := cmp.Diff(want, s.Rows()); diff != "" {
		t.Errorf("Rows() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDecodeFailure(t *testing.T) {
	p := writeFile(t, header+"3,Caf\xe9,Expense,Food,Restaurants,4.00,\r")

	if _, err := Load(p, Options{}); !errors.Is(err, ErrDecode) {
		t.Fatalf("Load() returned %v, want %v", err, ErrDecode)
	}

	s, err := Load(p, Options{Encoding: Latin1})
	if err != nil {
		t.Fatalf("Load() with latin1 returned unexpected error: %v", err)
	}
	if got, _ := s.Value(1, record.Vendor); got != "Café" {
		t.Errorf("Value(1, %d) = %q, want %q", record.Vendor, got, "Café")
	}
}

func TestLoadCommitIsIdempotent(t *testing.T) {
	content := header + "3,Acme,Expense,Food,Groceries,12.50,\r" + "20,Employer,Income,Employment,Salary,3000.00,August\r"
	p := writeFile(t, content)
	s, err := Load(p, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Commit(); err != nil {
		t.Fatalf("Commit() returned unexpected error: %v", err)
	}

	if got := readFile(t, p); got != content {
		t.Errorf("file content = %q, want %q", got, content)
	}
}

func TestCommitCompactsSeparators(t *testing.T) {
	p := writeFile(t, "Day, Vendor/Company, Transaction/Type, Category, Subcategory, Amount, Note\n"+
		"3, Acme, Expense, Food, Groceries, 12.50, \n")
	s, err := Load(p, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if i, err := s.HeaderIndex("Amount"); err != nil || i != record.Amount {
		t.Errorf("HeaderIndex(Amount) = %d, %v, want %d", i, err, record.Amount)
	}

	if err := s.Commit(); err != nil {
		t.Fatalf("Commit() returned unexpected error: %v", err)
	}

	want := header + "3,Acme,Expense,Food,Groceries,12.50,\r"
	if got := readFile(t, p); got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}

func TestNewWritesOnCommit(t *testing.T) {
	p := filepath.Join(t.TempDir(), "2023-08.csv")

	s := New(p, Options{})

	if _, err := os.Stat(p); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("New() touched %s: %v", p, err)
	}
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit() returned unexpected error: %v", err)
	}
	if got := readFile(t, p); got != header {
		t.Errorf("file content = %q, want %q", got, header)
	}
}

func TestInsertKeepsDayOrder(t *testing.T) {
	var tests = []struct {
		desc    string
		initial []string
		insert  string
		want    []string
	}{
		{"empty", nil, "15", []string{"15"}},
		{"middle", []string{"3", "20"}, "15", []string{"3", "15", "20"}},
		{"front", []string{"3", "20"}, "1", []string{"1", "3", "20"}},
		{"end", []string{"3", "20"}, "25", []string{"3", "20", "25"}},
		{"same day goes after", []string{"3", "3", "20"}, "3", []string{"3", "3", "3", "20"}},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			s, err := Load(filepath.Join(t.TempDir(), "p.csv"), Options{})
			if err != nil {
				t.Fatal(err)
			}
			for _, d := range test.initial {
				if _, err := s.Insert(row(d, "initial", "1.00")); err != nil {
					t.Fatal(err)
				}
			}

			if _, err := s.Insert(row(test.insert, "new", "1.00")); err != nil {
				t.Fatalf("Insert() returned unexpected error: %v", err)
			}

			if diff := cmp.Diff(test.want, days(s)); diff != "" {
				t.Errorf("days mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInsertSameDayIsStable(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "p.csv"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{"a", "b", "c"} {
		if _, err := s.Insert(row("7", v, "1.00")); err != nil {
			t.Fatal(err)
		}
	}

	var got []string
	for _, r := range s.Rows() {
		got = append(got, r.Field(record.Vendor))
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("vendors mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertMalformedDay(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "p.csv"), Options{})
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Insert(row("x", "Acme", "1.00"))

	if !errors.Is(err, ErrMalformedDay) {
		t.Errorf("Insert() returned %v, want %v", err, ErrMalformedDay)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestReplace(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "p.csv"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{"3", "10", "20"} {
		if _, err := s.Insert(row(d, "Acme", "1.00")); err != nil {
			t.Fatal(err)
		}
	}
	before := s.Entries()

	if err := s.Replace(row("10", "Acme", "1.00"), row("10", "Acme", "2.00")); err != nil {
		t.Fatalf("Replace() returned unexpected error: %v", err)
	}

	after := s.Entries()
	if after[1].ID != before[1].ID {
		t.Errorf("Replace() changed the identifier of the row")
	}
	if diff := cmp.Diff(row("10", "Acme", "2.00"), after[1].Row); diff != "" {
		t.Errorf("replaced row mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceNotFound(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "p.csv"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(row("3", "Acme", "1.00")); err != nil {
		t.Fatal(err)
	}
	want := s.Rows()

	err = s.Replace(row("3", "Acme", "1.0"), row("3", "Acme", "5.00"))

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace() returned %v, want %v", err, ErrNotFound)
	}
	if diff := cmp.Diff(want, s.Rows()); diff != "" {
		t.Errorf("Rows() mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceID(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "p.csv"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	// duplicates are addressed by identifier, not by value
	if _, err := s.Insert(row("3", "Acme", "1.00")); err != nil {
		t.Fatal(err)
	}
	id, err := s.Insert(row("3", "Acme", "1.00"))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.ReplaceID(id, row("3", "Acme", "9.00")); err != nil {
		t.Fatalf("ReplaceID() returned unexpected error: %v", err)
	}

	want := []record.Row{row("3", "Acme", "1.00"), row("3", "Acme", "9.00")}
	if diff := cmp.Diff(want, s.Rows()); diff != "" {
		t.Errorf("Rows() mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteAt(t *testing.T) {
	var tests = []struct {
		index   int
		wantErr bool
		want    []string
	}{
		{0, true, []string{"1", "2", "3"}},
		{1, false, []string{"2", "3"}},
		{2, false, []string{"1", "3"}},
		{3, false, []string{"1", "2"}},
		{4, true, []string{"1", "2", "3"}},
		{-1, true, []string{"1", "2", "3"}},
	}
	for _, test := range tests {
		s, err := Load(filepath.Join(t.TempDir(), "p.csv"), Options{})
		if err != nil {
			t.Fatal(err)
		}
		for _, d := range []string{"1", "2", "3"} {
			if _, err := s.Insert(row(d, "Acme", "1.00")); err != nil {
				t.Fatal(err)
			}
		}

		_, err = s.DeleteAt(test.index)

		if test.wantErr != errors.Is(err, ErrOutOfRange) {
			t.Errorf("DeleteAt(%d) returned %v, wantErr %v", test.index, err, test.wantErr)
		}
		if diff := cmp.Diff(test.want, days(s)); diff != "" {
			t.Errorf("DeleteAt(%d): days mismatch (-want +got):\n%s", test.index, diff)
		}
	}
}

func TestWorkingCopyMirrorsMemory(t *testing.T) {
	dir := t.TempDir()
	durable, working := filepath.Join(dir, "2023-08.csv"), filepath.Join(dir, "2023-08-temp.csv")
	s, err := Load(durable, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AttachWorkingCopy(working); err != nil {
		t.Fatalf("AttachWorkingCopy() returned unexpected error: %v", err)
	}

	if _, err := s.Insert(row("5", "Acme", "12.50")); err != nil {
		t.Fatal(err)
	}

	want := header + "5,Acme,Expense,Food,Groceries,12.50,\r"
	if got := readFile(t, working); got != want {
		t.Errorf("working copy = %q, want %q", got, want)
	}
	if got := readFile(t, durable); got != header {
		t.Errorf("durable file = %q, want %q", got, header)
	}
	if !s.Dirty() {
		t.Errorf("Dirty() = false after insert, want true")
	}

	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, durable); got != want {
		t.Errorf("durable file after commit = %q, want %q", got, want)
	}
	if s.Dirty() {
		t.Errorf("Dirty() = true after commit, want false")
	}
}

func TestDiscardWorkingCopy(t *testing.T) {
	dir := t.TempDir()
	working := filepath.Join(dir, "p-temp.csv")
	s, err := Load(filepath.Join(dir, "p.csv"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AttachWorkingCopy(working); err != nil {
		t.Fatal(err)
	}

	if err := s.DiscardWorkingCopy(); err != nil {
		t.Fatalf("DiscardWorkingCopy() returned unexpected error: %v", err)
	}
	if _, err := os.Stat(working); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("working copy still exists: %v", err)
	}
	if err := s.DiscardWorkingCopy(); !errors.Is(err, ErrNoWorkingCopy) {
		t.Errorf("second DiscardWorkingCopy() returned %v, want %v", err, ErrNoWorkingCopy)
	}
}

func TestValueAndHeaderIndex(t *testing.T) {
	p := writeFile(t, header+"3,Acme,Expense,Food,Groceries,12.50\r")
	s, err := Load(p, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if i, err := s.HeaderIndex(" Amount "); err != nil || i != record.Amount {
		t.Errorf("HeaderIndex(Amount) = %d, %v, want %d", i, err, record.Amount)
	}
	if _, err := s.HeaderIndex("Price"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("HeaderIndex(Price) returned %v, want %v", err, ErrUnknownField)
	}
	if v, err := s.Value(1, record.Amount); err != nil || v != "12.50" {
		t.Errorf("Value(1, Amount) = %q, %v, want 12.50", v, err)
	}
	// partially filled row without a note
	if _, err := s.Value(1, record.Note); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Value(1, Note) returned %v, want %v", err, ErrOutOfRange)
	}
	if _, err := s.Value(2, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Value(2, 0) returned %v, want %v", err, ErrOutOfRange)
	}
}

func TestSort(t *testing.T) {
	p := writeFile(t, header+"9,A,Expense,Food,Groceries,1,\r3,B,Expense,Food,Groceries,1,\rx,C,Expense,Food,Groceries,1,\r3,D,Expense,Food,Groceries,1,\r")
	s, err := Read(p, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Sort(); err != nil {
		t.Fatalf("Sort() returned unexpected error: %v", err)
	}

	var vendors []string
	for _, r := range s.Rows() {
		vendors = append(vendors, r.Field(record.Vendor))
	}
	if diff := cmp.Diff([]string{"C", "B", "D", "A"}, vendors); diff != "" {
		t.Errorf("unexpected order (-want, +got):\n%s", diff)
	}
	if !s.Dirty() {
		t.Error("Dirty() = false after reordering")
	}
}

func TestSortUnchanged(t *testing.T) {
	p := writeFile(t, header+"1,A,Expense,Food,Groceries,1,\r2,B,Expense,Food,Groceries,1,\r")
	s, err := Read(p, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Sort(); err != nil {
		t.Fatalf("Sort() returned unexpected error: %v", err)
	}

	if s.Dirty() {
		t.Error("Dirty() = true for sorted rows")
	}
}

func TestEncode(t *testing.T) {
	p := writeFile(t, header+"1,Café,Expense,Food,Groceries,1,\n")
	s, err := Read(p, Options{})
	if err != nil {
		t.Fatal(err)
	}

	utf8, err := s.Encode(UTF8)
	if err != nil {
		t.Fatal(err)
	}
	latin1, err := s.Encode(Latin1)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(utf8), header+"1,Café,Expense,Food,Groceries,1,\r"; got != want {
		t.Errorf("Encode(UTF8) = %q, want %q", got, want)
	}
	if len(latin1) != len(utf8)-1 {
		t.Errorf("Encode(Latin1) has %d bytes, want %d", len(latin1), len(utf8)-1)
	}
	if got := readFile(t, p); got != header+"1,Café,Expense,Food,Groceries,1,\n" {
		t.Errorf("Encode changed the file: %q", got)
	}
}
