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

// Package partition names the files holding one month of records.
package partition

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sboehler/ledgerbook/lib/record"
)

// File name parts.
const (
	Ext           = ".csv"
	WorkingSuffix = "-temp"
)

// ErrInvalid is returned for malformed partitions.
var ErrInvalid = errors.New("invalid partition")

// Partition is a calendar month.
type Partition struct {
	Year  int
	Month time.Month
}

// New creates a partition, checking the year and month.
func New(year int, month time.Month) (Partition, error) {
	if year < 1 || year > 9999 {
		return Partition{}, fmt.Errorf("%w: year %d", ErrInvalid, year)
	}
	if month < time.January || month > time.December {
		return Partition{}, fmt.Errorf("%w: month %d", ErrInvalid, month)
	}
	return Partition{Year: year, Month: month}, nil
}

// Parse parses a partition in the form YYYY-MM.
func Parse(s string) (Partition, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Partition{}, fmt.Errorf("%w: %q, expected YYYY-MM", ErrInvalid, s)
	}
	return New(t.Year(), t.Month())
}

// Current returns the partition of the given time.
func Current(t time.Time) Partition {
	return Partition{Year: t.Year(), Month: t.Month()}
}

func (p Partition) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Days returns the number of days of the month.
func (p Partition) Days() int {
	return record.DaysIn(p.Year, p.Month)
}

// File returns the path of the durable file under dir.
func (p Partition) File(dir string) string {
	return filepath.Join(dir, p.String()+Ext)
}

// WorkingFile returns the path of the working copy under dir.
func (p Partition) WorkingFile(dir string) string {
	return filepath.Join(dir, p.String()+WorkingSuffix+Ext)
}

// Match parses a file name produced by File or WorkingFile.
func Match(name string) (p Partition, working bool, ok bool) {
	base, found := strings.CutSuffix(filepath.Base(name), Ext)
	if !found {
		return p, false, false
	}
	base, working = strings.CutSuffix(base, WorkingSuffix)
	if len(base) != len("2006-01") {
		return p, false, false
	}
	p, err := Parse(base)
	if err != nil {
		return p, false, false
	}
	return p, working, true
}
