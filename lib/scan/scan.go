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

// Package scan lists the partitions present in a directory.
package scan

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"golang.org/x/exp/slices"

	"github.com/sboehler/ledgerbook/lib/partition"
)

// Listing is the set of partition files found in a directory.
type Listing struct {
	durable map[partition.Partition]bool
	working map[partition.Partition]bool
}

// Dir reads the partition files in dir. A missing directory yields an
// empty listing. Other files are ignored.
func Dir(dir string) (*Listing, error) {
	l := &Listing{
		durable: make(map[partition.Partition]bool),
		working: make(map[partition.Partition]bool),
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p, working, ok := partition.Match(e.Name())
		if !ok {
			continue
		}
		if working {
			l.working[p] = true
		} else {
			l.durable[p] = true
		}
	}
	return l, nil
}

// Years returns the distinct years, ascending.
func (l *Listing) Years() []int {
	var res []int
	for p := range l.durable {
		if !slices.Contains(res, p.Year) {
			res = append(res, p.Year)
		}
	}
	slices.Sort(res)
	return res
}

// Months returns the months of a year in calendar order. Working copies
// are not counted.
func (l *Listing) Months(year int) []time.Month {
	var res []time.Month
	for p := range l.durable {
		if p.Year == year {
			res = append(res, p.Month)
		}
	}
	slices.Sort(res)
	return res
}

// Partitions returns all partitions of a year in calendar order.
func (l *Listing) Partitions(year int) []partition.Partition {
	var res []partition.Partition
	for _, m := range l.Months(year) {
		res = append(res, partition.Partition{Year: year, Month: m})
	}
	return res
}

// Unsaved reports whether a working copy exists for the partition.
func (l *Listing) Unsaved(p partition.Partition) bool {
	return l.working[p]
}

// AllUnsaved returns every partition with a working copy, oldest first.
func (l *Listing) AllUnsaved() []partition.Partition {
	var res []partition.Partition
	for p := range l.working {
		res = append(res, p)
	}
	slices.SortFunc(res, func(a, b partition.Partition) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return int(a.Month) - int(b.Month)
	})
	return res
}
