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

// Package ledger manages the records of one month.
//
// A ledger is opened for a partition, edited through Add, Replace and
// Delete, and persisted with Commit. Close commits and removes the working
// copy, Abort removes it without committing. A closed ledger rejects every
// further operation with ErrClosed. The plain accessors (Partition, Path,
// Closed, Dirty, Len, Rows, Entries) stay readable and show the state at
// the time of closing.
package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sboehler/ledgerbook/lib/partition"
	"github.com/sboehler/ledgerbook/lib/readout"
	"github.com/sboehler/ledgerbook/lib/record"
	"github.com/sboehler/ledgerbook/lib/store"
	"github.com/sboehler/ledgerbook/lib/taxonomy"
)

// ErrClosed is returned by operations on a closed ledger.
var ErrClosed = errors.New("ledger is closed")

// ErrUnknownField is returned when a header field does not exist.
var ErrUnknownField = store.ErrUnknownField

// Options configures a ledger.
type Options struct {
	Taxonomy *taxonomy.Taxonomy
	Encoding store.Encoding
	Logger   *zerolog.Logger

	// DeferCreate delays creating a missing partition file until the
	// first commit.
	DeferCreate bool
}

func (o Options) taxonomy() *taxonomy.Taxonomy {
	if o.Taxonomy == nil {
		return taxonomy.Default()
	}
	return o.Taxonomy
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger == nil {
		l := zerolog.Nop()
		return &l
	}
	return o.Logger
}

func (o Options) store() store.Options {
	return store.Options{Encoding: o.Encoding, Logger: o.Logger}
}

// Ledger is an open partition.
type Ledger struct {
	partition partition.Partition
	store     *store.Store
	tax       *taxonomy.Taxonomy
	log       *zerolog.Logger
	closed    bool
}

// Open loads or creates the partition file under dir and writes its
// working copy.
func Open(dir string, p partition.Partition, opts Options) (*Ledger, error) {
	if _, err := partition.New(p.Year, p.Month); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s, err := load(p.File(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	if err := s.AttachWorkingCopy(p.WorkingFile(dir)); err != nil {
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	log := opts.logger().With().Str("partition", p.String()).Logger()
	log.Debug().Str("working", s.WorkingPath()).Msg("opened")
	return &Ledger{
		partition: p,
		store:     s,
		tax:       opts.taxonomy(),
		log:       &log,
	}, nil
}

func load(path string, opts Options) (*store.Store, error) {
	if !opts.DeferCreate {
		return store.Load(path, opts.store())
	}
	s, err := store.Read(path, opts.store())
	if errors.Is(err, fs.ErrNotExist) {
		return store.New(path, opts.store()), nil
	}
	return s, err
}

// Partition returns the partition of the ledger.
func (l *Ledger) Partition() partition.Partition {
	return l.partition
}

// Taxonomy returns the taxonomy entries are validated against.
func (l *Ledger) Taxonomy() *taxonomy.Taxonomy {
	return l.tax
}

// Path returns the durable file path.
func (l *Ledger) Path() string {
	return l.store.Path()
}

// WorkingPath returns the working copy path.
func (l *Ledger) WorkingPath() string {
	return l.store.WorkingPath()
}

// Closed reports whether Close has completed.
func (l *Ledger) Closed() bool {
	return l.closed
}

// Dirty reports whether there are uncommitted edits.
func (l *Ledger) Dirty() bool {
	return l.store.Dirty()
}

// Len returns the number of rows, header included.
func (l *Ledger) Len() int {
	return l.store.Len()
}

// Rows returns the data rows in order.
func (l *Ledger) Rows() []record.Row {
	return l.store.Rows()
}

// Entries returns the data rows with their identifiers.
func (l *Ledger) Entries() []store.Entry {
	return l.store.Entries()
}

// HeaderIndex returns the column of a header field.
func (l *Ledger) HeaderIndex(name string) (int, error) {
	if l.closed {
		return -1, ErrClosed
	}
	return l.store.HeaderIndex(name)
}

// ValueAt returns the field at row r and column c. Row 0 is the header.
func (l *Ledger) ValueAt(r, c int) (string, error) {
	if l.closed {
		return "", ErrClosed
	}
	return l.store.Value(r, c)
}

// Add validates the entry and inserts it in day order.
func (l *Ledger) Add(e record.Entry) (uuid.UUID, error) {
	if l.closed {
		return uuid.Nil, ErrClosed
	}
	if err := e.Validate(l.tax, l.partition.Year, l.partition.Month); err != nil {
		return uuid.Nil, err
	}
	return l.store.Insert(e.Row())
}

// AddRow inserts a raw row in day order without validating its fields.
func (l *Ledger) AddRow(row record.Row) (uuid.UUID, error) {
	if l.closed {
		return uuid.Nil, ErrClosed
	}
	return l.store.Insert(row)
}

// Replace overwrites the row equal to old.
func (l *Ledger) Replace(old, row record.Row) error {
	if l.closed {
		return ErrClosed
	}
	return l.store.Replace(old, row)
}

// ReplaceAt validates the entry and overwrites the data row at the
// 1-based index, keeping its position.
func (l *Ledger) ReplaceAt(index int, e record.Entry) error {
	if l.closed {
		return ErrClosed
	}
	entries := l.store.Entries()
	if index < 1 || index > len(entries) {
		return fmt.Errorf("%w: %d not in [1, %d]", store.ErrOutOfRange, index, len(entries))
	}
	if err := e.Validate(l.tax, l.partition.Year, l.partition.Month); err != nil {
		return err
	}
	return l.store.ReplaceID(entries[index-1].ID, e.Row())
}

// Delete removes the data row at the 1-based index.
func (l *Ledger) Delete(index int) (record.Row, error) {
	if l.closed {
		return nil, ErrClosed
	}
	return l.store.DeleteAt(index)
}

// Commit writes the rows to the durable file.
func (l *Ledger) Commit() error {
	if l.closed {
		return ErrClosed
	}
	if err := l.store.Commit(); err != nil {
		return err
	}
	l.log.Info().Str("path", l.store.Path()).Msg("changes saved")
	return nil
}

// Close commits and then removes the working copy. If the commit fails,
// the ledger stays open.
func (l *Ledger) Close() error {
	if err := l.Commit(); err != nil {
		return err
	}
	l.closed = true
	return l.store.DiscardWorkingCopy()
}

// Abort closes the ledger without saving. The working copy is removed and
// the durable file is left as it was.
func (l *Ledger) Abort() error {
	if l.closed {
		return ErrClosed
	}
	l.closed = true
	l.log.Debug().Msg("aborted")
	return l.store.DiscardWorkingCopy()
}

// Summarize computes the category totals. The report is always returned;
// the error combines the diagnostics of rows that could not be counted.
func (l *Ledger) Summarize() (*readout.Report, error) {
	if l.closed {
		return nil, ErrClosed
	}
	return readout.Summarize(l.tax, l.partition.String(), l.store.Rows(), l.log)
}
