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

// Package store implements the flat record file of a single partition.
//
// A store keeps a header row followed by data rows sorted by day. It is
// backed by two files: the durable file, written only on Commit, and an
// optional working copy that mirrors memory after every mutation. The
// presence of the working copy signals unsaved edits.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/sboehler/ledgerbook/lib/record"
)

// Errors returned by store operations. A failed operation never mutates
// the store.
var (
	ErrDecode        = errors.New("cannot decode file")
	ErrMalformedDay  = errors.New("malformed day")
	ErrNotFound      = errors.New("record not found")
	ErrOutOfRange    = errors.New("index out of range")
	ErrUnknownField  = errors.New("unknown field")
	ErrNoWorkingCopy = errors.New("no working copy")
)

// Entry is a data row with its stable identifier. Identifiers are assigned
// when a row is loaded or inserted and are not persisted.
type Entry struct {
	ID  uuid.UUID
	Row record.Row
}

// Options configures a store.
type Options struct {
	Encoding Encoding
	Logger   *zerolog.Logger
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger == nil {
		l := zerolog.Nop()
		return &l
	}
	return o.Logger
}

// Store is an ordered, header-prefixed sequence of rows.
type Store struct {
	path, working string
	opts          Options
	log           *zerolog.Logger

	header  record.Row
	entries []Entry
	dirty   bool
}

// Load reads the file at path. If it does not exist, a store containing
// only the header is created and persisted.
func Load(path string, opts Options) (*Store, error) {
	s, err := Read(path, opts)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	s = New(path, opts)
	if err := s.Commit(); err != nil {
		return nil, err
	}
	s.log.Info().Str("path", path).Msg("created partition file")
	return s, nil
}

// Read reads an existing file at path without ever writing to disk.
func Read(path string, opts Options) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := decode(b, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s := newStore(path, opts)
	rows := parse(text)
	if len(rows) == 0 {
		s.header = record.Header.Clone()
		return s, nil
	}
	s.header = rows[0]
	s.entries = make([]Entry, 0, len(rows)-1)
	for _, r := range rows[1:] {
		s.entries = append(s.entries, Entry{ID: uuid.New(), Row: r})
	}
	s.log.Debug().Str("path", path).Int("rows", len(s.entries)).Msg("loaded partition file")
	return s, nil
}

// New returns a header-only store for path. Nothing is written until the
// first commit.
func New(path string, opts Options) *Store {
	s := newStore(path, opts)
	s.header = record.Header.Clone()
	return s
}

func newStore(path string, opts Options) *Store {
	return &Store{
		path: path,
		opts: opts,
		log:  opts.logger(),
	}
}

// AttachWorkingCopy sets the working copy path and writes the current
// state to it.
func (s *Store) AttachWorkingCopy(path string) error {
	if err := s.write(path, s.entries); err != nil {
		return err
	}
	s.working = path
	return nil
}

// Insert adds a row before the first data row with a strictly greater day,
// or at the end. Rows with an equal day keep their relative order.
func (s *Store) Insert(row record.Row) (uuid.UUID, error) {
	day, err := row.Day()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrMalformedDay, row.Field(record.Day))
	}
	idx := len(s.entries)
	for i, e := range s.entries {
		d, err := e.Row.Day()
		if err != nil {
			s.log.Warn().Str("row", e.Row.String()).Msg("existing row has a malformed day, treating it as day 0")
		}
		if d > day {
			idx = i
			break
		}
	}
	e := Entry{ID: uuid.New(), Row: row.Clone()}
	next := slices.Insert(slices.Clone(s.entries), idx, e)
	if err := s.apply(next); err != nil {
		return uuid.Nil, err
	}
	s.log.Debug().Str("row", row.String()).Int("index", idx+1).Msg("added entry")
	return e.ID, nil
}

// Replace overwrites the first data row equal to old with row. The
// position and identifier of the row are preserved.
func (s *Store) Replace(old, row record.Row) error {
	idx := slices.IndexFunc(s.entries, func(e Entry) bool { return e.Row.Equal(old) })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, old)
	}
	return s.replaceAt(idx, row)
}

// ReplaceID overwrites the data row with the given identifier.
func (s *Store) ReplaceID(id uuid.UUID, row record.Row) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return s.replaceAt(idx, row)
}

func (s *Store) replaceAt(idx int, row record.Row) error {
	next := slices.Clone(s.entries)
	old := next[idx].Row
	next[idx] = Entry{ID: next[idx].ID, Row: row.Clone()}
	if err := s.apply(next); err != nil {
		return err
	}
	s.log.Debug().Str("old", old.String()).Str("new", row.String()).Msg("replaced entry")
	return nil
}

// DeleteAt removes the data row at the 1-based index i. Index 1 is the
// first row after the header.
func (s *Store) DeleteAt(i int) (record.Row, error) {
	if i < 1 || i > len(s.entries) {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfRange, i, len(s.entries))
	}
	removed := s.entries[i-1].Row
	next := slices.Delete(slices.Clone(s.entries), i-1, i)
	if err := s.apply(next); err != nil {
		return nil, err
	}
	s.log.Debug().Str("row", removed.String()).Msg("removed entry")
	return removed.Clone(), nil
}

// DeleteID removes the data row with the given identifier.
func (s *Store) DeleteID(id uuid.UUID) (record.Row, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return s.DeleteAt(idx + 1)
}

// Commit overwrites the durable file with the in-memory rows, header
// included.
func (s *Store) Commit() error {
	if err := s.write(s.path, s.entries); err != nil {
		return err
	}
	s.dirty = false
	s.log.Debug().Str("path", s.path).Msg("committed")
	return nil
}

// DiscardWorkingCopy deletes the working copy file. Memory and the durable
// file are not affected.
func (s *Store) DiscardWorkingCopy() error {
	if s.working == "" {
		return ErrNoWorkingCopy
	}
	if err := os.Remove(s.working); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoWorkingCopy, s.working)
		}
		return err
	}
	s.log.Debug().Str("path", s.working).Msg("discarded working copy")
	return nil
}

// apply writes next to the working copy, if any, and then makes it the
// current state.
func (s *Store) apply(next []Entry) error {
	if s.working != "" {
		if err := s.write(s.working, next); err != nil {
			return err
		}
	}
	s.entries = next
	s.dirty = true
	return nil
}

func (s *Store) write(path string, entries []Entry) error {
	b, err := encode(format(s.header, entries), s.opts.Encoding)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return atomic.WriteFile(path, bytes.NewReader(b))
}

// Sort orders the rows by day. Rows with an equal day keep their relative
// order, rows with a malformed day count as day 0.
func (s *Store) Sort() error {
	next := slices.Clone(s.entries)
	slices.SortStableFunc(next, func(a, b Entry) int {
		return dayOrZero(a.Row) - dayOrZero(b.Row)
	})
	if slices.EqualFunc(next, s.entries, func(a, b Entry) bool { return a.ID == b.ID }) {
		return nil
	}
	return s.apply(next)
}

func dayOrZero(r record.Row) int {
	d, err := r.Day()
	if err != nil {
		return 0
	}
	return d
}

// Encode returns the file content of the current rows in the given
// encoding.
func (s *Store) Encode(enc Encoding) ([]byte, error) {
	b, err := encode(format(s.header, s.entries), enc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return b, nil
}

func (s *Store) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.entries, func(e Entry) bool { return e.ID == id })
}

// Path returns the path of the durable file.
func (s *Store) Path() string {
	return s.path
}

// WorkingPath returns the path of the working copy, if attached.
func (s *Store) WorkingPath() string {
	return s.working
}

// Dirty reports whether the store has been mutated since the last commit.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Header returns the header row.
func (s *Store) Header() record.Row {
	return s.header.Clone()
}

// Len returns the number of rows, header included.
func (s *Store) Len() int {
	return len(s.entries) + 1
}

// Rows returns the data rows in order.
func (s *Store) Rows() []record.Row {
	res := make([]record.Row, 0, len(s.entries))
	for _, e := range s.entries {
		res = append(res, e.Row.Clone())
	}
	return res
}

// Entries returns the data rows with their identifiers.
func (s *Store) Entries() []Entry {
	res := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		res = append(res, Entry{ID: e.ID, Row: e.Row.Clone()})
	}
	return res
}

// Row returns the row at position r, where 0 is the header.
func (s *Store) Row(r int) (record.Row, error) {
	if r < 0 || r >= s.Len() {
		return nil, fmt.Errorf("%w: row %d", ErrOutOfRange, r)
	}
	if r == 0 {
		return s.Header(), nil
	}
	return s.entries[r-1].Row.Clone(), nil
}

// Value returns the field at row r and column c, where row 0 is the header.
func (s *Store) Value(r, c int) (string, error) {
	row, err := s.Row(r)
	if err != nil {
		return "", err
	}
	if c < 0 || c >= len(row) {
		return "", fmt.Errorf("%w: column %d of row %d", ErrOutOfRange, c, r)
	}
	return row[c], nil
}

// HeaderIndex returns the column of the named header field.
func (s *Store) HeaderIndex(name string) (int, error) {
	name = strings.TrimSpace(name)
	if idx := slices.Index(s.header, name); idx >= 0 {
		return idx, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownField, name)
}
