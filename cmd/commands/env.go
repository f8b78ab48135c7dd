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

// Package commands contains the subcommands of ledgerbook.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/sboehler/ledgerbook/cmd/flags"
	"github.com/sboehler/ledgerbook/lib/config"
	"github.com/sboehler/ledgerbook/lib/ledger"
	"github.com/sboehler/ledgerbook/lib/logger"
	"github.com/sboehler/ledgerbook/lib/partition"
	"github.com/sboehler/ledgerbook/lib/record"
	"github.com/sboehler/ledgerbook/lib/store"
)

var errUnsaved = errors.New("unsaved changes pending")

// env is the resolved configuration of a command invocation.
type env struct {
	dir  string
	opts ledger.Options
	log  zerolog.Logger
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	file, err := cmd.Flags().GetString(flags.Config)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(file, cmd.Flags())
	if err != nil {
		return nil, err
	}
	opts, err := cfg.LedgerOptions()
	if err != nil {
		return nil, err
	}
	e := &env{
		dir:  cfg.Dir,
		opts: opts,
		log:  logger.New(cmd.ErrOrStderr(), cfg.LogLevel),
	}
	e.opts.Logger = &e.log
	e.log.Debug().Str("dir", e.dir).Str("encoding", cfg.Encoding).Msg("configured")
	return e, nil
}

// withLedger opens the partition and runs f. On success the ledger is
// closed, which saves the rows and removes the working copy. If f fails the
// ledger is aborted and the month file is left as it was. A missing month
// file is only created by a successful command.
func (e *env) withLedger(p partition.Partition, f func(*ledger.Ledger) error) error {
	if err := e.checkSaved(p); err != nil {
		return err
	}
	opts := e.opts
	opts.DeferCreate = true
	l, err := ledger.Open(e.dir, p, opts)
	if err != nil {
		return err
	}
	if err := f(l); err != nil {
		return multierr.Append(fmt.Errorf("%s: %w", p, err), l.Abort())
	}
	return l.Close()
}

// checkSaved fails if a working copy of p exists, which means another
// session has not saved its edits yet.
func (e *env) checkSaved(p partition.Partition) error {
	_, err := os.Stat(p.WorkingFile(e.dir))
	if err == nil {
		return fmt.Errorf("%s: %w in %s", p, errUnsaved, p.WorkingFile(e.dir))
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// rows reads the data rows of p without writing anything. A missing file
// has no rows.
func (e *env) rows(p partition.Partition) ([]record.Row, error) {
	s, err := store.Read(p.File(e.dir), store.Options{Encoding: e.opts.Encoding, Logger: e.opts.Logger})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Rows(), nil
}
