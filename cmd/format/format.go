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

package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/sboehler/ledgerbook/cmd/flags"
	"github.com/sboehler/ledgerbook/lib/config"
	"github.com/sboehler/ledgerbook/lib/logger"
	"github.com/sboehler/ledgerbook/lib/partition"
	"github.com/sboehler/ledgerbook/lib/scan"
	"github.com/sboehler/ledgerbook/lib/store"
)

// CreateCmd creates the command.
func CreateCmd() *cobra.Command {

	var r runner

	c := &cobra.Command{
		Use:   "format [YYYY-MM...]",
		Short: "format the monthly files",
		Long: `Rewrite the given months, or all months, in canonical form: trimmed
fields, CR line endings and rows ordered by day. Months with unsaved
changes are skipped.`,
		RunE: r.run,
	}
	r.setupFlags(c)
	return c
}

const concurrency = 10

// ErrUnformatted is returned by format --check if a file would change.
var ErrUnformatted = errors.New("file is not formatted")

type runner struct {
	check bool
	to    string
}

func (r *runner) setupFlags(c *cobra.Command) {
	c.Flags().BoolVar(&r.check, "check", false, "only report files which are not formatted")
	c.Flags().StringVar(&r.to, "to", "", "write files in this encoding (default: configured encoding)")
}

func (r *runner) run(cmd *cobra.Command, args []string) error {
	file, err := cmd.Flags().GetString(flags.Config)
	if err != nil {
		return err
	}
	cfg, err := config.Load(file, cmd.Flags())
	if err != nil {
		return err
	}
	from, err := store.ParseEncoding(cfg.Encoding)
	if err != nil {
		return err
	}
	to := from
	if r.to != "" {
		if to, err = store.ParseEncoding(r.to); err != nil {
			return err
		}
	}
	log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)
	listing, err := scan.Dir(cfg.Dir)
	if err != nil {
		return err
	}
	parts, err := targets(listing, args)
	if err != nil {
		return err
	}
	f := formatter{
		dir:   cfg.Dir,
		check: r.check,
		from:  store.Options{Encoding: from, Logger: &log},
		to:    to,
		out:   cmd.OutOrStdout(),
	}
	return f.formatAll(listing, parts)
}

// targets returns the partitions named in args, or all partitions.
func targets(listing *scan.Listing, args []string) ([]partition.Partition, error) {
	var res []partition.Partition
	if len(args) == 0 {
		for _, y := range listing.Years() {
			res = append(res, listing.Partitions(y)...)
		}
		return res, nil
	}
	for _, arg := range args {
		p, err := partition.Parse(arg)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}

type formatter struct {
	dir   string
	check bool
	from  store.Options
	to    store.Encoding

	mu  sync.Mutex
	out io.Writer
}

func (f *formatter) formatAll(listing *scan.Listing, parts []partition.Partition) (errors error) {
	var (
		mu   sync.Mutex
		sema = make(chan bool, concurrency)
	)
	for _, p := range parts {
		p := p
		if listing.Unsaved(p) {
			f.report("%s: skipped, unsaved changes pending\n", p)
			continue
		}
		sema <- true
		go func() {
			defer func() { <-sema }()
			if err := f.formatFile(p); err != nil {
				mu.Lock()
				defer mu.Unlock()
				errors = multierr.Append(errors, err)
			}
		}()
	}
	for i := 0; i < concurrency; i++ {
		sema <- true
	}
	return errors
}

func (f *formatter) formatFile(p partition.Partition) error {
	target := p.File(f.dir)
	orig, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: no such month", p)
		}
		return err
	}
	s, err := store.Read(target, f.from)
	if err != nil {
		return err
	}
	if err := s.Sort(); err != nil {
		return err
	}
	b, err := s.Encode(f.to)
	if err != nil {
		return err
	}
	if bytes.Equal(orig, b) {
		return nil
	}
	if f.check {
		f.report("%s: not formatted\n", p)
		return fmt.Errorf("%s: %w", target, ErrUnformatted)
	}
	if err := atomic.WriteFile(target, bytes.NewReader(b)); err != nil {
		return err
	}
	f.report("%s: formatted\n", p)
	return nil
}

func (f *formatter) report(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.out, format, args...)
}
