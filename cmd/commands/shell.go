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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/sboehler/ledgerbook/cmd/flags"
	"github.com/sboehler/ledgerbook/lib/ledger"
	"github.com/sboehler/ledgerbook/lib/record"
	"github.com/sboehler/ledgerbook/lib/store"
)

// CreateShellCommand creates the command.
func CreateShellCommand() *cobra.Command {

	var r shellRunner

	c := &cobra.Command{
		Use:   "shell",
		Short: "edit a month interactively",
		Long: `Open a month in an interactive session. Edits are kept in a working
copy until they are saved with "save" or "quit". Type "help" for the
list of commands.`,
		Args: cobra.NoArgs,
		RunE: r.run,
	}
	r.setupFlags(c)
	return c
}

type shellRunner struct {
	month flags.PartitionFlag
}

func (r *shellRunner) setupFlags(c *cobra.Command) {
	c.Flags().Var(&r.month, "month", "month (default current month)")
}

func (r *shellRunner) run(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	p := r.month.ValueOr(time.Now())
	if err := e.checkSaved(p); err != nil {
		return err
	}
	l, err := ledger.Open(e.dir, p, e.opts)
	if err != nil {
		return err
	}
	s := &session{ledger: l, out: cmd.OutOrStdout()}

	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)
	state.SetCompleter(complete)
	if f, err := os.Open(historyFile()); err == nil {
		state.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(state)

	fmt.Fprintf(s.out, "%s: %d rows. Type 'help' for commands.\n", p, l.Len())
	for {
		prompt := p.String()
		if l.Dirty() {
			prompt += "*"
		}
		input, err := state.Prompt(prompt + "> ")
		eof := errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF)
		switch {
		case eof:
			input = "quit"
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		default:
			state.AppendHistory(input)
		}
		done, err := s.exec(input)
		if done || eof {
			return err
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	}
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ledgerbook_history")
}

func saveHistory(state *liner.State) {
	path := historyFile()
	if path == "" {
		return
	}
	if f, err := os.Create(path); err == nil {
		state.WriteHistory(f)
		f.Close()
	}
}

var shellCommands = []string{"add", "edit", "del", "list", "summary", "save", "quit", "help"}

func complete(line string) []string {
	var res []string
	lower := strings.ToLower(line)
	for _, c := range shellCommands {
		if strings.HasPrefix(c, lower) {
			res = append(res, c)
		}
	}
	return res
}

// session executes shell commands against an open ledger.
type session struct {
	ledger *ledger.Ledger
	out    io.Writer
}

// exec runs one command line. It returns true once the ledger has been
// closed.
func (s *session) exec(line string) (bool, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(name) {
	case "":
		return false, nil
	case "help", "?":
		s.help()
	case "add":
		return false, s.add(rest)
	case "edit":
		return false, s.edit(rest)
	case "del", "delete":
		return false, s.delete(rest)
	case "list", "ls":
		return false, s.list()
	case "summary":
		return false, s.summary()
	case "save":
		if err := s.ledger.Commit(); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "saved")
	case "quit", "exit", "q":
		if err := s.ledger.Close(); err != nil {
			return s.ledger.Closed(), err
		}
		fmt.Fprintln(s.out, "saved, bye")
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q, type 'help' for commands", name)
	}
	return false, nil
}

func (s *session) help() {
	fmt.Fprintln(s.out, `Commands:
  add DAY,VENDOR,KIND,CATEGORY,SUBCATEGORY,AMOUNT[,NOTE]
                   add a transaction
  edit ROW FIELDS  replace a row; empty fields keep their value
  del ROW          delete a row
  list             list the rows
  summary          show the category totals
  save             save the changes
  quit             save the changes and leave`)
}

// fields splits a comma-separated row, trimming each field.
func fields(s string) (record.Row, error) {
	parts := strings.Split(s, ",")
	if len(parts) > record.Width {
		return nil, fmt.Errorf("%w: %d fields, want at most %d", record.ErrInvalid, len(parts), record.Width)
	}
	row := make(record.Row, record.Width)
	for i, p := range parts {
		row[i] = strings.TrimSpace(p)
	}
	return row, nil
}

// index parses a 1-based row number followed by optional arguments.
func index(s string) (int, string, error) {
	n, rest, _ := strings.Cut(s, " ")
	i, err := strconv.Atoi(n)
	if err != nil {
		return 0, "", fmt.Errorf("invalid row number %q", n)
	}
	return i, strings.TrimSpace(rest), nil
}

func (s *session) add(args string) error {
	row, err := fields(args)
	if err != nil {
		return err
	}
	entry, err := record.FromRow(row)
	if err != nil {
		return err
	}
	id, err := s.ledger.Add(entry)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "added row %d\n", position(s.ledger, id))
	return nil
}

func (s *session) edit(args string) error {
	i, rest, err := index(args)
	if err != nil {
		return err
	}
	rows := s.ledger.Rows()
	if i < 1 || i > len(rows) {
		return fmt.Errorf("%w: row %d not in [1, %d]", store.ErrOutOfRange, i, len(rows))
	}
	update, err := fields(rest)
	if err != nil {
		return err
	}
	row := make(record.Row, record.Width)
	copy(row, rows[i-1])
	for j, f := range update {
		if f != "" {
			row[j] = f
		}
	}
	entry, err := record.FromRow(row)
	if err != nil {
		return err
	}
	if err := s.ledger.ReplaceAt(i, entry); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "replaced row %d\n", i)
	return nil
}

func (s *session) delete(args string) error {
	i, _, err := index(args)
	if err != nil {
		return err
	}
	row, err := s.ledger.Delete(i)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "deleted row %d: %s\n", i, row)
	return nil
}

func (s *session) list() error {
	if s.ledger.Closed() {
		return ledger.ErrClosed
	}
	out := bufio.NewWriter(s.out)
	defer out.Flush()
	return render(rowTable(s.ledger.Rows()), "text", false, out)
}

func (s *session) summary() error {
	rep, err := s.ledger.Summarize()
	if rep == nil {
		return err
	}
	o := output{format: "text"}
	out := bufio.NewWriter(s.out)
	defer out.Flush()
	return o.write(rep, out)
}
