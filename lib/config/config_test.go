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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sboehler/ledgerbook/lib/record"
	"github.com/sboehler/ledgerbook/lib/store"
	"github.com/sboehler/ledgerbook/lib/taxonomy"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ledgerbook.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("dir", "", "")
	fs.String("taxonomy", "", "")
	fs.String("encoding", "", "")
	fs.String("log-level", "", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", newFlags())

	require.NoError(t, err)
	assert.Equal(t, &Config{Dir: "ledger", Encoding: "utf-8", LogLevel: "warn"}, cfg)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	p := writeConfig(t, "dir: /srv/books\nencoding: latin1\nlog_level: debug\n")

	cfg, err := Load(p, newFlags())

	require.NoError(t, err)
	assert.Equal(t, "/srv/books", cfg.Dir)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	p := writeConfig(t, "dir: from-file\nencoding: latin1\n")
	t.Setenv("LEDGERBOOK_DIR", "from-env")
	t.Setenv("LEDGERBOOK_LOG_LEVEL", "info")
	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--log-level", "debug"}))

	cfg, err := Load(p, flags)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Dir)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)

	assert.Error(t, err)
}

func TestLedgerOptions(t *testing.T) {
	opts, err := (&Config{Encoding: "cp1252"}).LedgerOptions()
	require.NoError(t, err)
	assert.Equal(t, store.Windows1252, opts.Encoding)
	assert.Same(t, taxonomy.Default(), opts.Taxonomy)

	_, err = (&Config{Encoding: "ebcdic"}).LedgerOptions()
	assert.Error(t, err)

	p := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(p, []byte("- kind: Income\n  categories:\n    - name: Work\n      subcategories: [Pay]\n"), 0o644))
	opts, err = (&Config{Taxonomy: p}).LedgerOptions()
	require.NoError(t, err)
	assert.True(t, opts.Taxonomy.Has(record.Income, "Work", "Pay"))
	assert.False(t, opts.Taxonomy.Has(record.Expense, "Food", "Groceries"))
}
