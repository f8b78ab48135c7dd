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

// Package config loads the settings shared by all commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sboehler/ledgerbook/lib/ledger"
	"github.com/sboehler/ledgerbook/lib/store"
	"github.com/sboehler/ledgerbook/lib/taxonomy"
)

// Keys of the configuration file.
const (
	KeyDir      = "dir"
	KeyTaxonomy = "taxonomy"
	KeyEncoding = "encoding"
	KeyLogLevel = "log_level"
)

const (
	envPrefix = "LEDGERBOOK"
	fileName  = "ledgerbook"
	appName   = "ledgerbook"

	defaultDir      = "ledger"
	defaultLogLevel = "warn"
)

// Config holds the resolved settings.
type Config struct {
	Dir      string
	Taxonomy string
	Encoding string
	LogLevel string
}

// Load resolves the settings. Precedence is flags, then LEDGERBOOK_*
// environment variables, then the config file, then defaults. If file is
// empty, ledgerbook.yaml is searched in the working directory and the user
// config directory; a missing file is not an error.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyDir, defaultDir)
	v.SetDefault(KeyTaxonomy, "")
	v.SetDefault(KeyEncoding, "utf-8")
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, flag := range map[string]string{
			KeyDir:      "dir",
			KeyTaxonomy: "taxonomy",
			KeyEncoding: "encoding",
			KeyLogLevel: "log-level",
		} {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return &Config{
		Dir:      v.GetString(KeyDir),
		Taxonomy: v.GetString(KeyTaxonomy),
		Encoding: v.GetString(KeyEncoding),
		LogLevel: v.GetString(KeyLogLevel),
	}, nil
}

// LedgerOptions builds ledger options from the settings. The logger is
// left for the caller to set.
func (c *Config) LedgerOptions() (ledger.Options, error) {
	var (
		opts ledger.Options
		err  error
	)
	if opts.Encoding, err = store.ParseEncoding(c.Encoding); err != nil {
		return opts, err
	}
	if c.Taxonomy == "" {
		opts.Taxonomy = taxonomy.Default()
		return opts, nil
	}
	if opts.Taxonomy, err = taxonomy.FromPath(c.Taxonomy); err != nil {
		return opts, err
	}
	return opts, nil
}
