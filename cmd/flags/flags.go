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

package flags

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sboehler/ledgerbook/lib/partition"
	"github.com/sboehler/ledgerbook/lib/record"
)

// Names of the global flags.
const (
	Config   = "config"
	Dir      = "dir"
	Taxonomy = "taxonomy"
	Encoding = "encoding"
	LogLevel = "log-level"
)

// SetupGlobal adds the flags shared by all subcommands. Empty values fall
// through to the environment, the config file and the defaults.
func SetupGlobal(c *cobra.Command) {
	c.PersistentFlags().String(Config, "", "config file (default ledgerbook.yaml)")
	c.PersistentFlags().String(Dir, "", "directory of the monthly files")
	c.PersistentFlags().String(Taxonomy, "", "YAML file with the category taxonomy")
	c.PersistentFlags().String(Encoding, "", "file encoding: utf-8, latin1 or windows-1252")
	c.PersistentFlags().String(LogLevel, "", "log level")
}

// PartitionFlag manages a flag to select a month.
type PartitionFlag partition.Partition

var _ pflag.Value = (*PartitionFlag)(nil)

func (pf PartitionFlag) String() string {
	if pf.Year == 0 {
		return ""
	}
	return partition.Partition(pf).String()
}

// Set implements pflag.Value.
func (pf *PartitionFlag) Set(v string) error {
	p, err := partition.Parse(v)
	if err != nil {
		return err
	}
	*pf = PartitionFlag(p)
	return nil
}

// Type implements pflag.Value.
func (pf PartitionFlag) Type() string {
	return "YYYY-MM"
}

// ValueOr returns the flag value, or the month containing t if unset.
func (pf PartitionFlag) ValueOr(t time.Time) partition.Partition {
	if pf.Year == 0 {
		return partition.Current(t)
	}
	return partition.Partition(pf)
}

// KindFlag manages a flag to parse a transaction type.
type KindFlag struct {
	val record.Kind
}

var _ pflag.Value = (*KindFlag)(nil)

func (kf KindFlag) String() string {
	return string(kf.val)
}

// Set implements pflag.Value.
func (kf *KindFlag) Set(v string) error {
	k, err := record.ParseKind(v)
	if err != nil {
		return err
	}
	kf.val = k
	return nil
}

// Type implements pflag.Value.
func (kf KindFlag) Type() string {
	return "Income|Expense"
}

// Value returns the kind.
func (kf KindFlag) Value() record.Kind {
	return kf.val
}

// DecimalFlag manages a flag to parse an amount.
type DecimalFlag struct {
	val decimal.Decimal
}

var _ pflag.Value = (*DecimalFlag)(nil)

func (df DecimalFlag) String() string {
	return df.val.String()
}

// Set implements pflag.Value.
func (df *DecimalFlag) Set(v string) error {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return err
	}
	df.val = d
	return nil
}

// Type implements pflag.Value.
func (df DecimalFlag) Type() string {
	return "<amount>"
}

// Value returns the amount.
func (df DecimalFlag) Value() decimal.Decimal {
	return df.val
}
