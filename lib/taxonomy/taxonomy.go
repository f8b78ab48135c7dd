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

// Package taxonomy holds the fixed category hierarchy of transactions.
package taxonomy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"github.com/sboehler/ledgerbook/lib/record"
)

// ErrUnknownPath is returned when a kind or category is not part of the
// taxonomy.
var ErrUnknownPath = errors.New("unknown category path")

// Path identifies a subcategory.
type Path struct {
	Kind        record.Kind
	Category    string
	Subcategory string
}

func (p Path) String() string {
	return fmt.Sprintf("%s > %s > %s", p.Kind, p.Category, p.Subcategory)
}

// Category is a category and its subcategories, in display order.
type Category struct {
	Name          string   `yaml:"name"`
	Subcategories []string `yaml:"subcategories"`
}

type kindDef struct {
	Kind       record.Kind `yaml:"kind"`
	Categories []Category  `yaml:"categories"`
}

// Taxonomy is an immutable, ordered schema of kind, category and
// subcategory.
type Taxonomy struct {
	kinds []kindDef
	paths map[Path]struct{}
}

//go:embed default.yaml
var defaultYAML []byte

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		t, err := FromYAML(bytes.NewReader(defaultYAML))
		if err != nil {
			panic(fmt.Sprintf("invalid built-in taxonomy: %v", err))
		}
		defaultTax = t
	})
	return defaultTax
}

// FromPath loads a taxonomy from a YAML file.
func FromPath(p string) (*Taxonomy, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := FromYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return t, nil
}

// FromYAML decodes a taxonomy. Unknown keys, unknown kinds and duplicate
// names are rejected.
func FromYAML(r io.Reader) (*Taxonomy, error) {
	var defs []kindDef
	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, err
	}
	t := &Taxonomy{paths: make(map[Path]struct{})}
	seenKinds := make(map[record.Kind]bool)
	for _, def := range defs {
		k, err := record.ParseKind(string(def.Kind))
		if err != nil {
			return nil, err
		}
		if seenKinds[k] {
			return nil, fmt.Errorf("duplicate kind %s", k)
		}
		seenKinds[k] = true
		def.Kind = k
		seenCats := make(map[string]bool)
		for _, c := range def.Categories {
			if c.Name == "" {
				return nil, fmt.Errorf("%s: empty category name", k)
			}
			if seenCats[c.Name] {
				return nil, fmt.Errorf("%s: duplicate category %q", k, c.Name)
			}
			seenCats[c.Name] = true
			for _, s := range c.Subcategories {
				p := Path{k, c.Name, s}
				if _, ok := t.paths[p]; ok {
					return nil, fmt.Errorf("%s > %s: duplicate subcategory %q", k, c.Name, s)
				}
				t.paths[p] = struct{}{}
			}
		}
		t.kinds = append(t.kinds, def)
	}
	return t, nil
}

// Has reports whether the path exists.
func (t *Taxonomy) Has(kind record.Kind, category, subcategory string) bool {
	_, ok := t.paths[Path{kind, category, subcategory}]
	return ok
}

// Kinds returns the kinds in schema order.
func (t *Taxonomy) Kinds() []record.Kind {
	res := make([]record.Kind, 0, len(t.kinds))
	for _, k := range t.kinds {
		res = append(res, k.Kind)
	}
	return res
}

// Categories returns the category names of a kind.
func (t *Taxonomy) Categories(kind record.Kind) ([]string, error) {
	for _, k := range t.kinds {
		if k.Kind == kind {
			res := make([]string, 0, len(k.Categories))
			for _, c := range k.Categories {
				res = append(res, c.Name)
			}
			return res, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPath, kind)
}

// ValidSubcategories returns the subcategories of a category.
func (t *Taxonomy) ValidSubcategories(kind record.Kind, category string) ([]string, error) {
	for _, k := range t.kinds {
		if k.Kind != kind {
			continue
		}
		for _, c := range k.Categories {
			if c.Name == category {
				return append([]string(nil), c.Subcategories...), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s > %s", ErrUnknownPath, kind, category)
}

// Paths returns all paths in schema order.
func (t *Taxonomy) Paths() []Path {
	res := make([]Path, 0, len(t.paths))
	for _, k := range t.kinds {
		for _, c := range k.Categories {
			for _, s := range c.Subcategories {
				res = append(res, Path{k.Kind, c.Name, s})
			}
		}
	}
	return res
}

// NewAccumulator returns a fresh zeroed total for every path. The
// taxonomy itself is never modified.
func (t *Taxonomy) NewAccumulator() map[Path]decimal.Decimal {
	res := make(map[Path]decimal.Decimal, len(t.paths))
	for p := range t.paths {
		res[p] = decimal.Zero
	}
	return res
}
