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

package store

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/sboehler/ledgerbook/lib/record"
)

// Encoding is the character encoding of partition files.
type Encoding int

// Supported encodings.
const (
	UTF8 Encoding = iota
	Latin1
	Windows1252
)

// ParseEncoding parses an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "latin1", "latin-1", "iso-8859-1":
		return Latin1, nil
	case "windows-1252", "cp1252":
		return Windows1252, nil
	}
	return UTF8, fmt.Errorf("unsupported encoding %q", s)
}

func (e Encoding) String() string {
	switch e {
	case Latin1:
		return "latin1"
	case Windows1252:
		return "windows-1252"
	}
	return "utf-8"
}

func (e Encoding) charmap() encoding.Encoding {
	switch e {
	case Latin1:
		return charmap.ISO8859_1
	case Windows1252:
		return charmap.Windows1252
	}
	return nil
}

const (
	delimiter  = ","
	terminator = "\r"
)

// decode converts raw file content to text.
func decode(b []byte, enc Encoding) (string, error) {
	if cm := enc.charmap(); cm != nil {
		res, err := cm.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return string(res), nil
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: invalid UTF-8 on line %d", ErrDecode, lineOf(b, invalidOffset(b)))
	}
	return string(b), nil
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

// lineOf returns the 1-based line number of the byte at offset off.
func lineOf(b []byte, off int) int {
	prefix := bytes.ReplaceAll(b[:off], []byte("\r\n"), []byte("\n"))
	return 1 + bytes.Count(prefix, []byte("\n")) + bytes.Count(prefix, []byte("\r"))
}

// encode converts text to raw file content.
func encode(s string, enc Encoding) ([]byte, error) {
	if cm := enc.charmap(); cm != nil {
		return cm.NewEncoder().Bytes([]byte(s))
	}
	return []byte(s), nil
}

// parse splits text into rows. Lines may end in CR, LF or CRLF. Every
// field is trimmed and blank lines are skipped. There is no quoting.
func parse(text string) []record.Row {
	var (
		rows []record.Row
		sc   = bufio.NewScanner(strings.NewReader(text))
	)
	sc.Buffer(make([]byte, 0, 64*1024), len(text)+1)
	sc.Split(scanLines)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, delimiter)
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
		rows = append(rows, fields)
	}
	return rows
}

// scanLines is a bufio.SplitFunc accepting CR, LF and CRLF terminators.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' {
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if !atEOF {
				// need one more byte to tell CR from CRLF
				return 0, nil, nil
			}
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// format renders rows in the partition file format.
func format(header record.Row, entries []Entry) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, delimiter))
	b.WriteString(terminator)
	for _, e := range entries {
		b.WriteString(strings.Join(e.Row, delimiter))
		b.WriteString(terminator)
	}
	return b.String()
}
