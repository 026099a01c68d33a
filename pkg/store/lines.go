// Copyright 2025 zhengshuai.xiao@outlook.com
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zhengshuai-xiao/ufhash/internal"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

const (
	// NameSeparator separates the name from the canonical string on a line.
	NameSeparator = ";"
	// CommentMark starts a line that is ignored when loading.
	CommentMark = "#"

	maxLineSize = 64 << 20
)

var (
	ErrInvalidName   = errors.New("invalid hash name")
	ErrDuplicateName = errors.New("duplicate hash name")
	errLineFormat    = fmt.Errorf("line does not fit the format name%shash", NameSeparator)
)

// LineError reports the 1-based line a decoding error happened on.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// CheckName trims name and checks it can be written on a line.
func CheckName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if strings.Contains(name, NameSeparator) || strings.ContainsAny(name, "\r\n") {
		return "", fmt.Errorf("%w: %q contains %q or a line break", ErrInvalidName, name, NameSeparator)
	}
	if strings.HasPrefix(name, CommentMark) {
		return "", fmt.Errorf("%w: %q starts with %q", ErrInvalidName, name, CommentMark)
	}
	return name, nil
}

// FormatLine returns the line for one entry, without the line break.
func FormatLine(name string, d *ufh.Digest) (string, error) {
	if d == nil {
		return "", ufh.ErrNilInput
	}
	name, err := CheckName(name)
	if err != nil {
		return "", err
	}
	return name + NameSeparator + d.String(), nil
}

// ParseLine reverses FormatLine. It does not handle comments.
func ParseLine(line string, opts ...ufh.Option) (ufh.NamedDigest, error) {
	parts := strings.Split(strings.TrimSpace(line), NameSeparator)
	if len(parts) != 2 {
		return ufh.NamedDigest{}, errLineFormat
	}
	name, err := CheckName(parts[0])
	if err != nil {
		return ufh.NamedDigest{}, err
	}
	d, err := ufh.Parse(strings.TrimSpace(parts[1]), opts...)
	if err != nil {
		return ufh.NamedDigest{}, fmt.Errorf("hash %q could not be parsed: %w", name, err)
	}
	return ufh.NamedDigest{Name: name, Digest: d}, nil
}

// EncodeLines writes one line per entry. Entries with a nil digest are
// skipped; names must be valid and unique.
func EncodeLines(w io.Writer, entries []ufh.NamedDigest) error {
	seen := internal.NewStringSet()
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		name, err := CheckName(e.Name)
		if err != nil {
			return err
		}
		if !seen.AddIfAbsent(name) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		if e.Digest == nil {
			continue
		}
		if _, err := bw.WriteString(name + NameSeparator + e.Digest.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeLines reads entries written by EncodeLines. Blank lines and lines
// starting with CommentMark are skipped. When a name repeats, the later
// digest replaces the earlier one and keeps its position.
func DecodeLines(r io.Reader, opts ...ufh.Option) ([]ufh.NamedDigest, error) {
	var entries []ufh.NamedDigest
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, CommentMark) {
			checkHeader(line)
			continue
		}

		entry, err := ParseLine(line, opts...)
		if err != nil {
			return nil, &LineError{Line: n, Err: err}
		}
		if i, ok := index[entry.Name]; ok {
			entries[i] = entry
			continue
		}
		index[entry.Name] = len(entries)
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// checkHeader warns when the entries were written by a newer release.
func checkHeader(comment string) {
	fields := strings.Fields(strings.TrimPrefix(comment, CommentMark))
	if len(fields) != 2 || fields[0] != "ufhash" {
		return
	}
	written, running := internal.Parse(fields[1]), internal.Parse(internal.Version())
	if cmp, err := internal.CompareVersions(written, running); err == nil && cmp > 0 {
		logger.Warnf("digests were written by ufhash %s, this is %s", fields[1], internal.Version())
	}
}
