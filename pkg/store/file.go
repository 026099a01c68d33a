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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/zhengshuai-xiao/ufhash/internal"
	"github.com/zhengshuai-xiao/ufhash/internal/compression"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

var ErrNotRegularFile = errors.New("not a regular file")

// FileStore keeps digests in a local text file, optionally compressed.
type FileStore struct {
	path       string
	compressor compression.Compressor
	opts       []ufh.Option
}

// NewFileStore returns a store on path. A nil compressor writes plain text.
func NewFileStore(path string, compressor compression.Compressor, opts ...ufh.Option) *FileStore {
	return &FileStore{path: path, compressor: compressor, opts: opts}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Save(ctx context.Context, entries []ufh.NamedDigest, appending bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var existing []byte
	if appending {
		data, err := s.read()
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		existing = data
	} else if info, err := os.Stat(s.path); err == nil && !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", s.path, ErrNotRegularFile)
	}

	var buf bytes.Buffer
	if len(existing) > 0 {
		buf.Write(existing)
		if existing[len(existing)-1] != '\n' {
			buf.WriteByte('\n')
		}
	} else {
		fmt.Fprintf(&buf, "%s ufhash %s\n", CommentMark, internal.Version())
	}
	if err := EncodeLines(&buf, entries); err != nil {
		return err
	}

	payload, err := compression.Encode(s.compressor, buf.Bytes())
	if err != nil {
		return err
	}
	if err := internal.WriteFileAtomic(s.path, payload, 0o644); err != nil {
		return err
	}

	logger.Debugf("saved %d entries to %s (%s)", len(entries), s.path, internal.FormatBytes(uint64(len(payload))))
	return nil
}

func (s *FileStore) Load(ctx context.Context) ([]ufh.NamedDigest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	entries, err := DecodeLines(bytes.NewReader(data), s.opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	logger.Debugf("loaded %d entries from %s", len(entries), s.path)
	return entries, nil
}

func (s *FileStore) Close() error {
	return nil
}

// read returns the uncompressed content of the file.
func (s *FileStore) read() ([]byte, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.path, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", s.path, ErrNotRegularFile)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	data, err = compression.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return data, nil
}
