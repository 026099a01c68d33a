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

// Package store persists named uniform fuzzy hashes as lines of
// "name;canonical" on a local file, a Redis list or an S3 object.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zhengshuai-xiao/ufhash/internal"
	"github.com/zhengshuai-xiao/ufhash/internal/compression"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

var logger = internal.GetLogger("store")

var (
	// ErrNotFound is returned by Load when nothing was ever saved.
	ErrNotFound          = errors.New("digest store not found")
	ErrUnsupportedScheme = errors.New("unsupported store scheme")
)

// Store saves and loads named digests. Load returns entries in the order
// they were saved.
type Store interface {
	// Save writes entries, after the existing ones when appending is true.
	Save(ctx context.Context, entries []ufh.NamedDigest, appending bool) error
	Load(ctx context.Context) ([]ufh.NamedDigest, error)
	Close() error
}

// Options configures the stores created by Open.
type Options struct {
	// Compression names the algorithm used for file and S3 payloads:
	// none, zlib, snappy or zstd. Loading detects it by itself.
	Compression string
	// RedisPassword is used when the URL has no password.
	RedisPassword string
	// DigestOptions are applied to every loaded digest.
	DigestOptions []ufh.Option
}

// Open creates the store rawURL points at:
//
//	/path/to/file, file:///path/to/file
//	redis://[:password@]host:port[,host:port...]/db?key=name
//	s3://[access:secret@]bucket/key?endpoint=http://host:9000&region=us-east-1
func Open(ctx context.Context, rawURL string, opts Options) (Store, error) {
	compressor, err := compression.GetCompressorViaString(opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, opts.Compression)
	}

	if !strings.Contains(rawURL, "://") {
		return NewFileStore(rawURL, compressor, opts.DigestOptions...), nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid store url %s: %w", internal.RemovePassword(rawURL), err)
	}

	logger.Debugf("opening store %s", internal.RemovePassword(rawURL))
	switch strings.ToLower(u.Scheme) {
	case "file":
		path := u.Path
		if u.Host != "" {
			path = u.Host + path
		}
		return NewFileStore(path, compressor, opts.DigestOptions...), nil
	case "redis", "rediss":
		return NewRedisStore(ctx, u, opts)
	case "s3":
		return NewS3Store(ctx, u, compressor, opts.DigestOptions...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}
