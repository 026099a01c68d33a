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

package ufhs

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

const (
	DefaultWorkers = 4
	readBufferSize = 1 << 20
)

// ErrNotDirectory is returned by FromDirectory when the root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Options controls how files are found and hashed.
type Options struct {
	// Workers bounds how many files are hashed at once. 0 means DefaultWorkers.
	Workers int
	// Recursive descends into directories. Symbolic links are never followed.
	Recursive bool
	// MaxDepth limits how many directory levels below a root are entered
	// when Recursive is set. 0 means no limit.
	MaxDepth int
	// FullPaths names entries after their path instead of their base name.
	FullPaths bool
	// DigestOptions are passed to every digest.
	DigestOptions []ufh.Option
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return DefaultWorkers
	}
	return o.Workers
}

// fileJob is a regular file to hash and the name it is reported under.
type fileJob struct {
	name string
	path string
}

// FromFiles hashes the given files, expanding directories when
// opts.Recursive is set. Paths that do not exist are skipped.
func FromFiles(ctx context.Context, paths []string, factor int, opts Options) ([]*ufh.Digest, error) {
	entries, err := FromNamedFiles(ctx, paths, factor, opts)
	if err != nil {
		return nil, err
	}
	digests := make([]*ufh.Digest, len(entries))
	for i, e := range entries {
		digests[i] = e.Digest
	}
	return digests, nil
}

// FromNamedFiles is FromFiles keeping the base name, or the path with
// opts.FullPaths, of every file. Files found under a directory are named
// after the directory's base name and their path below it.
func FromNamedFiles(ctx context.Context, paths []string, factor int, opts Options) ([]ufh.NamedDigest, error) {
	if err := ufh.CheckFactor(factor); err != nil {
		return nil, err
	}

	var jobs []fileJob
	for _, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warnf("skipping %s: it does not exist", path)
			continue
		}
		if err != nil {
			return nil, err
		}

		switch {
		case info.Mode().IsRegular():
			jobs = append(jobs, fileJob{name: entryName(path, opts), path: path})
		case info.IsDir() && opts.Recursive:
			found, err := walk(ctx, path, opts)
			if err != nil {
				return nil, err
			}
			// Files under a directory keep their path below it, so equal base
			// names in different subdirectories stay distinct.
			prefix := filepath.Base(filepath.Clean(path))
			for i := range found {
				if opts.FullPaths {
					found[i].name = found[i].path
				} else {
					found[i].name = prefix + "/" + found[i].name
				}
			}
			jobs = append(jobs, found...)
		default:
			logger.Debugf("skipping %s: mode %s", path, info.Mode())
		}
	}

	return hashFiles(ctx, jobs, factor, opts)
}

// FromDirectory hashes the regular files of dir, in lexical order, named
// after their path relative to dir.
func FromDirectory(ctx context.Context, dir string, factor int, opts Options) ([]ufh.NamedDigest, error) {
	if err := ufh.CheckFactor(factor); err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	jobs, err := walk(ctx, dir, opts)
	if err != nil {
		return nil, err
	}
	if opts.FullPaths {
		for i := range jobs {
			jobs[i].name = jobs[i].path
		}
	}

	return hashFiles(ctx, jobs, factor, opts)
}

func entryName(path string, opts Options) string {
	if opts.FullPaths {
		return path
	}
	return filepath.Base(path)
}

// walk lists the regular files under root without recursion, using an
// explicit stack of directories. Names are relative to root.
func walk(ctx context.Context, root string, opts Options) ([]fileJob, error) {
	type dirItem struct {
		rel   string
		depth int
	}

	var jobs []fileJob
	stack := []dirItem{{rel: "", depth: 0}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(filepath.Join(root, dir.rel))
		if err != nil {
			if dir.rel == "" {
				return nil, err
			}
			logger.Warnf("skipping unreadable directory %s: %v", filepath.Join(root, dir.rel), err)
			continue
		}

		for _, entry := range entries {
			rel := filepath.Join(dir.rel, entry.Name())
			switch {
			case entry.Type().IsRegular():
				jobs = append(jobs, fileJob{name: filepath.ToSlash(rel), path: filepath.Join(root, rel)})
			case entry.IsDir():
				if opts.Recursive && (opts.MaxDepth == 0 || dir.depth < opts.MaxDepth) {
					stack = append(stack, dirItem{rel: rel, depth: dir.depth + 1})
				}
			default:
				logger.Tracef("skipping %s: type %s", rel, entry.Type())
			}
		}
	}

	slices.SortFunc(jobs, func(a, b fileJob) int {
		return cmp.Compare(a.name, b.name)
	})
	return jobs, nil
}

// hashFiles hashes jobs concurrently. Results keep the order of jobs.
func hashFiles(ctx context.Context, jobs []fileJob, factor int, opts Options) ([]ufh.NamedDigest, error) {
	entries := make([]ufh.NamedDigest, len(jobs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.workers())
	for i, job := range jobs {
		i, job := i, job
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := hashFile(job.path, factor, opts.DigestOptions)
			if err != nil {
				return err
			}
			entries[i] = ufh.NamedDigest{Name: job.name, Digest: d}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return entries, nil
}

func hashFile(path string, factor int, opts []ufh.Option) (*ufh.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := ufh.NewFromReader(bufio.NewReaderSize(f, readBufferSize), factor, opts...)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	logger.Debugf("hashed %s: %d bytes, %d blocks", path, d.DataSize(), d.AmountOfBlocks())
	return d, nil
}
