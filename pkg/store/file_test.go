package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhengshuai-xiao/ufhash/internal/compression"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

func entryNames(entries []ufh.NamedDigest) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestFileStore(t *testing.T) {
	for _, name := range []string{"none", "zlib", "snappy", "zstd"} {
		t.Run(name, func(t *testing.T) {
			c, err := compression.GetCompressorViaString(name)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "nested", "digests.ufh")
			s := NewFileStore(path, c)
			ctx := context.Background()

			_, err = s.Load(ctx)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Save(ctx, sampleEntries(t), false))
			entries, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"fox.txt", "empty.bin"}, entryNames(entries))

			more := []ufh.NamedDigest{{Name: "more", Digest: mustParse(t, "5:9-9")}}
			require.NoError(t, s.Save(ctx, more, true))
			entries, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"fox.txt", "empty.bin", "more"}, entryNames(entries))

			require.NoError(t, s.Save(ctx, more, false))
			entries, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"more"}, entryNames(entries))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, c != nil, compression.IsFramed(raw))
			require.NoError(t, s.Close())
		})
	}
}

func TestFileStorePlainFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digests.txt")
	s := NewFileStore(path, nil)
	require.NoError(t, s.Save(context.Background(), sampleEntries(t), false))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "# ufhash "))
	assert.Equal(t, "fox.txt;5:3DAED101-F/20-1/666F78-3", lines[1])
	assert.Equal(t, "empty.bin;5:", lines[2])
}

func TestFileStoreAppendAcrossCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digests.ufh")
	ctx := context.Background()

	require.NoError(t, NewFileStore(path, nil).Save(ctx, sampleEntries(t), false))
	zstd := NewFileStore(path, compression.NewZstd())
	require.NoError(t, zstd.Save(ctx, []ufh.NamedDigest{{Name: "z", Digest: mustParse(t, "5:1-1")}}, true))

	entries, err := NewFileStore(path, nil).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fox.txt", "empty.bin", "z"}, entryNames(entries))
}

func TestFileStoreErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := NewFileStore(dir, nil)
	assert.ErrorIs(t, s.Save(ctx, sampleEntries(t), false), ErrNotRegularFile)
	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotRegularFile)

	path := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("a;5:1-1\nbroken\n"), 0o644))
	_, err = NewFileStore(path, nil).Load(ctx)
	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Line)

	path = filepath.Join(dir, "corrupt.ufh")
	require.NoError(t, os.WriteFile(path, []byte("\x00UFH\x01garbage"), 0o644))
	_, err = NewFileStore(path, nil).Load(ctx)
	assert.ErrorIs(t, err, compression.ErrCorruptFrame)

	ctxCanceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, NewFileStore(filepath.Join(dir, "x"), nil).Save(ctxCanceled, nil, false), context.Canceled)
}
