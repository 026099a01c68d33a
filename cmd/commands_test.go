package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zhengshuai-xiao/ufhash/pkg/store"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

const fox = "The quick brown fox jumps over the lazy dog"

func mustParse(t *testing.T, s string) *ufh.Digest {
	t.Helper()
	d, err := ufh.Parse(s)
	require.NoError(t, err)
	return d
}

func sampleEntries(t *testing.T) []ufh.NamedDigest {
	return []ufh.NamedDigest{
		{Name: "ref", Digest: mustParse(t, "5:1-4/2-6")},
		{Name: "b", Digest: mustParse(t, "5:2-3/3-7")},
		{Name: "none"},
		{Name: "copy", Digest: mustParse(t, "5:1-4/2-6")},
	}
}

func fields(out string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		rows = append(rows, strings.Fields(line))
	}
	return rows
}

func TestCompute(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fox.txt", fox)
	expected, err := ufh.NewFromString(fox, 5)
	require.NoError(t, err)

	out, err := run(t, "compute", "--factor", "5", path, dir+"/missing.txt")
	require.NoError(t, err)
	rows := fields(out)
	require.Len(t, rows, 3)
	assert.Equal(t, "fox.txt", rows[2][0])
	assert.Equal(t, expected.String(), rows[2][len(rows[2])-1])
}

func TestComputeFactorFromEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fox.txt", fox)
	expected, err := ufh.NewFromString(fox, 7)
	require.NoError(t, err)
	t.Setenv("UFHASH_FACTOR", "7")

	out, err := run(t, "compute", path)
	require.NoError(t, err)
	assert.Contains(t, out, expected.String())
}

func TestComputeInvalidFactor(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fox.txt", fox)

	_, err := run(t, "compute", "--factor", "4", path)
	assert.ErrorIs(t, err, ufh.ErrFactorEven)

	_, err = run(t, "compute", "--factor", "5")
	assert.ErrorContains(t, err, "at least one PATH")
}

func TestComputeToStore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", fox)
	writeFile(t, dir, "b.txt", "abcde")

	ms := &MockStore{}
	ms.On("Save", mock.Anything, mock.MatchedBy(func(entries []ufh.NamedDigest) bool {
		return len(entries) == 2 && entries[0].Name == filepath.Base(dir)+"/a.txt" &&
			entries[1].Name == filepath.Base(dir)+"/b.txt" &&
			entries[0].Digest.Factor() == 5
	}), true).Return(nil)
	ms.On("Close").Return(nil)
	calls := useStores(map[string]*MockStore{"mem://digests": ms})

	out, err := run(t, "compute", "-f", "5", "-r", "--append", "--compression", "snappy", "--store", "mem://digests", dir)
	require.NoError(t, err)
	assert.Equal(t, "saved 2 digests to mem://digests\n", out)
	require.Len(t, *calls, 1)
	assert.Equal(t, "snappy", (*calls)[0].opts.Compression)
	ms.AssertExpectations(t)
}

func TestComputeStoreFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fox.txt", fox)
	useStores(nil)

	_, err := run(t, "compute", "-f", "5", "--store", "ftp://nowhere", path)
	assert.ErrorIs(t, err, store.ErrUnsupportedScheme)
}

func TestComputeRecursiveToFileStore(t *testing.T) {
	dir := t.TempDir()
	samples := filepath.Join(dir, "samples")
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(samples, sub), 0o755))
		writeFile(t, filepath.Join(samples, sub), "x.bin", sub+" "+fox)
	}
	path := filepath.Join(dir, "digests.txt")

	out, err := run(t, "compute", "-f", "5", "-r", "--store", path, samples)
	require.NoError(t, err)
	assert.Equal(t, "saved 2 digests to "+path+"\n", out)

	entries, err := store.NewFileStore(path, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "samples/a/x.bin", entries[0].Name)
	assert.Equal(t, "samples/b/x.bin", entries[1].Name)
}

func TestCompareHashes(t *testing.T) {
	out, err := run(t, "compare", "--hash", "--precision", "2", "5:1-4/2-6", "5:2-3/3-7")
	require.NoError(t, err)
	rows := fields(out)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"5:2-3/3-7", "|", "0.60", "0.30", "0.60", "0.30", "0.45", "0.42"}, rows[2])

	_, err = run(t, "compare", "--hash", "5:1-1", "7:1-1")
	assert.ErrorIs(t, err, ufh.ErrFactorMismatch)

	_, err = run(t, "compare", "--hash", "5:x-1", "5:1-1")
	assert.ErrorIs(t, err, ufh.ErrMalformedDigest)

	_, err = run(t, "compare", "--hash", "5:1-1")
	assert.ErrorContains(t, err, "exactly two")
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", fox)
	b := writeFile(t, dir, "b.txt", fox)

	out, err := run(t, "compare", "-f", "5", "--precision", "3", a, b)
	require.NoError(t, err)
	rows := fields(out)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{b, "|", "1.000", "1.000", "1.000", "1.000", "1.000", "1.000"}, rows[2])

	_, err = run(t, "compare", "-f", "5", a, dir+"/missing.txt")
	assert.Error(t, err)
}

func TestSort(t *testing.T) {
	ms := &MockStore{}
	ms.On("Load", mock.Anything).Return(sampleEntries(t), nil)
	ms.On("Close").Return(nil)
	useStores(map[string]*MockStore{"mem://x": ms})

	out, err := run(t, "sort", "--store", "mem://x", "--reference", "ref", "--criterion", "ref-to-others-desc", "--precision", "2")
	require.NoError(t, err)
	rows := fields(out)
	require.Len(t, rows, 5)
	assert.Equal(t, "copy", rows[2][0])
	assert.Equal(t, "b", rows[3][0])
	assert.Equal(t, []string{"none", "|", "-", "-", "-", "-", "-", "-"}, rows[4])
	ms.AssertExpectations(t)
}

func TestSortErrors(t *testing.T) {
	ms := &MockStore{}
	ms.On("Load", mock.Anything).Return(sampleEntries(t), nil)
	ms.On("Close").Return(nil)

	useStores(map[string]*MockStore{"mem://x": ms})
	_, err := run(t, "sort", "--store", "mem://x", "--reference", "nope")
	assert.ErrorContains(t, err, `reference "nope" not found`)

	useStores(map[string]*MockStore{"mem://x": ms})
	_, err = run(t, "sort", "--store", "mem://x", "--reference", "none")
	assert.ErrorContains(t, err, `reference "none" not found`)

	_, err = run(t, "sort", "--store", "mem://x", "--reference", "ref", "--criterion", "sideways")
	assert.ErrorIs(t, err, ufh.ErrInvalidCriterion)

	failing := &MockStore{}
	failing.On("Load", mock.Anything).Return([]ufh.NamedDigest(nil), store.ErrNotFound)
	failing.On("Close").Return(nil)
	useStores(map[string]*MockStore{"mem://empty": failing})
	_, err = run(t, "sort", "--store", "mem://empty", "--reference", "ref")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestShow(t *testing.T) {
	ms := &MockStore{}
	ms.On("Load", mock.Anything).Return(sampleEntries(t), nil)
	ms.On("Close").Return(nil)
	useStores(map[string]*MockStore{"mem://x": ms})

	out, err := run(t, "show", "--store", "mem://x", "--hashes", "--matrix", "--precision", "1")
	require.NoError(t, err)

	tables := strings.Split(out, "\n\n")
	require.Len(t, tables, 2)
	digests := fields(tables[0])
	require.Len(t, digests, 6)
	assert.Equal(t, []string{"ref", "|", "5", "10", "2", "5.00", "1.00", "5:1-4/2-6"}, digests[2])
	assert.Equal(t, []string{"none", "|", "-", "-", "-", "-", "-", "-"}, digests[4])

	matrix := fields(tables[1])
	require.Len(t, matrix, 6)
	assert.Equal(t, []string{"ref", "|", "1.0", "0.6", "-", "1.0"}, matrix[2])
}

func TestShowWithoutStore(t *testing.T) {
	t.Setenv("UFHASH_STORE", "")
	_, err := run(t, "show")
	assert.ErrorIs(t, err, errNoStore)
}

func TestConvert(t *testing.T) {
	entries := sampleEntries(t)
	src := &MockStore{}
	src.On("Load", mock.Anything).Return(entries, nil)
	src.On("Close").Return(nil)
	dst := &MockStore{}
	dst.On("Save", mock.Anything, entries, false).Return(nil)
	dst.On("Close").Return(nil)
	calls := useStores(map[string]*MockStore{"mem://from": src, "mem://to": dst})

	out, err := run(t, "convert", "--from", "mem://from", "--to", "mem://to", "--compression", "zstd")
	require.NoError(t, err)
	assert.Equal(t, "converted 4 digests from mem://from to mem://to\n", out)
	require.Len(t, *calls, 2)
	assert.Equal(t, "mem://to", (*calls)[1].url)
	assert.Equal(t, "zstd", (*calls)[1].opts.Compression)
	src.AssertExpectations(t)
	dst.AssertExpectations(t)
}
