package internal

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

func StringContains(s []string, e string) bool {
	for _, item := range s {
		if e == item {
			return true
		}
	}
	return false
}

// RemovePassword masks the password of a URL-like string so it can be logged.
func RemovePassword(uri string) string {
	p := strings.Index(uri, "@")
	if p < 0 {
		return uri
	}
	sp := strings.Index(uri, "://")
	cp := strings.LastIndex(uri[:p], ":")
	if cp < 0 || cp < sp+3 {
		return uri
	}
	return uri[:cp] + ":****" + uri[p:]
}

// FormatBytes prints n in IEC units followed by the exact byte count.
func FormatBytes(n uint64) string {
	if n < 1024 {
		return humanize.IBytes(n)
	}
	return humanize.IBytes(n) + " (" + humanize.Comma(int64(n)) + " B)"
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	if !errors.Is(err, fs.ErrNotExist) {
		logger.Debugf("stat %s: %v", path, err)
	}
	return false
}
