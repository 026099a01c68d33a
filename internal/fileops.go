package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

func WriteAll(file *os.File, buf []byte) (int, error) {
	total := 0
	remaining := len(buf)
	for remaining > 0 {
		n, err := file.Write(buf[total:])
		if err != nil {
			return total, fmt.Errorf("failed to write file: %w", err)
		}

		total += n
		remaining -= n
	}

	return total, nil
}

// WriteFileAtomic replaces path with buf through a temporary file in the
// same directory, so readers see either the old or the new content.
func WriteFileAtomic(path string, buf []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := WriteAll(tmp, buf); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
