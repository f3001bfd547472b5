// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const publishedPerm = 0o644

// WriteAtomic runs write against a temporary file next to dst and renames
// it over dst only if write and the flush succeed. On any failure the
// temporary file is removed and dst is left as it was. Errors from write
// are returned untouched; filesystem failures are reported as KindIO.
func WriteAtomic(dst string, write func(w io.Writer) error) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Wrap(KindIO, dst, fmt.Errorf("creating %s: %w", dir, err))
	}

	temp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return Wrap(KindIO, dst, fmt.Errorf("creating temp file: %w", err))
	}
	defer func() { _ = os.Remove(temp.Name()) }()

	bw := bufio.NewWriter(temp)
	if err := write(bw); err != nil {
		_ = temp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = temp.Close()
		return Wrap(KindIO, dst, fmt.Errorf("writing temp file: %w", err))
	}
	if err := temp.Chmod(publishedPerm); err != nil {
		_ = temp.Close()
		return Wrap(KindIO, dst, fmt.Errorf("setting permissions: %w", err))
	}
	if err := temp.Close(); err != nil {
		return Wrap(KindIO, dst, fmt.Errorf("closing temp file: %w", err))
	}
	if err := os.Rename(temp.Name(), dst); err != nil {
		return Wrap(KindIO, dst, fmt.Errorf("publishing: %w", err))
	}
	return nil
}

// ReadSource reads a whole source file, reporting failures as KindIO.
func ReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Wrap(KindIO, path, fmt.Errorf("reading source: %w", err))
	}
	return data, nil
}
