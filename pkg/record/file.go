package record

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tableflip.dev/dosebook/pkg/errs"
)

// Dir is a Backend keeping each store as a plain text file in one directory.
type Dir struct {
	Path string
}

// NewDir returns a Backend rooted at path.
func NewDir(path string) *Dir {
	return &Dir{Path: path}
}

// Open returns the file store called name inside the directory.
func (d *Dir) Open(name string) Lines {
	return &File{path: filepath.Join(d.Path, name)}
}

// Close is a no-op; files are opened and closed per operation.
func (d *Dir) Close() error {
	return nil
}

// File is a single text file holding one record per line.
type File struct {
	path string
}

// NewFile returns the file store at path.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string {
	return filepath.Base(f.path)
}

// Path returns the location of the file on disk.
func (f *File) Path() string {
	return f.path
}

func (f *File) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(f.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, errs.E(errs.StorageIO, "record: stat "+f.Name(), err)
	}
}

func (f *File) ReadAll(_ context.Context) ([]string, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, errs.E(errs.StorageIO, "record: open "+f.Name(), err)
	}
	defer fh.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.E(errs.StorageIO, "record: read "+f.Name(), err)
	}
	return lines, nil
}

func (f *File) Append(_ context.Context, line string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errs.E(errs.StorageIO, "record: ensure directory", err)
	}
	fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.E(errs.StorageIO, "record: open "+f.Name(), err)
	}
	if _, err := fmt.Fprintln(fh, strings.TrimSpace(line)); err != nil {
		_ = fh.Close()
		return errs.E(errs.StorageIO, "record: append "+f.Name(), err)
	}
	if err := fh.Close(); err != nil {
		return errs.E(errs.StorageIO, "record: close "+f.Name(), err)
	}
	return nil
}

func (f *File) Rewrite(ctx context.Context, keep func(line string) bool) (int, error) {
	ok, err := f.Exists(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errs.Errorf(errs.NotFound, "record: rewrite", "%s does not exist", f.Name())
	}
	lines, err := f.ReadAll(ctx)
	if err != nil {
		return 0, err
	}

	var b strings.Builder
	dropped := 0
	for _, line := range lines {
		if !keep(line) {
			dropped++
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if dropped == 0 {
		return 0, nil
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return 0, errs.E(errs.StorageIO, "record: write "+f.Name(), err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return 0, errs.E(errs.StorageIO, "record: replace "+f.Name(), err)
	}
	return dropped, nil
}
