package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores files below one directory of the local filesystem.
type Local struct {
	basePath   string
	defaultExt string
}

var _ Storage = (*Local)(nil)

// NewLocal creates basePath if needed. defaultExt is used for uploads without extension.
func NewLocal(basePath, defaultExt string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0o750); err != nil { //nolint: mnd
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Local{basePath: basePath, defaultExt: defaultExt}, nil
}

// BasePath returns the storage directory.
func (l *Local) BasePath() string {
	return l.basePath
}

// SaveFile writes r to a uuid named file keeping the upload's extension.
func (l *Local) SaveFile(r io.Reader, info FileInfo) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(info.Filename))
	if ext == "" {
		ext = l.defaultExt
	}

	name := uuid.NewString() + ext
	fullPath := filepath.Join(l.basePath, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	n, err := io.Copy(dst, r)
	if err == nil {
		err = dst.Close()
	} else {
		_ = dst.Close()
	}

	if err != nil {
		_ = os.Remove(fullPath)

		return "", 0, fmt.Errorf("failed to save file: %w", err)
	}

	return name, n, nil
}

// OpenFile opens a stored file for reading.
func (l *Local) OpenFile(name string) (io.ReadSeekCloser, error) {
	fullPath, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, nil
}

// DeleteFile removes a stored file.
func (l *Local) DeleteFile(name string) error {
	fullPath, err := l.resolve(name)
	if err != nil {
		return err
	}

	if err = os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (l *Local) resolve(name string) (string, error) {
	clean := filepath.Clean(name)
	if name == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	return filepath.Join(l.basePath, clean), nil
}
