// Package storage keeps uploaded video and frame files on disk.
package storage

import (
	"errors"
	"io"
)

// ErrInvalidPath is returned for names that would leave the storage directory.
var ErrInvalidPath = errors.New("invalid path")

// FileInfo describes an upload.
type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

// Storage saves opaque files and hands them out again by name.
type Storage interface {
	// SaveFile stores r under a new unique name and returns that name and the bytes written.
	SaveFile(r io.Reader, info FileInfo) (string, int64, error)
	OpenFile(name string) (io.ReadSeekCloser, error)
	DeleteFile(name string) error
}
