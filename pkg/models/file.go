package models

import (
	"errors"
	"io"
	"time"
)

// Timestamps holds the MAC(B) times of a file. A nil field means the
// underlying filesystem does not record that value.
type Timestamps struct {
	Created  *time.Time `json:"created,omitempty"`
	Modified *time.Time `json:"modified,omitempty"`
	Accessed *time.Time `json:"accessed,omitempty"`
}

// TimeOrNil returns a pointer to t, or nil when t is the zero time
func TimeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// OpenFunc opens a read-only stream over a file's content
type OpenFunc func() (io.ReadCloser, error)

// FileEntry is one regular file discovered inside a partition
type FileEntry struct {
	Path            string     // Absolute slash-separated path within the partition
	Name            string     // Base name
	Size            int64      // Size in bytes
	Times           Timestamps // Created / modified / accessed
	PartitionIndex  int        // Index of the partition the file lives on
	PartitionOffset int64      // Byte offset of the partition within the evidence

	open OpenFunc
}

// NewFileEntry creates a file entry whose content is read through open
func NewFileEntry(path, name string, size int64, times Timestamps, open OpenFunc) *FileEntry {
	return &FileEntry{
		Path:  path,
		Name:  name,
		Size:  size,
		Times: times,
		open:  open,
	}
}

// Open opens the file content for a single sequential read
func (f *FileEntry) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, errors.New("file entry has no content stream")
	}
	return f.open()
}
