package evidence

import (
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

// Volume is one traversable filesystem inside the evidence source.
// Paths are absolute and slash-separated ("/" is the volume root).
type Volume interface {
	// Index is the partition number (0 for a directory or an unpartitioned filesystem)
	Index() int
	// Offset is the byte offset of the partition within the evidence
	Offset() int64
	// Filesystem names the filesystem type
	Filesystem() string
	// Label returns the volume label, if any
	Label() string
	// ReadDir lists the children of dir in a stable order. On error it may
	// still return the entries read before the failure.
	ReadDir(dir string) ([]fs.DirEntry, error)
	// Open opens a regular file for sequential reading
	Open(name string) (io.ReadCloser, error)
	// Times extracts the timestamps the filesystem records for name
	Times(name string, info fs.FileInfo) models.Timestamps
}

// VolumeInfo carries the descriptive fields of a volume
type VolumeInfo struct {
	Index      int
	Offset     int64
	Filesystem string
	Label      string
}

// TimesFunc extracts timestamps for a file of an fs.FS-backed volume
type TimesFunc func(name string, info fs.FileInfo) models.Timestamps

// ModTimeOnly records the modification time and leaves the rest absent
func ModTimeOnly(_ string, info fs.FileInfo) models.Timestamps {
	return models.Timestamps{Modified: models.TimeOrNil(info.ModTime())}
}

// fsVolume exposes an fs.FS as a volume
type fsVolume struct {
	info  VolumeInfo
	fsys  fs.FS
	times TimesFunc
}

// NewFSVolume creates a volume over fsys. A nil times records modification time only.
func NewFSVolume(fsys fs.FS, info VolumeInfo, times TimesFunc) Volume {
	if times == nil {
		times = ModTimeOnly
	}
	return &fsVolume{info: info, fsys: fsys, times: times}
}

func (v *fsVolume) Index() int         { return v.info.Index }
func (v *fsVolume) Offset() int64      { return v.info.Offset }
func (v *fsVolume) Filesystem() string { return v.info.Filesystem }
func (v *fsVolume) Label() string      { return v.info.Label }

func (v *fsVolume) ReadDir(dir string) ([]fs.DirEntry, error) {
	return fs.ReadDir(v.fsys, toFSPath(dir))
}

func (v *fsVolume) Open(name string) (io.ReadCloser, error) {
	return v.fsys.Open(toFSPath(name))
}

func (v *fsVolume) Times(name string, info fs.FileInfo) models.Timestamps {
	return v.times(name, info)
}

// toFSPath converts a volume path to an io/fs path
func toFSPath(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}
