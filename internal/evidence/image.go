package evidence

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

// partitionSpan is the byte range of one partition table entry
type partitionSpan struct {
	Start int64
	Size  int64
}

// diskImage is an opened disk image
type diskImage interface {
	// Partitions returns the partition table entries, or an error when the image has none
	Partitions() ([]partitionSpan, error)
	// Volume opens the filesystem of partition info.Index (0 = whole image)
	Volume(info VolumeInfo) (Volume, error)
	Close() error
}

type imageOpener func(path string) (diskImage, error)

// openDiskfsImage opens path read-only with go-diskfs
func openDiskfsImage(path string) (diskImage, error) {
	d, err := diskfs.Open(path, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, err
	}
	return &diskfsImage{disk: d}, nil
}

type diskfsImage struct {
	disk *disk.Disk
}

func (i *diskfsImage) Partitions() ([]partitionSpan, error) {
	table, err := i.disk.GetPartitionTable()
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, errors.New("no partition table")
	}

	var spans []partitionSpan
	for _, p := range table.GetPartitions() {
		spans = append(spans, partitionSpan{Start: p.GetStart(), Size: p.GetSize()})
	}
	return spans, nil
}

func (i *diskfsImage) Volume(info VolumeInfo) (Volume, error) {
	fsys, err := i.disk.GetFilesystem(info.Index)
	if err != nil {
		return nil, err
	}
	info.Filesystem = filesystemName(fsys.Type())
	info.Label = strings.TrimSpace(fsys.Label())
	return &diskfsVolume{info: info, fsys: fsys}, nil
}

func (i *diskfsImage) Close() error {
	if i.disk.File == nil {
		return nil
	}
	return i.disk.File.Close()
}

func filesystemName(t filesystem.Type) string {
	switch t {
	case filesystem.TypeFat32:
		return "fat32"
	case filesystem.TypeISO9660:
		return "iso9660"
	case filesystem.TypeSquashfs:
		return "squashfs"
	case filesystem.TypeExt4:
		return "ext4"
	default:
		return "unknown"
	}
}

// diskfsVolume is a filesystem parsed out of a disk image
type diskfsVolume struct {
	info VolumeInfo
	fsys filesystem.FileSystem
}

func (v *diskfsVolume) Index() int         { return v.info.Index }
func (v *diskfsVolume) Offset() int64      { return v.info.Offset }
func (v *diskfsVolume) Filesystem() string { return v.info.Filesystem }
func (v *diskfsVolume) Label() string      { return v.info.Label }

func (v *diskfsVolume) ReadDir(dir string) ([]fs.DirEntry, error) {
	infos, err := v.fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		if name := info.Name(); name == "." || name == ".." {
			continue
		}
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	return entries, nil
}

func (v *diskfsVolume) Open(name string) (io.ReadCloser, error) {
	f, err := v.fsys.OpenFile(name, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	if rc, ok := any(f).(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(f), nil
}

func (v *diskfsVolume) Times(name string, info fs.FileInfo) models.Timestamps {
	return ModTimeOnly(name, info)
}
