// Package evidencetest builds small disk images for tests.
package evidencetest

import (
	"os"
	"path"
	"sort"
	"testing"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/partition/mbr"
	"github.com/stretchr/testify/require"
)

const (
	// PartitionStart is the first sector of the partition in partitioned images
	PartitionStart = 2048
	// PartitionOffset is the byte offset of that partition
	PartitionOffset = PartitionStart * 512

	fsSize = 40 << 20
)

// FAT32Image writes a FAT32 disk image to imgPath holding files, keyed by
// absolute 8.3 path. When partitioned is set the filesystem lives in MBR
// partition 1 at PartitionStart, otherwise it spans the whole image.
func FAT32Image(t testing.TB, imgPath string, partitioned bool, files map[string]string) {
	t.Helper()

	size := int64(fsSize)
	if partitioned {
		size += PartitionOffset
	}

	d, err := diskfs.Create(imgPath, size, diskfs.Raw, diskfs.SectorSizeDefault)
	require.NoError(t, err)
	defer d.File.Close()

	part := 0
	if partitioned {
		table := &mbr.Table{
			LogicalSectorSize:  512,
			PhysicalSectorSize: 512,
			Partitions: []*mbr.Partition{{
				Type:  mbr.Fat32LBA,
				Start: PartitionStart,
				Size:  fsSize / 512,
			}},
		}
		require.NoError(t, d.Partition(table))
		part = 1
	}

	fs, err := d.CreateFilesystem(disk.FilesystemSpec{
		Partition:   part,
		FSType:      filesystem.TypeFat32,
		VolumeLabel: "EVIDENCE",
	})
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	dirs := map[string]bool{"/": true}
	for _, name := range names {
		if dir := path.Dir(name); !dirs[dir] {
			require.NoError(t, fs.Mkdir(dir))
			dirs[dir] = true
		}

		f, err := fs.OpenFile(name, os.O_CREATE|os.O_RDWR)
		require.NoError(t, err)
		_, err = f.Write([]byte(files[name]))
		require.NoError(t, err)
	}
}
