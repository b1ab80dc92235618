package evidence

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/IvanShishkin/hashhound/pkg/models"
	"github.com/djherbis/times"
)

// newDirectoryVolume exposes a plain directory tree as volume 0
func newDirectoryVolume(root string) Volume {
	info := VolumeInfo{
		Index:      0,
		Offset:     0,
		Filesystem: "directory",
		Label:      filepath.Base(root),
	}
	return NewFSVolume(os.DirFS(root), info, hostTimes(root))
}

// hostTimes reads MAC(B) times from the host filesystem without following links.
// Birth time is only reported where the kernel exposes it.
func hostTimes(root string) TimesFunc {
	return func(name string, info fs.FileInfo) models.Timestamps {
		ts := models.Timestamps{Modified: models.TimeOrNil(info.ModTime())}

		spec, err := times.Lstat(filepath.Join(root, filepath.FromSlash(toFSPath(name))))
		if err != nil {
			return ts
		}

		ts.Modified = models.TimeOrNil(spec.ModTime())
		ts.Accessed = models.TimeOrNil(spec.AccessTime())
		if spec.HasBirthTime() {
			ts.Created = models.TimeOrNil(spec.BirthTime())
		}
		return ts
	}
}
