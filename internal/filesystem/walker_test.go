package filesystem

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/IvanShishkin/hashhound/internal/config"
	"github.com/IvanShishkin/hashhound/internal/evidence"
	"github.com/IvanShishkin/hashhound/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// faultyFS fails listing of failDirs and metadata of brokenFiles.
// Listing a partialDirs directory fails after its first entry.
type faultyFS struct {
	fstest.MapFS
	failDirs    map[string]bool
	partialDirs map[string]bool
	brokenFiles map[string]bool
}

func (f faultyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if f.failDirs[name] {
		return nil, errors.New("corrupt directory record")
	}
	entries, err := f.MapFS.ReadDir(name)
	if err != nil {
		return nil, err
	}
	if f.partialDirs[name] {
		return entries[:1], errors.New("corrupt directory record")
	}
	for i, e := range entries {
		if f.brokenFiles[e.Name()] {
			entries[i] = brokenEntry{e}
		}
	}
	return entries, nil
}

type brokenEntry struct {
	fs.DirEntry
}

func (brokenEntry) Info() (fs.FileInfo, error) {
	return nil, errors.New("bad inode")
}

func testTree() fstest.MapFS {
	return fstest.MapFS{
		"b.txt":     &fstest.MapFile{Data: []byte("bee")},
		"a/x.txt":   &fstest.MapFile{Data: []byte("x")},
		"a/y.txt":   &fstest.MapFile{Data: []byte("y")},
		"c/z.log":   &fstest.MapFile{Data: []byte("z")},
		"empty.bin": &fstest.MapFile{Data: []byte{}},
		"link":      &fstest.MapFile{Data: []byte("b.txt"), Mode: fs.ModeSymlink},
		"dev":       &fstest.MapFile{Mode: fs.ModeDevice},
		"d":         &fstest.MapFile{Mode: fs.ModeDir},
	}
}

func testWalker(t *testing.T, exclude ...string) *Walker {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	cfg := config.Default()
	cfg.Exclude = exclude
	return NewWalker(cfg, logger)
}

type walkLog struct {
	paths    []string
	skipped  []string
	dirs     []string
	excluded []string
}

func (l *walkLog) visit(entry *models.FileEntry, err error) error {
	if err != nil {
		var eerr *EntryError
		if !errors.As(err, &eerr) {
			return err
		}
		switch {
		case errors.Is(err, ErrEntryExcluded):
			l.excluded = append(l.excluded, eerr.Path)
		case eerr.Dir:
			l.dirs = append(l.dirs, eerr.Path)
		default:
			l.skipped = append(l.skipped, eerr.Path)
		}
		return nil
	}
	l.paths = append(l.paths, entry.Path)
	return nil
}

func TestWalkRegularFilesOnly(t *testing.T) {
	vol := evidence.NewFSVolume(testTree(), evidence.VolumeInfo{Index: 2, Offset: 4096}, nil)
	w := testWalker(t)

	var log walkLog
	require.NoError(t, w.Walk(context.Background(), vol, log.visit))

	assert.Equal(t, []string{"/a/x.txt", "/a/y.txt", "/b.txt", "/c/z.log", "/empty.bin"}, log.paths)
	assert.Empty(t, log.skipped)
	assert.Empty(t, log.excluded)
}

func TestWalkEntryMetadata(t *testing.T) {
	vol := evidence.NewFSVolume(testTree(), evidence.VolumeInfo{Index: 2, Offset: 4096}, nil)
	w := testWalker(t)

	var got *models.FileEntry
	err := w.Walk(context.Background(), vol, func(entry *models.FileEntry, err error) error {
		require.NoError(t, err)
		if entry.Path == "/b.txt" {
			got = entry
		}
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "b.txt", got.Name)
	assert.Equal(t, int64(3), got.Size)
	assert.Equal(t, 2, got.PartitionIndex)
	assert.Equal(t, int64(4096), got.PartitionOffset)
	assert.Nil(t, got.Times.Created)

	r, err := got.Open()
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "bee", string(data))
}

func TestWalkExclude(t *testing.T) {
	vol := evidence.NewFSVolume(testTree(), evidence.VolumeInfo{}, nil)
	w := testWalker(t, "a", "**/*.log")

	var log walkLog
	require.NoError(t, w.Walk(context.Background(), vol, log.visit))

	assert.Equal(t, []string{"/b.txt", "/empty.bin"}, log.paths)
	assert.Equal(t, []string{"/a", "/c/z.log"}, log.excluded)
}

func TestWalkSkipsDamagedEntries(t *testing.T) {
	fsys := faultyFS{
		MapFS:       testTree(),
		failDirs:    map[string]bool{"a": true},
		brokenFiles: map[string]bool{"b.txt": true},
	}
	vol := evidence.NewFSVolume(fsys, evidence.VolumeInfo{}, nil)
	w := testWalker(t)

	var log walkLog
	require.NoError(t, w.Walk(context.Background(), vol, log.visit))

	assert.Equal(t, []string{"/c/z.log", "/empty.bin"}, log.paths)
	assert.Equal(t, []string{"/a"}, log.dirs)
	assert.Equal(t, []string{"/b.txt"}, log.skipped)
}

func TestWalkPartialDirectoryListing(t *testing.T) {
	fsys := faultyFS{MapFS: testTree(), partialDirs: map[string]bool{"a": true}}
	vol := evidence.NewFSVolume(fsys, evidence.VolumeInfo{}, nil)
	w := testWalker(t)

	var log walkLog
	require.NoError(t, w.Walk(context.Background(), vol, log.visit))

	assert.Equal(t, []string{"/a/x.txt", "/b.txt", "/c/z.log", "/empty.bin"}, log.paths)
	assert.Equal(t, []string{"/a"}, log.dirs)
	assert.Empty(t, log.skipped)
}

func TestWalkUnreadableRoot(t *testing.T) {
	fsys := faultyFS{MapFS: testTree(), failDirs: map[string]bool{".": true}}
	vol := evidence.NewFSVolume(fsys, evidence.VolumeInfo{}, nil)
	w := testWalker(t)

	var log walkLog
	require.NoError(t, w.Walk(context.Background(), vol, log.visit))
	assert.Empty(t, log.paths)
	assert.Equal(t, []string{"/"}, log.dirs)
}

func TestWalkStopsOnVisitError(t *testing.T) {
	vol := evidence.NewFSVolume(testTree(), evidence.VolumeInfo{}, nil)
	w := testWalker(t)

	stop := errors.New("stop")
	calls := 0
	err := w.Walk(context.Background(), vol, func(*models.FileEntry, error) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestWalkCancelled(t *testing.T) {
	vol := evidence.NewFSVolume(testTree(), evidence.VolumeInfo{}, nil)
	w := testWalker(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Walk(ctx, vol, func(*models.FileEntry, error) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
