package filesystem

import (
	"context"
	"io"
	"io/fs"
	"path"

	"github.com/IvanShishkin/hashhound/internal/config"
	"github.com/IvanShishkin/hashhound/internal/evidence"
	"github.com/IvanShishkin/hashhound/pkg/models"
	"go.uber.org/zap"
)

// VisitFunc is called for every regular file, and for every entry the walker
// had to skip or exclude (entry is nil and err is an *EntryError).
// Returning a non-nil error stops the walk.
type VisitFunc func(entry *models.FileEntry, err error) error

// Walker walks the directory tree of a volume and finds regular files
type Walker struct {
	config *config.Config
	logger *zap.Logger
}

// NewWalker creates a new volume walker
func NewWalker(cfg *config.Config, logger *zap.Logger) *Walker {
	return &Walker{
		config: cfg,
		logger: logger,
	}
}

// Walk traverses vol depth-first, in the order the volume lists directory children
func (w *Walker) Walk(ctx context.Context, vol evidence.Volume, visit VisitFunc) error {
	return w.walkDir(ctx, vol, "/", visit)
}

func (w *Walker) walkDir(ctx context.Context, vol evidence.Volume, dir string, visit VisitFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Entries listed before a failure are still walked
	entries, err := vol.ReadDir(dir)
	if err != nil {
		w.logger.Warn("Error reading directory",
			zap.Int("partition", vol.Index()),
			zap.String("path", dir),
			zap.Int("entries_read", len(entries)),
			zap.Error(err),
		)
		if err := visit(nil, &EntryError{Path: dir, Kind: ErrEntrySkipped, Dir: true, Err: err}); err != nil {
			return err
		}
	}

	for _, d := range entries {
		name := d.Name()
		if name == "." || name == ".." || name == "" {
			continue
		}
		p := path.Join(dir, name)

		// Skip excluded entries
		if w.config.IsExcluded(p) {
			w.logger.Debug("Skipping excluded path", zap.String("path", p))
			if err := visit(nil, &EntryError{Path: p, Kind: ErrEntryExcluded}); err != nil {
				return err
			}
			continue
		}

		mode := d.Type()
		switch {
		case mode&fs.ModeSymlink != 0:
			continue
		case d.IsDir():
			if err := w.walkDir(ctx, vol, p, visit); err != nil {
				return err
			}
			continue
		case !mode.IsRegular():
			continue
		}

		info, err := d.Info()
		if err != nil {
			w.logger.Warn("Error reading file metadata",
				zap.Int("partition", vol.Index()),
				zap.String("path", p),
				zap.Error(err),
			)
			if err := visit(nil, &EntryError{Path: p, Kind: ErrEntrySkipped, Err: err}); err != nil {
				return err
			}
			continue
		}
		// Type bits from the directory listing may be stale
		if !info.Mode().IsRegular() {
			continue
		}

		if err := visit(w.newEntry(vol, p, info), nil); err != nil {
			return err
		}
	}

	return nil
}

func (w *Walker) newEntry(vol evidence.Volume, p string, info fs.FileInfo) *models.FileEntry {
	entry := models.NewFileEntry(p, info.Name(), info.Size(), vol.Times(p, info), func() (io.ReadCloser, error) {
		return vol.Open(p)
	})
	entry.PartitionIndex = vol.Index()
	entry.PartitionOffset = vol.Offset()
	return entry
}
