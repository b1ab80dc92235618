package evidence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/IvanShishkin/hashhound/internal/config"
	"github.com/IvanShishkin/hashhound/pkg/models"
	"go.uber.org/zap"
)

// Source is an opened, validated evidence location
type Source struct {
	Info models.EvidenceInfo
}

// Enumerator turns an evidence source into the volumes it contains
type Enumerator struct {
	logger           *zap.Logger
	minPartitionSize int64
	openImage        imageOpener
}

// NewEnumerator creates a new evidence enumerator
func NewEnumerator(cfg *config.Config, logger *zap.Logger) *Enumerator {
	return &Enumerator{
		logger:           logger,
		minPartitionSize: cfg.MinPartitionSize,
		openImage:        openDiskfsImage,
	}
}

// Open checks that path exists and can be read, and classifies it
func (e *Enumerator) Open(path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrEvidenceUnreadable)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEvidenceUnreadable, path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEvidenceUnreadable, err)
	}

	var kind models.EvidenceKind
	switch mode := info.Mode(); {
	case mode.IsDir():
		kind = models.EvidenceDirectory
	case mode.IsRegular(), mode&os.ModeDevice != 0:
		kind = models.EvidenceImage
	default:
		return nil, fmt.Errorf("%w: %s is neither a directory nor an image file", ErrEvidenceUnreadable, abs)
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEvidenceUnreadable, err)
	}
	f.Close()

	return &Source{Info: models.EvidenceInfo{
		Path:    abs,
		Kind:    kind,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}}, nil
}

// Enumerate calls visit for every volume of src, in partition order.
// Skipped partitions are reported to visit as a *PartitionError with a nil volume.
// Enumeration stops at the first error visit returns.
func (e *Enumerator) Enumerate(ctx context.Context, src *Source, visit func(Volume, error) error) error {
	switch src.Info.Kind {
	case models.EvidenceDirectory:
		return visit(newDirectoryVolume(src.Info.Path), nil)
	case models.EvidenceImage:
		return e.enumerateImage(ctx, src.Info.Path, visit)
	default:
		return fmt.Errorf("%w: unknown evidence kind %q", ErrEvidenceUnreadable, src.Info.Kind)
	}
}

func (e *Enumerator) enumerateImage(ctx context.Context, path string, visit func(Volume, error) error) error {
	img, err := e.openImage(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEvidenceUnreadable, err)
	}
	defer func() {
		if err := img.Close(); err != nil {
			e.logger.Warn("Error closing image", zap.String("path", path), zap.Error(err))
		}
	}()

	spans, err := img.Partitions()
	if err != nil {
		e.logger.Debug("No partition table, treating image as a single filesystem",
			zap.String("path", path), zap.Error(err))
		return e.visitWholeImage(img, path, visit)
	}

	used := 0
	for i, span := range spans {
		if err := ctx.Err(); err != nil {
			return err
		}

		index := i + 1
		if span.Size <= 0 {
			e.logger.Debug("Skipping unallocated partition entry", zap.Int("partition", index))
			continue
		}

		if span.Size < e.minPartitionSize {
			perr := &PartitionError{Index: index, Offset: span.Start, Reason: "below minimum size"}
			e.logger.Debug("Skipping partition", zap.Int("partition", index), zap.Int64("size", span.Size))
			if err := visit(nil, perr); err != nil {
				return err
			}
			continue
		}

		vol, err := img.Volume(VolumeInfo{Index: index, Offset: span.Start})
		if err != nil {
			perr := &PartitionError{Index: index, Offset: span.Start, Reason: "unrecognized filesystem", Err: err}
			e.logger.Warn("Skipping partition", zap.Int("partition", index),
				zap.Int64("offset", span.Start), zap.Error(err))
			if err := visit(nil, perr); err != nil {
				return err
			}
			continue
		}

		used++
		e.logger.Info("Opened partition",
			zap.Int("partition", index),
			zap.Int64("offset", span.Start),
			zap.String("filesystem", vol.Filesystem()),
		)
		if err := visit(vol, nil); err != nil {
			return err
		}
	}

	if used == 0 {
		// A FAT boot sector can parse as an MBR with garbage entries.
		return e.visitWholeImage(img, path, visit)
	}
	return nil
}

func (e *Enumerator) visitWholeImage(img diskImage, path string, visit func(Volume, error) error) error {
	vol, err := img.Volume(VolumeInfo{Index: 0, Offset: 0})
	if err != nil {
		if errors.Is(err, ErrNoFilesystemFound) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", ErrNoFilesystemFound, path, err)
	}

	e.logger.Info("Opened filesystem", zap.String("filesystem", vol.Filesystem()))
	return visit(vol, nil)
}

// Changed reports whether the evidence size or modification time differs
// from what was recorded when the source was opened
func (s *Source) Changed() (bool, error) {
	info, err := os.Stat(s.Info.Path)
	if err != nil {
		return true, err
	}
	return info.Size() != s.Info.Size || !info.ModTime().Equal(s.Info.ModTime), nil
}
