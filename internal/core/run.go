package core

import (
	"context"
	"errors"
	"time"

	"github.com/IvanShishkin/hashhound/internal/digest"
	"github.com/IvanShishkin/hashhound/internal/evidence"
	"github.com/IvanShishkin/hashhound/internal/filesystem"
	"github.com/IvanShishkin/hashhound/internal/matcher"
	"github.com/IvanShishkin/hashhound/pkg/models"
	"go.uber.org/zap"
)

// scanRun holds the state of a single scan. Only the coordinator goroutine touches it.
type scanRun struct {
	scanner  *Scanner
	ctx      context.Context
	matcher  *matcher.Matcher
	computer *digest.Computer

	collector  models.ResultCollector
	stats      models.ScanStats
	partitions []models.PartitionSummary

	start       time.Time
	lastReport  time.Time
	sinceReport int
}

func (r *scanRun) visitVolume(vol evidence.Volume, err error) error {
	if err != nil {
		if errors.Is(err, evidence.ErrPartitionSkipped) {
			r.stats.PartitionsSkipped++
			return nil
		}
		return err
	}
	if err := r.ctx.Err(); err != nil {
		return err
	}

	s := r.scanner
	s.setState(models.StateWalking)
	r.stats.PartitionsScanned++
	r.stats.CurrentPartition = vol.Index()
	r.partitions = append(r.partitions, models.PartitionSummary{
		Index:      vol.Index(),
		Offset:     vol.Offset(),
		Filesystem: vol.Filesystem(),
		Label:      vol.Label(),
	})

	s.logger.Info("Walking partition",
		zap.Int("partition", vol.Index()),
		zap.Int64("offset", vol.Offset()),
		zap.String("filesystem", vol.Filesystem()))

	return s.walker.Walk(r.ctx, vol, r.visitEntry)
}

func (r *scanRun) visitEntry(entry *models.FileEntry, err error) error {
	if err != nil {
		var eerr *filesystem.EntryError
		switch {
		case errors.Is(err, filesystem.ErrEntryExcluded):
			r.stats.FilesExcluded++
			return nil
		case errors.As(err, &eerr) && eerr.Dir:
			r.stats.DirsSkipped++
			return nil
		case errors.Is(err, filesystem.ErrEntrySkipped):
			r.stats.FilesSkipped++
			return nil
		}
		return err
	}

	// Cancellation is honoured between files, never mid-read
	if err := r.ctx.Err(); err != nil {
		return err
	}

	s := r.scanner
	s.setState(models.StateMatching)
	defer s.setState(models.StateWalking)

	digests, n, err := r.computer.Entry(entry)
	if err != nil {
		s.logger.Warn("Skipping unreadable file",
			zap.Int("partition", entry.PartitionIndex),
			zap.String("path", entry.Path),
			zap.Error(err))
		r.stats.FilesSkipped++
		r.tick()
		return nil
	}

	r.stats.FilesExamined++
	r.stats.BytesHashed += n
	part := &r.partitions[len(r.partitions)-1]
	part.Files++

	for _, m := range r.matcher.Match(digests) {
		r.collector.Append(models.NewMatchRecord(entry, digests, m.Algorithm))
		r.stats.MatchesFound = r.collector.Len()
		part.Matches++

		s.logger.Info("Known hash matched",
			zap.String("path", entry.Path),
			zap.Int("partition", entry.PartitionIndex),
			zap.String("algorithm", string(m.Algorithm)),
			zap.String("hash", m.Hash))
	}

	r.tick()
	return nil
}

// tick emits a progress snapshot every ProgressEvery files or ProgressInterval, whichever comes first
func (r *scanRun) tick() {
	cfg := r.scanner.config
	if r.scanner.progressCallback == nil {
		return
	}

	r.sinceReport++
	byCount := cfg.ProgressEvery > 0 && r.sinceReport >= cfg.ProgressEvery
	byTime := cfg.ProgressInterval > 0 && time.Since(r.lastReport) >= cfg.ProgressInterval
	if byCount || byTime {
		r.report()
	}
}

func (r *scanRun) report() {
	if r.scanner.progressCallback == nil {
		return
	}
	r.lastReport = time.Now()
	r.sinceReport = 0
	r.scanner.progressCallback(r.snapshot())
}

func (r *scanRun) snapshot() models.ScanStats {
	stats := r.stats
	stats.Elapsed = time.Since(r.start)
	stats.State = r.scanner.State()
	return stats
}

func (r *scanRun) results(src *evidence.Source) *models.ScanResults {
	end := time.Now()
	stats := r.snapshot()
	stats.Elapsed = end.Sub(r.start)

	outcome := models.OutcomeCompleted
	if stats.State == models.StateCancelled {
		outcome = models.OutcomeCancelled
	}

	partitions := r.partitions
	if partitions == nil {
		partitions = []models.PartitionSummary{}
	}

	return &models.ScanResults{
		Evidence:    src.Info,
		StartTime:   r.start,
		EndTime:     end,
		Duration:    end.Sub(r.start),
		Outcome:     outcome,
		KnownHashes: r.matcher.Size(),
		Partitions:  partitions,
		Matches:     r.collector.Records(),
		Stats:       stats,
		Version:     Version,
	}
}
