package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IvanShishkin/hashhound/internal/config"
	"github.com/IvanShishkin/hashhound/internal/digest"
	"github.com/IvanShishkin/hashhound/internal/evidence"
	"github.com/IvanShishkin/hashhound/internal/filesystem"
	"github.com/IvanShishkin/hashhound/internal/matcher"
	"github.com/IvanShishkin/hashhound/pkg/models"
	"go.uber.org/zap"
)

// Version is the engine version recorded in scan results
var Version = "0.1.0"

// ErrCancelled is returned alongside partial results when the scan context is cancelled
var ErrCancelled = errors.New("scan cancelled")

// ErrScanInProgress is returned when Scan is called while the scanner is busy
var ErrScanInProgress = errors.New("scan already in progress")

// ProgressCallback is called with a snapshot of the scan counters
type ProgressCallback func(stats models.ScanStats)

// Enumerator opens evidence and yields its volumes
type Enumerator interface {
	Open(path string) (*evidence.Source, error)
	Enumerate(ctx context.Context, src *evidence.Source, visit func(evidence.Volume, error) error) error
}

// Scanner is the scan coordinator. It processes one file at a time.
// A Scanner may run several scans in sequence but not concurrently.
type Scanner struct {
	config           *config.Config
	logger           *zap.Logger
	enumerator       Enumerator
	walker           *filesystem.Walker
	progressCallback ProgressCallback

	mu    sync.Mutex
	state models.ScanState
}

// NewScanner creates a new scanner instance
func NewScanner(cfg *config.Config, logger *zap.Logger) *Scanner {
	return &Scanner{
		config:     cfg,
		logger:     logger,
		enumerator: evidence.NewEnumerator(cfg, logger),
		walker:     filesystem.NewWalker(cfg, logger),
		state:      models.StateIdle,
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// SetEnumerator replaces the evidence enumerator
func (s *Scanner) SetEnumerator(e Enumerator) {
	s.enumerator = e
}

// State returns the current coordinator state
func (s *Scanner) State() models.ScanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// begin moves an idle or finished scanner to Enumerating
func (s *Scanner) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.StateIdle && !s.state.IsTerminal() {
		return ErrScanInProgress
	}
	s.state = models.StateEnumerating
	return nil
}

func (s *Scanner) setState(state models.ScanState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Scan hashes every regular file of the evidence at path and matches it against known.
//
// EvidenceUnreadable and NoFilesystemFound are fatal: the scan fails with nil results.
// On cancellation the partial results are returned together with an error wrapping ErrCancelled.
func (s *Scanner) Scan(ctx context.Context, path string, known *models.KnownHashSet) (*models.ScanResults, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	run := &scanRun{
		scanner:  s,
		ctx:      ctx,
		matcher:  matcher.NewMatcher(known),
		computer: digest.NewComputer(s.config.ChunkSize),
		start:    time.Now(),
	}
	run.lastReport = run.start

	s.logger.Info("Starting scan",
		zap.String("evidence", path),
		zap.Int("known_hashes", run.matcher.Size()))

	src, err := s.enumerator.Open(path)
	if err != nil {
		return nil, s.fail(err)
	}

	err = s.enumerator.Enumerate(ctx, src, run.visitVolume)
	switch {
	case err == nil:
		s.setState(models.StateCompleted)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.setState(models.StateCancelled)
		err = fmt.Errorf("%w: %w", ErrCancelled, err)
	default:
		return nil, s.fail(err)
	}

	results := run.results(src)
	s.checkEvidence(src, results)

	run.report()

	s.logger.Info("Scan finished",
		zap.String("outcome", string(results.Outcome)),
		zap.Duration("duration", results.Duration),
		zap.Int("files_examined", results.Stats.FilesExamined),
		zap.Int("files_skipped", results.Stats.FilesSkipped),
		zap.Int("dirs_skipped", results.Stats.DirsSkipped),
		zap.Int("matches_found", results.Stats.MatchesFound))

	return results, err
}

func (s *Scanner) fail(err error) error {
	s.setState(models.StateFailed)
	s.logger.Error("Scan failed", zap.Error(err))
	return err
}

// checkEvidence verifies the evidence was not modified while it was scanned
func (s *Scanner) checkEvidence(src *evidence.Source, results *models.ScanResults) {
	changed, err := src.Changed()
	if err != nil {
		s.logger.Error("Cannot re-check evidence after scan", zap.String("path", src.Info.Path), zap.Error(err))
	}
	if changed {
		s.logger.Error("Evidence changed during scan", zap.String("path", src.Info.Path))
		results.EvidenceChanged = true
	}
}

// OutcomeOf maps the error returned by Scan to a scan outcome
func OutcomeOf(err error) models.Outcome {
	switch {
	case err == nil:
		return models.OutcomeCompleted
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return models.OutcomeCancelled
	case errors.Is(err, evidence.ErrEvidenceUnreadable):
		return models.OutcomeEvidenceUnreadable
	case errors.Is(err, evidence.ErrNoFilesystemFound):
		return models.OutcomeNoFilesystemFound
	default:
		return models.OutcomeError
	}
}
