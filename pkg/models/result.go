package models

import "time"

// ScanState is a state of the scan coordinator
type ScanState string

const (
	StateIdle        ScanState = "idle"
	StateEnumerating ScanState = "enumerating"
	StateWalking     ScanState = "walking"
	StateMatching    ScanState = "matching"
	StateCompleted   ScanState = "completed"
	StateCancelled   ScanState = "cancelled"
	StateFailed      ScanState = "failed"
)

// IsTerminal reports whether no further transitions are possible
func (s ScanState) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Outcome is the inspectable result kind of a scan
type Outcome string

const (
	OutcomeCompleted          Outcome = "completed"
	OutcomeCancelled          Outcome = "cancelled"
	OutcomeEvidenceUnreadable Outcome = "evidence_unreadable"
	OutcomeNoFilesystemFound  Outcome = "no_filesystem_found"
	OutcomeError              Outcome = "error"
)

// ScanStats holds the scan-wide counters. All counters only grow.
type ScanStats struct {
	FilesExamined     int           `json:"files_examined"`
	MatchesFound      int           `json:"matches_found"`
	FilesSkipped      int           `json:"files_skipped"`
	FilesExcluded     int           `json:"files_excluded"`
	DirsSkipped       int           `json:"dirs_skipped"`
	BytesHashed       int64         `json:"bytes_hashed"`
	PartitionsScanned int           `json:"partitions_scanned"`
	PartitionsSkipped int           `json:"partitions_skipped"`
	CurrentPartition  int           `json:"current_partition"`
	Elapsed           time.Duration `json:"elapsed"`
	State             ScanState     `json:"state"`
}

// EvidenceKind tells how the evidence source was interpreted
type EvidenceKind string

const (
	EvidenceDirectory EvidenceKind = "directory"
	EvidenceImage     EvidenceKind = "image"
)

// EvidenceInfo describes the evidence source as seen before the scan
type EvidenceInfo struct {
	Path    string       `json:"path"`
	Kind    EvidenceKind `json:"kind"`
	Size    int64        `json:"size"`
	ModTime time.Time    `json:"mod_time"`
}

// PartitionSummary describes one traversed partition
type PartitionSummary struct {
	Index      int    `json:"index"`
	Offset     int64  `json:"offset"`
	Filesystem string `json:"filesystem"`
	Label      string `json:"label,omitempty"`
	Files      int    `json:"files"`
	Matches    int    `json:"matches"`
}

// ScanResults contains the complete scan results
type ScanResults struct {
	Evidence        EvidenceInfo       `json:"evidence"`
	StartTime       time.Time          `json:"start_time"`
	EndTime         time.Time          `json:"end_time"`
	Duration        time.Duration      `json:"duration"`
	Outcome         Outcome            `json:"outcome"`
	KnownHashes     int                `json:"known_hashes"`
	Partitions      []PartitionSummary `json:"partitions"`
	Matches         []MatchRecord      `json:"matches"`
	Stats           ScanStats          `json:"statistics"`
	EvidenceChanged bool               `json:"evidence_changed,omitempty"`
	Version         string             `json:"version"`
}
