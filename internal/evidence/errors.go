package evidence

import (
	"errors"
	"fmt"
)

var (
	// ErrEvidenceUnreadable means the evidence source cannot be opened at all
	ErrEvidenceUnreadable = errors.New("evidence unreadable")
	// ErrNoFilesystemFound means the image holds neither a usable partition nor a bare filesystem
	ErrNoFilesystemFound = errors.New("no filesystem found")
	// ErrPartitionSkipped marks a partition whose filesystem could not be used
	ErrPartitionSkipped = errors.New("partition skipped")
)

// PartitionError describes a skipped partition. It wraps ErrPartitionSkipped.
type PartitionError struct {
	Index  int
	Offset int64
	Reason string
	Err    error
}

func (e *PartitionError) Error() string {
	msg := fmt.Sprintf("partition %d at offset %d skipped: %s", e.Index, e.Offset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PartitionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPartitionSkipped}
	}
	return []error{ErrPartitionSkipped, e.Err}
}
