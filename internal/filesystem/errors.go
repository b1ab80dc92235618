package filesystem

import (
	"errors"
	"fmt"
)

var (
	// ErrEntrySkipped marks a file or directory whose metadata could not be read
	ErrEntrySkipped = errors.New("entry skipped")
	// ErrEntryExcluded marks an entry matched by an exclude pattern
	ErrEntryExcluded = errors.New("entry excluded")
)

// EntryError reports a single entry the walker did not yield
type EntryError struct {
	Path string
	Kind error // ErrEntrySkipped or ErrEntryExcluded
	Dir  bool  // the entry is a directory whose listing failed
	Err  error
}

func (e *EntryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

func (e *EntryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
