package domain

import (
	"errors"
	"fmt"
)

// ErrStoreCorrupt marks an existing feed that could not be parsed. Stores
// recover from it by starting empty.
var ErrStoreCorrupt = errors.New("feed store is corrupt")

// FetchError reports a failed channel page fetch. StatusCode is zero for
// transport failures.
type FetchError struct {
	Channel    string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch channel %s: unexpected status %d", e.Channel, e.StatusCode)
	}
	return fmt.Sprintf("fetch channel %s: %v", e.Channel, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// WriteError reports a feed that could not be persisted.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write feed %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
