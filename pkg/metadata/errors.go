package metadata

import (
	"errors"
	"fmt"
)

// ErrMissingMetadata signals that a region or calling code listed in the
// Index has no backing data. It is a packaging defect, not bad input.
var ErrMissingMetadata = errors.New("missing metadata")

// MissingMetadataError names the key whose data could not be found.
type MissingMetadataError struct {
	Key string
	Err error
}

func (e *MissingMetadataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("metadata: no data for %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("metadata: no data for %s", e.Key)
}

// Unwrap lets errors.Is match ErrMissingMetadata and the underlying cause.
func (e *MissingMetadataError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMissingMetadata}
	}
	return []error{ErrMissingMetadata, e.Err}
}
