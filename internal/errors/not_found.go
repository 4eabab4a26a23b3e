// Package errors provides typed errors shared across the marquee pipeline.
package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents a required piece of data missing from an otherwise
// successful upstream response: no build hash link in the listing page, no
// movie/theater metadata in the static queries, or a scheduled ID with no
// matching metadata node. It always aborts the current aggregation.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("no %s found", e.Resource)
	}
	return fmt.Sprintf("no %s found for %q", e.Resource, e.Key)
}

// NewNotFoundError creates a NotFoundError for the given resource. key may be
// empty when there is no single identifier to point at.
func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// IsNotFoundError reports whether err is a NotFoundError (even when wrapped).
func IsNotFoundError(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}
