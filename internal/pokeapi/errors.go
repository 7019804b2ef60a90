// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pokeapi

import (
	"errors"
	"fmt"
)

// bodySnippetLimit caps how much of an error response body is carried in
// a StatusError. Enough for diagnostics, short enough for log lines.
const bodySnippetLimit = 512

// StatusError is a non-2xx upstream response. Body holds a best-effort
// snippet of the response body for diagnostics.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("pokeapi %d %s", e.Code, e.URL)
	}
	return fmt.Sprintf("pokeapi %d %s - %s", e.Code, e.URL, e.Body)
}

// NotFound reports whether the upstream said the resource does not exist.
func (e *StatusError) NotFound() bool {
	return e.Code == 404
}

// IsNotFound reports whether err is (or wraps) an upstream 404. Callers
// use it to distinguish "no such pokemon" from a transient failure.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.NotFound()
}

// MalformedDataError is upstream data that violates the expected format,
// such as a resource URL without a numeric id suffix. It is terminal:
// retrying cannot fix bad data.
type MalformedDataError struct {
	Detail string
}

func (e *MalformedDataError) Error() string {
	return "pokeapi malformed data: " + e.Detail
}
