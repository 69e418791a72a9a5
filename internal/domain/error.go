package domain

import "errors"

var (
	// ErrSinkUnavailable reports that a registration record was accepted by
	// no configured sink at all.
	ErrSinkUnavailable = errors.New("no registration sink accepted the record")
)
