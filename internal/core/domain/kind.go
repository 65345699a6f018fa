package domain

import (
	"context"
	"errors"
)

// ErrorKind classifies failures reported at the tool boundary.
type ErrorKind string

const (
	// KindNotFound covers unknown model handles, element paths and scopes.
	KindNotFound ErrorKind = "not_found"
	// KindInvalidInput covers unsupported arguments.
	KindInvalidInput ErrorKind = "invalid_input"
	// KindTimeout covers loads that exceed their time bound.
	KindTimeout ErrorKind = "timeout"
	// KindSourceUnavailable covers missing or unreadable model files.
	KindSourceUnavailable ErrorKind = "source_unavailable"
	// KindInternal covers everything else.
	KindInternal ErrorKind = "internal"
)

var kindTable = []struct {
	kind ErrorKind
	errs []error
}{
	{KindNotFound, []error{ErrModelNotFound, ErrElementNotFound, ErrScopeNotFound, ErrRootNotFound}},
	{KindInvalidInput, []error{
		ErrInvalidDirection, ErrInvalidInput, ErrInvalidFilter, ErrPathTraversal,
		ErrUnknownTool, ErrUnsupportedFormat,
	}},
	{KindTimeout, []error{ErrLoadTimeout, context.DeadlineExceeded}},
	{KindSourceUnavailable, []error{ErrSourceUnavailable}},
}

// KindOf classifies err. Unrecognized errors are Internal.
func KindOf(err error) ErrorKind {
	for _, row := range kindTable {
		for _, target := range row.errs {
			if errors.Is(err, target) {
				return row.kind
			}
		}
	}
	return KindInternal
}
