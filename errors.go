// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package domo

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned by New when the configuration lacks a
// developer token or a customer instance / base URL.
var ErrMissingCredentials = errors.New("domo: missing credentials")

// RemoteError reports a failed call against the warehouse API: either a
// non-2xx transport status, or a 2xx envelope whose embedded application
// status was not 200.
type RemoteError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("domo: %s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("domo: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// NotFoundError reports that no dataset (or stream bound to it) exists for
// the given dataset id.
type NotFoundError struct {
	DatasetID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("domo: dataset %s not found", e.DatasetID)
}
