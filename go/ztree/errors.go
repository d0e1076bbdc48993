/*
Copyright 2026 The zktreeutil Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ztree

import (
	"errors"
	"fmt"
)

// ErrorCode is the error category, to be checked with IsErrType.
type ErrorCode int

// The error codes returned by this package and its store
// implementations.
const (
	// NoNode means the requested node doesn't exist.
	NoNode ErrorCode = iota

	// NodeExists means a create hit an already existing node.
	NodeExists

	// NodeVanished means a node listed earlier in the walk was gone
	// by the time it was fetched. Per-node: the walk continues.
	NodeVanished

	// BadSequence means a record sequence violated the pre-order,
	// parent-first contract.
	BadSequence

	// BadDocument means a serialized document is missing required
	// fields or its data cannot be decoded.
	BadDocument

	// Aborted means the user or the conflict policy terminated a
	// replication run early.
	Aborted

	// Timeout covers expired sessions, lost connections and
	// deadline expiry. Writes failing this way are retryable.
	Timeout

	// Interrupted means the context was canceled.
	Interrupted
)

// Error represents one coded error with the node path involved.
type Error struct {
	code ErrorCode
	node string
}

// NewError returns a typed error for the given code and node path.
func NewError(code ErrorCode, node string) error {
	return Error{code: code, node: node}
}

// Error is part of the error interface.
func (e Error) Error() string {
	var message string
	switch e.code {
	case NoNode:
		message = "node doesn't exist"
	case NodeExists:
		message = "node already exists"
	case NodeVanished:
		message = "node vanished during walk"
	case BadSequence:
		message = "record sequence is not pre-order parent-first"
	case BadDocument:
		message = "malformed document"
	case Aborted:
		message = "aborted"
	case Timeout:
		message = "deadline exceeded"
	case Interrupted:
		message = "interrupted"
	default:
		message = "unknown error"
	}
	if e.node == "" {
		return message
	}
	return fmt.Sprintf("%v: %v", message, e.node)
}

// Node returns the node path the error is about. May be empty.
func (e Error) Node() string {
	return e.node
}

// IsErrType reports whether err is an Error with the given code,
// looking through any wrapping.
func IsErrType(err error, code ErrorCode) bool {
	var e Error
	if errors.As(err, &e) {
		return e.code == code
	}
	return false
}
