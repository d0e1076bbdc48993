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

// Package ztree contains the tree replication core: a lazy pre-order
// walker over a store connection, a nested document serializer, a
// conflict resolver and a replicator that applies one store's subtree
// onto another.
//
// The store is abstracted behind the Conn interface. Any hierarchical
// store offering exists/get/children/create/set is usable; ZooKeeper
// is the canonical implementation, in ztree/zkstore.
package ztree

import (
	"context"
	"path"
	"strings"
)

// NodeRecord is one node of a tree, as read at a point in time.
// Records are produced by a Walker or a DocumentSource, consumed
// exactly once, and never mutated in place.
type NodeRecord struct {
	// Path is the absolute, slash-delimited node path.
	Path string

	// Data is the node payload. It is opaque to this package and
	// may be empty.
	Data []byte

	// Stat holds the node metadata as the source reported it.
	// It is informational: server-assigned fields are never sent
	// back on writes. May be nil for deserialized records.
	Stat *NodeStat

	// Children has the names (not paths) of the immediate children,
	// in lexicographic order.
	Children []string
}

// NodeStat is the subset of the store's per-node metadata that is
// meaningful to display and export. All fields are assigned by the
// server; none of them can be set by a client.
type NodeStat struct {
	// Version is the data version, incremented on every data change.
	Version int32 `json:"version"`

	// CVersion is the child list version.
	CVersion int32 `json:"cversion"`

	// Ctime and Mtime are creation and last-modification times,
	// in milliseconds since the epoch (the ZooKeeper convention).
	Ctime int64 `json:"ctime"`
	Mtime int64 `json:"mtime"`

	// EphemeralOwner is the id of the session owning the node if it
	// is ephemeral, zero otherwise.
	EphemeralOwner int64 `json:"ephemeralOwner,omitempty"`

	// DataLength is the payload size in bytes.
	DataLength int32 `json:"dataLength"`

	// NumChildren is the number of immediate children.
	NumChildren int32 `json:"numChildren"`
}

// Ephemeral returns true if the node is tied to a client session.
func (s *NodeStat) Ephemeral() bool {
	return s != nil && s.EphemeralOwner != 0
}

// Conn is the capability interface the core needs from a store.
//
// All paths are absolute within the store. Implementations convert
// their native errors to the coded errors of this package, so callers
// can test them with IsErrType.
type Conn interface {
	// Exists tells whether a node is present at nodePath.
	Exists(ctx context.Context, nodePath string) (bool, error)

	// Get returns the data and metadata of the node at nodePath.
	// Returns a NoNode error if the node doesn't exist.
	Get(ctx context.Context, nodePath string) ([]byte, *NodeStat, error)

	// Children returns the names of the immediate children of the
	// node at nodePath, in the store's native (arbitrary) order.
	// Returns a NoNode error if the node doesn't exist.
	Children(ctx context.Context, nodePath string) ([]string, error)

	// Create creates a node. Returns a NodeExists error if the node
	// is already there, and a NoNode error if its parent is missing.
	Create(ctx context.Context, nodePath string, data []byte) error

	// Set replaces the data of an existing node unconditionally.
	// Returns a NoNode error if the node doesn't exist.
	Set(ctx context.Context, nodePath string, data []byte) error

	// Close releases the connection.
	Close()
}

// RecordSource is a lazy pre-order, parent-first sequence of records.
//
// Next returns the next record, or (nil, nil) once the sequence is
// exhausted. A non-nil error may be per-node (NodeVanished: that
// subtree is dropped, the sequence continues on the following call)
// or fatal (anything else). Sequences are not restartable.
type RecordSource interface {
	Next(ctx context.Context) (*NodeRecord, error)
}

// CleanPath normalizes a node path: absolute, no trailing slash.
func CleanPath(nodePath string) string {
	if nodePath == "" {
		return "/"
	}
	if !strings.HasPrefix(nodePath, "/") {
		nodePath = "/" + nodePath
	}
	return path.Clean(nodePath)
}

// CreateRecursive creates the node at nodePath, creating any missing
// ancestors with empty data first. An existing ancestor is fine; an
// existing node at nodePath itself returns a NodeExists error.
func CreateRecursive(ctx context.Context, conn Conn, nodePath string, data []byte) error {
	nodePath = CleanPath(nodePath)
	err := conn.Create(ctx, nodePath, data)
	if IsErrType(err, NoNode) {
		// Parent is missing. Create the chain above us and retry.
		if parent := path.Dir(nodePath); parent != nodePath {
			if perr := CreateRecursive(ctx, conn, parent, nil); perr != nil && !IsErrType(perr, NodeExists) {
				return perr
			}
		}
		err = conn.Create(ctx, nodePath, data)
	}
	return err
}
