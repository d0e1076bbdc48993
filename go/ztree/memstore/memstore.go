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

// Package memstore implements ztree.Conn with an in-memory tree of
// nodes. It takes a file-system like approach, close to what servers
// like ZooKeeper or Chubby expose, and is used as the source and
// destination store in tests.
package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/KevinJMao/zktreeutil/go/ztree"
)

// node is one entry of the tree.
type node struct {
	name     string
	data     []byte
	children map[string]*node
	parent   *node

	version  int32
	cversion int32
	ctime    int64
	mtime    int64
}

// Store is an in-memory ztree.Conn. The root node always exists, as
// it does in ZooKeeper. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	root *node
}

// New returns an empty store holding only the root node.
func New() *Store {
	now := time.Now().UnixMilli()
	return &Store{
		root: &node{
			name:     "/",
			children: make(map[string]*node),
			ctime:    now,
			mtime:    now,
		},
	}
}

// nodeByPath returns the node at nodePath, or nil.
// Must be called with s.mu held.
func (s *Store) nodeByPath(nodePath string) *node {
	n := s.root
	for _, part := range strings.Split(nodePath, "/") {
		if part == "" {
			// Skip empty parts, usually the leading slash.
			continue
		}
		child, ok := n.children[part]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// Exists is part of the ztree.Conn interface.
func (s *Store) Exists(ctx context.Context, nodePath string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodeByPath(ztree.CleanPath(nodePath)) != nil, nil
}

// Get is part of the ztree.Conn interface.
func (s *Store) Get(ctx context.Context, nodePath string) ([]byte, *ztree.NodeStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodePath = ztree.CleanPath(nodePath)
	n := s.nodeByPath(nodePath)
	if n == nil {
		return nil, nil, ztree.NewError(ztree.NoNode, nodePath)
	}
	data := make([]byte, len(n.data))
	copy(data, n.data)
	return data, &ztree.NodeStat{
		Version:     n.version,
		CVersion:    n.cversion,
		Ctime:       n.ctime,
		Mtime:       n.mtime,
		DataLength:  int32(len(n.data)),
		NumChildren: int32(len(n.children)),
	}, nil
}

// Children is part of the ztree.Conn interface. The returned order is
// the map iteration order, deliberately arbitrary like ZooKeeper's.
func (s *Store) Children(ctx context.Context, nodePath string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodePath = ztree.CleanPath(nodePath)
	n := s.nodeByPath(nodePath)
	if n == nil {
		return nil, ztree.NewError(ztree.NoNode, nodePath)
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	return names, nil
}

// Create is part of the ztree.Conn interface.
func (s *Store) Create(ctx context.Context, nodePath string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodePath = ztree.CleanPath(nodePath)
	if nodePath == "/" {
		return ztree.NewError(ztree.NodeExists, nodePath)
	}
	slash := strings.LastIndexByte(nodePath, '/')
	parentPath, name := nodePath[:slash], nodePath[slash+1:]
	if parentPath == "" {
		parentPath = "/"
	}

	parent := s.nodeByPath(parentPath)
	if parent == nil {
		return ztree.NewError(ztree.NoNode, parentPath)
	}
	if _, ok := parent.children[name]; ok {
		return ztree.NewError(ztree.NodeExists, nodePath)
	}

	now := time.Now().UnixMilli()
	parent.children[name] = &node{
		name:     name,
		data:     append([]byte(nil), data...),
		children: make(map[string]*node),
		parent:   parent,
		ctime:    now,
		mtime:    now,
	}
	parent.cversion++
	return nil
}

// Set is part of the ztree.Conn interface.
func (s *Store) Set(ctx context.Context, nodePath string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodePath = ztree.CleanPath(nodePath)
	n := s.nodeByPath(nodePath)
	if n == nil {
		return ztree.NewError(ztree.NoNode, nodePath)
	}
	n.data = append([]byte(nil), data...)
	n.version++
	n.mtime = time.Now().UnixMilli()
	return nil
}

// Delete removes the node at nodePath and its whole subtree. Not part
// of ztree.Conn; it exists so tests can exercise concurrent-deletion
// behavior.
func (s *Store) Delete(ctx context.Context, nodePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodePath = ztree.CleanPath(nodePath)
	n := s.nodeByPath(nodePath)
	if n == nil {
		return ztree.NewError(ztree.NoNode, nodePath)
	}
	if n.parent == nil {
		return ztree.NewError(ztree.NodeExists, nodePath)
	}
	delete(n.parent.children, n.name)
	n.parent.cversion++
	return nil
}

// Close is part of the ztree.Conn interface.
func (s *Store) Close() {
}
