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
	"context"
	"path"
	"sort"

	log "github.com/golang/glog"
)

// Walker produces the subtree rooted at a path as a lazy pre-order,
// parent-first sequence: the root first, then each child subtree in
// lexicographic child-name order, depth-first.
//
// Nodes are fetched one at a time, as they are about to be emitted,
// so large subtrees are never buffered. The pending stack holds paths
// only, which bounds memory by tree depth times fanout.
//
// The store may be mutated concurrently by others: a child listed at
// one step can be gone when fetched. That is reported as a per-node
// NodeVanished error and the walk continues past the lost subtree.
type Walker struct {
	conn Conn

	// pending is the DFS stack. The top entry is the next path to
	// fetch and emit.
	pending []string

	// started flips after the root was fetched successfully. An
	// absent root is NoNode (fatal); an absent later node is
	// NodeVanished (per-node).
	started bool
}

// NewWalker returns a Walker over the subtree at rootPath. The root
// must exist at the time of the first Next call.
func NewWalker(conn Conn, rootPath string) *Walker {
	return &Walker{
		conn:    conn,
		pending: []string{CleanPath(rootPath)},
	}
}

// Next is part of the RecordSource interface.
func (w *Walker) Next(ctx context.Context) (*NodeRecord, error) {
	for len(w.pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, NewError(Interrupted, w.pending[len(w.pending)-1])
		}

		nodePath := w.pending[len(w.pending)-1]
		w.pending = w.pending[:len(w.pending)-1]

		data, stat, err := w.conn.Get(ctx, nodePath)
		if err != nil {
			return nil, w.convertWalkError(nodePath, err)
		}
		children, err := w.conn.Children(ctx, nodePath)
		if err != nil {
			return nil, w.convertWalkError(nodePath, err)
		}
		w.started = true

		// The store's native order is arbitrary. Sort for
		// reproducibility, and push in reverse so the first
		// child is popped next.
		sort.Strings(children)
		for i := len(children) - 1; i >= 0; i-- {
			w.pending = append(w.pending, path.Join(nodePath, children[i]))
		}

		log.V(2).Infof("walk: %v (%v bytes, %v children)", nodePath, len(data), len(children))
		return &NodeRecord{
			Path:     nodePath,
			Data:     data,
			Stat:     stat,
			Children: children,
		}, nil
	}
	return nil, nil
}

func (w *Walker) convertWalkError(nodePath string, err error) error {
	if w.started && IsErrType(err, NoNode) {
		return NewError(NodeVanished, nodePath)
	}
	return err
}
