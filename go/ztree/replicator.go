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
	"fmt"
	"path"
	"strings"
	"time"

	log "github.com/golang/glog"
)

// writeAttempts bounds the retries of one node write on transient
// (timeout-class) failures.
const writeAttempts = 3

// Summary counts the per-node outcomes of one replication run. It is
// the only result used to decide the process success signal.
type Summary struct {
	Written int
	Skipped int
	Failed  int
}

// String is part of the fmt.Stringer interface.
func (s Summary) String() string {
	return fmt.Sprintf("%v written, %v skipped, %v failed", s.Written, s.Skipped, s.Failed)
}

// ReplicateOptions configures one replication run. The policy is an
// explicit per-call value; there is no package-level default.
type ReplicateOptions struct {
	Policy Policy

	// Prompt is consulted on conflicts under the Interactive
	// policy. Unused otherwise.
	Prompt PromptFunc
}

// Replicate applies a source record sequence onto a destination
// store, node by node in the order the source yields them.
//
// Each source path is rebased by substituting dstRoot for srcRoot.
// The destination root is anchored first: missing ancestors are
// created with empty data. Every later record's parent is guaranteed
// present by the pre-order contract, except when its write failed, in
// which case the children fail too and are counted.
//
// Replication is additive: destination nodes absent from the source
// are never touched, and a skip affects only that node's data, not
// its subtree. A per-node failure is logged, counted and stepped
// over; a failure on the root node, or an abort decision, ends the
// run immediately with the summary accumulated so far.
func Replicate(ctx context.Context, src RecordSource, dst Conn, srcRoot, dstRoot string, opts ReplicateOptions) (Summary, error) {
	srcRoot = CleanPath(srcRoot)
	dstRoot = CleanPath(dstRoot)

	var sum Summary
	root := true
	for {
		rec, err := src.Next(ctx)
		if err != nil {
			if IsErrType(err, NodeVanished) {
				log.Warningf("replicate: %v", err)
				sum.Failed++
				continue
			}
			return sum, err
		}
		if rec == nil {
			return sum, nil
		}

		dstPath, err := rebasePath(rec.Path, srcRoot, dstRoot)
		if err != nil {
			return sum, err
		}

		action, err := replicateNode(ctx, dst, dstPath, rec.Data, root, opts)
		switch {
		case err == nil && action == ActionWrite:
			sum.Written++
		case err == nil:
			sum.Skipped++
		case IsErrType(err, Aborted) || IsErrType(err, Interrupted):
			return sum, err
		case root:
			return sum, fmt.Errorf("replicating root %v: %w", dstPath, err)
		default:
			log.Errorf("replicate: %v: %v", dstPath, err)
			sum.Failed++
		}
		root = false
	}
}

// replicateNode applies one record at dstPath. It returns the action
// taken (ActionWrite or ActionSkip) on success, an Aborted error on
// an abort decision, and the write error otherwise.
func replicateNode(ctx context.Context, dst Conn, dstPath string, data []byte, root bool, opts ReplicateOptions) (Action, error) {
	exists, err := dst.Exists(ctx, dstPath)
	if err != nil {
		return ActionSkip, err
	}

	action, err := Decide(exists, opts.Policy, dstPath, opts.Prompt)
	if err != nil {
		// A failed prompt means conflicts can no longer be
		// resolved; stop the run.
		return ActionAbort, fmt.Errorf("%w: %v", NewError(Aborted, dstPath), err)
	}
	switch action {
	case ActionSkip:
		log.V(2).Infof("replicate: skipping existing %v", dstPath)
		return ActionSkip, nil
	case ActionAbort:
		return ActionAbort, NewError(Aborted, dstPath)
	}

	err = withRetries(ctx, dstPath, func() error {
		switch {
		case exists:
			return dst.Set(ctx, dstPath, data)
		case root:
			// Anchor the destination root, creating missing
			// ancestors with empty data.
			return CreateRecursive(ctx, dst, dstPath, data)
		default:
			return dst.Create(ctx, dstPath, data)
		}
	})
	if IsErrType(err, NodeExists) {
		// Lost a race with a concurrent writer between the
		// existence check and the create. Treat the node as a
		// pre-existing conflict and leave it alone.
		log.Warningf("replicate: %v appeared concurrently, skipping", dstPath)
		return ActionSkip, nil
	}
	if err != nil {
		return ActionWrite, err
	}
	log.V(2).Infof("replicate: wrote %v (%v bytes)", dstPath, len(data))
	return ActionWrite, nil
}

// rebasePath maps a source path into the destination tree.
func rebasePath(nodePath, srcRoot, dstRoot string) (string, error) {
	if nodePath == srcRoot {
		return dstRoot, nil
	}
	if srcRoot == "/" {
		return path.Join(dstRoot, nodePath), nil
	}
	if !strings.HasPrefix(nodePath, srcRoot+"/") {
		return "", NewError(BadSequence, nodePath)
	}
	return path.Join(dstRoot, strings.TrimPrefix(nodePath, srcRoot)), nil
}

func retryable(err error) bool {
	return IsErrType(err, Timeout)
}

// withRetries runs one write, retrying timeouts with a short backoff.
func withRetries(ctx context.Context, nodePath string, write func() error) error {
	var err error
	for attempt := 0; attempt < writeAttempts; attempt++ {
		if attempt > 0 {
			log.Warningf("retrying write of %v after transient failure: %v", nodePath, err)
			select {
			case <-ctx.Done():
				return NewError(Interrupted, nodePath)
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}
		if err = write(); err == nil || !retryable(err) {
			return err
		}
	}
	return err
}
