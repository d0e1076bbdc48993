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

package ztree_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KevinJMao/zktreeutil/go/ztree"
	"github.com/KevinJMao/zktreeutil/go/ztree/memstore"
)

func getData(ctx context.Context, t *testing.T, store *memstore.Store, nodePath string) string {
	t.Helper()
	data, _, err := store.Get(ctx, nodePath)
	if err != nil {
		t.Fatalf("Get(%v) failed: %v", nodePath, err)
	}
	return string(data)
}

func runCopy(ctx context.Context, t *testing.T, src, dst *memstore.Store, srcRoot, dstRoot string, opts ztree.ReplicateOptions) ztree.Summary {
	t.Helper()
	sum, err := ztree.Replicate(ctx, ztree.NewWalker(src, srcRoot), dst, srcRoot, dstRoot, opts)
	if err != nil {
		t.Fatalf("Replicate failed: %v", err)
	}
	return sum
}

func TestCopyIntoEmptyDestination(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	dst := memstore.New()
	buildTree(ctx, t, src, map[string]string{
		"/a":   "x",
		"/a/b": "y",
	})

	sum := runCopy(ctx, t, src, dst, "/a", "/z", ztree.ReplicateOptions{Policy: ztree.Overwrite})

	if sum.Written != 2 || sum.Skipped != 0 || sum.Failed != 0 {
		t.Fatalf("unexpected summary: %v", sum)
	}
	if got := getData(ctx, t, dst, "/z"); got != "x" {
		t.Fatalf("/z = %q, want x", got)
	}
	if got := getData(ctx, t, dst, "/z/b"); got != "y" {
		t.Fatalf("/z/b = %q, want y", got)
	}
}

func TestCopyOverwriteIdempotent(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	dst := memstore.New()
	buildTree(ctx, t, src, map[string]string{
		"/a":     "x",
		"/a/b":   "y",
		"/a/b/c": "z",
	})

	for run := 0; run < 2; run++ {
		sum := runCopy(ctx, t, src, dst, "/a", "/a", ztree.ReplicateOptions{Policy: ztree.Overwrite})
		if sum.Written != 3 {
			t.Fatalf("run %v: unexpected summary: %v", run, sum)
		}
		for p, want := range map[string]string{"/a": "x", "/a/b": "y", "/a/b/c": "z"} {
			if got := getData(ctx, t, dst, p); got != want {
				t.Fatalf("run %v: %v = %q, want %q", run, p, got, want)
			}
		}
	}
}

func TestCopyNoClobberPreservesData(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	dst := memstore.New()
	buildTree(ctx, t, src, map[string]string{"/a": "new", "/a/b": "child"})
	buildTree(ctx, t, dst, map[string]string{"/a": "precious"})

	sum := runCopy(ctx, t, src, dst, "/a", "/a", ztree.ReplicateOptions{Policy: ztree.NoClobber})

	if sum.Written != 1 || sum.Skipped != 1 {
		t.Fatalf("unexpected summary: %v", sum)
	}
	// The pre-existing node kept its data, but its subtree was
	// still visited and filled in.
	if got := getData(ctx, t, dst, "/a"); got != "precious" {
		t.Fatalf("/a = %q, want precious", got)
	}
	if got := getData(ctx, t, dst, "/a/b"); got != "child" {
		t.Fatalf("/a/b = %q, want child", got)
	}
}

func TestCopyInteractiveSkipAll(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	dst := memstore.New()
	nodes := map[string]string{"/a": "1", "/a/b": "2", "/a/c": "3"}
	buildTree(ctx, t, src, nodes)
	buildTree(ctx, t, dst, map[string]string{"/a": "d1", "/a/b": "d2", "/a/c": "d3"})

	sum := runCopy(ctx, t, src, dst, "/a", "/a", ztree.ReplicateOptions{
		Policy: ztree.Interactive,
		Prompt: func(string) (ztree.Answer, error) { return ztree.AnswerSkip, nil },
	})

	if sum.Skipped != len(nodes) || sum.Written != 0 || sum.Failed != 0 {
		t.Fatalf("unexpected summary: %v", sum)
	}
	for p, want := range map[string]string{"/a": "d1", "/a/b": "d2", "/a/c": "d3"} {
		if got := getData(ctx, t, dst, p); got != want {
			t.Fatalf("%v = %q, want %q", p, got, want)
		}
	}
}

func TestCopyAbortStopsRun(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	dst := memstore.New()
	buildTree(ctx, t, src, map[string]string{"/a": "1", "/a/b": "2", "/a/c": "3", "/a/d": "4"})
	buildTree(ctx, t, dst, map[string]string{"/a": "x", "/a/b": "x", "/a/c": "x", "/a/d": "x"})

	answers := []ztree.Answer{ztree.AnswerWrite, ztree.AnswerAbort}
	prompted := 0
	sum, err := ztree.Replicate(ctx, ztree.NewWalker(src, "/a"), dst, "/a", "/a", ztree.ReplicateOptions{
		Policy: ztree.Interactive,
		Prompt: func(string) (ztree.Answer, error) {
			answer := answers[prompted]
			prompted++
			return answer, nil
		},
	})

	if !ztree.IsErrType(err, ztree.Aborted) {
		t.Fatalf("got %v, want Aborted", err)
	}
	if prompted != 2 {
		t.Fatalf("prompted %v times, want 2", prompted)
	}
	// Only the root, processed strictly before the abort point,
	// was written; the siblings after /a/b were never touched.
	if sum.Written != 1 || sum.Skipped != 0 || sum.Failed != 0 {
		t.Fatalf("unexpected summary: %v", sum)
	}
	for _, p := range []string{"/a/b", "/a/c", "/a/d"} {
		if got := getData(ctx, t, dst, p); got != "x" {
			t.Fatalf("%v = %q, want untouched x", p, got)
		}
	}
}

func TestCopyIsAdditive(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	dst := memstore.New()
	buildTree(ctx, t, src, map[string]string{"/a": "1", "/a/b": "2"})
	buildTree(ctx, t, dst, map[string]string{"/a": "old", "/a/orphan": "keep"})

	runCopy(ctx, t, src, dst, "/a", "/a", ztree.ReplicateOptions{Policy: ztree.Overwrite})

	// Destination-only nodes survive an overwrite copy.
	if got := getData(ctx, t, dst, "/a/orphan"); got != "keep" {
		t.Fatalf("/a/orphan = %q, want keep", got)
	}
	if got := getData(ctx, t, dst, "/a"); got != "1" {
		t.Fatalf("/a = %q, want 1", got)
	}
}

func TestCopyAnchorsDestinationRoot(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	dst := memstore.New()
	buildTree(ctx, t, src, map[string]string{"/a": "x"})

	sum := runCopy(ctx, t, src, dst, "/a", "/deep/new/root", ztree.ReplicateOptions{Policy: ztree.NoClobber})

	if sum.Written != 1 {
		t.Fatalf("unexpected summary: %v", sum)
	}
	if got := getData(ctx, t, dst, "/deep/new/root"); got != "x" {
		t.Fatalf("/deep/new/root = %q, want x", got)
	}
	if got := getData(ctx, t, dst, "/deep/new"); got != "" {
		t.Fatalf("/deep/new = %q, want empty anchor", got)
	}
}

// flakyStore wraps a memstore and injects write errors per path.
type flakyStore struct {
	*memstore.Store
	transient map[string]int   // remaining timeout-class failures
	terminal  map[string]error // permanent failure
}

func (f *flakyStore) writeErr(nodePath string) error {
	if err := f.terminal[nodePath]; err != nil {
		return err
	}
	if f.transient[nodePath] > 0 {
		f.transient[nodePath]--
		return ztree.NewError(ztree.Timeout, nodePath)
	}
	return nil
}

func (f *flakyStore) Create(ctx context.Context, nodePath string, data []byte) error {
	if err := f.writeErr(nodePath); err != nil {
		return err
	}
	return f.Store.Create(ctx, nodePath, data)
}

func (f *flakyStore) Set(ctx context.Context, nodePath string, data []byte) error {
	if err := f.writeErr(nodePath); err != nil {
		return err
	}
	return f.Store.Set(ctx, nodePath, data)
}

func TestCopyRetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	buildTree(ctx, t, src, map[string]string{"/a": "1", "/a/b": "2"})

	dst := &flakyStore{
		Store:     memstore.New(),
		transient: map[string]int{"/a/b": 2},
	}
	sum, err := ztree.Replicate(ctx, ztree.NewWalker(src, "/a"), dst, "/a", "/a", ztree.ReplicateOptions{Policy: ztree.Overwrite})
	if err != nil {
		t.Fatalf("Replicate failed: %v", err)
	}
	if sum.Written != 2 || sum.Failed != 0 {
		t.Fatalf("unexpected summary: %v", sum)
	}
	if got := getData(ctx, t, dst.Store, "/a/b"); got != "2" {
		t.Fatalf("/a/b = %q, want 2", got)
	}
}

func TestCopyContinuesPastNodeFailure(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	buildTree(ctx, t, src, map[string]string{"/a": "1", "/a/b": "2", "/a/c": "3"})

	dst := &flakyStore{
		Store:    memstore.New(),
		terminal: map[string]error{"/a/b": errors.New("permission denied")},
	}
	sum, err := ztree.Replicate(ctx, ztree.NewWalker(src, "/a"), dst, "/a", "/a", ztree.ReplicateOptions{Policy: ztree.Overwrite})
	if err != nil {
		t.Fatalf("Replicate failed: %v", err)
	}
	if sum.Written != 2 || sum.Failed != 1 {
		t.Fatalf("unexpected summary: %v", sum)
	}
	if got := getData(ctx, t, dst.Store, "/a/c"); got != "3" {
		t.Fatalf("/a/c = %q, want 3", got)
	}
}

func TestCopyRootFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	buildTree(ctx, t, src, map[string]string{"/a": "1", "/a/b": "2"})

	dst := &flakyStore{
		Store:    memstore.New(),
		terminal: map[string]error{"/z": errors.New("permission denied")},
	}
	sum, err := ztree.Replicate(ctx, ztree.NewWalker(src, "/a"), dst, "/a", "/z", ztree.ReplicateOptions{Policy: ztree.Overwrite})
	if err == nil {
		t.Fatal("expected a fatal error on root failure")
	}
	if sum.Written != 0 {
		t.Fatalf("unexpected summary: %v", sum)
	}
}

func TestImportDocumentIntoStore(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	buildTree(ctx, t, src, map[string]string{"/a": "x", "/a/b": "y"})

	doc, err := ztree.ToDocument(ctx, ztree.NewWalker(src, "/a"))
	if err != nil {
		t.Fatalf("ToDocument failed: %v", err)
	}

	dst := memstore.New()
	sum, err := ztree.Replicate(ctx, ztree.NewDocumentSource(doc, "/q"), dst, "/q", "/q", ztree.ReplicateOptions{Policy: ztree.Overwrite})
	if err != nil {
		t.Fatalf("Replicate failed: %v", err)
	}
	if sum.Written != 2 {
		t.Fatalf("unexpected summary: %v", sum)
	}
	if got := getData(ctx, t, dst, "/q"); got != "x" {
		t.Fatalf("/q = %q, want x", got)
	}
	if got := getData(ctx, t, dst, "/q/b"); got != "y" {
		t.Fatalf("/q/b = %q, want y", got)
	}
}

func TestWalkDocumentRoundTripMatchesWalk(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	buildTree(ctx, t, src, map[string]string{
		"/a":     "x",
		"/a/b":   "y",
		"/a/c":   "",
		"/a/c/d": "deep",
	})

	want := drain(t, ztree.NewWalker(src, "/a"))

	doc, err := ztree.ToDocument(ctx, ztree.NewWalker(src, "/a"))
	if err != nil {
		t.Fatalf("ToDocument failed: %v", err)
	}
	got := drain(t, ztree.NewDocumentSource(doc, "/a"))

	if len(got) != len(want) {
		t.Fatalf("round trip yielded %v records, want %v", len(got), len(want))
	}
	for i := range want {
		if got[i].Path != want[i].Path {
			t.Fatalf("record %v: path %v, want %v", i, got[i].Path, want[i].Path)
		}
		if string(got[i].Data) != string(want[i].Data) {
			t.Fatalf("record %v: data %q, want %q", i, got[i].Data, want[i].Data)
		}
		if len(got[i].Children) != len(want[i].Children) {
			t.Fatalf("record %v: children %v, want %v", i, got[i].Children, want[i].Children)
		}
	}
}
