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
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
)

// DocNode is one entry of the portable document format: the node name
// (not its full path), its data, the informational metadata, and the
// ordered child entries. Data is stored base64-encoded by virtue of
// the JSON []byte encoding, so arbitrary bytes survive the text file.
//
// Stat is carried for traceability only; imports never replay it.
type DocNode struct {
	Name     string     `json:"name"`
	Data     []byte     `json:"data,omitempty"`
	Stat     *NodeStat  `json:"stat,omitempty"`
	Children []*DocNode `json:"children,omitempty"`
}

// ToDocument drains a pre-order, parent-first record sequence and
// rebuilds the nesting. The ancestor of each record is found by
// popping the ancestor stack until its top is the record's parent
// path; a record whose parent is not on that stack violates the
// pre-order contract and fails with a BadSequence error.
func ToDocument(ctx context.Context, src RecordSource) (*DocNode, error) {
	type frame struct {
		path string
		doc  *DocNode
	}
	var stack []frame
	var root *DocNode

	for {
		rec, err := src.Next(ctx)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}

		doc := &DocNode{
			Name: path.Base(rec.Path),
			Data: rec.Data,
			Stat: rec.Stat,
		}
		if root == nil {
			root = doc
			stack = append(stack, frame{path: rec.Path, doc: doc})
			continue
		}

		parent := path.Dir(rec.Path)
		for len(stack) > 0 && stack[len(stack)-1].path != parent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			return nil, NewError(BadSequence, rec.Path)
		}
		top := stack[len(stack)-1].doc
		top.Children = append(top.Children, doc)
		stack = append(stack, frame{path: rec.Path, doc: doc})
	}

	if root == nil {
		return nil, NewError(BadSequence, "")
	}
	return root, nil
}

// DocumentSource traverses a document pre-order and yields records
// whose paths are rooted at rootPath. Sibling order is the document
// order, so an export/import round trip preserves it byte for byte.
type DocumentSource struct {
	pending []docFrame
}

type docFrame struct {
	path string
	doc  *DocNode
}

// NewDocumentSource returns a RecordSource over doc, with the root
// entry mapped to rootPath.
func NewDocumentSource(doc *DocNode, rootPath string) *DocumentSource {
	return &DocumentSource{
		pending: []docFrame{{path: CleanPath(rootPath), doc: doc}},
	}
}

// Next is part of the RecordSource interface. It fails with a
// BadDocument error on nameless or duplicated child entries.
func (s *DocumentSource) Next(ctx context.Context) (*NodeRecord, error) {
	if len(s.pending) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, NewError(Interrupted, s.pending[len(s.pending)-1].path)
	}

	f := s.pending[len(s.pending)-1]
	s.pending = s.pending[:len(s.pending)-1]
	if f.doc == nil {
		return nil, NewError(BadDocument, f.path)
	}

	var names []string
	seen := make(map[string]bool, len(f.doc.Children))
	for _, child := range f.doc.Children {
		if child == nil || child.Name == "" || strings.Contains(child.Name, "/") {
			return nil, NewError(BadDocument, f.path)
		}
		if seen[child.Name] {
			return nil, NewError(BadDocument, path.Join(f.path, child.Name))
		}
		seen[child.Name] = true
		names = append(names, child.Name)
	}
	for i := len(f.doc.Children) - 1; i >= 0; i-- {
		child := f.doc.Children[i]
		s.pending = append(s.pending, docFrame{path: path.Join(f.path, child.Name), doc: child})
	}

	return &NodeRecord{
		Path:     f.path,
		Data:     f.doc.Data,
		Stat:     f.doc.Stat,
		Children: names,
	}, nil
}

// WriteFile stores the document as indented UTF-8 JSON. The stable
// field order keeps exports diff-friendly.
func WriteFile(filename string, doc *DocNode) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, append(data, '\n'), 0o644)
}

// ReadFile loads a document written by WriteFile. Any parse problem,
// including undecodable base64 data, is a BadDocument error; there is
// no best-effort partial parsing.
func ReadFile(filename string) (*DocNode, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	doc := &DocNode{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", NewError(BadDocument, filename), err)
	}
	return doc, nil
}
