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
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// maxInlineData is the largest payload printed verbatim. Anything
// longer, or not valid UTF-8, shows as a byte count.
const maxInlineData = 60

// Render writes a human-readable listing of a record sequence: one
// line per node, indented proportionally to its depth below the first
// record, with the path, the data and a metadata summary. Vanished
// nodes are annotated in place and don't stop the listing. Pure
// formatting; no conflict logic.
func Render(ctx context.Context, src RecordSource, w io.Writer) error {
	root := ""
	for {
		rec, err := src.Next(ctx)
		if err != nil {
			if IsErrType(err, NodeVanished) {
				if _, werr := fmt.Fprintf(w, "%v\n", err); werr != nil {
					return werr
				}
				continue
			}
			return err
		}
		if rec == nil {
			return nil
		}
		if root == "" {
			root = rec.Path
		}

		indent := strings.Repeat("  ", relDepth(root, rec.Path))
		if _, err := fmt.Fprintf(w, "%v%v %v%v\n", indent, rec.Path, formatData(rec.Data), formatStat(rec.Stat)); err != nil {
			return err
		}
	}
}

func relDepth(root, nodePath string) int {
	if nodePath == root {
		return 0
	}
	rel := nodePath
	if root != "/" {
		rel = strings.TrimPrefix(nodePath, root)
	}
	return strings.Count(rel, "/")
}

func formatData(data []byte) string {
	switch {
	case len(data) == 0:
		return "(empty)"
	case len(data) > maxInlineData || !utf8.Valid(data):
		return fmt.Sprintf("(%v bytes)", len(data))
	default:
		return strconv.Quote(string(data))
	}
}

func formatStat(stat *NodeStat) string {
	if stat == nil {
		return ""
	}
	ephemeral := ""
	if stat.Ephemeral() {
		ephemeral = " ephemeral"
	}
	mtime := time.UnixMilli(stat.Mtime).UTC().Format(time.RFC3339)
	return fmt.Sprintf(" [v=%v cv=%v mtime=%v%v]", stat.Version, stat.CVersion, mtime, ephemeral)
}
