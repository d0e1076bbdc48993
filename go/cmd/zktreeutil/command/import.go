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

package command

import (
	"github.com/spf13/cobra"

	"github.com/KevinJMao/zktreeutil/go/ztree"
)

var (
	importArgs = struct {
		File   string
		Policy string
	}{}

	Import = &cobra.Command{
		Use:   "import --file <file> <destination>",
		Short: "Read a JSON tree file and write it into an ensemble.",
		Example: `  # Import nodes from exported_nodes.json under /path/to/write/to,
  # overwriting nodes that already exist.
  zktreeutil import --policy=overwrite --file exported_nodes.json zookeeper2:2181/path/to/write/to`,
		Args: cobra.ExactArgs(1),
		RunE: commandImport,
	}
)

func commandImport(cmd *cobra.Command, args []string) error {
	policy, err := resolvePolicy(cmd, importArgs.Policy)
	if err != nil {
		return err
	}
	doc, err := ztree.ReadFile(importArgs.File)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	dst, dstRoot, err := dial(ctx, args[0])
	if err != nil {
		return err
	}
	defer dst.Close()

	// The document becomes the source, already rooted at the
	// destination path, so replication rebases nothing.
	src := ztree.NewDocumentSource(doc, dstRoot)
	sum, err := ztree.Replicate(ctx, src, dst, dstRoot, dstRoot, ztree.ReplicateOptions{
		Policy: policy,
		Prompt: stdinPrompt,
	})
	return finish("import", sum, err)
}

func init() {
	Import.Flags().StringVarP(&importArgs.File, "file", "f", "", "file to read the tree from")
	Import.MarkFlagRequired("file")
	Import.Flags().StringVar(&importArgs.Policy, "policy", "no-clobber",
		"conflict policy: no-clobber, interactive or overwrite")

	Root.AddCommand(Import)
}
