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
	copyArgs = struct {
		Policy string
	}{}

	Copy = &cobra.Command{
		Use:   "copy <source> <destination>",
		Short: "Recursively copy a node tree from one ensemble to another.",
		Example: `  # Copy nodes under /path/to/src on zookeeper1 into /path/to/dst
  # on zookeeper2, skipping nodes that already exist.
  zktreeutil copy zookeeper1:2181/path/to/src zookeeper2:2181/path/to/dst`,
		Args: cobra.ExactArgs(2),
		RunE: commandCopy,
	}
)

func commandCopy(cmd *cobra.Command, args []string) error {
	policy, err := resolvePolicy(cmd, copyArgs.Policy)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	src, srcRoot, err := dial(ctx, args[0])
	if err != nil {
		return err
	}
	defer src.Close()
	dst, dstRoot, err := dial(ctx, args[1])
	if err != nil {
		return err
	}
	defer dst.Close()

	// Streaming: the walker feeds the replicator one node at a
	// time, the subtree is never held in memory.
	sum, err := ztree.Replicate(ctx, ztree.NewWalker(src, srcRoot), dst, srcRoot, dstRoot, ztree.ReplicateOptions{
		Policy: policy,
		Prompt: stdinPrompt,
	})
	return finish("copy", sum, err)
}

func init() {
	Copy.Flags().StringVar(&copyArgs.Policy, "policy", "no-clobber",
		"conflict policy: no-clobber, interactive or overwrite")

	Root.AddCommand(Copy)
}
