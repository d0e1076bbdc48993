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

var Print = &cobra.Command{
	Use:     "print <source>",
	Short:   "Recursively print the node tree at the source location.",
	Example: `  zktreeutil print zookeeper1:2181/path/to/target`,
	Args:    cobra.ExactArgs(1),
	RunE:    commandPrint,
}

func commandPrint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	conn, rootPath, err := dial(ctx, args[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	return ztree.Render(ctx, ztree.NewWalker(conn, rootPath), cmd.OutOrStdout())
}

func init() {
	Root.AddCommand(Print)
}
