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
	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/KevinJMao/zktreeutil/go/ztree"
)

var (
	exportArgs = struct {
		File string
	}{}

	Export = &cobra.Command{
		Use:     "export --file <file> <source>",
		Short:   "Write a node tree to a local JSON file.",
		Example: `  zktreeutil export --file exported_nodes.json zookeeper1:2181/path/to/export`,
		Args:    cobra.ExactArgs(1),
		RunE:    commandExport,
	}
)

func commandExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	conn, rootPath, err := dial(ctx, args[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	doc, err := ztree.ToDocument(ctx, ztree.NewWalker(conn, rootPath))
	if err != nil {
		return err
	}
	if err := ztree.WriteFile(exportArgs.File, doc); err != nil {
		return err
	}
	log.Infof("export: wrote %v to %v", rootPath, exportArgs.File)
	return nil
}

func init() {
	Export.Flags().StringVarP(&exportArgs.File, "file", "f", "", "file to write the tree to")
	Export.MarkFlagRequired("file")

	Root.AddCommand(Export)
}
