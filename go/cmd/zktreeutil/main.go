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

// zktreeutil prints, copies, exports and imports ZooKeeper node
// trees. Exit status: 0 on success (skipped conflicts included), 1
// when the run completed but some nodes failed, 2 on a fatal error
// (absent root, malformed document, abort).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	log "github.com/golang/glog"

	"github.com/KevinJMao/zktreeutil/go/cmd/zktreeutil/command"
)

func main() {
	defer log.Flush()

	if err := command.Root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "zktreeutil: %v\n", err)
		log.Flush()
		if errors.Is(err, command.ErrNodeFailures) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
