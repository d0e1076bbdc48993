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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/KevinJMao/zktreeutil/go/ztree"
)

var promptReader = bufio.NewReader(os.Stdin)

// stdinPrompt asks on the terminal how to resolve one conflicting
// node. It re-asks until it gets one of the three answers.
func stdinPrompt(nodePath string) (ztree.Answer, error) {
	for {
		fmt.Fprintf(os.Stderr, "Node %v already exists at destination. Overwrite? [y]es/[n]o/[a]bort all: ", nodePath)
		line, err := promptReader.ReadString('\n')
		if err != nil {
			return ztree.AnswerAbort, fmt.Errorf("reading prompt answer: %v", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return ztree.AnswerWrite, nil
		case "n", "no":
			return ztree.AnswerSkip, nil
		case "a", "abort":
			return ztree.AnswerAbort, nil
		}
	}
}
