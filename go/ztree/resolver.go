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

import "fmt"

// Policy says how replication treats a destination node that already
// exists.
type Policy int

const (
	// NoClobber skips nodes that already exist at the destination.
	NoClobber Policy = iota

	// Interactive asks the prompt collaborator for each conflict.
	Interactive

	// Overwrite replaces existing destination data unconditionally.
	Overwrite
)

// String is part of the fmt.Stringer interface.
func (p Policy) String() string {
	switch p {
	case NoClobber:
		return "no-clobber"
	case Interactive:
		return "interactive"
	case Overwrite:
		return "overwrite"
	}
	return fmt.Sprintf("unknown policy %d", int(p))
}

// ParsePolicy maps the command-line spellings to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "no-clobber":
		return NoClobber, nil
	case "interactive":
		return Interactive, nil
	case "overwrite":
		return Overwrite, nil
	}
	return NoClobber, fmt.Errorf("unknown policy %q (want no-clobber, interactive or overwrite)", s)
}

// Action is the decision taken for one destination node.
type Action int

const (
	// ActionWrite creates or updates the destination node.
	ActionWrite Action = iota

	// ActionSkip leaves the destination node untouched. Its
	// children are still visited.
	ActionSkip

	// ActionAbort terminates the whole replication run.
	ActionAbort
)

// Answer is a prompt collaborator's reply for one conflicting node.
type Answer int

const (
	// AnswerWrite overwrites the conflicting node.
	AnswerWrite Answer = iota

	// AnswerSkip leaves the conflicting node alone.
	AnswerSkip

	// AnswerAbort stops the whole run.
	AnswerAbort
)

// PromptFunc asks the user about one conflicting destination path.
// The core never does interactive I/O itself; implementations live
// with the caller.
type PromptFunc func(nodePath string) (Answer, error)

// Decide maps the destination state and the configured policy to an
// action. It is pure given its inputs and the prompt's answer: no
// hidden state, fully testable with a stubbed prompt.
func Decide(exists bool, policy Policy, nodePath string, prompt PromptFunc) (Action, error) {
	if !exists {
		return ActionWrite, nil
	}
	switch policy {
	case Overwrite:
		return ActionWrite, nil
	case Interactive:
		if prompt == nil {
			return ActionAbort, fmt.Errorf("interactive policy needs a prompt for %v", nodePath)
		}
		answer, err := prompt(nodePath)
		if err != nil {
			return ActionAbort, err
		}
		switch answer {
		case AnswerWrite:
			return ActionWrite, nil
		case AnswerSkip:
			return ActionSkip, nil
		default:
			return ActionAbort, nil
		}
	default:
		return ActionSkip, nil
	}
}
