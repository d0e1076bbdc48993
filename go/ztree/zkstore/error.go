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

package zkstore

import (
	"context"
	"errors"

	"github.com/z-division/go-zookeeper/zk"

	"github.com/KevinJMao/zktreeutil/go/ztree"
)

// Error codes returned by the zookeeper Go client:
func convertError(err error, node string) error {
	switch {
	case errors.Is(err, zk.ErrNoNode):
		return ztree.NewError(ztree.NoNode, node)
	case errors.Is(err, zk.ErrNodeExists):
		return ztree.NewError(ztree.NodeExists, node)
	case errors.Is(err, zk.ErrSessionExpired):
		return ztree.NewError(ztree.Timeout, node)
	case errors.Is(err, zk.ErrConnectionClosed):
		return ztree.NewError(ztree.Timeout, node)
	case errors.Is(err, context.Canceled):
		return ztree.NewError(ztree.Interrupted, node)
	case errors.Is(err, context.DeadlineExceeded):
		return ztree.NewError(ztree.Timeout, node)
	}
	return err
}
