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

// Package zkstore implements ztree.Conn on a ZooKeeper ensemble.
package zkstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/z-division/go-zookeeper/zk"

	"github.com/KevinJMao/zktreeutil/go/ztree"
)

// DefaultSessionTimeout is the ZooKeeper session timeout used when
// the caller doesn't override it.
const DefaultSessionTimeout = 30 * time.Second

// ParseAddr splits an ensemble connect string of the form
// host:port[,host:port...]/node/path into the server list and the
// embedded node path.
func ParseAddr(addr string) (servers []string, nodePath string, err error) {
	slash := strings.IndexByte(addr, '/')
	if slash <= 0 {
		return nil, "", fmt.Errorf("invalid connect string %q: expected host:port/node/path", addr)
	}
	servers = strings.Split(addr[:slash], ",")
	for _, server := range servers {
		if server == "" {
			return nil, "", fmt.Errorf("invalid connect string %q: empty server", addr)
		}
	}
	return servers, ztree.CleanPath(addr[slash:]), nil
}

// Conn is a ztree.Conn backed by one ZooKeeper session.
type Conn struct {
	conn *zk.Conn
}

// Dial connects to the ensemble and waits until the session is
// established, or ctx expires.
func Dial(ctx context.Context, servers []string, sessionTimeout time.Duration) (*Conn, error) {
	zconn, events, err := zk.Connect(servers, sessionTimeout)
	if err != nil {
		return nil, err
	}
	for {
		select {
		case <-ctx.Done():
			zconn.Close()
			return nil, fmt.Errorf("connecting to %v: %v", servers, ctx.Err())
		case event := <-events:
			switch event.State {
			case zk.StateHasSession:
				return &Conn{conn: zconn}, nil
			case zk.StateExpired, zk.StateAuthFailed:
				zconn.Close()
				return nil, fmt.Errorf("connecting to %v: %v", servers, event.State)
			}
		}
	}
}

// withContext runs one blocking client call and honors cancellation.
// The go-zookeeper client has no context support; a canceled call's
// goroutine finishes in the background and its result is dropped.
func (c *Conn) withContext(ctx context.Context, nodePath string, call func() error) error {
	if err := ctx.Err(); err != nil {
		return convertError(err, nodePath)
	}
	done := make(chan error, 1)
	go func() {
		done <- call()
	}()
	select {
	case <-ctx.Done():
		return convertError(ctx.Err(), nodePath)
	case err := <-done:
		if err != nil {
			return convertError(err, nodePath)
		}
		return nil
	}
}

// Exists is part of the ztree.Conn interface.
func (c *Conn) Exists(ctx context.Context, nodePath string) (bool, error) {
	var exists bool
	err := c.withContext(ctx, nodePath, func() error {
		var err error
		exists, _, err = c.conn.Exists(nodePath)
		return err
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Get is part of the ztree.Conn interface.
func (c *Conn) Get(ctx context.Context, nodePath string) ([]byte, *ztree.NodeStat, error) {
	var data []byte
	var stat *zk.Stat
	err := c.withContext(ctx, nodePath, func() error {
		var err error
		data, stat, err = c.conn.Get(nodePath)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return data, convertStat(stat), nil
}

// Children is part of the ztree.Conn interface. ZooKeeper returns
// children in arbitrary order; callers sort as needed.
func (c *Conn) Children(ctx context.Context, nodePath string) ([]string, error) {
	var children []string
	err := c.withContext(ctx, nodePath, func() error {
		var err error
		children, _, err = c.conn.Children(nodePath)
		return err
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

// Create is part of the ztree.Conn interface. Nodes are created as
// regular (non-ephemeral, non-sequence) nodes with open ACLs; the
// destination server assigns its own stat.
func (c *Conn) Create(ctx context.Context, nodePath string, data []byte) error {
	return c.withContext(ctx, nodePath, func() error {
		_, err := c.conn.Create(nodePath, data, 0, zk.WorldACL(zk.PermAll))
		return err
	})
}

// Set is part of the ztree.Conn interface. The write is unconditional
// (version -1).
func (c *Conn) Set(ctx context.Context, nodePath string, data []byte) error {
	return c.withContext(ctx, nodePath, func() error {
		_, err := c.conn.Set(nodePath, data, -1)
		return err
	})
}

// Close is part of the ztree.Conn interface.
func (c *Conn) Close() {
	c.conn.Close()
}

func convertStat(stat *zk.Stat) *ztree.NodeStat {
	if stat == nil {
		return nil
	}
	return &ztree.NodeStat{
		Version:        stat.Version,
		CVersion:       stat.Cversion,
		Ctime:          stat.Ctime,
		Mtime:          stat.Mtime,
		EphemeralOwner: stat.EphemeralOwner,
		DataLength:     stat.DataLength,
		NumChildren:    stat.NumChildren,
	}
}
