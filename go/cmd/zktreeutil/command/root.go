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
	"context"
	"errors"
	goflag "flag"
	"fmt"
	"strings"
	"time"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KevinJMao/zktreeutil/go/ztree"
	"github.com/KevinJMao/zktreeutil/go/ztree/zkstore"
)

// ErrNodeFailures reports a run that completed but failed on some
// nodes. main maps it to its own exit code.
var ErrNodeFailures = errors.New("completed with node failures")

var (
	rootArgs = struct {
		SessionTimeout time.Duration
	}{}

	Root = &cobra.Command{
		Use:   "zktreeutil",
		Short: "Print, copy, export and import ZooKeeper node trees.",
		Long: `zktreeutil replicates ZooKeeper node trees.

Ensembles are addressed with connect strings of the form
host:port[,host:port...]/node/path. Conflict handling for copy and
import is selected with --policy: no-clobber (default) never touches
existing nodes, interactive prompts per conflict, overwrite replaces
existing data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// dial opens the ensemble named by a connect string and returns the
// connection plus the node path embedded in the string.
func dial(ctx context.Context, addr string) (ztree.Conn, string, error) {
	servers, nodePath, err := zkstore.ParseAddr(addr)
	if err != nil {
		return nil, "", err
	}
	conn, err := zkstore.Dial(ctx, servers, sessionTimeout())
	if err != nil {
		return nil, "", err
	}
	return conn, nodePath, nil
}

func sessionTimeout() time.Duration {
	if Root.PersistentFlags().Changed("session-timeout") {
		return rootArgs.SessionTimeout
	}
	if d := viper.GetDuration("session-timeout"); d > 0 {
		return d
	}
	return rootArgs.SessionTimeout
}

// resolvePolicy parses the --policy flag of cmd, falling back to the
// ZKTREEUTIL_POLICY environment value when the flag wasn't given.
func resolvePolicy(cmd *cobra.Command, flagValue string) (ztree.Policy, error) {
	if !cmd.Flags().Changed("policy") {
		if v := viper.GetString("policy"); v != "" {
			flagValue = v
		}
	}
	return ztree.ParsePolicy(flagValue)
}

// finish logs the summary and converts it to the process result.
func finish(op string, sum ztree.Summary, err error) error {
	log.Infof("%v: %v", op, sum)
	if err != nil {
		return fmt.Errorf("%v: %w", op, err)
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%v (%v): %w", op, sum, ErrNodeFailures)
	}
	return nil
}

func init() {
	Root.PersistentFlags().DurationVar(&rootArgs.SessionTimeout, "session-timeout",
		zkstore.DefaultSessionTimeout, "ZooKeeper session timeout")

	// Make the glog flags (-v, -logtostderr, ...) available.
	Root.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	viper.SetEnvPrefix("zktreeutil")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
