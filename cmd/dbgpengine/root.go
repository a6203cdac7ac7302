// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	verbose  bool
	logEntry *logrus.Entry
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dbgpengine",
		Short: "A client-side DBGP (Xdebug-style) debugger engine",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log := logrus.New()
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			logEntry = logrus.NewEntry(log)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a config file (default: a dbgpengine.* file in . or $HOME/.config/dbgpengine)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newServeCmd())
	return root
}
