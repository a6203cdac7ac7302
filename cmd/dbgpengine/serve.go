// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"
	"syscall"

	dbgpengine "github.com/nabbar/dbgpengine"
	"github.com/nabbar/dbgpengine/config"
	"github.com/nabbar/dbgpengine/dbgp"
	"github.com/nabbar/dbgpengine/fsadapter"
	"github.com/nabbar/dbgpengine/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Listen for a DBGP runtime and log session events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}

			ui := &logOnlyUI{log: logEntry}
			var fs fsadapter.OS
			f := dbgpengine.New(cfg.BasePath, cfg.Host, cfg.Port, ui, fs, logEntry)

			if err := f.Start(); err != nil {
				return err
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			logEntry.Info("shutting down")
			return f.Stop()
		},
	}
	config.BindFlags(cmd.Flags())
	return cmd
}

// logOnlyUI is the minimal UI collaborator the headless serve command
// uses: every event becomes a structured log line.
type logOnlyUI struct {
	log *logrus.Entry
}

func (u *logOnlyUI) OnListening(host string, port uint16) {
	u.log.WithField("addr", host).WithField("port", port).Info("listening")
}

func (u *logOnlyUI) OnAttached(init dbgp.Init) {
	u.log.WithField("idekey", init.IDEKey).WithField("language", init.Language).Info("session attached")
}

func (u *logOnlyUI) OnMessage(text string) {
	u.log.Info(text)
}

func (u *logOnlyUI) OnPaused(state dbgpengine.DebuggerState) {
	u.log.WithField("file", state.FileName).WithField("line", state.LineNumber).Info("paused")
}

func (u *logOnlyUI) OnContext(names []session.ContextName, props map[string]dbgp.Property) {
	u.log.WithField("contexts", len(names)).WithField("properties", len(props)).Debug("context")
}

func (u *logOnlyUI) OnDetached(reason string) {
	u.log.WithField("reason", reason).Info("session detached")
}
