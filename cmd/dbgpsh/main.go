// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dbgpsh is an interactive front-end for the debugger engine: a
// readline shell that attaches to one incoming runtime, accepts
// run/break/context commands, and prints lifecycle events in color.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	dbgpengine "github.com/nabbar/dbgpengine"
	"github.com/nabbar/dbgpengine/breakpoint"
	"github.com/nabbar/dbgpengine/config"
	"github.com/nabbar/dbgpengine/dbgp"
	"github.com/nabbar/dbgpengine/fsadapter"
	"github.com/nabbar/dbgpengine/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const helpText = `commands:
  run                resume execution until the next breakpoint
  break FILE:LINE    set a line breakpoint
  context            refetch the current context
  quit               detach and exit
  h                  this help`

func main() {
	flags := pflag.NewFlagSet("dbgpsh", pflag.ExitOnError)
	config.BindFlags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load(flags, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logrus.NewEntry(logrus.StandardLogger())
	shell := newShell()

	var fs fsadapter.OS
	f := dbgpengine.New(cfg.BasePath, cfg.Host, cfg.Port, shell, fs, log)
	if err := f.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Stop()

	shell.run(f)
}

// shell is the dbgpengine.UI collaborator backing the interactive
// session. Every callback except OnListening is invoked from the facade's
// worker goroutine, so output goes straight to the terminal rather than
// through a buffer.
type shell struct {
	rl *readline.Instance
}

func newShell() *shell {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "(dbgpsh) ",
		HistoryFile: historyFile(),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return &shell{rl: rl}
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dbgpsh.history"
	}
	return home + "/.dbgpsh.history"
}

func (s *shell) OnListening(host string, port uint16) {
	color.Yellow("dbgpsh: listening on %s:%d", host, port)
}

func (s *shell) OnAttached(init dbgp.Init) {
	color.Green("dbgpsh: attached to %s (%s)", init.FileURI, init.Language)
}

func (s *shell) OnMessage(text string) {
	color.Red("dbgpsh: %s", text)
}

func (s *shell) OnPaused(state dbgpengine.DebuggerState) {
	color.Green("dbgpsh: paused at %s:%d", state.FileName, state.LineNumber)
}

func (s *shell) OnContext(names []session.ContextName, props map[string]dbgp.Property) {
	for _, n := range names {
		fmt.Printf("  context %d: %s\n", n.ID, n.Name)
	}
	for name, p := range props {
		value := string(p.Value)
		if value == "" {
			value = p.Encoded
		}
		fmt.Printf("  %s = %s (%s)\n", name, value, p.DataType)
	}
}

func (s *shell) OnDetached(reason string) {
	color.Yellow("dbgpsh: detached (%s)", reason)
}

// run drives the readline loop until the user quits or input ends. f is
// the already-started facade the shell schedules operations against.
func (s *shell) run(f *dbgpengine.Facade) {
	defer s.rl.Close()
	color.Yellow("h <enter> for help")

	for {
		line, err := s.rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "run":
			if !f.EnqueueOperation(dbgpengine.RunOperation{FindFile: f.FindFile}) {
				color.Red("dbgpsh: no session attached")
			}
		case line == "context":
			if !f.EnqueueOperation(dbgpengine.ChangeContextOperation{}) {
				color.Red("dbgpsh: no session attached")
			}
		case strings.HasPrefix(line, "break "):
			bp, err := parseBreak(strings.TrimPrefix(line, "break "))
			if err != nil {
				color.Red("dbgpsh: %s", err)
				continue
			}
			f.AddBreakpoint(bp)
		case line == "quit" || line == "q":
			return
		case line == "h" || line == "help":
			fmt.Println(helpText)
		default:
			color.Red("dbgpsh: unknown command %q (h for help)", line)
		}
	}
}

// parseBreak parses "FILE:LINE" into a new line breakpoint.
func parseBreak(arg string) (*breakpoint.LineBreakpoint, error) {
	idx := strings.LastIndex(arg, ":")
	if idx < 0 {
		return nil, fmt.Errorf("expected FILE:LINE, got %q", arg)
	}
	line, err := strconv.Atoi(arg[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("invalid line number in %q: %w", arg, err)
	}
	return breakpoint.NewLine(arg[:idx], line), nil
}
