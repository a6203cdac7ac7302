// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package breakpoint holds the breakpoint registry and the tagged-variant
// Breakpoint interface. Only the line variant is implemented; the
// interface shape leaves room for conditional, exception, call, return
// and watch breakpoints without the registry or the session caring which
// kind it is replaying.
package breakpoint

import "github.com/nabbar/dbgpengine/dbgp"

// Setter is the subset of *session.Session a breakpoint needs to realize
// itself on the wire. Kept as a narrow interface here so this package
// does not import package session.
type Setter interface {
	BreakpointSet(dbgp.Flags) (string, error)
}

// PathMapper turns a locally-configured file name into the remote path
// the runtime expects in breakpoint_set.
type PathMapper func(localFileName string) string

// Breakpoint is the tagged-variant capability every breakpoint kind
// implements: render itself as command flags, and record the runtime-
// assigned id once execute succeeds.
type Breakpoint interface {
	// FileName is the local file the breakpoint is displayed against.
	FileName() string
	// Execute issues the breakpoint_set command via setter, using
	// mapper to translate FileName into the remote path, and records
	// the returned id on success.
	Execute(setter Setter, mapper PathMapper) error
	// ID is the runtime-assigned breakpoint id, empty until Execute
	// succeeds.
	ID() string
}

// LineBreakpoint is a breakpoint at a specific line of a specific file.
type LineBreakpoint struct {
	File    string
	Line    int // 1-based
	Enabled bool

	id string
}

var _ Breakpoint = (*LineBreakpoint)(nil)

// NewLine constructs an enabled line breakpoint.
func NewLine(file string, line int) *LineBreakpoint {
	return &LineBreakpoint{File: file, Line: line, Enabled: true}
}

func (b *LineBreakpoint) FileName() string { return b.File }
func (b *LineBreakpoint) ID() string       { return b.id }

// Toggle flips Enabled. Does not re-issue breakpoint_set; a toggled
// breakpoint takes effect the next time it is replayed.
func (b *LineBreakpoint) Toggle() { b.Enabled = !b.Enabled }

func (b *LineBreakpoint) Execute(setter Setter, mapper PathMapper) error {
	enabled := b.Enabled
	id, err := setter.BreakpointSet(dbgp.Flags{
		Type:    "line",
		Line:    b.Line,
		File:    mapper(b.File),
		Enabled: &enabled,
	})
	if err != nil {
		return err
	}
	b.id = id
	return nil
}
