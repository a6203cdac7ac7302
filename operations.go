// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbgpengine

import (
	"github.com/nabbar/dbgpengine/breakpoint"
	"github.com/nabbar/dbgpengine/dbgp"
	"github.com/nabbar/dbgpengine/session"
)

// RunOperation resumes execution and reports the resulting state,
// including context, when the runtime pauses at a breakpoint.
type RunOperation struct {
	// StackDepth and ContextID select which context to fetch when the
	// run results in a pause. Defaults (0, 0) fetch the innermost Local
	// context.
	ContextID  int
	StackDepth int
	// FindFile maps a remote file URI to a local file name, typically
	// Facade.FindFile. Left nil, the remote URI is used unmodified.
	FindFile func(remoteFileURI string) (string, error)
}

func (op RunOperation) Run(s *session.Session) (DebuggerState, error) {
	result, err := s.Run()
	if err != nil {
		return DebuggerState{}, err
	}
	state := DebuggerState{Status: result.Status}
	if result.Status != dbgp.StatusBreak {
		return state, nil
	}
	fileName := result.Filename
	if op.FindFile != nil {
		if local, ferr := op.FindFile(result.Filename); ferr == nil {
			fileName = local
		}
	}
	state.FileName = fileName
	state.LineNumber = result.Lineno

	names, err := s.ContextNames()
	if err != nil {
		return state, err
	}
	state.ContextNames = names

	ctx, err := s.ContextGet(op.ContextID, op.StackDepth)
	if err != nil {
		return state, err
	}
	state.Context = ctx
	return state, nil
}

// SetBreakpointOperation realizes a single breakpoint on the attached
// session, used both for breakpoints added while connected and (if ever
// re-enqueued) for re-applying a toggled breakpoint.
type SetBreakpointOperation struct {
	Breakpoint breakpoint.Breakpoint
	mapper     breakpoint.PathMapper
}

func (op SetBreakpointOperation) Run(s *session.Session) (DebuggerState, error) {
	mapper := op.mapper
	if mapper == nil {
		mapper = func(local string) string { return local }
	}
	if err := op.Breakpoint.Execute(s, mapper); err != nil {
		return DebuggerState{}, err
	}
	return DebuggerState{}, nil
}

// ChangeContextOperation fetches a context by id without resuming
// execution, used when the UI switches the selected stack frame or
// context while the runtime remains paused.
type ChangeContextOperation struct {
	ContextID  int
	StackDepth int
}

func (op ChangeContextOperation) Run(s *session.Session) (DebuggerState, error) {
	names, err := s.ContextNames()
	if err != nil {
		return DebuggerState{}, err
	}
	ctx, err := s.ContextGet(op.ContextID, op.StackDepth)
	if err != nil {
		return DebuggerState{}, err
	}
	return DebuggerState{ContextNames: names, Context: ctx}, nil
}
