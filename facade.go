// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbgpengine composes the frame codec, session, breakpoint
// registry, operation queue, listener and path reconciler into a single
// Facade: the surface a UI collaborator drives to run a DBGP debugging
// session end to end. The package itself knows nothing about terminals,
// editors or other front-ends — it only calls back into the UI and
// FileSystem capabilities supplied at construction.
package dbgpengine

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/nabbar/dbgpengine/breakpoint"
	"github.com/nabbar/dbgpengine/dbgp"
	"github.com/nabbar/dbgpengine/listener"
	"github.com/nabbar/dbgpengine/pathmap"
	"github.com/nabbar/dbgpengine/queue"
	"github.com/nabbar/dbgpengine/session"
	"github.com/sirupsen/logrus"
)

// FileSystem is the injected capability for reading local source files.
// The core never touches the disk directly through any other path.
type FileSystem interface {
	Exists(path string) bool
	Read(path string) ([]byte, error)
}

// DebuggerState is the immutable result of a Run operation, delivered to
// the UI via OnPaused.
type DebuggerState struct {
	Status       dbgp.Status
	FileName     string // local file name, empty unless Status == dbgp.StatusBreak
	LineNumber   int    // 1-based, only set when Status == dbgp.StatusBreak
	ContextNames []session.ContextName
	Context      map[string]dbgp.Property
}

// UI is the capability the facade invokes to report session lifecycle
// events and operation results. OnListening is called from Start on the
// caller's goroutine; all other methods are called from the session
// worker goroutine. A UI collaborator that needs to marshal onto another
// thread (e.g. a GUI main loop) must do so itself.
type UI interface {
	OnListening(host string, port uint16)
	OnAttached(init dbgp.Init)
	OnMessage(text string)
	OnPaused(state DebuggerState)
	OnContext(names []session.ContextName, props map[string]dbgp.Property)
	OnDetached(reason string)
}

// Operation is a semantic action scheduled against the active session:
// Run, SetBreakpoint, or ChangeContext. Run is invoked from the worker
// goroutine with the attached session and must not block indefinitely
// beyond what the session call itself blocks for.
type Operation interface {
	Run(s *session.Session) (DebuggerState, error)
}

// Facade composes the engine's subsystems and is the type a UI
// collaborator constructs and drives.
type Facade struct {
	basePath string
	host     string
	port     uint16
	ui       UI
	fs       FileSystem
	log      *logrus.Entry

	registry *breakpoint.Registry
	ops      *queue.Queue
	ln       *listener.Listener

	mu        sync.Mutex
	connected bool
	sess      *session.Session
	reconcile *pathmap.Reconciler
}

// New constructs a Facade. basePath is the local directory source files
// are read relative to; host/port is where the listener binds.
func New(basePath, host string, port uint16, ui UI, fs FileSystem, log *logrus.Entry) *Facade {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	f := &Facade{
		basePath: basePath,
		host:     host,
		port:     port,
		ui:       ui,
		fs:       fs,
		log:      log.WithField("component", "facade"),
		registry: breakpoint.NewRegistry(),
		ops:      queue.New(),
	}
	f.reconcile = pathmap.New(basePath, existsAdapter{fs})
	return f
}

// existsAdapter narrows FileSystem to pathmap.Exister.
type existsAdapter struct{ fs FileSystem }

func (e existsAdapter) Exists(path string) bool { return e.fs.Exists(path) }

// Start binds the listener and begins accepting connections in the
// background. Returns once the listener is bound; Accept runs on its own
// goroutine.
func (f *Facade) Start() error {
	ln, err := listener.Listen(f.host, f.port, f.log)
	if err != nil {
		return fmt.Errorf("dbgpengine: start: %w", err)
	}
	f.ln = ln
	f.ui.OnListening(f.host, f.port)
	go ln.Serve(f.handleAccept)
	return nil
}

// Stop closes the live session's socket, if any, shuts down the operation
// queue, and closes the listener. It does not wait for the worker or the
// accept goroutine to exit: both return on their own once they observe
// the closed queue, session and listener, so OnDetached may be delivered
// after Stop has returned.
func (f *Facade) Stop() error {
	f.mu.Lock()
	sess := f.sess
	f.mu.Unlock()
	if sess != nil {
		sess.Close() // surfaces as SocketClosed in the worker, which exits
	}
	f.ops.Shutdown()
	var err error
	if f.ln != nil {
		err = f.ln.Stop()
	}
	return err
}

// IsConnected reports whether a session is currently attached.
func (f *Facade) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// AddBreakpoint registers bp. If a session is currently attached, it is
// also scheduled to be set on that session via the operation queue.
func (f *Facade) AddBreakpoint(bp breakpoint.Breakpoint) {
	f.registry.Add(bp)
	if f.IsConnected() {
		f.EnqueueOperation(SetBreakpointOperation{Breakpoint: bp, mapper: f.reconcile.RemotePath})
	}
}

// EnqueueOperation schedules op against the current session. It is a
// silent no-op if no session is attached (spec's NoSession error kind is
// never raised as an exception).
func (f *Facade) EnqueueOperation(op Operation) bool {
	if !f.IsConnected() {
		return false
	}
	f.ops.Enqueue(op)
	return true
}

// FindFile maps a remote file URI to a local relative path, via the path
// reconciler established for the current session.
func (f *Facade) FindFile(remoteFileURI string) (string, error) {
	return f.reconcile.Reconcile(remoteFileURI)
}

// OpenFile reads path through the injected FileSystem capability. When
// relative is true, path is resolved against the configured base
// directory first.
func (f *Facade) OpenFile(path string, relative bool) ([]byte, error) {
	if relative {
		path = f.basePath + "/" + path
	}
	return f.fs.Read(path)
}

// handleAccept is invoked by the listener for each accepted connection it
// lets through the single-session gate.
func (f *Facade) handleAccept(conn net.Conn) {
	attemptID := uuid.NewString()
	log := f.log.WithField("attempt_id", attemptID)
	sess := session.New(conn, log)

	init, err := sess.Attach()
	if err != nil {
		log.WithError(err).Warn("attach failed")
		sess.Close()
		f.ln.Released()
		return
	}

	f.mu.Lock()
	f.sess = sess
	f.connected = true
	f.mu.Unlock()

	go f.runWorker(sess, init, log)
}

// runWorker is the session worker loop: one goroutine per attached
// session, torn down when the session ends.
func (f *Facade) runWorker(sess *session.Session, init dbgp.Init, log *logrus.Entry) {
	defer func() {
		f.mu.Lock()
		f.connected = false
		f.sess = nil
		f.mu.Unlock()
		f.reconcile.Reset()
		sess.Close()
		f.ln.Released()
	}()

	f.ui.OnAttached(init)

	if _, err := f.reconcile.Reconcile(init.FileURI); err != nil {
		f.ui.OnMessage("path reconciliation failed: " + err.Error())
	} else {
		results := f.registry.Replay(sess, f.reconcile.RemotePath, log)
		for _, r := range results {
			if r.Err != nil {
				f.ui.OnMessage(fmt.Sprintf("breakpoint replay failed for %s: %v", r.Breakpoint.FileName(), r.Err))
			}
		}
	}

	reason := "eof"
	for {
		if f.ops.ShuttingDown() {
			reason = "shutdown"
			break
		}
		items := f.ops.Drain()
		if items == nil {
			reason = "shutdown"
			break
		}
		done := false
		for _, item := range items {
			op, ok := item.(Operation)
			if !ok {
				continue
			}
			state, err := op.Run(sess)
			if err != nil {
				if isSessionFatal(err) {
					log.WithError(err).Info("session ended")
					if isProtocolError(err) {
						reason = "protocol"
					}
					done = true
					break
				}
				f.ui.OnMessage(err.Error())
				continue
			}
			f.deliver(state)
		}
		if done {
			break
		}
	}

	f.ui.OnDetached(reason)
}

// deliver translates a DebuggerState into the appropriate UI callbacks.
// Which callbacks fire depends on which fields the operation populated,
// not on a fixed per-operation-type switch, so new Operation
// implementations compose with the existing callbacks for free.
func (f *Facade) deliver(state DebuggerState) {
	switch {
	case state.Status == dbgp.StatusBreak:
		f.ui.OnPaused(state)
		if state.ContextNames != nil || state.Context != nil {
			f.ui.OnContext(state.ContextNames, state.Context)
		}
	case state.ContextNames != nil || state.Context != nil:
		f.ui.OnContext(state.ContextNames, state.Context)
	case state.Status != "":
		f.ui.OnMessage(fmt.Sprintf("status: %s", state.Status))
	}
}

func isSessionFatal(err error) bool {
	return isProtocolError(err) || isSocketClosed(err) || isFramingOrXML(err)
}

func isProtocolError(err error) bool {
	var pe *dbgp.ProtocolError
	return errors.As(err, &pe)
}

func isFramingOrXML(err error) bool {
	var fe *dbgp.FramingError
	var xe *dbgp.XMLError
	return errors.As(err, &fe) || errors.As(err, &xe)
}

func isSocketClosed(err error) bool {
	return errors.Is(err, dbgp.ErrSocketClosed) || errors.Is(err, net.ErrClosed)
}
