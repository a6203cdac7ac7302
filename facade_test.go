// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbgpengine

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/nabbar/dbgpengine/breakpoint"
	"github.com/nabbar/dbgpengine/dbgp"
	"github.com/nabbar/dbgpengine/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUI struct {
	mu       sync.Mutex
	attached []dbgp.Init
	messages []string
	paused   []DebuggerState
	detached []string
}

func (u *recordingUI) OnListening(string, uint16) {}
func (u *recordingUI) OnAttached(init dbgp.Init) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.attached = append(u.attached, init)
}
func (u *recordingUI) OnMessage(text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.messages = append(u.messages, text)
}
func (u *recordingUI) OnPaused(state DebuggerState) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.paused = append(u.paused, state)
}
func (u *recordingUI) OnContext([]session.ContextName, map[string]dbgp.Property) {}
func (u *recordingUI) OnDetached(reason string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.detached = append(u.detached, reason)
}

func (u *recordingUI) snapshotDetached() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.detached...)
}

func (u *recordingUI) snapshotPaused() []DebuggerState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]DebuggerState(nil), u.paused...)
}

type fakeFS struct{ existing map[string]bool }

func (f fakeFS) Exists(path string) bool { return f.existing[path] }
func (f fakeFS) Read(path string) ([]byte, error) {
	if f.existing[path] {
		return []byte("contents of " + path), nil
	}
	return nil, fmt.Errorf("not found: %s", path)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

// dialAndAttach dials the facade's listener and writes the init frame a
// real runtime would send first.
func dialAndAttach(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	initXML := `<init appid="APPID" idekey="IDE_KEY" session="DBGP_COOKIE" thread="T" parent="P" language="PHP" protocol_version="1.0" fileuri="file:///srv/app/public/index.php"></init>`
	fmt.Fprintf(conn, "%d\x00%s\x00", len(initXML), initXML)
	return conn
}

func TestFacadeAttachAndRunBreak(t *testing.T) {
	fs := fakeFS{existing: map[string]bool{"/proj/index.php": true}}
	ui := &recordingUI{}
	f := New("/proj", "127.0.0.1", 0, ui, fs, nil)
	require.NoError(t, f.Start())
	defer f.Stop()

	conn := dialAndAttach(t, f.ln.Addr().String())
	defer conn.Close()

	waitFor(t, time.Second, func() bool { return f.IsConnected() })

	// Server side of the session now reads commands and answers them.
	go serveOneRun(t, conn)

	ok := f.EnqueueOperation(RunOperation{FindFile: f.FindFile})
	assert.True(t, ok)

	waitFor(t, time.Second, func() bool { return len(ui.snapshotPaused()) == 1 })
	paused := ui.snapshotPaused()[0]
	assert.Equal(t, dbgp.StatusBreak, paused.Status)
	assert.Equal(t, "index.php", paused.FileName)
	assert.Equal(t, 42, paused.LineNumber)
}

// serveOneRun plays the runtime side for a single "run" command
// immediately followed by context_names and context_get, matching what
// RunOperation issues when a breakpoint is hit.
func serveOneRun(t *testing.T, conn net.Conn) {
	r := bufio.NewReader(conn)
	readCmd := func() string {
		s, err := r.ReadString(0)
		if err != nil {
			return ""
		}
		return s[:len(s)-1]
	}
	write := func(xml string) {
		fmt.Fprintf(conn, "%d\x00%s\x00", len(xml), xml)
	}

	cmd := readCmd()
	if cmd == "" {
		return
	}
	// run -i 1
	write(`<response command="run" status="break" reason="ok" transaction_id="1"><xdebug:message filename="file:///srv/app/public/index.php" lineno="42"/></response>`)

	cmd = readCmd() // context_names -i 2
	_ = cmd
	write(`<response command="context_names" transaction_id="2"><context name="Local" id="0"/></response>`)

	cmd = readCmd() // context_get -i 3 -d 0 -c 0
	_ = cmd
	write(`<response command="context_get" transaction_id="3"></response>`)
}

func TestFacadeRejectsSecondConnection(t *testing.T) {
	fs := fakeFS{existing: map[string]bool{"/proj/index.php": true}}
	ui := &recordingUI{}
	f := New("/proj", "127.0.0.1", 0, ui, fs, nil)
	require.NoError(t, f.Start())
	defer f.Stop()

	conn1 := dialAndAttach(t, f.ln.Addr().String())
	defer conn1.Close()
	waitFor(t, time.Second, func() bool { return f.IsConnected() })

	conn2, err := net.Dial("tcp", f.ln.Addr().String())
	require.NoError(t, err)
	defer conn2.Close()
	conn2.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	b := make([]byte, 1)
	n, err := conn2.Read(b)
	assert.Equal(t, 0, n)
	assert.Error(t, err)
}

func TestFacadeEnqueueOperationNoopWhenDisconnected(t *testing.T) {
	fs := fakeFS{existing: map[string]bool{}}
	ui := &recordingUI{}
	f := New("/proj", "127.0.0.1", 0, ui, fs, nil)
	require.NoError(t, f.Start())
	defer f.Stop()

	ok := f.EnqueueOperation(RunOperation{})
	assert.False(t, ok)
}

func TestFacadeStopClosesEverything(t *testing.T) {
	fs := fakeFS{existing: map[string]bool{}}
	ui := &recordingUI{}
	f := New("/proj", "127.0.0.1", 0, ui, fs, nil)
	require.NoError(t, f.Start())

	conn := dialAndAttach(t, f.ln.Addr().String())
	defer conn.Close()
	waitFor(t, time.Second, func() bool { return f.IsConnected() })

	require.NoError(t, f.Stop())

	waitFor(t, time.Second, func() bool { return !f.IsConnected() })
	waitFor(t, time.Second, func() bool { return len(ui.snapshotDetached()) == 1 })
}

func TestAddBreakpointBeforeConnect(t *testing.T) {
	fs := fakeFS{existing: map[string]bool{}}
	ui := &recordingUI{}
	f := New("/proj", "127.0.0.1", 0, ui, fs, nil)

	bp := breakpoint.NewLine("index.php", 10)
	f.AddBreakpoint(bp)

	assert.Len(t, f.registry.ForFile("index.php"), 1)
}
