// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package listener implements the single-session TCP acceptor: it binds
// host:port, accepts connections one at a time, and hands each accepted
// socket to a callback supplied by package dbgpengine. While a session is
// attached, further incoming connections are closed immediately with no
// frames written, per the engine's single-session policy.
package listener

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Listener binds one TCP address and accepts connections on its own
// goroutine until Stop is called.
type Listener struct {
	ln       net.Listener
	attached int32 // atomic bool: 1 while a session is attached
	log      *logrus.Entry
	done     chan struct{}
	stopOnce sync.Once
}

// Listen binds host:port. The returned Listener has not yet started
// accepting; call Serve to begin.
func Listen(host string, port uint16, log *logrus.Entry) (*Listener, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{
		ln:   ln,
		log:  log.WithField("component", "listener"),
		done: make(chan struct{}),
	}, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Serve accepts connections in a loop, calling onAccept for each one that
// is allowed through the single-session gate. onAccept is called
// synchronously from this goroutine; it is expected to return quickly
// (typically after handing the connection off to a new goroutine) so the
// next Accept can proceed. Serve returns when Stop unblocks the pending
// Accept.
func (l *Listener) Serve(onAccept func(net.Conn)) error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-l.done:
				return nil
			default:
				return err
			}
		}
		if !atomic.CompareAndSwapInt32(&l.attached, 0, 1) {
			// A session is already attached: single-session policy,
			// close immediately with no frames written.
			l.log.Debug("rejecting connection: session already attached")
			conn.Close()
			continue
		}
		l.log.WithField("remote", conn.RemoteAddr()).Debug("accepted connection")
		onAccept(conn)
	}
}

// Released marks the listener as ready to accept a new session. Called
// by the owner once the previous session's worker has exited.
func (l *Listener) Released() {
	atomic.StoreInt32(&l.attached, 0)
}

// Stop unblocks any pending Accept and prevents further connections from
// being served. Safe to call more than once; the underlying socket is
// closed on all exit paths.
func (l *Listener) Stop() error {
	l.stopOnce.Do(func() { close(l.done) })
	return l.ln.Close()
}
