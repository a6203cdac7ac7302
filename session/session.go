// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session implements the DBGP peer: one accepted TCP connection,
// from the init frame through typed command/response exchange, to socket
// close. A Session is not safe for concurrent use; callers (the worker in
// package dbgpengine) serialize access so that at most one command is ever
// in flight.
package session

import (
	"encoding/xml"
	"fmt"
	"net"

	"github.com/nabbar/dbgpengine/dbgp"
	"github.com/nabbar/dbgpengine/dbgp/frame"
	"github.com/sirupsen/logrus"
)

// Session owns one accepted socket and the transaction-id sequence for its
// lifetime.
type Session struct {
	conn    net.Conn
	dec     *frame.Decoder
	enc     *frame.Encoder
	nextTID dbgp.TransactionID
	log     *logrus.Entry
}

// New wraps an accepted connection. Attach must be called exactly once,
// immediately afterwards, before any other method.
func New(conn net.Conn, log *logrus.Entry) *Session {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Session{
		conn: conn,
		dec:  frame.NewDecoder(conn),
		enc:  frame.NewEncoder(conn),
		log:  log.WithField("component", "session"),
	}
}

// Close closes the underlying socket. Safe to call more than once.
func (s *Session) Close() error {
	return s.conn.Close()
}

// Attach blocks until the init frame arrives and returns its parsed
// fields. Any frame other than <init> at this position is a fatal
// *dbgp.ProtocolError.
func (s *Session) Attach() (dbgp.Init, error) {
	payload, err := s.dec.Decode()
	if err != nil {
		return dbgp.Init{}, err
	}
	if len(payload) == 0 {
		return dbgp.Init{}, &dbgp.XMLError{Err: fmt.Errorf("empty payload")}
	}
	var root struct{ XMLName xml.Name }
	if err := xml.Unmarshal(payload, &root); err != nil {
		return dbgp.Init{}, &dbgp.XMLError{Err: err}
	}
	if root.XMLName.Local != "init" {
		return dbgp.Init{}, &dbgp.ProtocolError{Detail: "expected <init>, got <" + root.XMLName.Local + ">"}
	}
	var init dbgp.Init
	if err := xml.Unmarshal(payload, &init); err != nil {
		return dbgp.Init{}, &dbgp.XMLError{Err: err}
	}
	s.log.WithFields(logrus.Fields{
		"idekey":  init.IDEKey,
		"session": init.Session,
	}).Debug("session attached")
	return init, nil
}

// allocTID returns the next transaction id for an outgoing command.
func (s *Session) allocTID() dbgp.TransactionID {
	s.nextTID++
	return s.nextTID
}

// execute sends cmd and returns the correlated *dbgp.Response. It fails
// with a *dbgp.ProtocolError if the response's transaction_id does not
// match the one just sent, or if the root element is not <response>.
func (s *Session) execute(cmd string, tid dbgp.TransactionID) (*dbgp.Response, error) {
	s.log.WithField("transaction_id", tid).Trace("send: " + cmd)
	if err := s.enc.WriteCommand(cmd); err != nil {
		return nil, err
	}
	payload, err := s.dec.Decode()
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, &dbgp.XMLError{Err: fmt.Errorf("empty response payload")}
	}
	var root struct{ XMLName xml.Name }
	if err := xml.Unmarshal(payload, &root); err != nil {
		return nil, &dbgp.XMLError{Err: err}
	}
	if root.XMLName.Local != "response" {
		return nil, &dbgp.ProtocolError{Detail: "expected <response>, got <" + root.XMLName.Local + ">"}
	}
	var resp dbgp.Response
	if err := xml.Unmarshal(payload, &resp); err != nil {
		return nil, &dbgp.XMLError{Err: err}
	}
	if resp.TransactionID != tid {
		return nil, &dbgp.ProtocolError{Detail: fmt.Sprintf("transaction id mismatch: sent %d, got %d", tid, resp.TransactionID)}
	}
	return &resp, nil
}

// Status issues the "status" command and returns the normalized status.
func (s *Session) Status() (dbgp.Status, error) {
	tid := s.allocTID()
	resp, err := s.execute(dbgp.BareCommand("status", tid), tid)
	if err != nil {
		return "", err
	}
	return resp.Status, nil
}

// RunResult is the outcome of a run (or resume) command.
type RunResult struct {
	Status   dbgp.Status
	Filename string // only set when Status == dbgp.StatusBreak
	Lineno   int    // only set when Status == dbgp.StatusBreak
}

// Run issues the "run" command and blocks until the runtime reports a new
// status. When the runtime has paused, Filename and Lineno are taken from
// the <xdebug:message> child; otherwise they are left zero.
func (s *Session) Run() (RunResult, error) {
	tid := s.allocTID()
	resp, err := s.execute(dbgp.BareCommand("run", tid), tid)
	if err != nil {
		return RunResult{}, err
	}
	result := RunResult{Status: resp.Status}
	if resp.Status == dbgp.StatusBreak {
		if resp.Message == nil {
			return RunResult{}, &dbgp.ProtocolError{Detail: "break status without xdebug:message child"}
		}
		result.Filename = resp.Message.Filename
		result.Lineno = resp.Message.Lineno
	}
	return result, nil
}

// BreakpointSet issues breakpoint_set with the given flags and returns the
// runtime-assigned breakpoint id.
func (s *Session) BreakpointSet(f dbgp.Flags) (string, error) {
	tid := s.allocTID()
	resp, err := s.execute(dbgp.Render("breakpoint_set", tid, f), tid)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// ContextName pairs a context id with its display name, as returned by
// context_names.
type ContextName struct {
	ID   int
	Name string
}

// ContextNames issues context_names and returns one entry per available
// context (Local, Global, Class, ...).
func (s *Session) ContextNames() ([]ContextName, error) {
	tid := s.allocTID()
	resp, err := s.execute(dbgp.BareCommand("context_names", tid), tid)
	if err != nil {
		return nil, err
	}
	names := make([]ContextName, len(resp.Contexts))
	for i, c := range resp.Contexts {
		names[i] = ContextName{ID: c.ID, Name: c.Name}
	}
	return names, nil
}

// ContextGet issues context_get for the given context id and stack depth.
// The returned map is keyed by each property's fullname, per spec.
func (s *Session) ContextGet(contextID, stackDepth int) (map[string]dbgp.Property, error) {
	tid := s.allocTID()
	f := dbgp.Flags{StackDepth: &stackDepth, Context: &contextID}
	resp, err := s.execute(dbgp.Render("context_get", tid, f), tid)
	if err != nil {
		return nil, err
	}
	props := make(map[string]dbgp.Property, len(resp.Properties))
	for _, p := range resp.Properties {
		if err := p.Decode(); err != nil {
			return nil, &dbgp.XMLError{Err: fmt.Errorf("property %s: %w", p.FullName, err)}
		}
		props[p.FullName] = p
	}
	return props, nil
}
