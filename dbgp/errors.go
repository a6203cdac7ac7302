// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbgp

import "errors"

// Session-fatal and session-ending error kinds. The worker loop (package
// dbgpengine) ends the session on FramingError, XMLError and ProtocolError
// and never recovers from them via resync; only ProtocolError is reported
// with the detach reason "protocol".
var (
	// ErrFraming indicates a malformed length prefix or a missing
	// terminating NUL byte while decoding a frame.
	ErrFraming = errors.New("dbgp: framing error")

	// ErrXML indicates a frame payload that failed to parse as XML.
	ErrXML = errors.New("dbgp: malformed xml")

	// ErrProtocol indicates well-formed XML with an unexpected root
	// element or a missing required attribute.
	ErrProtocol = errors.New("dbgp: protocol error")

	// ErrSocketClosed indicates EOF mid-frame, or a clean peer shutdown.
	ErrSocketClosed = errors.New("dbgp: socket closed")
)

// FramingError wraps ErrFraming with the offending detail.
type FramingError struct {
	Detail string
}

func (e *FramingError) Error() string { return "dbgp: framing error: " + e.Detail }
func (e *FramingError) Unwrap() error { return ErrFraming }

// XMLError wraps ErrXML with the underlying parse error.
type XMLError struct {
	Err error
}

func (e *XMLError) Error() string { return "dbgp: malformed xml: " + e.Err.Error() }
func (e *XMLError) Unwrap() error { return ErrXML }

// ProtocolError wraps ErrProtocol with the offending detail, e.g. an
// unexpected root element or a missing attribute.
type ProtocolError struct {
	Detail string
}

func (e *ProtocolError) Error() string { return "dbgp: protocol error: " + e.Detail }
func (e *ProtocolError) Unwrap() error { return ErrProtocol }
