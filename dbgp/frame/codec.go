// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame implements the DBGP wire framing:
//
//	<decimal-ascii-length> NUL <payload-bytes> NUL
//
// on incoming data, and bare NUL-terminated command strings on outgoing
// data (outgoing commands carry no length prefix; the runtime delimits
// them by the trailing NUL). Framing is the only concern here; package
// dbgp owns the XML payload shapes and package session owns command/
// response correlation.
package frame

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/nabbar/dbgpengine/dbgp"
)

// Decoder reads length-prefixed, NUL-terminated DBGP frames from an
// underlying reader.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder wraps r for frame-at-a-time reading.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads one frame and returns its raw XML payload. It fails with
// dbgp.ErrSocketClosed on EOF anywhere in the frame, with a
// *dbgp.FramingError for a non-digit length byte or a missing trailing
// NUL, and never attempts to resynchronize after a framing failure.
func (d *Decoder) Decode() ([]byte, error) {
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(d.r, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, dbgp.ErrSocketClosed
		}
		return nil, err
	}
	trailer, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return nil, dbgp.ErrSocketClosed
		}
		return nil, err
	}
	if trailer != 0 {
		return nil, &dbgp.FramingError{Detail: fmt.Sprintf("expected trailing NUL, got %#x", trailer)}
	}
	return payload, nil
}

// readLength reads decimal ASCII digits up to the first NUL and returns
// the value they encode.
func (d *Decoder) readLength() (int, error) {
	var digits []byte
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, dbgp.ErrSocketClosed
			}
			return 0, err
		}
		if b == 0 {
			break
		}
		if b < '0' || b > '9' {
			return 0, &dbgp.FramingError{Detail: fmt.Sprintf("non-digit length byte %#x", b)}
		}
		digits = append(digits, b)
	}
	if len(digits) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, &dbgp.FramingError{Detail: "unparsable length: " + err.Error()}
	}
	return n, nil
}

// Encoder writes bare NUL-terminated command strings to an underlying
// writer. DBGP commands sent by the client carry no length prefix.
type Encoder struct {
	w io.Writer
}

// NewEncoder wraps w for command writing.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteCommand writes cmd verbatim. Callers are expected to have already
// NUL-terminated cmd (see dbgp.Render / dbgp.BareCommand).
func (e *Encoder) WriteCommand(cmd string) error {
	_, err := io.WriteString(e.w, cmd)
	return err
}
