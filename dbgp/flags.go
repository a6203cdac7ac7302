// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbgp

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Flags models the "-FLAG value" pairs of a DBGP command line plus an
// optional trailing base64-encoded data argument. Render produces the
// command text, NUL-terminated, ready for the frame encoder.
//
// This is the one place the corrected breakpoint_set flag mapping lives:
// the original debugger this engine descends from fed the same value to
// both -n and -t in one code path, and base64-encoded hit_condition
// instead of expression in another. Flags has one field per flag letter
// so those two values can never collide.
type Flags struct {
	Type         string // -t
	Line         int    // -n, only rendered when Type == "line"
	File         string // -f
	Enabled      *bool  // -r
	Function     string // -m
	Exception    string // -x
	HitValue     int    // -h
	HitCondition string // -o
	StackDepth   *int   // -d
	Context      *int   // -c
	Expression   string // trailing "-- <base64>"
}

// Render formats cmd with a leading -i <tid>, the populated flags in a
// stable order, and a trailing NUL. The -i flag is always first; the
// order of the rest is not protocol-significant but is kept fixed here
// for deterministic wire output (and easier testing).
func Render(cmd string, tid TransactionID, f Flags) string {
	var b strings.Builder
	b.WriteString(cmd)
	fmt.Fprintf(&b, " -i %d", tid)
	if f.Type != "" {
		fmt.Fprintf(&b, " -t %s", f.Type)
	}
	if f.Type == "line" {
		fmt.Fprintf(&b, " -n %d", f.Line)
	}
	if f.File != "" {
		fmt.Fprintf(&b, " -f %s", f.File)
	}
	if f.Enabled != nil {
		b.WriteString(" -r ")
		if *f.Enabled {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
	}
	if f.Function != "" {
		fmt.Fprintf(&b, " -m %s", f.Function)
	}
	if f.Exception != "" {
		fmt.Fprintf(&b, " -x %s", f.Exception)
	}
	if f.HitValue != 0 {
		fmt.Fprintf(&b, " -h %d", f.HitValue)
	}
	if f.HitCondition != "" {
		fmt.Fprintf(&b, " -o %s", f.HitCondition)
	}
	if f.StackDepth != nil {
		fmt.Fprintf(&b, " -d %d", *f.StackDepth)
	}
	if f.Context != nil {
		fmt.Fprintf(&b, " -c %d", *f.Context)
	}
	if f.Expression != "" {
		fmt.Fprintf(&b, " -- %s", base64.StdEncoding.EncodeToString([]byte(f.Expression)))
	}
	b.WriteByte(0)
	return b.String()
}

// BareCommand renders a command with only the transaction id, e.g.
// "status -i 4\x00".
func BareCommand(cmd string, tid TransactionID) string {
	return cmd + " -i " + strconv.Itoa(int(tid)) + "\x00"
}
