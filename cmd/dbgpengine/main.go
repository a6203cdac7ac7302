// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dbgpengine runs the debugger facade headless: it listens for a
// DBGP runtime and logs lifecycle events. It sets no breakpoints of its
// own. For interactive use see cmd/dbgpsh.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
