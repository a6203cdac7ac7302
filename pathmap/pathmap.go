// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pathmap implements the path reconciliation algorithm: deriving
// a shared client base path from the runtime's initial file URI plus a
// locally configured base directory, so that local file names can be
// mapped back to the remote paths the runtime expects in breakpoint_set.
package pathmap

import (
	"errors"
	"strings"
)

// ErrNoMatch is returned by Reconciler.Reconcile when no suffix of the
// file URI corresponds to an existing local file. It wraps to
// PathReconciliationFailed semantics per the engine's error taxonomy:
// non-fatal, reported via the UI's message callback, and breakpoints are
// not replayed.
var ErrNoMatch = errors.New("pathmap: no local file matches any suffix of the file uri")

// Exister is the file-system capability the reconciler needs: just
// existence checks, never reads.
type Exister interface {
	Exists(path string) bool
}

// Reconciler holds the local base directory and the per-session client
// base path discovered by Reconcile. ClientBasePath is reset to unknown
// (empty, Ready() == false) each time a session ends.
type Reconciler struct {
	basePath       string
	exister        Exister
	clientBasePath string
	ready          bool
}

// New returns a reconciler rooted at basePath, using fs for existence
// checks.
func New(basePath string, fs Exister) *Reconciler {
	return &Reconciler{basePath: basePath, exister: fs}
}

// Reconcile derives the client base path from fileURI (typically
// "file:///srv/app/public/index.php"). It splits the URI on '/', discards
// the leading "file:", "", "" triple, and walks the remaining path
// components from right to left. At each step it tests whether
// basePath/<component> exists as a local file — component is the single
// path element at that position, not an accumulating suffix. The first
// component for which that test succeeds fixes the split point: the URI
// up to (but not including) that component becomes ClientBasePath, and
// the full remaining suffix from that component onward is returned as
// the local-relative path. On failure it leaves the reconciler in the
// not-ready state and returns ErrNoMatch.
func (r *Reconciler) Reconcile(fileURI string) (relative string, err error) {
	parts := strings.Split(fileURI, "/")
	if len(parts) < 3 {
		r.ready = false
		r.clientBasePath = ""
		return "", ErrNoMatch
	}
	rest := parts[3:]
	for i := len(rest) - 1; i >= 0; i-- {
		if r.exister.Exists(r.basePath + "/" + rest[i]) {
			splitAt := 3 + i
			r.clientBasePath = strings.Join(parts[:splitAt], "/")
			r.ready = true
			relative = strings.Join(rest[i:], "/")
			return relative, nil
		}
	}
	r.ready = false
	r.clientBasePath = ""
	return "", ErrNoMatch
}

// Ready reports whether a client base path has been established.
func (r *Reconciler) Ready() bool { return r.ready }

// ClientBasePath returns the remote prefix discovered by the last
// successful Reconcile, or "" if not Ready.
func (r *Reconciler) ClientBasePath() string { return r.clientBasePath }

// RemotePath maps a local-relative file name to the remote path used in
// breakpoint_set commands. Only meaningful once Ready.
func (r *Reconciler) RemotePath(local string) string {
	return r.clientBasePath + "/" + local
}

// Reset clears the discovered client base path, e.g. when a session ends.
func (r *Reconciler) Reset() {
	r.clientBasePath = ""
	r.ready = false
}
