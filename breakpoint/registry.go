// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package breakpoint

import "github.com/sirupsen/logrus"

// Registry holds breakpoints keyed by local file name. Insertion order
// within a file is preserved; order between files is not significant. A
// Registry outlives any individual session and is created once by the
// facade.
type Registry struct {
	byFile map[string][]Breakpoint
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byFile: make(map[string][]Breakpoint)}
}

// Add appends bp to the sequence for its file. Duplicates (same file and
// line) are permitted; the runtime decides what to do with them.
func (r *Registry) Add(bp Breakpoint) {
	r.byFile[bp.FileName()] = append(r.byFile[bp.FileName()], bp)
}

// ForFile returns the ordered sequence of breakpoints for fileName,
// without copying. It is nil (len 0) when the file has no breakpoints.
func (r *Registry) ForFile(fileName string) []Breakpoint {
	return r.byFile[fileName]
}

// ReplayResult reports the outcome of replaying a single breakpoint.
type ReplayResult struct {
	Breakpoint Breakpoint
	Err        error
}

// Replay iterates every stored breakpoint across all files and calls
// Execute on each against setter, using mapper to translate local file
// names to remote paths. A failing breakpoint does not stop the replay
// of the rest (best-effort); every outcome, success or failure, is
// reported in the returned slice so the caller can surface failures via
// its own UI callback.
func (r *Registry) Replay(setter Setter, mapper PathMapper, log *logrus.Entry) []ReplayResult {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	var results []ReplayResult
	for file, bps := range r.byFile {
		for _, bp := range bps {
			err := bp.Execute(setter, mapper)
			if err != nil {
				log.WithFields(logrus.Fields{
					"file": file,
					"err":  err,
				}).Warn("breakpoint replay failed")
			}
			results = append(results, ReplayResult{Breakpoint: bp, Err: err})
		}
	}
	return results
}
