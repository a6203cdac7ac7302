// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package queue implements the thread-safe FIFO operation queue by which
// the UI schedules semantic operations against the active session. It
// knows nothing about Operation's meaning; package dbgpengine supplies
// that and runs the drained items against the session.
package queue

import "sync"

// Queue is a FIFO of arbitrary items guarded by a mutex, with a channel
// used purely as a wakeup signal for Drain. It is safe for concurrent
// Enqueue from multiple goroutines and concurrent Drain from one.
type Queue struct {
	mu       sync.Mutex
	items    []interface{}
	wake     chan struct{}
	shutdown bool
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Enqueue appends item and wakes one pending Drain call, if any. Safe to
// call after Shutdown; the item is accepted but a subsequent Drain will
// still return it before observing shutdown (shutdown only short-
// circuits the wait, it never discards items already enqueued).
func (q *Queue) Enqueue(item interface{}) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Drain blocks until at least one item is enqueued or Shutdown is called,
// then returns every item currently enqueued (possibly none, if woken by
// Shutdown with an empty queue) in enqueue order. Calling Drain again
// after a Shutdown-triggered empty return keeps returning immediately
// with whatever has since been enqueued, so a caller can finish in-flight
// work before checking ShuttingDown and exiting.
func (q *Queue) Drain() []interface{} {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			items := q.items
			q.items = nil
			q.mu.Unlock()
			return items
		}
		shutdown := q.shutdown
		q.mu.Unlock()
		if shutdown {
			return nil
		}
		<-q.wake
	}
}

// Shutdown flips the shutdown flag and wakes any goroutine blocked in
// Drain. Idempotent.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	q.shutdown = true
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// ShuttingDown reports whether Shutdown has been called.
func (q *Queue) ShuttingDown() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.shutdown
}
