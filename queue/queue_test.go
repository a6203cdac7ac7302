// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueThenDrainFIFO(t *testing.T) {
	q := New()
	q.Enqueue("op1")
	q.Enqueue("op2")

	items := q.Drain()
	require.Len(t, items, 2)
	assert.Equal(t, "op1", items[0])
	assert.Equal(t, "op2", items[1])
}

func TestDrainBlocksUntilEnqueue(t *testing.T) {
	q := New()
	done := make(chan []interface{}, 1)
	go func() {
		done <- q.Drain()
	}()

	select {
	case <-done:
		t.Fatal("Drain returned before any item was enqueued")
	case <-time.After(20 * time.Millisecond):
	}

	q.Enqueue("op1")

	select {
	case items := <-done:
		require.Len(t, items, 1)
		assert.Equal(t, "op1", items[0])
	case <-time.After(time.Second):
		t.Fatal("Drain did not wake up after Enqueue")
	}
}

func TestDrainReturnsEverythingEnqueuedSoFar(t *testing.T) {
	q := New()
	q.Enqueue("op1")
	q.Enqueue("op2")
	q.Enqueue("op3")

	items := q.Drain()
	assert.Len(t, items, 3)

	// A second Drain with nothing new enqueued blocks.
	done := make(chan []interface{}, 1)
	go func() { done <- q.Drain() }()
	select {
	case <-done:
		t.Fatal("second Drain should have blocked with an empty queue")
	case <-time.After(20 * time.Millisecond):
	}
	q.Shutdown()
	select {
	case items := <-done:
		assert.Empty(t, items)
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not wake pending Drain")
	}
}

func TestShutdownUnblocksDrain(t *testing.T) {
	q := New()
	done := make(chan []interface{}, 1)
	go func() { done <- q.Drain() }()

	time.Sleep(10 * time.Millisecond)
	q.Shutdown()

	select {
	case items := <-done:
		assert.Empty(t, items)
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not unblock Drain")
	}
	assert.True(t, q.ShuttingDown())
}

func TestNoOperationLostUnderConcurrentEnqueue(t *testing.T) {
	q := New()
	const n = 100
	go func() {
		for i := 0; i < n; i++ {
			q.Enqueue(i)
		}
	}()

	seen := 0
	for seen < n {
		items := q.Drain()
		seen += len(items)
	}
	assert.Equal(t, n, seen)
}
