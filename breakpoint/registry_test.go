// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package breakpoint

import (
	"errors"
	"testing"

	"github.com/nabbar/dbgpengine/dbgp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSetter struct {
	ids  []string
	next int
	err  error
}

func (f *fakeSetter) BreakpointSet(dbgp.Flags) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	id := f.ids[f.next]
	f.next++
	return id, nil
}

func identityMapper(local string) string { return local }

func TestAddThenForFileContainsAtTail(t *testing.T) {
	r := NewRegistry()
	bp1 := NewLine("index.php", 10)
	bp2 := NewLine("index.php", 20)
	r.Add(bp1)
	r.Add(bp2)

	seq := r.ForFile("index.php")
	require.Len(t, seq, 2)
	assert.Same(t, bp2, seq[len(seq)-1])
}

func TestForFileUnknownFileIsEmpty(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.ForFile("nope.php"))
}

func TestReplayIssuesOneCommandPerBreakpoint(t *testing.T) {
	r := NewRegistry()
	r.Add(NewLine("a.php", 1))
	r.Add(NewLine("a.php", 2))
	r.Add(NewLine("b.php", 3))

	setter := &fakeSetter{ids: []string{"10", "11", "12"}}
	results := r.Replay(setter, identityMapper, nil)

	require.Len(t, results, 3)
	for _, res := range results {
		assert.NoError(t, res.Err)
		assert.NotEmpty(t, res.Breakpoint.ID())
	}
}

func TestReplayContinuesAfterOneFailure(t *testing.T) {
	r := NewRegistry()
	r.Add(NewLine("a.php", 1))
	r.Add(NewLine("a.php", 2))

	setter := &fakeSetter{err: errors.New("boom")}
	results := r.Replay(setter, identityMapper, nil)

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.Error(t, results[1].Err)
}

func TestLineBreakpointIDEmptyUntilExecuted(t *testing.T) {
	bp := NewLine("a.php", 1)
	assert.Empty(t, bp.ID())

	setter := &fakeSetter{ids: []string{"42"}}
	require.NoError(t, bp.Execute(setter, identityMapper))
	assert.Equal(t, "42", bp.ID())
}
