// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fsadapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistsAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.php")
	require.NoError(t, os.WriteFile(path, []byte("<?php echo 1;"), 0o644))

	var fs OS
	assert.True(t, fs.Exists(path))
	assert.False(t, fs.Exists(filepath.Join(dir, "missing.php")))

	data, err := fs.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "<?php echo 1;", string(data))
}
