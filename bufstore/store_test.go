// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bufstore

import (
	"testing"

	"cogentcore.org/pipeline/dirtybuf"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	st, err := Open(Config{InMemory: true, PageSize: 8})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenRequiresDir(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestCommitAndReload(t *testing.T) {
	st := openTest(t)
	assert.Equal(t, 8, st.PageSize())

	bk := st.Buffer("mesh")
	b := dirtybuf.New(bk)
	require.NoError(t, b.Resize(20))
	full, err := b.FullMutableView()
	require.NoError(t, err)
	for i := range full {
		full[i] = byte(i)
	}
	require.NoError(t, bk.Commit(b))
	assert.True(t, b.Dirty().Empty())

	again := st.Buffer("mesh")
	sz, err := again.StoredSize()
	require.NoError(t, err)
	assert.Equal(t, 20, sz)
	data, err := again.BufferBytes()
	require.NoError(t, err)
	assert.Equal(t, full, data)

	empty := st.Buffer("other")
	data, err = empty.BufferBytes()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestCommitOnlyDirtyPages(t *testing.T) {
	st := openTest(t)
	bk := st.Buffer("tex")
	b := dirtybuf.New(bk)
	require.NoError(t, b.Resize(32))
	require.NoError(t, bk.Commit(b))

	// change page 0 behind the backing's back; a commit that does
	// not touch page 0 must not overwrite it
	require.NoError(t, st.db.Update(func(txn *badger.Txn) error {
		return txn.Set(pageKey("tex", 0), []byte{9, 9, 9, 9, 9, 9, 9, 9})
	}))
	ws, err := b.WriteSlice(17, 19)
	require.NoError(t, err)
	copy(ws, []byte{5, 6})
	require.NoError(t, bk.Commit(b))

	data, err := st.Buffer("tex").BufferBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9, 9, 9, 9, 9, 9}, data[:8])
	assert.Equal(t, []byte{5, 6}, data[17:19])
}

func TestCommitShrink(t *testing.T) {
	st := openTest(t)
	bk := st.Buffer("idx")
	b := dirtybuf.New(bk)
	require.NoError(t, b.Resize(30))
	require.NoError(t, bk.Commit(b))

	require.NoError(t, b.Resize(10))
	assert.True(t, b.Dirty().Empty())
	require.NoError(t, bk.Commit(b))

	re := st.Buffer("idx")
	sz, err := re.StoredSize()
	require.NoError(t, err)
	assert.Equal(t, 10, sz)
	require.NoError(t, st.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(pageKey("idx", 3))
		assert.ErrorIs(t, err, badger.ErrKeyNotFound)
		return nil
	}))

	// nothing pending and size unchanged: no-op
	require.NoError(t, bk.Commit(b))
}
