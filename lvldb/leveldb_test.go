// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sg-milad/GoalFi-Tracker/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		invalidKey = []byte("abc")
	)

	persisted, err := New(filepath.Join(t.TempDir(), "db"), Options{16, 16})
	assert.NoError(t, err)
	defer persisted.Close()

	mem, err := NewMem()
	assert.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persisted, mem} {
		assert.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(invalidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		assert.NoError(t, db.Delete(key))

		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDBBatch(t *testing.T) {
	var (
		key   = []byte("123")
		value = []byte("456")
	)

	db, err := NewMem()
	assert.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	assert.NoError(t, batch.Put(key, value))
	assert.Equal(t, 1, batch.Len())
	assert.NoError(t, batch.Write())

	got, err := db.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, value, got)

	batch = batch.NewBatch()
	assert.NoError(t, batch.Delete(key))
	assert.NoError(t, batch.Write())

	_, err = db.Get(key)
	assert.True(t, db.IsNotFound(err))
}

func TestLevelDBIterator(t *testing.T) {
	db, err := NewMem()
	assert.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Put([]byte("k1"), []byte("v1")))
	assert.NoError(t, db.Put([]byte("k2"), []byte("v2")))
	assert.NoError(t, db.Put([]byte("x1"), []byte("v3")))

	it := db.NewIterator(kv.Range{From: []byte("k"), To: []byte("l")})
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.NoError(t, it.Error())
	assert.Equal(t, []string{"k1", "k2"}, keys)
}
