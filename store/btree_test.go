package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBase() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeCacheGetSet(t *testing.T) {
	NewTestSuite(makeBase).GetSet(t)
}

func TestBTreeCacheConflicts(t *testing.T) {
	NewTestSuite(makeBase).CacheConflicts(t)
}

func TestBTreeCacheDevNull(t *testing.T) {
	devnull := BTreeCacheable{EmptyKVStore{}}

	cache := devnull.CacheWrap()
	k, v := []byte("acct:alice"), []byte("100")
	require.NoError(t, cache.Set(k, v))
	got, err := cache.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	require.NoError(t, cache.Write())
	got, err = devnull.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNestedCacheWrite(t *testing.T) {
	base := MemStore()
	outer := base.CacheWrap()
	inner := outer.CacheWrap()

	require.NoError(t, inner.Set([]byte("k"), []byte("v")))
	has, err := outer.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, inner.Write())
	has, err = outer.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)
	has, err = base.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, outer.Write())
	got, err := base.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestNonAtomicBatch(t *testing.T) {
	kv := MemStore()
	require.NoError(t, kv.Set([]byte("b"), []byte("old")))

	b := NewNonAtomicBatch(kv)
	require.NoError(t, b.Set([]byte("a"), []byte("1")))
	require.NoError(t, b.Delete([]byte("b")))
	assert.Equal(t, 2, b.Len())

	// nothing is visible before Write
	got, err := kv.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, b.Write())
	assert.Equal(t, 0, b.Len())
	got, err = kv.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
	has, err := kv.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRecordingStore(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("old"), []byte("x")))

	rec := NewRecordingStore(base)
	require.NoError(t, rec.Set([]byte("new"), []byte("y")))
	require.NoError(t, rec.Delete([]byte("old")))

	// cached writes are recorded once written
	cache := rec.CacheWrap()
	require.NoError(t, cache.Set([]byte("cached"), []byte("z")))
	assert.Len(t, rec.Tags(), 2)
	require.NoError(t, cache.Write())

	tags := rec.Tags()
	require.Len(t, tags, 3)
	assert.Equal(t, "cached", string(tags[0].Key))
	assert.Equal(t, "s", string(tags[0].Value))
	assert.Equal(t, "new", string(tags[1].Key))
	assert.Equal(t, "s", string(tags[1].Value))
	assert.Equal(t, "old", string(tags[2].Key))
	assert.Equal(t, "d", string(tags[2].Value))

	got, err := base.Get([]byte("cached"))
	require.NoError(t, err)
	assert.Equal(t, []byte("z"), got)
}
