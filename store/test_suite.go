package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite runs the same checks against any CacheableKVStore
// implementation. btree_test.go and iavl/adapter_test.go share it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh empty store and a function that
// releases it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// write is a single store operation. An empty value deletes.
type write struct {
	key, value string
}

func (w write) apply(t testing.TB, kv SetDeleter) {
	t.Helper()
	if w.value == "" {
		require.NoError(t, kv.Delete([]byte(w.key)))
		return
	}
	require.NoError(t, kv.Set([]byte(w.key), []byte(w.value)))
}

// GetSet checks that writes to a cache are visible in the cache only,
// until the cache is written.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	alice, bob, carol := []byte("acct:alice"), []byte("acct:bob"), []byte("acct:carol")
	s.AssertGetHas(t, base, alice, nil)
	require.NoError(t, base.Set(alice, []byte("100")))
	s.AssertGetHas(t, base, alice, []byte("100"))

	tx := base.CacheWrap()
	s.AssertGetHas(t, tx, alice, []byte("100"))
	require.NoError(t, tx.Set(bob, []byte("20")))
	s.AssertGetHas(t, tx, bob, []byte("20"))
	s.AssertGetHas(t, base, bob, nil)
	require.NoError(t, tx.Write())
	s.AssertGetHas(t, base, alice, []byte("100"))
	s.AssertGetHas(t, base, bob, []byte("20"))

	failed := base.CacheWrap()
	require.NoError(t, failed.Set(carol, []byte("7")))
	require.NoError(t, failed.Delete(alice))
	failed.Discard()
	s.AssertGetHas(t, base, alice, []byte("100"))
	s.AssertGetHas(t, base, carol, nil)

	closing := base.CacheWrap()
	require.NoError(t, closing.Delete(alice))
	require.NoError(t, closing.Write())
	s.AssertGetHas(t, base, alice, nil)
	s.AssertGetHas(t, base, bob, []byte("20"))
}

// CacheConflicts checks nested caches that overwrite and delete values of
// their parent.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	cases := map[string]struct {
		parent []write
		child  []write
		// wantParent is the parent state before the child is written
		wantParent map[string]string
		wantChild  map[string]string
	}{
		"overwrite one, delete another, add a third": {
			parent:     []write{{"a", "1"}, {"b", "2"}},
			child:      []write{{"a", "11"}, {"c", "7"}, {"b", ""}},
			wantParent: map[string]string{"a": "1", "b": "2", "c": ""},
			wantChild:  map[string]string{"a": "11", "b": "", "c": "7"},
		},
		"delete and set again": {
			parent:     []write{{"d", "4"}},
			child:      []write{{"d", ""}, {"d", "14"}},
			wantParent: map[string]string{"d": "4"},
			wantChild:  map[string]string{"d": "14"},
		},
		"set and delete in the child": {
			child:      []write{{"e", "5"}, {"e", ""}},
			wantParent: map[string]string{"e": ""},
			wantChild:  map[string]string{"e": ""},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, w := range tc.parent {
				w.apply(t, parent)
			}
			child := parent.CacheWrap()
			for _, w := range tc.child {
				w.apply(t, child)
			}

			s.assertState(t, parent, tc.wantParent)
			s.assertState(t, child, tc.wantChild)
			require.NoError(t, child.Write())
			s.assertState(t, parent, tc.wantChild)
		})
	}
}

func (s *TestSuite) assertState(t testing.TB, kv ReadOnlyKVStore, want map[string]string) {
	t.Helper()
	for k, v := range want {
		var val []byte
		if v != "" {
			val = []byte(v)
		}
		s.AssertGetHas(t, kv, []byte(k), val)
	}
}

// AssertGetHas checks that key holds val. A nil val means the key must not
// exist.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got, "value of %q", key)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, val != nil, exists, "existence of %q", key)
}
