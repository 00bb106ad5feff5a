package tokenswap

// Accounts are persisted in a key value store. Everything the ledger needs
// from a database is declared below, so that the in memory btree used by
// tests and the iavl tree used on disk are interchangeable.

// ReadOnlyKVStore gives read access to the stored accounts.
type ReadOnlyKVStore interface {
	// Get returns nil for a missing key.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
}

// SetDeleter is implemented by both stores and batches. Neither key nor
// value may be modified by the callee.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is a readable and writable store.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter

	// NewBatch returns a batch that is applied to this store in one go.
	NewBatch() Batch
}

// Batch groups writes. Nothing reaches the store before Write.
type Batch interface {
	SetDeleter
	Write() error
}

// CacheableKVStore can stack a scratch pad on top of itself. The ledger
// executes every transaction inside one, so that a failing instruction
// leaves no trace of the instructions before it.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap reads through to its parent and keeps all writes until Write
// flushes them or Discard drops them. A cache can be wrapped again.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the versioned root store. A cache wrap is the only way
// to change it.
type CommitKVStore interface {
	// Get reads the last committed version.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap

	// Commit saves the current tree as a new version.
	Commit() (CommitID, error)

	// LoadLatestVersion opens the newest complete version found on disk.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a saved version by its number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
