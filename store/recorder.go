package store

import (
	"sort"

	"github.com/tendermint/tendermint/libs/common"
)

// RecordingStore passes every operation to the wrapped store and remembers
// the keys that changed. Writes made through batches and cache wraps
// created from it are recorded as well.
type RecordingStore struct {
	CacheableKVStore
	// changes maps a key to the last value written, nil for a delete
	changes map[string][]byte
}

var _ CacheableKVStore = (*RecordingStore)(nil)

// NewRecordingStore starts recording changes made to kv.
func NewRecordingStore(kv CacheableKVStore) *RecordingStore {
	return &RecordingStore{
		CacheableKVStore: kv,
		changes:          make(map[string][]byte),
	}
}

func (r *RecordingStore) Set(key, value []byte) error {
	r.changes[string(key)] = value
	return r.CacheableKVStore.Set(key, value)
}

func (r *RecordingStore) Delete(key []byte) error {
	r.changes[string(key)] = nil
	return r.CacheableKVStore.Delete(key)
}

func (r *RecordingStore) NewBatch() Batch {
	return &recordingBatch{Batch: r.CacheableKVStore.NewBatch(), changes: r.changes}
}

// CacheWrap returns a cache whose writes are recorded once written.
func (r *RecordingStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(r, r.NewBatch(), nil)
}

// Tags returns one tag per changed key, sorted by key. The tag value is
// "s" for a set and "d" for a delete.
func (r *RecordingStore) Tags() []common.KVPair {
	tags := make([]common.KVPair, 0, len(r.changes))
	for k, v := range r.changes {
		op := []byte("s")
		if v == nil {
			op = []byte("d")
		}
		tags = append(tags, common.KVPair{Key: []byte(k), Value: op})
	}
	sort.Slice(tags, func(i, j int) bool {
		return string(tags[i].Key) < string(tags[j].Key)
	})
	return tags
}

// recordingBatch records its writes once they are written.
type recordingBatch struct {
	Batch
	changes map[string][]byte
	pending []batchOp
}

func (r *recordingBatch) Set(key, value []byte) error {
	r.pending = append(r.pending, batchOp{key: key, value: value})
	return r.Batch.Set(key, value)
}

func (r *recordingBatch) Delete(key []byte) error {
	r.pending = append(r.pending, batchOp{key: key, delete: true})
	return r.Batch.Delete(key)
}

func (r *recordingBatch) Write() error {
	if err := r.Batch.Write(); err != nil {
		return err
	}
	for _, op := range r.pending {
		if op.delete {
			r.changes[string(op.key)] = nil
		} else {
			r.changes[string(op.key)] = op.value
		}
	}
	r.pending = nil
	return nil
}
