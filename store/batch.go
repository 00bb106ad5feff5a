package store

// EmptyKVStore holds no data and drops every write. It is the bottom layer
// of MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has(key []byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error    { return nil }
func (EmptyKVStore) Delete(key []byte) error        { return nil }

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// NonAtomicBatch queues writes and replays them in order on Write.
//
// NOTE: A failure in the middle of Write leaves the target partially
// written. Use it only in front of in-memory stores.
type NonAtomicBatch struct {
	out SetDeleter
	ops []batchOp
}

type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns an empty batch writing to out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: key, value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: key, delete: true})
	return nil
}

// Len returns the number of queued writes.
func (b *NonAtomicBatch) Len() int {
	return len(b.ops)
}

// Write applies all queued writes and empties the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		var err error
		if op.delete {
			err = b.out.Delete(op.key)
		} else {
			err = b.out.Set(op.key, op.value)
		}
		if err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}
