package app

import (
	"sync"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// ledgerState keeps the committed tree and the two scratch pads built on
// top of it. Delivered transactions land in deliver, checked ones in check.
// Only deliver survives a commit.
type ledgerState struct {
	mu        sync.RWMutex
	committed tokenswap.CommitKVStore
	deliver   tokenswap.KVCacheWrap
	check     tokenswap.KVCacheWrap
}

func openLedgerState(kv tokenswap.CommitKVStore) (*ledgerState, error) {
	if err := kv.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s := &ledgerState{committed: kv}
	s.reset()
	return s, nil
}

func (s *ledgerState) reset() {
	s.deliver = s.committed.CacheWrap()
	s.check = s.committed.CacheWrap()
}

// checkGenesis rebuilds the check cache on top of the uncommitted genesis,
// so that transactions can be checked before the first commit.
func (s *ledgerState) checkGenesis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.check.Discard()
	s.check = s.deliver.CacheWrap()
}

func (s *ledgerState) version() (tokenswap.CommitID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed.LatestVersion()
}

// commit writes deliver into the tree and saves a new version. Pending
// checks are dropped.
func (s *ledgerState) commit() (tokenswap.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deliver.Write(); err != nil {
		return tokenswap.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.check.Discard()
	id, err := s.committed.Commit()
	if err != nil {
		return id, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.reset()
	return id, nil
}

func (s *ledgerState) deliverState() tokenswap.CacheableKVStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deliver
}

func (s *ledgerState) checkState() tokenswap.CacheableKVStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.check
}

// Ledger metadata lives next to the accounts under a prefix no public key
// encoding produces.
const chainIDKey = "_meta:chain_id"

func loadChainID(kv tokenswap.ReadOnlyKVStore) (string, error) {
	raw, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(raw), nil
}

// saveChainID fails if a chain id was stored before.
func saveChainID(kv tokenswap.KVStore, chainID string) error {
	if !tokenswap.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidArgument, "chain id %q", chainID)
	}
	switch ok, err := kv.Has([]byte(chainIDKey)); {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case ok:
		return errors.Wrap(errors.ErrAccountAlreadyInitialized, "chain id is set by the genesis only")
	}
	if err := kv.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
