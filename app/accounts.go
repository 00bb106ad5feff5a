package app

import (
	"bytes"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	tmcommon "github.com/tendermint/tendermint/libs/common"
)

const accountPrefix = "acct:"

func accountKey(key common.PublicKey) []byte {
	return append([]byte(accountPrefix), key[:]...)
}

// getAccount returns the stored account or nil if it does not exist.
func getAccount(kv tokenswap.ReadOnlyKVStore, key common.PublicKey) (*tokenswap.Account, error) {
	raw, err := kv.Get(accountKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	var acc tokenswap.Account
	if err := acc.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "account %s", key.ToBase58())
	}
	return &acc, nil
}

func saveAccount(kv tokenswap.SetDeleter, key common.PublicKey, acc *tokenswap.Account) error {
	raw, err := acc.Marshal()
	if err != nil {
		return err
	}
	if err := kv.Set(accountKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func deleteAccount(kv tokenswap.SetDeleter, key common.PublicKey) error {
	if err := kv.Delete(accountKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// accountTags renders the account identity of store change tags in base58.
func accountTags(tags []tmcommon.KVPair) []tmcommon.KVPair {
	prefix := []byte(accountPrefix)
	for i, t := range tags {
		if !bytes.HasPrefix(t.Key, prefix) || len(t.Key) != len(prefix)+common.PublicKeyLength {
			continue
		}
		key := common.PublicKeyFromBytes(t.Key[len(prefix):])
		tags[i].Key = []byte(accountPrefix + key.ToBase58())
	}
	return tags
}
