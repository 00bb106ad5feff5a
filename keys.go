package tokenswap

import (
	"encoding/json"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap/errors"
	"github.com/mr-tron/base58"
)

// ParseKey decodes a base58 encoded identity. Unlike
// common.PublicKeyFromString it rejects malformed input.
func ParseKey(s string) (common.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return common.PublicKey{}, errors.Wrapf(errors.ErrInvalidArgument, "key %q: %s", s, err)
	}
	if len(raw) != common.PublicKeyLength {
		return common.PublicKey{}, errors.Wrapf(errors.ErrInvalidArgument, "key %q of %d bytes", s, len(raw))
	}
	return common.PublicKeyFromBytes(raw), nil
}

// Key is an identity that is represented in JSON as a base58 string.
type Key common.PublicKey

// PublicKey returns the underlying identity.
func (k Key) PublicKey() common.PublicKey {
	return common.PublicKey(k)
}

func (k Key) String() string {
	return common.PublicKey(k).ToBase58()
}

// MarshalJSON encodes the key as a base58 string.
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a base58 string.
func (k *Key) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	key, err := ParseKey(s)
	if err != nil {
		return err
	}
	*k = Key(key)
	return nil
}
