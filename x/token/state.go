package token

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

const (
	// AccountLen is the size of a token account.
	AccountLen = 165
	// MintLen is the size of a mint.
	MintLen = 82
)

// AccountState is the lifecycle state of a token account.
type AccountState uint8

const (
	AccountStateUninitialized AccountState = iota
	AccountStateInitialized
	AccountStateFrozen
)

// Optional values are stored as a four byte tag followed by the value,
// which is zeroed when the tag is unset.
const (
	optionNone uint32 = 0
	optionSome uint32 = 1
)

// Account holds the balance of a single mint for a single owner.
type Account struct {
	Mint                 common.PublicKey
	Owner                common.PublicKey
	Amount               uint64
	DelegateOption       uint32
	Delegate             common.PublicKey
	State                AccountState
	IsNativeOption       uint32
	IsNative             uint64
	DelegatedAmount      uint64
	CloseAuthorityOption uint32
	CloseAuthority       common.PublicKey
}

// IsInitialized returns true unless the account was never set up.
func (a *Account) IsInitialized() bool {
	return a.State != AccountStateUninitialized
}

// IsFrozen returns true if the account cannot be used.
func (a *Account) IsFrozen() bool {
	return a.State == AccountStateFrozen
}

// CloseAuthorityKey returns the key allowed to close the account.
func (a *Account) CloseAuthorityKey() common.PublicKey {
	if a.CloseAuthorityOption == optionSome {
		return a.CloseAuthority
	}
	return a.Owner
}

// UnpackAccount decodes a token account from its data region.
func UnpackAccount(data []byte) (*Account, error) {
	if len(data) != AccountLen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "token account of %d bytes", len(data))
	}
	var a Account
	if err := borsh.Deserialize(&a, data); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	if a.State > AccountStateFrozen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "account state %d", a.State)
	}
	if !validOption(a.DelegateOption) || !validOption(a.IsNativeOption) || !validOption(a.CloseAuthorityOption) {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, "option tag")
	}
	return &a, nil
}

// PackInto writes the account into given data region.
func (a *Account) PackInto(dst []byte) error {
	if len(dst) != AccountLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "token account of %d bytes", len(dst))
	}
	raw, err := borsh.Serialize(*a)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	copy(dst, raw)
	return nil
}

// Mint describes a token.
type Mint struct {
	MintAuthorityOption   uint32
	MintAuthority         common.PublicKey
	Supply                uint64
	Decimals              uint8
	IsInitialized         bool
	FreezeAuthorityOption uint32
	FreezeAuthority       common.PublicKey
}

// UnpackMint decodes a mint from its data region.
func UnpackMint(data []byte) (*Mint, error) {
	if len(data) != MintLen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "mint of %d bytes", len(data))
	}
	var m Mint
	if err := borsh.Deserialize(&m, data); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	if !validOption(m.MintAuthorityOption) || !validOption(m.FreezeAuthorityOption) {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, "option tag")
	}
	return &m, nil
}

// PackInto writes the mint into given data region.
func (m *Mint) PackInto(dst []byte) error {
	if len(dst) != MintLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "mint of %d bytes", len(dst))
	}
	raw, err := borsh.Serialize(*m)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	copy(dst, raw)
	return nil
}

func validOption(tag uint32) bool {
	return tag == optionNone || tag == optionSome
}

func option(key *common.PublicKey) (uint32, common.PublicKey) {
	if key == nil {
		return optionNone, common.PublicKey{}
	}
	return optionSome, *key
}
