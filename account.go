package tokenswap

import (
	"bytes"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

// Account is the persisted state of a single ledger account.
//
// Lamports is the native balance, Owner is the program that is allowed to
// debit the account and modify its data.
type Account struct {
	Lamports   uint64
	Owner      common.PublicKey
	Executable bool
	Data       []byte
}

// NewAccount returns an account with a zeroed data region of given size.
func NewAccount(lamports uint64, space int, owner common.PublicKey) *Account {
	return &Account{
		Lamports: lamports,
		Owner:    owner,
		Data:     make([]byte, space),
	}
}

// Marshal serializes the account into its storage representation.
func (a *Account) Marshal() ([]byte, error) {
	raw, err := borsh.Serialize(*a)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return raw, nil
}

// Unmarshal loads the account from its storage representation.
func (a *Account) Unmarshal(raw []byte) error {
	var acc Account
	if err := borsh.Deserialize(&acc, raw); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	*a = acc
	return nil
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// Equal returns true if both accounts hold the same state.
func (a *Account) Equal(b *Account) bool {
	return a.Lamports == b.Lamports &&
		a.Owner == b.Owner &&
		a.Executable == b.Executable &&
		bytes.Equal(a.Data, b.Data)
}

// DataLen returns the size of the data region.
func (a *Account) DataLen() int {
	return len(a.Data)
}

// AccountInfo is the view of an account that a program receives for a
// single invocation. All views of the same key within one transaction share
// the underlying Account, so a change made through one is visible through
// all of them.
type AccountInfo struct {
	Key        common.PublicKey
	IsSigner   bool
	IsWritable bool
	*Account
}

// FindAccount returns the first account info with given key or nil.
func FindAccount(accounts []*AccountInfo, key common.PublicKey) *AccountInfo {
	for _, a := range accounts {
		if a.Key == key {
			return a
		}
	}
	return nil
}

// CheckedAdd returns a+b, or false if the result does not fit into uint64.
func CheckedAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// CheckedSub returns a-b, or false if b is greater than a.
func CheckedSub(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}
