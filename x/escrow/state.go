package escrow

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

// Len is the size of a packed escrow record.
const Len = 1 + 32 + 32 + 32 + 8

// Escrow is the record kept in the escrow state account. A record is
// either all zero or fully populated with Initialized set.
type Escrow struct {
	Initialized          bool
	Initializer          common.PublicKey
	CustodyAccount       common.PublicKey
	InitializerReceiving common.PublicKey
	ExpectedAmount       uint64
}

// IsInitialized returns true for an active escrow.
func (e Escrow) IsInitialized() bool {
	return e.Initialized
}

// Pack returns the record in its storage form.
func (e *Escrow) Pack() []byte {
	raw, err := borsh.Serialize(*e)
	if err != nil {
		// All fields are of fixed width.
		panic(err)
	}
	return raw
}

// PackInto writes the record into given data region, which must be of
// exactly Len bytes.
func (e *Escrow) PackInto(dst []byte) error {
	if len(dst) != Len {
		return errors.Wrapf(errors.ErrInvalidAccountData, "escrow record of %d bytes", len(dst))
	}
	copy(dst, e.Pack())
	return nil
}

// UnpackUnchecked loads a record of either state. Use it to find out
// whether a slot is free.
func (e *Escrow) UnpackUnchecked(data []byte) error {
	if len(data) != Len {
		return errors.Wrapf(errors.ErrInvalidAccountData, "escrow record of %d bytes", len(data))
	}
	var rec Escrow
	if err := borsh.Deserialize(&rec, data); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	*e = rec
	return nil
}

// Unpack loads a record. It does not reject empty records, the caller
// must check IsInitialized before trusting any other field.
func (e *Escrow) Unpack(data []byte) error {
	return e.UnpackUnchecked(data)
}
