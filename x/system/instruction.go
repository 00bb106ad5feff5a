package system

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

// MaxSpace is the largest data region an account may be created with.
const MaxSpace = 10 * 1024 * 1024

const (
	tagCreateAccount uint32 = 0
	tagTransfer      uint32 = 2
)

// CreateAccount funds a new account, allocates its data region and
// assigns it to the owner program.
type CreateAccount struct {
	Lamports uint64
	Space    uint64
	Owner    common.PublicKey
}

// Transfer moves lamports.
type Transfer struct {
	Lamports uint64
}

// Unpack decodes system instruction data. The instruction tag is a four
// byte little endian integer.
func Unpack(data []byte) (interface{}, error) {
	if len(data) < 4 {
		return nil, errors.Wrap(ErrInvalidInstruction, "missing tag")
	}
	var tag uint32
	if err := borsh.Deserialize(&tag, data[:4]); err != nil {
		return nil, errors.Wrap(ErrInvalidInstruction, err.Error())
	}
	payload := data[4:]

	switch tag {
	case tagCreateAccount:
		var ins CreateAccount
		if err := decode(payload, 48, &ins); err != nil {
			return nil, err
		}
		return &ins, nil
	case tagTransfer:
		var ins Transfer
		if err := decode(payload, 8, &ins); err != nil {
			return nil, err
		}
		return &ins, nil
	default:
		return nil, errors.Wrapf(ErrInvalidInstruction, "unsupported tag %d", tag)
	}
}

func decode(payload []byte, size int, v interface{}) error {
	if len(payload) != size {
		return errors.Wrapf(ErrInvalidInstruction, "payload of %d bytes", len(payload))
	}
	if err := borsh.Deserialize(v, payload); err != nil {
		return errors.Wrap(ErrInvalidInstruction, err.Error())
	}
	return nil
}
