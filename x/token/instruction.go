package token

import (
	sdktoken "github.com/blocto/solana-go-sdk/program/token"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

// AuthorityType selects which authority SetAuthority changes.
type AuthorityType uint8

const (
	AuthorityMintTokens AuthorityType = iota
	AuthorityFreezeAccount
	AuthorityAccountOwner
	AuthorityCloseAccount
)

// Instruction is implemented by every decoded token instruction.
type Instruction interface {
	// Name is used for logging.
	Name() string
}

// InitializeMint sets up a new mint.
type InitializeMint struct {
	Decimals              uint8
	MintAuthority         common.PublicKey
	FreezeAuthorityOption bool
	FreezeAuthority       common.PublicKey
}

// InitializeAccount sets up a new token account. It carries no payload,
// mint and owner are passed as accounts.
type InitializeAccount struct{}

// Transfer moves tokens between two accounts of the same mint.
type Transfer struct {
	Amount uint64
}

// SetAuthority replaces one of the authorities of an account or a mint.
type SetAuthority struct {
	AuthorityType      AuthorityType
	NewAuthorityOption bool
	NewAuthority       common.PublicKey
}

// MintTo creates new tokens.
type MintTo struct {
	Amount uint64
}

// CloseAccount removes an empty token account and releases its lamports.
type CloseAccount struct{}

func (InitializeMint) Name() string    { return "InitializeMint" }
func (InitializeAccount) Name() string { return "InitializeAccount" }
func (Transfer) Name() string          { return "Transfer" }
func (SetAuthority) Name() string      { return "SetAuthority" }
func (MintTo) Name() string            { return "MintTo" }
func (CloseAccount) Name() string      { return "CloseAccount" }

// newAuthority returns the requested authority or nil when it is being
// removed.
func (s *SetAuthority) newAuthority() *common.PublicKey {
	if !s.NewAuthorityOption {
		return nil
	}
	key := s.NewAuthority
	return &key
}

// Unpack decodes instruction data in the standard token wire format.
// Optional keys may be either omitted or present, so both the short and
// the long form of such instructions are accepted.
func Unpack(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidInstruction, "empty")
	}
	tag, payload := data[0], data[1:]
	switch tag {
	case byte(sdktoken.InstructionInitializeMint):
		var ins InitializeMint
		if err := decodeOptional(payload, 34, &ins, &ins.FreezeAuthorityOption); err != nil {
			return nil, err
		}
		return &ins, nil
	case byte(sdktoken.InstructionInitializeAccount):
		if len(payload) != 0 {
			return nil, errors.Wrap(ErrInvalidInstruction, "unexpected payload")
		}
		return &InitializeAccount{}, nil
	case byte(sdktoken.InstructionTransfer):
		var ins Transfer
		if err := decodeFixed(payload, 8, &ins); err != nil {
			return nil, err
		}
		return &ins, nil
	case byte(sdktoken.InstructionSetAuthority):
		var ins SetAuthority
		if err := decodeOptional(payload, 2, &ins, &ins.NewAuthorityOption); err != nil {
			return nil, err
		}
		if ins.AuthorityType > AuthorityCloseAccount {
			return nil, errors.Wrapf(ErrInvalidInstruction, "authority type %d", ins.AuthorityType)
		}
		return &ins, nil
	case byte(sdktoken.InstructionMintTo):
		var ins MintTo
		if err := decodeFixed(payload, 8, &ins); err != nil {
			return nil, err
		}
		return &ins, nil
	case byte(sdktoken.InstructionCloseAccount):
		if len(payload) != 0 {
			return nil, errors.Wrap(ErrInvalidInstruction, "unexpected payload")
		}
		return &CloseAccount{}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidInstruction, "unsupported tag %d", tag)
	}
}

func decodeFixed(payload []byte, size int, v interface{}) error {
	if len(payload) != size {
		return errors.Wrapf(ErrInvalidInstruction, "payload of %d bytes", len(payload))
	}
	if err := borsh.Deserialize(v, payload); err != nil {
		return errors.Wrap(ErrInvalidInstruction, err.Error())
	}
	return nil
}

// decodeOptional decodes a payload that ends with an optional key. The
// short form stops right after the option flag, which then must be unset.
func decodeOptional(payload []byte, short int, v interface{}, option *bool) error {
	long := short + 32
	switch len(payload) {
	case long:
		return decodeFixed(payload, long, v)
	case short:
		padded := make([]byte, long)
		copy(padded, payload)
		if err := decodeFixed(padded, long, v); err != nil {
			return err
		}
		if *option {
			return errors.Wrap(ErrInvalidInstruction, "option set without a key")
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidInstruction, "payload of %d bytes", len(payload))
	}
}
