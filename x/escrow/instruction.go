package escrow

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

const (
	TagInitEscrow uint8 = 0
	TagExchange   uint8 = 1
)

// Instruction is a decoded escrow command.
type Instruction interface {
	Pack() []byte
	Name() string
}

// InitEscrow starts a new escrow that expects Amount of token Y in return
// for the custody deposit.
type InitEscrow struct {
	Amount uint64
}

// Exchange completes an escrow. Amount is what the taker expects to find
// in custody.
type Exchange struct {
	Amount uint64
}

func (InitEscrow) Name() string { return "InitEscrow" }
func (Exchange) Name() string   { return "Exchange" }

func (i InitEscrow) Pack() []byte { return packInstruction(TagInitEscrow, i.Amount) }
func (i Exchange) Pack() []byte   { return packInstruction(TagExchange, i.Amount) }

type wireInstruction struct {
	Tag    uint8
	Amount uint64
}

func packInstruction(tag uint8, amount uint64) []byte {
	raw, err := borsh.Serialize(wireInstruction{Tag: tag, Amount: amount})
	if err != nil {
		// Fixed width integers always serialize.
		panic(err)
	}
	return raw
}

// Unpack decodes instruction data: a tag byte followed by a little endian
// amount. Bytes following the amount are ignored.
func Unpack(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidInstruction, "empty")
	}
	if len(data) < 9 {
		return nil, errors.Wrapf(ErrInvalidInstruction, "%d bytes", len(data))
	}
	var w wireInstruction
	if err := borsh.Deserialize(&w, data[:9]); err != nil {
		return nil, errors.Wrap(ErrInvalidInstruction, err.Error())
	}
	switch w.Tag {
	case TagInitEscrow:
		return &InitEscrow{Amount: w.Amount}, nil
	case TagExchange:
		return &Exchange{Amount: w.Amount}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidInstruction, "unknown tag %d", w.Tag)
	}
}

// InitEscrowParam lists the accounts of an InitEscrow instruction.
type InitEscrowParam struct {
	ProgramID common.PublicKey
	// Initializer signs and currently owns the custody account.
	Initializer common.PublicKey
	// Custody holds the token X deposit.
	Custody common.PublicKey
	// Receiving is the initializer token Y account.
	Receiving common.PublicKey
	// Escrow is the state account, owned by the program.
	Escrow common.PublicKey
	Amount uint64
}

// NewInitEscrowInstruction returns an instruction that starts an escrow.
func NewInitEscrowInstruction(p InitEscrowParam) types.Instruction {
	return types.Instruction{
		ProgramID: p.ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: p.Initializer, IsSigner: true, IsWritable: false},
			{PubKey: p.Custody, IsSigner: false, IsWritable: true},
			{PubKey: p.Receiving, IsSigner: false, IsWritable: false},
			{PubKey: p.Escrow, IsSigner: false, IsWritable: true},
			{PubKey: common.SysVarRentPubkey, IsSigner: false, IsWritable: false},
			{PubKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
		},
		Data: InitEscrow{Amount: p.Amount}.Pack(),
	}
}

// ExchangeParam lists the accounts of an Exchange instruction.
type ExchangeParam struct {
	ProgramID            common.PublicKey
	Taker                common.PublicKey
	TakerSending         common.PublicKey
	TakerReceiving       common.PublicKey
	Custody              common.PublicKey
	InitializerMain      common.PublicKey
	InitializerReceiving common.PublicKey
	Escrow               common.PublicKey
	Amount               uint64
}

// NewExchangeInstruction returns an instruction that completes an escrow.
func NewExchangeInstruction(p ExchangeParam) (types.Instruction, error) {
	authority, _, err := FindCustodyAuthority(p.ProgramID)
	if err != nil {
		return types.Instruction{}, err
	}
	return types.Instruction{
		ProgramID: p.ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: p.Taker, IsSigner: true, IsWritable: false},
			{PubKey: p.TakerSending, IsSigner: false, IsWritable: true},
			{PubKey: p.TakerReceiving, IsSigner: false, IsWritable: true},
			{PubKey: p.Custody, IsSigner: false, IsWritable: true},
			{PubKey: p.InitializerMain, IsSigner: false, IsWritable: true},
			{PubKey: p.InitializerReceiving, IsSigner: false, IsWritable: true},
			{PubKey: p.Escrow, IsSigner: false, IsWritable: true},
			{PubKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
			{PubKey: authority, IsSigner: false, IsWritable: false},
		},
		Data: Exchange{Amount: p.Amount}.Pack(),
	}, nil
}
