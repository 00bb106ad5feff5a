package tokenswap

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

// NativeLoaderID owns the accounts of programs built into the ledger.
var NativeLoaderID = common.PublicKeyFromString("NativeLoader1111111111111111111111111111111")

// Program is the entry point of on-ledger code.
//
// A program is stateless. Process receives the identity it runs under,
// the accounts referenced by the instruction in the order the instruction
// declares them and the raw instruction data. All state changes must be
// made to the given accounts. Returning an error aborts the whole
// transaction.
type Program interface {
	Process(ctx context.Context, inv Invoker, programID common.PublicKey, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc is an adapter that allows to use an ordinary function as a
// Program.
type ProgramFunc func(ctx context.Context, inv Invoker, programID common.PublicKey, accounts []*AccountInfo, data []byte) error

// Process calls f(ctx, inv, programID, accounts, data).
func (f ProgramFunc) Process(ctx context.Context, inv Invoker, programID common.PublicKey, accounts []*AccountInfo, data []byte) error {
	return f(ctx, inv, programID, accounts, data)
}

// Invoker allows a program to call another program within the same
// transaction. The callee sees the same accounts, and its changes become
// visible to the caller once the call returns.
type Invoker interface {
	// Invoke executes the instruction using only the privileges granted by
	// the transaction signatures.
	Invoke(ctx context.Context, ins types.Instruction, accounts []*AccountInfo) error

	// InvokeSigned executes the instruction and additionally marks as
	// signers all program derived addresses created from the given seeds
	// and the calling program identity.
	InvokeSigned(ctx context.Context, ins types.Instruction, accounts []*AccountInfo, signerSeeds ...[][]byte) error
}
