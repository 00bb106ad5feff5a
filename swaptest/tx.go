package swaptest

import (
	"testing"

	"github.com/blocto/solana-go-sdk/types"
)

// Blockhash is used for every transaction. The ledger does not check it.
const Blockhash = "EtWTRABZaYq6iMfeYKouRu166VU2xqa1wcaWoxPkrZBG"

// Tx returns a transaction paid by the first signer and signed by all of
// them.
func Tx(t testing.TB, signers []types.Account, ins ...types.Instruction) types.Transaction {
	t.Helper()
	if len(signers) == 0 {
		t.Fatal("transaction needs at least a fee payer")
	}
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        signers[0].PublicKey,
			RecentBlockhash: Blockhash,
			Instructions:    ins,
		}),
		Signers: signers,
	})
	if err != nil {
		t.Fatalf("cannot sign transaction: %+v", err)
	}
	return tx
}
