package system

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Program is the system program ready to be registered with a ledger under
// common.SystemProgramID.
var Program tokenswap.Program = tokenswap.ProgramFunc(Process)

// Process executes a single system instruction.
func Process(ctx context.Context, _ tokenswap.Invoker, programID common.PublicKey, accounts []*tokenswap.AccountInfo, data []byte) error {
	ins, err := Unpack(data)
	if err != nil {
		return err
	}
	if len(accounts) < 2 {
		return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "got %d", len(accounts))
	}
	from, to := accounts[0], accounts[1]

	switch ins := ins.(type) {
	case *CreateAccount:
		tokenswap.GetLogger(ctx).Debug("system", "instruction", "CreateAccount",
			"account", to.Key.ToBase58(), "owner", ins.Owner.ToBase58())
		return createAccount(programID, from, to, ins)
	case *Transfer:
		tokenswap.GetLogger(ctx).Debug("system", "instruction", "Transfer")
		return transfer(programID, from, to, ins.Lamports)
	default:
		return errors.Wrapf(ErrInvalidInstruction, "%T", ins)
	}
}

func createAccount(programID common.PublicKey, from, to *tokenswap.AccountInfo, ins *CreateAccount) error {
	if !to.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "new account %s", to.Key.ToBase58())
	}
	if to.Lamports != 0 || to.DataLen() != 0 || to.Owner != programID {
		return errors.Wrapf(ErrAccountInUse, "account %s", to.Key.ToBase58())
	}
	if ins.Space > MaxSpace {
		return errors.Wrapf(ErrInvalidSpace, "%d bytes", ins.Space)
	}
	if err := transfer(programID, from, to, ins.Lamports); err != nil {
		return err
	}
	to.Data = make([]byte, ins.Space)
	to.Owner = ins.Owner
	return nil
}

func transfer(programID common.PublicKey, from, to *tokenswap.AccountInfo, lamports uint64) error {
	if !from.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "from %s", from.Key.ToBase58())
	}
	if from.Owner != programID {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "from %s", from.Key.ToBase58())
	}
	if from.DataLen() != 0 {
		return ErrFromHasData
	}
	if from.Key == to.Key {
		return nil
	}
	left, ok := tokenswap.CheckedSub(from.Lamports, lamports)
	if !ok {
		return errors.Wrapf(ErrInsufficientLamports, "has %d, want %d", from.Lamports, lamports)
	}
	total, ok := tokenswap.CheckedAdd(to.Lamports, lamports)
	if !ok {
		return errors.ErrOverflow
	}
	from.Lamports, to.Lamports = left, total
	return nil
}
