package escrow

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x/token"
)

// Program is the escrow ready to be registered with a ledger under any
// program identity.
var Program tokenswap.Program = tokenswap.ProgramFunc(Process)

// Process executes a single escrow instruction.
func Process(ctx context.Context, inv tokenswap.Invoker, programID common.PublicKey, accounts []*tokenswap.AccountInfo, data []byte) error {
	ins, err := Unpack(data)
	if err != nil {
		return err
	}
	tokenswap.GetLogger(ctx).Info("escrow", "instruction", ins.Name())

	switch ins := ins.(type) {
	case *InitEscrow:
		return processInitEscrow(ctx, inv, programID, accounts, ins.Amount)
	case *Exchange:
		return processExchange(ctx, inv, programID, accounts, ins.Amount)
	default:
		return errors.Wrapf(ErrInvalidInstruction, "%T", ins)
	}
}

func processInitEscrow(ctx context.Context, inv tokenswap.Invoker, programID common.PublicKey, accounts []*tokenswap.AccountInfo, amount uint64) error {
	acc, err := parseInitEscrowAccounts(accounts)
	if err != nil {
		return err
	}
	if !acc.initializer.IsSigner {
		return errors.Wrap(errors.ErrMissingSignature, "initializer")
	}
	if acc.receiving.Owner != common.TokenProgramID {
		return errors.Wrap(errors.ErrIncorrectProgramID, "receiving account")
	}
	rent, err := tokenswap.RentFromAccount(acc.rent)
	if err != nil {
		return err
	}
	if !rent.IsExempt(acc.escrow.Lamports, acc.escrow.DataLen()) {
		return errors.Wrapf(ErrNotRentExempt, "%d lamports", acc.escrow.Lamports)
	}
	var state Escrow
	if err := state.UnpackUnchecked(acc.escrow.Data); err != nil {
		return err
	}
	if state.IsInitialized() {
		return errors.ErrAccountAlreadyInitialized
	}
	if acc.tokenProgram.Key != common.TokenProgramID {
		return errors.Wrap(errors.ErrIncorrectProgramID, "token program")
	}

	state = Escrow{
		Initialized:          true,
		Initializer:          acc.initializer.Key,
		CustodyAccount:       acc.custody.Key,
		InitializerReceiving: acc.receiving.Key,
		ExpectedAmount:       amount,
	}
	if err := state.PackInto(acc.escrow.Data); err != nil {
		return err
	}

	authority, _, err := FindCustodyAuthority(programID)
	if err != nil {
		return err
	}
	ledger := tokenLedger{inv: inv, program: acc.tokenProgram}
	return ledger.setOwner(ctx, acc.custody, acc.initializer, signatureAuth{}, authority)
}

func processExchange(ctx context.Context, inv tokenswap.Invoker, programID common.PublicKey, accounts []*tokenswap.AccountInfo, amount uint64) error {
	acc, err := parseExchangeAccounts(accounts)
	if err != nil {
		return err
	}
	if !acc.taker.IsSigner {
		return errors.Wrap(errors.ErrMissingSignature, "taker")
	}
	custody, err := token.UnpackAccount(acc.custody.Data)
	if err != nil {
		return err
	}
	if custody.Amount != amount {
		return errors.Wrapf(ErrExpectedAmountMismatch, "custody holds %d, taker expects %d", custody.Amount, amount)
	}

	var state Escrow
	if err := state.Unpack(acc.escrow.Data); err != nil {
		return err
	}
	if !state.IsInitialized() {
		return errors.Wrap(errors.ErrInvalidAccountData, "escrow is empty")
	}
	if state.CustodyAccount != acc.custody.Key {
		return errors.Wrap(errors.ErrInvalidAccountData, "custody account")
	}
	if state.Initializer != acc.initializerMain.Key {
		return errors.Wrap(errors.ErrInvalidAccountData, "initializer")
	}
	if state.InitializerReceiving != acc.initializerReceiving.Key {
		return errors.Wrap(errors.ErrInvalidAccountData, "initializer receiving account")
	}
	if acc.tokenProgram.Key != common.TokenProgramID {
		return errors.Wrap(errors.ErrIncorrectProgramID, "token program")
	}
	authority, bump, err := FindCustodyAuthority(programID)
	if err != nil {
		return err
	}
	if acc.authority.Key != authority {
		return errors.Wrap(errors.ErrInvalidAccountData, "custody authority")
	}

	ledger := tokenLedger{inv: inv, program: acc.tokenProgram}
	custodyAuth := programAuth{seeds: CustodySignerSeeds(bump)}

	if err := ledger.transfer(ctx, acc.takerSending, acc.initializerReceiving, acc.taker, signatureAuth{}, state.ExpectedAmount); err != nil {
		return err
	}
	if err := ledger.transfer(ctx, acc.custody, acc.takerReceiving, acc.authority, custodyAuth, custody.Amount); err != nil {
		return err
	}
	if err := ledger.closeAccount(ctx, acc.custody, acc.initializerMain, acc.authority, custodyAuth); err != nil {
		return err
	}

	total, ok := tokenswap.CheckedAdd(acc.initializerMain.Lamports, acc.escrow.Lamports)
	if !ok {
		return ErrAmountOverflow
	}
	acc.initializerMain.Lamports = total
	acc.escrow.Lamports = 0
	for i := range acc.escrow.Data {
		acc.escrow.Data[i] = 0
	}
	return nil
}
