package escrow

import (
	"context"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap"
)

// authorization decides how a token ledger sub-operation is authorized.
type authorization interface {
	invoke(ctx context.Context, inv tokenswap.Invoker, ins types.Instruction, accounts []*tokenswap.AccountInfo) error
}

// signatureAuth relies on a signature present in the transaction.
type signatureAuth struct{}

func (signatureAuth) invoke(ctx context.Context, inv tokenswap.Invoker, ins types.Instruction, accounts []*tokenswap.AccountInfo) error {
	return inv.Invoke(ctx, ins, accounts)
}

// programAuth lets the program sign for an address derived from its own
// identity and seeds.
type programAuth struct {
	seeds [][]byte
}

func (a programAuth) invoke(ctx context.Context, inv tokenswap.Invoker, ins types.Instruction, accounts []*tokenswap.AccountInfo) error {
	return inv.InvokeSigned(ctx, ins, accounts, a.seeds)
}

// tokenLedger issues sub-operations to the token ledger program.
type tokenLedger struct {
	inv     tokenswap.Invoker
	program *tokenswap.AccountInfo
}

func (l tokenLedger) transfer(ctx context.Context, from, to, authority *tokenswap.AccountInfo, auth authorization, amount uint64) error {
	ins := sdktoken.Transfer(sdktoken.TransferParam{
		From:   from.Key,
		To:     to.Key,
		Auth:   authority.Key,
		Amount: amount,
	})
	return auth.invoke(ctx, l.inv, ins, []*tokenswap.AccountInfo{from, to, authority, l.program})
}

func (l tokenLedger) setOwner(ctx context.Context, account, authority *tokenswap.AccountInfo, auth authorization, owner common.PublicKey) error {
	ins := sdktoken.SetAuthority(sdktoken.SetAuthorityParam{
		Account:  account.Key,
		NewAuth:  &owner,
		AuthType: sdktoken.AuthorityTypeAccountOwner,
		Auth:     authority.Key,
	})
	return auth.invoke(ctx, l.inv, ins, []*tokenswap.AccountInfo{account, authority, l.program})
}

func (l tokenLedger) closeAccount(ctx context.Context, account, refund, authority *tokenswap.AccountInfo, auth authorization) error {
	ins := sdktoken.CloseAccount(sdktoken.CloseAccountParam{
		Account: account.Key,
		Auth:    authority.Key,
		To:      refund.Key,
	})
	return auth.invoke(ctx, l.inv, ins, []*tokenswap.AccountInfo{account, refund, authority, l.program})
}
