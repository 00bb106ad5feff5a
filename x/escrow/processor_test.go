package escrow_test

import (
	"context"
	"math"
	"testing"

	sdksystem "github.com/blocto/solana-go-sdk/program/system"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store/iavl"
	"github.com/iov-one/tokenswap/swaptest"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	deposit  = 1000
	bobFunds = 2000
)

// fixture is a ledger where alice holds token X, bob holds token Y and
// funder pays for every new account.
type fixture struct {
	t         *testing.T
	l         *app.Ledger
	rent      tokenswap.Rent
	programID common.PublicKey

	funder, alice, bob types.Account
	mintX, mintY       common.PublicKey
	aliceX, aliceY     common.PublicKey
	bobX, bobY         common.PublicKey
}

func newFixture(t *testing.T, aliceLamports uint64) *fixture {
	t.Helper()
	f := &fixture{
		t:         t,
		rent:      tokenswap.DefaultRent(),
		programID: swaptest.NewPubKey(),
		funder:    swaptest.NewKey(),
		alice:     swaptest.NewKey(),
		bob:       swaptest.NewKey(),
	}

	l, err := app.NewLedger(iavl.MockCommitStore())
	require.NoError(t, err)
	gen, err := app.NewGenesis("escrow-test", f.rent,
		app.GenesisAccount{PubKey: tokenswap.Key(f.funder.PublicKey), Lamports: 1000000000000},
		app.GenesisAccount{PubKey: tokenswap.Key(f.alice.PublicKey), Lamports: aliceLamports},
		app.GenesisAccount{PubKey: tokenswap.Key(f.bob.PublicKey), Lamports: 1000000000},
	)
	require.NoError(t, err)
	require.NoError(t, l.InitChain(gen))
	l.Register(f.programID, escrow.Program)
	f.l = l

	mintX, mintY := swaptest.NewKey(), swaptest.NewKey()
	f.mintX, f.mintY = mintX.PublicKey, mintY.PublicKey
	var ins []types.Instruction
	ins = append(ins, swaptest.CreateMint(f.rent, f.funder.PublicKey, f.mintX, f.funder.PublicKey)...)
	ins = append(ins, swaptest.CreateMint(f.rent, f.funder.PublicKey, f.mintY, f.funder.PublicKey)...)
	require.NoError(t, f.deliver([]types.Account{f.funder, mintX, mintY}, ins...))

	f.aliceX = f.newTokenAccount(f.mintX, f.alice.PublicKey)
	f.aliceY = f.newTokenAccount(f.mintY, f.alice.PublicKey)
	f.bobX = f.newTokenAccount(f.mintX, f.bob.PublicKey)
	f.bobY = f.newTokenAccount(f.mintY, f.bob.PublicKey)

	require.NoError(t, f.deliver([]types.Account{f.funder},
		swaptest.MintTo(f.mintX, f.aliceX, f.funder.PublicKey, deposit),
		swaptest.MintTo(f.mintY, f.bobY, f.funder.PublicKey, bobFunds),
	))
	return f
}

func (f *fixture) deliver(signers []types.Account, ins ...types.Instruction) error {
	f.t.Helper()
	_, err := f.l.Deliver(f.l.Context(), swaptest.Tx(f.t, signers, ins...))
	return err
}

func (f *fixture) newTokenAccount(mint, owner common.PublicKey) common.PublicKey {
	f.t.Helper()
	acc := swaptest.NewKey()
	require.NoError(f.t, f.deliver([]types.Account{f.funder, acc},
		swaptest.CreateTokenAccount(f.rent, f.funder.PublicKey, acc.PublicKey, mint, owner)...))
	return acc.PublicKey
}

func (f *fixture) tokens(key common.PublicKey) uint64 {
	f.t.Helper()
	acc, err := f.l.Account(key)
	require.NoError(f.t, err)
	amount, err := swaptest.TokenBalance(acc)
	require.NoError(f.t, err)
	return amount
}

func (f *fixture) tokenOwner(key common.PublicKey) common.PublicKey {
	f.t.Helper()
	acc, err := f.l.Account(key)
	require.NoError(f.t, err)
	state, err := token.UnpackAccount(acc.Data)
	require.NoError(f.t, err)
	return state.Owner
}

func (f *fixture) lamports(key common.PublicKey) uint64 {
	f.t.Helper()
	b, err := f.l.Balance(key)
	require.NoError(f.t, err)
	return b
}

func (f *fixture) record(key common.PublicKey) escrow.Escrow {
	f.t.Helper()
	acc, err := f.l.Account(key)
	require.NoError(f.t, err)
	var rec escrow.Escrow
	require.NoError(f.t, rec.Unpack(acc.Data))
	return rec
}

// custody moves alice deposit into a fresh token account still owned by
// alice.
func (f *fixture) custody() common.PublicKey {
	f.t.Helper()
	custody := f.newTokenAccount(f.mintX, f.alice.PublicKey)
	require.NoError(f.t, f.deliver([]types.Account{f.funder, f.alice},
		swaptest.Transfer(f.aliceX, custody, f.alice.PublicKey, deposit)))
	return custody
}

// createEscrowAccount returns an instruction that allocates an escrow
// state account owned by the program.
func (f *fixture) createEscrowAccount(key common.PublicKey, lamports uint64) types.Instruction {
	return sdksystem.CreateAccount(sdksystem.CreateAccountParam{
		From:     f.funder.PublicKey,
		New:      key,
		Owner:    f.programID,
		Lamports: lamports,
		Space:    escrow.Len,
	})
}

func (f *fixture) initEscrow(custody common.PublicKey, expected uint64) common.PublicKey {
	f.t.Helper()
	state := swaptest.NewKey()
	require.NoError(f.t, f.deliver([]types.Account{f.funder, f.alice, state},
		f.createEscrowAccount(state.PublicKey, f.rent.MinimumBalance(escrow.Len)),
		escrow.NewInitEscrowInstruction(escrow.InitEscrowParam{
			ProgramID:   f.programID,
			Initializer: f.alice.PublicKey,
			Custody:     custody,
			Receiving:   f.aliceY,
			Escrow:      state.PublicKey,
			Amount:      expected,
		}),
	))
	return state.PublicKey
}

func (f *fixture) exchangeParam(custody, state common.PublicKey, amount uint64) escrow.ExchangeParam {
	return escrow.ExchangeParam{
		ProgramID:            f.programID,
		Taker:                f.bob.PublicKey,
		TakerSending:         f.bobY,
		TakerReceiving:       f.bobX,
		Custody:              custody,
		InitializerMain:      f.alice.PublicKey,
		InitializerReceiving: f.aliceY,
		Escrow:               state,
		Amount:               amount,
	}
}

func (f *fixture) exchange(p escrow.ExchangeParam) error {
	f.t.Helper()
	ins, err := escrow.NewExchangeInstruction(p)
	require.NoError(f.t, err)
	return f.deliver([]types.Account{f.bob}, ins)
}

func TestSwap(t *testing.T) {
	f := newFixture(t, 1000000)
	custody := f.custody()
	custodyRent := f.lamports(custody)
	assert.Equal(t, uint64(deposit), f.tokens(custody))

	state := f.initEscrow(custody, 1000)
	escrowRent := f.lamports(state)

	rec := f.record(state)
	assert.Equal(t, escrow.Escrow{
		Initialized:          true,
		Initializer:          f.alice.PublicKey,
		CustodyAccount:       custody,
		InitializerReceiving: f.aliceY,
		ExpectedAmount:       1000,
	}, rec)

	acc, err := f.l.Account(custody)
	require.NoError(t, err)
	custodyState, err := token.UnpackAccount(acc.Data)
	require.NoError(t, err)
	authority, _, err := escrow.FindCustodyAuthority(f.programID)
	require.NoError(t, err)
	assert.Equal(t, authority, custodyState.Owner)

	aliceLamports := f.lamports(f.alice.PublicKey)
	require.NoError(t, f.exchange(f.exchangeParam(custody, state, deposit)))

	assert.Equal(t, uint64(deposit), f.tokens(f.bobX))
	assert.Equal(t, uint64(bobFunds-1000), f.tokens(f.bobY))
	assert.Equal(t, uint64(1000), f.tokens(f.aliceY))

	// custody and escrow state are gone, their deposits went to alice
	for _, key := range []common.PublicKey{custody, state} {
		acc, err := f.l.Account(key)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), acc.Lamports)
		assert.Empty(t, acc.Data)
		assert.Equal(t, common.SystemProgramID, acc.Owner)
	}
	assert.Equal(t, aliceLamports+custodyRent+escrowRent, f.lamports(f.alice.PublicKey))

	// a closed escrow has no data left and cannot be exchanged again
	err = f.exchange(f.exchangeParam(custody, state, deposit))
	assert.True(t, errors.ErrInvalidAccountData.Is(err), "%+v", err)
}

func TestSwapWithDifferentAmounts(t *testing.T) {
	f := newFixture(t, 1000000)
	custody := f.custody()
	state := f.initEscrow(custody, 300)

	require.NoError(t, f.exchange(f.exchangeParam(custody, state, deposit)))
	assert.Equal(t, uint64(deposit), f.tokens(f.bobX))
	assert.Equal(t, uint64(bobFunds-300), f.tokens(f.bobY))
	assert.Equal(t, uint64(300), f.tokens(f.aliceY))
}

func TestInitEscrowGuards(t *testing.T) {
	cases := map[string]struct {
		signed     bool
		custody    func(f *fixture) common.PublicKey
		receiving  func(f *fixture) common.PublicKey
		lamports   func(f *fixture) uint64
		wantCode   uint32
		wantRecord bool
	}{
		"success": {
			signed:     true,
			wantRecord: true,
		},
		"initializer did not sign": {
			signed:   false,
			wantCode: errors.ErrMissingSignature.ABCICode(),
		},
		"receiving account not a token account": {
			signed:    true,
			receiving: func(f *fixture) common.PublicKey { return f.funder.PublicKey },
			wantCode:  errors.ErrIncorrectProgramID.ABCICode(),
		},
		"escrow account not rent exempt": {
			signed:   true,
			lamports: func(f *fixture) uint64 { return f.rent.MinimumBalance(escrow.Len) - 1 },
			wantCode: escrow.ErrNotRentExempt.ABCICode(),
		},
		"custody owned by another account": {
			signed:   true,
			custody:  func(f *fixture) common.PublicKey { return f.bobX },
			wantCode: token.ErrOwnerMismatch.ABCICode(),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, 1000000)
			custody := f.custody()
			if tc.custody != nil {
				custody = tc.custody(f)
			}
			custodyOwner := f.tokenOwner(custody)

			receiving := f.aliceY
			if tc.receiving != nil {
				receiving = tc.receiving(f)
			}
			lamports := f.rent.MinimumBalance(escrow.Len)
			if tc.lamports != nil {
				lamports = tc.lamports(f)
			}

			state := swaptest.NewKey()
			require.NoError(t, f.deliver([]types.Account{f.funder, state}, f.createEscrowAccount(state.PublicKey, lamports)))
			before, err := f.l.Account(state.PublicKey)
			require.NoError(t, err)

			ins := escrow.NewInitEscrowInstruction(escrow.InitEscrowParam{
				ProgramID:   f.programID,
				Initializer: f.alice.PublicKey,
				Custody:     custody,
				Receiving:   receiving,
				Escrow:      state.PublicKey,
				Amount:      1000,
			})
			signers := []types.Account{f.funder, f.alice}
			if !tc.signed {
				ins.Accounts[0].IsSigner = false
				signers = signers[:1]
			}
			res := f.l.DeliverTx(f.l.Context(), swaptest.Tx(t, signers, ins))
			assert.Equal(t, tc.wantCode, res.Code, res.Log)

			assert.Equal(t, tc.wantRecord, f.record(state.PublicKey).IsInitialized())
			if tc.wantRecord {
				assert.NotEqual(t, custodyOwner, f.tokenOwner(custody))
				return
			}
			after, err := f.l.Account(state.PublicKey)
			require.NoError(t, err)
			assert.Equal(t, before, after)
			assert.Equal(t, custodyOwner, f.tokenOwner(custody))
		})
	}
}

func TestInitEscrowTwice(t *testing.T) {
	f := newFixture(t, 1000000)
	custody := f.custody()
	state := f.initEscrow(custody, 1000)
	first := f.record(state)

	other := f.newTokenAccount(f.mintX, f.alice.PublicKey)
	err := f.deliver([]types.Account{f.funder, f.alice},
		escrow.NewInitEscrowInstruction(escrow.InitEscrowParam{
			ProgramID:   f.programID,
			Initializer: f.alice.PublicKey,
			Custody:     other,
			Receiving:   f.aliceY,
			Escrow:      state,
			Amount:      5,
		}),
	)
	assert.True(t, errors.ErrAccountAlreadyInitialized.Is(err), "%+v", err)
	assert.Equal(t, first, f.record(state))
}

func TestExchangeGuards(t *testing.T) {
	cases := map[string]struct {
		tamper   func(f *fixture, p *escrow.ExchangeParam)
		wantCode uint32
	}{
		"custody holds a different amount": {
			tamper:   func(f *fixture, p *escrow.ExchangeParam) { p.Amount = 500 },
			wantCode: escrow.ErrExpectedAmountMismatch.ABCICode(),
		},
		"custody account not the escrowed one": {
			tamper: func(f *fixture, p *escrow.ExchangeParam) {
				fake := f.newTokenAccount(f.mintX, f.bob.PublicKey)
				require.NoError(f.t, f.deliver([]types.Account{f.funder},
					swaptest.MintTo(f.mintX, fake, f.funder.PublicKey, deposit)))
				p.Custody = fake
			},
			wantCode: errors.ErrInvalidAccountData.ABCICode(),
		},
		"initializer not the escrowed one": {
			tamper:   func(f *fixture, p *escrow.ExchangeParam) { p.InitializerMain = swaptest.NewPubKey() },
			wantCode: errors.ErrInvalidAccountData.ABCICode(),
		},
		"initializer receiving not the escrowed one": {
			tamper: func(f *fixture, p *escrow.ExchangeParam) {
				p.InitializerReceiving = f.newTokenAccount(f.mintY, f.alice.PublicKey)
			},
			wantCode: errors.ErrInvalidAccountData.ABCICode(),
		},
		"taker cannot pay": {
			tamper: func(f *fixture, p *escrow.ExchangeParam) {
				require.NoError(f.t, f.deliver([]types.Account{f.funder, f.bob},
					swaptest.Transfer(f.bobY, f.aliceY, f.bob.PublicKey, bobFunds-999)))
			},
			wantCode: token.ErrInsufficientFunds.ABCICode(),
		},
		"taker receiving account of the wrong mint": {
			tamper: func(f *fixture, p *escrow.ExchangeParam) {
				p.TakerReceiving = f.newTokenAccount(f.mintY, f.bob.PublicKey)
			},
			wantCode: token.ErrMintMismatch.ABCICode(),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, 1000000)
			custody := f.custody()
			state := f.initEscrow(custody, 1000)

			p := f.exchangeParam(custody, state, deposit)
			tc.tamper(f, &p)

			bobX, bobY, aliceY := f.tokens(f.bobX), f.tokens(f.bobY), f.tokens(f.aliceY)
			aliceLamports := f.lamports(f.alice.PublicKey)

			ins, err := escrow.NewExchangeInstruction(p)
			require.NoError(t, err)
			res := f.l.DeliverTx(f.l.Context(), swaptest.Tx(t, []types.Account{f.bob}, ins))
			assert.Equal(t, tc.wantCode, res.Code, res.Log)

			// nothing moved
			assert.Equal(t, bobX, f.tokens(f.bobX))
			assert.Equal(t, bobY, f.tokens(f.bobY))
			assert.Equal(t, aliceY, f.tokens(f.aliceY))
			assert.Equal(t, uint64(deposit), f.tokens(custody))
			assert.Equal(t, aliceLamports, f.lamports(f.alice.PublicKey))
			assert.True(t, f.record(state).IsInitialized())
		})
	}
}

func TestExchangeRequiresTakerSignature(t *testing.T) {
	f := newFixture(t, 1000000)
	custody := f.custody()
	state := f.initEscrow(custody, 1000)

	ins, err := escrow.NewExchangeInstruction(f.exchangeParam(custody, state, deposit))
	require.NoError(t, err)
	ins.Accounts[0].IsSigner = false
	err = f.deliver([]types.Account{f.funder}, ins)
	assert.True(t, errors.ErrMissingSignature.Is(err), "%+v", err)
	assert.Equal(t, uint64(deposit), f.tokens(custody))
}

func TestExchangeRequiresCustodyAuthority(t *testing.T) {
	f := newFixture(t, 1000000)
	custody := f.custody()
	state := f.initEscrow(custody, 1000)

	ins, err := escrow.NewExchangeInstruction(f.exchangeParam(custody, state, deposit))
	require.NoError(t, err)
	ins.Accounts[8].PubKey = swaptest.NewPubKey()
	err = f.deliver([]types.Account{f.bob}, ins)
	assert.True(t, errors.ErrInvalidAccountData.Is(err), "%+v", err)
}

func TestExchangeSweepOverflow(t *testing.T) {
	rent := tokenswap.DefaultRent()
	custodyRent := rent.MinimumBalance(token.AccountLen)
	escrowRent := rent.MinimumBalance(escrow.Len)

	// crediting the custody deposit still fits, the escrow deposit does not
	f := newFixture(t, math.MaxUint64-custodyRent-escrowRent+1)
	custody := f.custody()
	state := f.initEscrow(custody, 1000)

	err := f.exchange(f.exchangeParam(custody, state, deposit))
	assert.True(t, escrow.ErrAmountOverflow.Is(err), "%+v", err)
	assert.Equal(t, uint64(deposit), f.tokens(custody))
	assert.Equal(t, uint64(0), f.tokens(f.aliceY))
	assert.True(t, f.record(state).IsInitialized())
}

func TestProcessRejectsShortAccountList(t *testing.T) {
	err := escrow.Process(context.Background(), nil, swaptest.NewPubKey(), nil, escrow.InitEscrow{Amount: 1}.Pack())
	assert.True(t, errors.ErrNotEnoughAccountKeys.Is(err), "%+v", err)

	err = escrow.Process(context.Background(), nil, swaptest.NewPubKey(), nil, []byte{7})
	assert.True(t, escrow.ErrInvalidInstruction.Is(err), "%+v", err)
}
