package commands

import (
	"fmt"
	"io"

	sdksystem "github.com/blocto/solana-go-sdk/program/system"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store/iavl"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagDeposit  = "deposit"
	flagExpected = "expected"

	demoChainID  = "swapctl-demo"
	demoLamports = 1000000000000
	// demoBlockhash is never checked by the ledger.
	demoBlockhash = "EtWTRABZaYq6iMfeYKouRu166VU2xqa1wcaWoxPkrZBG"
)

// DemoCmd runs a complete escrow against a fresh ledger: alice deposits
// token X, bob pays token Y and receives the deposit.
// Ledger logs are written to logs.
func DemoCmd(v *viper.Viper, logs io.Writer) *cobra.Command {
	c := demoCmd{v: v, logs: logs}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an initialize and exchange scenario on a fresh ledger",
		RunE:  c.run,
	}
	cmd.Flags().Uint64(flagDeposit, 1000, "amount of token X alice deposits")
	cmd.Flags().Uint64(flagExpected, 1000, "amount of token Y alice expects")
	return cmd
}

type demoCmd struct {
	v    *viper.Viper
	logs io.Writer
}

func (c demoCmd) run(cmd *cobra.Command, args []string) error {
	conf, err := LoadConfig(c.v)
	if err != nil {
		return err
	}
	logger, err := NewLogger(c.logs, conf.LogLevel)
	if err != nil {
		return err
	}
	deposit, err := cmd.Flags().GetUint64(flagDeposit)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	expected, err := cmd.Flags().GetUint64(flagExpected)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}

	kv, err := openStore(conf.Home)
	if err != nil {
		return err
	}
	defer kv.Close()

	ledger, err := app.NewLedger(kv)
	if err != nil {
		return err
	}
	ledger.WithLogger(logger.With("module", "ledger")).WithDebug(conf.Debug)
	if id := ledger.ChainID(); id != "" {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "%s already holds chain %q", conf.Home, id)
	}

	programID := conf.ProgramID
	if programID == (common.PublicKey{}) {
		programID = types.NewAccount().PublicKey
	}
	ledger.Register(programID, escrow.Program)

	s := newScenario(ledger, conf.Rent, programID, cmd.OutOrStdout())
	return s.run(deposit, expected)
}

func openStore(home string) (*iavl.CommitStore, error) {
	if home == "" {
		return iavl.MockCommitStore(), nil
	}
	return iavl.NewCommitStore(home, "swapctl")
}

type scenario struct {
	ledger    *app.Ledger
	rent      tokenswap.Rent
	programID common.PublicKey
	out       io.Writer

	funder, alice, bob types.Account
	mintX, mintY       types.Account

	aliceX, aliceY, bobX, bobY types.Account
	custody, state             types.Account
}

func newScenario(ledger *app.Ledger, rent tokenswap.Rent, programID common.PublicKey, out io.Writer) *scenario {
	return &scenario{
		ledger:    ledger,
		rent:      rent,
		programID: programID,
		out:       out,
		funder:    types.NewAccount(),
		alice:     types.NewAccount(),
		bob:       types.NewAccount(),
		mintX:     types.NewAccount(),
		mintY:     types.NewAccount(),
		aliceX:    types.NewAccount(),
		aliceY:    types.NewAccount(),
		bobX:      types.NewAccount(),
		bobY:      types.NewAccount(),
		custody:   types.NewAccount(),
		state:     types.NewAccount(),
	}
}

func (s *scenario) run(deposit, expected uint64) error {
	gen, err := app.NewGenesis(demoChainID, s.rent,
		app.GenesisAccount{PubKey: tokenswap.Key(s.funder.PublicKey), Lamports: demoLamports},
		app.GenesisAccount{PubKey: tokenswap.Key(s.alice.PublicKey), Lamports: demoLamports},
		app.GenesisAccount{PubKey: tokenswap.Key(s.bob.PublicKey), Lamports: demoLamports},
	)
	if err != nil {
		return err
	}
	if err := s.ledger.InitChain(gen); err != nil {
		return err
	}
	authority, bump, err := escrow.FindCustodyAuthority(s.programID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "program %s, custody authority %s (bump %d)\n",
		s.programID.ToBase58(), authority.ToBase58(), bump)

	exchange, err := escrow.NewExchangeInstruction(escrow.ExchangeParam{
		ProgramID:            s.programID,
		Taker:                s.bob.PublicKey,
		TakerSending:         s.bobY.PublicKey,
		TakerReceiving:       s.bobX.PublicKey,
		Custody:              s.custody.PublicKey,
		InitializerMain:      s.alice.PublicKey,
		InitializerReceiving: s.aliceY.PublicKey,
		Escrow:               s.state.PublicKey,
		Amount:               deposit,
	})
	if err != nil {
		return err
	}

	setup := []struct {
		name    string
		signers []types.Account
		ins     []types.Instruction
	}{
		{
			name:    "create mints",
			signers: []types.Account{s.funder, s.mintX, s.mintY},
			ins:     concat(s.createMint(s.mintX), s.createMint(s.mintY)),
		},
		{
			name:    "create token accounts",
			signers: []types.Account{s.funder, s.aliceX, s.aliceY, s.bobX, s.bobY},
			ins: concat(
				s.createTokenAccount(s.aliceX, s.mintX, s.alice),
				s.createTokenAccount(s.aliceY, s.mintY, s.alice),
				s.createTokenAccount(s.bobX, s.mintX, s.bob),
				s.createTokenAccount(s.bobY, s.mintY, s.bob),
			),
		},
		{
			name:    "mint tokens",
			signers: []types.Account{s.funder},
			ins: []types.Instruction{
				s.mintTo(s.mintX, s.aliceX, deposit),
				s.mintTo(s.mintY, s.bobY, expected),
			},
		},
		{
			name:    "initialize escrow",
			signers: []types.Account{s.alice, s.custody, s.state},
			ins:     s.initialize(deposit, expected),
		},
	}
	for _, step := range setup {
		if err := s.deliver(step.name, step.signers, step.ins); err != nil {
			return err
		}
	}

	if err := s.printBalances("before exchange"); err != nil {
		return err
	}
	if err := s.deliver("exchange", []types.Account{s.bob}, []types.Instruction{exchange}); err != nil {
		return err
	}
	return s.printBalances("after exchange")
}

func (s *scenario) deliver(name string, signers []types.Account, ins []types.Instruction) error {
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        signers[0].PublicKey,
			RecentBlockhash: demoBlockhash,
			Instructions:    ins,
		}),
		Signers: signers,
	})
	if err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	res, err := s.ledger.Deliver(s.ledger.Context(), tx)
	if err != nil {
		return errors.Wrap(err, name)
	}
	id, err := s.ledger.Commit()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%-22s height=%d hash=%X calls=%d signature=%s\n",
		name, id.Version, id.Hash, res.Calls, base58.Encode(res.Signature))
	return nil
}

func (s *scenario) printBalances(title string) error {
	fmt.Fprintf(s.out, "%s:\n", title)
	for _, b := range []struct {
		name string
		key  common.PublicKey
	}{
		{"alice X", s.aliceX.PublicKey},
		{"alice Y", s.aliceY.PublicKey},
		{"bob X", s.bobX.PublicKey},
		{"bob Y", s.bobY.PublicKey},
		{"custody", s.custody.PublicKey},
	} {
		amount, err := s.tokens(b.key)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "  %-8s %d\n", b.name, amount)
	}
	for _, b := range []struct {
		name string
		key  common.PublicKey
	}{
		{"alice", s.alice.PublicKey},
		{"escrow", s.state.PublicKey},
	} {
		lamports, err := s.ledger.Balance(b.key)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "  %-8s %d lamports\n", b.name, lamports)
	}
	return nil
}

// tokens returns the token balance of an account, zero if the account is
// not a token account.
func (s *scenario) tokens(key common.PublicKey) (uint64, error) {
	acc, err := s.ledger.Account(key)
	if err != nil {
		return 0, err
	}
	if acc.Owner != common.TokenProgramID || len(acc.Data) != token.AccountLen {
		return 0, nil
	}
	state, err := token.UnpackAccount(acc.Data)
	if err != nil {
		return 0, err
	}
	return state.Amount, nil
}

func (s *scenario) createMint(mint types.Account) []types.Instruction {
	return []types.Instruction{
		sdksystem.CreateAccount(sdksystem.CreateAccountParam{
			From:     s.funder.PublicKey,
			New:      mint.PublicKey,
			Owner:    common.TokenProgramID,
			Lamports: s.rent.MinimumBalance(token.MintLen),
			Space:    token.MintLen,
		}),
		sdktoken.InitializeMint(sdktoken.InitializeMintParam{
			Mint:     mint.PublicKey,
			MintAuth: s.funder.PublicKey,
		}),
	}
}

func (s *scenario) createTokenAccount(acc, mint, owner types.Account) []types.Instruction {
	return []types.Instruction{
		sdksystem.CreateAccount(sdksystem.CreateAccountParam{
			From:     s.funder.PublicKey,
			New:      acc.PublicKey,
			Owner:    common.TokenProgramID,
			Lamports: s.rent.MinimumBalance(token.AccountLen),
			Space:    token.AccountLen,
		}),
		sdktoken.InitializeAccount(sdktoken.InitializeAccountParam{
			Account: acc.PublicKey,
			Mint:    mint.PublicKey,
			Owner:   owner.PublicKey,
		}),
	}
}

func (s *scenario) mintTo(mint, to types.Account, amount uint64) types.Instruction {
	return sdktoken.MintTo(sdktoken.MintToParam{
		Mint:   mint.PublicKey,
		To:     to.PublicKey,
		Auth:   s.funder.PublicKey,
		Amount: amount,
	})
}

// initialize moves the deposit into a fresh custody account and hands it
// over to the escrow program. Alice pays for both new accounts.
func (s *scenario) initialize(deposit, expected uint64) []types.Instruction {
	return []types.Instruction{
		sdksystem.CreateAccount(sdksystem.CreateAccountParam{
			From:     s.alice.PublicKey,
			New:      s.custody.PublicKey,
			Owner:    common.TokenProgramID,
			Lamports: s.rent.MinimumBalance(token.AccountLen),
			Space:    token.AccountLen,
		}),
		sdktoken.InitializeAccount(sdktoken.InitializeAccountParam{
			Account: s.custody.PublicKey,
			Mint:    s.mintX.PublicKey,
			Owner:   s.alice.PublicKey,
		}),
		sdktoken.Transfer(sdktoken.TransferParam{
			From:   s.aliceX.PublicKey,
			To:     s.custody.PublicKey,
			Auth:   s.alice.PublicKey,
			Amount: deposit,
		}),
		sdksystem.CreateAccount(sdksystem.CreateAccountParam{
			From:     s.alice.PublicKey,
			New:      s.state.PublicKey,
			Owner:    s.programID,
			Lamports: s.rent.MinimumBalance(escrow.Len),
			Space:    escrow.Len,
		}),
		escrow.NewInitEscrowInstruction(escrow.InitEscrowParam{
			ProgramID:   s.programID,
			Initializer: s.alice.PublicKey,
			Custody:     s.custody.PublicKey,
			Receiving:   s.aliceY.PublicKey,
			Escrow:      s.state.PublicKey,
			Amount:      expected,
		}),
	}
}

func concat(lists ...[]types.Instruction) []types.Instruction {
	var all []types.Instruction
	for _, l := range lists {
		all = append(all, l...)
	}
	return all
}
