package app

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/x/system"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/mr-tron/base58"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger keeps accounts in a versioned store and executes transactions
// against them.
//
// Every transaction is executed in its own cache wrap. Either all changes
// of all its instructions, including nested program calls, are written or
// none of them is.
type Ledger struct {
	logger log.Logger

	// committed tree plus the deliver and check caches
	state *ledgerState

	router   *Router
	maxDepth int

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID string

	// debug controls how much error information DeliverTx exposes
	debug bool
}

// NewLedger loads the latest state from the store. The system program and
// the token ledger are registered under their well known identities.
func NewLedger(kv tokenswap.CommitKVStore) (*Ledger, error) {
	state, err := openLedgerState(kv)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(state.deliverState())
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		logger:   log.NewNopLogger(),
		state:    state,
		router:   NewRouter(),
		maxDepth: DefaultMaxDepth,
		chainID:  chainID,
	}
	l.Register(common.SystemProgramID, system.Program)
	l.Register(common.TokenProgramID, token.Program)
	return l, nil
}

// WithLogger sets the logger on the Ledger and returns it,
// to make it easy to chain in initialization
func (l *Ledger) WithLogger(logger log.Logger) *Ledger {
	l.logger = logger
	return l
}

// WithDebug controls whether DeliverTx returns full error details.
func (l *Ledger) WithDebug(debug bool) *Ledger {
	l.debug = debug
	return l
}

// Register makes a program executable under given identity.
func (l *Ledger) Register(id common.PublicKey, p tokenswap.Program) {
	l.router.Register(id, p)
}

// ChainID returns the chain id set by the genesis, or an empty string
// before InitChain.
func (l *Ledger) ChainID() string {
	return l.chainID
}

// Context returns a context carrying the ledger logger, chain id and the
// last committed version.
func (l *Ledger) Context() context.Context {
	ctx := tokenswap.WithLogger(context.Background(), l.logger)
	if l.chainID != "" {
		ctx = tokenswap.WithChainID(ctx, l.chainID)
	}
	if id, err := l.state.version(); err == nil {
		ctx = tokenswap.WithHeight(ctx, id.Version)
	}
	return ctx
}

// InitChain loads the genesis. It can be called only once in the lifetime
// of a ledger.
func (l *Ledger) InitChain(gen Genesis) error {
	if l.chainID != "" {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "genesis previously loaded for chain: %s", l.chainID)
	}

	cache := l.state.deliverState().CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	rent, err := initState(gen.AppOptions, cache)
	if err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	l.state.checkGenesis()

	l.chainID = gen.ChainID
	l.logger.Info("Genesis loaded",
		"chain_id", gen.ChainID,
		"lamports_per_byte_year", rent.LamportsPerByteYear,
		"exemption_threshold", rent.ExemptionThreshold)
	return nil
}

// Deliver executes the transaction and keeps its changes until the next
// Commit.
func (l *Ledger) Deliver(ctx context.Context, tx types.Transaction) (*tokenswap.DeliverResult, error) {
	res, err := l.execute(ctx, l.state.deliverState(), tx)
	if err != nil {
		l.logger.Debug("Tx failed", "err", err)
		return nil, err
	}
	l.logger.Info("Tx delivered",
		"signature", base58.Encode(res.Signature),
		"calls", res.Calls,
		"accounts", len(res.Tags))
	return res, nil
}

// DeliverTx is Deliver with the result in its abci form.
func (l *Ledger) DeliverTx(ctx context.Context, tx types.Transaction) abci.ResponseDeliverTx {
	res, err := l.Deliver(ctx, tx)
	return tokenswap.DeliverOrError(res, err, l.debug)
}

// Check executes the transaction against the check state. Changes are
// visible to further checks only and are dropped on Commit.
func (l *Ledger) Check(ctx context.Context, tx types.Transaction) (*tokenswap.DeliverResult, error) {
	return l.execute(ctx, l.state.checkState(), tx)
}

// Commit persists all delivered transactions as a new version.
func (l *Ledger) Commit() (tokenswap.CommitID, error) {
	id, err := l.state.commit()
	if err != nil {
		return id, err
	}
	l.logger.Debug("Commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash),
	)
	return id, nil
}

// CommitInfo returns the last committed version.
func (l *Ledger) CommitInfo() (tokenswap.CommitID, error) {
	return l.state.version()
}

// Account returns the current state of an account. Accounts that were
// never funded are returned empty and owned by the system program.
func (l *Ledger) Account(key common.PublicKey) (*tokenswap.Account, error) {
	return l.loadAccount(l.state.deliverState(), key)
}

// Balance returns the lamports held by an account.
func (l *Ledger) Balance(key common.PublicKey) (uint64, error) {
	acc, err := l.Account(key)
	if err != nil {
		return 0, err
	}
	return acc.Lamports, nil
}

// Rent returns the rent sysvar.
func (l *Ledger) Rent() (tokenswap.Rent, error) {
	acc, err := l.Account(common.SysVarRentPubkey)
	if err != nil {
		return tokenswap.Rent{}, err
	}
	return tokenswap.RentFromAccount(&tokenswap.AccountInfo{Key: common.SysVarRentPubkey, Account: acc})
}

func (l *Ledger) loadAccount(kv tokenswap.ReadOnlyKVStore, key common.PublicKey) (*tokenswap.Account, error) {
	acc, err := getAccount(kv, key)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		return acc, nil
	}
	if l.router.Has(key) {
		return &tokenswap.Account{Owner: tokenswap.NativeLoaderID, Executable: true}, nil
	}
	return tokenswap.NewAccount(0, 0, common.SystemProgramID), nil
}

func (l *Ledger) execute(ctx context.Context, kv tokenswap.CacheableKVStore, tx types.Transaction) (*tokenswap.DeliverResult, error) {
	if err := verifySignatures(tx); err != nil {
		return nil, err
	}
	metas := accountMetas(tx.Message)

	cache := kv.CacheWrap()
	db := store.NewRecordingStore(cache)

	loaded := make(map[common.PublicKey]*tokenswap.Account, len(metas))
	orig := make(map[common.PublicKey]*tokenswap.Account, len(metas))
	for _, m := range metas {
		acc, err := l.loadAccount(cache, m.PubKey)
		if err != nil {
			cache.Discard()
			return nil, err
		}
		loaded[m.PubKey] = acc
		orig[m.PubKey] = acc.Clone()
	}

	exec := &executor{router: l.router, maxDepth: l.maxDepth}
	for i, ci := range tx.Message.Instructions {
		programID, infos, err := instructionAccounts(metas, loaded, ci)
		if err == nil {
			err = exec.execute(ctx, programID, infos, ci.Data)
		}
		if err != nil {
			cache.Discard()
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
	}

	for _, m := range metas {
		acc := loaded[m.PubKey]
		if !m.IsWritable || acc.Equal(orig[m.PubKey]) {
			continue
		}
		var err error
		if acc.Lamports == 0 {
			err = deleteAccount(db, m.PubKey)
		} else {
			err = saveAccount(db, m.PubKey, acc)
		}
		if err != nil {
			cache.Discard()
			return nil, err
		}
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	return &tokenswap.DeliverResult{
		Signature: tx.Signatures[0],
		Log:       fmt.Sprintf("%d instructions", len(tx.Message.Instructions)),
		Tags:      accountTags(db.Tags()),
		Calls:     exec.calls,
	}, nil
}
