package app

import (
	"bytes"
	"context"
	"math/bits"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// DefaultMaxDepth limits how deep cross program calls can be nested. The
// top level instruction counts as the first level.
const DefaultMaxDepth = 4

// executor runs the instructions of a single transaction.
type executor struct {
	router   *Router
	maxDepth int
	depth    int
	// calls counts every program invocation
	calls int64
}

// execute runs the program as a new frame and validates the changes it
// made to its accounts once it returns.
func (e *executor) execute(ctx context.Context, programID common.PublicKey, accounts []*tokenswap.AccountInfo, data []byte) error {
	if e.depth >= e.maxDepth {
		return errors.Wrapf(errors.ErrCallDepth, "calling %s", programID.ToBase58())
	}
	prog, err := e.router.Program(programID)
	if err != nil {
		return err
	}

	f := newFrame(programID, accounts)
	e.calls++
	e.depth++
	err = e.run(ctx, prog, f, data)
	e.depth--
	if err != nil {
		return err
	}
	return f.verify()
}

func (e *executor) run(ctx context.Context, prog tokenswap.Program, f *frame, data []byte) (err error) {
	defer errors.Recover(&err)
	return prog.Process(ctx, &invoker{exec: e, frame: f}, f.programID, f.accounts, data)
}

// frame is a single program invocation together with the state of its
// accounts at the time the program was last allowed to change them.
type frame struct {
	programID common.PublicKey
	accounts  []*tokenswap.AccountInfo
	pre       map[common.PublicKey]*tokenswap.Account
}

func newFrame(programID common.PublicKey, accounts []*tokenswap.AccountInfo) *frame {
	f := &frame{programID: programID, accounts: accounts}
	f.snapshot()
	return f
}

func (f *frame) snapshot() {
	f.pre = make(map[common.PublicKey]*tokenswap.Account, len(f.accounts))
	for _, a := range f.accounts {
		if _, ok := f.pre[a.Key]; !ok {
			f.pre[a.Key] = a.Account.Clone()
		}
	}
}

// privileges returns the strongest privileges any view of given key holds
// in this frame.
func (f *frame) privileges(key common.PublicKey) (signer, writable, found bool) {
	for _, a := range f.accounts {
		if a.Key == key {
			found = true
			signer = signer || a.IsSigner
			writable = writable || a.IsWritable
		}
	}
	return signer, writable, found
}

// verify ensures the program only made changes it is allowed to.
// Only the owner may debit an account, modify its data or assign it to
// another program. Read-only accounts and the executable flag never change.
// Lamports are neither created nor destroyed.
func (f *frame) verify() error {
	var preHi, preLo, postHi, postLo, carry uint64
	for key, pre := range f.pre {
		_, writable, _ := f.privileges(key)
		post := tokenswap.FindAccount(f.accounts, key).Account
		owned := pre.Owner == f.programID

		switch {
		case !writable && !post.Equal(pre):
			return errors.Wrapf(errors.ErrExternalAccountModified, "read-only account %s", key.ToBase58())
		case post.Executable != pre.Executable:
			return errors.Wrapf(errors.ErrExternalAccountModified, "executable flag of %s", key.ToBase58())
		case post.Owner != pre.Owner && !owned:
			return errors.Wrapf(errors.ErrExternalAccountModified, "owner of %s", key.ToBase58())
		case post.Lamports < pre.Lamports && !owned:
			return errors.Wrapf(errors.ErrExternalAccountModified, "debit of %s", key.ToBase58())
		case !bytes.Equal(post.Data, pre.Data) && !owned:
			return errors.Wrapf(errors.ErrExternalAccountModified, "data of %s", key.ToBase58())
		}

		preLo, carry = bits.Add64(preLo, pre.Lamports, 0)
		preHi += carry
		postLo, carry = bits.Add64(postLo, post.Lamports, 0)
		postHi += carry
	}
	if preHi != postHi || preLo != postLo {
		return errors.Wrapf(errors.ErrUnbalancedInstruction, "program %s", f.programID.ToBase58())
	}
	return nil
}

// invoker executes cross program calls on behalf of a frame.
type invoker struct {
	exec  *executor
	frame *frame
}

var _ tokenswap.Invoker = (*invoker)(nil)

func (iv *invoker) Invoke(ctx context.Context, ins types.Instruction, accounts []*tokenswap.AccountInfo) error {
	return iv.invoke(ctx, ins, accounts, nil)
}

func (iv *invoker) InvokeSigned(ctx context.Context, ins types.Instruction, accounts []*tokenswap.AccountInfo, signerSeeds ...[][]byte) error {
	return iv.invoke(ctx, ins, accounts, signerSeeds)
}

func (iv *invoker) invoke(ctx context.Context, ins types.Instruction, accounts []*tokenswap.AccountInfo, signerSeeds [][][]byte) error {
	caller := iv.frame

	derived := make(map[common.PublicKey]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		pda, err := common.CreateProgramAddress(seeds, caller.programID)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidArgument, "signer seeds: %s", err)
		}
		derived[pda] = true
	}

	for _, a := range accounts {
		if _, _, found := caller.privileges(a.Key); !found {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "account %s is not available to the caller", a.Key.ToBase58())
		}
	}
	program := tokenswap.FindAccount(accounts, ins.ProgramID)
	if program == nil {
		return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "program account %s", ins.ProgramID.ToBase58())
	}
	if !program.Executable {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "%s is not executable", ins.ProgramID.ToBase58())
	}

	callee := make([]*tokenswap.AccountInfo, 0, len(ins.Accounts))
	for _, m := range ins.Accounts {
		if tokenswap.FindAccount(accounts, m.PubKey) == nil {
			return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %s", m.PubKey.ToBase58())
		}
		signer, writable, _ := caller.privileges(m.PubKey)
		if m.IsSigner && !signer && !derived[m.PubKey] {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "signer %s", m.PubKey.ToBase58())
		}
		if m.IsWritable && !writable {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "writable %s", m.PubKey.ToBase58())
		}
		callee = append(callee, &tokenswap.AccountInfo{
			Key:        m.PubKey,
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
			Account:    tokenswap.FindAccount(caller.accounts, m.PubKey).Account,
		})
	}

	// Changes the caller made so far are checked now, and whatever the
	// callee changes is checked by its own frame.
	if err := caller.verify(); err != nil {
		return err
	}
	caller.snapshot()
	err := iv.exec.execute(ctx, ins.ProgramID, callee, ins.Data)
	caller.snapshot()
	return err
}
