package token

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Program is the token ledger ready to be registered with a ledger under
// common.TokenProgramID.
var Program tokenswap.Program = tokenswap.ProgramFunc(Process)

// Process executes a single token ledger instruction.
func Process(ctx context.Context, _ tokenswap.Invoker, programID common.PublicKey, accounts []*tokenswap.AccountInfo, data []byte) error {
	ins, err := Unpack(data)
	if err != nil {
		return err
	}
	tokenswap.GetLogger(ctx).Debug("token", "instruction", ins.Name())

	switch ins := ins.(type) {
	case *InitializeMint:
		return processInitializeMint(programID, accounts, ins)
	case *InitializeAccount:
		return processInitializeAccount(programID, accounts)
	case *Transfer:
		return processTransfer(programID, accounts, ins.Amount)
	case *SetAuthority:
		return processSetAuthority(programID, accounts, ins)
	case *MintTo:
		return processMintTo(programID, accounts, ins.Amount)
	case *CloseAccount:
		return processCloseAccount(programID, accounts)
	default:
		return errors.Wrapf(ErrInvalidInstruction, "%T", ins)
	}
}

func processInitializeMint(programID common.PublicKey, accounts []*tokenswap.AccountInfo, ins *InitializeMint) error {
	if err := requireAccounts(accounts, 2); err != nil {
		return err
	}
	mintInfo, rentInfo := accounts[0], accounts[1]
	if mintInfo.Owner != programID {
		return errors.Wrap(errors.ErrIncorrectProgramID, "mint")
	}
	mint, err := UnpackMint(mintInfo.Data)
	if err != nil {
		return err
	}
	if mint.IsInitialized {
		return ErrAlreadyInUse
	}
	if err := requireRentExempt(mintInfo, rentInfo); err != nil {
		return err
	}

	mint.MintAuthorityOption, mint.MintAuthority = option(&ins.MintAuthority)
	mint.FreezeAuthorityOption, mint.FreezeAuthority = optionNone, common.PublicKey{}
	if ins.FreezeAuthorityOption {
		mint.FreezeAuthorityOption, mint.FreezeAuthority = option(&ins.FreezeAuthority)
	}
	mint.Decimals = ins.Decimals
	mint.IsInitialized = true
	return mint.PackInto(mintInfo.Data)
}

func processInitializeAccount(programID common.PublicKey, accounts []*tokenswap.AccountInfo) error {
	if err := requireAccounts(accounts, 4); err != nil {
		return err
	}
	accInfo, mintInfo, ownerInfo, rentInfo := accounts[0], accounts[1], accounts[2], accounts[3]
	if accInfo.Owner != programID {
		return errors.Wrap(errors.ErrIncorrectProgramID, "token account")
	}
	acc, err := UnpackAccount(accInfo.Data)
	if err != nil {
		return err
	}
	if acc.IsInitialized() {
		return ErrAlreadyInUse
	}
	if err := requireRentExempt(accInfo, rentInfo); err != nil {
		return err
	}
	if mintInfo.Owner != programID {
		return errors.Wrap(ErrInvalidMint, "not a token mint")
	}
	mint, err := UnpackMint(mintInfo.Data)
	if err != nil || !mint.IsInitialized {
		return errors.Wrap(ErrInvalidMint, "uninitialized")
	}

	*acc = Account{
		Mint:  mintInfo.Key,
		Owner: ownerInfo.Key,
		State: AccountStateInitialized,
	}
	return acc.PackInto(accInfo.Data)
}

func processTransfer(programID common.PublicKey, accounts []*tokenswap.AccountInfo, amount uint64) error {
	if err := requireAccounts(accounts, 3); err != nil {
		return err
	}
	srcInfo, dstInfo, authInfo := accounts[0], accounts[1], accounts[2]
	src, err := loadAccount(programID, srcInfo)
	if err != nil {
		return err
	}
	dst, err := loadAccount(programID, dstInfo)
	if err != nil {
		return err
	}
	if src.IsFrozen() || dst.IsFrozen() {
		return ErrAccountFrozen
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if src.Amount < amount {
		return errors.Wrapf(ErrInsufficientFunds, "balance %d, want %d", src.Amount, amount)
	}
	if err := validateOwner(src.Owner, authInfo); err != nil {
		return err
	}

	// Both views decode the same data region, writing them one after
	// another would credit the amount out of thin air.
	if srcInfo.Key == dstInfo.Key {
		return nil
	}

	src.Amount -= amount
	total, ok := tokenswap.CheckedAdd(dst.Amount, amount)
	if !ok {
		return ErrOverflow
	}
	dst.Amount = total

	if err := src.PackInto(srcInfo.Data); err != nil {
		return err
	}
	return dst.PackInto(dstInfo.Data)
}

func processSetAuthority(programID common.PublicKey, accounts []*tokenswap.AccountInfo, ins *SetAuthority) error {
	if err := requireAccounts(accounts, 2); err != nil {
		return err
	}
	info, authInfo := accounts[0], accounts[1]
	if info.Owner != programID {
		return errors.Wrap(errors.ErrIncorrectProgramID, "set authority")
	}

	switch info.DataLen() {
	case AccountLen:
		acc, err := loadAccount(programID, info)
		if err != nil {
			return err
		}
		if acc.IsFrozen() {
			return ErrAccountFrozen
		}
		switch ins.AuthorityType {
		case AuthorityAccountOwner:
			if err := validateOwner(acc.Owner, authInfo); err != nil {
				return err
			}
			owner := ins.newAuthority()
			if owner == nil {
				return errors.Wrap(ErrInvalidInstruction, "account owner is required")
			}
			acc.Owner = *owner
			acc.DelegateOption, acc.Delegate = optionNone, common.PublicKey{}
			acc.DelegatedAmount = 0
		case AuthorityCloseAccount:
			if err := validateOwner(acc.CloseAuthorityKey(), authInfo); err != nil {
				return err
			}
			acc.CloseAuthorityOption, acc.CloseAuthority = option(ins.newAuthority())
		default:
			return ErrAuthorityTypeNotSupported
		}
		return acc.PackInto(info.Data)

	case MintLen:
		mint, err := loadMint(programID, info)
		if err != nil {
			return err
		}
		switch ins.AuthorityType {
		case AuthorityMintTokens:
			if mint.MintAuthorityOption == optionNone {
				return ErrFixedSupply
			}
			if err := validateOwner(mint.MintAuthority, authInfo); err != nil {
				return err
			}
			mint.MintAuthorityOption, mint.MintAuthority = option(ins.newAuthority())
		case AuthorityFreezeAccount:
			if mint.FreezeAuthorityOption == optionNone {
				return ErrMintCannotFreeze
			}
			if err := validateOwner(mint.FreezeAuthority, authInfo); err != nil {
				return err
			}
			mint.FreezeAuthorityOption, mint.FreezeAuthority = option(ins.newAuthority())
		default:
			return ErrAuthorityTypeNotSupported
		}
		return mint.PackInto(info.Data)

	default:
		return errors.Wrapf(errors.ErrInvalidAccountData, "data of %d bytes", info.DataLen())
	}
}

func processMintTo(programID common.PublicKey, accounts []*tokenswap.AccountInfo, amount uint64) error {
	if err := requireAccounts(accounts, 3); err != nil {
		return err
	}
	mintInfo, dstInfo, authInfo := accounts[0], accounts[1], accounts[2]
	dst, err := loadAccount(programID, dstInfo)
	if err != nil {
		return err
	}
	if dst.IsFrozen() {
		return ErrAccountFrozen
	}
	if dst.Mint != mintInfo.Key {
		return ErrMintMismatch
	}
	mint, err := loadMint(programID, mintInfo)
	if err != nil {
		return err
	}
	if mint.MintAuthorityOption == optionNone {
		return ErrFixedSupply
	}
	if err := validateOwner(mint.MintAuthority, authInfo); err != nil {
		return err
	}

	supply, ok := tokenswap.CheckedAdd(mint.Supply, amount)
	if !ok {
		return ErrOverflow
	}
	balance, ok := tokenswap.CheckedAdd(dst.Amount, amount)
	if !ok {
		return ErrOverflow
	}
	mint.Supply, dst.Amount = supply, balance

	if err := dst.PackInto(dstInfo.Data); err != nil {
		return err
	}
	return mint.PackInto(mintInfo.Data)
}

func processCloseAccount(programID common.PublicKey, accounts []*tokenswap.AccountInfo) error {
	if err := requireAccounts(accounts, 3); err != nil {
		return err
	}
	accInfo, dstInfo, authInfo := accounts[0], accounts[1], accounts[2]
	if accInfo.Key == dstInfo.Key {
		return errors.Wrap(errors.ErrInvalidAccountData, "cannot close into itself")
	}
	acc, err := loadAccount(programID, accInfo)
	if err != nil {
		return err
	}
	if acc.Amount != 0 {
		return ErrNonNativeHasBalance
	}
	if err := validateOwner(acc.CloseAuthorityKey(), authInfo); err != nil {
		return err
	}

	total, ok := tokenswap.CheckedAdd(dstInfo.Lamports, accInfo.Lamports)
	if !ok {
		return ErrOverflow
	}
	dstInfo.Lamports = total
	accInfo.Lamports = 0
	for i := range accInfo.Data {
		accInfo.Data[i] = 0
	}
	return nil
}

// loadAccount returns the initialized token account stored in info.
func loadAccount(programID common.PublicKey, info *tokenswap.AccountInfo) (*Account, error) {
	if info.Owner != programID {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "token account %s", info.Key.ToBase58())
	}
	acc, err := UnpackAccount(info.Data)
	if err != nil {
		return nil, err
	}
	if !acc.IsInitialized() {
		return nil, errors.Wrapf(ErrUninitializedState, "token account %s", info.Key.ToBase58())
	}
	return acc, nil
}

// loadMint returns the initialized mint stored in info.
func loadMint(programID common.PublicKey, info *tokenswap.AccountInfo) (*Mint, error) {
	if info.Owner != programID {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "mint %s", info.Key.ToBase58())
	}
	mint, err := UnpackMint(info.Data)
	if err != nil {
		return nil, err
	}
	if !mint.IsInitialized {
		return nil, errors.Wrapf(ErrUninitializedState, "mint %s", info.Key.ToBase58())
	}
	return mint, nil
}

// validateOwner ensures the authority account is the expected key and
// signed the transaction.
func validateOwner(expected common.PublicKey, authority *tokenswap.AccountInfo) error {
	if authority.Key != expected {
		return errors.Wrapf(ErrOwnerMismatch, "want %s, got %s", expected.ToBase58(), authority.Key.ToBase58())
	}
	if !authority.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "authority %s", authority.Key.ToBase58())
	}
	return nil
}

func requireRentExempt(info, rentInfo *tokenswap.AccountInfo) error {
	rent, err := tokenswap.RentFromAccount(rentInfo)
	if err != nil {
		return err
	}
	if !rent.IsExempt(info.Lamports, info.DataLen()) {
		return errors.Wrapf(ErrNotRentExempt, "%d lamports", info.Lamports)
	}
	return nil
}

func requireAccounts(accounts []*tokenswap.AccountInfo, n int) error {
	if len(accounts) < n {
		return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "want %d, got %d", n, len(accounts))
	}
	return nil
}
