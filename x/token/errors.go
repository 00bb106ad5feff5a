package token

import "github.com/iov-one/tokenswap/errors"

// Token ledger errors take codes 1100-1199.
var (
	ErrNotRentExempt             = errors.Register(1100, "lamport balance below rent-exempt threshold")
	ErrInsufficientFunds         = errors.Register(1101, "insufficient token funds")
	ErrInvalidMint               = errors.Register(1102, "invalid mint")
	ErrMintMismatch              = errors.Register(1103, "account not associated with this mint")
	ErrOwnerMismatch             = errors.Register(1104, "owner does not match")
	ErrFixedSupply               = errors.Register(1105, "fixed supply")
	ErrAlreadyInUse              = errors.Register(1106, "account or token already in use")
	ErrUninitializedState        = errors.Register(1107, "state is uninitialized")
	ErrAccountFrozen             = errors.Register(1108, "account is frozen")
	ErrNonNativeHasBalance       = errors.Register(1109, "non-native account can only be closed if its balance is zero")
	ErrAuthorityTypeNotSupported = errors.Register(1110, "account does not support specified authority type")
	ErrOverflow                  = errors.Register(1111, "operation overflowed")
	ErrInvalidInstruction        = errors.Register(1112, "invalid instruction")
	ErrMintCannotFreeze          = errors.Register(1113, "mint cannot freeze accounts")
)
