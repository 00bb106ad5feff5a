package escrow

import "github.com/iov-one/tokenswap/errors"

// Escrow errors take codes 1000-1099.
var (
	ErrInvalidInstruction     = errors.Register(1000, "invalid instruction")
	ErrNotRentExempt          = errors.Register(1001, "not rent exempt")
	ErrExpectedAmountMismatch = errors.Register(1002, "expected amount mismatch")
	ErrAmountOverflow         = errors.Register(1003, "amount overflow")
)

// Errors is the complete set of failures reported by the escrow program
// itself. Failures of the token ledger sub-operations are returned
// unchanged and are not listed here.
var Errors = []*errors.Error{
	ErrInvalidInstruction,
	errors.ErrMissingSignature,
	errors.ErrIncorrectProgramID,
	ErrNotRentExempt,
	errors.ErrAccountAlreadyInitialized,
	errors.ErrInvalidAccountData,
	ErrExpectedAmountMismatch,
	ErrAmountOverflow,
	errors.ErrNotEnoughAccountKeys,
}
