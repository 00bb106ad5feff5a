package errors

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/pkg/errors"
)

// Ledger level root errors. Codes below 1000 are reserved for this package,
// programs register their own errors starting at 1000.
var (
	// ErrMissingSignature is returned when an account that must authorize
	// an operation did not sign the transaction.
	ErrMissingSignature = Register(2, "missing required signature")

	// ErrIncorrectProgramID is returned when an account is owned by, or
	// refers to, a program other than the expected one.
	ErrIncorrectProgramID = Register(4, "incorrect program id")

	// ErrInvalidAccountData is returned when account data cannot be decoded
	// or does not match the accounts supplied with an instruction.
	ErrInvalidAccountData = Register(5, "invalid account data")

	// ErrAccountAlreadyInitialized is returned when an instruction tries to
	// initialize state that is already in use.
	ErrAccountAlreadyInitialized = Register(6, "account already initialized")

	// ErrNotEnoughAccountKeys is returned when an instruction is given less
	// accounts than it requires.
	ErrNotEnoughAccountKeys = Register(8, "not enough account keys")

	// ErrInsufficientFunds is returned when a balance cannot cover an
	// operation.
	ErrInsufficientFunds = Register(9, "insufficient funds")

	// ErrInvalidArgument stands for general input problems.
	ErrInvalidArgument = Register(10, "invalid argument")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(12, "an operation cannot be completed due to value overflow")

	// ErrPrivilegeEscalation is returned when a cross program call asks for
	// a signer or writable privilege that the caller does not hold.
	ErrPrivilegeEscalation = Register(13, "privilege escalation")

	// ErrUnbalancedInstruction is returned when the sum of lamports changed
	// while processing an instruction.
	ErrUnbalancedInstruction = Register(14, "sum of account balances before and after instruction do not match")

	// ErrExternalAccountModified is returned when a program modified an
	// account it does not own, or a read-only account.
	ErrExternalAccountModified = Register(15, "instruction modified an account it does not own")

	// ErrDatabase is returned when the underlying store fails.
	ErrDatabase = Register(16, "database")

	// ErrCallDepth is returned when cross program calls are nested deeper
	// than the ledger allows.
	ErrCallDepth = Register(17, "cross program call depth exceeded")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// Register declares a root error under code. Programs call it from a
// package level var block with codes of their own range. A code can be
// registered once, a second attempt panics.
func Register(code uint32, description string) *Error {
	if prev, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error code %d already taken by %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// usedCodes maps every registered code to its root error. Code 1 stands
// for all errors that were not registered.
var usedCodes = map[uint32]*Error{
	internalABCICode: {code: internalABCICode, desc: internalABCILog},
}

// Registered returns all root errors ordered by code, including the
// internal error reserved under code 1.
func Registered() []*Error {
	all := make([]*Error, 0, len(usedCodes))
	for _, e := range usedCodes {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].code < all[j].code })
	return all
}

// Error is a root error. Errors returned at runtime wrap one of them, which
// gives the failure a stable code a client can match on.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the numeric code the host reports for this error.
func (e Error) ABCICode() uint32 {
	return e.code
}

// Is reports whether err is e or wraps e. A nil root matches nil errors
// only, typed nils included.
func (e *Error) Is(err error) bool {
	if e == nil {
		return errIsNil(err)
	}
	for err != nil {
		if err == e {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap adds description to err. The innermost wrap records the stack of
// its caller. Wrapping nil returns nil, so the result of a call can be
// wrapped without a check.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

// errIsNil also treats a nil pointer stored in the interface as nil.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
