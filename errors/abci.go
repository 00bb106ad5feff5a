package errors

import (
	"errors"
	"fmt"
)

// SuccessABCICode is the result code of a transaction that went through.
const SuccessABCICode = 0

// Errors that do not carry a code are reported under code 1 and, outside
// of debug mode, with a fixed message. Their text may describe the host
// instead of the transaction.
const (
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo translates err into the result code and log of a transaction.
// In debug mode the log is the full %+v rendering, stack trace included.
func ABCIInfo(err error, debug bool) (uint32, string) {
	code := abciCode(err)
	switch {
	case code == SuccessABCICode:
		return code, ""
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError rebuilds an error from a transaction result. Unknown codes
// come back as the internal error.
func ABCIError(code uint32, log string) error {
	root, ok := usedCodes[code]
	if !ok {
		root = usedCodes[internalABCICode]
	}
	return Wrap(root, log)
}

// abciCode walks the cause chain until it finds an error that knows its
// code.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}
	for err != nil {
		if c, ok := err.(interface{ ABCICode() uint32 }); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}

// Redact hides errors that were not raised by the ledger or one of its
// programs, together with recovered panics. Debug mode returns err as is.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
