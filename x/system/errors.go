package system

import "github.com/iov-one/tokenswap/errors"

// System program errors take codes 1200-1299.
var (
	ErrAccountInUse         = errors.Register(1200, "account already in use")
	ErrInsufficientLamports = errors.Register(1201, "insufficient lamports")
	ErrInvalidSpace         = errors.Register(1202, "invalid account data length")
	ErrInvalidInstruction   = errors.Register(1203, "invalid instruction")
	ErrFromHasData          = errors.Register(1204, "from account must not carry data")
)
