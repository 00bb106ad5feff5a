package tokenswap

import (
	"fmt"

	"github.com/iov-one/tokenswap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult describes a committed transaction.
type DeliverResult struct {
	// Signature is the first transaction signature, it identifies the
	// transaction.
	Signature []byte
	// Log is human-readable informational string
	Log string
	// Tags list the accounts modified by the transaction
	Tags []common.KVPair
	// Calls is the number of program invocations, including cross program
	// calls.
	Calls int64
}

// ToABCI converts the result into its abci form. The signature is carried
// as response data and the number of calls as gas.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Signature,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.Calls,
	}
}

// DeliverOrError returns the abci form of a result, or of the error if
// delivery failed.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// ParseDeliverOrError is the inverse of DeliverOrError. A failed response
// is returned as an error carrying the registered code.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{
		Signature: res.Data,
		Log:       res.Log,
		Tags:      res.Tags,
		Calls:     res.GasUsed,
	}, nil
}

// DeliverTxError converts any error into a abci.ResponseDeliverTx. Unless
// debug is set, details of unregistered errors are hidden.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = fmt.Sprintf("cannot deliver tx: %s", log)
	}
	return abci.ResponseDeliverTx{
		Code: code,
		Log:  log,
	}
}
