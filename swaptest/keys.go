package swaptest

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

// NewKey returns a new random signing key.
func NewKey() types.Account {
	return types.NewAccount()
}

// NewPubKey returns a random identity nobody holds the key for.
func NewPubKey() common.PublicKey {
	return types.NewAccount().PublicKey
}
