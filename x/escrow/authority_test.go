package escrow

import (
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCustodyAuthority(t *testing.T) {
	programID := types.NewAccount().PublicKey

	authority, bump, err := FindCustodyAuthority(programID)
	require.NoError(t, err)

	// derivation is reproducible without storing anything
	again, againBump, err := FindCustodyAuthority(programID)
	require.NoError(t, err)
	assert.Equal(t, authority, again)
	assert.Equal(t, bump, againBump)

	// the signer seeds recreate the same address
	derived, err := common.CreateProgramAddress(CustodySignerSeeds(bump), programID)
	require.NoError(t, err)
	assert.Equal(t, authority, derived)

	// every program gets its own authority
	other, _, err := FindCustodyAuthority(types.NewAccount().PublicKey)
	require.NoError(t, err)
	assert.NotEqual(t, authority, other)
}
