package token

import (
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/swaptest/assert"
)

func TestAccountLayout(t *testing.T) {
	closer := types.NewAccount().PublicKey
	acc := Account{
		Mint:   types.NewAccount().PublicKey,
		Owner:  types.NewAccount().PublicKey,
		Amount: 1234,
		State:  AccountStateInitialized,
	}
	acc.CloseAuthorityOption, acc.CloseAuthority = option(&closer)

	raw := make([]byte, AccountLen)
	assert.Nil(t, acc.PackInto(raw))
	// amount follows the mint and the owner
	assert.Equal(t, byte(1234&0xff), raw[64])
	// state follows the delegate option
	assert.Equal(t, byte(AccountStateInitialized), raw[108])

	got, err := UnpackAccount(raw)
	assert.Nil(t, err)
	assert.Equal(t, &acc, got)
	assert.Equal(t, closer, got.CloseAuthorityKey())
}

func TestUnpackAccountRejects(t *testing.T) {
	valid := make([]byte, AccountLen)
	(&Account{State: AccountStateInitialized}).PackInto(valid)

	badState := append([]byte(nil), valid...)
	badState[108] = 3

	badOption := append([]byte(nil), valid...)
	badOption[72] = 2

	cases := map[string]struct {
		data    []byte
		wantErr *errors.Error
	}{
		"valid":        {data: valid, wantErr: nil},
		"too short":    {data: valid[:AccountLen-1], wantErr: errors.ErrInvalidAccountData},
		"too long":     {data: append(valid, 0), wantErr: errors.ErrInvalidAccountData},
		"bad state":    {data: badState, wantErr: errors.ErrInvalidAccountData},
		"bad delegate": {data: badOption, wantErr: errors.ErrInvalidAccountData},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := UnpackAccount(tc.data)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestMintLayout(t *testing.T) {
	auth := types.NewAccount().PublicKey
	mint := Mint{Supply: 77, Decimals: 6, IsInitialized: true}
	mint.MintAuthorityOption, mint.MintAuthority = option(&auth)

	raw := make([]byte, MintLen)
	assert.Nil(t, mint.PackInto(raw))
	assert.Equal(t, byte(1), raw[0])
	assert.Equal(t, byte(6), raw[44])
	assert.Equal(t, byte(1), raw[45])

	got, err := UnpackMint(raw)
	assert.Nil(t, err)
	assert.Equal(t, &mint, got)

	raw[45] = 2
	_, err = UnpackMint(raw)
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
}
