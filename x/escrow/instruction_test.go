package escrow

import (
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackInstruction(t *testing.T) {
	cases := map[string]struct {
		data    []byte
		want    Instruction
		wantErr *errors.Error
	}{
		"init escrow": {
			data: []byte{0, 0xe8, 0x03, 0, 0, 0, 0, 0, 0},
			want: &InitEscrow{Amount: 1000},
		},
		"exchange": {
			data: []byte{1, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			want: &Exchange{Amount: ^uint64(0)},
		},
		"trailing bytes are ignored": {
			data: []byte{1, 5, 0, 0, 0, 0, 0, 0, 0, 42, 42},
			want: &Exchange{Amount: 5},
		},
		"unknown tag": {
			data:    []byte{2, 5, 0, 0, 0, 0, 0, 0, 0},
			wantErr: ErrInvalidInstruction,
		},
		"short amount": {
			data:    []byte{0, 5, 0, 0, 0, 0, 0, 0},
			wantErr: ErrInvalidInstruction,
		},
		"tag only": {
			data:    []byte{1},
			wantErr: ErrInvalidInstruction,
		},
		"empty": {
			data:    []byte{},
			wantErr: ErrInvalidInstruction,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := Unpack(tc.data)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPackInstruction(t *testing.T) {
	assert.Equal(t, []byte{0, 0xe8, 0x03, 0, 0, 0, 0, 0, 0}, InitEscrow{Amount: 1000}.Pack())
	assert.Equal(t, []byte{1, 1, 0, 0, 0, 0, 0, 0, 0}, Exchange{Amount: 1}.Pack())
}

func TestInstructionBuilders(t *testing.T) {
	programID := types.NewAccount().PublicKey
	keys := make([]common.PublicKey, 7)
	for i := range keys {
		keys[i] = types.NewAccount().PublicKey
	}

	init := NewInitEscrowInstruction(InitEscrowParam{
		ProgramID:   programID,
		Initializer: keys[0],
		Custody:     keys[1],
		Receiving:   keys[2],
		Escrow:      keys[3],
		Amount:      7,
	})
	require.Len(t, init.Accounts, 6)
	assert.True(t, init.Accounts[0].IsSigner)
	assert.Equal(t, common.SysVarRentPubkey, init.Accounts[4].PubKey)
	assert.Equal(t, common.TokenProgramID, init.Accounts[5].PubKey)
	assert.Equal(t, InitEscrow{Amount: 7}.Pack(), init.Data)

	exchange, err := NewExchangeInstruction(ExchangeParam{
		ProgramID:            programID,
		Taker:                keys[0],
		TakerSending:         keys[1],
		TakerReceiving:       keys[2],
		Custody:              keys[3],
		InitializerMain:      keys[4],
		InitializerReceiving: keys[5],
		Escrow:               keys[6],
		Amount:               9,
	})
	require.NoError(t, err)
	require.Len(t, exchange.Accounts, 9)
	authority, _, err := FindCustodyAuthority(programID)
	require.NoError(t, err)
	assert.Equal(t, authority, exchange.Accounts[8].PubKey)
	assert.False(t, exchange.Accounts[8].IsSigner)
	assert.Equal(t, Exchange{Amount: 9}.Pack(), exchange.Data)
}
