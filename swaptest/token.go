package swaptest

import (
	sdksystem "github.com/blocto/solana-go-sdk/program/system"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/x/token"
)

// CreateMint returns instructions that create a rent exempt mint with
// given mint authority.
func CreateMint(rent tokenswap.Rent, payer, mint, authority common.PublicKey) []types.Instruction {
	return []types.Instruction{
		sdksystem.CreateAccount(sdksystem.CreateAccountParam{
			From:     payer,
			New:      mint,
			Owner:    common.TokenProgramID,
			Lamports: rent.MinimumBalance(token.MintLen),
			Space:    token.MintLen,
		}),
		sdktoken.InitializeMint(sdktoken.InitializeMintParam{
			Decimals: 0,
			Mint:     mint,
			MintAuth: authority,
		}),
	}
}

// CreateTokenAccount returns instructions that create a rent exempt token
// account of given mint and owner.
func CreateTokenAccount(rent tokenswap.Rent, payer, account, mint, owner common.PublicKey) []types.Instruction {
	return []types.Instruction{
		sdksystem.CreateAccount(sdksystem.CreateAccountParam{
			From:     payer,
			New:      account,
			Owner:    common.TokenProgramID,
			Lamports: rent.MinimumBalance(token.AccountLen),
			Space:    token.AccountLen,
		}),
		sdktoken.InitializeAccount(sdktoken.InitializeAccountParam{
			Account: account,
			Mint:    mint,
			Owner:   owner,
		}),
	}
}

// MintTo returns an instruction that issues tokens.
func MintTo(mint, account, authority common.PublicKey, amount uint64) types.Instruction {
	return sdktoken.MintTo(sdktoken.MintToParam{
		Mint:   mint,
		To:     account,
		Auth:   authority,
		Amount: amount,
	})
}

// Transfer returns an instruction that moves tokens.
func Transfer(from, to, owner common.PublicKey, amount uint64) types.Instruction {
	return sdktoken.Transfer(sdktoken.TransferParam{
		From:   from,
		To:     to,
		Auth:   owner,
		Amount: amount,
	})
}

// TokenBalance returns the amount held by a token account.
func TokenBalance(acc *tokenswap.Account) (uint64, error) {
	state, err := token.UnpackAccount(acc.Data)
	if err != nil {
		return 0, err
	}
	return state.Amount, nil
}
