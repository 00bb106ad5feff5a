package escrow

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// initEscrowAccounts is the account list of InitEscrow in order.
type initEscrowAccounts struct {
	initializer  *tokenswap.AccountInfo
	custody      *tokenswap.AccountInfo
	receiving    *tokenswap.AccountInfo
	escrow       *tokenswap.AccountInfo
	rent         *tokenswap.AccountInfo
	tokenProgram *tokenswap.AccountInfo
}

func parseInitEscrowAccounts(accounts []*tokenswap.AccountInfo) (*initEscrowAccounts, error) {
	if err := expectAccounts(accounts, 6); err != nil {
		return nil, err
	}
	return &initEscrowAccounts{
		initializer:  accounts[0],
		custody:      accounts[1],
		receiving:    accounts[2],
		escrow:       accounts[3],
		rent:         accounts[4],
		tokenProgram: accounts[5],
	}, nil
}

// exchangeAccounts is the account list of Exchange in order.
type exchangeAccounts struct {
	taker                *tokenswap.AccountInfo
	takerSending         *tokenswap.AccountInfo
	takerReceiving       *tokenswap.AccountInfo
	custody              *tokenswap.AccountInfo
	initializerMain      *tokenswap.AccountInfo
	initializerReceiving *tokenswap.AccountInfo
	escrow               *tokenswap.AccountInfo
	tokenProgram         *tokenswap.AccountInfo
	authority            *tokenswap.AccountInfo
}

func parseExchangeAccounts(accounts []*tokenswap.AccountInfo) (*exchangeAccounts, error) {
	if err := expectAccounts(accounts, 9); err != nil {
		return nil, err
	}
	return &exchangeAccounts{
		taker:                accounts[0],
		takerSending:         accounts[1],
		takerReceiving:       accounts[2],
		custody:              accounts[3],
		initializerMain:      accounts[4],
		initializerReceiving: accounts[5],
		escrow:               accounts[6],
		tokenProgram:         accounts[7],
		authority:            accounts[8],
	}, nil
}

func expectAccounts(accounts []*tokenswap.AccountInfo, n int) error {
	if len(accounts) < n {
		return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "want %d, got %d", n, len(accounts))
	}
	return nil
}
