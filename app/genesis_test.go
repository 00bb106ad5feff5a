package app

import (
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/store/iavl"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenesis(t *testing.T) {
	Convey("Test genesis file", t, func() {
		gen, err := LoadGenesis("testdata/genesis.json")
		So(err, ShouldBeNil)
		So(gen.ChainID, ShouldEqual, "test-chain-67")

		db := store.MemStore()
		rent, err := initState(gen.AppOptions, db)
		So(err, ShouldBeNil)

		Convey("Rent sysvar is configured", func() {
			So(rent.LamportsPerByteYear, ShouldEqual, 1000)
			So(rent.ExemptionThreshold, ShouldEqual, 1.5)
			So(rent.BurnPercent, ShouldEqual, 10)

			acc, err := getAccount(db, common.SysVarRentPubkey)
			So(err, ShouldBeNil)
			So(acc, ShouldNotBeNil)
			So(acc.Owner, ShouldResemble, tokenswap.SysvarOwnerID)

			stored, err := tokenswap.RentFromAccount(&tokenswap.AccountInfo{Key: common.SysVarRentPubkey, Account: acc})
			So(err, ShouldBeNil)
			So(stored, ShouldResemble, rent)
		})

		Convey("Accounts are created", func() {
			payer, err := getAccount(db, common.PublicKeyFromString("9B5XszUGdMaxCZ7uSQhPzdks5ZQSmWxrmzCSvtJ6Ns6g"))
			So(err, ShouldBeNil)
			So(payer.Lamports, ShouldEqual, 5000000)
			So(payer.Owner, ShouldResemble, common.SystemProgramID)
			So(payer.Data, ShouldBeEmpty)

			owned, err := getAccount(db, common.PublicKeyFromString("5ZWj7a1f8tWkjBESHKgrLmXshuXxqeY9SYcfbshpAqPG"))
			So(err, ShouldBeNil)
			So(owned.Owner, ShouldResemble, common.TokenProgramID)
			So(owned.Data, ShouldResemble, []byte{1, 2, 3})
		})

		Convey("Accounts cannot be created twice", func() {
			_, err := initState(gen.AppOptions, db)
			So(errors.ErrAccountAlreadyInitialized.Is(err), ShouldBeTrue)
		})
	})

	Convey("Test broken genesis", t, func() {
		_, err := LoadGenesis("testdata/no_such_file.json")
		So(errors.ErrInvalidArgument.Is(err), ShouldBeTrue)

		gen, err := LoadGenesis("testdata/bad_genesis.json")
		So(err, ShouldBeNil)
		So(gen.ChainID, ShouldEqual, "super-chain-22")

		_, err = initState(gen.AppOptions, store.MemStore())
		So(errors.ErrInvalidArgument.Is(err), ShouldBeTrue)

		bad := tokenswap.DefaultRent()
		bad.BurnPercent = 101
		gen, err = NewGenesis("super-chain-22", bad)
		So(err, ShouldBeNil)
		_, err = initState(gen.AppOptions, store.MemStore())
		So(errors.ErrInvalidArgument.Is(err), ShouldBeTrue)
	})

	Convey("Test chain initialization", t, func() {
		l, err := NewLedger(iavl.MockCommitStore())
		So(err, ShouldBeNil)
		So(l.ChainID(), ShouldEqual, "")

		gen, err := NewGenesis("test-chain-12", tokenswap.DefaultRent(), GenesisAccount{
			PubKey:   tokenswap.Key(common.TokenProgramID),
			Lamports: 1,
		})
		So(err, ShouldBeNil)

		Convey("Invalid chain id is rejected", func() {
			gen.ChainID = "no"
			So(errors.ErrInvalidArgument.Is(l.InitChain(gen)), ShouldBeTrue)
			So(l.ChainID(), ShouldEqual, "")
		})

		Convey("Genesis is loaded once", func() {
			So(l.InitChain(gen), ShouldBeNil)
			So(l.ChainID(), ShouldEqual, "test-chain-12")
			So(tokenswap.GetChainID(l.Context()), ShouldEqual, "test-chain-12")

			rent, err := l.Rent()
			So(err, ShouldBeNil)
			So(rent, ShouldResemble, tokenswap.DefaultRent())

			err = l.InitChain(gen)
			So(errors.ErrAccountAlreadyInitialized.Is(err), ShouldBeTrue)
		})
	})
}
