package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID    string  `json:"chain_id"`
	AppOptions Options `json:"app_options"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	bytes, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidArgument, "loading genesis file: %s", err)
	}

	err = json.Unmarshal(bytes, &gen)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidArgument, "unmarshaling genesis file: %s", err)
	}
	return gen, nil
}

// Options are the app options
// Each component can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal([]byte(msg), obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "option %q: %s", key, err)
	}
	return nil
}

// NewGenesis returns a genesis with given rent configuration that creates
// given accounts.
func NewGenesis(chainID string, rent tokenswap.Rent, accounts ...GenesisAccount) (Genesis, error) {
	rawRent, err := json.Marshal(rent)
	if err != nil {
		return Genesis{}, errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	rawAccounts, err := json.Marshal(accounts)
	if err != nil {
		return Genesis{}, errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	return Genesis{
		ChainID: chainID,
		AppOptions: Options{
			"rent":     rawRent,
			"accounts": rawAccounts,
		},
	}, nil
}

// GenesisAccount is an account created by the genesis. An owner left out
// means the system program.
type GenesisAccount struct {
	PubKey     tokenswap.Key  `json:"pubkey"`
	Lamports   uint64         `json:"lamports"`
	Owner      *tokenswap.Key `json:"owner,omitempty"`
	Executable bool           `json:"executable,omitempty"`
	Data       []byte         `json:"data,omitempty"`
}

// Account returns the ledger form of the genesis entry.
func (g GenesisAccount) Account() *tokenswap.Account {
	owner := common.SystemProgramID
	if g.Owner != nil {
		owner = g.Owner.PublicKey()
	}
	return &tokenswap.Account{
		Lamports:   g.Lamports,
		Owner:      owner,
		Executable: g.Executable,
		Data:       append([]byte{}, g.Data...),
	}
}

// initState writes the accounts and the rent sysvar described by the
// options. The rent sysvar uses the default configuration unless the
// "rent" option overrides it.
func initState(opts Options, kv tokenswap.KVStore) (tokenswap.Rent, error) {
	rent := tokenswap.DefaultRent()
	if err := opts.ReadOptions("rent", &rent); err != nil {
		return rent, err
	}
	if err := rent.Validate(); err != nil {
		return rent, err
	}
	raw, err := rent.Marshal()
	if err != nil {
		return rent, err
	}
	sysvar := &tokenswap.Account{
		Lamports: rent.MinimumBalance(len(raw)),
		Owner:    tokenswap.SysvarOwnerID,
		Data:     raw,
	}
	if err := saveAccount(kv, common.SysVarRentPubkey, sysvar); err != nil {
		return rent, err
	}

	var accounts []GenesisAccount
	if err := opts.ReadOptions("accounts", &accounts); err != nil {
		return rent, err
	}
	for _, g := range accounts {
		key := g.PubKey.PublicKey()
		if key == common.SysVarRentPubkey {
			return rent, errors.Wrap(errors.ErrInvalidArgument, "rent sysvar is set with the rent option")
		}
		exists, err := kv.Has(accountKey(key))
		if err != nil {
			return rent, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if exists {
			return rent, errors.Wrapf(errors.ErrAccountAlreadyInitialized, "genesis account %s", key.ToBase58())
		}
		if err := saveAccount(kv, key, g.Account()); err != nil {
			return rent, err
		}
	}
	return rent, nil
}
