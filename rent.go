package tokenswap

import (
	"math"
	"math/bits"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

const (
	// AccountStorageOverhead is the number of bytes charged for every
	// account on top of its data region.
	AccountStorageOverhead = 128

	// RentLen is the size of the serialized rent sysvar.
	RentLen = 17

	DefaultLamportsPerByteYear uint64  = 3480
	DefaultExemptionThreshold  float64 = 2.0
	DefaultBurnPercent         uint8   = 50
)

// SysvarOwnerID owns every sysvar account.
var SysvarOwnerID = common.PublicKeyFromString("Sysvar1111111111111111111111111111111111111")

// Rent is the sysvar that defines the minimum balance an account must hold
// to be retained by the ledger.
type Rent struct {
	LamportsPerByteYear uint64  `json:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `json:"exemption_threshold"`
	BurnPercent         uint8   `json:"burn_percent"`
}

// DefaultRent returns the rent configuration used unless genesis overrides
// it.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
		BurnPercent:         DefaultBurnPercent,
	}
}

// Validate returns an error if the configuration cannot be used.
func (r Rent) Validate() error {
	if math.IsNaN(r.ExemptionThreshold) || math.IsInf(r.ExemptionThreshold, 0) || r.ExemptionThreshold < 0 {
		return errors.Wrap(errors.ErrInvalidArgument, "exemption threshold")
	}
	if r.BurnPercent > 100 {
		return errors.Wrap(errors.ErrInvalidArgument, "burn percent")
	}
	return nil
}

// MinimumBalance returns the lamports an account with a data region of
// given size must hold to be exempt. A balance no account can hold
// saturates at math.MaxUint64.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	hi, perYear := bits.Mul64(uint64(AccountStorageOverhead+dataLen), r.LamportsPerByteYear)
	if hi != 0 {
		return math.MaxUint64
	}
	balance := float64(perYear) * r.ExemptionThreshold
	if balance >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(balance)
}

// IsExempt returns true if given balance is enough to keep an account with
// a data region of given size.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// Marshal serializes the sysvar into its account data form.
func (r Rent) Marshal() ([]byte, error) {
	raw, err := borsh.Serialize(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return raw, nil
}

// Unmarshal loads the sysvar from its account data form.
func (r *Rent) Unmarshal(raw []byte) error {
	if len(raw) != RentLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "rent sysvar of %d bytes", len(raw))
	}
	var rent Rent
	if err := borsh.Deserialize(&rent, raw); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	*r = rent
	return nil
}

// RentFromAccount reads the rent sysvar from an account passed to a
// program. Any account other than the rent sysvar is rejected.
func RentFromAccount(info *AccountInfo) (Rent, error) {
	if info.Key != common.SysVarRentPubkey {
		return Rent{}, errors.Wrapf(errors.ErrInvalidArgument, "%s is not the rent sysvar", info.Key.ToBase58())
	}
	var r Rent
	if err := r.Unmarshal(info.Data); err != nil {
		return Rent{}, err
	}
	return r, nil
}
