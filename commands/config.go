package commands

import (
	"io"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

// Configuration keys. Every key can be set in the config file or through
// an environment variable with the EnvPrefix prefix and dots replaced by
// underscores, for example SWAPCTL_RENT_BURN_PERCENT.
const (
	KeyProgramID     = "program_id"
	KeyHome          = "home"
	KeyLogLevel      = "log_level"
	KeyDebug         = "debug"
	KeyRentLamports  = "rent.lamports_per_byte_year"
	KeyRentThreshold = "rent.exemption_threshold"
	KeyRentBurn      = "rent.burn_percent"

	FlagConfig = "config"
	EnvPrefix  = "SWAPCTL"
)

// Config is the resolved configuration of a single command run.
type Config struct {
	// ProgramID is the escrow program identity, zero if not configured.
	ProgramID common.PublicKey
	// Home is the ledger database directory. Empty means in memory.
	Home     string
	LogLevel string
	Debug    bool
	Rent     tokenswap.Rent
}

// NewViper returns a configuration source with defaults set that reads the
// environment. Persistent flags of root are bound to their keys.
func NewViper(root *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyRentLamports, int64(tokenswap.DefaultLamportsPerByteYear))
	v.SetDefault(KeyRentThreshold, tokenswap.DefaultExemptionThreshold)
	v.SetDefault(KeyRentBurn, int(tokenswap.DefaultBurnPercent))

	if root == nil {
		return v, nil
	}
	for _, key := range []string{KeyProgramID, KeyHome, KeyLogLevel, KeyDebug} {
		fl := root.PersistentFlags().Lookup(key)
		if fl == nil {
			continue
		}
		if err := v.BindPFlag(key, fl); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "bind %s flag: %s", key, err)
		}
	}
	return v, nil
}

// ReadConfigFile merges the content of given file into v. The format is
// guessed from the file extension.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "config %s: %s", path, err)
	}
	return nil
}

// LoadConfig resolves and validates all configuration keys.
func LoadConfig(v *viper.Viper) (Config, error) {
	conf := Config{
		Home:     v.GetString(KeyHome),
		LogLevel: v.GetString(KeyLogLevel),
		Debug:    v.GetBool(KeyDebug),
	}
	if raw := v.GetString(KeyProgramID); raw != "" {
		id, err := tokenswap.ParseKey(raw)
		if err != nil {
			return conf, errors.Wrap(err, KeyProgramID)
		}
		conf.ProgramID = id
	}

	lamports := v.GetInt64(KeyRentLamports)
	if lamports < 0 {
		return conf, errors.Wrapf(errors.ErrInvalidArgument, "%s must not be negative", KeyRentLamports)
	}
	burn := v.GetInt(KeyRentBurn)
	if burn < 0 || burn > 100 {
		return conf, errors.Wrapf(errors.ErrInvalidArgument, "%s must be a percentage", KeyRentBurn)
	}
	conf.Rent = tokenswap.Rent{
		LamportsPerByteYear: uint64(lamports),
		ExemptionThreshold:  v.GetFloat64(KeyRentThreshold),
		BurnPercent:         uint8(burn),
	}
	if err := conf.Rent.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

// NewLogger returns a logger that writes entries of given level and above.
func NewLogger(w io.Writer, level string) (log.Logger, error) {
	allow, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "%s: %s", KeyLogLevel, err)
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	return log.NewFilter(logger, allow), nil
}
