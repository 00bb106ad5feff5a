package commands

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const flagBase58 = "base58"

// AuthorityCmd prints the custody authority of an escrow program. The
// program identity is taken from the first argument or the configuration.
func AuthorityCmd(v *viper.Viper) *cobra.Command {
	c := authorityCmd{v: v}
	return &cobra.Command{
		Use:   "authority [program_id]",
		Short: "Derive the custody authority of an escrow program",
		RunE:  c.run,
	}
}

type authorityCmd struct {
	v *viper.Viper
}

func (c authorityCmd) run(cmd *cobra.Command, args []string) error {
	raw := c.v.GetString(KeyProgramID)
	if len(args) > 0 {
		raw = args[0]
	}
	if raw == "" {
		return errors.Wrap(errors.ErrInvalidArgument, "program id required")
	}
	programID, err := tokenswap.ParseKey(raw)
	if err != nil {
		return err
	}
	authority, bump, err := escrow.FindCustodyAuthority(programID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "program:   %s\nauthority: %s\nbump:      %d\n",
		programID.ToBase58(), authority.ToBase58(), bump)
	return nil
}

// EncodeCmd prints escrow instruction data as hex.
func EncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <init|exchange> <amount>",
		Short: "Encode escrow instruction data",
		RunE:  runEncode,
	}
}

func runEncode(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.Wrap(errors.ErrInvalidArgument, "expected instruction name and amount")
	}
	amount, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "amount %q", args[1])
	}
	var ins escrow.Instruction
	switch args[0] {
	case "init":
		ins = escrow.InitEscrow{Amount: amount}
	case "exchange":
		ins = escrow.Exchange{Amount: amount}
	default:
		return errors.Wrapf(errors.ErrInvalidArgument, "unknown instruction %q", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(ins.Pack()))
	return nil
}

// DecodeCmd prints the escrow instruction held by hex or base58 encoded
// data.
func DecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <data>",
		Short: "Decode escrow instruction data",
		RunE:  runDecode,
	}
	cmd.Flags().Bool(flagBase58, false, "data is base58 encoded instead of hex")
	return cmd
}

func runDecode(cmd *cobra.Command, args []string) error {
	raw, err := readData(cmd, args)
	if err != nil {
		return err
	}
	ins, err := escrow.Unpack(raw)
	if err != nil {
		return err
	}
	var amount uint64
	switch ins := ins.(type) {
	case *escrow.InitEscrow:
		amount = ins.Amount
	case *escrow.Exchange:
		amount = ins.Amount
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s amount=%d\n", ins.Name(), amount)
	return nil
}

// RecordCmd prints a serialized escrow record as JSON.
func RecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <data>",
		Short: "Decode an escrow state account",
		RunE:  runRecord,
	}
	cmd.Flags().Bool(flagBase58, false, "data is base58 encoded instead of hex")
	return cmd
}

type recordView struct {
	Initialized          bool          `json:"initialized"`
	Initializer          tokenswap.Key `json:"initializer"`
	CustodyAccount       tokenswap.Key `json:"custody_account"`
	InitializerReceiving tokenswap.Key `json:"initializer_receiving"`
	ExpectedAmount       uint64        `json:"expected_amount"`
}

func runRecord(cmd *cobra.Command, args []string) error {
	raw, err := readData(cmd, args)
	if err != nil {
		return err
	}
	var rec escrow.Escrow
	if err := rec.Unpack(raw); err != nil {
		return err
	}
	out, err := json.MarshalIndent(recordView{
		Initialized:          rec.Initialized,
		Initializer:          tokenswap.Key(rec.Initializer),
		CustodyAccount:       tokenswap.Key(rec.CustodyAccount),
		InitializerReceiving: tokenswap.Key(rec.InitializerReceiving),
		ExpectedAmount:       rec.ExpectedAmount,
	}, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func readData(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "expected a single data argument")
	}
	useBase58, err := cmd.Flags().GetBool(flagBase58)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	if useBase58 {
		raw, err := base58.Decode(args[0])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "base58: %s", err)
		}
		return raw, nil
	}
	raw, err := hex.DecodeString(args[0])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "hex: %s", err)
	}
	return raw, nil
}

// VersionCmd prints the build version.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), tokenswap.Version())
			return nil
		},
	}
}

// ErrorsCmd lists the result codes a transaction can fail with.
func ErrorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors",
		Short: "List transaction result codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, e := range errors.Registered() {
				fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s\n", e.ABCICode(), e.Error())
			}
			return nil
		},
	}
}
