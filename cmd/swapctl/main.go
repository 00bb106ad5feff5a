package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iov-one/tokenswap/commands"
	"github.com/iov-one/tokenswap/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	root, v, err := newRootCmd(os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Redact(err, v.GetBool(commands.KeyDebug)))
		os.Exit(1)
	}
}

// newRootCmd returns swapctl with all subcommands registered and the
// configuration they read. Command output goes to out, ledger logs to logs.
func newRootCmd(out, logs io.Writer) (*cobra.Command, *viper.Viper, error) {
	root := &cobra.Command{
		Use:           "swapctl",
		Short:         "Inspect and exercise the token swap escrow program",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOutput(out)

	flags := root.PersistentFlags()
	flags.String(commands.FlagConfig, "", "configuration file (json, yaml or toml)")
	flags.String(commands.KeyProgramID, "", "base58 identity of the escrow program")
	flags.String(commands.KeyHome, "", "ledger database directory, in memory if empty")
	flags.String(commands.KeyLogLevel, "info", "log level: debug, info, error or none")
	flags.Bool(commands.KeyDebug, false, "return full error details from delivered transactions")

	v, err := commands.NewViper(root)
	if err != nil {
		return nil, nil, err
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString(commands.FlagConfig)
		if err != nil {
			return err
		}
		return commands.ReadConfigFile(v, path)
	}

	root.AddCommand(
		commands.AuthorityCmd(v),
		commands.EncodeCmd(),
		commands.DecodeCmd(),
		commands.RecordCmd(),
		commands.DemoCmd(v, logs),
		commands.ErrorsCmd(),
		commands.VersionCmd(),
	)
	return root, v, nil
}
