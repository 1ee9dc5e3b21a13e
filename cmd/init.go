package cmd

import (
	"log"

	"github.com/josephlewis42/myssh/core/config"
	"github.com/spf13/cobra"
)

var initPrint bool

// initCmd creates the configuration directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration directory with a default config.yaml.",
	Long: `Create the configuration directory named by --config and write the default
config.yaml into it. An existing config.yaml is left untouched.

With --print the default configuration is written to stdout instead, e.g. to
merge it into an existing file by hand.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if initPrint {
			return config.WriteDefault(cmd.OutOrStdout())
		}

		return config.Initialize(configDir(), log.New(cmd.ErrOrStderr(), "", 0))
	},
}

func init() {
	initCmd.Flags().BoolVar(&initPrint, "print", false, "print the default configuration instead of writing it")
	rootCmd.AddCommand(initCmd)
}
