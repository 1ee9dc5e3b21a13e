package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/josephlewis42/myssh/core"
	"github.com/josephlewis42/myssh/core/config"
	"github.com/josephlewis42/myssh/core/homepath"
	"github.com/josephlewis42/myssh/core/logger"
	"github.com/josephlewis42/myssh/core/vos"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "~/.config/myssh"

var (
	cfgPath     string
	commandLine string
)

func configDir() string {
	return homepath.Expand(cfgPath, os.Getenv(vos.EnvHome))
}

func loadConfig() (*config.Configuration, error) {
	return config.Load(configDir())
}

// shellName is what diagnostics are prefixed with.
func shellName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return core.DefaultName
	}
	return filepath.Base(os.Args[0])
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "myssh",
	Short: "A small interactive shell",
	Long: `myssh reads command lines, splits them on ";" and runs each part as a
builtin, a program, a two stage pipeline or a program with one redirection.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		events, closeEvents, err := openEventLog(configuration)
		if err != nil {
			return err
		}
		defer closeEvents()

		virtualOS := vos.NewHostOS(vos.OSEnv{}, vos.NewVIOAdapter(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()))

		shell := core.NewShell(virtualOS, shellName(), configuration)
		shell.Events = events
		shell.Interrupts = core.NewController()
		defer shell.Close()

		if cmd.Flags().Changed("command") {
			return shell.RunCommandLine(context.Background(), commandLine)
		}

		reader, err := core.NewReadlineReader(virtualOS, core.ReadlineOptions{
			HistoryFile:  configuration.HistoryPath(virtualOS.UserHomeDir()),
			HistoryLimit: configuration.HistoryLimit,
			Complete:     true,
		})
		if err != nil {
			return err
		}
		shell.Reader = reader

		return shell.Run(context.Background())
	},
}

// openEventLog returns the recorder for interpreter events, a no-op unless
// enabled in the configuration.
func openEventLog(configuration *config.Configuration) (logger.Recorder, func() error, error) {
	if !configuration.LogEvents {
		return logger.NopRecorder{}, func() error { return nil }, nil
	}

	if err := os.MkdirAll(configDir(), 0700); err != nil {
		return nil, nil, err
	}
	fd, err := configuration.OpenAppLog()
	if err != nil {
		return nil, nil, fmt.Errorf("opening event log: %w", err)
	}
	return logger.NewJsonLinesLogRecorder(fd).NewSession(), fd.Close, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	// The shell already reported why it's exiting.
	var exitErr *core.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	cobra.CheckErr(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, "configuration directory")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
}
