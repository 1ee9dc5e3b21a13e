package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/josephlewis42/myssh/core/config"
	"github.com/josephlewis42/myssh/core/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var (
	eventsLogPath string
	eventsSession string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the event log written when log_events is enabled.",
}

var eventsReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize commands, launch failures, interrupts and exits.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		fd, err := openEventsLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		return writeReport(cmd.OutOrStdout(), fd, eventsSession)
	},
}

// openEventsLog opens --log if given, the configured app.log otherwise.
func openEventsLog() (afero.File, error) {
	if eventsLogPath != "" {
		return afero.NewOsFs().Open(eventsLogPath)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	fd, err := cfg.ReadAppLog()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no %s in %s, is log_events enabled?", config.AppLogName, configDir())
	}
	return fd, err
}

// writeReport aggregates the entries of log, only those of session if it's
// set, and writes the report as YAML.
func writeReport(w io.Writer, log io.Reader, session string) error {
	var report logger.Report
	err := logger.ReadJSONLinesLog(log, func(le *logger.LogEntry) {
		if session == "" || le.SessionId == session {
			report.Update(le)
		}
	})
	if err != nil {
		return fmt.Errorf("reading event log: %w", err)
	}

	out, err := yaml.Marshal(report)
	if err != nil {
		return err
	}

	_, err = w.Write(out)
	return err
}

func init() {
	eventsReportCmd.Flags().StringVar(&eventsLogPath, "log", "", "read this event log instead of the configured one")
	eventsReportCmd.Flags().StringVar(&eventsSession, "session", "", "only count entries of this session ID")

	eventsCmd.AddCommand(eventsReportCmd)
	rootCmd.AddCommand(eventsCmd)
}
