// Package cli implements the servq command-line client. Every command talks
// to a running servq server over the HTTP API.
package cli

import (
	"log/slog"
	"os"

	"github.com/me/servq/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking SERVQ_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("SERVQ_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the servq CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "servq",
		Short: "servq is a multi-class service request scheduler",
		Long:  "servq admits, schedules, and monitors service requests on a servq server.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "servq server URL (or SERVQ_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "auto", "Log format (auto, text, json)")

	root.AddCommand(
		newAddCmd(),
		newQuickCmd(),
		newListCmd(),
		newCompletedCmd(),
		newRoomsCmd(),
		newCheckInCmd(),
		newCheckOutCmd(),
		newPolicyCmd(),
		newStartCmd(),
		newStopCmd(),
		newStatusCmd(),
		newClearCmd(),
		newStatsCmd(),
		newWatchCmd(),
	)

	return root
}
