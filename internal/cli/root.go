// Package cli implements the policycat command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vegasq/policycat/internal/client"
	"github.com/vegasq/policycat/internal/config"
	"github.com/vegasq/policycat/internal/logging"
	"github.com/vegasq/policycat/internal/output"
)

var (
	version = "dev"
	commit  = "none"
)

// app holds the state resolved once per invocation
type app struct {
	settings config.Settings
	logger   zerolog.Logger
	client   *client.Client
	raw      bool
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var (
		baseURL  string
		profile  string
		logLevel string
		format   string
		ceiling  time.Duration
	)
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:           "policycat",
		Short:         "Query the CoronaNet policy database",
		Long:          "Command-line client for the CoronaNet COVID-19 policy event and intensity score API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			flags := config.Overrides{}
			if cmd.Flags().Changed("base-url") {
				flags.BaseURL = baseURL
			}
			if cmd.Flags().Changed("log-level") {
				flags.LogLevel = logLevel
			}
			if cmd.Flags().Changed("output") {
				flags.Output = format
			}
			if cmd.Flags().Changed("timeout-ceiling") {
				flags.Timeout = ceiling
			}

			settings, err := config.Resolve(config.Path(), profile, flags, config.Settings{
				BaseURL:  client.DefaultBaseURL,
				Timeout:  client.DefaultTimeoutCeiling,
				Output:   "table",
				LogLevel: "warn",
			})
			if err != nil {
				return err
			}
			if err := client.ValidateBaseURL(settings.BaseURL); err != nil {
				return err
			}
			if _, err := output.New(settings.Output, io.Discard); err != nil {
				return err
			}

			a.settings = settings
			logCfg := logging.DefaultConfig()
			logCfg.Level = settings.LogLevel
			logCfg.Output = cmd.ErrOrStderr()
			a.logger = logging.NewWithComponent(logCfg, "policycat")
			a.client = client.New(settings.BaseURL,
				client.WithTimeoutCeiling(settings.Timeout),
				client.WithLogger(a.logger),
				client.WithUserAgent("policycat/"+version),
			)
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&baseURL, "base-url", client.DefaultBaseURL, "API root URL")
	pf.StringVarP(&profile, "profile", "p", "", "Config profile to use")
	pf.StringVar(&logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	pf.StringVarP(&format, "output", "o", "table", "Output format (table, csv, json, parquet)")
	pf.BoolVar(&a.raw, "raw", false, "Write CSV cells verbatim, without the spreadsheet formula guard")
	pf.DurationVar(&ceiling, "timeout-ceiling", client.DefaultTimeoutCeiling, "Bound applied by --timeout")

	rootCmd.AddCommand(newEventsCmd(a))
	rootCmd.AddCommand(newScoresCmd(a))
	rootCmd.AddCommand(newSnapshotCmd(a))
	rootCmd.AddCommand(newViewCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "policycat %s (commit %s)\n", version, commit)
			return err
		},
	}
}
