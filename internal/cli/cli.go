// Package cli implements the nlplearn command line: training models from
// text files, predicting labels, evaluating held-out data and exporting
// weights.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/nlplearn/config"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
)

// CLI holds the root command and the settings shared by all subcommands.
type CLI struct {
	version  string
	logLevel string
	cfgPath  string
	cfg      *config.Config
	rootCmd  *cobra.Command
}

// New creates the command tree.
func New(version string) *CLI {
	c := &CLI{version: version}
	c.setupCommands()
	return c
}

func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:           "nlplearn",
		Short:         "Train and apply sparse linear classifiers",
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initApp(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	flags := c.rootCmd.PersistentFlags()
	flags.StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.StringVarP(&c.cfgPath, "config", "c", "", "YAML training configuration")

	c.rootCmd.AddCommand(c.newTrainCommand())
	c.rootCmd.AddCommand(c.newPredictCommand())
	c.rootCmd.AddCommand(c.newEvalCommand())
	c.rootCmd.AddCommand(c.newExportCommand())
}

// Run executes the command line in os.Args.
func (c *CLI) Run(ctx context.Context) error {
	return c.rootCmd.ExecuteContext(ctx)
}

// initApp loads the configuration and points logging at stderr. An
// explicit --log-level wins over the configuration.
func (c *CLI) initApp(cmd *cobra.Command) error {
	cfg := config.Default()
	if c.cfgPath != "" {
		loaded, err := config.Load(c.cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	c.cfg = cfg

	level := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = c.logLevel
	}
	return log.SetupLoggerTo(cmd.ErrOrStderr(), level)
}

// openInput opens path for reading; "-" is the command's stdin.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open input %s", path)
	}
	return f, nil
}
