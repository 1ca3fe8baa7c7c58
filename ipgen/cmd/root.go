// Package cmd provides the command-line interface of ipgen.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/ipgen/config"
	"github.com/sarchlab/ipgen/core"
)

// app is the state shared by the commands of one invocation.
type app struct {
	registry   *core.Registry
	configFile string
	cfg        config.Config
	logger     *log.Logger
}

// NewRootCmd builds the command tree for a catalog. Every catalogued core
// gets its own subcommand.
func NewRootCmd(registry *core.Registry) *cobra.Command {
	a := &app{registry: registry}

	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ipgen",
		Short: "ipgen generates parametrized wrappers of IP cores.",
		Long: `ipgen generates parametrized wrappers of IP cores. Each core ` +
			`subcommand validates its parameters, binds the core ports to bus ` +
			`interfaces, and with --build writes the wrapper, the copied ` +
			`sources, and the synthesis script into a build directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "",
		"config file (default ipgen.yaml in . or $HOME/.config/ipgen)")

	rootCmd.AddCommand(newListCmd(a), newHistoryCmd(a), newServeCmd(a))

	for _, d := range a.registry.List() {
		rootCmd.AddCommand(newCoreCmd(a, d))
	}

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	opts := config.DefaultOptions()
	opts.File = a.configFile

	cfg, err := config.Load(opts)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a.cfg = cfg
	a.loggerFor(cmd)

	return nil
}

func (a *app) loggerFor(cmd *cobra.Command) *log.Logger {
	if a.logger == nil {
		a.logger = log.New(cmd.ErrOrStderr(), "ipgen: ", 0)
	}

	return a.logger
}

// execute runs the command tree and logs a failure through the invocation
// logger.
func (a *app) execute(root *cobra.Command) error {
	err := root.Execute()
	if err != nil {
		a.loggerFor(root).Print(err)
	}

	return err
}

// Execute runs the command line against the built-in catalog and exits
// with status 1 on failure.
func Execute() {
	a := &app{registry: core.Default()}

	if err := a.execute(a.rootCmd()); err != nil {
		os.Exit(1)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
