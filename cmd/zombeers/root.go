package main

import (
	"github.com/KirkDiggler/zombeers/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the resolved configuration and logger to the subcommands
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{
		cfg:    config.Defaults(),
		logger: zap.NewNop(),
	}

	cmd := &cobra.Command{
		Use:   "zombeers",
		Short: "Score tracker for the zombeers drinking game.",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	config.RegisterGlobalFlags(cmd.PersistentFlags(), a.cfg)

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newLocalCmd(a))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// setup resolves the configuration of the running command and builds the
// logger
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.Resolve(a.cfg, cmd.Flags()); err != nil {
		return err
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(a.cfg.Verbose)
	if err != nil {
		return err
	}
	a.logger = logger

	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
