package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kylerisse/uptui/pkg/display"
	"github.com/kylerisse/uptui/pkg/probe"
	"github.com/kylerisse/uptui/pkg/server"
)

// NewRootCommand creates a new *cobra.Command that is used as the root command
// for uptui. Without a subcommand it runs the live results table.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	tui := &tuiOptions{}

	cmd := &cobra.Command{
		Use:           "uptui",
		Short:         "Terminal uptime monitor",
		Version:       probe.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tui.validate(); err != nil {
				return err
			}
			return runTUI(cmd, opts, tui)
		},
	}

	opts.addFlags(cmd.PersistentFlags())
	tui.addFlags(cmd.Flags())

	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newInitCommand())

	return cmd
}

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, opts *options, tui *tuiOptions) error {
	logger, closeLog, err := opts.logger()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, diag := opts.loadConfig(cmd, logger)
	specs := cfg.Specs()

	interval := cfg.RefreshInterval()
	if tui.Interval > 0 {
		interval = tui.Interval
	}

	engine, err := probe.New(probe.WithLogger(logger), probe.WithConcurrency(cfg.Concurrency))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := server.NewStore(probe.PendingAll(specs))
	if tui.Listen != "" {
		srv, err := server.New(store, server.WithLogger(logger), server.WithStalenessWindow(3*interval))
		if err != nil {
			return err
		}
		if err := srv.Start(tui.Listen); err != nil {
			return err
		}
		defer shutdown(srv, logger)
	}

	terminal, err := display.OpenTerminal(os.Stdin)
	if err != nil {
		return errors.Wrap(err, "failed to set up terminal")
	}
	defer terminal.Restore()

	out := cmd.OutOrStdout()
	if terminal != nil {
		out = display.RawWriter{W: out}
	}

	loop, err := display.NewLoop(engine, specs, out,
		display.WithInterval(interval),
		display.WithLogger(logger),
		display.WithNotice(diag),
		display.WithPublisher(store.Publish),
	)
	if err != nil {
		return err
	}

	if terminal != nil {
		go display.ReadKeys(ctx, os.Stdin, loop, cancel)
	}

	logger.WithFields(logrus.Fields{
		"monitors": len(specs),
		"interval": interval,
	}).Info("starting refresh loop")

	return loop.Run(ctx)
}

func shutdown(srv *server.Server, logger logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warnf("failed to shut down API server: %v", err)
	}
}
