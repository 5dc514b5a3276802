package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kylerisse/uptui/pkg/config"
	"github.com/kylerisse/uptui/pkg/logging"
)

// options are the flags shared by all commands.
type options struct {
	ConfigFile string
	LogFile    string
	LogJSON    bool
	Debug      bool
}

func (o *options) addFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.ConfigFile, "config", "c", config.DefaultPath, "Path to the YAML or TOML config file.")
	flags.StringVar(&o.LogFile, "log-file", o.LogFile, "Write logs to this file, rotated by size. Logs are discarded when empty.")
	flags.BoolVar(&o.LogJSON, "log-json", o.LogJSON, "Write logs as JSON.")
	flags.BoolVar(&o.Debug, "debug", o.Debug, "Enable debug logging.")
}

func (o *options) logger() (*logrus.Logger, func() error, error) {
	logger, closeFn, err := logging.New(logging.Options{
		File:  o.LogFile,
		Debug: o.Debug,
		JSON:  o.LogJSON,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to set up logging")
	}
	return logger, closeFn, nil
}

// loadConfig loads the config file, printing any diagnostic to the
// command's stderr. It never fails.
func (o *options) loadConfig(cmd *cobra.Command, logger logrus.FieldLogger) (*config.Config, string) {
	cfg, diag := config.LoadOrEmpty(o.ConfigFile)
	if diag != "" {
		cmd.PrintErrln(diag)
		logger.Warn(diag)
	} else {
		logger.WithField("monitors", len(cfg.Monitors)).Infof("loaded config %s", o.ConfigFile)
	}
	return cfg, diag
}

// tuiOptions are the flags of the root command.
type tuiOptions struct {
	Interval time.Duration
	Listen   string
}

func (o *tuiOptions) addFlags(flags *pflag.FlagSet) {
	flags.DurationVar(&o.Interval, "interval", 0, "Refresh interval. Overrides the config file; defaults to 30s.")
	flags.StringVar(&o.Listen, "listen", o.Listen, "Serve results, summary and metrics over HTTP on this address, e.g. 127.0.0.1:1982.")
}

func (o *tuiOptions) validate() error {
	if o.Interval < 0 {
		return errors.Errorf("--interval must not be negative, got %v", o.Interval)
	}
	return nil
}
