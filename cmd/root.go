package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stinkyfingers/smsbridge/config"
	"github.com/stinkyfingers/smsbridge/handler"
	"github.com/stinkyfingers/smsbridge/logger"
)

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the CLI. Handler options are applied to every command
// that invokes the function.
func NewRootCmd(opts ...handler.Option) *cobra.Command {
	root := &cobra.Command{
		Use:           "smsbridge",
		Short:         "Run the SMS bridge function locally",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newSendCmd(opts))
	return root
}

func setup(opts []handler.Option) (config.Config, *zap.Logger, *handler.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, errors.Wrap(err, "load config")
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, nil, errors.Wrap(err, "init logger")
	}
	opts = append([]handler.Option{handler.WithLogger(log)}, opts...)
	return cfg, log, handler.New(cfg.Twilio, opts...), nil
}
