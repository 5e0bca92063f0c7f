package main

import (
	"context"
	"os"

	"github.com/phanxgames/flowsync/internal/logging"
	cli "github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		logging.WithModule("flowsync-cli").Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  "flowsync",
		Usage:                 "Inspect and run flowsync page projects",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("FLOWSYNC_LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.Setup(cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			NewValidateCommand(),
			NewSampleCommand(),
			NewRunCommand(),
		},
	}
}
