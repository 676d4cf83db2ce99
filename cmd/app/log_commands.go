package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/svckit/svckit/cmd/app/commands"
	"github.com/svckit/svckit/internal/app"
	"github.com/svckit/svckit/internal/config"
)

func getLogCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-logs",
			Usage: "Delete rotated log files older than specified days",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "days",
					Aliases: []string{"d"},
					Value:   0,
					Usage:   "Delete rotated logs older than this many days (0 uses the configured retention)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCleanLogs(
					container.DiagnosticLogger(),
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "check-log-permissions",
			Usage: "Report read/write access to the log directory and sinks",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCheckLogPermissions(
					container.DiagnosticLogger(),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "repair-log-permissions",
			Usage: "Restore expected permissions on the log directory and sinks",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunRepairLogPermissions(
					container.DiagnosticLogger(),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
