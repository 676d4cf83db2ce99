package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/svckit/svckit/cmd/app/commands"
	"github.com/svckit/svckit/internal/app"
	"github.com/svckit/svckit/internal/config"
)

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "issue-token",
			Usage: "Issue a signed access token for a subject",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "subject",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Principal the token is issued for",
				},
				&cli.StringFlag{
					Name:     "role",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Authorization role claim",
				},
				&cli.IntFlag{
					Name:    "ttl-minutes",
					Aliases: []string{"t"},
					Value:   0,
					Usage:   "Token lifetime in minutes (0 uses the configured default)",
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

				tokenService, err := container.TokenService()
				if err != nil {
					return err
				}

				return commands.RunIssueToken(
					tokenService,
					commands.DefaultIO().Writer,
					cmd.String("subject"),
					cmd.String("role"),
					int(cmd.Int("ttl-minutes")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "hash-password",
			Usage: "Hash a password with bcrypt",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Plaintext password to hash (only the first 72 bytes are used)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenService, err := container.TokenService()
				if err != nil {
					return err
				}

				return commands.RunHashPassword(
					tokenService,
					commands.DefaultIO().Writer,
					cmd.String("password"),
				)
			},
		},
	}
}
