package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/cobwalk-go/internal/inbox"
	"github.com/masmgr/cobwalk-go/internal/output"
)

// InboxCmd returns the inbox command.
func InboxCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringSliceFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Only list these repositories (repeatable)",
		},
		&cli.IntFlag{
			Name:  "take",
			Usage: "Refs listed per repository (default from config)",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "List every ref",
		},
	)

	return &cli.Command{
		Name:    "inbox",
		Aliases: []string{"i"},
		Usage:   "List notifications with the operations behind them",
		Flags:   flags,
		Action:  inboxAction,
	}
}

func inboxAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		store, err := ctx.Store()
		if err != nil {
			return err
		}
		params := inbox.Params{
			Repos: c.StringSlice("repo"),
			Take:  c.Int("take"),
			All:   c.Bool("all"),
		}
		if params.Take <= 0 {
			params.Take = ctx.Config.Query.Take
		}

		resolver := inbox.NewResolver(inbox.DefaultRegistry(), ctx.Log, inbox.WithAliases(ctx.Aliases))
		repos, err := inbox.NewService(store, ctx.Repos, resolver, ctx.Log).List(c.Context, params)
		if err != nil {
			return err
		}
		total, err := store.CountTotal(c.Context)
		if err != nil {
			return err
		}

		return writeInboxReport(c, &output.InboxReport{
			GeneratedAt: time.Now(),
			Total:       total,
			Repos:       repos,
		})
	})
}
