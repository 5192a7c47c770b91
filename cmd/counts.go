package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/cobwalk-go/internal/output"
	"github.com/masmgr/cobwalk-go/internal/patches"
)

// CountsCmd returns the counts command.
func CountsCmd() *cli.Command {
	return &cli.Command{
		Name:   "counts",
		Usage:  "Count cached patches by status",
		Flags:  append(commonFlags(), repoFlag()),
		Action: countsAction,
	}
}

func countsAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		store, err := ctx.Store()
		if err != nil {
			return err
		}
		rid := c.String("repo")
		counts, err := patches.NewService(store, ctx.Aliases, ctx.Log).Counts(c.Context, rid)
		if err != nil {
			return err
		}
		return writeCountsReport(c, &output.CountsReport{
			Repo:        rid,
			GeneratedAt: time.Now(),
			Counts:      counts,
		})
	})
}
