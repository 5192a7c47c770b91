package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/cobwalk-go/internal/cob/patch"
	"github.com/masmgr/cobwalk-go/internal/output"
	"github.com/masmgr/cobwalk-go/internal/patches"
	"github.com/masmgr/cobwalk-go/internal/readmodel"
)

// PatchesCmd returns the patches command.
func PatchesCmd() *cli.Command {
	flags := append(commonFlags(),
		repoFlag(),
		&cli.StringFlag{
			Name:    "status",
			Aliases: []string{"s"},
			Usage:   "Filter by status (open, draft, archived, merged)",
		},
		&cli.IntFlag{
			Name:  "cursor",
			Usage: "Offset of the first patch",
		},
		&cli.IntFlag{
			Name:  "take",
			Usage: "Page size (default from config)",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "List every matching patch",
		},
	)

	return &cli.Command{
		Name:    "patches",
		Aliases: []string{"p"},
		Usage:   "List cached patches, most recently revised first",
		Flags:   flags,
		Action:  patchesAction,
	}
}

func patchesAction(c *cli.Context) error {
	status, err := parseStatusFlag(c.String("status"))
	if err != nil {
		return err
	}

	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		store, err := ctx.Store()
		if err != nil {
			return err
		}
		filter := readmodel.PatchFilter{
			Status: status,
			Window: patchWindow(c.Int("cursor"), c.Int("take"), ctx.Config.Query.PageSize, c.Bool("all")),
		}

		rid := c.String("repo")
		page, err := patches.NewService(store, ctx.Aliases, ctx.Log).List(c.Context, rid, filter)
		if err != nil {
			return err
		}

		report := &output.PatchesReport{
			Repo:        rid,
			Status:      status,
			GeneratedAt: time.Now(),
			Page:        page,
		}
		return writePatchesReport(c, report)
	})
}

func parseStatusFlag(s string) (patch.Status, error) {
	if s == "" || s == "all" {
		return "", nil
	}
	status, err := patch.ParseStatus(s)
	if err != nil {
		return "", fmt.Errorf("invalid --status: %w", err)
	}
	return status, nil
}

// patchWindow builds the page window from flags. take falls back to pageSize;
// all returns an unbounded window.
func patchWindow(cursor, take, pageSize int, all bool) readmodel.Window {
	if all {
		return readmodel.Window{}
	}
	if take <= 0 {
		take = pageSize
	}
	return readmodel.Window{Cursor: cursor, Take: readmodel.Take(take)}
}
