package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/cobwalk-go/internal/output"
)

func writeActionsReport(c *cli.Context, report *output.ActionsReport) error {
	opts := OutputOptions(c)
	return output.NewActionsReportWriter(opts.Format).Write(report, opts)
}

func writePatchesReport(c *cli.Context, report *output.PatchesReport) error {
	opts := OutputOptions(c)
	return output.NewPatchesReportWriter(opts.Format).Write(report, opts)
}

func writeCountsReport(c *cli.Context, report *output.CountsReport) error {
	opts := OutputOptions(c)
	return output.NewCountsReportWriter(opts.Format).Write(report, opts)
}

func writeInboxReport(c *cli.Context, report *output.InboxReport) error {
	opts := OutputOptions(c)
	return output.NewInboxReportWriter(opts.Format).Write(report, opts)
}
