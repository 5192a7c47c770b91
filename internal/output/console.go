package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/masmgr/cobwalk-go/internal/cob/patch"
)

// ConsoleActionsWriter writes action reports to the console.
type ConsoleActionsWriter struct{}

// Write outputs the operations of a COB, oldest first.
func (w *ConsoleActionsWriter) Write(report *ActionsReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "COB History")
	fmt.Fprintf(out, "Repository: %s\n", report.Repo)
	fmt.Fprintf(out, "Object: %s\n", report.COB)
	fmt.Fprintf(out, "Operations: %d\n\n", len(report.Operations))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tChange\tAuthor\tTime\tAction")
	for i, op := range limitTop(report.Operations, options.Top) {
		for j, action := range op.Actions {
			if j == 0 {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
					i+1,
					shortHash(op.EntryID.String()),
					op.Author.DisplayName(),
					op.Timestamp.UTC().Format(reportDateTimeLayout),
					truncateMessage(describeAction(action), 60),
				)
				continue
			}
			fmt.Fprintf(tw, "\t\t\t\t%s\n", truncateMessage(describeAction(action), 60))
		}
	}
	return tw.Flush()
}

// ConsolePatchesWriter writes patch listings to the console.
type ConsolePatchesWriter struct{}

// Write outputs one page of patches.
func (w *ConsolePatchesWriter) Write(report *PatchesReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Patches")
	fmt.Fprintf(out, "Repository: %s\n", report.Repo)
	if report.Status != "" {
		fmt.Fprintf(out, "Status: %s\n", report.Status)
	}
	fmt.Fprintf(out, "Showing %d from offset %d\n\n", len(report.Page.Content), report.Page.Cursor)

	if len(report.Page.Content) == 0 {
		fmt.Fprintln(out, "No patches found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tStatus\tTitle\tAuthor\tRevisions\tCreated")
	for _, s := range limitTop(report.Page.Content, options.Top) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			shortHash(s.ID),
			statusColor(s.State.Status)(string(s.State.Status)),
			truncateMessage(s.Title, 50),
			s.Author.DisplayName(),
			s.RevisionCount,
			formatMillis(s.Timestamp),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if report.Page.More {
		fmt.Fprintf(out, "\nMore patches available; continue with --cursor %d\n",
			report.Page.Cursor+len(report.Page.Content))
	}
	return nil
}

// ConsoleCountsWriter writes patch counts to the console.
type ConsoleCountsWriter struct{}

// Write outputs the status counts.
func (w *ConsoleCountsWriter) Write(report *CountsReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Patch Counts")
	fmt.Fprintf(out, "Repository: %s\n\n", report.Repo)

	c := report.Counts
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%d\n", statusColor(patch.StatusOpen)("open"), c.Open)
	fmt.Fprintf(tw, "%s\t%d\n", statusColor(patch.StatusDraft)("draft"), c.Draft)
	fmt.Fprintf(tw, "%s\t%d\n", statusColor(patch.StatusArchived)("archived"), c.Archived)
	fmt.Fprintf(tw, "%s\t%d\n", statusColor(patch.StatusMerged)("merged"), c.Merged)
	fmt.Fprintf(tw, "total\t%d\n", c.Total())
	return tw.Flush()
}

// ConsoleInboxWriter writes notifications to the console.
type ConsoleInboxWriter struct{}

// Write outputs notifications grouped by repository and ref.
func (w *ConsoleInboxWriter) Write(report *InboxReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Notifications")
	fmt.Fprintf(out, "Total: %d\n", report.Total)

	if len(report.Repos) == 0 {
		fmt.Fprintln(out, "\nNo notifications.")
		return nil
	}

	for _, repo := range report.Repos {
		fmt.Fprintln(out)
		color.New(color.Bold).Fprintf(out, "%s (%d)\n", repo.Repo, repo.Count)

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, ref := range limitTop(repo.Refs, options.Top) {
			for _, item := range ref {
				fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%d ops\t%s\n",
					shortHash(item.COB.ID.String()),
					item.Status,
					truncateMessage(item.Title, 50),
					describeUpdate(item.Update),
					len(item.Actions),
					formatMillis(item.Timestamp),
				)
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func statusColor(status patch.Status) func(string, ...interface{}) string {
	switch status {
	case patch.StatusOpen:
		return color.GreenString
	case patch.StatusDraft:
		return color.HiBlackString
	case patch.StatusArchived:
		return color.YellowString
	case patch.StatusMerged:
		return color.MagentaString
	default:
		return fmt.Sprintf
	}
}
