package output

import (
	"fmt"
	"strings"

	"github.com/masmgr/cobwalk-go/internal/cob/patch"
)

// MarkdownPatchesWriter writes patch listings as Markdown.
type MarkdownPatchesWriter struct{}

// Write outputs the patch page as a Markdown table.
func (w *MarkdownPatchesWriter) Write(report *PatchesReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Patches")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.Repo)
	if report.Status != "" {
		fmt.Fprintf(out, "**Status:** %s\n\n", report.Status)
	}

	if len(report.Page.Content) == 0 {
		fmt.Fprintln(out, "_No patches found._")
		return nil
	}

	fmt.Fprintln(out, "| ID | Status | Title | Author | Revisions | Created |")
	fmt.Fprintln(out, "|----|--------|-------|--------|-----------|---------|")
	for _, s := range limitTop(report.Page.Content, options.Top) {
		fmt.Fprintf(out, "| `%s` | %s %s | %s | %s | %d | %s |\n",
			shortHash(s.ID),
			statusEmoji(s.State.Status),
			s.State.Status,
			escapeMarkdown(s.Title),
			escapeMarkdown(s.Author.DisplayName()),
			s.RevisionCount,
			formatMillis(s.Timestamp),
		)
	}
	if report.Page.More {
		fmt.Fprintf(out, "\n_More patches after offset %d._\n", report.Page.Cursor+len(report.Page.Content))
	}
	return nil
}

// MarkdownInboxWriter writes notifications as Markdown.
type MarkdownInboxWriter struct{}

// Write outputs one section per repository.
func (w *MarkdownInboxWriter) Write(report *InboxReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Notifications")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Total:** %d\n", report.Total)

	for _, repo := range report.Repos {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "## %s (%d)\n\n", repo.Repo, repo.Count)
		fmt.Fprintln(out, "| Object | Status | Title | Update | Operations |")
		fmt.Fprintln(out, "|--------|--------|-------|--------|------------|")
		for _, ref := range limitTop(repo.Refs, options.Top) {
			for _, item := range ref {
				fmt.Fprintf(out, "| `%s` | %s | %s | %s | %d |\n",
					shortHash(item.COB.ID.String()),
					item.Status,
					escapeMarkdown(item.Title),
					describeUpdate(item.Update),
					len(item.Actions),
				)
			}
		}
	}
	return nil
}

func statusEmoji(status patch.Status) string {
	switch status {
	case patch.StatusOpen:
		return "🟢"
	case patch.StatusMerged:
		return "🟣"
	case patch.StatusArchived:
		return "🟡"
	default:
		return "⚪"
	}
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
