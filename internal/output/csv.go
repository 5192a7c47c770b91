package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CSVActionsWriter writes action reports as CSV, one row per action.
type CSVActionsWriter struct{}

// Write outputs the action report as CSV.
func (w *CSVActionsWriter) Write(report *ActionsReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writer.Write([]string{"Change", "Author", "Alias", "Timestamp", "Index", "Action"}); err != nil {
		return err
	}
	for _, op := range limitTop(report.Operations, options.Top) {
		alias := ""
		if op.Author.Alias != nil {
			alias = *op.Author.Alias
		}
		for i, action := range op.Actions {
			row := []string{
				op.EntryID.String(),
				op.Author.ID,
				alias,
				op.Timestamp.UTC().Format(reportDateTimeLayout),
				fmt.Sprintf("%d", i+1),
				describeAction(action),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVPatchesWriter writes patch listings as CSV.
type CSVPatchesWriter struct{}

// Write outputs the patch page as CSV.
func (w *CSVPatchesWriter) Write(report *PatchesReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headers := []string{"ID", "Status", "Title", "Author", "Base", "Head", "Labels", "Revisions", "Timestamp"}
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, s := range limitTop(report.Page.Content, options.Top) {
		row := []string{
			s.ID,
			string(s.State.Status),
			s.Title,
			s.Author.ID,
			s.Base,
			s.Head,
			strings.Join(s.Labels, ";"),
			fmt.Sprintf("%d", s.RevisionCount),
			fmt.Sprintf("%d", s.Timestamp),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVCountsWriter writes patch counts as CSV.
type CSVCountsWriter struct{}

// Write outputs the counts as CSV.
func (w *CSVCountsWriter) Write(report *CountsReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	c := report.Counts
	rows := [][]string{
		{"Repo", "Open", "Draft", "Archived", "Merged", "Total"},
		{
			report.Repo,
			fmt.Sprintf("%d", c.Open),
			fmt.Sprintf("%d", c.Draft),
			fmt.Sprintf("%d", c.Archived),
			fmt.Sprintf("%d", c.Merged),
			fmt.Sprintf("%d", c.Total()),
		},
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return nil
}

// CSVInboxWriter writes notifications as CSV, one row per notification.
type CSVInboxWriter struct{}

// Write outputs the notifications as CSV.
func (w *CSVInboxWriter) Write(report *InboxReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headers := []string{"RowID", "Repo", "Type", "ID", "Update", "Old", "New", "Title", "Status", "Operations", "Timestamp"}
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, item := range flattenInbox(report) {
		oldHash, newHash := "", ""
		if !item.Update.Old.IsZero() {
			oldHash = item.Update.Old.String()
		}
		if !item.Update.New.IsZero() {
			newHash = item.Update.New.String()
		}
		row := []string{
			fmt.Sprintf("%d", item.RowID),
			item.Repo,
			item.COB.TypeName.String(),
			item.COB.ID.String(),
			item.Update.Kind.String(),
			oldHash,
			newHash,
			item.Title,
			item.Status,
			fmt.Sprintf("%d", len(item.Actions)),
			formatMillis(item.Timestamp),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
