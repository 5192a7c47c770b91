package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/masmgr/cobwalk-go/internal/cob"
	"github.com/masmgr/cobwalk-go/internal/inbox"
	"github.com/masmgr/cobwalk-go/internal/patches"
)

// JSONActionsWriter writes action reports as JSON.
type JSONActionsWriter struct{}

// JSONActionsReport is the JSON output structure for a COB history.
type JSONActionsReport struct {
	Repo        string               `json:"repo"`
	COB         cob.TypedID          `json:"cob"`
	GeneratedAt string               `json:"generatedAt"`
	Total       int                  `json:"total"`
	Operations  []cob.Operation[any] `json:"operations"`
}

// Write outputs the action report as JSON.
func (w *JSONActionsWriter) Write(report *ActionsReport, options OutputOptions) error {
	ops := limitTop(report.Operations, options.Top)
	if ops == nil {
		ops = []cob.Operation[any]{}
	}
	return writeJSON(JSONActionsReport{
		Repo:        report.Repo,
		COB:         report.COB,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Total:       len(report.Operations),
		Operations:  ops,
	}, options.OutputPath)
}

// JSONPatchesWriter writes patch listings as JSON.
type JSONPatchesWriter struct{}

// JSONPatchesReport is the JSON output structure for a page of patches.
type JSONPatchesReport struct {
	Repo        string            `json:"repo"`
	Status      string            `json:"status,omitempty"`
	GeneratedAt string            `json:"generatedAt"`
	Cursor      int               `json:"cursor"`
	More        bool              `json:"more"`
	Content     []patches.Summary `json:"content"`
}

// Write outputs the patch page as JSON.
func (w *JSONPatchesWriter) Write(report *PatchesReport, options OutputOptions) error {
	content := limitTop(report.Page.Content, options.Top)
	if content == nil {
		content = []patches.Summary{}
	}
	return writeJSON(JSONPatchesReport{
		Repo:        report.Repo,
		Status:      string(report.Status),
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Cursor:      report.Page.Cursor,
		More:        report.Page.More,
		Content:     content,
	}, options.OutputPath)
}

// JSONCountsWriter writes patch counts as JSON.
type JSONCountsWriter struct{}

// JSONCountsReport is the JSON output structure for patch counts.
type JSONCountsReport struct {
	Repo   string         `json:"repo"`
	Counts patches.Counts `json:"counts"`
	Total  int            `json:"total"`
}

// Write outputs the counts as JSON.
func (w *JSONCountsWriter) Write(report *CountsReport, options OutputOptions) error {
	return writeJSON(JSONCountsReport{
		Repo:   report.Repo,
		Counts: report.Counts,
		Total:  report.Counts.Total(),
	}, options.OutputPath)
}

// JSONInboxWriter writes notifications as JSON.
type JSONInboxWriter struct{}

// JSONInboxReport is the JSON output structure for notifications.
type JSONInboxReport struct {
	GeneratedAt string                    `json:"generatedAt"`
	Total       int                       `json:"total"`
	Repos       []inbox.RepoNotifications `json:"repos"`
}

// Write outputs the notifications as JSON.
func (w *JSONInboxWriter) Write(report *InboxReport, options OutputOptions) error {
	repos := report.Repos
	if repos == nil {
		repos = []inbox.RepoNotifications{}
	}
	return writeJSON(JSONInboxReport{
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Total:       report.Total,
		Repos:       repos,
	}, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
