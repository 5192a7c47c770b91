package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/masmgr/cobwalk-go/internal/cob"
	"github.com/masmgr/cobwalk-go/internal/inbox"
)

// NDJSONActionsWriter writes action reports as NDJSON (one JSON object per
// line) for piping into other tools.
type NDJSONActionsWriter struct{}

// NDJSONSummary is the first line of NDJSON output.
type NDJSONSummary struct {
	Type  string `json:"type"`
	Total int    `json:"total"`
}

// NDJSONOperation is one operation line.
type NDJSONOperation struct {
	Type string `json:"type"`
	cob.Operation[any]
}

// NDJSONNotification is one notification line.
type NDJSONNotification struct {
	Type string `json:"type"`
	inbox.Item
}

// Write outputs a summary line followed by one line per operation.
func (w *NDJSONActionsWriter) Write(report *ActionsReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	ops := limitTop(report.Operations, options.Top)
	if err := writeNDJSONLine(out, NDJSONSummary{Type: "summary", Total: len(ops)}); err != nil {
		return err
	}
	for _, op := range ops {
		if err := writeNDJSONLine(out, NDJSONOperation{Type: "operation", Operation: op}); err != nil {
			return err
		}
	}
	return nil
}

// NDJSONInboxWriter writes notifications as NDJSON.
type NDJSONInboxWriter struct{}

// Write outputs a summary line followed by one line per notification.
func (w *NDJSONInboxWriter) Write(report *InboxReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	items := flattenInbox(report)
	if err := writeNDJSONLine(out, NDJSONSummary{Type: "summary", Total: report.Total}); err != nil {
		return err
	}
	for _, item := range items {
		if err := writeNDJSONLine(out, NDJSONNotification{Type: "notification", Item: item}); err != nil {
			return err
		}
	}
	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
