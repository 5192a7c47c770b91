package output

import (
	"fmt"
	"testing"
)

func TestNewWriters(t *testing.T) {
	tests := []struct {
		format  OutputFormat
		actions string
		patches string
		counts  string
		inbox   string
	}{
		{FormatConsole, "*output.ConsoleActionsWriter", "*output.ConsolePatchesWriter", "*output.ConsoleCountsWriter", "*output.ConsoleInboxWriter"},
		{FormatJSON, "*output.JSONActionsWriter", "*output.JSONPatchesWriter", "*output.JSONCountsWriter", "*output.JSONInboxWriter"},
		{FormatCSV, "*output.CSVActionsWriter", "*output.CSVPatchesWriter", "*output.CSVCountsWriter", "*output.CSVInboxWriter"},
		{FormatMarkdown, "*output.ConsoleActionsWriter", "*output.MarkdownPatchesWriter", "*output.ConsoleCountsWriter", "*output.MarkdownInboxWriter"},
		{FormatNDJSON, "*output.NDJSONActionsWriter", "*output.ConsolePatchesWriter", "*output.ConsoleCountsWriter", "*output.NDJSONInboxWriter"},
		{"unknown", "*output.ConsoleActionsWriter", "*output.ConsolePatchesWriter", "*output.ConsoleCountsWriter", "*output.ConsoleInboxWriter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := fmt.Sprintf("%T", NewActionsReportWriter(tt.format)); got != tt.actions {
				t.Errorf("actions writer = %s, expected %s", got, tt.actions)
			}
			if got := fmt.Sprintf("%T", NewPatchesReportWriter(tt.format)); got != tt.patches {
				t.Errorf("patches writer = %s, expected %s", got, tt.patches)
			}
			if got := fmt.Sprintf("%T", NewCountsReportWriter(tt.format)); got != tt.counts {
				t.Errorf("counts writer = %s, expected %s", got, tt.counts)
			}
			if got := fmt.Sprintf("%T", NewInboxReportWriter(tt.format)); got != tt.inbox {
				t.Errorf("inbox writer = %s, expected %s", got, tt.inbox)
			}
		})
	}
}
