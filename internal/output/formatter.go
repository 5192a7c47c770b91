package output

import (
	"time"

	"github.com/masmgr/cobwalk-go/internal/cob"
	"github.com/masmgr/cobwalk-go/internal/cob/patch"
	"github.com/masmgr/cobwalk-go/internal/inbox"
	"github.com/masmgr/cobwalk-go/internal/patches"
	"github.com/masmgr/cobwalk-go/internal/readmodel"
)

// Compile-time interface conformance checks.
var (
	_ ActionsReportWriter = (*ConsoleActionsWriter)(nil)
	_ ActionsReportWriter = (*JSONActionsWriter)(nil)
	_ ActionsReportWriter = (*CSVActionsWriter)(nil)
	_ ActionsReportWriter = (*NDJSONActionsWriter)(nil)

	_ PatchesReportWriter = (*ConsolePatchesWriter)(nil)
	_ PatchesReportWriter = (*JSONPatchesWriter)(nil)
	_ PatchesReportWriter = (*CSVPatchesWriter)(nil)
	_ PatchesReportWriter = (*MarkdownPatchesWriter)(nil)

	_ CountsReportWriter = (*ConsoleCountsWriter)(nil)
	_ CountsReportWriter = (*JSONCountsWriter)(nil)
	_ CountsReportWriter = (*CSVCountsWriter)(nil)

	_ InboxReportWriter = (*ConsoleInboxWriter)(nil)
	_ InboxReportWriter = (*JSONInboxWriter)(nil)
	_ InboxReportWriter = (*CSVInboxWriter)(nil)
	_ InboxReportWriter = (*NDJSONInboxWriter)(nil)
	_ InboxReportWriter = (*MarkdownInboxWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatNDJSON   OutputFormat = "ndjson"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
}

// ActionsReport holds the operations read from one COB.
type ActionsReport struct {
	Repo        string
	COB         cob.TypedID
	GeneratedAt time.Time
	Operations  []cob.Operation[any]
}

// PatchesReport holds one page of patches.
type PatchesReport struct {
	Repo        string
	Status      patch.Status
	GeneratedAt time.Time
	Page        readmodel.Page[patches.Summary]
}

// CountsReport holds the patch status counts of a repository.
type CountsReport struct {
	Repo        string
	GeneratedAt time.Time
	Counts      patches.Counts
}

// InboxReport holds resolved notifications.
type InboxReport struct {
	GeneratedAt time.Time
	Total       int
	Repos       []inbox.RepoNotifications
}

// ActionsReportWriter writes action reports.
type ActionsReportWriter interface {
	Write(report *ActionsReport, options OutputOptions) error
}

// PatchesReportWriter writes patch listings.
type PatchesReportWriter interface {
	Write(report *PatchesReport, options OutputOptions) error
}

// CountsReportWriter writes patch counts.
type CountsReportWriter interface {
	Write(report *CountsReport, options OutputOptions) error
}

// InboxReportWriter writes notification listings.
type InboxReportWriter interface {
	Write(report *InboxReport, options OutputOptions) error
}

// NewActionsReportWriter creates an action report writer for the specified format.
func NewActionsReportWriter(format OutputFormat) ActionsReportWriter {
	switch format {
	case FormatJSON:
		return &JSONActionsWriter{}
	case FormatCSV:
		return &CSVActionsWriter{}
	case FormatNDJSON:
		return &NDJSONActionsWriter{}
	default:
		return &ConsoleActionsWriter{}
	}
}

// NewPatchesReportWriter creates a patch listing writer for the specified format.
func NewPatchesReportWriter(format OutputFormat) PatchesReportWriter {
	switch format {
	case FormatJSON:
		return &JSONPatchesWriter{}
	case FormatCSV:
		return &CSVPatchesWriter{}
	case FormatMarkdown:
		return &MarkdownPatchesWriter{}
	default:
		return &ConsolePatchesWriter{}
	}
}

// NewCountsReportWriter creates a counts writer for the specified format.
func NewCountsReportWriter(format OutputFormat) CountsReportWriter {
	switch format {
	case FormatJSON:
		return &JSONCountsWriter{}
	case FormatCSV:
		return &CSVCountsWriter{}
	default:
		return &ConsoleCountsWriter{}
	}
}

// NewInboxReportWriter creates a notification writer for the specified format.
func NewInboxReportWriter(format OutputFormat) InboxReportWriter {
	switch format {
	case FormatJSON:
		return &JSONInboxWriter{}
	case FormatCSV:
		return &CSVInboxWriter{}
	case FormatNDJSON:
		return &NDJSONInboxWriter{}
	case FormatMarkdown:
		return &MarkdownInboxWriter{}
	default:
		return &ConsoleInboxWriter{}
	}
}
