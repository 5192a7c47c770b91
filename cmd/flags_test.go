package cmd

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/masmgr/cobwalk-go/config"
	"github.com/masmgr/cobwalk-go/internal/cob"
	"github.com/masmgr/cobwalk-go/internal/cob/patch"
	"github.com/masmgr/cobwalk-go/internal/inbox"
	"github.com/masmgr/cobwalk-go/internal/output"
)

func TestParseTypeFlag(t *testing.T) {
	registry := inbox.DefaultRegistry()
	tests := []struct {
		name    string
		input   string
		want    cob.TypeName
		wantErr bool
	}{
		{name: "DefaultPatch", input: "", want: cob.TypePatch},
		{name: "Patch", input: "patch", want: cob.TypePatch},
		{name: "IssueUpper", input: "Issue", want: cob.TypeIssue},
		{name: "FullName", input: "xyz.radicle.issue", want: cob.TypeIssue},
		{name: "Unregistered", input: "xyz.radicle.id", wantErr: true},
		{name: "Invalid", input: "wiki", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTypeFlag(tt.input, registry)
			if tt.wantErr {
				if !errors.Is(err, inbox.ErrUnknownType) {
					t.Fatalf("expected ErrUnknownType, got %v", err)
				}
				for _, known := range registry.TypeNames() {
					if !strings.Contains(err.Error(), known.String()) {
						t.Fatalf("error %q does not list %s", err, known)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseTypeFlag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHashFlag(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		got, err := parseHashFlag("since", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})

	t.Run("Valid", func(t *testing.T) {
		const h = "0123456789abcdef0123456789abcdef01234567"
		got, err := parseHashFlag("since", h)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.String() != h {
			t.Fatalf("parseHashFlag = %s, want %s", got, h)
		}
	})

	t.Run("Short", func(t *testing.T) {
		if _, err := parseHashFlag("until", "0123abc"); err == nil {
			t.Fatalf("expected error, got nil")
		}
	})
}

func TestParseStatusFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    patch.Status
		wantErr bool
	}{
		{input: "", want: ""},
		{input: "all", want: ""},
		{input: "open", want: patch.StatusOpen},
		{input: "merged", want: patch.StatusMerged},
		{input: "closed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseStatusFlag(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseStatusFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("parseStatusFlag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPatchWindow(t *testing.T) {
	t.Run("All", func(t *testing.T) {
		w := patchWindow(10, 5, 20, true)
		if w.Take != nil {
			t.Fatalf("expected unbounded window, got take %d", *w.Take)
		}
	})

	t.Run("PageSizeFallback", func(t *testing.T) {
		w := patchWindow(40, 0, 20, false)
		if w.Take == nil || *w.Take != 20 || w.Cursor != 40 {
			t.Fatalf("patchWindow = %+v, want cursor 40 take 20", w)
		}
	})

	t.Run("ExplicitTake", func(t *testing.T) {
		w := patchWindow(0, 3, 20, false)
		if w.Take == nil || *w.Take != 3 {
			t.Fatalf("patchWindow = %+v, want take 3", w)
		}
	})
}

func TestGetOutputFormat(t *testing.T) {
	tests := []struct {
		input string
		want  output.OutputFormat
	}{
		{input: "json", want: output.FormatJSON},
		{input: "csv", want: output.FormatCSV},
		{input: "markdown", want: output.FormatMarkdown},
		{input: "md", want: output.FormatMarkdown},
		{input: "ndjson", want: output.FormatNDJSON},
		{input: "jsonl", want: output.FormatNDJSON},
		{input: "console", want: output.FormatConsole},
		{input: "unknown", want: output.FormatConsole},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := getOutputFormat(tt.input); got != tt.want {
				t.Fatalf("getOutputFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(config.LogConfig{Level: "WARN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !log.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("warn should be enabled at warn level")
	}

	if _, err := newLogger(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
