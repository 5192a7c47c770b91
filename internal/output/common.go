package output

import (
	"io"
	"os"
	"time"

	"github.com/masmgr/cobwalk-go/internal/inbox"
)

const (
	reportDateTimeLayout = "2006-01-02T15:04:05"
	shortHashLen         = 7
)

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

func truncateMessage(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen-3] + "..."
}

func shortHash(h string) string {
	if len(h) > shortHashLen {
		return h[:shortHashLen]
	}
	return h
}

// formatMillis formats a millisecond Unix timestamp in UTC.
func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(reportDateTimeLayout)
}

// describeAction returns the one line summary of a decoded action.
func describeAction(action any) string {
	if d, ok := action.(interface{ Describe() string }); ok {
		return d.Describe()
	}
	return "unknown action"
}

// describeUpdate renders a ref movement as old..new.
func describeUpdate(u inbox.RefUpdate) string {
	switch u.Kind {
	case inbox.Updated:
		return shortHash(u.Old.String()) + ".." + shortHash(u.New.String())
	case inbox.Created:
		return "+" + shortHash(u.New.String())
	case inbox.Deleted:
		return "-" + shortHash(u.Old.String())
	default:
		return u.Kind.String()
	}
}

// flattenInbox returns the notification items of every repository in order.
func flattenInbox(report *InboxReport) []inbox.Item {
	var items []inbox.Item
	for _, repo := range report.Repos {
		for _, ref := range repo.Refs {
			items = append(items, ref...)
		}
	}
	return items
}
