package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/potooio/campaign-notifier/internal/types"
)

// RunningIndicator replaces the end time and duration of a campaign that has not finished.
const RunningIndicator = "<Running>"

// labelColumn is the width the dotted leader pads each label to.
const labelColumn = 36

const (
	SuccessColor = "#36a64f"
	WarningColor = "#e69d0b"
	FailureColor = "#bf0606"

	SuccessMarker = ":large_green_circle:"
	WarningMarker = ":large_orange_circle:"
	FailureMarker = ":red_circle:"
)

// ColorScheme is the attachment color and header emoji for a campaign outcome.
type ColorScheme struct {
	Color  string
	Marker string
}

// ColorSchemeFor maps a status to its color scheme. Anything that is not
// SUCCESSFUL or WARNING is rendered as a failure.
func ColorSchemeFor(status types.ExecutionStatus) ColorScheme {
	switch status {
	case types.ExecutionStatusSuccessful:
		return ColorScheme{Color: SuccessColor, Marker: SuccessMarker}
	case types.ExecutionStatusWarning:
		return ColorScheme{Color: WarningColor, Marker: WarningMarker}
	default:
		return ColorScheme{Color: FailureColor, Marker: FailureMarker}
	}
}

// ComposeMessage renders the campaign summary as Slack mrkdwn, one labelled line per field.
func ComposeMessage(report types.CampaignReport) string {
	end := RunningIndicator
	duration := RunningIndicator
	if report.End != nil {
		end = formatTime(*report.End)
	}
	if d, ok := report.Duration(); ok {
		duration = fmt.Sprintf("%d seconds", int64(d/time.Second))
	}

	lines := [][2]string{
		{"Campaign", report.CampaignKey},
		{"Start", formatTime(report.Start)},
		{"End", end},
		{"Duration", duration},
		{"Started minions", fmt.Sprint(report.StartedMinions)},
		{"Completed minions", fmt.Sprint(report.CompletedMinions)},
		{"Successful steps executions", fmt.Sprint(report.SuccessfulExecutions)},
		{"Failed steps executions", fmt.Sprint(report.FailedExecutions)},
		{"Status", string(report.Status)},
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(labelLine(l[0], l[1]))
	}
	return b.String()
}

func labelLine(label, value string) string {
	return "*" + label + "*" + strings.Repeat(".", max(3, labelColumn-len(label))) + value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
