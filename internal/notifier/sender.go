package notifier

import (
	"context"
	"fmt"

	"github.com/potooio/campaign-notifier/internal/types"
)

// Notification is the rendered payload for a single campaign report.
type Notification struct {
	CampaignKey string
	Status      types.ExecutionStatus

	// Header is plain text shown above the attachment.
	Header string
	// Fallback is the plain-text summary for clients that cannot render blocks.
	Fallback string
	// Color is the attachment bar color.
	Color string
	// Body is the mrkdwn summary rendered inside the attachment.
	Body string
}

// BuildNotification renders the header, attachment body and colors for a report.
func BuildNotification(campaignKey string, report types.CampaignReport) Notification {
	scheme := ColorSchemeFor(report.Status)
	return Notification{
		CampaignKey: campaignKey,
		Status:      report.Status,
		Header:      fmt.Sprintf("%s %s %s", campaignKey, report.Status, scheme.Marker),
		Fallback:    fmt.Sprintf("%s %s", campaignKey, report.Status),
		Color:       scheme.Color,
		Body:        ComposeMessage(report),
	}
}

// PostResult is the outcome of a single post. Channel and Timestamp identify
// the posted message on success; Err is set on failure.
type PostResult struct {
	Channel   string
	Timestamp string
	Err       error
}

// ChatPoster is the interface for the external chat channel.
type ChatPoster interface {
	// Name returns the poster's identifier (e.g., "slack").
	Name() string

	// PostAsync issues one delivery attempt in the background. The returned
	// channel yields exactly one result and is then closed.
	PostAsync(ctx context.Context, n Notification) <-chan PostResult
}
