// Package notifier decides whether a campaign report warrants a chat notification,
// renders it, and posts it to Slack.
//
// # Contract
//
// The Publisher:
//  1. Receives a CampaignReport from the orchestrator via Publish(ctx, campaignKey, report)
//  2. Drops it silently unless the status is notifiable (SUCCESSFUL, WARNING, FAILED,
//     ABORTED) and subscribed, either directly or through ALL
//  3. Renders a Notification:
//     - header:   "{campaignKey} {status} {marker}" as plain text
//     - fallback: "{campaignKey} {status}"
//     - body:     one labelled mrkdwn line per report field, "<Running>" for an open end
//  4. Issues exactly one asynchronous post through the ChatPoster and awaits it
//  5. Logs the outcome. Failures never cross the Publish boundary.
//
// # Colors
//
//	SUCCESSFUL -> #36a64f :large_green_circle:
//	WARNING    -> #e69d0b :large_orange_circle:
//	otherwise  -> #bf0606 :red_circle:
//
// # Delivery
//
// There is no retry, backoff or queue. Cancelling the caller's context does not
// abort a post that has been issued; the only timeout is the HTTP client's.
//
// # Types
//
//	type Publisher struct { ... }
//	func NewPublisher(poster ChatPoster, logger *zap.Logger, subscribed types.StatusSet) *Publisher
//	func (p *Publisher) Publish(ctx context.Context, campaignKey string, report types.CampaignReport)
//
//	type SlackSender struct { ... }
//	func NewSlackSender(logger *zap.Logger, cfg SlackSenderConfig) (*SlackSender, error)
//	func (s *SlackSender) PostAsync(ctx context.Context, n Notification) <-chan PostResult
package notifier
