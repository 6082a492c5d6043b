package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

const (
	defaultSlackTimeout = 10 * time.Second
	postMessageMethod   = "chat.postMessage"
)

// slackAPI is the subset of *slack.Client used by SlackSender.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackSender implements ChatPoster on top of the Slack Web API.
// The underlying client is built once and shared by all posts.
type SlackSender struct {
	api     slackAPI
	logger  *zap.Logger
	url     string
	channel string
}

// SlackSenderConfig holds the configuration for creating a SlackSender.
type SlackSenderConfig struct {
	// URL is the full chat.postMessage endpoint.
	URL     string
	Channel string
	// Token is the bot token. Stored at construction time; rotation requires a restart.
	Token          string
	TimeoutSeconds int
}

// NewSlackSender creates a SlackSender. Returns an error if the URL is invalid
// or the channel or token is missing.
func NewSlackSender(logger *zap.Logger, cfg SlackSenderConfig) (*SlackSender, error) {
	if strings.TrimSpace(cfg.Channel) == "" {
		return nil, fmt.Errorf("slack channel is required")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("slack token is required")
	}
	base, err := APIBaseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = defaultSlackTimeout
	}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: http.DefaultTransport.(*http.Transport).Clone(),
	}

	return &SlackSender{
		api:     slack.New(cfg.Token, slack.OptionAPIURL(base), slack.OptionHTTPClient(httpClient)),
		logger:  logger.Named("slack-sender"),
		url:     cfg.URL,
		channel: cfg.Channel,
	}, nil
}

// APIBaseURL turns a chat.postMessage endpoint into the method base URL the
// Slack client expects, e.g. https://slack.com/api/chat.postMessage -> https://slack.com/api/.
func APIBaseURL(postURL string) (string, error) {
	if postURL == "" {
		return "", fmt.Errorf("slack URL is required")
	}
	u, err := url.Parse(postURL)
	if err != nil {
		return "", fmt.Errorf("invalid slack URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("slack URL must use http or https scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("slack URL must include a host")
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, postMessageMethod)
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String(), nil
}

// Name implements ChatPoster.
func (s *SlackSender) Name() string { return "slack" }

// PostAsync implements ChatPoster. The post runs on its own goroutine and is
// never retried.
func (s *SlackSender) PostAsync(ctx context.Context, n Notification) <-chan PostResult {
	out := make(chan PostResult, 1)
	go func() {
		defer close(out)
		channel, ts, err := s.post(ctx, n)
		out <- PostResult{Channel: channel, Timestamp: ts, Err: err}
	}()
	return out
}

// post performs a single chat.postMessage call.
func (s *SlackSender) post(ctx context.Context, n Notification) (string, string, error) {
	start := time.Now()
	channel, ts, err := s.api.PostMessageContext(ctx, s.channel, MessageOptions(n)...)
	duration := time.Since(start).Seconds()
	if err != nil {
		notificationSendTotal.WithLabelValues("error").Inc()
		notificationSendDuration.WithLabelValues("error").Observe(duration)
		s.logger.Debug("chat.postMessage failed",
			zap.String("url", RedactURL(s.url)),
			zap.String("campaign", n.CampaignKey),
			zap.Error(err),
		)
		return "", "", &PostError{err: err, retryable: isRetryable(err)}
	}
	notificationSendTotal.WithLabelValues("success").Inc()
	notificationSendDuration.WithLabelValues("success").Observe(duration)
	return channel, ts, nil
}

// MessageOptions builds the Slack message: a plain-text header block and one
// colored attachment holding the mrkdwn body.
func MessageOptions(n Notification) []slack.MsgOption {
	header := slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, n.Header, true, false))
	body := slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, n.Body, false, false), nil, nil)
	attachment := slack.Attachment{
		Color:    n.Color,
		Fallback: n.Fallback,
		Blocks:   slack.Blocks{BlockSet: []slack.Block{body}},
	}
	return []slack.MsgOption{
		slack.MsgOptionBlocks(header),
		slack.MsgOptionAttachments(attachment),
	}
}

// PostError wraps a failed post. Retryable only classifies the failure for
// logs; posts are never retried.
type PostError struct {
	err       error
	retryable bool
}

func (e *PostError) Error() string { return "post message: " + e.err.Error() }
func (e *PostError) Unwrap() error { return e.err }
func (e *PostError) Retryable() bool { return e.retryable }

// isRetryable returns true for transient failures: rate limiting, 5xx and
// connection-level errors. Slack API errors (invalid_auth, channel_not_found) are not.
func isRetryable(err error) bool {
	var rateLimited *slack.RateLimitedError
	if errors.As(err, &rateLimited) {
		return true
	}
	var statusErr slack.StatusCodeError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	var apiErr slack.SlackErrorResponse
	if errors.As(err, &apiErr) {
		return false
	}
	return !errors.Is(err, context.Canceled)
}

// RedactURL drops userinfo, query and fragment from a Slack endpoint so it
// can be logged. Only scheme, host and method path remain.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String()
}
