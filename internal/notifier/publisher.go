package notifier

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/potooio/campaign-notifier/internal/types"
)

// Publisher filters campaign reports by status and posts a summary for the
// ones that match. Publish never returns an error: delivery failures are
// logged and dropped.
type Publisher struct {
	logger     *zap.Logger
	poster     ChatPoster
	subscribed types.StatusSet
}

// NewPublisher creates a Publisher bound to a single, long-lived poster.
func NewPublisher(poster ChatPoster, logger *zap.Logger, subscribed types.StatusSet) *Publisher {
	return &Publisher{
		logger:     logger.Named("publisher"),
		poster:     poster,
		subscribed: subscribed,
	}
}

// Publish sends a notification for report if its status is subscribed.
//
// The post is issued asynchronously and awaited once. Cancelling ctx does not
// abort an issued post. Panics if the Publisher was built without a poster.
func (p *Publisher) Publish(ctx context.Context, campaignKey string, report types.CampaignReport) {
	if p.poster == nil {
		panic("notifier: Publish called before the chat client was initialized")
	}
	if !ShouldNotify(report.Status, p.subscribed) {
		notificationSendTotal.WithLabelValues("skipped").Inc()
		return
	}

	n := BuildNotification(campaignKey, report)
	id := uuid.NewString()

	result := <-p.poster.PostAsync(context.WithoutCancel(ctx), n)
	if result.Err != nil {
		fields := []zap.Field{
			zap.String("notification_id", id),
			zap.String("sender", p.poster.Name()),
			zap.String("campaign", campaignKey),
			zap.String("status", string(report.Status)),
			zap.Error(result.Err),
		}
		var postErr *PostError
		if errors.As(result.Err, &postErr) {
			fields = append(fields, zap.Bool("retryable", postErr.Retryable()))
		}
		p.logger.Error("Failed to send notification", fields...)
		return
	}

	p.logger.Info("Notification sent",
		zap.String("notification_id", id),
		zap.String("sender", p.poster.Name()),
		zap.String("campaign", campaignKey),
		zap.String("channel", result.Channel),
		zap.String("ts", result.Timestamp),
	)
}
